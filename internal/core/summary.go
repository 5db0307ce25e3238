package core

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount Money
}

// Summary is a compact aggregation of a set of expenses, used by the CLI
// listing and by the advisor prompt header.
type Summary struct {
	Count      int
	Total      Money
	ByCategory []CategoryAmount
}

// Summarize totals expenses overall and per category name. Category order
// follows first appearance in the input.
func Summarize(expenses []Expense) Summary {
	s := Summary{Count: len(expenses)}
	index := make(map[string]int)
	for _, e := range expenses {
		s.Total.Cents += e.Amount.Cents
		name := e.CategoryName
		if name == "" {
			name = "Sin categoría"
		}
		i, ok := index[name]
		if !ok {
			i = len(s.ByCategory)
			index[name] = i
			s.ByCategory = append(s.ByCategory, CategoryAmount{Name: name})
		}
		s.ByCategory[i].Amount.Cents += e.Amount.Cents
	}
	return s
}
