package localdb

import (
	"context"
	"errors"
	"io/fs"
	"testing"

	"gastowise/internal/core"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return s
}

func TestUnpopulatedCacheReportsNotExist(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.Categories(ctx); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist for categories, got %v", err)
	}
	if _, err := s.Expenses(ctx); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist for expenses, got %v", err)
	}
}

func TestCategoriesReplaceAndRead(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	want := []core.Category{
		{ID: "cat-1", Name: "Alimentación", SubCategories: []string{"Mercado", "Comida Calle"}},
		{ID: "cat-2", Name: "Transporte", SubCategories: []string{}},
	}
	if err := s.ReplaceCategories(ctx, want); err != nil {
		t.Fatalf("replace: %v", err)
	}
	got, err := s.Categories(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 2 || got[0].ID != "cat-1" || got[1].ID != "cat-2" {
		t.Fatalf("unexpected categories: %+v", got)
	}
	if len(got[0].SubCategories) != 2 || got[0].SubCategories[0] != "Mercado" {
		t.Fatalf("subcategory order lost: %+v", got[0].SubCategories)
	}

	// An explicitly saved empty list is populated, not missing.
	if err := s.ReplaceCategories(ctx, nil); err != nil {
		t.Fatalf("replace empty: %v", err)
	}
	got, err = s.Categories(ctx)
	if err != nil || len(got) != 0 {
		t.Fatalf("expected empty populated cache, got %v (err=%v)", got, err)
	}
}

func TestAddExpensePrepends(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := core.Expense{ID: "exp-1", Amount: core.Money{Cents: 100}, Date: "2024-05-01"}
	second := core.Expense{ID: "exp-2", Amount: core.Money{Cents: 200}, Date: "2024-05-02"}
	if err := s.AddExpense(ctx, first); err != nil {
		t.Fatalf("add first: %v", err)
	}
	if err := s.AddExpense(ctx, second); err != nil {
		t.Fatalf("add second: %v", err)
	}

	got, err := s.Expenses(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 2 || got[0].ID != "exp-2" || got[1].ID != "exp-1" {
		t.Fatalf("expected newest first, got %+v", got)
	}
}

func TestRemoveExpenseFilters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.ReplaceExpenses(ctx, []core.Expense{
		{ID: "exp-1", Date: "2024-05-01"},
		{ID: "exp-2", Date: "2024-05-02"},
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	n, err := s.RemoveExpense(ctx, "exp-1")
	if err != nil || n != 1 {
		t.Fatalf("remove: n=%d err=%v", n, err)
	}
	n, err = s.RemoveExpense(ctx, "exp-1")
	if err != nil || n != 0 {
		t.Fatalf("second remove: n=%d err=%v", n, err)
	}

	got, err := s.Expenses(ctx)
	if err != nil || len(got) != 1 || got[0].ID != "exp-2" {
		t.Fatalf("unexpected remainder: %+v (err=%v)", got, err)
	}
}
