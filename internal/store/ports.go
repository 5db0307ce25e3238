// Package store defines the ports shared by every expense/category store:
// the backend relational store, the on-device fallback cache and the HTTP
// client all implement the same pair of interfaces, so the data service can
// coordinate them and tests can substitute either side.
package store

import (
	"context"

	"gastowise/internal/core"
)

type (
	CategoryStore interface {
		// Categories returns the full category list in display order.
		Categories(ctx context.Context) ([]core.Category, error)
		// ReplaceCategories swaps the entire collection for the given one.
		// There is no partial update: every edit rewrites the whole list.
		ReplaceCategories(ctx context.Context, categories []core.Category) error
	}

	ExpenseStore interface {
		// Expenses returns all expenses ordered by date descending.
		Expenses(ctx context.Context) ([]core.Expense, error)
		// AddExpense inserts one expense with its client-generated id.
		AddExpense(ctx context.Context, e core.Expense) error
		// RemoveExpense deletes by id and reports how many entries went away
		// (0 or 1).
		RemoveExpense(ctx context.Context, id string) (int, error)
	}
)
