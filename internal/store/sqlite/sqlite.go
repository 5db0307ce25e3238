// Package sqlite is the backend's relational store: two tables (categories,
// expenses) behind the store ports, with the schema created lazily through
// embedded migrations on first open.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gastowise/internal/core"
	"gastowise/internal/store"

	_ "modernc.org/sqlite"
)

type Repository struct {
	db *sql.DB
}

var (
	_ store.CategoryStore = (*Repository)(nil)
	_ store.ExpenseStore  = (*Repository)(nil)
)

func New(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Categories implements store.CategoryStore. Rows come back in the stored
// display order. A row whose subcategory encoding does not decode aborts
// the read: that is a data integrity problem, not a recoverable state.
func (r *Repository) Categories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, sub_categories FROM categories ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	categories := []core.Category{}
	for rows.Next() {
		var c core.Category
		var subs string
		if err := rows.Scan(&c.ID, &c.Name, &subs); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		if err := json.Unmarshal([]byte(subs), &c.SubCategories); err != nil {
			return nil, fmt.Errorf("decode subcategories for %s: %w", c.ID, err)
		}
		if c.SubCategories == nil {
			c.SubCategories = []string{}
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return categories, nil
}

// ReplaceCategories implements store.CategoryStore with full-replace
// semantics: delete-all then bulk insert inside a single transaction, so
// either the whole collection is swapped or nothing changes.
func (r *Repository) ReplaceCategories(ctx context.Context, categories []core.Category) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM categories`); err != nil {
		return fmt.Errorf("clear categories: %w", err)
	}

	for i, c := range categories {
		subs, err := json.Marshal(c.SubCategories)
		if err != nil {
			return fmt.Errorf("encode subcategories for %s: %w", c.ID, err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO categories (id, name, sub_categories, position) VALUES (?, ?, ?, ?)`,
			c.ID, c.Name, string(subs), i)
		if err != nil {
			return fmt.Errorf("insert category %s: %w", c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit categories: %w", err)
	}

	slog.InfoContext(ctx, "Categories replaced", "count", len(categories))
	return nil
}

// Expenses implements store.ExpenseStore, newest date first.
func (r *Repository) Expenses(ctx context.Context) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, amount_cents, category_id, category_name, sub_category, description, date
		 FROM expenses ORDER BY date DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	expenses := []core.Expense{}
	for rows.Next() {
		var e core.Expense
		if err := rows.Scan(&e.ID, &e.Amount.Cents, &e.CategoryID, &e.CategoryName,
			&e.SubCategory, &e.Description, &e.Date); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return expenses, nil
}

// AddExpense implements store.ExpenseStore. A duplicate id violates the
// primary key and surfaces as an error.
func (r *Repository) AddExpense(ctx context.Context, e core.Expense) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (id, amount_cents, category_id, category_name, sub_category, description, date)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Amount.Cents, e.CategoryID, e.CategoryName, e.SubCategory, e.Description, e.Date)
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved",
		"id", e.ID,
		"description", e.Description,
		"amount_cents", e.Amount.Cents,
		"date", e.Date)
	return nil
}

// RemoveExpense implements store.ExpenseStore and reports affected rows.
func (r *Repository) RemoveExpense(ctx context.Context, id string) (int, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return 0, fmt.Errorf("delete expense: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return int(n), nil
}
