// Package localdb is the on-device fallback store: one JSON document per
// logical key (categories, expenses), overwritten wholesale on every write.
// It is a cache of last-known state, not a database — no merging, no
// versioning.
package localdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gastowise/internal/core"
	"gastowise/internal/store"
)

// Persisted key names match the browser client's localStorage keys so a
// cache directory reads naturally next to the original app.
const (
	categoriesKey = "gastowise_categories_fallback"
	expensesKey   = "gastowise_expenses_fallback"
)

type Store struct {
	mu  sync.Mutex
	dir string
}

var (
	_ store.CategoryStore = (*Store)(nil)
	_ store.ExpenseStore  = (*Store)(nil)
)

func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Categories implements store.CategoryStore. A cache that has never been
// populated reports fs.ErrNotExist so callers can tell "empty" from
// "never seeded".
func (s *Store) Categories(_ context.Context) ([]core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var categories []core.Category
	if err := s.read(categoriesKey, &categories); err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []core.Category{}
	}
	return categories, nil
}

// ReplaceCategories implements store.CategoryStore by overwriting the
// whole cached document.
func (s *Store) ReplaceCategories(_ context.Context, categories []core.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if categories == nil {
		categories = []core.Category{}
	}
	return s.write(categoriesKey, categories)
}

// Expenses implements store.ExpenseStore. Same fs.ErrNotExist contract as
// Categories.
func (s *Store) Expenses(_ context.Context) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var expenses []core.Expense
	if err := s.read(expensesKey, &expenses); err != nil {
		return nil, err
	}
	if expenses == nil {
		expenses = []core.Expense{}
	}
	return expenses, nil
}

// ReplaceExpenses overwrites the cached expense document wholesale.
func (s *Store) ReplaceExpenses(_ context.Context, expenses []core.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if expenses == nil {
		expenses = []core.Expense{}
	}
	return s.write(expensesKey, expenses)
}

// AddExpense implements store.ExpenseStore by prepending, keeping the
// newest-first ordering the read side promises.
func (s *Store) AddExpense(ctx context.Context, e core.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var expenses []core.Expense
	if err := s.read(expensesKey, &expenses); err != nil && !isMissing(err) {
		return err
	}
	return s.write(expensesKey, append([]core.Expense{e}, expenses...))
}

// RemoveExpense implements store.ExpenseStore by filtering the cached list.
func (s *Store) RemoveExpense(_ context.Context, id string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var expenses []core.Expense
	if err := s.read(expensesKey, &expenses); err != nil {
		if isMissing(err) {
			return 0, nil
		}
		return 0, err
	}
	kept := expenses[:0]
	removed := 0
	for _, e := range expenses {
		if e.ID == id {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	if removed == 0 {
		return 0, nil
	}
	return removed, s.write(expensesKey, kept)
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

func (s *Store) read(key string, v any) error {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		return fmt.Errorf("read %s: %w", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

// write replaces the document atomically so a crash mid-write never leaves
// a half-serialized cache behind.
func (s *Store) write(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	tmp := s.path(key) + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := os.Rename(tmp, s.path(key)); err != nil {
		return fmt.Errorf("replace %s: %w", key, err)
	}
	return nil
}

func isMissing(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
