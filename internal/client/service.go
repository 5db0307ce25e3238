// Package client coordinates the two stores behind the UI: the backend's
// REST API and the on-device fallback cache. Reads prefer the remote side
// and fall back locally; writes attempt the remote side, swallow its
// outcome and then recompute the local cache unconditionally.
//
// This is a deliberate availability-over-consistency trade: a write never
// fails outward, at the cost of silent divergence between the two stores
// while the network is flaky. There is no reconciliation, retry queue or
// conflict detection between them.
package client

import (
	"context"
	"log/slog"

	"gastowise/internal/core"
	"gastowise/internal/store"
)

type (
	// Remote is the backend-facing store plus its availability probe.
	Remote interface {
		store.CategoryStore
		store.ExpenseStore
		// Available reports reachability within a bounded timeout. It never
		// returns an error; unreachable is an answer, not a failure.
		Available(ctx context.Context) bool
	}

	// Cache is the on-device store. Both entity sets are overwritten
	// wholesale; a read of a never-populated set returns an error.
	Cache interface {
		store.CategoryStore
		Expenses(ctx context.Context) ([]core.Expense, error)
		ReplaceExpenses(ctx context.Context, expenses []core.Expense) error
	}
)

type Service struct {
	remote Remote
	cache  Cache
}

func NewService(remote Remote, cache Cache) *Service {
	return &Service{remote: remote, cache: cache}
}

// Online is a UI display hint only. Reads and writes do not consult it;
// each one attempts the remote side independently.
func (s *Service) Online(ctx context.Context) bool {
	return s.remote.Available(ctx)
}

// Categories returns the remote list when reachable, without writing it
// through to the cache — only writes update the cache. On remote failure it
// falls back to the device cache, seeding the default set the first time.
func (s *Service) Categories(ctx context.Context) []core.Category {
	if categories, err := s.remote.Categories(ctx); err == nil {
		return categories
	} else {
		slog.DebugContext(ctx, "Remote categories unavailable, using device cache", "error", err)
	}

	categories, err := s.cache.Categories(ctx)
	if err != nil {
		// Never populated (or unreadable): seed the defaults and persist
		// them so the next call does not reseed.
		categories = DefaultCategories()
		if err := s.cache.ReplaceCategories(ctx, categories); err != nil {
			slog.WarnContext(ctx, "Failed to persist seed categories", "error", err)
		}
	}
	return categories
}

// SaveCategories attempts the remote full-replace, ignores its outcome and
// persists the list as the new device cache. It never fails outward.
func (s *Service) SaveCategories(ctx context.Context, categories []core.Category) {
	if err := s.remote.ReplaceCategories(ctx, categories); err != nil {
		slog.DebugContext(ctx, "Remote category save failed, keeping local copy only", "error", err)
	}
	if err := s.cache.ReplaceCategories(ctx, categories); err != nil {
		slog.WarnContext(ctx, "Failed to persist categories to device cache", "error", err)
	}
}

// Expenses returns the remote list when reachable, else the device cache,
// else nothing.
func (s *Service) Expenses(ctx context.Context) []core.Expense {
	if expenses, err := s.remote.Expenses(ctx); err == nil {
		return expenses
	} else {
		slog.DebugContext(ctx, "Remote expenses unavailable, using device cache", "error", err)
	}

	expenses, err := s.cache.Expenses(ctx)
	if err != nil {
		return []core.Expense{}
	}
	return expenses
}

// AddExpense attempts the remote insert, ignores its outcome, then rebuilds
// the device cache by prepending the new expense to the current effective
// list. It never fails outward.
func (s *Service) AddExpense(ctx context.Context, e core.Expense) {
	if err := s.remote.AddExpense(ctx, e); err != nil {
		slog.DebugContext(ctx, "Remote expense insert failed, keeping local copy only",
			"id", e.ID, "error", err)
	}

	expenses := s.Expenses(ctx)
	updated := append([]core.Expense{e}, expenses...)
	if err := s.cache.ReplaceExpenses(ctx, updated); err != nil {
		slog.WarnContext(ctx, "Failed to persist expenses to device cache", "id", e.ID, "error", err)
	}
}

// DeleteExpense attempts the remote delete, ignores its outcome, then
// rebuilds the device cache from the current effective list minus the id.
// It never fails outward.
func (s *Service) DeleteExpense(ctx context.Context, id string) {
	if _, err := s.remote.RemoveExpense(ctx, id); err != nil {
		slog.DebugContext(ctx, "Remote expense delete failed, filtering local copy only",
			"id", id, "error", err)
	}

	expenses := s.Expenses(ctx)
	kept := make([]core.Expense, 0, len(expenses))
	for _, e := range expenses {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	if err := s.cache.ReplaceExpenses(ctx, kept); err != nil {
		slog.WarnContext(ctx, "Failed to persist expenses to device cache", "id", id, "error", err)
	}
}
