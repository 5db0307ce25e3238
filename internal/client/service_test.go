package client

import (
	"context"
	"errors"
	"testing"

	"gastowise/internal/core"
	"gastowise/internal/store/localdb"
)

// fakeRemote implements Remote in memory. With fail set, every operation
// errors the way an unreachable backend would.
type fakeRemote struct {
	fail       bool
	categories []core.Category
	expenses   []core.Expense
}

var errUnreachable = errors.New("connection refused")

func (f *fakeRemote) Available(ctx context.Context) bool { return !f.fail }

func (f *fakeRemote) Categories(ctx context.Context) ([]core.Category, error) {
	if f.fail {
		return nil, errUnreachable
	}
	return f.categories, nil
}

func (f *fakeRemote) ReplaceCategories(ctx context.Context, categories []core.Category) error {
	if f.fail {
		return errUnreachable
	}
	f.categories = categories
	return nil
}

func (f *fakeRemote) Expenses(ctx context.Context) ([]core.Expense, error) {
	if f.fail {
		return nil, errUnreachable
	}
	return f.expenses, nil
}

func (f *fakeRemote) AddExpense(ctx context.Context, e core.Expense) error {
	if f.fail {
		return errUnreachable
	}
	f.expenses = append([]core.Expense{e}, f.expenses...)
	return nil
}

func (f *fakeRemote) RemoveExpense(ctx context.Context, id string) (int, error) {
	if f.fail {
		return 0, errUnreachable
	}
	kept := f.expenses[:0]
	removed := 0
	for _, e := range f.expenses {
		if e.ID == id {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	f.expenses = kept
	return removed, nil
}

func newTestService(t *testing.T, remote *fakeRemote) (*Service, *localdb.Store) {
	t.Helper()
	cache, err := localdb.New(t.TempDir())
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}
	return NewService(remote, cache), cache
}

func TestOnlineReflectsProbe(t *testing.T) {
	svc, _ := newTestService(t, &fakeRemote{})
	if !svc.Online(context.Background()) {
		t.Fatalf("expected online")
	}
	svc, _ = newTestService(t, &fakeRemote{fail: true})
	if svc.Online(context.Background()) {
		t.Fatalf("expected offline")
	}
}

func TestCategoriesSeedsDefaultsOnceWhenOffline(t *testing.T) {
	svc, cache := newTestService(t, &fakeRemote{fail: true})
	ctx := context.Background()

	got := svc.Categories(ctx)
	if len(got) != 6 || got[0].Name != "Alimentación" || got[5].Name != "Salud" {
		t.Fatalf("expected the 6 default categories, got %+v", got)
	}

	// The seed must have been persisted: mutate the cache and verify the
	// second read reflects the cache, not a fresh reseed.
	persisted, err := cache.Categories(ctx)
	if err != nil {
		t.Fatalf("seed was not persisted: %v", err)
	}
	if len(persisted) != 6 {
		t.Fatalf("persisted seed has %d entries", len(persisted))
	}
	if err := cache.ReplaceCategories(ctx, persisted[:2]); err != nil {
		t.Fatalf("trim cache: %v", err)
	}
	if got := svc.Categories(ctx); len(got) != 2 {
		t.Fatalf("expected cached list on second call, got %d entries (reseeded?)", len(got))
	}
}

func TestCategoriesPrefersRemoteWithoutWriteThrough(t *testing.T) {
	remote := &fakeRemote{categories: []core.Category{{ID: "cat-9", Name: "Viajes", SubCategories: []string{}}}}
	svc, cache := newTestService(t, remote)
	ctx := context.Background()

	got := svc.Categories(ctx)
	if len(got) != 1 || got[0].ID != "cat-9" {
		t.Fatalf("expected remote result, got %+v", got)
	}

	// Reads never populate the cache; only writes do.
	if _, err := cache.Categories(ctx); err == nil {
		t.Fatalf("expected cache to stay unpopulated after a read")
	}
}

func TestSaveCategoriesPersistsLocallyEvenWhenOffline(t *testing.T) {
	svc, cache := newTestService(t, &fakeRemote{fail: true})
	ctx := context.Background()

	want := []core.Category{{ID: "cat-1", Name: "Alimentación", SubCategories: []string{"Mercado"}}}
	svc.SaveCategories(ctx, want)

	got, err := cache.Categories(ctx)
	if err != nil || len(got) != 1 || got[0].ID != "cat-1" {
		t.Fatalf("cache not updated: %+v (err=%v)", got, err)
	}
}

func TestAddExpenseOfflineBuildsNewestFirstCache(t *testing.T) {
	svc, _ := newTestService(t, &fakeRemote{fail: true})
	ctx := context.Background()

	first := core.Expense{
		ID: "exp-1", Amount: core.Money{Cents: 1250},
		CategoryID: "cat-1", CategoryName: "Alimentación", SubCategory: "Mercado",
		Description: "Pan", Date: "2024-05-01",
	}
	second := first
	second.ID = "exp-2"

	svc.AddExpense(ctx, first)
	svc.AddExpense(ctx, second)

	got := svc.Expenses(ctx)
	if len(got) != 2 {
		t.Fatalf("expected exactly 2 cached expenses, got %d", len(got))
	}
	if got[0].ID != "exp-2" || got[1].ID != "exp-1" {
		t.Fatalf("expected newest first, got %+v", got)
	}
}

func TestAddExpenseOnlineVisibleExactlyOnce(t *testing.T) {
	remote := &fakeRemote{}
	svc, _ := newTestService(t, remote)
	ctx := context.Background()

	e := core.Expense{ID: "exp-1", Amount: core.Money{Cents: 500}, Date: "2024-05-01"}
	svc.AddExpense(ctx, e)

	got := svc.Expenses(ctx)
	count := 0
	for _, x := range got {
		if x.ID == "exp-1" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected expense exactly once in effective list, got %d", count)
	}
}

func TestDeleteExpenseOfflineFiltersCache(t *testing.T) {
	svc, _ := newTestService(t, &fakeRemote{fail: true})
	ctx := context.Background()

	svc.AddExpense(ctx, core.Expense{ID: "exp-1", Date: "2024-05-01"})
	svc.AddExpense(ctx, core.Expense{ID: "exp-2", Date: "2024-05-02"})
	svc.DeleteExpense(ctx, "exp-1")

	got := svc.Expenses(ctx)
	if len(got) != 1 || got[0].ID != "exp-2" {
		t.Fatalf("expected only exp-2, got %+v", got)
	}

	// Deleting an unknown id quietly does nothing.
	svc.DeleteExpense(ctx, "exp-404")
	if got := svc.Expenses(ctx); len(got) != 1 {
		t.Fatalf("unexpected change after deleting unknown id: %+v", got)
	}
}

func TestExpensesOfflineEmptyCacheReturnsEmpty(t *testing.T) {
	svc, _ := newTestService(t, &fakeRemote{fail: true})
	if got := svc.Expenses(context.Background()); len(got) != 0 {
		t.Fatalf("expected empty list, got %+v", got)
	}
}
