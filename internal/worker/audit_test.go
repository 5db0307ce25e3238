package worker

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"gastowise/internal/events"
	"gastowise/internal/store/sqlite"
)

func newTestWorker(t *testing.T) (*AuditWorker, *sqlite.Repository) {
	t.Helper()
	repo, err := sqlite.New(filepath.Join(t.TempDir(), "audit.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return NewAuditWorker(repo), repo
}

func TestHandleEventRecordsTrail(t *testing.T) {
	w, repo := newTestWorker(t)
	ctx := context.Background()

	first := &events.ExpenseEvent{ID: "exp-1", Action: events.ActionCreated, Timestamp: time.Now().Add(-time.Minute)}
	second := &events.ExpenseEvent{ID: "exp-1", Action: events.ActionDeleted, Timestamp: time.Now()}

	if err := w.HandleEvent(ctx, first); err != nil {
		t.Fatalf("HandleEvent(created): %v", err)
	}
	if err := w.HandleEvent(ctx, second); err != nil {
		t.Fatalf("HandleEvent(deleted): %v", err)
	}

	trail, err := repo.AuditTrail(ctx, 0)
	if err != nil {
		t.Fatalf("AuditTrail: %v", err)
	}
	if len(trail) != 2 {
		t.Fatalf("trail length = %d, want 2", len(trail))
	}
	// Newest first
	if trail[0].Action != "deleted" || trail[1].Action != "created" {
		t.Errorf("unexpected order: %+v", trail)
	}
	if trail[0].ExpenseID != "exp-1" {
		t.Errorf("ExpenseID = %q, want exp-1", trail[0].ExpenseID)
	}
}

func TestHandleEventRejectsEmptyID(t *testing.T) {
	w, _ := newTestWorker(t)

	err := w.HandleEvent(context.Background(), &events.ExpenseEvent{Action: events.ActionCreated, Timestamp: time.Now()})
	if err == nil {
		t.Fatal("expected an error for an event without id")
	}
}

func TestAuditTrailLimit(t *testing.T) {
	w, repo := newTestWorker(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		event := &events.ExpenseEvent{ID: "exp-1", Action: events.ActionCreated, Timestamp: time.Now()}
		if err := w.HandleEvent(ctx, event); err != nil {
			t.Fatalf("HandleEvent %d: %v", i, err)
		}
	}

	trail, err := repo.AuditTrail(ctx, 3)
	if err != nil {
		t.Fatalf("AuditTrail: %v", err)
	}
	if len(trail) != 3 {
		t.Errorf("trail length = %d, want 3", len(trail))
	}
}

func TestLogSummaryEmptyDatabase(t *testing.T) {
	w, _ := newTestWorker(t)

	if err := w.LogSummary(context.Background()); err != nil {
		t.Fatalf("LogSummary on empty database: %v", err)
	}
}
