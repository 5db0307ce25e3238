// Package worker consumes expense events from the broker and maintains an
// audit trail alongside periodic spending summaries.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"gastowise/internal/core"
	"gastowise/internal/events"
	"gastowise/internal/store/sqlite"
)

// AuditWorker records every consumed expense event and can log an overall
// spending summary on demand.
type AuditWorker struct {
	repo *sqlite.Repository
}

func NewAuditWorker(repo *sqlite.Repository) *AuditWorker {
	return &AuditWorker{repo: repo}
}

// HandleEvent appends the event to the audit trail. Errors propagate so the
// consumer can requeue the message.
func (w *AuditWorker) HandleEvent(ctx context.Context, event *events.ExpenseEvent) error {
	if event.ID == "" {
		return fmt.Errorf("event without expense id")
	}

	if err := w.repo.RecordEvent(ctx, event.ID, string(event.Action), event.Timestamp); err != nil {
		return fmt.Errorf("record expense event: %w", err)
	}

	slog.InfoContext(ctx, "Expense event recorded",
		"id", event.ID,
		"action", event.Action)
	return nil
}

// LogSummary reads the current expenses and logs overall and per-category
// totals.
func (w *AuditWorker) LogSummary(ctx context.Context) error {
	expenses, err := w.repo.Expenses(ctx)
	if err != nil {
		return fmt.Errorf("read expenses for summary: %w", err)
	}

	sum := core.Summarize(expenses)
	slog.InfoContext(ctx, "Spending summary",
		"expenses", sum.Count,
		"total", sum.Total.String())
	for _, row := range sum.ByCategory {
		slog.InfoContext(ctx, "Category total",
			"category", row.Name,
			"amount", row.Amount.String())
	}
	return nil
}
