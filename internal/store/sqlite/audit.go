package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// AuditEntry is one row of the expense mutation trail kept by the worker.
type AuditEntry struct {
	ExpenseID  string
	Action     string
	OccurredAt time.Time
}

// RecordEvent appends an expense mutation to the audit trail.
func (r *Repository) RecordEvent(ctx context.Context, expenseID, action string, occurredAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO expense_events (expense_id, action, occurred_at) VALUES (?, ?, ?)`,
		expenseID, action, occurredAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("insert expense event: %w", err)
	}
	return nil
}

// AuditTrail returns the most recent audit entries, newest first. A limit
// of zero or less returns everything.
func (r *Repository) AuditTrail(ctx context.Context, limit int) ([]AuditEntry, error) {
	query := `SELECT expense_id, action, occurred_at FROM expense_events ORDER BY id DESC`
	var rows *sql.Rows
	var err error
	if limit > 0 {
		rows, err = r.db.QueryContext(ctx, query+` LIMIT ?`, limit)
	} else {
		rows, err = r.db.QueryContext(ctx, query)
	}
	if err != nil {
		return nil, fmt.Errorf("query expense events: %w", err)
	}
	defer rows.Close()

	var entries []AuditEntry
	for rows.Next() {
		var entry AuditEntry
		var occurredAt string
		if err := rows.Scan(&entry.ExpenseID, &entry.Action, &occurredAt); err != nil {
			return nil, fmt.Errorf("scan expense event: %w", err)
		}
		entry.OccurredAt, err = time.Parse(time.RFC3339Nano, occurredAt)
		if err != nil {
			return nil, fmt.Errorf("parse event timestamp %q: %w", occurredAt, err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expense events: %w", err)
	}
	return entries, nil
}
