package events

import (
	"encoding/json"
	"time"
)

// Action names what happened to an expense.
type Action string

const (
	ActionCreated Action = "created"
	ActionDeleted Action = "deleted"
)

// ExpenseEvent is the message published after an expense mutation.
// It carries only the ID and action, consumers fetch the full expense
// from the database if they need it.
type ExpenseEvent struct {
	ID        string    `json:"id"`
	Action    Action    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

func NewExpenseEvent(id string, action Action) *ExpenseEvent {
	return &ExpenseEvent{
		ID:        id,
		Action:    action,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the event to JSON bytes
func (m *ExpenseEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ExpenseEventFromJSON creates an event from JSON bytes
func ExpenseEventFromJSON(data []byte) (*ExpenseEvent, error) {
	var msg ExpenseEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
