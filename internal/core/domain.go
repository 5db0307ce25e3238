package core

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar-date form used on the wire and in storage.
const DateLayout = "2006-01-02"

type (
	// Category groups expenses under a user-defined name with an ordered
	// list of subcategory names. Order is significant for display.
	Category struct {
		ID            string   `json:"id"`
		Name          string   `json:"name"`
		SubCategories []string `json:"subCategories"`
	}

	// Expense is a single recorded expense. CategoryName and SubCategory are
	// denormalized snapshots taken at creation time: deleting or renaming a
	// category later never rewrites recorded expenses, so CategoryID may
	// dangle. Expenses are immutable after creation except for deletion.
	Expense struct {
		ID           string `json:"id"`
		Amount       Money  `json:"amount"`
		CategoryID   string `json:"categoryId"`
		CategoryName string `json:"categoryName"`
		SubCategory  string `json:"subCategory"`
		Description  string `json:"description"`
		Date         string `json:"date"`
	}
)

var (
	ErrEmptyID       = errors.New("empty id")
	ErrEmptyName     = errors.New("empty name")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidDate   = errors.New("invalid date")
)

// NewCategory creates a category with a fresh id and no subcategories.
func NewCategory(name string) Category {
	return Category{
		ID:            NewID("cat"),
		Name:          strings.TrimSpace(name),
		SubCategories: []string{},
	}
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

func (e Expense) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return ErrEmptyID
	}
	if e.Amount.Cents < 0 {
		return ErrInvalidAmount
	}
	if _, err := time.Parse(DateLayout, e.Date); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, e.Date)
	}
	return nil
}

// Summary renders the one-line date/amount/category/description form used
// in advisor prompts.
func (e Expense) Summary() string {
	return fmt.Sprintf("%s: %s€ en %s (%s)", e.Date, e.Amount, e.CategoryName, e.Description)
}

// Today returns the current date in DateLayout form.
func Today() string {
	return time.Now().Format(DateLayout)
}

// NewID generates an opaque prefixed identifier, e.g. "cat-1a2b3c4d5e6f7a8b".
func NewID(prefix string) string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to a time-derived id if random fails
		return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
	}
	return prefix + "-" + hex.EncodeToString(bytes)
}
