// Package remote implements the store ports over the backend's REST API.
// It is one of the two interchangeable stores behind the client data
// service; the other is the on-device localdb cache.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"gastowise/internal/core"
	"gastowise/internal/store"
)

// ProbeTimeout bounds the availability check. Regular operations carry no
// timeout of their own; callers control them through ctx.
const ProbeTimeout = 2 * time.Second

type Client struct {
	baseURL    string
	httpClient *http.Client
}

var (
	_ store.CategoryStore = (*Client)(nil)
	_ store.ExpenseStore  = (*Client)(nil)
)

func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
}

// Available reports whether the backend answers within ProbeTimeout. It is
// a display hint only: every read and write still attempts the remote side
// on its own.
func (c *Client) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, ProbeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/categories", nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// Categories implements store.CategoryStore.
func (c *Client) Categories(ctx context.Context) ([]core.Category, error) {
	var categories []core.Category
	if err := c.get(ctx, "/api/categories", &categories); err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []core.Category{}
	}
	return categories, nil
}

// ReplaceCategories implements store.CategoryStore via PUT with the full
// list as body.
func (c *Client) ReplaceCategories(ctx context.Context, categories []core.Category) error {
	if categories == nil {
		categories = []core.Category{}
	}
	return c.send(ctx, http.MethodPut, "/api/categories", categories, nil)
}

// Expenses implements store.ExpenseStore.
func (c *Client) Expenses(ctx context.Context) ([]core.Expense, error) {
	var expenses []core.Expense
	if err := c.get(ctx, "/api/expenses", &expenses); err != nil {
		return nil, err
	}
	if expenses == nil {
		expenses = []core.Expense{}
	}
	return expenses, nil
}

// AddExpense implements store.ExpenseStore. Callers send a populated id;
// the server only assigns one when the body omits it.
func (c *Client) AddExpense(ctx context.Context, e core.Expense) error {
	return c.send(ctx, http.MethodPost, "/api/expenses", e, nil)
}

// RemoveExpense implements store.ExpenseStore, reporting the server-side
// deletion count.
func (c *Client) RemoveExpense(ctx context.Context, id string) (int, error) {
	var reply struct {
		Deleted int `json:"deleted"`
	}
	path := "/api/expenses/" + url.PathEscape(id)
	if err := c.send(ctx, http.MethodDelete, path, nil, &reply); err != nil {
		return 0, err
	}
	return reply.Deleted, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.send(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) send(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
