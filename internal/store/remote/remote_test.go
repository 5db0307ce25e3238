package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gastowise/internal/core"
)

func TestAvailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]core.Category{})
	}))
	defer srv.Close()

	c := New(srv.URL)
	if !c.Available(context.Background()) {
		t.Fatalf("expected reachable backend to report available")
	}

	srv.Close()
	if c.Available(context.Background()) {
		t.Fatalf("expected closed backend to report unavailable")
	}
}

func TestAvailableReturnsFalseWithinTimeout(t *testing.T) {
	// A server that never answers must make the probe give up, not hang.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	c := New(srv.URL)
	start := time.Now()
	if c.Available(context.Background()) {
		t.Fatalf("expected unavailable")
	}
	if elapsed := time.Since(start); elapsed > ProbeTimeout+time.Second {
		t.Fatalf("probe took too long: %v", elapsed)
	}
}

func TestCategoriesRoundTrip(t *testing.T) {
	var stored []core.Category
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			json.NewEncoder(w).Encode(stored)
		case http.MethodPut:
			if err := json.NewDecoder(r.Body).Decode(&stored); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			json.NewEncoder(w).Encode(map[string]string{"message": "Categorías actualizadas"})
		}
	}))
	defer srv.Close()

	c := New(srv.URL)
	ctx := context.Background()
	want := []core.Category{{ID: "cat-1", Name: "Ocio", SubCategories: []string{"Cine"}}}
	if err := c.ReplaceCategories(ctx, want); err != nil {
		t.Fatalf("replace: %v", err)
	}
	got, err := c.Categories(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].ID != "cat-1" || got[0].SubCategories[0] != "Cine" {
		t.Fatalf("unexpected categories: %+v", got)
	}
}

func TestErrorStatusSurfacesAsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "boom"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	if _, err := c.Categories(context.Background()); err == nil {
		t.Fatalf("expected error for 500 response")
	}
	if err := c.AddExpense(context.Background(), core.Expense{ID: "exp-1", Date: "2024-05-01"}); err == nil {
		t.Fatalf("expected error for 500 response")
	}
}

func TestRemoveExpenseParsesDeletedCount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/api/expenses/exp-1" {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"message": "Gasto eliminado", "deleted": 1})
	}))
	defer srv.Close()

	n, err := New(srv.URL).RemoveExpense(context.Background(), "exp-1")
	if err != nil || n != 1 {
		t.Fatalf("remove: n=%d err=%v", n, err)
	}
}
