package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"gastowise/internal/core"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Response encoding failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func methodNotAllowed(w http.ResponseWriter, allowed string) {
	w.Header().Set("Allow", allowed)
	writeError(w, http.StatusMethodNotAllowed, "método no permitido")
}

func (s *Server) handleAPINotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "recurso no encontrado")
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		cats, err := s.categories.Categories(r.Context())
		if err != nil {
			slog.ErrorContext(r.Context(), "Category list error", "error", err)
			writeError(w, http.StatusInternalServerError, "no se pudieron leer las categorías")
			return
		}
		if cats == nil {
			cats = []core.Category{}
		}
		writeJSON(w, http.StatusOK, cats)

	case http.MethodPut:
		var cats []core.Category
		if err := json.NewDecoder(r.Body).Decode(&cats); err != nil {
			writeError(w, http.StatusBadRequest, "cuerpo de petición no válido")
			return
		}
		for _, c := range cats {
			if err := c.Validate(); err != nil {
				writeError(w, http.StatusUnprocessableEntity, "categoría no válida: "+err.Error())
				return
			}
		}
		if err := s.categories.ReplaceCategories(r.Context(), cats); err != nil {
			slog.ErrorContext(r.Context(), "Category replace error", "error", err, "count", len(cats))
			writeError(w, http.StatusInternalServerError, "no se pudieron guardar las categorías")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Categorías actualizadas correctamente"})

	default:
		methodNotAllowed(w, "GET, PUT")
	}
}

func (s *Server) handleExpenses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		expenses, err := s.expenses.Expenses(r.Context())
		if err != nil {
			slog.ErrorContext(r.Context(), "Expense list error", "error", err)
			writeError(w, http.StatusInternalServerError, "no se pudieron leer los gastos")
			return
		}
		if expenses == nil {
			expenses = []core.Expense{}
		}
		writeJSON(w, http.StatusOK, expenses)

	case http.MethodPost:
		var exp core.Expense
		if err := json.NewDecoder(r.Body).Decode(&exp); err != nil {
			writeError(w, http.StatusBadRequest, "cuerpo de petición no válido")
			return
		}
		if exp.ID == "" {
			exp.ID = core.NewID("exp")
		}
		if err := exp.Validate(); err != nil {
			writeError(w, http.StatusUnprocessableEntity, "gasto no válido: "+err.Error())
			return
		}
		if err := s.expenses.AddExpense(r.Context(), exp); err != nil {
			slog.ErrorContext(r.Context(), "Expense insert error", "error", err, "id", exp.ID)
			writeError(w, http.StatusInternalServerError, "no se pudo guardar el gasto")
			return
		}
		s.publishCreated(r, exp.ID)
		writeJSON(w, http.StatusCreated, map[string]string{"id": exp.ID})

	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) handleExpenseByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		methodNotAllowed(w, "DELETE")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/expenses/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusNotFound, "recurso no encontrado")
		return
	}

	deleted, err := s.expenses.RemoveExpense(r.Context(), id)
	if err != nil {
		slog.ErrorContext(r.Context(), "Expense delete error", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "no se pudo eliminar el gasto")
		return
	}
	if deleted > 0 {
		s.publishDeleted(r, id)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Gasto eliminado correctamente",
		"deleted": deleted,
	})
}

// publishCreated and publishDeleted notify the broker after a successful
// mutation. Failures are logged and swallowed.
func (s *Server) publishCreated(r *http.Request, id string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishExpenseCreated(r.Context(), id); err != nil {
		slog.WarnContext(r.Context(), "Expense created event not published", "error", err, "id", id)
	}
}

func (s *Server) publishDeleted(r *http.Request, id string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishExpenseDeleted(r.Context(), id); err != nil {
		slog.WarnContext(r.Context(), "Expense deleted event not published", "error", err, "id", id)
	}
}
