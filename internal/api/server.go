// Package api exposes the expense tracker over HTTP: a JSON API under
// /api and the embedded single page app everywhere else.
package api

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"gastowise/internal/middleware/ratelimit"
	"gastowise/internal/middleware/security"
	"gastowise/internal/middleware/trace"
	"gastowise/internal/store"
	appweb "gastowise/web"
)

// EventPublisher notifies out-of-process consumers about expense
// mutations. Publishing is best-effort and never fails the request.
type EventPublisher interface {
	PublishExpenseCreated(ctx context.Context, id string) error
	PublishExpenseDeleted(ctx context.Context, id string) error
}

type Server struct {
	http.Server
	categories store.CategoryStore
	expenses   store.ExpenseStore
	publisher  EventPublisher

	limiter      *ratelimit.Limiter
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server. publisher may be nil when no broker is configured.
func NewServer(addr string, categories store.CategoryStore, expenses store.ExpenseStore, publisher EventPublisher) *Server {
	mux := http.NewServeMux()

	s := &Server{
		categories: categories,
		expenses:   expenses,
		publisher:  publisher,
		limiter:    ratelimit.NewLimiter(ratelimit.DefaultConfig()),
	}

	mux.HandleFunc("/api/categories", s.handleCategories)
	mux.HandleFunc("/api/expenses", s.handleExpenses)
	mux.HandleFunc("/api/expenses/", s.handleExpenseByID)
	mux.HandleFunc("/api/", s.handleAPINotFound)
	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	// Everything else gets the app shell so client-side routes resolve.
	mux.HandleFunc("/", s.handleIndex)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	tracer := trace.NewMiddleware(clientIP)
	limited := s.limiter.Middleware(clientIP, nil)

	s.Server = http.Server{
		Addr:    addr,
		Handler: tracer.Middleware(headers.Middleware(limited(mux))),
	}
	return s
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.limiter != nil {
			s.limiter.Stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// clientIP extracts the client IP, considering proxies.
func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if _, err := s.categories.Categories(ctx); err != nil {
		slog.ErrorContext(ctx, "Readiness check failed", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("not ready"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	index, err := appweb.StaticFS.ReadFile("static/index.html")
	if err != nil {
		slog.ErrorContext(r.Context(), "App shell not embedded", "error", err)
		http.Error(w, "app shell not available", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(index)
}
