package rest

import (
	"context"
	"log/slog"
	"net/http"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewRouter initializes the HTTP router and registers routes.
func NewRouter(userH *UserHandler, courseH *CourseHandler, health Pinger, auth Middleware, logger *slog.Logger, mws ...Middleware) http.Handler {
	mux := http.NewServeMux()

	protected := func(fn handlerFunc) http.Handler {
		return auth(handle(logger, fn))
	}

	// Public Routes
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, logger, http.StatusOK, messageBody{Message: msgWelcome})
	})
	mux.HandleFunc("GET /healthz", healthHandler(health, logger))
	mux.HandleFunc("POST /users", handle(logger, userH.Create))
	mux.HandleFunc("GET /courses", handle(logger, courseH.List))
	mux.HandleFunc("GET /courses/{id}", handle(logger, courseH.Get))

	// Protected Routes
	mux.Handle("GET /users", protected(userH.Get))
	mux.Handle("POST /courses", protected(courseH.Create))
	mux.Handle("PUT /courses/{id}", protected(courseH.Update))
	mux.Handle("DELETE /courses/{id}", protected(courseH.Delete))

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, logger, http.StatusNotFound, messageBody{Message: msgRouteNotFound})
	})

	// Wrap with middleware
	return Chain(mux, mws...)
}

func healthHandler(p Pinger, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := p.Ping(r.Context()); err != nil {
			logger.ErrorContext(r.Context(), "health check failed", "error", err)
			writeJSON(w, logger, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		writeJSON(w, logger, http.StatusOK, map[string]string{"status": "ok"})
	}
}
