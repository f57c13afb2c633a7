package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"go-courses-api/internal/core/domain/courses"
	"go-courses-api/internal/core/domain/users"
	"go-courses-api/internal/core/domain/validation"
)

const (
	msgAccessDenied     = "Access Denied"
	msgValidationFailed = "Validation failed"
	msgCourseNotFound   = "Course not found"
	msgForbidden        = "You can only modify courses you own"
	msgInternal         = "An unexpected error occurred"
	msgRouteNotFound    = "Route Not Found"
	msgWelcome          = "Welcome to the REST API project!"
)

type messageBody struct {
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

// handlerFunc is an http.HandlerFunc that reports failure by returning an
// error.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

// handle adapts fn into an http.HandlerFunc, translating any returned error
// into its response.
func handle(logger *slog.Logger, fn handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			writeError(w, r, logger, err)
		}
	}
}

// writeError maps err onto a status and JSON body. Unknown errors are logged
// and never leak to the client.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var vErr *validation.Error
	switch {
	case errors.As(err, &vErr):
		writeJSON(w, logger, http.StatusBadRequest, messageBody{Message: msgValidationFailed, Errors: vErr.Messages})
	case errors.Is(err, users.ErrInvalidCredentials):
		denyAccess(w, logger)
	case errors.Is(err, courses.ErrNotFound):
		writeJSON(w, logger, http.StatusNotFound, messageBody{Message: msgCourseNotFound})
	case errors.Is(err, courses.ErrForbidden):
		writeJSON(w, logger, http.StatusForbidden, messageBody{Message: msgForbidden})
	default:
		logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", requestIDFrom(r.Context()),
			"error", err,
		)
		writeJSON(w, logger, http.StatusInternalServerError, messageBody{Message: msgInternal})
	}
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to write response", "error", err)
	}
}
