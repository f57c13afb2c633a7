package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"go-courses-api/internal/core/domain/users"
	"go-courses-api/internal/core/ports"

	"github.com/google/uuid"
)

// Middleware wraps an http.Handler.
type Middleware func(http.Handler) http.Handler

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	userKey      contextKey = "user"
)

// Chain applies mws so that the first one is the outermost.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// RequestID propagates X-Request-ID, generating one when absent.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := r.Header.Get("X-Request-ID")
		if rid == "" {
			rid = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", rid)
		ctx := context.WithValue(r.Context(), requestIDKey, rid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func requestIDFrom(ctx context.Context) string {
	rid, _ := ctx.Value(requestIDKey).(string)
	return rid
}

type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.wroteHeader = true
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	s.wroteHeader = true
	return s.ResponseWriter.Write(b)
}

// Logger logs one line per request.
func Logger(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			logger.InfoContext(r.Context(), "request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration", time.Since(start),
				"request_id", requestIDFrom(r.Context()),
			)
		})
	}
}

// Recoverer turns a panic in a handler into a 500 response.
func Recoverer(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			defer func() {
				rv := recover()
				if rv == nil {
					return
				}
				if rv == http.ErrAbortHandler {
					panic(rv)
				}
				logger.ErrorContext(r.Context(), "panic recovered",
					"panic", rv,
					"request_id", requestIDFrom(r.Context()),
					"stack", string(debug.Stack()),
				)
				// The response is already committed; its status can no longer change.
				if rec.wroteHeader {
					return
				}
				writeJSON(w, logger, http.StatusInternalServerError, messageBody{Message: msgInternal})
			}()
			next.ServeHTTP(rec, r)
		})
	}
}

// BasicAuth authenticates the caller with HTTP Basic credentials and binds
// the user to the request context. Every credential failure gets the same
// 401; the cause is only logged.
func BasicAuth(auth ports.AuthService, logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			email, password, ok := r.BasicAuth()
			if !ok {
				logger.WarnContext(ctx, "Auth header not found", "request_id", requestIDFrom(ctx))
				denyAccess(w, logger)
				return
			}

			user, err := auth.Authenticate(ctx, email, password)
			switch {
			case err == nil:
				logger.InfoContext(ctx, "Authentication successful", "username", email)
			case errors.Is(err, users.ErrUnknownEmail):
				logger.WarnContext(ctx, "User not found for username", "username", email)
				denyAccess(w, logger)
				return
			case errors.Is(err, users.ErrPasswordMismatch):
				logger.WarnContext(ctx, "Authentication failure for username", "username", email)
				denyAccess(w, logger)
				return
			case errors.Is(err, users.ErrInvalidCredentials):
				logger.WarnContext(ctx, "Auth header not found", "request_id", requestIDFrom(ctx))
				denyAccess(w, logger)
				return
			default:
				writeError(w, r, logger, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, userKey, user)))
		})
	}
}

// CurrentUser returns the user bound by BasicAuth.
func CurrentUser(ctx context.Context) (users.User, bool) {
	u, ok := ctx.Value(userKey).(users.User)
	return u, ok
}

func denyAccess(w http.ResponseWriter, logger *slog.Logger) {
	w.Header().Set("WWW-Authenticate", `Basic realm="courses", charset="UTF-8"`)
	writeJSON(w, logger, http.StatusUnauthorized, messageBody{Message: msgAccessDenied})
}
