package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-courses-api/internal/core/domain/users"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRequestID(t *testing.T) {
	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := r.Context().Value(requestIDKey)
		assert.NotNil(t, rid, "RequestID should be in context")
		assert.NotEmpty(t, rid.(string), "RequestID should not be empty")

		respRid := w.Header().Get("X-Request-ID")
		assert.Equal(t, rid.(string), respRid, "Header should match context")
	})

	handlerToTest := RequestID(nextHandler)

	t.Run("generates new id when missing", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		w := httptest.NewRecorder()
		handlerToTest.ServeHTTP(w, req)
	})

	t.Run("preserves existing id", func(t *testing.T) {
		existingID := "existing-id"
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("X-Request-ID", existingID)
		w := httptest.NewRecorder()

		nextHandlerWithCheck := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rid := r.Context().Value(requestIDKey).(string)
			assert.Equal(t, existingID, rid)
		})

		RequestID(nextHandlerWithCheck).ServeHTTP(w, req)
		assert.Equal(t, existingID, w.Header().Get("X-Request-ID"))
	})
}

func TestChain(t *testing.T) {
	var calls []string
	mw1 := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls = append(calls, "mw1")
			next.ServeHTTP(w, r)
		})
	}
	mw2 := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls = append(calls, "mw2")
			next.ServeHTTP(w, r)
		})
	}

	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, "final")
	})

	chained := Chain(final, mw1, mw2)
	chained.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, []string{"mw1", "mw2", "final"}, calls, "Middleware should be called in order")
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}), RequestID, Logger(logger))

	req := httptest.NewRequest(http.MethodPost, "/courses", nil)
	req.Header.Set("X-Request-ID", "rid-1")
	h.ServeHTTP(httptest.NewRecorder(), req)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "request", line["msg"])
	assert.Equal(t, "POST", line["method"])
	assert.Equal(t, "/courses", line["path"])
	assert.EqualValues(t, http.StatusAccepted, line["status"])
	assert.Equal(t, "rid-1", line["request_id"])
}

func TestRecoverer(t *testing.T) {
	h := Recoverer(quietLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"message":"An unexpected error occurred"}`, w.Body.String())
}

func TestRecoverer_AfterResponseStarted(t *testing.T) {
	t.Run("header written", func(t *testing.T) {
		h := Recoverer(quietLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
			panic("boom")
		}))

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/", nil))

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("body written", func(t *testing.T) {
		h := Recoverer(quietLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[{"id":1}`))
			panic("boom")
		}))

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, `[{"id":1}`, w.Body.String())
	})
}

func TestBasicAuth(t *testing.T) {
	joe := users.User{ID: 1, FirstName: "Joe", LastName: "Smith", EmailAddress: "joe@smith.com"}

	var seen users.User
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := CurrentUser(r.Context())
		require.True(t, ok)
		seen = u
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name       string
		setAuth    bool
		authErr    error
		wantStatus int
	}{
		{name: "success", setAuth: true, wantStatus: http.StatusOK},
		{name: "missing header", setAuth: false, wantStatus: http.StatusUnauthorized},
		{name: "unknown email", setAuth: true, authErr: users.ErrUnknownEmail, wantStatus: http.StatusUnauthorized},
		{name: "wrong password", setAuth: true, authErr: users.ErrPasswordMismatch, wantStatus: http.StatusUnauthorized},
		{name: "empty username", setAuth: true, authErr: users.ErrMissingCredentials, wantStatus: http.StatusUnauthorized},
		{name: "storage failure", setAuth: true, authErr: errors.New("db down"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = users.User{}
			authSvc := new(MockAuthService)
			if tt.setAuth {
				if tt.authErr != nil {
					authSvc.On("Authenticate", mock.Anything, "joe@smith.com", "secret").Return(users.User{}, tt.authErr)
				} else {
					authSvc.On("Authenticate", mock.Anything, "joe@smith.com", "secret").Return(joe, nil)
				}
			}

			req := httptest.NewRequest(http.MethodGet, "/users", nil)
			if tt.setAuth {
				req.SetBasicAuth("joe@smith.com", "secret")
			}
			w := httptest.NewRecorder()
			BasicAuth(authSvc, quietLogger())(next).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			switch tt.wantStatus {
			case http.StatusOK:
				assert.Equal(t, joe, seen)
			case http.StatusUnauthorized:
				assert.JSONEq(t, `{"message":"Access Denied"}`, w.Body.String())
				assert.Contains(t, w.Header().Get("WWW-Authenticate"), "Basic")
			case http.StatusInternalServerError:
				assert.NotContains(t, w.Body.String(), "db down")
			}
			authSvc.AssertExpectations(t)
		})
	}
}

func TestCurrentUser_Missing(t *testing.T) {
	_, ok := CurrentUser(context.Background())
	assert.False(t, ok)
}
