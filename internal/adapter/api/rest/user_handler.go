package rest

import (
	"log/slog"
	"net/http"

	"go-courses-api/internal/core/domain/users"
	"go-courses-api/internal/core/ports"
)

// UserHandler serves /users.
type UserHandler struct {
	auth   ports.AuthService
	logger *slog.Logger
}

func NewUserHandler(auth ports.AuthService, logger *slog.Logger) *UserHandler {
	return &UserHandler{auth: auth, logger: logger}
}

// Get handles GET /users and returns the authenticated caller.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) error {
	user, ok := CurrentUser(r.Context())
	if !ok {
		return users.ErrInvalidCredentials
	}
	writeJSON(w, h.logger, http.StatusOK, user)
	return nil
}

// Create handles POST /users
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) error {
	var req users.SignUp
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}

	user, err := h.auth.SignUp(r.Context(), req)
	if err != nil {
		return err
	}

	h.logger.InfoContext(r.Context(), "user created", "id", user.ID)
	w.Header().Set("Location", "/")
	w.WriteHeader(http.StatusCreated)
	return nil
}
