package rest

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"go-courses-api/internal/core/domain/courses"
	"go-courses-api/internal/core/domain/users"
	"go-courses-api/internal/core/ports"
)

// CourseHandler serves /courses.
type CourseHandler struct {
	service ports.CourseService
	logger  *slog.Logger
}

func NewCourseHandler(service ports.CourseService, logger *slog.Logger) *CourseHandler {
	return &CourseHandler{service: service, logger: logger}
}

// List handles GET /courses
func (h *CourseHandler) List(w http.ResponseWriter, r *http.Request) error {
	p := NewPagination(r)

	list, err := h.service.FindAll(r.Context(), p.Limit, p.Offset)
	if err != nil {
		return err
	}
	writeJSON(w, h.logger, http.StatusOK, list)
	return nil
}

// Get handles GET /courses/{id}
func (h *CourseHandler) Get(w http.ResponseWriter, r *http.Request) error {
	id, err := parseCourseID(r)
	if err != nil {
		return err
	}

	course, err := h.service.FindByID(r.Context(), id)
	if err != nil {
		return err
	}
	writeJSON(w, h.logger, http.StatusOK, course)
	return nil
}

// Create handles POST /courses. The owner is always the caller.
func (h *CourseHandler) Create(w http.ResponseWriter, r *http.Request) error {
	user, ok := CurrentUser(r.Context())
	if !ok {
		return users.ErrInvalidCredentials
	}

	var in courses.Input
	if err := decodeJSON(w, r, &in); err != nil {
		return err
	}

	created, err := h.service.Create(r.Context(), user.ID, in)
	if err != nil {
		return err
	}

	w.Header().Set("Location", "/courses/"+strconv.FormatInt(created.ID, 10))
	w.WriteHeader(http.StatusCreated)
	return nil
}

// Update handles PUT /courses/{id}
func (h *CourseHandler) Update(w http.ResponseWriter, r *http.Request) error {
	user, ok := CurrentUser(r.Context())
	if !ok {
		return users.ErrInvalidCredentials
	}

	id, err := parseCourseID(r)
	if err != nil {
		return err
	}

	var in courses.Input
	if err := decodeJSON(w, r, &in); err != nil {
		return err
	}

	if err := h.service.Update(r.Context(), id, user.ID, in); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// Delete handles DELETE /courses/{id}. A missing course is a bare 404.
func (h *CourseHandler) Delete(w http.ResponseWriter, r *http.Request) error {
	user, ok := CurrentUser(r.Context())
	if !ok {
		return users.ErrInvalidCredentials
	}

	id, err := parseCourseID(r)
	if err == nil {
		err = h.service.Delete(r.Context(), id, user.ID)
	}
	switch {
	case errors.Is(err, courses.ErrNotFound):
		w.WriteHeader(http.StatusNotFound)
		return nil
	case err != nil:
		return err
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}
