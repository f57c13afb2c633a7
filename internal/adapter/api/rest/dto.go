package rest

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"go-courses-api/internal/core/domain/courses"
	"go-courses-api/internal/core/domain/validation"
)

const maxBodyBytes = 1 << 20

// Pagination helper. A zero Limit means no limit.
type Pagination struct {
	Limit  int
	Offset int
}

// NewPagination reads ?page and ?limit. When neither is present every
// record is returned.
func NewPagination(r *http.Request) Pagination {
	q := r.URL.Query()
	if !q.Has("page") && !q.Has("limit") {
		return Pagination{}
	}

	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}

	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 {
		limit = 10
	}
	if limit > 1000 {
		limit = 1000
	}

	offset := (page - 1) * limit
	return Pagination{Limit: limit, Offset: offset}
}

// decodeJSON reads a JSON body into dst. An empty body leaves dst zeroed so
// that field validation reports what is missing.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(dst)
	switch {
	case err == nil, errors.Is(err, io.EOF):
		return nil
	default:
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return validation.New("Request body is too large")
		}
		return validation.New("Request body must be valid JSON")
	}
}

// parseCourseID treats a malformed id as an unknown course.
func parseCourseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, courses.ErrNotFound
	}
	return id, nil
}
