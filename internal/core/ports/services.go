package ports

import (
	"context"

	"go-courses-api/internal/core/domain/courses"
	"go-courses-api/internal/core/domain/users"
)

// AuthService defines sign-up and credential checks.
type AuthService interface {
	SignUp(ctx context.Context, req users.SignUp) (users.User, error)
	Authenticate(ctx context.Context, email, password string) (users.User, error)
}

// Cache defines the caching operations.
// We keep it simple and tailored to our needs.
type Cache interface {
	// Set holds the serialized course.
	Set(ctx context.Context, id string, data []byte) error

	// GetBatch retrieves multiple courses by ID. Misses are absent from the map.
	GetBatch(ctx context.Context, ids []string) (map[string][]byte, error)

	// Remove drops a course from the cache.
	Remove(ctx context.Context, id string) error
}

// CourseService defines the application logic for courses.
type CourseService interface {
	Create(ctx context.Context, ownerID int64, in courses.Input) (courses.Course, error)
	FindByID(ctx context.Context, id int64) (courses.Course, error)
	FindAll(ctx context.Context, limit, offset int) ([]courses.Course, error)
	Update(ctx context.Context, id, userID int64, in courses.Input) error
	Delete(ctx context.Context, id, userID int64) error
	Ping(ctx context.Context) error
}
