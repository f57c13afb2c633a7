package ports

import (
	"context"
	"iter"

	"go-courses-api/internal/core/domain/courses"
	"go-courses-api/internal/core/domain/users"
)

// UserRepository defines storage for users.
type UserRepository interface {
	// Save inserts the user and returns it with ID and timestamps set.
	// A duplicate email yields users.ErrEmailInUse.
	Save(ctx context.Context, user users.User) (users.User, error)

	// FindByEmail matches the email exactly. No match yields users.ErrNotFound.
	FindByEmail(ctx context.Context, email string) (users.User, error)
}

// CourseRepository defines storage for courses. Every read joins the owner.
type CourseRepository interface {
	// Save inserts the course and returns it with ID, timestamps and owner set.
	Save(ctx context.Context, course courses.Course) (courses.Course, error)

	// FindByID retrieves a course. No match yields courses.ErrNotFound.
	FindByID(ctx context.Context, id int64) (courses.Course, error)

	// FindAll streams courses ordered by id ascending.
	// A limit of zero or less means no limit.
	FindAll(ctx context.Context, limit, offset int) (iter.Seq2[courses.Course, error], error)

	// Update replaces the editable fields. No match yields courses.ErrNotFound.
	Update(ctx context.Context, course courses.Course) error

	// Delete removes a course. No match yields courses.ErrNotFound.
	Delete(ctx context.Context, id int64) error

	// Ping checks the storage is reachable.
	Ping(ctx context.Context) error
}
