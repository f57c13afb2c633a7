package postgres

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"go-courses-api/internal/core/domain/courses"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CourseRepository implements ports.CourseRepository using PostgreSQL.
type CourseRepository struct {
	db *pgxpool.Pool
}

// NewCourseRepository creates a new postgres course repository.
func NewCourseRepository(db *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{db: db}
}

const courseColumns = `
	c.id, c.title, c.description, c.estimated_time, c.materials_needed, c.user_id,
	c.created_at, c.updated_at,
	u.id, u.first_name, u.last_name, u.email_address
`

// Save inserts a course and returns it with the owner joined in.
func (r *CourseRepository) Save(ctx context.Context, course courses.Course) (courses.Course, error) {
	query := `
		WITH c AS (
			INSERT INTO courses (title, description, estimated_time, materials_needed, user_id)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING *
		)
		SELECT ` + courseColumns + `
		FROM c
		JOIN users u ON u.id = c.user_id
	`
	row := r.db.QueryRow(ctx, query,
		course.Title,
		course.Description,
		course.EstimatedTime,
		course.MaterialsNeeded,
		course.UserID,
	)
	created, err := scanCourse(row)
	if err != nil {
		return courses.Course{}, fmt.Errorf("failed to insert course: %w", err)
	}
	return created, nil
}

// FindByID retrieves a course by its ID.
func (r *CourseRepository) FindByID(ctx context.Context, id int64) (courses.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses c JOIN users u ON u.id = c.user_id WHERE c.id = $1`

	course, err := scanCourse(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return courses.Course{}, courses.ErrNotFound
		}
		return courses.Course{}, fmt.Errorf("failed to fetch course: %w", err)
	}
	return course, nil
}

// FindAll returns an iterator of courses ordered by id.
func (r *CourseRepository) FindAll(ctx context.Context, limit, offset int) (iter.Seq2[courses.Course, error], error) {
	// A NULL limit is no limit in PostgreSQL.
	var limitArg any
	if limit > 0 {
		limitArg = limit
	}
	query := `
		SELECT ` + courseColumns + `
		FROM courses c
		JOIN users u ON u.id = c.user_id
		ORDER BY c.id ASC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limitArg, max(offset, 0))
	if err != nil {
		return nil, fmt.Errorf("failed to query courses: %w", err)
	}

	return func(yield func(courses.Course, error) bool) {
		defer rows.Close()

		for rows.Next() {
			course, err := scanCourse(rows)
			if err != nil {
				yield(courses.Course{}, fmt.Errorf("failed to scan row: %w", err))
				return
			}
			if !yield(course, nil) {
				return
			}
		}

		if err := rows.Err(); err != nil {
			yield(courses.Course{}, fmt.Errorf("rows iteration error: %w", err))
		}
	}, nil
}

// Update replaces the editable fields of a course.
func (r *CourseRepository) Update(ctx context.Context, course courses.Course) error {
	query := `
		UPDATE courses
		SET title = $1, description = $2, estimated_time = $3, materials_needed = $4, updated_at = NOW()
		WHERE id = $5
	`
	cmdTag, err := r.db.Exec(ctx, query,
		course.Title,
		course.Description,
		course.EstimatedTime,
		course.MaterialsNeeded,
		course.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update course: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return courses.ErrNotFound
	}
	return nil
}

// Delete removes a course by ID.
func (r *CourseRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return courses.ErrNotFound
	}
	return nil
}

func (r *CourseRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func scanCourse(row pgx.Row) (courses.Course, error) {
	var c courses.Course
	err := row.Scan(
		&c.ID,
		&c.Title,
		&c.Description,
		&c.EstimatedTime,
		&c.MaterialsNeeded,
		&c.UserID,
		&c.CreatedAt,
		&c.UpdatedAt,
		&c.Owner.ID,
		&c.Owner.FirstName,
		&c.Owner.LastName,
		&c.Owner.EmailAddress,
	)
	return c, err
}
