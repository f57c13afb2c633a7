package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"iter"
	"time"

	"go-courses-api/internal/core/domain/courses"
)

const selectCourses = `
SELECT c.id, c.title, c.description, c.estimated_time, c.materials_needed, c.user_id,
	c.created_at, c.updated_at,
	u.id, u.first_name, u.last_name, u.email_address
FROM courses c
JOIN users u ON u.id = c.user_id`

// CourseRepository implements ports.CourseRepository on a sqlite file.
type CourseRepository struct {
	db *sql.DB
}

func NewCourseRepository(db *sql.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

func (r *CourseRepository) Save(ctx context.Context, course courses.Course) (courses.Course, error) {
	now := time.Now().UTC()

	res, err := r.db.ExecContext(ctx, `
INSERT INTO courses (title, description, estimated_time, materials_needed, user_id, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		course.Title,
		course.Description,
		course.EstimatedTime,
		course.MaterialsNeeded,
		course.UserID,
		now,
		now,
	)
	if err != nil {
		return courses.Course{}, fmt.Errorf("failed to insert course: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return courses.Course{}, fmt.Errorf("failed to read course id: %w", err)
	}
	return r.FindByID(ctx, id)
}

func (r *CourseRepository) FindByID(ctx context.Context, id int64) (courses.Course, error) {
	course, err := scanCourse(r.db.QueryRowContext(ctx, selectCourses+` WHERE c.id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return courses.Course{}, courses.ErrNotFound
		}
		return courses.Course{}, fmt.Errorf("failed to fetch course: %w", err)
	}
	return course, nil
}

// FindAll streams courses ordered by id. A non-positive limit returns
// every row.
func (r *CourseRepository) FindAll(ctx context.Context, limit, offset int) (iter.Seq2[courses.Course, error], error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.QueryContext(ctx, selectCourses+` ORDER BY c.id ASC LIMIT ? OFFSET ?`, limit, max(offset, 0))
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

func (r *CourseRepository) Update(ctx context.Context, course courses.Course) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE courses
SET title = ?, description = ?, estimated_time = ?, materials_needed = ?, updated_at = ?
WHERE id = ?`,
		course.Title,
		course.Description,
		course.EstimatedTime,
		course.MaterialsNeeded,
		time.Now().UTC(),
		course.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update course: %w", err)
	}
	return expectRow(res)
}

func (r *CourseRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM courses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}
	return expectRow(res)
}

func (r *CourseRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func expectRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return courses.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCourse(row rowScanner) (courses.Course, error) {
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
