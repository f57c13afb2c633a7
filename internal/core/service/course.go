package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"go-courses-api/internal/core/domain/courses"
	"go-courses-api/internal/core/domain/validation"
	"go-courses-api/internal/core/ports"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("internal/core/service")

type CourseService struct {
	repo   ports.CourseRepository
	cache  ports.Cache
	logger *slog.Logger
}

func NewCourseService(repo ports.CourseRepository, cache ports.Cache, logger *slog.Logger) *CourseService {
	return &CourseService{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

// Create validates in and stores it owned by ownerID.
func (s *CourseService) Create(ctx context.Context, ownerID int64, in courses.Input) (courses.Course, error) {
	ctx, span := tracer.Start(ctx, "CourseService.Create", trace.WithAttributes(
		attribute.Int64("user.id", ownerID),
	))
	defer span.End()

	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return courses.Course{}, err
	}

	course := courses.Course{UserID: ownerID}.Apply(in)
	created, err := s.repo.Save(ctx, course)
	if err != nil {
		recordError(span, err)
		return courses.Course{}, fmt.Errorf("failed to save course: %w", err)
	}

	s.logger.InfoContext(ctx, "course created", "id", created.ID, "user_id", ownerID)
	return created, nil
}

// FindByID reads through the cache.
func (s *CourseService) FindByID(ctx context.Context, id int64) (courses.Course, error) {
	ctx, span := tracer.Start(ctx, "CourseService.FindByID", trace.WithAttributes(attribute.Int64("course.id", id)))
	defer span.End()

	key := cacheKey(id)
	batch, err := s.cache.GetBatch(ctx, []string{key})
	if err != nil {
		s.logger.WarnContext(ctx, "cache read failed, falling back to db", "id", id, "error", err)
	} else if data, ok := batch[key]; ok {
		var course courses.Course
		if err := json.Unmarshal(data, &course); err == nil {
			return course, nil
		}
		s.logger.WarnContext(ctx, "discarding unreadable cache entry", "id", id)
	}

	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if !errors.Is(err, courses.ErrNotFound) {
			recordError(span, err)
		}
		return courses.Course{}, err
	}

	s.updateCache(ctx, course)
	return course, nil
}

// FindAll returns courses ordered by id. The list is never cached so its
// order always reflects storage.
func (s *CourseService) FindAll(ctx context.Context, limit, offset int) ([]courses.Course, error) {
	ctx, span := tracer.Start(ctx, "CourseService.FindAll", trace.WithAttributes(
		attribute.Int("limit", limit),
		attribute.Int("offset", offset),
	))
	defer span.End()

	seq, err := s.repo.FindAll(ctx, limit, offset)
	if err != nil {
		recordError(span, err)
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}

	list := make([]courses.Course, 0)
	for course, err := range seq {
		if err != nil {
			recordError(span, err)
			return nil, fmt.Errorf("failed to list courses: %w", err)
		}
		list = append(list, course)
	}
	return list, nil
}

// Update replaces the course fields. Checks run in order: existence,
// ownership, payload.
func (s *CourseService) Update(ctx context.Context, id, userID int64, in courses.Input) error {
	ctx, span := tracer.Start(ctx, "CourseService.Update", trace.WithAttributes(
		attribute.Int64("course.id", id),
		attribute.Int64("user.id", userID),
	))
	defer span.End()

	current, err := s.ownedCourse(ctx, id, userID)
	if err != nil {
		return err
	}

	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return err
	}

	if err := s.invalidate(ctx, id); err != nil {
		recordError(span, err)
		return err
	}

	if err := s.repo.Update(ctx, current.Apply(in)); err != nil {
		if !errors.Is(err, courses.ErrNotFound) {
			recordError(span, err)
		}
		return err
	}

	if err := s.invalidate(ctx, id); err != nil {
		recordError(span, err)
		return err
	}
	return nil
}

// Delete removes a course owned by userID.
func (s *CourseService) Delete(ctx context.Context, id, userID int64) error {
	ctx, span := tracer.Start(ctx, "CourseService.Delete", trace.WithAttributes(
		attribute.Int64("course.id", id),
		attribute.Int64("user.id", userID),
	))
	defer span.End()

	if _, err := s.ownedCourse(ctx, id, userID); err != nil {
		return err
	}

	if err := s.invalidate(ctx, id); err != nil {
		recordError(span, err)
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if !errors.Is(err, courses.ErrNotFound) {
			recordError(span, err)
		}
		return err
	}

	if err := s.invalidate(ctx, id); err != nil {
		recordError(span, err)
		return err
	}
	return nil
}

// Ping reports whether storage is reachable.
func (s *CourseService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

// ownedCourse loads the course from storage, bypassing the cache.
func (s *CourseService) ownedCourse(ctx context.Context, id, userID int64) (courses.Course, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return courses.Course{}, err
	}
	if !course.OwnedBy(userID) {
		s.logger.WarnContext(ctx, "ownership check failed", "id", id, "user_id", userID, "owner_id", course.UserID)
		return courses.Course{}, courses.ErrForbidden
	}
	return course, nil
}

func (s *CourseService) updateCache(ctx context.Context, course courses.Course) {
	data, err := json.Marshal(course)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to marshal course for cache", "error", err)
		return
	}
	if err := s.cache.Set(ctx, cacheKey(course.ID), data); err != nil {
		s.logger.ErrorContext(ctx, "failed to set cache data", "error", err)
	}
}

// invalidate drops the cached copy of a course. Writes call it before and
// after touching storage; a failed invalidation fails the write.
func (s *CourseService) invalidate(ctx context.Context, id int64) error {
	if err := s.cache.Remove(ctx, cacheKey(id)); err != nil {
		s.logger.ErrorContext(ctx, "failed to invalidate cache", "id", id, "error", err)
		return fmt.Errorf("failed to invalidate cached course %d: %w", id, err)
	}
	return nil
}

func cacheKey(id int64) string {
	return strconv.FormatInt(id, 10)
}

func recordError(span trace.Span, err error) {
	if errors.Is(err, validation.ErrValidation) {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
