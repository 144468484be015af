// Package service provides the business logic layer for the course
// catalog, enrollment, and recommendations.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/skillforge/skillforge-server/internal/domain"
	domainerrors "github.com/skillforge/skillforge-server/internal/errors"
	"github.com/skillforge/skillforge-server/internal/id"
	"github.com/skillforge/skillforge-server/internal/store"
)

// CourseService orchestrates catalog operations with educator ownership
// enforcement.
type CourseService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewCourseService creates a new course service.
func NewCourseService(store *store.Store, logger *slog.Logger) *CourseService {
	return &CourseService{
		store:  store,
		logger: logger,
	}
}

// CreateCourseInput carries the writable course fields.
type CreateCourseInput struct {
	Title       string
	Description string
	Thumbnail   string
	Price       float64
	Discount    float64
	TagIDs      []string
	Published   bool
}

// UpdateCourseInput carries optional updates; nil fields are unchanged.
type UpdateCourseInput struct {
	Title       *string
	Description *string
	Thumbnail   *string
	Price       *float64
	Discount    *float64
	TagIDs      []string
	Published   *bool
}

// CreateCourse creates a course owned by the given educator. Only users
// with the educator role can author courses, and every referenced tag
// must exist.
func (s *CourseService) CreateCourse(ctx context.Context, educatorID string, input CreateCourseInput) (*domain.Course, error) {
	educator, err := s.store.GetUser(ctx, educatorID)
	if errors.Is(err, store.ErrUserNotFound) {
		return nil, domainerrors.NotFound("educator not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get educator: %w", err)
	}
	if !educator.IsEducator() {
		return nil, domainerrors.Forbidden("only educators can create courses")
	}

	if err := s.verifyTags(ctx, input.TagIDs); err != nil {
		return nil, err
	}

	courseID, err := id.Generate("course")
	if err != nil {
		return nil, fmt.Errorf("generate course ID: %w", err)
	}

	now := time.Now()
	course := &domain.Course{
		ID:          courseID,
		Title:       input.Title,
		Description: input.Description,
		Thumbnail:   input.Thumbnail,
		Price:       input.Price,
		Discount:    input.Discount,
		EducatorID:  educatorID,
		TagIDs:      input.TagIDs,
		Published:   input.Published,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.CreateCourse(ctx, course); err != nil {
		return nil, fmt.Errorf("create course: %w", err)
	}

	s.logger.Info("course created",
		"course_id", courseID,
		"educator_id", educatorID,
		"title", input.Title,
		"published", input.Published,
	)

	return course, nil
}

// GetCourse retrieves a course by ID.
func (s *CourseService) GetCourse(ctx context.Context, courseID string) (*domain.Course, error) {
	course, err := s.store.GetCourse(ctx, courseID)
	if errors.Is(err, store.ErrCourseNotFound) {
		return nil, domainerrors.NotFound("course not found")
	}
	return course, err
}

// ListPublishedCourses returns the public catalog.
func (s *CourseService) ListPublishedCourses(ctx context.Context) ([]*domain.Course, error) {
	return s.store.ListPublishedCourses(ctx, store.PublishedFilter{})
}

// UpdateCourse applies a partial update. Only the owning educator may
// modify a course.
func (s *CourseService) UpdateCourse(ctx context.Context, educatorID, courseID string, input UpdateCourseInput) (*domain.Course, error) {
	course, err := s.GetCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course.EducatorID != educatorID {
		return nil, domainerrors.Forbidden("course belongs to a different educator")
	}

	if input.Title != nil {
		course.Title = *input.Title
	}
	if input.Description != nil {
		course.Description = *input.Description
	}
	if input.Thumbnail != nil {
		course.Thumbnail = *input.Thumbnail
	}
	if input.Price != nil {
		course.Price = *input.Price
	}
	if input.Discount != nil {
		course.Discount = *input.Discount
	}
	if input.TagIDs != nil {
		if err := s.verifyTags(ctx, input.TagIDs); err != nil {
			return nil, err
		}
		course.TagIDs = input.TagIDs
	}
	if input.Published != nil {
		course.Published = *input.Published
	}
	course.Touch()

	if err := s.store.UpdateCourse(ctx, course); err != nil {
		return nil, fmt.Errorf("update course: %w", err)
	}

	s.logger.Info("course updated", "course_id", courseID, "educator_id", educatorID)

	return course, nil
}

// DeleteCourse removes a course. Only the owning educator may delete it.
func (s *CourseService) DeleteCourse(ctx context.Context, educatorID, courseID string) error {
	course, err := s.GetCourse(ctx, courseID)
	if err != nil {
		return err
	}
	if course.EducatorID != educatorID {
		return domainerrors.Forbidden("course belongs to a different educator")
	}

	if err := s.store.DeleteCourse(ctx, courseID); err != nil {
		return fmt.Errorf("delete course: %w", err)
	}

	s.logger.Info("course deleted", "course_id", courseID, "educator_id", educatorID)

	return nil
}

// verifyTags rejects references to tags that do not exist.
func (s *CourseService) verifyTags(ctx context.Context, tagIDs []string) error {
	for _, tagID := range tagIDs {
		_, err := s.store.GetTag(ctx, tagID)
		if errors.Is(err, store.ErrTagNotFound) {
			return domainerrors.Validation("unknown tag: " + tagID)
		}
		if err != nil {
			return fmt.Errorf("get tag: %w", err)
		}
	}
	return nil
}
