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

// UserService orchestrates user accounts, enrollment, ratings, and
// lecture progress.
type UserService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewUserService creates a new user service.
func NewUserService(store *store.Store, logger *slog.Logger) *UserService {
	return &UserService{
		store:  store,
		logger: logger,
	}
}

// RegisterUser creates a student account. Identity verification happens
// upstream; the server only records the resolved account.
func (s *UserService) RegisterUser(ctx context.Context, name, email string) (*domain.User, error) {
	userID, err := id.Generate("user")
	if err != nil {
		return nil, fmt.Errorf("generate user ID: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		ID:        userID,
		Name:      name,
		Email:     email,
		Role:      domain.RoleStudent,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.store.CreateUser(ctx, user)
	if errors.Is(err, store.ErrEmailExists) {
		return nil, domainerrors.AlreadyExists("email already in use")
	}
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user registered", "user_id", userID, "email", email)

	return user, nil
}

// GetUser retrieves a user by ID.
func (s *UserService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if errors.Is(err, store.ErrUserNotFound) {
		return nil, domainerrors.NotFound("user not found")
	}
	return user, err
}

// EnrollInCourse enrolls the user in a published course. Enrolling twice
// is a no-op, matching the store semantics.
func (s *UserService) EnrollInCourse(ctx context.Context, userID, courseID string) error {
	course, err := s.store.GetCourse(ctx, courseID)
	if errors.Is(err, store.ErrCourseNotFound) {
		return domainerrors.NotFound("course not found")
	}
	if err != nil {
		return fmt.Errorf("get course: %w", err)
	}
	if !course.Published {
		return domainerrors.Conflict("course is not published")
	}

	err = s.store.AddEnrollment(ctx, userID, courseID)
	if errors.Is(err, store.ErrUserNotFound) {
		return domainerrors.NotFound("user not found")
	}
	if err != nil {
		return fmt.Errorf("add enrollment: %w", err)
	}

	s.logger.Info("user enrolled", "user_id", userID, "course_id", courseID)

	return nil
}

// ListEnrollments returns the user's enrolled courses.
func (s *UserService) ListEnrollments(ctx context.Context, userID string) ([]*domain.Course, error) {
	courses, err := s.store.GetUserEnrollments(ctx, userID)
	if errors.Is(err, store.ErrUserNotFound) {
		return nil, domainerrors.NotFound("user not found")
	}
	return courses, err
}

// RateCourse records the user's rating of a course they are enrolled in.
// Re-rating replaces the previous score.
func (s *UserService) RateCourse(ctx context.Context, userID, courseID string, score int, review string) (*domain.Course, error) {
	if score < 1 || score > 5 {
		return nil, domainerrors.Validation("rating score must be between 1 and 5")
	}

	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsEnrolledIn(courseID) {
		return nil, domainerrors.Forbidden("only enrolled users can rate a course")
	}

	course, err := s.store.GetCourse(ctx, courseID)
	if errors.Is(err, store.ErrCourseNotFound) {
		return nil, domainerrors.NotFound("course not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}

	replaced := course.SetRating(domain.Rating{
		UserID: userID,
		Score:  score,
		Review: review,
	})
	course.Touch()

	if err := s.store.UpdateCourse(ctx, course); err != nil {
		return nil, fmt.Errorf("update course: %w", err)
	}

	s.logger.Info("course rated",
		"user_id", userID,
		"course_id", courseID,
		"score", score,
		"replaced", replaced,
	)

	return course, nil
}

// MarkLectureCompleted records a completed lecture for the user, creating
// the progress record on first use. Repeat completions are no-ops.
func (s *UserService) MarkLectureCompleted(ctx context.Context, userID, courseID, lectureID string) (*domain.CourseProgress, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsEnrolledIn(courseID) {
		return nil, domainerrors.Forbidden("user is not enrolled in this course")
	}

	progress, err := s.store.GetProgress(ctx, userID, courseID)
	if errors.Is(err, store.ErrProgressNotFound) {
		now := time.Now()
		progress = &domain.CourseProgress{
			UserID:    userID,
			CourseID:  courseID,
			CreatedAt: now,
			UpdatedAt: now,
		}
	} else if err != nil {
		return nil, fmt.Errorf("get progress: %w", err)
	}

	progress.MarkLectureCompleted(lectureID)
	progress.UpdatedAt = time.Now()

	if err := s.store.UpsertProgress(ctx, progress); err != nil {
		return nil, fmt.Errorf("upsert progress: %w", err)
	}

	return progress, nil
}

// GetProgress returns the user's progress on a course. A user who never
// completed a lecture gets an empty record, not an error.
func (s *UserService) GetProgress(ctx context.Context, userID, courseID string) (*domain.CourseProgress, error) {
	progress, err := s.store.GetProgress(ctx, userID, courseID)
	if errors.Is(err, store.ErrProgressNotFound) {
		return &domain.CourseProgress{UserID: userID, CourseID: courseID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get progress: %w", err)
	}
	return progress, nil
}
