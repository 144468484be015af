package service

import (
	"context"
	"log/slog"

	"github.com/skillforge/skillforge-server/internal/domain"
	domainerrors "github.com/skillforge/skillforge-server/internal/errors"
	"github.com/skillforge/skillforge-server/internal/store"
)

// EducatorService orchestrates educator role management and the educator
// dashboard.
type EducatorService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewEducatorService creates a new educator service.
func NewEducatorService(store *store.Store, logger *slog.Logger) *EducatorService {
	return &EducatorService{
		store:  store,
		logger: logger,
	}
}

// DashboardSummary aggregates an educator's catalog standing.
type DashboardSummary struct {
	TotalCourses     int              `json:"total_courses"`
	TotalEnrollments int              `json:"total_enrollments"`
	TotalEarnings    float64          `json:"total_earnings"`
	Courses          []*domain.Course `json:"courses"`
}

// BecomeEducator promotes a student to the educator role. Promoting an
// educator again is a no-op.
func (s *EducatorService) BecomeEducator(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, mapUserErr(err)
	}

	if user.IsEducator() {
		return user, nil
	}

	user.Role = domain.RoleEducator
	user.Touch()

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, mapUserErr(err)
	}

	s.logger.Info("user promoted to educator", "user_id", userID)

	return user, nil
}

// Dashboard summarizes the educator's courses, total enrollments, and
// earnings. Earnings are enrollments times the effective (discounted)
// price per course.
func (s *EducatorService) Dashboard(ctx context.Context, educatorID string) (*DashboardSummary, error) {
	user, err := s.store.GetUser(ctx, educatorID)
	if err != nil {
		return nil, mapUserErr(err)
	}
	if !user.IsEducator() {
		return nil, domainerrors.Forbidden("user is not an educator")
	}

	courses, err := s.store.ListCoursesByEducator(ctx, educatorID)
	if err != nil {
		return nil, err
	}

	summary := &DashboardSummary{
		TotalCourses: len(courses),
		Courses:      courses,
	}
	for _, course := range courses {
		summary.TotalEnrollments += course.EnrollmentCount()
		summary.TotalEarnings += float64(course.EnrollmentCount()) * course.DiscountedPrice()
	}

	return summary, nil
}

// ListOwnCourses returns the educator's courses, drafts included.
func (s *EducatorService) ListOwnCourses(ctx context.Context, educatorID string) ([]*domain.Course, error) {
	if _, err := s.store.GetUser(ctx, educatorID); err != nil {
		return nil, mapUserErr(err)
	}
	return s.store.ListCoursesByEducator(ctx, educatorID)
}
