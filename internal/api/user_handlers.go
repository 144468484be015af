package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/skillforge/skillforge-server/internal/domain"
)

func (s *Server) registerUserRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "registerUser",
		Method:      http.MethodPost,
		Path:        "/api/v1/users",
		Summary:     "Register user",
		Description: "Creates a student account",
		Tags:        []string{"Users"},
	}, s.handleRegisterUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "getUser",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/{id}",
		Summary:     "Get user",
		Description: "Returns a user by ID",
		Tags:        []string{"Users"},
	}, s.handleGetUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "enrollInCourse",
		Method:      http.MethodPost,
		Path:        "/api/v1/users/{id}/enrollments",
		Summary:     "Enroll in course",
		Description: "Enrolls the user in a published course",
		Tags:        []string{"Users"},
	}, s.handleEnrollInCourse)

	huma.Register(s.api, huma.Operation{
		OperationID: "listEnrollments",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/{id}/enrollments",
		Summary:     "List enrollments",
		Description: "Returns the user's enrolled courses",
		Tags:        []string{"Users"},
	}, s.handleListEnrollments)

	huma.Register(s.api, huma.Operation{
		OperationID: "rateCourse",
		Method:      http.MethodPost,
		Path:        "/api/v1/users/{id}/ratings",
		Summary:     "Rate course",
		Description: "Records the user's rating of an enrolled course",
		Tags:        []string{"Users"},
	}, s.handleRateCourse)

	huma.Register(s.api, huma.Operation{
		OperationID: "completeLecture",
		Method:      http.MethodPost,
		Path:        "/api/v1/users/{id}/progress/{courseId}/lectures",
		Summary:     "Complete lecture",
		Description: "Records a completed lecture",
		Tags:        []string{"Users"},
	}, s.handleCompleteLecture)

	huma.Register(s.api, huma.Operation{
		OperationID: "getProgress",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/{id}/progress/{courseId}",
		Summary:     "Get progress",
		Description: "Returns the user's progress on a course",
		Tags:        []string{"Users"},
	}, s.handleGetProgress)
}

// === DTOs ===

// UserResponse contains user data in API responses.
type UserResponse struct {
	ID                string    `json:"id" doc:"User ID"`
	Name              string    `json:"name" doc:"Display name"`
	Email             string    `json:"email" doc:"Email address"`
	Role              string    `json:"role" doc:"Platform role: student or educator"`
	EnrolledCourseIDs []string  `json:"enrolled_course_ids,omitempty" doc:"Enrolled course IDs"`
	CreatedAt         time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt         time.Time `json:"updated_at" doc:"Last update time"`
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:                u.ID,
		Name:              u.Name,
		Email:             u.Email,
		Role:              string(u.Role),
		EnrolledCourseIDs: u.EnrolledCourseIDs,
		CreatedAt:         u.CreatedAt,
		UpdatedAt:         u.UpdatedAt,
	}
}

// RegisterUserRequest is the request body for registering a user.
type RegisterUserRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=100" doc:"Display name"`
	Email string `json:"email" validate:"required,email" doc:"Email address"`
}

// RegisterUserInput wraps the register request for Huma.
type RegisterUserInput struct {
	Body RegisterUserRequest
}

// UserOutput wraps the user response for Huma.
type UserOutput struct {
	Body UserResponse
}

// GetUserInput contains parameters for getting a user.
type GetUserInput struct {
	ID string `path:"id" doc:"User ID"`
}

// EnrollRequest is the request body for enrolling in a course.
type EnrollRequest struct {
	CourseID string `json:"course_id" validate:"required" doc:"Course to enroll in"`
}

// EnrollInput wraps the enrollment request for Huma.
type EnrollInput struct {
	ID   string `path:"id" doc:"User ID"`
	Body EnrollRequest
}

// EnrollmentsOutput wraps the enrollment listing for Huma.
type EnrollmentsOutput struct {
	Body ListCoursesResponse
}

// RateCourseRequest is the request body for rating a course.
type RateCourseRequest struct {
	CourseID string `json:"course_id" validate:"required" doc:"Course to rate"`
	Score    int    `json:"score" validate:"required,gte=1,lte=5" doc:"Score from 1 to 5"`
	Review   string `json:"review,omitempty" validate:"omitempty,max=2000" doc:"Optional review text"`
}

// RateCourseInput wraps the rating request for Huma.
type RateCourseInput struct {
	ID   string `path:"id" doc:"User ID"`
	Body RateCourseRequest
}

// CompleteLectureRequest is the request body for completing a lecture.
type CompleteLectureRequest struct {
	LectureID string `json:"lecture_id" validate:"required" doc:"Completed lecture"`
}

// CompleteLectureInput wraps the lecture completion request for Huma.
type CompleteLectureInput struct {
	ID       string `path:"id" doc:"User ID"`
	CourseID string `path:"courseId" doc:"Course ID"`
	Body     CompleteLectureRequest
}

// ProgressResponse contains course progress in API responses.
type ProgressResponse struct {
	UserID              string   `json:"user_id" doc:"User ID"`
	CourseID            string   `json:"course_id" doc:"Course ID"`
	CompletedLectureIDs []string `json:"completed_lecture_ids,omitempty" doc:"Completed lectures"`
	Completed           bool     `json:"completed" doc:"Whether the course is finished"`
}

// ProgressOutput wraps the progress response for Huma.
type ProgressOutput struct {
	Body ProgressResponse
}

// GetProgressInput contains parameters for reading progress.
type GetProgressInput struct {
	ID       string `path:"id" doc:"User ID"`
	CourseID string `path:"courseId" doc:"Course ID"`
}

func toProgressResponse(p *domain.CourseProgress) ProgressResponse {
	return ProgressResponse{
		UserID:              p.UserID,
		CourseID:            p.CourseID,
		CompletedLectureIDs: p.CompletedLectureIDs,
		Completed:           p.Completed,
	}
}

// === Handlers ===

func (s *Server) handleRegisterUser(ctx context.Context, input *RegisterUserInput) (*UserOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	user, err := s.services.User.RegisterUser(ctx, input.Body.Name, input.Body.Email)
	if err != nil {
		return nil, err
	}

	return &UserOutput{Body: toUserResponse(user)}, nil
}

func (s *Server) handleGetUser(ctx context.Context, input *GetUserInput) (*UserOutput, error) {
	user, err := s.services.User.GetUser(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &UserOutput{Body: toUserResponse(user)}, nil
}

func (s *Server) handleEnrollInCourse(ctx context.Context, input *EnrollInput) (*UserOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	if err := s.services.User.EnrollInCourse(ctx, input.ID, input.Body.CourseID); err != nil {
		return nil, err
	}

	user, err := s.services.User.GetUser(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &UserOutput{Body: toUserResponse(user)}, nil
}

func (s *Server) handleListEnrollments(ctx context.Context, input *GetUserInput) (*EnrollmentsOutput, error) {
	courses, err := s.services.User.ListEnrollments(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &EnrollmentsOutput{Body: ListCoursesResponse{Courses: toCourseResponses(courses)}}, nil
}

func (s *Server) handleRateCourse(ctx context.Context, input *RateCourseInput) (*CourseOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	course, err := s.services.User.RateCourse(ctx, input.ID, input.Body.CourseID, input.Body.Score, input.Body.Review)
	if err != nil {
		return nil, err
	}

	return &CourseOutput{Body: toCourseResponse(course)}, nil
}

func (s *Server) handleCompleteLecture(ctx context.Context, input *CompleteLectureInput) (*ProgressOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	progress, err := s.services.User.MarkLectureCompleted(ctx, input.ID, input.CourseID, input.Body.LectureID)
	if err != nil {
		return nil, err
	}

	return &ProgressOutput{Body: toProgressResponse(progress)}, nil
}

func (s *Server) handleGetProgress(ctx context.Context, input *GetProgressInput) (*ProgressOutput, error) {
	// The course must exist even when no progress is recorded yet
	if _, err := s.services.Course.GetCourse(ctx, input.CourseID); err != nil {
		return nil, err
	}
	if _, err := s.services.User.GetUser(ctx, input.ID); err != nil {
		return nil, err
	}

	progress, err := s.services.User.GetProgress(ctx, input.ID, input.CourseID)
	if err != nil {
		return nil, err
	}

	return &ProgressOutput{Body: toProgressResponse(progress)}, nil
}
