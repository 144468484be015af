package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/skillforge/skillforge-server/internal/service"
)

func (s *Server) registerEducatorRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "becomeEducator",
		Method:      http.MethodPost,
		Path:        "/api/v1/users/{id}/educator",
		Summary:     "Become educator",
		Description: "Promotes a student to the educator role",
		Tags:        []string{"Educator"},
	}, s.handleBecomeEducator)

	huma.Register(s.api, huma.Operation{
		OperationID: "educatorDashboard",
		Method:      http.MethodGet,
		Path:        "/api/v1/educators/{id}/dashboard",
		Summary:     "Educator dashboard",
		Description: "Summarizes the educator's courses, enrollments, and earnings",
		Tags:        []string{"Educator"},
	}, s.handleEducatorDashboard)

	huma.Register(s.api, huma.Operation{
		OperationID: "listEducatorCourses",
		Method:      http.MethodGet,
		Path:        "/api/v1/educators/{id}/courses",
		Summary:     "List educator courses",
		Description: "Returns the educator's courses, drafts included",
		Tags:        []string{"Educator"},
	}, s.handleListEducatorCourses)

	huma.Register(s.api, huma.Operation{
		OperationID: "createCourse",
		Method:      http.MethodPost,
		Path:        "/api/v1/educators/{id}/courses",
		Summary:     "Create course",
		Description: "Creates a course owned by the educator",
		Tags:        []string{"Educator"},
	}, s.handleCreateCourse)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateCourse",
		Method:      http.MethodPatch,
		Path:        "/api/v1/educators/{id}/courses/{courseId}",
		Summary:     "Update course",
		Description: "Applies a partial update to an owned course",
		Tags:        []string{"Educator"},
	}, s.handleUpdateCourse)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteCourse",
		Method:      http.MethodDelete,
		Path:        "/api/v1/educators/{id}/courses/{courseId}",
		Summary:     "Delete course",
		Description: "Deletes an owned course",
		Tags:        []string{"Educator"},
	}, s.handleDeleteCourse)
}

// === DTOs ===

// BecomeEducatorInput contains parameters for the role promotion.
type BecomeEducatorInput struct {
	ID string `path:"id" doc:"User ID"`
}

// EducatorPathInput identifies an educator in the path.
type EducatorPathInput struct {
	ID string `path:"id" doc:"Educator user ID"`
}

// DashboardOutput wraps the dashboard summary for Huma.
type DashboardOutput struct {
	Body service.DashboardSummary
}

// EducatorCoursesOutput wraps the educator course listing for Huma.
type EducatorCoursesOutput struct {
	Body ListCoursesResponse
}

// CreateCourseRequest is the request body for creating a course.
type CreateCourseRequest struct {
	Title       string   `json:"title" validate:"required,min=3,max=200" doc:"Course title"`
	Description string   `json:"description,omitempty" validate:"omitempty,max=10000" doc:"Course description"`
	Thumbnail   string   `json:"thumbnail,omitempty" validate:"omitempty,url" doc:"Thumbnail URL"`
	Price       float64  `json:"price" validate:"gte=0" doc:"List price"`
	Discount    float64  `json:"discount,omitempty" validate:"gte=0,lte=100" doc:"Discount percentage"`
	TagIDs      []string `json:"tag_ids,omitempty" doc:"Tag references"`
	Published   bool     `json:"published,omitempty" doc:"Publish immediately"`
}

// CreateCourseInput wraps the create course request for Huma.
type CreateCourseInput struct {
	ID   string `path:"id" doc:"Educator user ID"`
	Body CreateCourseRequest
}

// UpdateCourseRequest is the request body for a partial course update.
type UpdateCourseRequest struct {
	Title       *string  `json:"title,omitempty" validate:"omitempty,min=3,max=200" doc:"Course title"`
	Description *string  `json:"description,omitempty" validate:"omitempty,max=10000" doc:"Course description"`
	Thumbnail   *string  `json:"thumbnail,omitempty" validate:"omitempty,url" doc:"Thumbnail URL"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,gte=0" doc:"List price"`
	Discount    *float64 `json:"discount,omitempty" validate:"omitempty,gte=0,lte=100" doc:"Discount percentage"`
	TagIDs      []string `json:"tag_ids,omitempty" doc:"Replacement tag references"`
	Published   *bool    `json:"published,omitempty" doc:"Publication state"`
}

// UpdateCourseInput wraps the update course request for Huma.
type UpdateCourseInput struct {
	ID       string `path:"id" doc:"Educator user ID"`
	CourseID string `path:"courseId" doc:"Course ID"`
	Body     UpdateCourseRequest
}

// DeleteCourseInput contains parameters for deleting a course.
type DeleteCourseInput struct {
	ID       string `path:"id" doc:"Educator user ID"`
	CourseID string `path:"courseId" doc:"Course ID"`
}

// === Handlers ===

func (s *Server) handleBecomeEducator(ctx context.Context, input *BecomeEducatorInput) (*UserOutput, error) {
	user, err := s.services.Educator.BecomeEducator(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &UserOutput{Body: toUserResponse(user)}, nil
}

func (s *Server) handleEducatorDashboard(ctx context.Context, input *EducatorPathInput) (*DashboardOutput, error) {
	summary, err := s.services.Educator.Dashboard(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &DashboardOutput{Body: *summary}, nil
}

func (s *Server) handleListEducatorCourses(ctx context.Context, input *EducatorPathInput) (*EducatorCoursesOutput, error) {
	courses, err := s.services.Educator.ListOwnCourses(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &EducatorCoursesOutput{Body: ListCoursesResponse{Courses: toCourseResponses(courses)}}, nil
}

func (s *Server) handleCreateCourse(ctx context.Context, input *CreateCourseInput) (*CourseOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	course, err := s.services.Course.CreateCourse(ctx, input.ID, service.CreateCourseInput{
		Title:       input.Body.Title,
		Description: input.Body.Description,
		Thumbnail:   input.Body.Thumbnail,
		Price:       input.Body.Price,
		Discount:    input.Body.Discount,
		TagIDs:      input.Body.TagIDs,
		Published:   input.Body.Published,
	})
	if err != nil {
		return nil, err
	}

	return &CourseOutput{Body: toCourseResponse(course)}, nil
}

func (s *Server) handleUpdateCourse(ctx context.Context, input *UpdateCourseInput) (*CourseOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	course, err := s.services.Course.UpdateCourse(ctx, input.ID, input.CourseID, service.UpdateCourseInput{
		Title:       input.Body.Title,
		Description: input.Body.Description,
		Thumbnail:   input.Body.Thumbnail,
		Price:       input.Body.Price,
		Discount:    input.Body.Discount,
		TagIDs:      input.Body.TagIDs,
		Published:   input.Body.Published,
	})
	if err != nil {
		return nil, err
	}

	return &CourseOutput{Body: toCourseResponse(course)}, nil
}

func (s *Server) handleDeleteCourse(ctx context.Context, input *DeleteCourseInput) (*struct{}, error) {
	if err := s.services.Course.DeleteCourse(ctx, input.ID, input.CourseID); err != nil {
		return nil, err
	}
	return &struct{}{}, nil
}
