package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/skillforge/skillforge-server/internal/domain"
	"github.com/skillforge/skillforge-server/internal/search"
)

func (s *Server) registerCourseRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listCourses",
		Method:      http.MethodGet,
		Path:        "/api/v1/courses",
		Summary:     "List courses",
		Description: "Returns the published course catalog",
		Tags:        []string{"Courses"},
	}, s.handleListCourses)

	huma.Register(s.api, huma.Operation{
		OperationID: "searchCourses",
		Method:      http.MethodGet,
		Path:        "/api/v1/courses/search",
		Summary:     "Search courses",
		Description: "Full-text search over the published catalog",
		Tags:        []string{"Courses"},
	}, s.handleSearchCourses)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCourse",
		Method:      http.MethodGet,
		Path:        "/api/v1/courses/{id}",
		Summary:     "Get course",
		Description: "Returns a course by ID",
		Tags:        []string{"Courses"},
	}, s.handleGetCourse)
}

// === DTOs ===

// RatingResponse contains a single rating in API responses.
type RatingResponse struct {
	UserID string `json:"user_id" doc:"Rating author"`
	Score  int    `json:"score" doc:"Score from 1 to 5"`
	Review string `json:"review,omitempty" doc:"Optional review text"`
}

// CourseResponse contains course data in API responses.
type CourseResponse struct {
	ID              string           `json:"id" doc:"Course ID"`
	Title           string           `json:"title" doc:"Course title"`
	Description     string           `json:"description,omitempty" doc:"Course description"`
	Thumbnail       string           `json:"thumbnail,omitempty" doc:"Thumbnail reference"`
	Price           float64          `json:"price" doc:"List price"`
	Discount        float64          `json:"discount" doc:"Discount percentage, 0-100"`
	EffectivePrice  float64          `json:"effective_price" doc:"Price after discount"`
	EducatorID      string           `json:"educator_id" doc:"Owning educator"`
	TagIDs          []string         `json:"tag_ids,omitempty" doc:"Tag references"`
	Ratings         []RatingResponse `json:"ratings,omitempty" doc:"Ratings"`
	AverageRating   float64          `json:"average_rating" doc:"Mean rating score, 0 when unrated"`
	EnrollmentCount int              `json:"enrollment_count" doc:"Number of enrolled users"`
	Published       bool             `json:"published" doc:"Whether the course is public"`
	CreatedAt       time.Time        `json:"created_at" doc:"Creation time"`
	UpdatedAt       time.Time        `json:"updated_at" doc:"Last update time"`
}

func toCourseResponse(c *domain.Course) CourseResponse {
	resp := CourseResponse{
		ID:              c.ID,
		Title:           c.Title,
		Description:     c.Description,
		Thumbnail:       c.Thumbnail,
		Price:           c.Price,
		Discount:        c.Discount,
		EffectivePrice:  c.DiscountedPrice(),
		EducatorID:      c.EducatorID,
		TagIDs:          c.TagIDs,
		AverageRating:   c.AverageRating(),
		EnrollmentCount: c.EnrollmentCount(),
		Published:       c.Published,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
	for _, r := range c.Ratings {
		resp.Ratings = append(resp.Ratings, RatingResponse{
			UserID: r.UserID,
			Score:  r.Score,
			Review: r.Review,
		})
	}
	return resp
}

func toCourseResponses(courses []*domain.Course) []CourseResponse {
	resp := make([]CourseResponse, len(courses))
	for i, c := range courses {
		resp[i] = toCourseResponse(c)
	}
	return resp
}

// ListCoursesResponse contains the published catalog.
type ListCoursesResponse struct {
	Courses []CourseResponse `json:"courses" doc:"Published courses"`
}

// ListCoursesOutput wraps the catalog response for Huma.
type ListCoursesOutput struct {
	Body ListCoursesResponse
}

// GetCourseInput contains parameters for getting a course.
type GetCourseInput struct {
	ID string `path:"id" doc:"Course ID"`
}

// CourseOutput wraps a single course response for Huma.
type CourseOutput struct {
	Body CourseResponse
}

// SearchCoursesInput contains search parameters.
type SearchCoursesInput struct {
	Query  string `query:"q" doc:"Search query; empty lists the catalog"`
	Tag    string `query:"tag" doc:"Filter by exact tag name"`
	Sort   string `query:"sort" enum:"relevance,title,price,rating,popular,recent" default:"relevance" doc:"Sort order"`
	Limit  int    `query:"limit" minimum:"1" maximum:"100" default:"20" doc:"Maximum results"`
	Offset int    `query:"offset" minimum:"0" default:"0" doc:"Results to skip"`
}

// SearchCoursesOutput wraps search results for Huma.
type SearchCoursesOutput struct {
	Body search.SearchResult
}

// === Handlers ===

func (s *Server) handleListCourses(ctx context.Context, _ *struct{}) (*ListCoursesOutput, error) {
	courses, err := s.services.Course.ListPublishedCourses(ctx)
	if err != nil {
		return nil, err
	}

	return &ListCoursesOutput{Body: ListCoursesResponse{Courses: toCourseResponses(courses)}}, nil
}

func (s *Server) handleGetCourse(ctx context.Context, input *GetCourseInput) (*CourseOutput, error) {
	course, err := s.services.Course.GetCourse(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &CourseOutput{Body: toCourseResponse(course)}, nil
}

func (s *Server) handleSearchCourses(ctx context.Context, input *SearchCoursesInput) (*SearchCoursesOutput, error) {
	params := search.DefaultSearchParams()
	params.Query = input.Query
	params.Limit = input.Limit
	params.Offset = input.Offset
	params.SortBy = input.Sort
	if input.Tag != "" {
		params.TagNames = []string{input.Tag}
	}

	result, err := s.services.Search.Search(ctx, params)
	if err != nil {
		return nil, err
	}

	return &SearchCoursesOutput{Body: *result}, nil
}
