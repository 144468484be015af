package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/skillforge/skillforge-server/internal/domain"
)

func (s *Server) registerTagRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listTags",
		Method:      http.MethodGet,
		Path:        "/api/v1/tags",
		Summary:     "List tags",
		Description: "Returns all tags with current course counts",
		Tags:        []string{"Tags"},
	}, s.handleListTags)

	huma.Register(s.api, huma.Operation{
		OperationID: "createTag",
		Method:      http.MethodPost,
		Path:        "/api/v1/tags",
		Summary:     "Create tag",
		Description: "Creates a new tag with a unique name",
		Tags:        []string{"Tags"},
	}, s.handleCreateTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "getTag",
		Method:      http.MethodGet,
		Path:        "/api/v1/tags/{id}",
		Summary:     "Get tag",
		Description: "Returns a tag by ID",
		Tags:        []string{"Tags"},
	}, s.handleGetTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "renameTag",
		Method:      http.MethodPatch,
		Path:        "/api/v1/tags/{id}",
		Summary:     "Rename tag",
		Description: "Changes a tag's display name",
		Tags:        []string{"Tags"},
	}, s.handleRenameTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteTag",
		Method:      http.MethodDelete,
		Path:        "/api/v1/tags/{id}",
		Summary:     "Delete tag",
		Description: "Deletes a tag and detaches it from all courses",
		Tags:        []string{"Tags"},
	}, s.handleDeleteTag)
}

// === DTOs ===

// TagResponse contains tag data in API responses.
type TagResponse struct {
	ID          string    `json:"id" doc:"Tag ID"`
	Name        string    `json:"name" doc:"Tag name"`
	CourseCount int       `json:"course_count" doc:"Courses carrying this tag"`
	CreatedAt   time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt   time.Time `json:"updated_at" doc:"Last update time"`
}

func toTagResponse(t *domain.Tag) TagResponse {
	return TagResponse{
		ID:          t.ID,
		Name:        t.Name,
		CourseCount: t.CourseCount,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// ListTagsResponse contains a list of tags.
type ListTagsResponse struct {
	Tags []TagResponse `json:"tags" doc:"All tags"`
}

// ListTagsOutput wraps the list tags response for Huma.
type ListTagsOutput struct {
	Body ListTagsResponse
}

// CreateTagRequest is the request body for creating a tag.
type CreateTagRequest struct {
	Name string `json:"name" validate:"required,min=1,max=50" doc:"Tag name"`
}

// CreateTagInput wraps the create tag request for Huma.
type CreateTagInput struct {
	Body CreateTagRequest
}

// TagOutput wraps the tag response for Huma.
type TagOutput struct {
	Body TagResponse
}

// GetTagInput contains parameters for getting a tag.
type GetTagInput struct {
	ID string `path:"id" doc:"Tag ID"`
}

// RenameTagRequest is the request body for renaming a tag.
type RenameTagRequest struct {
	Name string `json:"name" validate:"required,min=1,max=50" doc:"New tag name"`
}

// RenameTagInput wraps the rename tag request for Huma.
type RenameTagInput struct {
	ID   string `path:"id" doc:"Tag ID"`
	Body RenameTagRequest
}

// DeleteTagInput contains parameters for deleting a tag.
type DeleteTagInput struct {
	ID string `path:"id" doc:"Tag ID"`
}

// === Handlers ===

func (s *Server) handleListTags(ctx context.Context, _ *struct{}) (*ListTagsOutput, error) {
	tags, err := s.services.Tag.ListTags(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]TagResponse, len(tags))
	for i, t := range tags {
		resp[i] = toTagResponse(t)
	}

	return &ListTagsOutput{Body: ListTagsResponse{Tags: resp}}, nil
}

func (s *Server) handleCreateTag(ctx context.Context, input *CreateTagInput) (*TagOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	tag, err := s.services.Tag.CreateTag(ctx, input.Body.Name)
	if err != nil {
		return nil, err
	}

	return &TagOutput{Body: toTagResponse(tag)}, nil
}

func (s *Server) handleGetTag(ctx context.Context, input *GetTagInput) (*TagOutput, error) {
	tag, err := s.services.Tag.GetTag(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &TagOutput{Body: toTagResponse(tag)}, nil
}

func (s *Server) handleRenameTag(ctx context.Context, input *RenameTagInput) (*TagOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	tag, err := s.services.Tag.RenameTag(ctx, input.ID, input.Body.Name)
	if err != nil {
		return nil, err
	}

	return &TagOutput{Body: toTagResponse(tag)}, nil
}

func (s *Server) handleDeleteTag(ctx context.Context, input *DeleteTagInput) (*struct{}, error) {
	if err := s.services.Tag.DeleteTag(ctx, input.ID); err != nil {
		return nil, err
	}
	return &struct{}{}, nil
}
