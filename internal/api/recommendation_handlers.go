package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/skillforge/skillforge-server/internal/service"
)

func (s *Server) registerRecommendationRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getRecommendations",
		Method:      http.MethodGet,
		Path:        "/api/v1/recommendations",
		Summary:     "Get recommendations",
		Description: "Returns course recommendations for the viewer. Anonymous " +
			"viewers get a random sample, viewers without history get the most " +
			"popular courses, and viewers with enrollments get personalized " +
			"similarity-ranked results.",
		Tags: []string{"Recommendations"},
	}, s.handleGetRecommendations)
}

// === DTOs ===

// GetRecommendationsInput contains recommendation request parameters.
// Viewer identity arrives as a header set by the upstream gateway; an
// absent header means an anonymous viewer.
type GetRecommendationsInput struct {
	ViewerID string `header:"X-Viewer-ID" doc:"Resolved viewer identity; empty for anonymous"`
	Limit    int    `query:"limit" minimum:"0" maximum:"100" default:"0" doc:"Requested result count; 0 uses the server default"`
}

// RecommendationsOutput wraps the recommendation response for Huma.
type RecommendationsOutput struct {
	Body RecommendationsResponse
}

// RecommendationsResponse contains the served tier and ranked results.
type RecommendationsResponse struct {
	Tier    string                  `json:"tier" doc:"Serving tier: anonymous, cold-start, or personalized"`
	Message string                  `json:"message,omitempty" doc:"Optional notice, e.g. how to unlock personalization"`
	Results []RecommendationResult `json:"results" doc:"Ranked recommendations"`
}

// RecommendationResult pairs a course with its similarity score.
type RecommendationResult struct {
	Course CourseResponse `json:"course" doc:"Recommended course"`
	Score  float64        `json:"score" doc:"Similarity score in [0,1], 0 in non-personalized tiers"`
}

// === Handlers ===

func (s *Server) handleGetRecommendations(ctx context.Context, input *GetRecommendationsInput) (*RecommendationsOutput, error) {
	key := input.ViewerID
	if key == "" {
		key = "anonymous"
	}
	if !s.recLimiter.Allow(key) {
		return nil, &APIError{
			status:  http.StatusTooManyRequests,
			Code:    "rate_limited",
			Message: "too many recommendation requests, slow down",
		}
	}

	result, err := s.services.Recommendation.Recommend(ctx, input.ViewerID, input.Limit)
	if err != nil {
		return nil, err
	}

	return &RecommendationsOutput{Body: toRecommendationsResponse(result)}, nil
}

func toRecommendationsResponse(result *service.RecommendationResult) RecommendationsResponse {
	resp := RecommendationsResponse{
		Tier:    string(result.Tier),
		Message: result.Message,
		Results: make([]RecommendationResult, 0, len(result.Results)),
	}
	for _, r := range result.Results {
		resp.Results = append(resp.Results, RecommendationResult{
			Course: toCourseResponse(r.Course),
			Score:  r.Score,
		})
	}
	return resp
}
