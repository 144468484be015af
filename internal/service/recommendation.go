package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/skillforge/skillforge-server/internal/domain"
	domainerrors "github.com/skillforge/skillforge-server/internal/errors"
	"github.com/skillforge/skillforge-server/internal/recommend"
	"github.com/skillforge/skillforge-server/internal/store"
)

// RecommendationService selects a serving tier for each request and runs
// the scoring pipeline for viewers with history.
type RecommendationService struct {
	store  *store.Store
	params recommend.Params
	logger *slog.Logger
}

// NewRecommendationService creates a new recommendation service.
func NewRecommendationService(store *store.Store, params recommend.Params, logger *slog.Logger) *RecommendationService {
	return &RecommendationService{
		store:  store,
		params: params,
		logger: logger,
	}
}

// RecommendedCourse is a single recommendation. Score is 0 for tiers that
// do not compute similarity.
type RecommendedCourse struct {
	Course *domain.Course `json:"course"`
	Score  float64        `json:"score"`
}

// RecommendationResult carries the served tier alongside the results so
// clients can tell a personalized list from a fallback.
type RecommendationResult struct {
	Tier    recommend.Tier      `json:"tier"`
	Message string              `json:"message,omitempty"`
	Results []RecommendedCourse `json:"results"`
}

// Recommend serves course recommendations for a viewer.
//
// Tier selection: an empty viewerID serves the anonymous tier (a random
// published sample). A known viewer with no enrollments serves the
// cold-start tier (most-enrolled courses first). A viewer with history
// serves the personalized tier. An unknown viewerID is an error, never a
// silent downgrade to anonymous.
//
// An empty candidate pool is a success with empty results at every tier.
func (s *RecommendationService) Recommend(ctx context.Context, viewerID string, limit int) (*RecommendationResult, error) {
	limit = s.params.ClampLimit(limit)

	if viewerID == "" {
		return s.recommendAnonymous(ctx, limit)
	}

	enrolled, err := s.store.GetUserEnrollments(ctx, viewerID)
	if errors.Is(err, store.ErrUserNotFound) {
		return nil, domainerrors.NotFound("viewer not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get viewer enrollments: %w", err)
	}

	// Unpublished courses carry no public signal; a viewer whose only
	// enrollments were unpublished is indistinguishable from a new one.
	published := enrolled[:0:0]
	for _, course := range enrolled {
		if course.Published {
			published = append(published, course)
		}
	}

	if len(published) == 0 {
		return s.recommendColdStart(ctx, viewerID, limit)
	}

	return s.recommendPersonalized(ctx, viewerID, published, limit)
}

// recommendAnonymous serves a uniform random sample of the published
// catalog.
func (s *RecommendationService) recommendAnonymous(ctx context.Context, limit int) (*RecommendationResult, error) {
	sample, err := s.store.SampleRandomPublished(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("sample published courses: %w", err)
	}

	s.logger.Debug("served anonymous recommendations", "count", len(sample))

	return &RecommendationResult{
		Tier:    recommend.TierAnonymous,
		Message: "the more you browse and enroll, the better these recommendations get",
		Results: plainResults(sample),
	}, nil
}

// recommendColdStart serves the most popular courses: enrollment count
// descending, average rating breaking ties, course ID as the final
// stable tie-break.
func (s *RecommendationService) recommendColdStart(ctx context.Context, viewerID string, limit int) (*RecommendationResult, error) {
	pool, err := s.store.ListPublishedCourses(ctx, store.PublishedFilter{})
	if err != nil {
		return nil, fmt.Errorf("list published courses: %w", err)
	}

	sort.SliceStable(pool, func(i, j int) bool {
		if pool[i].EnrollmentCount() != pool[j].EnrollmentCount() {
			return pool[i].EnrollmentCount() > pool[j].EnrollmentCount()
		}
		if pool[i].AverageRating() != pool[j].AverageRating() {
			return pool[i].AverageRating() > pool[j].AverageRating()
		}
		return pool[i].ID < pool[j].ID
	})

	if limit < len(pool) {
		pool = pool[:limit]
	}

	s.logger.Debug("served cold-start recommendations", "viewer_id", viewerID, "count", len(pool))

	return &RecommendationResult{
		Tier:    recommend.TierColdStart,
		Message: "enroll in a course to personalize your recommendations",
		Results: plainResults(pool),
	}, nil
}

// recommendPersonalized runs the full pipeline: profile the viewer's
// enrolled courses, score every published course they are not enrolled
// in, and rank by similarity.
func (s *RecommendationService) recommendPersonalized(ctx context.Context, viewerID string, enrolled []*domain.Course, limit int) (*RecommendationResult, error) {
	exclude := make(map[string]struct{}, len(enrolled))
	for _, course := range enrolled {
		exclude[course.ID] = struct{}{}
	}

	pool, err := s.store.ListPublishedCourses(ctx, store.PublishedFilter{ExcludeIDs: exclude})
	if err != nil {
		return nil, fmt.Errorf("list candidate courses: %w", err)
	}

	enrolledSnaps, err := s.store.SnapshotCourses(ctx, enrolled)
	if err != nil {
		return nil, err
	}
	poolSnaps, err := s.store.SnapshotCourses(ctx, pool)
	if err != nil {
		return nil, err
	}

	profile := recommend.BuildProfile(toCandidates(enrolledSnaps), s.params)
	candidates := toCandidates(poolSnaps)

	scored := recommend.Score(profile, candidates, s.params)
	ranked := recommend.Rank(scored, limit)

	byID := make(map[string]*domain.Course, len(pool))
	for _, course := range pool {
		byID[course.ID] = course
	}

	results := make([]RecommendedCourse, 0, len(ranked))
	for _, sc := range ranked {
		results = append(results, RecommendedCourse{
			Course: byID[sc.CourseID],
			Score:  sc.Score,
		})
	}

	s.logger.Debug("served personalized recommendations",
		"viewer_id", viewerID,
		"enrolled", len(enrolled),
		"candidates", len(candidates),
		"count", len(results),
	)

	return &RecommendationResult{
		Tier:    recommend.TierPersonalized,
		Message: "personalized recommendations based on your enrollments",
		Results: results,
	}, nil
}

// toCandidates converts course snapshots to scoring candidates.
func toCandidates(snapshots []store.CourseSnapshot) []recommend.Candidate {
	candidates := make([]recommend.Candidate, 0, len(snapshots))
	for _, snap := range snapshots {
		candidates = append(candidates, recommend.Candidate{
			CourseID:      snap.Course.ID,
			TagNames:      snap.TagNames,
			AverageRating: snap.Course.AverageRating(),
			RatingCount:   len(snap.Course.Ratings),
			Enrollments:   snap.Course.EnrollmentCount(),
		})
	}
	return candidates
}

// plainResults wraps courses without similarity scores for the fallback
// tiers.
func plainResults(courses []*domain.Course) []RecommendedCourse {
	results := make([]RecommendedCourse, 0, len(courses))
	for _, course := range courses {
		results = append(results, RecommendedCourse{Course: course})
	}
	return results
}
