package service

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillforge/skillforge-server/internal/domain"
	domainerrors "github.com/skillforge/skillforge-server/internal/errors"
	"github.com/skillforge/skillforge-server/internal/recommend"
	"github.com/skillforge/skillforge-server/internal/store"
)

func setupRecommendation(t *testing.T) (*RecommendationService, *store.Store, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "recommendation-service-test-*")
	require.NoError(t, err)

	dbPath := filepath.Join(tmpDir, "test.db")
	testStore, err := store.New(dbPath, nil)
	require.NoError(t, err)

	logger := slog.New(slog.DiscardHandler)
	svc := NewRecommendationService(testStore, recommend.DefaultParams(), logger)

	cleanup := func() {
		testStore.Close()
		os.RemoveAll(tmpDir)
	}

	return svc, testStore, cleanup
}

func seedUser(t *testing.T, s *store.Store, userID string) {
	t.Helper()
	now := time.Now()
	require.NoError(t, s.CreateUser(context.Background(), &domain.User{
		ID:        userID,
		Name:      "Test " + userID,
		Email:     userID + "@test.com",
		Role:      domain.RoleStudent,
		CreatedAt: now,
		UpdatedAt: now,
	}))
}

func seedCourse(t *testing.T, s *store.Store, id string, tagIDs []string, ratings []int, enrollments int, published bool) {
	t.Helper()

	now := time.Now()
	course := &domain.Course{
		ID:         id,
		Title:      "Course " + id,
		EducatorID: "user-edu",
		TagIDs:     tagIDs,
		Published:  published,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	for i, score := range ratings {
		course.Ratings = append(course.Ratings, domain.Rating{
			UserID: "user-rater-" + string(rune('a'+i)),
			Score:  score,
		})
	}
	for i := 0; i < enrollments; i++ {
		course.EnrolledUserIDs = append(course.EnrolledUserIDs, "user-filler-"+id+"-"+string(rune('a'+i)))
	}
	require.NoError(t, s.CreateCourse(context.Background(), course))
}

func seedTags(t *testing.T, s *store.Store, names ...string) {
	t.Helper()
	now := time.Now()
	for _, name := range names {
		require.NoError(t, s.CreateTag(context.Background(), &domain.Tag{
			ID:        "tag-" + name,
			Name:      name,
			CreatedAt: now,
			UpdatedAt: now,
		}))
	}
}

func TestRecommend_AnonymousTier(t *testing.T) {
	svc, testStore, cleanup := setupRecommendation(t)
	defer cleanup()

	ctx := context.Background()

	seedCourse(t, testStore, "course-a", nil, nil, 0, true)
	seedCourse(t, testStore, "course-b", nil, nil, 0, true)
	seedCourse(t, testStore, "course-draft", nil, nil, 0, false)

	result, err := svc.Recommend(ctx, "", 5)
	require.NoError(t, err)
	assert.Equal(t, recommend.TierAnonymous, result.Tier)
	assert.NotEmpty(t, result.Message)
	assert.Len(t, result.Results, 2)
	for _, r := range result.Results {
		assert.True(t, r.Course.Published)
		assert.Zero(t, r.Score)
	}
}

func TestRecommend_AnonymousEmptyCatalog(t *testing.T) {
	svc, _, cleanup := setupRecommendation(t)
	defer cleanup()

	result, err := svc.Recommend(context.Background(), "", 5)
	require.NoError(t, err)
	assert.Equal(t, recommend.TierAnonymous, result.Tier)
	assert.Empty(t, result.Results)
}

func TestRecommend_UnknownViewerIsError(t *testing.T) {
	svc, testStore, cleanup := setupRecommendation(t)
	defer cleanup()

	seedCourse(t, testStore, "course-a", nil, nil, 0, true)

	// Unknown viewers must fail, never silently downgrade to anonymous
	_, err := svc.Recommend(context.Background(), "user-ghost", 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestRecommend_ColdStartTier(t *testing.T) {
	svc, testStore, cleanup := setupRecommendation(t)
	defer cleanup()

	ctx := context.Background()

	seedUser(t, testStore, "user-new")
	seedCourse(t, testStore, "course-popular", nil, nil, 10, true)
	seedCourse(t, testStore, "course-rated", nil, []int{5, 5}, 3, true)
	seedCourse(t, testStore, "course-quiet", nil, nil, 3, true)

	result, err := svc.Recommend(ctx, "user-new", 5)
	require.NoError(t, err)
	assert.Equal(t, recommend.TierColdStart, result.Tier)
	assert.NotEmpty(t, result.Message)

	// Enrollment count descending, rating breaking the tie
	require.Len(t, result.Results, 3)
	assert.Equal(t, "course-popular", result.Results[0].Course.ID)
	assert.Equal(t, "course-rated", result.Results[1].Course.ID)
	assert.Equal(t, "course-quiet", result.Results[2].Course.ID)
}

func TestRecommend_ColdStartRespectsLimit(t *testing.T) {
	svc, testStore, cleanup := setupRecommendation(t)
	defer cleanup()

	ctx := context.Background()

	seedUser(t, testStore, "user-new")
	for _, id := range []string{"course-a", "course-b", "course-c"} {
		seedCourse(t, testStore, id, nil, nil, 1, true)
	}

	result, err := svc.Recommend(ctx, "user-new", 2)
	require.NoError(t, err)
	assert.Len(t, result.Results, 2)
}

func TestRecommend_PersonalizedTier(t *testing.T) {
	svc, testStore, cleanup := setupRecommendation(t)
	defer cleanup()

	ctx := context.Background()

	seedTags(t, testStore, "Go", "Networking", "Marketing")
	seedUser(t, testStore, "user-gopher")

	// Viewer history: two Go courses, both rated 4.0
	seedCourse(t, testStore, "course-go-1", []string{"tag-Go"}, []int{4}, 5, true)
	seedCourse(t, testStore, "course-go-2", []string{"tag-Go", "tag-Networking"}, []int{4}, 5, true)
	require.NoError(t, testStore.AddEnrollment(ctx, "user-gopher", "course-go-1"))
	require.NoError(t, testStore.AddEnrollment(ctx, "user-gopher", "course-go-2"))

	// Candidates: identical stats except tags
	seedCourse(t, testStore, "course-go-adv", []string{"tag-Go"}, []int{4}, 25, true)
	seedCourse(t, testStore, "course-mkt", []string{"tag-Marketing"}, []int{4}, 25, true)

	result, err := svc.Recommend(ctx, "user-gopher", 5)
	require.NoError(t, err)
	assert.Equal(t, recommend.TierPersonalized, result.Tier)
	assert.NotEmpty(t, result.Message)

	// Enrolled courses never come back as recommendations
	for _, r := range result.Results {
		assert.NotEqual(t, "course-go-1", r.Course.ID)
		assert.NotEqual(t, "course-go-2", r.Course.ID)
	}

	// Tag overlap dominates: the Go candidate outranks the Marketing one
	require.Len(t, result.Results, 2)
	assert.Equal(t, "course-go-adv", result.Results[0].Course.ID)
	assert.Equal(t, "course-mkt", result.Results[1].Course.ID)
	assert.Greater(t, result.Results[0].Score, result.Results[1].Score)
}

func TestRecommend_PersonalizedEmptyPool(t *testing.T) {
	svc, testStore, cleanup := setupRecommendation(t)
	defer cleanup()

	ctx := context.Background()

	seedUser(t, testStore, "user-gopher")
	seedCourse(t, testStore, "course-only", nil, nil, 0, true)
	require.NoError(t, testStore.AddEnrollment(ctx, "user-gopher", "course-only"))

	// The viewer is enrolled in the entire catalog
	result, err := svc.Recommend(ctx, "user-gopher", 5)
	require.NoError(t, err)
	assert.Equal(t, recommend.TierPersonalized, result.Tier)
	assert.Empty(t, result.Results)
}

func TestRecommend_UnpublishedEnrollmentsIgnored(t *testing.T) {
	svc, testStore, cleanup := setupRecommendation(t)
	defer cleanup()

	ctx := context.Background()

	seedUser(t, testStore, "user-a")
	seedCourse(t, testStore, "course-pub", nil, nil, 2, true)

	// Enroll while published, then unpublish
	seedCourse(t, testStore, "course-x", nil, nil, 0, true)
	require.NoError(t, testStore.AddEnrollment(ctx, "user-a", "course-x"))
	course, err := testStore.GetCourse(ctx, "course-x")
	require.NoError(t, err)
	course.Published = false
	require.NoError(t, testStore.UpdateCourse(ctx, course))

	// Only unpublished history left, so the viewer is cold-start
	result, err := svc.Recommend(ctx, "user-a", 5)
	require.NoError(t, err)
	assert.Equal(t, recommend.TierColdStart, result.Tier)
}

func TestRecommend_LimitClamping(t *testing.T) {
	svc, testStore, cleanup := setupRecommendation(t)
	defer cleanup()

	ctx := context.Background()

	params := recommend.DefaultParams()
	for i := 0; i < params.MaxLimit+5; i++ {
		seedCourse(t, testStore, "course-"+string(rune('a'+i%26))+string(rune('a'+i/26)), nil, nil, 0, true)
	}

	// Zero limit uses the default
	result, err := svc.Recommend(ctx, "", 0)
	require.NoError(t, err)
	assert.Len(t, result.Results, params.DefaultLimit)

	// Oversized limits are capped
	result, err = svc.Recommend(ctx, "", params.MaxLimit+100)
	require.NoError(t, err)
	assert.Len(t, result.Results, params.MaxLimit)
}
