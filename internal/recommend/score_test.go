package recommend

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testProfile returns the profile of a viewer enrolled in two published Go
// courses, one of them also tagged Networking, both with mean rating 4.0.
func testProfile(t *testing.T) Profile {
	t.Helper()
	enrolled := []Candidate{
		{CourseID: "course-a", TagNames: []string{"Go"}, AverageRating: 4.0, RatingCount: 2},
		{CourseID: "course-b", TagNames: []string{"Go", "Networking"}, AverageRating: 4.0, RatingCount: 4},
	}
	return BuildProfile(enrolled, DefaultParams())
}

func TestScore_MatchingTagBeatsForeignTag(t *testing.T) {
	profile := testProfile(t)

	candidates := []Candidate{
		{CourseID: "go-course", TagNames: []string{"Go"}, AverageRating: 4.0, RatingCount: 5, Enrollments: 25},
		{CourseID: "marketing-course", TagNames: []string{"Marketing"}, AverageRating: 4.0, RatingCount: 5, Enrollments: 25},
	}

	scored := Score(profile, candidates, DefaultParams())
	require.Len(t, scored, 2)

	assert.Greater(t, scored[0].Score, scored[1].Score,
		"candidate sharing the viewer's dominant tag must outrank one with a foreign tag")
}

func TestScore_ExactValueForPerfectTagMatch(t *testing.T) {
	profile := testProfile(t)

	candidates := []Candidate{
		{CourseID: "go-course", TagNames: []string{"Go"}, AverageRating: 4.0, RatingCount: 5, Enrollments: 25},
	}

	scored := Score(profile, candidates, DefaultParams())

	// tagAffinity = 2/2 = 1, ratingAlignment = 1, popularity = 0.5:
	// cos((0.65,0.25,0.10), (0.65,0.25,0.05)) rounded to 4 decimals.
	assert.Equal(t, 0.9975, scored[0].Score)
}

func TestScore_BoundsAndPrecision(t *testing.T) {
	profile := testProfile(t)

	candidates := []Candidate{
		{CourseID: "c1", TagNames: []string{"Go", "Networking"}, AverageRating: 4.2, RatingCount: 7, Enrollments: 300},
		{CourseID: "c2", TagNames: []string{"Design"}, AverageRating: 1.0, RatingCount: 1, Enrollments: 1},
		{CourseID: "c3", RatingCount: 0, Enrollments: 49},
		{CourseID: "c4", TagNames: []string{"Go"}, RatingCount: 0, Enrollments: 0},
	}

	for _, s := range Score(profile, candidates, DefaultParams()) {
		assert.GreaterOrEqual(t, s.Score, 0.0, "course %s", s.CourseID)
		assert.LessOrEqual(t, s.Score, 1.0, "course %s", s.CourseID)
		assert.False(t, math.IsNaN(s.Score), "course %s", s.CourseID)

		// Exactly 4 decimal places.
		assert.InDelta(t, s.Score, math.Round(s.Score*10000)/10000, 1e-12, "course %s", s.CourseID)
	}
}

func TestScore_NoSignalCandidateScoresZero(t *testing.T) {
	profile := testProfile(t)

	candidates := []Candidate{
		{CourseID: "ghost", TagNames: []string{"Cooking"}, RatingCount: 0, Enrollments: 0},
	}

	scored := Score(profile, candidates, DefaultParams())

	assert.Zero(t, scored[0].Score)
	assert.False(t, math.IsNaN(scored[0].Score))
}

func TestScore_RewardsRatingSimilarityNotQuality(t *testing.T) {
	// Viewer who historically enrolls in modestly-rated courses.
	enrolled := []Candidate{
		{CourseID: "course-a", TagNames: []string{"Go"}, AverageRating: 2.5, RatingCount: 4},
	}
	profile := BuildProfile(enrolled, DefaultParams())

	candidates := []Candidate{
		{CourseID: "similar", TagNames: []string{"Go"}, AverageRating: 2.5, RatingCount: 3, Enrollments: 10},
		{CourseID: "five-star", TagNames: []string{"Go"}, AverageRating: 5.0, RatingCount: 3, Enrollments: 10},
	}

	scored := Score(profile, candidates, DefaultParams())

	assert.Greater(t, scored[0].Score, scored[1].Score,
		"alignment rewards similarity to the viewer's typical rating, not high ratings")
}

func TestScore_PopularitySaturates(t *testing.T) {
	profile := testProfile(t)

	candidates := []Candidate{
		{CourseID: "at-scale", TagNames: []string{"Go"}, AverageRating: 4, RatingCount: 1, Enrollments: 50},
		{CourseID: "beyond-scale", TagNames: []string{"Go"}, AverageRating: 4, RatingCount: 1, Enrollments: 5000},
	}

	scored := Score(profile, candidates, DefaultParams())

	assert.Equal(t, scored[0].Score, scored[1].Score,
		"enrollments beyond the reference scale must not score higher")
}

func TestScore_Idempotent(t *testing.T) {
	profile := testProfile(t)
	candidates := []Candidate{
		{CourseID: "c1", TagNames: []string{"Go"}, AverageRating: 3.8, RatingCount: 4, Enrollments: 12},
		{CourseID: "c2", TagNames: []string{"Networking"}, AverageRating: 4.1, RatingCount: 2, Enrollments: 31},
		{CourseID: "c3", TagNames: []string{"Design"}, RatingCount: 0, Enrollments: 2},
	}

	first := Score(profile, candidates, DefaultParams())
	second := Score(profile, candidates, DefaultParams())

	assert.Equal(t, first, second)
}

func TestCosine_ZeroVectorIsZeroNotNaN(t *testing.T) {
	w := [3]float64{0.65, 0.25, 0.10}

	got := cosine(w, [3]float64{})

	assert.Zero(t, got)
	assert.False(t, math.IsNaN(got))
}

func TestCosine_IdenticalVectorsAreOne(t *testing.T) {
	w := [3]float64{0.65, 0.25, 0.10}

	assert.InDelta(t, 1.0, cosine(w, w), 1e-12)
}

func TestParams_ClampLimit(t *testing.T) {
	params := DefaultParams()

	assert.Equal(t, 5, params.ClampLimit(0))
	assert.Equal(t, 5, params.ClampLimit(-3))
	assert.Equal(t, 1, params.ClampLimit(1))
	assert.Equal(t, 20, params.ClampLimit(20))
	assert.Equal(t, 20, params.ClampLimit(100))
}

func TestParams_Validate(t *testing.T) {
	assert.NoError(t, DefaultParams().Validate())

	bad := DefaultParams()
	bad.TagWeight = -0.1
	assert.Error(t, bad.Validate())

	bad = DefaultParams()
	bad.TagWeight, bad.RatingWeight, bad.PopularityWeight = 0, 0, 0
	assert.Error(t, bad.Validate())

	bad = DefaultParams()
	bad.PopularityScale = 0
	assert.Error(t, bad.Validate())

	bad = DefaultParams()
	bad.DefaultLimit = 50
	assert.Error(t, bad.Validate())
}
