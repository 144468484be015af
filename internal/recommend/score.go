package recommend

import "math"

// Scored pairs a candidate course with its similarity score in [0,1],
// rounded to 4 decimal places.
type Scored struct {
	CourseID string
	Score    float64
}

// Score computes a similarity score for every candidate against the
// viewer's profile. Output order follows input order; ranking is Rank's
// job.
func Score(profile Profile, candidates []Candidate, params Params) []Scored {
	scored := make([]Scored, len(candidates))
	for i, c := range candidates {
		scored[i] = Scored{
			CourseID: c.CourseID,
			Score:    scoreCandidate(profile, c, params),
		}
	}
	return scored
}

// scoreCandidate builds the candidate's weighted feature vector and
// compares it against the reference weight vector by cosine similarity.
func scoreCandidate(profile Profile, c Candidate, params Params) float64 {
	tagAffinity := tagAffinity(profile, c)

	// A candidate with no tag overlap, no ratings and no enrollments has
	// no observed signal at all. The rating default would fabricate an
	// alignment component for it, so it scores 0 outright.
	if tagAffinity == 0 && c.RatingCount == 0 && c.Enrollments == 0 {
		return 0
	}

	ratingAlignment := ratingAlignment(profile, c, params)
	popularity := popularity(c, params)

	reference := [3]float64{params.TagWeight, params.RatingWeight, params.PopularityWeight}
	weighted := [3]float64{
		tagAffinity * params.TagWeight,
		ratingAlignment * params.RatingWeight,
		popularity * params.PopularityWeight,
	}

	return round4(cosine(reference, weighted))
}

// tagAffinity measures how strongly the candidate's tags recur in the
// viewer's history, normalized by how spread out the viewer's taste is: a
// viewer with many distinct tags needs proportionally more matching weight
// to reach the same affinity as a viewer with one dominant tag. It is a
// concentration match, not a raw overlap count, so it can exceed 1 when a
// candidate hits a heavily repeated tag.
func tagAffinity(profile Profile, c Candidate) float64 {
	var sum int
	for _, name := range distinctNames(c.TagNames) {
		sum += profile.TagFrequency[name]
	}

	distinct := len(profile.TagFrequency)
	if distinct < 1 {
		distinct = 1
	}
	return float64(sum) / float64(distinct)
}

// ratingAlignment rewards candidates whose typical rating is close to the
// viewer's typical rating. It measures similarity, not quality: a viewer
// who enrolls in modestly-rated courses is not pushed toward 5-star ones.
func ratingAlignment(profile Profile, c Candidate, params Params) float64 {
	rating := c.AverageRating
	if c.RatingCount == 0 {
		rating = params.DefaultCandidateRating
	}
	return 1 - math.Abs(rating/5-profile.RatingAffinity/5)
}

// popularity is a saturating normalization of the enrollment count.
func popularity(c Candidate, params Params) float64 {
	return math.Min(float64(c.Enrollments)/float64(params.PopularityScale), 1)
}

// cosine returns the cosine similarity of two 3-dimensional vectors.
// A zero vector on either side yields 0, not NaN: a candidate with no tag
// overlap, default rating, and zero enrollments produces a degenerate
// weighted vector, and each division is guarded individually rather than
// coercing NaN after the fact.
func cosine(a, b [3]float64) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// round4 rounds to 4 decimal places.
func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
