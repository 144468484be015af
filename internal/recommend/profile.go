package recommend

// Candidate is an immutable per-request snapshot of a course, denormalized
// to what scoring needs: tag names (taste aggregation keys on the name,
// not the ID), rating summary, and enrollment count.
type Candidate struct {
	CourseID      string
	TagNames      []string
	AverageRating float64 // Mean of rating scores; 0 when RatingCount is 0
	RatingCount   int
	Enrollments   int
}

// Profile is the viewer's aggregated taste, built fresh per request from
// the viewer's enrolled, published courses and discarded afterwards.
// Never persisted or shared across requests.
type Profile struct {
	// TagFrequency maps tag name to the number of enrolled courses
	// carrying that tag. Each course contributes at most 1 per distinct
	// tag name.
	TagFrequency map[string]int

	// RatingAffinity is the mean of per-course mean ratings across the
	// enrolled courses, in [0,5]. 0 only in the degenerate no-course case.
	RatingAffinity float64

	// TotalExposure is the summed enrollment count of the viewer's
	// courses. Not used in scoring yet; kept for future weighting.
	TotalExposure int
}

// BuildProfile aggregates a taste profile from the viewer's enrolled
// courses. Callers pass only published courses; an unpublished enrollment
// is excluded upstream, not an error here.
func BuildProfile(enrolled []Candidate, params Params) Profile {
	profile := Profile{
		TagFrequency: make(map[string]int),
	}

	if len(enrolled) == 0 {
		return profile
	}

	var ratingSum float64
	for _, course := range enrolled {
		for _, name := range distinctNames(course.TagNames) {
			profile.TagFrequency[name]++
		}

		rating := course.AverageRating
		if course.RatingCount == 0 {
			rating = params.DefaultEnrolledRating
		}
		ratingSum += rating

		profile.TotalExposure += course.Enrollments
	}

	profile.RatingAffinity = ratingSum / float64(len(enrolled))
	return profile
}

// distinctNames deduplicates tag names, preserving first-seen order.
// A course tagged twice with the same name still contributes 1.
func distinctNames(names []string) []string {
	if len(names) < 2 {
		return names
	}
	seen := make(map[string]struct{}, len(names))
	out := names[:0:0]
	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
