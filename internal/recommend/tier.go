package recommend

// Tier identifies which recommendation strategy produced a result set.
// Exactly one tier applies per request; a viewer never matches more than one.
type Tier string

const (
	// TierAnonymous applies when no viewer identity could be resolved:
	// a uniform random sample of published courses.
	TierAnonymous Tier = "anonymous"

	// TierColdStart applies when the viewer is known but has no
	// enrollments: published courses ranked by raw popularity.
	TierColdStart Tier = "cold-start"

	// TierPersonalized applies when the viewer has at least one enrolled,
	// published course: the full profile/score/rank pipeline.
	TierPersonalized Tier = "personalized"
)
