// Package recommend implements the course recommendation engine: viewer
// taste profiles, candidate feature scoring, and ranking.
//
// The package is pure computation over immutable per-request snapshots.
// It never touches storage and keeps no state between requests; scores
// depend on the requesting viewer's profile and the full candidate pool,
// so they are only comparable within a single request.
package recommend

import "fmt"

// Params holds the scoring constants. Earlier revisions inlined these as
// magic numbers; they are hoisted here so they can be tuned and tested in
// isolation.
type Params struct {
	// TagWeight, RatingWeight and PopularityWeight form the reference
	// weight vector an ideal candidate is compared against. Tag overlap
	// is the strongest taste signal available without deeper content
	// analysis, so it carries most of the weight.
	TagWeight        float64
	RatingWeight     float64
	PopularityWeight float64

	// PopularityScale is the enrollment count at which the popularity
	// component saturates at 1. A fixed reference scale, not derived
	// from the data.
	PopularityScale int

	// DefaultEnrolledRating is assumed for an unrated course the viewer
	// enrolled in. A neutral prior rather than zero, so courses the
	// viewer chose are not penalized for having no ratings yet.
	DefaultEnrolledRating float64

	// DefaultCandidateRating is assumed for an unrated candidate
	// (normalized 0.5).
	DefaultCandidateRating float64

	// DefaultLimit is the result count when the caller does not specify
	// one; MaxLimit caps requested counts to bound per-request work.
	DefaultLimit int
	MaxLimit     int
}

// DefaultParams returns the standard scoring parameters.
func DefaultParams() Params {
	return Params{
		TagWeight:              0.65,
		RatingWeight:           0.25,
		PopularityWeight:       0.10,
		PopularityScale:        50,
		DefaultEnrolledRating:  3.5,
		DefaultCandidateRating: 2.5,
		DefaultLimit:           5,
		MaxLimit:               20,
	}
}

// Validate checks the parameters are usable for scoring.
func (p Params) Validate() error {
	if p.TagWeight < 0 || p.RatingWeight < 0 || p.PopularityWeight < 0 {
		return fmt.Errorf("weights must be non-negative: (%g, %g, %g)", p.TagWeight, p.RatingWeight, p.PopularityWeight)
	}
	if p.TagWeight+p.RatingWeight+p.PopularityWeight == 0 {
		return fmt.Errorf("at least one weight must be positive")
	}
	if p.PopularityScale <= 0 {
		return fmt.Errorf("popularity scale must be positive, got %d", p.PopularityScale)
	}
	if p.DefaultLimit <= 0 || p.MaxLimit <= 0 || p.DefaultLimit > p.MaxLimit {
		return fmt.Errorf("invalid limits: default=%d max=%d", p.DefaultLimit, p.MaxLimit)
	}
	return nil
}

// ClampLimit normalizes a client-requested result count.
// Zero or negative means "use the default"; values above MaxLimit are capped.
func (p Params) ClampLimit(limit int) int {
	if limit <= 0 {
		return p.DefaultLimit
	}
	if limit > p.MaxLimit {
		return p.MaxLimit
	}
	return limit
}
