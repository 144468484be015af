package recommend

import "sort"

// Rank orders scored candidates strictly non-increasing by score and
// truncates to limit. The sort is stable: candidates with equal scores
// keep the relative order the scorer produced, which itself follows the
// catalog's query order.
func Rank(scored []Scored, limit int) []Scored {
	ranked := make([]Scored, len(scored))
	copy(ranked, scored)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if limit >= 0 && limit < len(ranked) {
		ranked = ranked[:limit]
	}
	return ranked
}
