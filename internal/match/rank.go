package match

import (
	"sort"

	"github.com/example/carpool-matching/internal/models"
)

// RankCandidates scores every candidate against the query, drops anything
// under MinCompatibility, and returns the rest sorted by score descending
// with createdAt descending as the tie-break. The same pipeline serves
// both directions: passenger-seeking-driver and driver-seeking-passenger
// just swap which trip plays the query role.
//
// Candidates are expected to be pre-filtered to pending status by the
// posting store; ranking never inspects or mutates status.
func RankCandidates(query models.TripQuery, candidates []models.TripCandidate) []models.ScoredCandidate {
	ranked := make([]models.ScoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		s := Score(query, c)
		if s < MinCompatibility {
			continue
		}
		ranked = append(ranked, models.ScoredCandidate{
			TripCandidate:      c,
			CompatibilityScore: s,
			Label:              Label(s),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].CompatibilityScore != ranked[j].CompatibilityScore {
			return ranked[i].CompatibilityScore > ranked[j].CompatibilityScore
		}
		return ranked[i].CreatedAt.After(ranked[j].CreatedAt)
	})
	return ranked
}

// Label maps a score onto the display band the UI layer renders next to
// the percentage. "Possible Match" is unreachable through RankCandidates
// because of the threshold, but the mapping is kept whole for reuse on
// scores that bypass ranking.
func Label(score int) string {
	switch {
	case score >= 80:
		return "Excellent Match"
	case score >= 60:
		return "Good Match"
	case score >= 40:
		return "Fair Match"
	default:
		return "Possible Match"
	}
}
