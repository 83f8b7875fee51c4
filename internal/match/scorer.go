package match

import (
	"time"

	"github.com/example/carpool-matching/internal/location"
	"github.com/example/carpool-matching/internal/models"
)

// Scoring policy. These are global, not per-call knobs: destination
// dominates because trips ending in different places cannot be shared,
// pickup is secondary since riders can walk to a shared point, and time
// weighs least because schedules commonly slip an hour or two.
const (
	DestinationWeight = 70
	PickupWeight      = 20
	TimeWeight        = 10

	// MinCompatibility is the score below which a candidate is not a
	// viable match and is dropped from ranked output.
	MinCompatibility = 40

	maxScore = 100
)

// distanceBracket awards points when two places are within MaxKm of each
// other. Brackets are checked in order; first hit wins.
type distanceBracket struct {
	MaxKm  float64
	Points int
}

var (
	destinationBrackets = []distanceBracket{{30, 50}, {80, 30}, {150, 15}}
	pickupBrackets      = []distanceBracket{{30, 15}, {80, 10}, {150, 5}}
)

// timeBracket awards points when two departure times are within MaxHours.
type timeBracket struct {
	MaxHours float64
	Points   int
}

var timeBrackets = []timeBracket{{1, 10}, {2, 8}, {4, 5}, {8, 3}}

// Score computes the 0-100 compatibility between a query trip and a
// candidate trip: destination match up to 70, pickup up to 20, time
// proximity up to 10. Pure and total; malformed timestamps degrade the
// time component to zero instead of failing.
func Score(query models.TripQuery, candidate models.TripCandidate) int {
	score := destinationScore(query.Destination, candidate.Destination)
	score += pickupScore(query.Pickup, candidate.Pickup)
	score += timeScore(query.Time, candidate.Time)
	if score > maxScore {
		// Components sum to at most 100 today; the clamp guards
		// against future weight changes drifting past the scale.
		score = maxScore
	}
	if score < 0 {
		score = 0
	}
	return score
}

func destinationScore(a, b string) int {
	if location.SameLocation(a, b) {
		return DestinationWeight
	}
	return bracketPoints(destinationBrackets, location.CityDistance(a, b))
}

func pickupScore(a, b string) int {
	if location.SameLocation(a, b) {
		return PickupWeight
	}
	return bracketPoints(pickupBrackets, location.CityDistance(a, b))
}

func timeScore(a, b time.Time) int {
	if a.IsZero() || b.IsZero() {
		return 0
	}
	hours := a.Sub(b).Abs().Hours()
	for _, br := range timeBrackets {
		if hours <= br.MaxHours {
			return br.Points
		}
	}
	return 0
}

func bracketPoints(brackets []distanceBracket, km float64) int {
	for _, br := range brackets {
		if km <= br.MaxKm {
			return br.Points
		}
	}
	return 0
}
