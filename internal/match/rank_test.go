package match

import (
	"testing"
	"time"

	"github.com/example/carpool-matching/internal/models"
)

func pendingCandidate(id, pickup, dest string, tripTime, createdAt time.Time) models.TripCandidate {
	return models.TripCandidate{
		ID: id, Pickup: pickup, Destination: dest, Time: tripTime,
		CreatedAt: createdAt, Status: models.StatusPending,
	}
}

func TestRankCandidatesThreshold(t *testing.T) {
	q := query("Koramangala", "Mumbai", baseTime)
	cands := []models.TripCandidate{
		pendingCandidate("good", "Koramangala", "Mumbai", baseTime, baseTime),
		// Chennai destination scores 30 total: under threshold
		pendingCandidate("bad", "Koramangala", "Chennai", baseTime, baseTime),
	}
	ranked := RankCandidates(q, cands)
	if len(ranked) != 1 || ranked[0].ID != "good" {
		t.Fatalf("got %+v, want only the good candidate", ranked)
	}
	for _, r := range ranked {
		if r.CompatibilityScore < MinCompatibility {
			t.Errorf("sub-threshold score %d leaked into output", r.CompatibilityScore)
		}
	}
}

func TestRankCandidatesSortsByScoreDescending(t *testing.T) {
	q := query("Koramangala", "Electronic City", baseTime)
	cands := []models.TripCandidate{
		pendingCandidate("c75", "Unknown Place Nine", "Far Off Place", baseTime, baseTime),
		pendingCandidate("c100", "Koramangala", "Electronic City", baseTime, baseTime),
		pendingCandidate("c95", "Koramangala", "Electronic City", baseTime.Add(3*time.Hour), baseTime),
	}
	ranked := RankCandidates(q, cands)
	for i := 1; i < len(ranked); i++ {
		if ranked[i].CompatibilityScore > ranked[i-1].CompatibilityScore {
			t.Fatalf("scores out of order at %d: %d > %d", i, ranked[i].CompatibilityScore, ranked[i-1].CompatibilityScore)
		}
	}
	if ranked[0].ID != "c100" {
		t.Fatalf("best candidate is %s, want c100", ranked[0].ID)
	}
}

func TestRankCandidatesTieBreakByCreatedAtDescending(t *testing.T) {
	q := query("Koramangala", "Electronic City", baseTime)
	older := pendingCandidate("older", "Koramangala", "Electronic City", baseTime, baseTime.Add(-2*time.Hour))
	newer := pendingCandidate("newer", "Koramangala", "Electronic City", baseTime, baseTime)
	ranked := RankCandidates(q, []models.TripCandidate{older, newer})
	if len(ranked) != 2 {
		t.Fatalf("got %d results, want 2", len(ranked))
	}
	if ranked[0].ID != "newer" || ranked[1].ID != "older" {
		t.Fatalf("tie-break wrong: %s before %s", ranked[0].ID, ranked[1].ID)
	}
}

func TestRankCandidatesEmptyInput(t *testing.T) {
	ranked := RankCandidates(query("Mumbai", "Pune", baseTime), nil)
	if len(ranked) != 0 {
		t.Fatalf("got %d results, want 0", len(ranked))
	}
}

func TestRankCandidatesAllBelowThreshold(t *testing.T) {
	q := query("Koramangala", "Mumbai", baseTime)
	cands := []models.TripCandidate{
		pendingCandidate("a", "Koramangala", "Chennai", baseTime, baseTime),
		pendingCandidate("b", "Koramangala", "Kolkata", baseTime, baseTime),
	}
	if ranked := RankCandidates(q, cands); len(ranked) != 0 {
		t.Fatalf("got %d results, want 0", len(ranked))
	}
}

func TestRankCandidatesFiltersExactCount(t *testing.T) {
	q := query("Koramangala", "Electronic City", baseTime)
	var cands []models.TripCandidate
	for i := 0; i < 7; i++ {
		cands = append(cands, pendingCandidate("keep", "Koramangala", "Electronic City", baseTime, baseTime))
	}
	for i := 0; i < 3; i++ {
		// Chennai vs Electronic City: both destination and pickup miss
		cands = append(cands, pendingCandidate("drop", "Mumbai", "Chennai", baseTime, baseTime))
	}
	ranked := RankCandidates(q, cands)
	if len(ranked) != 7 {
		t.Fatalf("got %d results, want 7", len(ranked))
	}
}

func TestLabelBands(t *testing.T) {
	cases := []struct {
		score int
		want  string
	}{
		{100, "Excellent Match"},
		{80, "Excellent Match"},
		{79, "Good Match"},
		{60, "Good Match"},
		{59, "Fair Match"},
		{40, "Fair Match"},
		{39, "Possible Match"},
		{0, "Possible Match"},
	}
	for _, c := range cases {
		if got := Label(c.score); got != c.want {
			t.Errorf("Label(%d) = %q, want %q", c.score, got, c.want)
		}
	}
}
