package pricing

import "testing"

func TestFare(t *testing.T) {
	if got := Fare(120); got != 480 {
		t.Fatalf("got %v, want 480", got)
	}
	if got := FarePaise(120); got != 48000 {
		t.Fatalf("got %v, want 48000", got)
	}
}

func TestEstimateHours(t *testing.T) {
	if got := EstimateHours(120); got != 2 {
		t.Fatalf("got %v, want 2", got)
	}
	if got := EstimateHours(0); got != 0 {
		t.Fatalf("got %v, want 0", got)
	}
}

func TestPopularRoutes(t *testing.T) {
	routes := PopularRoutes()
	if len(routes) != 6 {
		t.Fatalf("got %d routes, want 6", len(routes))
	}
	first := routes[0]
	if first.From != "Mumbai" || first.To != "Pune" {
		t.Fatalf("unexpected first route %+v", first)
	}
	if first.DistanceKm != 120 || first.Fare != 480 {
		t.Fatalf("unexpected pricing %+v", first)
	}
	for _, r := range routes {
		if r.DistanceKm <= 0 || r.Fare <= 0 {
			t.Errorf("route %s-%s has non-positive economics: %+v", r.From, r.To, r)
		}
	}
}
