package match

import (
	"testing"
	"time"

	"github.com/example/carpool-matching/internal/models"
)

func TestCacheRoundTrip(t *testing.T) {
	c := NewCache(time.Minute)
	q := query("Mumbai", "Pune", baseTime)
	ranked := []models.ScoredCandidate{{CompatibilityScore: 85}}

	if _, ok := c.Get(models.KindOffer, q); ok {
		t.Fatal("unexpected hit on empty cache")
	}
	c.Set(models.KindOffer, q, ranked)
	got, ok := c.Get(models.KindOffer, q)
	if !ok || len(got) != 1 || got[0].CompatibilityScore != 85 {
		t.Fatalf("got %v %v", got, ok)
	}
	// other direction stays cold
	if _, ok := c.Get(models.KindRequest, q); ok {
		t.Fatal("kinds must not share entries")
	}
}

func TestCacheExpiry(t *testing.T) {
	c := NewCache(time.Millisecond)
	q := query("Mumbai", "Pune", baseTime)
	c.Set(models.KindOffer, q, []models.ScoredCandidate{{CompatibilityScore: 50}})
	time.Sleep(5 * time.Millisecond)
	if _, ok := c.Get(models.KindOffer, q); ok {
		t.Fatal("expected expired entry to miss")
	}
}

func TestCacheInvalidateByKind(t *testing.T) {
	c := NewCache(time.Minute)
	q := query("Mumbai", "Pune", baseTime)
	c.Set(models.KindOffer, q, []models.ScoredCandidate{{CompatibilityScore: 50}})
	c.Set(models.KindRequest, q, []models.ScoredCandidate{{CompatibilityScore: 60}})

	c.Invalidate(models.KindOffer)
	if _, ok := c.Get(models.KindOffer, q); ok {
		t.Fatal("offer entry should be gone")
	}
	if _, ok := c.Get(models.KindRequest, q); !ok {
		t.Fatal("request entry should survive")
	}
}
