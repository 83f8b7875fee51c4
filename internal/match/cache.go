package match

import (
	"fmt"
	"sync"
	"time"

	"github.com/example/carpool-matching/internal/models"
)

// Cache is a small in-memory TTL cache for ranked results, keyed by the
// query plus the direction being matched. Match queries hit the posting
// store on every call otherwise; users refreshing the results page issue
// the same query repeatedly within seconds.
type Cache struct {
	mu    sync.RWMutex
	store map[string]cacheEntry
	ttl   time.Duration
}

type cacheEntry struct {
	ranked []models.ScoredCandidate
	ts     time.Time
}

// NewCache creates a cache with the provided TTL.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{store: make(map[string]cacheEntry), ttl: ttl}
}

func keyFor(kind models.PostingKind, q models.TripQuery) string {
	return fmt.Sprintf("%s|%s|%s|%d", kind, q.Pickup, q.Destination, q.Time.Unix())
}

// Get returns the cached ranking and true if present and not expired.
func (c *Cache) Get(kind models.PostingKind, q models.TripQuery) ([]models.ScoredCandidate, bool) {
	k := keyFor(kind, q)
	c.mu.RLock()
	e, ok := c.store[k]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if time.Since(e.ts) > c.ttl {
		c.mu.Lock()
		delete(c.store, k)
		c.mu.Unlock()
		return nil, false
	}
	return e.ranked, true
}

// Set stores a ranking for the query.
func (c *Cache) Set(kind models.PostingKind, q models.TripQuery, ranked []models.ScoredCandidate) {
	k := keyFor(kind, q)
	c.mu.Lock()
	c.store[k] = cacheEntry{ranked: ranked, ts: time.Now()}
	c.mu.Unlock()
}

// Invalidate drops all cached rankings for a direction; called when a new
// posting of that kind lands so fresh candidates show up immediately.
func (c *Cache) Invalidate(kind models.PostingKind) {
	prefix := string(kind) + "|"
	c.mu.Lock()
	for k := range c.store {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			delete(c.store, k)
		}
	}
	c.mu.Unlock()
}
