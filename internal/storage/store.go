package storage

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/example/carpool-matching/internal/models"
)

// ErrNotFound is returned when a posting id does not exist.
var ErrNotFound = errors.New("posting not found")

// PostingStore defines persistence for driver offers and passenger
// requests. Pending* results come back already filtered to pending status
// and ordered created_at descending; the match pipeline relies on both.
type PostingStore interface {
	SaveOffer(ctx context.Context, c *models.TripCandidate) error
	SaveRequest(ctx context.Context, c *models.TripCandidate) error
	PendingOffers(ctx context.Context) ([]models.TripCandidate, error)
	PendingRequests(ctx context.Context) ([]models.TripCandidate, error)
	UpdateOfferStatus(ctx context.Context, id string, status models.Status) error
	UpdateRequestStatus(ctx context.Context, id, driverID string, status models.Status) error
}

type MemoryStore struct {
	mu       sync.RWMutex
	offers   map[string]models.TripCandidate
	requests map[string]models.TripCandidate
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		offers:   make(map[string]models.TripCandidate),
		requests: make(map[string]models.TripCandidate),
	}
}

func (m *MemoryStore) SaveOffer(ctx context.Context, c *models.TripCandidate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.offers[c.ID] = *c
	return nil
}

func (m *MemoryStore) SaveRequest(ctx context.Context, c *models.TripCandidate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests[c.ID] = *c
	return nil
}

func (m *MemoryStore) PendingOffers(ctx context.Context) ([]models.TripCandidate, error) {
	return m.pending(m.offers), nil
}

func (m *MemoryStore) PendingRequests(ctx context.Context) ([]models.TripCandidate, error) {
	return m.pending(m.requests), nil
}

func (m *MemoryStore) pending(set map[string]models.TripCandidate) []models.TripCandidate {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.TripCandidate, 0, len(set))
	for _, c := range set {
		if c.Status == models.StatusPending {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (m *MemoryStore) UpdateOfferStatus(ctx context.Context, id string, status models.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.offers[id]
	if !ok {
		return ErrNotFound
	}
	c.Status = status
	m.offers[id] = c
	return nil
}

func (m *MemoryStore) UpdateRequestStatus(ctx context.Context, id, driverID string, status models.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.requests[id]
	if !ok {
		return ErrNotFound
	}
	c.Status = status
	m.requests[id] = c
	return nil
}

// Get looks up a posting of either kind, mostly for tests.
func (m *MemoryStore) Get(id string) (models.TripCandidate, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.offers[id]; ok {
		return c, true
	}
	c, ok := m.requests[id]
	return c, ok
}
