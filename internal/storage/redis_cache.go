package storage

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/example/carpool-matching/internal/models"
)

const (
	keyPendingOffers   = "pending:offers"
	keyPendingRequests = "pending:requests"
)

// RedisCache fronts a PostingStore with cached pending lists so the match
// endpoints stay off Postgres on the hot path. Writes pass through and
// invalidate; a miss or any Redis error falls back to the inner store.
type RedisCache struct {
	inner  PostingStore
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(inner PostingStore, addr, password string, ttl time.Duration) *RedisCache {
	c := redis.NewClient(&redis.Options{Addr: addr, Password: password})
	return &RedisCache{inner: inner, client: c, ttl: ttl}
}

// NewRedisCacheWithClient wires an existing client, mostly for tests.
func NewRedisCacheWithClient(inner PostingStore, client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{inner: inner, client: client, ttl: ttl}
}

func (r *RedisCache) SaveOffer(ctx context.Context, c *models.TripCandidate) error {
	if err := r.inner.SaveOffer(ctx, c); err != nil {
		return err
	}
	r.invalidate(ctx, keyPendingOffers)
	return nil
}

func (r *RedisCache) SaveRequest(ctx context.Context, c *models.TripCandidate) error {
	if err := r.inner.SaveRequest(ctx, c); err != nil {
		return err
	}
	r.invalidate(ctx, keyPendingRequests)
	return nil
}

func (r *RedisCache) PendingOffers(ctx context.Context) ([]models.TripCandidate, error) {
	return r.pending(ctx, keyPendingOffers, r.inner.PendingOffers)
}

func (r *RedisCache) PendingRequests(ctx context.Context) ([]models.TripCandidate, error) {
	return r.pending(ctx, keyPendingRequests, r.inner.PendingRequests)
}

func (r *RedisCache) pending(ctx context.Context, key string, load func(context.Context) ([]models.TripCandidate, error)) ([]models.TripCandidate, error) {
	if raw, err := r.client.Get(ctx, key).Bytes(); err == nil {
		var cached []models.TripCandidate
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
	}
	fresh, err := load(ctx)
	if err != nil {
		return nil, err
	}
	if b, err := json.Marshal(fresh); err == nil {
		_ = r.client.Set(ctx, key, b, r.ttl).Err()
	}
	return fresh, nil
}

func (r *RedisCache) UpdateOfferStatus(ctx context.Context, id string, status models.Status) error {
	if err := r.inner.UpdateOfferStatus(ctx, id, status); err != nil {
		return err
	}
	r.invalidate(ctx, keyPendingOffers)
	return nil
}

func (r *RedisCache) UpdateRequestStatus(ctx context.Context, id, driverID string, status models.Status) error {
	if err := r.inner.UpdateRequestStatus(ctx, id, driverID, status); err != nil {
		return err
	}
	r.invalidate(ctx, keyPendingRequests)
	return nil
}

func (r *RedisCache) invalidate(ctx context.Context, key string) {
	_ = r.client.Del(ctx, key).Err()
}

// Invalidate drops a kind's cached pending list; the indexer calls this
// when a posting event arrives from Kafka.
func (r *RedisCache) Invalidate(ctx context.Context, kind models.PostingKind) {
	switch kind {
	case models.KindOffer:
		r.invalidate(ctx, keyPendingOffers)
	case models.KindRequest:
		r.invalidate(ctx, keyPendingRequests)
	}
}
