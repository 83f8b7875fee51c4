package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/carpool-matching/internal/models"
)

// fakeCache implements CacheUpdater for tests
type fakeCache struct {
	failStore      int // times StorePosting fails before succeeding
	failInvalidate int // times InvalidatePending fails before succeeding
	storeCalls     int
	invalidates    int
	lastKind       models.PostingKind
}

func (f *fakeCache) StorePosting(ctx context.Context, p models.Posting) error {
	f.storeCalls++
	if f.storeCalls <= f.failStore {
		return errors.New("store fail")
	}
	return nil
}

func (f *fakeCache) InvalidatePending(ctx context.Context, kind models.PostingKind) error {
	f.invalidates++
	f.lastKind = kind
	if f.invalidates <= f.failInvalidate {
		return errors.New("invalidate fail")
	}
	return nil
}

func posting(kind models.PostingKind) models.Posting {
	return models.Posting{Kind: kind, Candidate: models.TripCandidate{
		ID: "p1", Pickup: "Mumbai", Destination: "Pune",
		Time: time.Now(), CreatedAt: time.Now(), Status: models.StatusPending,
	}}
}

func TestIndexWithRetry_SucceedsAfterRetries(t *testing.T) {
	f := &fakeCache{failStore: 1, failInvalidate: 1}
	start := time.Now()
	if err := indexWithRetry(context.Background(), f, posting(models.KindOffer), 3, 10*time.Millisecond); err != nil {
		t.Fatalf("expected success, got err=%v", err)
	}
	if f.storeCalls < 2 || f.invalidates < 2 {
		t.Fatalf("expected retries, got store=%d invalidate=%d", f.storeCalls, f.invalidates)
	}
	if f.lastKind != models.KindOffer {
		t.Fatalf("wrong kind invalidated: %s", f.lastKind)
	}
	if time.Since(start) < 10*time.Millisecond {
		t.Fatalf("expected at least one backoff")
	}
}

func TestIndexWithRetry_FailsWhenExhausted(t *testing.T) {
	f := &fakeCache{failStore: 5}
	if err := indexWithRetry(context.Background(), f, posting(models.KindRequest), 3, 5*time.Millisecond); err == nil {
		t.Fatalf("expected error after retries")
	}
}
