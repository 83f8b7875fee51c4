package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/carpool-matching/internal/models"
	"github.com/example/carpool-matching/internal/storage"
)

type fakePayments struct {
	holds    int
	releases int
	captures int
	failHold bool
}

func (f *fakePayments) HoldFare(ctx context.Context, amountPaise int64, customerID string) (string, error) {
	f.holds++
	if f.failHold {
		return "", errors.New("card declined")
	}
	return "hold-1", nil
}

func (f *fakePayments) CaptureFare(ctx context.Context, holdID string) error {
	f.captures++
	return nil
}

func (f *fakePayments) ReleaseFare(ctx context.Context, holdID string) error {
	f.releases++
	return nil
}

type fakeNotifier struct{ notified []string }

func (f *fakeNotifier) Notify(userID string, n models.MatchNotification) error {
	f.notified = append(f.notified, userID)
	return nil
}

func pendingOffer(id string) models.TripCandidate {
	return models.TripCandidate{
		ID: id, CounterpartyID: "driver-1", Pickup: "Mumbai", Destination: "Pune",
		Time: time.Now().Add(24 * time.Hour), CreatedAt: time.Now(), Status: models.StatusPending,
	}
}

func TestBookOfferHoldsFareConfirmsAndNotifies(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	offer := pendingOffer("o1")
	if err := store.SaveOffer(ctx, &offer); err != nil {
		t.Fatal(err)
	}
	pay := &fakePayments{}
	notif := &fakeNotifier{}
	s := &Service{Store: store, Payments: pay, Notifier: notif}

	holdID, err := s.BookOffer(ctx, offer, "passenger-1")
	if err != nil {
		t.Fatal(err)
	}
	if holdID != "hold-1" || pay.holds != 1 {
		t.Fatalf("fare hold missing: %q %d", holdID, pay.holds)
	}
	c, _ := store.Get("o1")
	if c.Status != models.StatusConfirmed {
		t.Fatalf("offer status %s, want confirmed", c.Status)
	}
	if len(notif.notified) != 1 || notif.notified[0] != "driver-1" {
		t.Fatalf("driver not notified: %v", notif.notified)
	}
}

func TestBookOfferPaymentFailureLeavesOfferPending(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	offer := pendingOffer("o1")
	if err := store.SaveOffer(ctx, &offer); err != nil {
		t.Fatal(err)
	}
	pay := &fakePayments{failHold: true}
	s := &Service{Store: store, Payments: pay}

	if _, err := s.BookOffer(ctx, offer, "passenger-1"); err == nil {
		t.Fatal("expected error from declined hold")
	}
	c, _ := store.Get("o1")
	if c.Status != models.StatusPending {
		t.Fatalf("offer status %s, want pending", c.Status)
	}
}

func TestBookOfferReleasesHoldWhenConfirmFails(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	pay := &fakePayments{}
	s := &Service{Store: store, Payments: pay}

	// offer never saved, so the status update fails after the hold
	if _, err := s.BookOffer(ctx, pendingOffer("ghost"), "passenger-1"); err == nil {
		t.Fatal("expected error for unknown offer")
	}
	if pay.releases != 1 {
		t.Fatalf("hold not released: %d", pay.releases)
	}
}

func TestAcceptRequestConfirmsAndNotifiesPassenger(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	req := models.TripCandidate{
		ID: "r1", CounterpartyID: "passenger-7", Pickup: "Delhi", Destination: "Jaipur",
		Time: time.Now().Add(12 * time.Hour), CreatedAt: time.Now(), Status: models.StatusPending,
	}
	if err := store.SaveRequest(ctx, &req); err != nil {
		t.Fatal(err)
	}
	notif := &fakeNotifier{}
	s := &Service{Store: store, Notifier: notif}

	if err := s.AcceptRequest(ctx, req, "driver-2"); err != nil {
		t.Fatal(err)
	}
	c, _ := store.Get("r1")
	if c.Status != models.StatusConfirmed {
		t.Fatalf("request status %s, want confirmed", c.Status)
	}
	if len(notif.notified) != 1 || notif.notified[0] != "passenger-7" {
		t.Fatalf("passenger not notified: %v", notif.notified)
	}
}

func TestCompleteCapturesFare(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	offer := pendingOffer("o1")
	if err := store.SaveOffer(ctx, &offer); err != nil {
		t.Fatal(err)
	}
	pay := &fakePayments{}
	s := &Service{Store: store, Payments: pay}

	if err := s.Complete(ctx, models.KindOffer, "o1", "hold-1"); err != nil {
		t.Fatal(err)
	}
	if pay.captures != 1 {
		t.Fatalf("fare not captured: %d", pay.captures)
	}
	c, _ := store.Get("o1")
	if c.Status != models.StatusCompleted {
		t.Fatalf("status %s, want completed", c.Status)
	}
}

func TestCancelReleasesFare(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	offer := pendingOffer("o1")
	if err := store.SaveOffer(ctx, &offer); err != nil {
		t.Fatal(err)
	}
	pay := &fakePayments{}
	s := &Service{Store: store, Payments: pay}

	if err := s.Cancel(ctx, models.KindOffer, "o1", "hold-1"); err != nil {
		t.Fatal(err)
	}
	if pay.releases != 1 {
		t.Fatalf("hold not released: %d", pay.releases)
	}
	c, _ := store.Get("o1")
	if c.Status != models.StatusCancelled {
		t.Fatalf("status %s, want cancelled", c.Status)
	}
}
