package booking

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/example/carpool-matching/internal/dispatch"
	"github.com/example/carpool-matching/internal/location"
	"github.com/example/carpool-matching/internal/models"
	"github.com/example/carpool-matching/internal/payments"
	"github.com/example/carpool-matching/internal/pricing"
	"github.com/example/carpool-matching/internal/storage"
)

// Service owns posting status transitions. The matching core treats
// candidates as read-only; every pending -> confirmed move happens here.
type Service struct {
	Store    storage.PostingStore
	Payments payments.FareHolder // optional; nil skips the fare hold
	Notifier dispatch.Notifier   // optional; nil skips counterparty notice
	Logger   *slog.Logger
}

// BookOffer confirms a driver offer on behalf of a passenger: holds the
// estimated fare, flips the offer to confirmed, and notifies the driver.
// The fare hold happens first so a payment failure never leaves a
// confirmed ride without funds behind it.
func (s *Service) BookOffer(ctx context.Context, offer models.TripCandidate, passengerID string) (string, error) {
	var holdID string
	if s.Payments != nil {
		dist := location.CityDistance(offer.Pickup, offer.Destination)
		id, err := s.Payments.HoldFare(ctx, pricing.FarePaise(dist), passengerID)
		if err != nil {
			return "", fmt.Errorf("hold fare: %w", err)
		}
		holdID = id
	}
	if err := s.Store.UpdateOfferStatus(ctx, offer.ID, models.StatusConfirmed); err != nil {
		if holdID != "" && s.Payments != nil {
			if rerr := s.Payments.ReleaseFare(ctx, holdID); rerr != nil && s.Logger != nil {
				s.Logger.Error("release fare after failed booking", "hold_id", holdID, "error", rerr)
			}
		}
		return "", err
	}
	s.notify(offer.CounterpartyID, offer.ID)
	return holdID, nil
}

// AcceptRequest confirms a passenger request on behalf of a driver and
// attaches the driver to it.
func (s *Service) AcceptRequest(ctx context.Context, request models.TripCandidate, driverID string) error {
	if err := s.Store.UpdateRequestStatus(ctx, request.ID, driverID, models.StatusConfirmed); err != nil {
		return err
	}
	s.notify(request.CounterpartyID, request.ID)
	return nil
}

// Cancel releases a confirmed booking back to cancelled and releases any
// fare hold.
func (s *Service) Cancel(ctx context.Context, kind models.PostingKind, postingID, holdID string) error {
	var err error
	switch kind {
	case models.KindOffer:
		err = s.Store.UpdateOfferStatus(ctx, postingID, models.StatusCancelled)
	case models.KindRequest:
		err = s.Store.UpdateRequestStatus(ctx, postingID, "", models.StatusCancelled)
	default:
		err = fmt.Errorf("unknown posting kind %q", kind)
	}
	if err != nil {
		return err
	}
	if holdID != "" && s.Payments != nil {
		return s.Payments.ReleaseFare(ctx, holdID)
	}
	return nil
}

// Complete marks a ride completed and captures the held fare.
func (s *Service) Complete(ctx context.Context, kind models.PostingKind, postingID, holdID string) error {
	var err error
	switch kind {
	case models.KindOffer:
		err = s.Store.UpdateOfferStatus(ctx, postingID, models.StatusCompleted)
	case models.KindRequest:
		err = s.Store.UpdateRequestStatus(ctx, postingID, "", models.StatusCompleted)
	default:
		err = fmt.Errorf("unknown posting kind %q", kind)
	}
	if err != nil {
		return err
	}
	if holdID != "" && s.Payments != nil {
		return s.Payments.CaptureFare(ctx, holdID)
	}
	return nil
}

func (s *Service) notify(userID, postingID string) {
	if s.Notifier == nil || userID == "" {
		return
	}
	if err := s.Notifier.Notify(userID, models.MatchNotification{PostingID: postingID}); err != nil && s.Logger != nil {
		s.Logger.Debug("booking notification skipped", "user_id", userID, "error", err)
	}
}
