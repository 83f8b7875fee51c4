package payments

import (
	"context"
	"os"

	stripe "github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"
)

// FareHolder is what the booking service needs from a payment provider:
// hold an estimated fare when a ride is booked, capture it on completion,
// release it on cancellation.
type FareHolder interface {
	HoldFare(ctx context.Context, amountPaise int64, customerID string) (string, error)
	CaptureFare(ctx context.Context, holdID string) error
	ReleaseFare(ctx context.Context, holdID string) error
}

// StripeClient implements FareHolder on Stripe PaymentIntents with manual
// capture. Amounts are in paise (INR minor unit).
type StripeClient struct {
	Currency string
}

// NewStripeClient initializes the stripe client with the STRIPE_API_KEY env var.
func NewStripeClient() *StripeClient {
	stripe.Key = os.Getenv("STRIPE_API_KEY")
	return &StripeClient{Currency: "inr"}
}

func (s *StripeClient) HoldFare(ctx context.Context, amountPaise int64, customerID string) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountPaise),
		Currency: stripe.String(s.Currency),
	}
	if customerID != "" {
		params.Customer = stripe.String(customerID)
	}
	params.CaptureMethod = stripe.String(string(stripe.PaymentIntentCaptureMethodManual))
	pi, err := paymentintent.New(params)
	if err != nil {
		return "", err
	}
	return pi.ID, nil
}

// CaptureFare finalizes a previously-held fare once the ride completes.
func (s *StripeClient) CaptureFare(ctx context.Context, holdID string) error {
	_, err := paymentintent.Capture(holdID, nil)
	return err
}

// ReleaseFare cancels the hold when a booking falls through.
func (s *StripeClient) ReleaseFare(ctx context.Context, holdID string) error {
	_, err := paymentintent.Cancel(holdID, nil)
	return err
}
