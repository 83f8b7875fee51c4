package dispatch

import (
	"github.com/example/carpool-matching/internal/models"
)

// Notifier delivers ranked match results to a user. The booking service
// also uses it to tell a counterparty their posting was booked.
type Notifier interface {
	Notify(userID string, n models.MatchNotification) error
}

var ErrNoSession = &NoSessionError{}

type NoSessionError struct{}

func (n *NoSessionError) Error() string { return "no ws session" }
