package models

import (
	"encoding/json"
	"strings"
	"time"
)

// Status is the lifecycle state of a trip posting. Postings start as
// pending and stay pending until a booking collaborator moves them on;
// the matching core only ever reads pending ones.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// TripQuery is the trip a user is trying to match right now, either as a
// passenger looking for drivers or a driver looking for passengers.
type TripQuery struct {
	Pickup      string    `json:"pickup"`
	Destination string    `json:"destination"`
	Time        time.Time `json:"time"`
}

// TripCandidate is a stored pending offer or request scored against a query.
// Counterparty fields name the user on the other side of the posting
// (the driver for an offer, the passenger for a request).
type TripCandidate struct {
	ID                string    `json:"id"`
	CounterpartyID    string    `json:"counterparty_id"`
	CounterpartyName  string    `json:"counterparty_name"`
	CounterpartyPhone string    `json:"counterparty_phone,omitempty"`
	Pickup            string    `json:"pickup"`
	Destination       string    `json:"destination"`
	Time              time.Time `json:"time"`
	Price             float64   `json:"price,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	Status            Status    `json:"status"`
}

// ScoredCandidate is a candidate that cleared the compatibility threshold.
type ScoredCandidate struct {
	TripCandidate
	CompatibilityScore int    `json:"compatibility_score"`
	Label              string `json:"label"`
}

// LocationRef absorbs the two shapes the legacy backend stores for a
// location column: a plain string, or a JSON object carrying an "address"
// key. Whatever came over the wire, Address() hands the scorer a plain
// string.
type LocationRef struct {
	addr string
}

func NewLocationRef(addr string) LocationRef { return LocationRef{addr: addr} }

func (l LocationRef) Address() string { return l.addr }

func (l LocationRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.addr)
}

func (l *LocationRef) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" || trimmed == "" {
		l.addr = ""
		return nil
	}
	if strings.HasPrefix(trimmed, "{") {
		var obj struct {
			Address string `json:"address"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		l.addr = obj.Address
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	l.addr = s
	return nil
}

// PostingKind distinguishes driver offers from passenger requests on the
// ingest topic and in the cache.
type PostingKind string

const (
	KindOffer   PostingKind = "offer"
	KindRequest PostingKind = "request"
)

// Posting is the event published when a new offer or request is created.
type Posting struct {
	Kind      PostingKind   `json:"kind"`
	Candidate TripCandidate `json:"candidate"`
}

// MatchNotification is what the dispatch layer sends a user when ranked
// matches are available for their posting.
type MatchNotification struct {
	PostingID string            `json:"posting_id,omitempty"`
	Matches   []ScoredCandidate `json:"matches"`
}
