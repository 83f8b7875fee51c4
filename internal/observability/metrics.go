package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MatchQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "carpool_matching", Name: "match_queries_total", Help: "Match queries served, by direction"},
		[]string{"direction"},
	)
	CandidatesScored = promauto.NewCounter(prometheus.CounterOpts{Namespace: "carpool_matching", Name: "candidates_scored_total", Help: "Candidates run through the compatibility scorer"})
	MatchesReturned  = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "carpool_matching",
		Name:      "matches_returned",
		Help:      "Matches surviving the threshold per query",
		Buckets:   []float64{0, 1, 2, 5, 10, 20, 50},
	})
	PostingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "carpool_matching", Name: "postings_total", Help: "Offers and requests created"},
		[]string{"kind"},
	)
	BookingsTotal = promauto.NewCounter(prometheus.CounterOpts{Namespace: "carpool_matching", Name: "bookings_total", Help: "Confirmed bookings"})

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "carpool_matching", Name: "http_requests_total", Help: "Total HTTP requests handled"},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "carpool_matching",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
