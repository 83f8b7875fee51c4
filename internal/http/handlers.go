package httpapi

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/example/carpool-matching/internal/booking"
	"github.com/example/carpool-matching/internal/config"
	"github.com/example/carpool-matching/internal/dispatch"
	"github.com/example/carpool-matching/internal/ingest"
	"github.com/example/carpool-matching/internal/match"
	"github.com/example/carpool-matching/internal/models"
	"github.com/example/carpool-matching/internal/observability"
	"github.com/example/carpool-matching/internal/payments"
	"github.com/example/carpool-matching/internal/pricing"
	"github.com/example/carpool-matching/internal/storage"
)

type Server struct {
	Store      storage.PostingStore
	Booking    *booking.Service
	Kafka      *ingest.KafkaProducer
	WSReg      *dispatch.WSRegistry
	MatchCache *match.Cache
	logger     *slog.Logger
	mux        *mux.Router
}

// NewServer wires the API from config: Postgres behind a Redis cache when
// both are configured, in-memory fallbacks otherwise so the binary runs
// locally with nothing else up.
func NewServer(cfg config.ServerConfig, logger *slog.Logger) *Server {
	var store storage.PostingStore
	if cfg.PGDSN != "" {
		if ps, err := storage.NewPostgresStore(cfg.PGDSN); err == nil {
			store = ps
		} else {
			logger.Warn("postgres unavailable, using memory store", "error", err)
		}
	}
	if store == nil {
		store = storage.NewMemoryStore()
	}
	if cfg.RedisAddr != "" {
		store = storage.NewRedisCache(store, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisCacheTTL)
	}

	var kp *ingest.KafkaProducer
	if len(cfg.KafkaBrokers) > 0 {
		kp = ingest.NewKafkaProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
	}

	wsreg := dispatch.NewWSRegistry(logger)
	var notifier dispatch.Notifier = wsreg
	switch {
	case cfg.PushEndpoint != "":
		notifier = dispatch.NewPushNotifier(cfg.PushEndpoint, wsreg)
	case cfg.FCMEndpoint != "":
		notifier = dispatch.NewFCMNotifier(cfg.FCMEndpoint, cfg.FCMKey)
	}

	var fareHolder payments.FareHolder
	if os.Getenv("STRIPE_API_KEY") != "" {
		fareHolder = payments.NewStripeClient()
	}

	b := &booking.Service{Store: store, Payments: fareHolder, Notifier: notifier, Logger: logger}

	s := &Server{
		Store:      store,
		Booking:    b,
		Kafka:      kp,
		WSReg:      wsreg,
		MatchCache: match.NewCache(cfg.MatchCacheTTL),
		logger:     logger,
		mux:        mux.NewRouter(),
	}
	s.registerMiddleware()
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("/api/v1/offers", s.handleCreateOffer).Methods("POST")
	s.mux.HandleFunc("/api/v1/requests", s.handleCreateRequest).Methods("POST")
	s.mux.HandleFunc("/api/v1/matches/drivers", s.handleMatchDrivers).Methods("POST")
	s.mux.HandleFunc("/api/v1/matches/passengers", s.handleMatchPassengers).Methods("POST")
	s.mux.HandleFunc("/api/v1/offers/{id}/book", s.handleBookOffer).Methods("POST")
	s.mux.HandleFunc("/api/v1/requests/{id}/accept", s.handleAcceptRequest).Methods("POST")
	s.mux.HandleFunc("/api/v1/routes/popular", s.handlePopularRoutes).Methods("GET")
	s.mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ok")) }).Methods("GET")
	s.mux.Handle("/metrics", promhttp.Handler())
	s.mux.HandleFunc("/ws/{user_id}", s.handleWS)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.mux.ServeHTTP(w, r) }

// postingPayload is the wire shape for creating an offer or a request.
// Locations arrive as either strings or {"address": ...} objects; the
// LocationRef boundary flattens both before anything reaches the scorer.
type postingPayload struct {
	CounterpartyID    string             `json:"counterparty_id"`
	CounterpartyName  string             `json:"counterparty_name"`
	CounterpartyPhone string             `json:"counterparty_phone"`
	Pickup            models.LocationRef `json:"pickup"`
	Destination       models.LocationRef `json:"destination"`
	Time              time.Time          `json:"time"`
	Price             float64            `json:"price"`
}

func (s *Server) handleCreateOffer(w http.ResponseWriter, r *http.Request) {
	s.createPosting(w, r, models.KindOffer, s.Store.SaveOffer)
}

func (s *Server) handleCreateRequest(w http.ResponseWriter, r *http.Request) {
	s.createPosting(w, r, models.KindRequest, s.Store.SaveRequest)
}

func (s *Server) createPosting(w http.ResponseWriter, r *http.Request, kind models.PostingKind, save func(ctx context.Context, c *models.TripCandidate) error) {
	var p postingPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if p.Pickup.Address() == "" || p.Destination.Address() == "" {
		http.Error(w, "pickup and destination are required", http.StatusBadRequest)
		return
	}
	c := models.TripCandidate{
		ID:                newID(),
		CounterpartyID:    p.CounterpartyID,
		CounterpartyName:  p.CounterpartyName,
		CounterpartyPhone: p.CounterpartyPhone,
		Pickup:            p.Pickup.Address(),
		Destination:       p.Destination.Address(),
		Time:              p.Time,
		Price:             p.Price,
		CreatedAt:         time.Now().UTC(),
		Status:            models.StatusPending,
	}
	if err := save(r.Context(), &c); err != nil {
		http.Error(w, "save failed", http.StatusInternalServerError)
		return
	}
	if s.Kafka != nil {
		if err := s.Kafka.PublishPosting(kind, c); err != nil {
			s.logger.Warn("posting publish failed", "posting_id", c.ID, "error", err)
		}
	}
	if s.MatchCache != nil {
		s.MatchCache.Invalidate(kind)
	}
	observability.PostingsTotal.WithLabelValues(string(kind)).Inc()
	writeJSON(w, http.StatusCreated, map[string]any{"id": c.ID})
}

type matchPayload struct {
	Pickup      models.LocationRef `json:"pickup"`
	Destination models.LocationRef `json:"destination"`
	Time        time.Time          `json:"time"`
}

func (s *Server) handleMatchDrivers(w http.ResponseWriter, r *http.Request) {
	s.handleMatch(w, r, models.KindOffer, s.Store.PendingOffers, "drivers")
}

func (s *Server) handleMatchPassengers(w http.ResponseWriter, r *http.Request) {
	s.handleMatch(w, r, models.KindRequest, s.Store.PendingRequests, "passengers")
}

func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request, kind models.PostingKind, pending func(ctx context.Context) ([]models.TripCandidate, error), direction string) {
	var p matchPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	query := models.TripQuery{
		Pickup:      p.Pickup.Address(),
		Destination: p.Destination.Address(),
		Time:        p.Time,
	}
	observability.MatchQueriesTotal.WithLabelValues(direction).Inc()

	if s.MatchCache != nil {
		if ranked, ok := s.MatchCache.Get(kind, query); ok {
			writeJSON(w, http.StatusOK, map[string]any{"matches": ranked})
			return
		}
	}

	candidates, err := pending(r.Context())
	if err != nil {
		http.Error(w, "candidate lookup failed", http.StatusInternalServerError)
		return
	}
	ranked := match.RankCandidates(query, candidates)
	observability.CandidatesScored.Add(float64(len(candidates)))
	observability.MatchesReturned.Observe(float64(len(ranked)))

	if s.MatchCache != nil {
		s.MatchCache.Set(kind, query, ranked)
	}
	writeJSON(w, http.StatusOK, map[string]any{"matches": ranked})
}

func (s *Server) handleBookOffer(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var body struct {
		PassengerID string `json:"passenger_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	offer, ok := s.findPending(r, s.Store.PendingOffers, id)
	if !ok {
		http.Error(w, "offer not found or no longer pending", http.StatusNotFound)
		return
	}
	holdID, err := s.Booking.BookOffer(r.Context(), offer, body.PassengerID)
	if err != nil {
		s.logger.Error("book offer failed", "offer_id", id, "error", err)
		http.Error(w, "booking failed", http.StatusConflict)
		return
	}
	observability.BookingsTotal.Inc()
	writeJSON(w, http.StatusOK, map[string]any{"status": models.StatusConfirmed, "hold_id": holdID})
}

func (s *Server) handleAcceptRequest(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var body struct {
		DriverID string `json:"driver_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	req, ok := s.findPending(r, s.Store.PendingRequests, id)
	if !ok {
		http.Error(w, "request not found or no longer pending", http.StatusNotFound)
		return
	}
	if err := s.Booking.AcceptRequest(r.Context(), req, body.DriverID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "request not found", http.StatusNotFound)
			return
		}
		s.logger.Error("accept request failed", "request_id", id, "error", err)
		http.Error(w, "accept failed", http.StatusConflict)
		return
	}
	observability.BookingsTotal.Inc()
	writeJSON(w, http.StatusOK, map[string]any{"status": models.StatusConfirmed})
}

func (s *Server) findPending(r *http.Request, pending func(ctx context.Context) ([]models.TripCandidate, error), id string) (models.TripCandidate, bool) {
	list, err := pending(r.Context())
	if err != nil {
		return models.TripCandidate{}, false
	}
	for _, c := range list {
		if c.ID == id {
			return c, true
		}
	}
	return models.TripCandidate{}, false
}

func (s *Server) handlePopularRoutes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"routes": pricing.PopularRoutes()})
}

var upgrader = websocket.Upgrader{}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["user_id"]
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, "upgrade failed", http.StatusBadRequest)
		return
	}
	s.WSReg.Add(id, conn)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newID() string { b := make([]byte, 8); _, _ = rand.Read(b); return hex.EncodeToString(b) }
