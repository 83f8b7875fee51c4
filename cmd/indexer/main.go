package main

import (
	"context"
	"encoding/json"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"

	"github.com/example/carpool-matching/internal/logging"
	"github.com/example/carpool-matching/internal/models"
)

// The indexer consumes trip-posting events and keeps the Redis candidate
// cache fresh: each posting is mirrored to a hash for inspection and the
// direction's pending list is invalidated so the next match query reloads.

var (
	msgsConsumed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "indexer_postings_consumed_total",
		Help: "Total posting events consumed",
	})
	msgsInvalid = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "indexer_postings_invalid_total",
		Help: "Total invalid posting events received",
	})
	cacheUpdates = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "indexer_cache_updates_total",
		Help: "Total successful cache updates",
	})
	cacheErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "indexer_cache_errors_total",
		Help: "Total cache update errors",
	})
)

func init() {
	prometheus.MustRegister(msgsConsumed, msgsInvalid, cacheUpdates, cacheErrors)
}

func main() {
	var metricsAddr string
	flag.StringVar(&metricsAddr, "metrics-addr", ":2112", "address to serve prometheus metrics on")
	flag.Parse()

	logger := logging.WithComponent(logging.NewLogger(os.Getenv("LOG_LEVEL")), "indexer")

	brokers := []string{"localhost:9092"}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		brokers = brokers[:0]
		for _, b := range strings.Split(v, ",") {
			if s := strings.TrimSpace(b); s != "" {
				brokers = append(brokers, s)
			}
		}
	}
	topic := os.Getenv("KAFKA_TOPIC")
	if topic == "" {
		topic = "trip-postings"
	}
	group := os.Getenv("KAFKA_GROUP")
	if group == "" {
		group = "carpool-matching-indexer"
	}
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	rc := redis.NewClient(&redis.Options{Addr: redisAddr, Password: os.Getenv("REDIS_PASSWORD")})
	cache := &redisCache{c: rc}

	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ok")) })
		mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			if err := rc.Ping(r.Context()).Err(); err != nil {
				http.Error(w, "redis not ready", 503)
				return
			}
			w.WriteHeader(200)
			w.Write([]byte("ready"))
		})
		logger.Info("metrics/health listening", "addr", metricsAddr)
		if err := http.ListenAndServe(metricsAddr, mux); err != nil {
			logger.Error("metrics server stopped", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r := kafka.NewReader(kafka.ReaderConfig{Brokers: brokers, Topic: topic, GroupID: group, MinBytes: 10e3, MaxBytes: 10e6})
	defer func() {
		_ = r.Close()
		_ = rc.Close()
	}()

	logger.Info("indexer consuming", "topic", topic, "brokers", brokers, "group", group)

	backoff := time.Second
	const maxBackoff = 30 * time.Second

	for {
		m, err := r.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				logger.Info("shutting down indexer")
				return
			}
			logger.Warn("kafka read error", "error", err, "backoff", backoff)
			time.Sleep(backoff)
			backoff *= 2
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
			continue
		}
		backoff = time.Second
		msgsConsumed.Inc()

		var p models.Posting
		if err := json.Unmarshal(m.Value, &p); err != nil || p.Candidate.ID == "" {
			msgsInvalid.Inc()
			logger.Warn("invalid posting event", "error", err)
			continue
		}

		if err := indexWithRetry(ctx, cache, p, 3, 200*time.Millisecond); err != nil {
			cacheErrors.Inc()
			logger.Error("cache update failed", "posting_id", p.Candidate.ID, "error", err)
			continue
		}
		cacheUpdates.Inc()
	}
}

// CacheUpdater is the slice of cache operations the indexer needs,
// narrowed for tests.
type CacheUpdater interface {
	StorePosting(ctx context.Context, p models.Posting) error
	InvalidatePending(ctx context.Context, kind models.PostingKind) error
}

type redisCache struct{ c *redis.Client }

const postingTTL = 24 * time.Hour

func (r *redisCache) StorePosting(ctx context.Context, p models.Posting) error {
	b, err := json.Marshal(p.Candidate)
	if err != nil {
		return err
	}
	return r.c.Set(ctx, "posting:"+p.Candidate.ID, b, postingTTL).Err()
}

func (r *redisCache) InvalidatePending(ctx context.Context, kind models.PostingKind) error {
	key := "pending:offers"
	if kind == models.KindRequest {
		key = "pending:requests"
	}
	return r.c.Del(ctx, key).Err()
}

// indexWithRetry applies one posting to the cache with retry/backoff.
func indexWithRetry(ctx context.Context, cache CacheUpdater, p models.Posting, attempts int, delay time.Duration) error {
	for i := 0; i < attempts; i++ {
		if err := cache.StorePosting(ctx, p); err != nil {
			if i == attempts-1 {
				return err
			}
			time.Sleep(delay)
			delay *= 2
			continue
		}
		if err := cache.InvalidatePending(ctx, p.Kind); err != nil {
			if i == attempts-1 {
				return err
			}
			time.Sleep(delay)
			delay *= 2
			continue
		}
		return nil
	}
	return nil
}
