package metrics

import (
	"errors"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusSink implements Sink using the Prometheus client library.
// Registration errors are logged but never propagated.
type PrometheusSink struct {
	feedFetchTotal    *prometheus.CounterVec
	feedFetchDuration *prometheus.HistogramVec
	feedItemsSkipped  *prometheus.CounterVec
	feedCacheTotal    *prometheus.CounterVec
	providerUp        *prometheus.GaugeVec
	ordersReconciled  *prometheus.CounterVec
	logger            *slog.Logger
}

// NewPrometheusSink creates the collectors and registers them on reg.
// A collector that is already registered is reused.
func NewPrometheusSink(reg prometheus.Registerer, logger *slog.Logger) *PrometheusSink {
	s := &PrometheusSink{logger: logger.With("component", "metrics")}

	s.feedFetchTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tracking_feed_fetch_total",
		Help: "Total number of provider feed fetches by outcome.",
	}, []string{"feed", "outcome"})
	s.feedFetchDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tracking_feed_fetch_duration_seconds",
		Help:    "Duration of provider feed fetches in seconds.",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
	}, []string{"feed"})
	s.feedItemsSkipped = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tracking_feed_items_skipped_total",
		Help: "Total number of schedules and activities skipped after a fetch or decode failure.",
	}, []string{"feed", "stage"})
	s.feedCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tracking_feed_cache_total",
		Help: "Total number of feed cache lookups by result.",
	}, []string{"feed", "result"})
	s.providerUp = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "tracking_provider_up",
		Help: "Whether the last provider probe of a feed succeeded (1) or not (0).",
	}, []string{"feed"})
	s.ordersReconciled = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tracking_orders_reconciled_total",
		Help: "Total number of orders reconciled by request mode.",
	}, []string{"mode"})

	s.feedFetchTotal = register(s, reg, s.feedFetchTotal)
	s.feedFetchDuration = register(s, reg, s.feedFetchDuration)
	s.feedItemsSkipped = register(s, reg, s.feedItemsSkipped)
	s.feedCacheTotal = register(s, reg, s.feedCacheTotal)
	s.providerUp = register(s, reg, s.providerUp)
	s.ordersReconciled = register(s, reg, s.ordersReconciled)

	return s
}

func register[C prometheus.Collector](s *PrometheusSink, reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(C); ok {
				return existing
			}
		}
		s.logger.Warn("failed to register metric", "error", err)
	}
	return c
}

func (s *PrometheusSink) FeedFetchCompleted(feed, outcome string, duration time.Duration) {
	s.feedFetchTotal.WithLabelValues(feed, outcome).Inc()
	s.feedFetchDuration.WithLabelValues(feed).Observe(duration.Seconds())
}

func (s *PrometheusSink) FeedItemSkipped(feed, stage string) {
	s.feedItemsSkipped.WithLabelValues(feed, stage).Inc()
}

func (s *PrometheusSink) FeedCacheLookup(feed, result string) {
	s.feedCacheTotal.WithLabelValues(feed, result).Inc()
}

func (s *PrometheusSink) ProviderUp(feed string, up bool) {
	value := 0.0
	if up {
		value = 1
	}
	s.providerUp.WithLabelValues(feed).Set(value)
}

func (s *PrometheusSink) OrdersReconciled(mode string, count int) {
	s.ordersReconciled.WithLabelValues(mode).Add(float64(count))
}
