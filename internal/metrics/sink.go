// Package metrics records tracking service metrics.
package metrics

import "time"

// Sink defines the interface for recording metrics.
// All methods are fire-and-forget: implementations MUST NOT block or propagate errors.
type Sink interface {
	// Provider feed metrics
	FeedFetchCompleted(feed, outcome string, duration time.Duration)
	FeedItemSkipped(feed, stage string)
	FeedCacheLookup(feed, result string)
	ProviderUp(feed string, up bool)

	// Reconciliation metrics
	OrdersReconciled(mode string, count int)
}

// Outcome constants for FeedFetchCompleted.
const (
	OutcomeSuccess      = "success"
	OutcomeIncomplete   = "incomplete"
	OutcomeLookupFailed = "lookup_failed"
	OutcomeCircuitOpen  = "circuit_open"
	OutcomeCanceled     = "canceled"
)

// Result constants for FeedCacheLookup.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// Mode constants for OrdersReconciled.
const (
	ModeList   = "list"
	ModeDetail = "detail"
)
