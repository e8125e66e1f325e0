package metrics

import "time"

// NoopSink is a no-op implementation of Sink.
// Used when metrics are disabled to avoid nil checks.
type NoopSink struct{}

// NewNoopSink returns a no-op metrics sink.
func NewNoopSink() *NoopSink {
	return &NoopSink{}
}

func (n *NoopSink) FeedFetchCompleted(feed, outcome string, duration time.Duration) {}
func (n *NoopSink) FeedItemSkipped(feed, stage string)                             {}
func (n *NoopSink) FeedCacheLookup(feed, result string)                            {}
func (n *NoopSink) ProviderUp(feed string, up bool)                                {}
func (n *NoopSink) OrdersReconciled(mode string, count int)                        {}
