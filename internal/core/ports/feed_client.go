package ports

import (
	"context"

	"tracking/internal/core/domain/model/feed"
)

// FeedClient fetches one provider feed for a transaction.
type FeedClient interface {
	// FetchFeed returns the normalized task events of a transaction.
	// Failures on individual schedules or activities are skipped and the
	// remaining events come back together with an error matching
	// feed.ErrFeedIncomplete. A failure resolving the schedule ids returns a
	// *feed.FeedLookupError and no events.
	FetchFeed(ctx context.Context, transactionID string, kind feed.Kind) ([]feed.TaskEvent, error)
}

// ProviderProbe checks that a feed's provider endpoint answers.
type ProviderProbe interface {
	Probe(ctx context.Context, kind feed.Kind) error
}
