package ports

import "context"

// ReadSessionFactory creates a ReadSession per request.
type ReadSessionFactory interface {
	Create() ReadSession
}

// ReadSession groups the reads of one request in a read-only transaction so
// that orders and their history come from the same snapshot.
//
// A session is not safe for concurrent use. Callers finish all reads before
// fanning out to the feeds.
type ReadSession interface {
	// Begin starts the read-only transaction. Calling Begin twice is a no-op.
	Begin(ctx context.Context) error

	// End releases the transaction. Returns an error if none is active.
	End(ctx context.Context) error

	// OrderRepository returns an OrderRepository bound to the session.
	OrderRepository() OrderRepository

	// HistoryReader returns a HistoryReader bound to the session.
	HistoryReader() HistoryReader
}
