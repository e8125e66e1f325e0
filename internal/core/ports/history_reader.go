package ports

import (
	"context"

	"tracking/internal/core/domain/model/history"
)

// HistoryReader defines the read contract for locally stored status rows.
// Implementations perform no filtering or classification.
type HistoryReader interface {
	// ReadHistory returns every row of a transaction, or an empty slice.
	ReadHistory(ctx context.Context, transactionID string) ([]history.LocalStatusRow, error)

	// ReadLatest returns the row with the largest (date, time of day) pair.
	// ok is false when the transaction has no rows.
	ReadLatest(ctx context.Context, transactionID string) (row history.LocalStatusRow, ok bool, err error)

	// ReadLatestBatch is ReadLatest for many transactions in one round trip.
	// Transactions without rows are absent from the result.
	ReadLatestBatch(ctx context.Context, transactionIDs []string) (map[string]history.LocalStatusRow, error)
}
