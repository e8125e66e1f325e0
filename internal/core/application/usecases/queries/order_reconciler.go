package queries

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"tracking/internal/core/domain/model/feed"
	"tracking/internal/core/domain/model/history"
	"tracking/internal/core/domain/model/order"
	"tracking/internal/core/domain/model/timeline"
	"tracking/internal/core/domain/services"
	"tracking/internal/core/ports"
	"tracking/internal/metrics"

	"golang.org/x/sync/errgroup"
)

// ReconcileRecorder receives the number of orders reconciled per request mode.
type ReconcileRecorder interface {
	OrdersReconciled(mode string, count int)
}

// OrderReconciler combines local history with both provider feeds.
//
// The two feeds of one order are fetched concurrently, and the orders of one
// request are reconciled concurrently up to the configured limit. Results are
// placed by index, so neither fetch order nor completion order changes the
// output. A feed error or panic is logged and turned into a feed.Result
// carrying the error; it never fails the order or its siblings. An incomplete
// feed still contributes the events it fetched.
type OrderReconciler struct {
	feeds       ports.FeedClient
	classifier  services.StatusClassifier
	merger      services.TimelineMerger
	concurrency int
	recorder    ReconcileRecorder
	logger      *slog.Logger
}

// NewOrderReconciler creates a reconciler. A concurrency below 1 reconciles
// one order at a time.
func NewOrderReconciler(
	feeds ports.FeedClient,
	concurrency int,
	recorder ReconcileRecorder,
	logger *slog.Logger,
) *OrderReconciler {
	if concurrency < 1 {
		concurrency = 1
	}

	return &OrderReconciler{
		feeds:       feeds,
		classifier:  services.NewStatusClassifier(),
		merger:      services.NewTimelineMerger(),
		concurrency: concurrency,
		recorder:    recorder,
		logger:      logger.With("component", "OrderReconciler"),
	}
}

// FetchFeeds fetches every feed of a transaction, one result per feed.Kinds()
// entry. An empty transaction id yields empty results without provider calls.
func (r *OrderReconciler) FetchFeeds(ctx context.Context, transactionID string) []feed.Result {
	kinds := feed.Kinds()
	results := make([]feed.Result, len(kinds))
	for i, kind := range kinds {
		results[i] = feed.Result{Kind: kind}
	}

	if transactionID == "" {
		return results
	}

	var g errgroup.Group
	for i, kind := range kinds {
		g.Go(func() error {
			defer func() {
				if recovered := recover(); recovered != nil {
					r.logger.ErrorContext(ctx, "feed fetch panicked",
						"feed", kind.String(),
						"transaction_id", transactionID,
						"panic", recovered,
					)
					results[i] = feed.Result{Kind: kind, Err: fmt.Errorf("%s feed panicked: %v", kind, recovered)}
				}
			}()

			events, err := r.feeds.FetchFeed(ctx, transactionID, kind)
			if errors.Is(err, feed.ErrFeedIncomplete) {
				r.logger.WarnContext(ctx, "feed incomplete, using the events fetched",
					"feed", kind.String(),
					"transaction_id", transactionID,
					"error", err,
				)
				results[i].Events = events
				return nil
			}
			if err != nil {
				r.logger.WarnContext(ctx, "feed contributes no override",
					"feed", kind.String(),
					"transaction_id", transactionID,
					"error", err,
				)
				results[i].Err = err
				return nil
			}
			results[i].Events = events
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// CurrentStatuses returns the current status of each order, index-aligned
// with orders. latest maps transaction ids to their latest local row.
func (r *OrderReconciler) CurrentStatuses(
	ctx context.Context,
	orders []*order.Order,
	latest map[string]history.LocalStatusRow,
) []order.CurrentStatus {
	statuses := make([]order.CurrentStatus, len(orders))

	var g errgroup.Group
	g.SetLimit(r.concurrency)
	for i, o := range orders {
		g.Go(func() error {
			row, ok := latest[o.TransactionID()]
			hasLatest := ok && o.HasTransaction()

			defer func() {
				if recovered := recover(); recovered != nil {
					r.logger.ErrorContext(ctx, "order reconciliation panicked",
						"store_id", o.StoreID(),
						"order_id", o.OrderID(),
						"panic", recovered,
					)
					statuses[i] = r.classifier.Resolve(row, hasLatest, nil)
				}
			}()

			statuses[i] = r.classifier.Resolve(row, hasLatest, r.FetchFeeds(ctx, o.TransactionID()))
			return nil
		})
	}
	_ = g.Wait()

	r.recorder.OrdersReconciled(metrics.ModeList, len(orders))
	return statuses
}

// Reconcile returns the current status and merged timeline of one order
// given all of its local history rows.
func (r *OrderReconciler) Reconcile(
	ctx context.Context,
	o *order.Order,
	rows []history.LocalStatusRow,
) (order.CurrentStatus, []timeline.Event) {
	results := r.FetchFeeds(ctx, o.TransactionID())

	latest, ok := history.Latest(rows)
	status := r.classifier.Resolve(latest, ok, results)
	events := r.merger.MergeResults(rows, results)

	r.recorder.OrdersReconciled(metrics.ModeDetail, 1)
	return status, events
}
