package queries

import (
	"context"

	"tracking/internal/core/domain/model/history"
	"tracking/internal/core/domain/model/order"
	"tracking/internal/core/ports"
)

// GetOrderDetailsQueryHandler returns one order with its line items, current
// status and merged timeline.
type GetOrderDetailsQueryHandler struct {
	sessions   ports.ReadSessionFactory
	reconciler *OrderReconciler
}

// NewGetOrderDetailsQueryHandler creates the handler.
func NewGetOrderDetailsQueryHandler(
	sessions ports.ReadSessionFactory,
	reconciler *OrderReconciler,
) GetOrderDetailsQueryHandler {
	return GetOrderDetailsQueryHandler{sessions: sessions, reconciler: reconciler}
}

// Handle returns errs.ObjectNotFoundError when the customer has no such order.
// Feed failures never fail the call; the timeline then holds only local rows.
func (h GetOrderDetailsQueryHandler) Handle(
	ctx context.Context,
	query GetOrderDetailsQuery,
) (OrderDetails, error) {
	if err := query.Validate(); err != nil {
		return OrderDetails{}, err
	}

	o, rows, err := h.load(ctx, query)
	if err != nil {
		return OrderDetails{}, err
	}

	status, events := h.reconciler.Reconcile(ctx, o, rows)

	return OrderDetails{
		OrderSummary: newOrderSummary(o, status),
		Items:        newOrderItemLines(o.Items()),
		Timeline:     events,
	}, nil
}

func (h GetOrderDetailsQueryHandler) load(
	ctx context.Context,
	query GetOrderDetailsQuery,
) (*order.Order, []history.LocalStatusRow, error) {
	session := h.sessions.Create()
	if err := session.Begin(ctx); err != nil {
		return nil, nil, err
	}
	defer func() {
		_ = session.End(ctx)
	}()

	o, err := session.OrderRepository().Get(ctx, query.CustomerID(), query.Key())
	if err != nil {
		return nil, nil, err
	}

	if !o.HasTransaction() {
		return o, nil, nil
	}

	rows, err := session.HistoryReader().ReadHistory(ctx, o.TransactionID())
	if err != nil {
		return nil, nil, err
	}

	return o, rows, nil
}
