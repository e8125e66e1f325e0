package queries

import (
	"context"

	"tracking/internal/core/domain/model/history"
	"tracking/internal/core/domain/model/order"
	"tracking/internal/core/ports"
)

// GetCustomerOrdersQueryHandler lists a customer's orders with their current status.
//
// Orders and the latest local status of each transaction are read in one
// session; the session ends before any provider call is made.
//
// Example:
//
//	handler := NewGetCustomerOrdersQueryHandler(sessionFactory, reconciler)
//	query, _ := NewGetCustomerOrdersQuery(cpf)
//
//	orders, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return err
//	}
type GetCustomerOrdersQueryHandler struct {
	sessions   ports.ReadSessionFactory
	reconciler *OrderReconciler
}

// NewGetCustomerOrdersQueryHandler creates the handler.
func NewGetCustomerOrdersQueryHandler(
	sessions ports.ReadSessionFactory,
	reconciler *OrderReconciler,
) GetCustomerOrdersQueryHandler {
	return GetCustomerOrdersQueryHandler{sessions: sessions, reconciler: reconciler}
}

// Handle returns one summary per order, in repository order. A customer with
// no orders yields an empty slice. Feed failures never fail the call.
func (h GetCustomerOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetCustomerOrdersQuery,
) ([]OrderSummary, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders, latest, err := h.load(ctx, query.CustomerID())
	if err != nil {
		return nil, err
	}

	statuses := h.reconciler.CurrentStatuses(ctx, orders, latest)

	summaries := make([]OrderSummary, 0, len(orders))
	for i, o := range orders {
		summaries = append(summaries, newOrderSummary(o, statuses[i]))
	}
	return summaries, nil
}

func (h GetCustomerOrdersQueryHandler) load(
	ctx context.Context,
	customerID string,
) ([]*order.Order, map[string]history.LocalStatusRow, error) {
	session := h.sessions.Create()
	if err := session.Begin(ctx); err != nil {
		return nil, nil, err
	}
	defer func() {
		_ = session.End(ctx)
	}()

	orders, err := session.OrderRepository().ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, nil, err
	}

	transactionIDs := make([]string, 0, len(orders))
	seen := make(map[string]struct{}, len(orders))
	for _, o := range orders {
		if !o.HasTransaction() {
			continue
		}
		if _, ok := seen[o.TransactionID()]; ok {
			continue
		}
		seen[o.TransactionID()] = struct{}{}
		transactionIDs = append(transactionIDs, o.TransactionID())
	}

	latest := map[string]history.LocalStatusRow{}
	if len(transactionIDs) > 0 {
		latest, err = session.HistoryReader().ReadLatestBatch(ctx, transactionIDs)
		if err != nil {
			return nil, nil, err
		}
	}

	return orders, latest, nil
}
