package ports

import (
	"context"

	"tracking/internal/core/domain/model/order"
)

// OrderRepository defines the read contract for customer orders.
type OrderRepository interface {
	// ListByCustomer returns every order of a customer without line items,
	// newest first. Returns an empty slice when the customer has no orders.
	ListByCustomer(ctx context.Context, customerID string) ([]*order.Order, error)

	// Get returns one order of a customer including its line items.
	// Returns errs.ObjectNotFoundError when the customer has no such order.
	Get(ctx context.Context, customerID string, key order.Key) (*order.Order, error)
}
