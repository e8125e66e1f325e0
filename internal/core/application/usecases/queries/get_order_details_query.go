package queries

import (
	"errors"
	"strings"

	"tracking/internal/core/domain/model/order"
	"tracking/internal/pkg/errs"
	"tracking/internal/pkg/guard"
)

var (
	ErrGetOrderDetailsQueryIsNotConstructed = errors.New(
		"GetOrderDetailsQuery must be created via NewGetOrderDetailsQuery constructor",
	)
)

// GetOrderDetailsQuery fetches one order of a customer with its line items and
// merged status timeline.
//
// The customer identifier scopes the lookup: an order of another customer is
// reported as not found.
type GetOrderDetailsQuery struct {
	customerID string
	key        order.Key

	guard guard.ConstructorGuard
}

// NewGetOrderDetailsQuery validates the customer, store and order identifiers.
// All failures are joined.
func NewGetOrderDetailsQuery(customerID, storeID, orderID string) (GetOrderDetailsQuery, error) {
	var customerErr error
	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		customerErr = errs.NewValueIsRequiredError("cpf")
	}

	key, keyErr := order.NewKey(storeID, orderID)

	if err := errors.Join(customerErr, keyErr); err != nil {
		return GetOrderDetailsQuery{}, err
	}

	return GetOrderDetailsQuery{
		customerID: customerID,
		key:        key,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderDetailsQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderDetailsQueryIsNotConstructed)
}

func (q GetOrderDetailsQuery) CustomerID() string {
	return q.customerID
}

func (q GetOrderDetailsQuery) Key() order.Key {
	return q.key
}
