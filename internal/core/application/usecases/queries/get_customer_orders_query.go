package queries

import (
	"errors"
	"strings"

	"tracking/internal/pkg/errs"
	"tracking/internal/pkg/guard"
)

var (
	ErrGetCustomerOrdersQueryIsNotConstructed = errors.New(
		"GetCustomerOrdersQuery must be created via NewGetCustomerOrdersQuery constructor",
	)
)

// GetCustomerOrdersQuery lists every order of a customer with its current status.
//
// Example:
//
//	query, err := NewGetCustomerOrdersQuery("12345678909")
//	if err != nil {
//	    return fmt.Errorf("invalid customer: %w", err)
//	}
//
//	orders, err := handler.Handle(ctx, query)
//	for _, o := range orders {
//	    fmt.Printf("%s/%s %s\n", o.StoreID, o.OrderID, o.CurrentStatus.DisplayLabel())
//	}
type GetCustomerOrdersQuery struct {
	customerID string

	guard guard.ConstructorGuard
}

// NewGetCustomerOrdersQuery creates the query for one customer identifier (cpf).
// Surrounding whitespace is ignored; a blank identifier is rejected.
func NewGetCustomerOrdersQuery(customerID string) (GetCustomerOrdersQuery, error) {
	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		return GetCustomerOrdersQuery{}, errs.NewValueIsRequiredError("cpf")
	}

	return GetCustomerOrdersQuery{
		customerID: customerID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetCustomerOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetCustomerOrdersQueryIsNotConstructed)
}

func (q GetCustomerOrdersQuery) CustomerID() string {
	return q.customerID
}
