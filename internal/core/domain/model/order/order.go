package order

import (
	"errors"
	"fmt"
	"strings"

	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// the RestoreOrder factory method.
	ErrOrderIsNotConstructed = errors.New("Order must be created via RestoreOrder constructor")
)

// Key identifies one order of a customer.
type Key struct {
	StoreID string
	OrderID string
}

// NewKey validates and builds an order key.
func NewKey(storeID, orderID string) (Key, error) {
	key := Key{StoreID: strings.TrimSpace(storeID), OrderID: strings.TrimSpace(orderID)}

	var err error
	if key.StoreID == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("store id"))
	}
	if key.OrderID == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("order id"))
	}
	if err != nil {
		return Key{}, err
	}

	return key, nil
}

// String renders the key as "store/order".
func (k Key) String() string {
	return k.StoreID + "/" + k.OrderID
}

// Data carries the stored values an Order is restored from.
type Data struct {
	StoreID       string
	OrderID       string
	CustomerID    string
	CustomerName  string
	TransactionID string
	TotalCents    int64

	// OrderDate is an 8-digit YYYYMMDD integer, 0 when unknown.
	OrderDate int

	Items []Item
}

// Order is a customer order as stored by the order system.
//
// Order follows these invariants:
//   - Store id, order id and customer id are not blank
//   - The total is not negative
//   - Can only be created through RestoreOrder
type Order struct {
	key           Key
	customerID    string
	customerName  string
	transactionID string
	totalCents    int64
	orderDate     int
	items         []Item

	isConstructed bool
}

// RestoreOrder rebuilds an Order from storage with validation.
//
// Parameters:
//   - data: the stored order values; Items may be empty for list views
//
// Returns:
//   - *Order: the restored order if all validations pass
//   - error: every validation failure, joined
//
// Example:
//
//	o, err := order.RestoreOrder(order.Data{
//	    StoreID: "12", OrderID: "3456", CustomerID: "12345678909",
//	    TransactionID: "351788", TotalCents: 129990, OrderDate: 20251015,
//	})
func RestoreOrder(data Data) (*Order, error) {
	key, keyErr := NewKey(data.StoreID, data.OrderID)

	var customerErr error
	customerID := strings.TrimSpace(data.CustomerID)
	if customerID == "" {
		customerErr = errs.NewValueIsRequiredError("customer id")
	}

	var totalErr error
	if data.TotalCents < 0 {
		totalErr = errs.NewValueIsInvalidErrorWithCause("total", fmt.Errorf("%d is negative", data.TotalCents))
	}

	if err := errors.Join(keyErr, customerErr, totalErr); err != nil {
		return nil, err
	}

	items := make([]Item, len(data.Items))
	copy(items, data.Items)

	return &Order{
		key:           key,
		customerID:    customerID,
		customerName:  strings.TrimSpace(data.CustomerName),
		transactionID: strings.TrimSpace(data.TransactionID),
		totalCents:    data.TotalCents,
		orderDate:     data.OrderDate,
		items:         items,
		isConstructed: true,
	}, nil
}

// Validate ensures the Order instance was properly constructed through RestoreOrder.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

func (o *Order) Key() Key {
	return o.key
}

func (o *Order) StoreID() string {
	return o.key.StoreID
}

func (o *Order) OrderID() string {
	return o.key.OrderID
}

func (o *Order) CustomerID() string {
	return o.customerID
}

func (o *Order) CustomerName() string {
	return o.customerName
}

// TransactionID returns the key correlating the order with its history and feeds.
// It is empty when the order system never assigned one.
func (o *Order) TransactionID() string {
	return o.transactionID
}

// HasTransaction reports whether the order can be looked up in history and feeds.
func (o *Order) HasTransaction() bool {
	return o.transactionID != ""
}

func (o *Order) TotalCents() int64 {
	return o.totalCents
}

// OrderDate renders the order date as "DD/MM/YYYY", or the placeholder.
func (o *Order) OrderDate() string {
	return kernel.RenderLocalDate(o.orderDate)
}

// Items returns a copy of the order lines.
func (o *Order) Items() []Item {
	items := make([]Item, len(o.items))
	copy(items, o.items)
	return items
}
