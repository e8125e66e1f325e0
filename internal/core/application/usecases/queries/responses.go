package queries

import (
	"tracking/internal/core/domain/model/order"
	"tracking/internal/core/domain/model/timeline"
)

// OrderSummary is one order of a customer with its current status.
type OrderSummary struct {
	StoreID       string
	OrderID       string
	TransactionID string
	CustomerName  string
	TotalCents    int64

	// OrderDate is rendered "DD/MM/YYYY", or the placeholder.
	OrderDate string

	CurrentStatus order.CurrentStatus
}

// OrderItemLine is one line of an order's details.
type OrderItemLine struct {
	ItemCode       string
	ProductName    string
	Quantity       float64
	UnitPriceCents int64
}

// OrderDetails is an order summary with its lines and merged timeline.
type OrderDetails struct {
	OrderSummary

	Items    []OrderItemLine
	Timeline []timeline.Event
}

func newOrderSummary(o *order.Order, status order.CurrentStatus) OrderSummary {
	return OrderSummary{
		StoreID:       o.StoreID(),
		OrderID:       o.OrderID(),
		TransactionID: o.TransactionID(),
		CustomerName:  o.CustomerName(),
		TotalCents:    o.TotalCents(),
		OrderDate:     o.OrderDate(),
		CurrentStatus: status,
	}
}

func newOrderItemLines(items []order.Item) []OrderItemLine {
	lines := make([]OrderItemLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, OrderItemLine{
			ItemCode:       item.Code(),
			ProductName:    item.ProductName(),
			Quantity:       item.Quantity(),
			UnitPriceCents: item.UnitPriceCents(),
		})
	}
	return lines
}
