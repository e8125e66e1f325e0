// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// Orders are written by the store systems; this package only reads them and converts the
// database rows into order domain entities.
package orderrepo

import (
	"tracking/internal/core/domain/model/order"
)

// OrderDTO represents an order header row. An order is identified by the store that sold
// it and the store-local order number, and is indexed by customer for the list view.
type OrderDTO struct {
	StoreID       string `gorm:"primaryKey;size:16"`
	OrderID       string `gorm:"primaryKey;size:32"`
	CustomerID    string `gorm:"size:14;not null;index"`
	CustomerName  string
	TransactionID string `gorm:"size:32;index"`
	TotalCents    int64
	OrderDate     int `gorm:"index"`

	Items []OrderItemDTO `gorm:"foreignKey:StoreID,OrderID;references:StoreID,OrderID"`
}

// TableName specifies the database table name for order entities.
// Overrides GORM's default naming convention to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// OrderItemDTO represents one line item of an order. Position keeps the line order
// of the original receipt.
type OrderItemDTO struct {
	ID             uint   `gorm:"primaryKey"`
	StoreID        string `gorm:"size:16;not null;index:idx_order_items_order"`
	OrderID        string `gorm:"size:32;not null;index:idx_order_items_order"`
	Position       int
	ItemCode       string `gorm:"size:32;not null"`
	ProductName    string
	QuantityMilli  int64
	UnitPriceCents int64
}

// TableName specifies the database table name for order line items.
func (OrderItemDTO) TableName() string {
	return "order_items"
}

// toDomain converts a database DTO to an order domain entity using RestoreOrder.
// Items are only present when they were preloaded.
func toDomain(dto OrderDTO) (*order.Order, error) {
	items := make([]order.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		item, err := order.NewItem(itemDTO.ItemCode, itemDTO.ProductName, itemDTO.QuantityMilli, itemDTO.UnitPriceCents)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return order.RestoreOrder(order.Data{
		StoreID:       dto.StoreID,
		OrderID:       dto.OrderID,
		CustomerID:    dto.CustomerID,
		CustomerName:  dto.CustomerName,
		TransactionID: dto.TransactionID,
		TotalCents:    dto.TotalCents,
		OrderDate:     dto.OrderDate,
		Items:         items,
	})
}
