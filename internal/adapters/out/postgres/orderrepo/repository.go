package orderrepo

import (
	"context"
	"errors"

	"tracking/internal/core/domain/model/order"
	"tracking/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// ListByCustomer retrieves every order of a customer, newest first, without items.
func (r *GormOrderRepository) ListByCustomer(ctx context.Context, customerID string) ([]*order.Order, error) {
	if customerID == "" {
		return nil, errs.NewValueIsRequiredError("customerID")
	}

	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("order_date DESC").
		Order("store_id").
		Order("order_id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, nil
}

// Get retrieves one order of a customer with its items.
// An order of another customer is reported as not found.
func (r *GormOrderRepository) Get(ctx context.Context, customerID string, key order.Key) (*order.Order, error) {
	if customerID == "" {
		return nil, errs.NewValueIsRequiredError("customerID")
	}

	var dto OrderDTO
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position").Order("id")
		}).
		Where("customer_id = ? AND store_id = ? AND order_id = ?", customerID, key.StoreID, key.OrderID).
		Take(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", key.String())
		}
		return nil, err
	}

	return toDomain(dto)
}
