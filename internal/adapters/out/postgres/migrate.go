package postgres

import (
	"tracking/internal/adapters/out/postgres/historyrepo"
	"tracking/internal/adapters/out/postgres/orderrepo"

	"gorm.io/gorm"
)

// AutoMigrate creates or updates the tables the read side queries. Production
// schemas are owned by the order system; this is meant for local setups and tests.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.OrderItemDTO{},
		&historyrepo.StatusHistoryDTO{},
	)
}
