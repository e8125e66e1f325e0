// Package historyrepo reads the locally stored order status history. Each row records one
// coarse status transition of a transaction with its local date and time of day.
package historyrepo

import (
	"tracking/internal/core/domain/model/history"
)

// StatusHistoryDTO represents one status transition row. Date is stored as YYYYMMDD and
// TimeOfDaySeconds as seconds since local midnight.
type StatusHistoryDTO struct {
	ID               uint   `gorm:"primaryKey"`
	TransactionID    string `gorm:"size:32;not null;index:idx_status_history_txn_moment,priority:1"`
	StatusLabel      string `gorm:"not null"`
	Date             int    `gorm:"not null;index:idx_status_history_txn_moment,priority:2"`
	TimeOfDaySeconds int    `gorm:"not null;index:idx_status_history_txn_moment,priority:3"`
}

// TableName specifies the database table name for status history rows.
func (StatusHistoryDTO) TableName() string {
	return "order_status_history"
}

func toDomain(dto StatusHistoryDTO) history.LocalStatusRow {
	return history.LocalStatusRow{
		TransactionID:    dto.TransactionID,
		StatusLabel:      dto.StatusLabel,
		Date:             dto.Date,
		TimeOfDaySeconds: dto.TimeOfDaySeconds,
	}
}
