package historyrepo

import (
	"context"

	"tracking/internal/core/domain/model/history"
	"tracking/internal/pkg/errs"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// latestByTransactionSQL picks one row per transaction: the largest (date, time of day),
// ties resolved by insertion order.
const latestByTransactionSQL = `
SELECT DISTINCT ON (transaction_id) id, transaction_id, status_label, date, time_of_day_seconds
FROM order_status_history
WHERE transaction_id = ANY(?)
ORDER BY transaction_id, date DESC, time_of_day_seconds DESC, id ASC`

// GormHistoryRepository implements HistoryReader using GORM.
type GormHistoryRepository struct {
	db *gorm.DB
}

// NewGormHistoryRepository creates a new GORM status history repository.
func NewGormHistoryRepository(db *gorm.DB) *GormHistoryRepository {
	return &GormHistoryRepository{db: db}
}

// ReadHistory retrieves every status row of a transaction in insertion order.
func (r *GormHistoryRepository) ReadHistory(ctx context.Context, transactionID string) ([]history.LocalStatusRow, error) {
	if transactionID == "" {
		return nil, errs.NewValueIsRequiredError("transactionID")
	}

	var dtos []StatusHistoryDTO
	if err := r.db.WithContext(ctx).Where("transaction_id = ?", transactionID).Order("id").Find(&dtos).Error; err != nil {
		return nil, err
	}

	rows := make([]history.LocalStatusRow, 0, len(dtos))
	for _, dto := range dtos {
		rows = append(rows, toDomain(dto))
	}

	return rows, nil
}

// ReadLatest retrieves the most recent status row of a transaction.
func (r *GormHistoryRepository) ReadLatest(ctx context.Context, transactionID string) (history.LocalStatusRow, bool, error) {
	if transactionID == "" {
		return history.LocalStatusRow{}, false, errs.NewValueIsRequiredError("transactionID")
	}

	var dtos []StatusHistoryDTO
	err := r.db.WithContext(ctx).
		Where("transaction_id = ?", transactionID).
		Order("date DESC").
		Order("time_of_day_seconds DESC").
		Order("id").
		Limit(1).
		Find(&dtos).Error
	if err != nil {
		return history.LocalStatusRow{}, false, err
	}

	if len(dtos) == 0 {
		return history.LocalStatusRow{}, false, nil
	}

	return toDomain(dtos[0]), true, nil
}

// ReadLatestBatch retrieves the most recent status row of every given transaction in a
// single query. Transactions without rows are absent from the result.
func (r *GormHistoryRepository) ReadLatestBatch(
	ctx context.Context,
	transactionIDs []string,
) (map[string]history.LocalStatusRow, error) {
	latest := make(map[string]history.LocalStatusRow, len(transactionIDs))
	if len(transactionIDs) == 0 {
		return latest, nil
	}

	var dtos []StatusHistoryDTO
	if err := r.db.WithContext(ctx).Raw(latestByTransactionSQL, pq.Array(transactionIDs)).Scan(&dtos).Error; err != nil {
		return nil, err
	}

	for _, dto := range dtos {
		latest[dto.TransactionID] = toDomain(dto)
	}

	return latest, nil
}
