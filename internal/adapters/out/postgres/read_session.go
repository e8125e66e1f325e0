// Package postgres provides the GORM-based read session used by the query handlers.
// A read session opens one read-only transaction per request so that the orders of a
// customer and their status history are read from the same snapshot.
//
// Usage:
//
//	factory := NewGormReadSessionFactory(db)
//	session := factory.Create()
//
//	if err := session.Begin(ctx); err != nil {
//	    return err
//	}
//	defer session.End(ctx)
//
//	orders, err := session.OrderRepository().ListByCustomer(ctx, cpf)
//
// Concurrency Considerations:
//   - Each ReadSession instance holds its own transaction
//   - A session must not be shared between goroutines
//   - Finish all reads before starting slow provider calls
package postgres

import (
	"context"
	"database/sql"

	"tracking/internal/adapters/out/postgres/historyrepo"
	"tracking/internal/adapters/out/postgres/orderrepo"
	"tracking/internal/core/ports"

	"gorm.io/gorm"
)

// GormReadSessionFactory creates ReadSession instances using GORM database connections.
type GormReadSessionFactory struct {
	db *gorm.DB
}

// NewGormReadSessionFactory creates a factory for GORM-based read sessions.
// The provided database connection will be used for all created sessions.
func NewGormReadSessionFactory(db *gorm.DB) *GormReadSessionFactory {
	return &GormReadSessionFactory{db: db}
}

// Create produces a new ReadSession. The transaction is opened by Begin.
func (f *GormReadSessionFactory) Create() ports.ReadSession {
	return &GormReadSession{db: f.db}
}

// GormReadSession groups repository reads in a read-only transaction.
// Repositories obtained before Begin (or after End) read outside any transaction.
type GormReadSession struct {
	db *gorm.DB
	tx *gorm.DB
}

// Begin opens a read-only repeatable-read transaction. Calling Begin on an active session is a no-op.
func (s *GormReadSession) Begin(ctx context.Context) error {
	if s.tx != nil {
		return nil
	}

	tx := s.db.WithContext(ctx).Begin(&sql.TxOptions{ReadOnly: true, Isolation: sql.LevelRepeatableRead})
	if tx.Error != nil {
		return tx.Error
	}

	s.tx = tx
	return nil
}

// End releases the transaction. Nothing is ever written, so the transaction
// is rolled back rather than committed.
//
// Returns gorm.ErrInvalidTransaction if no transaction is active.
func (s *GormReadSession) End(_ context.Context) error {
	if s.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := s.tx.Rollback().Error
	s.tx = nil
	return err
}

// OrderRepository provides order reads bound to the current transaction if one is active,
// otherwise to the main database connection.
func (s *GormReadSession) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(s.getDB())
}

// HistoryReader provides status history reads bound to the current transaction if one is
// active, otherwise to the main database connection.
func (s *GormReadSession) HistoryReader() ports.HistoryReader {
	return historyrepo.NewGormHistoryRepository(s.getDB())
}

func (s *GormReadSession) getDB() *gorm.DB {
	if s.tx != nil {
		return s.tx
	}
	return s.db
}
