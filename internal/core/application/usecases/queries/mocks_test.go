package queries_test

import (
	"context"

	"tracking/internal/core/domain/model/feed"
	"tracking/internal/core/domain/model/history"
	"tracking/internal/core/domain/model/order"
	"tracking/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) ListByCustomer(ctx context.Context, customerID string) ([]*order.Order, error) {
	args := m.Called(ctx, customerID)
	orders, _ := args.Get(0).([]*order.Order)
	return orders, args.Error(1)
}

func (m *MockOrderRepository) Get(ctx context.Context, customerID string, key order.Key) (*order.Order, error) {
	args := m.Called(ctx, customerID, key)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

type MockHistoryReader struct{ mock.Mock }

func (m *MockHistoryReader) ReadHistory(ctx context.Context, transactionID string) ([]history.LocalStatusRow, error) {
	args := m.Called(ctx, transactionID)
	rows, _ := args.Get(0).([]history.LocalStatusRow)
	return rows, args.Error(1)
}

func (m *MockHistoryReader) ReadLatest(ctx context.Context, transactionID string) (history.LocalStatusRow, bool, error) {
	args := m.Called(ctx, transactionID)
	return args.Get(0).(history.LocalStatusRow), args.Bool(1), args.Error(2)
}

func (m *MockHistoryReader) ReadLatestBatch(ctx context.Context, transactionIDs []string) (map[string]history.LocalStatusRow, error) {
	args := m.Called(ctx, transactionIDs)
	rows, _ := args.Get(0).(map[string]history.LocalStatusRow)
	return rows, args.Error(1)
}

type MockReadSession struct{ mock.Mock }

func (m *MockReadSession) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockReadSession) End(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockReadSession) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockReadSession) HistoryReader() ports.HistoryReader {
	args := m.Called()
	return args.Get(0).(ports.HistoryReader)
}

type MockReadSessionFactory struct{ mock.Mock }

func (m *MockReadSessionFactory) Create() ports.ReadSession {
	args := m.Called()
	return args.Get(0).(ports.ReadSession)
}

type MockFeedClient struct{ mock.Mock }

func (m *MockFeedClient) FetchFeed(ctx context.Context, transactionID string, kind feed.Kind) ([]feed.TaskEvent, error) {
	args := m.Called(ctx, transactionID, kind)
	events, _ := args.Get(0).([]feed.TaskEvent)
	return events, args.Error(1)
}

type MockReconcileRecorder struct{ mock.Mock }

func (m *MockReconcileRecorder) OrdersReconciled(mode string, count int) {
	m.Called(mode, count)
}
