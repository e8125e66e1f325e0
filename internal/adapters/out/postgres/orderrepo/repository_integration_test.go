package orderrepo_test

import (
	"context"
	"testing"
	"time"

	"tracking/internal/adapters/out/postgres/orderrepo"
	"tracking/internal/core/domain/model/order"
	"tracking/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// OrderRepositoryIntegrationTestSuite provides integration tests for OrderRepository
// using PostgreSQL containers to verify the read queries.
type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *orderrepo.GormOrderRepository
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	// Start PostgreSQL container
	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	// Get connection string and connect to database
	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	// Auto-migrate the schema
	suite.Require().NoError(db.AutoMigrate(&orderrepo.OrderDTO{}, &orderrepo.OrderItemDTO{}))
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	// Clean the database before each test
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE order_items, orders").Error)

	suite.repository = orderrepo.NewGormOrderRepository(suite.db)
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) TestListByCustomer_ReturnsNewestFirst() {
	ctx := context.Background()

	suite.seedOrder("12", "100", "11111111111", 20251001, nil)
	suite.seedOrder("12", "300", "11111111111", 20251015, []orderrepo.OrderItemDTO{
		{Position: 1, ItemCode: "SKU-1", ProductName: "Sofa", QuantityMilli: 1000, UnitPriceCents: 99990},
	})
	suite.seedOrder("07", "200", "11111111111", 20251015, nil)
	suite.seedOrder("12", "400", "22222222222", 20251020, nil)

	orders, err := suite.repository.ListByCustomer(ctx, "11111111111")
	suite.Require().NoError(err)

	suite.Require().Len(orders, 3)
	suite.Equal(order.Key{StoreID: "07", OrderID: "200"}, orders[0].Key())
	suite.Equal(order.Key{StoreID: "12", OrderID: "300"}, orders[1].Key())
	suite.Equal(order.Key{StoreID: "12", OrderID: "100"}, orders[2].Key())
	suite.Empty(orders[1].Items(), "list view should not load items")
	suite.Equal("txn-300", orders[1].TransactionID())
	suite.Equal("15/10/2025", orders[1].OrderDate())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestListByCustomer_UnknownCustomer_ReturnsEmpty() {
	orders, err := suite.repository.ListByCustomer(context.Background(), "99999999999")

	suite.Require().NoError(err)
	suite.NotNil(orders)
	suite.Empty(orders)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestListByCustomer_BlankCustomer_ReturnsValidationError() {
	_, err := suite.repository.ListByCustomer(context.Background(), "")

	suite.Require().ErrorIs(err, errs.ErrValueIsRequired)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_ExistingOrder_ReturnsOrderWithItems() {
	ctx := context.Background()

	suite.seedOrder("12", "300", "11111111111", 20251015, []orderrepo.OrderItemDTO{
		{Position: 2, ItemCode: "SKU-2", ProductName: "Wardrobe", QuantityMilli: 2500, UnitPriceCents: 45000},
		{Position: 1, ItemCode: "SKU-1", ProductName: "Sofa", QuantityMilli: 1000, UnitPriceCents: 99990},
	})

	retrieved, err := suite.repository.Get(ctx, "11111111111", order.Key{StoreID: "12", OrderID: "300"})
	suite.Require().NoError(err)

	suite.Equal("Customer 300", retrieved.CustomerName())
	suite.Equal(int64(150000), retrieved.TotalCents())
	items := retrieved.Items()
	suite.Require().Len(items, 2)
	suite.Equal("SKU-1", items[0].Code())
	suite.Equal("SKU-2", items[1].Code())
	suite.InDelta(2.5, items[1].Quantity(), 1e-9)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_OrderOfAnotherCustomer_ReturnsNotFoundError() {
	ctx := context.Background()
	suite.seedOrder("12", "300", "11111111111", 20251015, nil)

	retrieved, err := suite.repository.Get(ctx, "22222222222", order.Key{StoreID: "12", OrderID: "300"})

	suite.Require().Error(err)
	suite.Nil(retrieved)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
	suite.Contains(err.Error(), "12/300")
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_NonExistentOrder_ReturnsNotFoundError() {
	_, err := suite.repository.Get(context.Background(), "11111111111", order.Key{StoreID: "1", OrderID: "1"})

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_CorruptedRow_ReturnsValidationError() {
	ctx := context.Background()
	dto := orderrepo.OrderDTO{StoreID: "12", OrderID: "500", CustomerID: "11111111111", TotalCents: -10}
	suite.Require().NoError(suite.db.Create(&dto).Error)

	_, err := suite.repository.Get(ctx, "11111111111", order.Key{StoreID: "12", OrderID: "500"})

	suite.Require().ErrorIs(err, errs.ErrValueIsInvalid)
}

func (suite *OrderRepositoryIntegrationTestSuite) seedOrder(
	storeID, orderID, customerID string,
	date int,
	items []orderrepo.OrderItemDTO,
) {
	dto := orderrepo.OrderDTO{
		StoreID:       storeID,
		OrderID:       orderID,
		CustomerID:    customerID,
		CustomerName:  "Customer " + orderID,
		TransactionID: "txn-" + orderID,
		TotalCents:    150000,
		OrderDate:     date,
		Items:         items,
	}
	suite.Require().NoError(suite.db.Create(&dto).Error)
}

func TestOrderRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}
