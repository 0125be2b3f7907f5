package service

import (
	"context"

	"restaurant-orders/internal/model"
	"restaurant-orders/internal/notify"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/mock"
)

// MockOrderRepository is a mock implementation of OrderRepository.
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) BeginTx(ctx context.Context, isoLevel pgx.TxIsoLevel) (pgx.Tx, error) {
	args := m.Called(ctx, isoLevel)
	if tx, ok := args.Get(0).(pgx.Tx); ok {
		return tx, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	args := m.Called(ctx, tx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) CreateOrderLines(ctx context.Context, tx pgx.Tx, lines []model.OrderLine) error {
	args := m.Called(ctx, tx, lines)
	return args.Error(0)
}

func (m *MockOrderRepository) CreateLineIngredients(ctx context.Context, tx pgx.Tx, links []model.LineIngredient) error {
	args := m.Called(ctx, tx, links)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id int64) (*model.Order, []model.OrderLine, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*model.Order), args.Get(1).([]model.OrderLine), args.Error(2)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, id int64, from, to model.OrderStatus) (bool, error) {
	args := m.Called(ctx, id, from, to)
	return args.Bool(0), args.Error(1)
}

// MockCatalogRepository is a mock implementation of CatalogRepository.
type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) GetVariantsByIDs(ctx context.Context, ids []int64) ([]model.FoodVariant, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.FoodVariant), args.Error(1)
}

func (m *MockCatalogRepository) GetIngredientsByIDs(ctx context.Context, ids []int64) ([]model.Ingredient, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Ingredient), args.Error(1)
}

// MockRestaurantRepository is a mock implementation of RestaurantRepository.
type MockRestaurantRepository struct {
	mock.Mock
}

func (m *MockRestaurantRepository) GetByID(ctx context.Context, id int64) (*model.Restaurant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Restaurant), args.Error(1)
}

// MockAddressRepository is a mock implementation of AddressRepository.
type MockAddressRepository struct {
	mock.Mock
}

func (m *MockAddressRepository) GetUserAddress(ctx context.Context, addressID, userID int64) (*model.Address, error) {
	args := m.Called(ctx, addressID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Address), args.Error(1)
}

func (m *MockAddressRepository) SetPrimary(ctx context.Context, tx pgx.Tx, userID, addressID int64) error {
	args := m.Called(ctx, tx, userID, addressID)
	return args.Error(0)
}

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

// MockNotifier is a mock implementation of notify.Notifier.
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyNewOrder(ctx context.Context, event notify.NewOrderEvent) error {
	return m.Called(ctx, event).Error(0)
}

func (m *MockNotifier) NotifyStatusChanged(ctx context.Context, event notify.StatusChangedEvent) error {
	return m.Called(ctx, event).Error(0)
}

// MockCodeReserver is a mock implementation of ordering.CodeReserver.
type MockCodeReserver struct {
	mock.Mock
}

func (m *MockCodeReserver) Reserve(ctx context.Context, restaurantID int64, code string) (bool, error) {
	args := m.Called(ctx, restaurantID, code)
	return args.Bool(0), args.Error(1)
}

// MockTx is a minimal mock implementation of pgx.Tx for testing.
type MockTx struct {
	mock.Mock
}

func (m *MockTx) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTx) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Stub methods to satisfy pgx.Tx interface - these are not used in our tests
func (m *MockTx) Begin(ctx context.Context) (pgx.Tx, error) { return nil, nil }
func (m *MockTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (m *MockTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (m *MockTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (m *MockTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (m *MockTx) Exec(ctx context.Context, sql string, arguments ...any) (commandTag pgconn.CommandTag, err error) {
	return
}
func (m *MockTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (m *MockTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }
func (m *MockTx) Conn() *pgx.Conn                                               { return nil }
