package repository

import (
	"context"

	"restaurant-orders/internal/model"

	"github.com/jackc/pgx/v5"
)

// CatalogRepository reads the authoritative catalog rows an order is priced from.
type CatalogRepository interface {
	// GetVariantsByIDs retrieves food variants with their dish, measure
	// characteristics and the dish's ingredient associations. Unknown ids
	// are skipped.
	GetVariantsByIDs(ctx context.Context, ids []int64) ([]model.FoodVariant, error)

	// GetIngredientsByIDs retrieves ingredients by id. Unknown ids are skipped.
	GetIngredientsByIDs(ctx context.Context, ids []int64) ([]model.Ingredient, error)
}

// RestaurantRepository reads restaurant capabilities.
type RestaurantRepository interface {
	// GetByID retrieves a restaurant. Returns nil if it does not exist.
	GetByID(ctx context.Context, id int64) (*model.Restaurant, error)
}

// AddressRepository defines data access for user delivery addresses.
type AddressRepository interface {
	// GetUserAddress retrieves an address only if it belongs to the user.
	// Returns nil otherwise.
	GetUserAddress(ctx context.Context, addressID, userID int64) (*model.Address, error)

	// SetPrimary untags every address of the user and tags addressID as
	// primary within the provided transaction.
	SetPrimary(ctx context.Context, tx pgx.Tx, userID, addressID int64) error
}

// UserRepository reads customers.
type UserRepository interface {
	// GetByID retrieves a user. Returns nil if it does not exist.
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction with the given isolation level.
	BeginTx(ctx context.Context, isoLevel pgx.TxIsoLevel) (pgx.Tx, error)

	// CreateOrder inserts the order header within the provided transaction
	// and sets its generated ID and timestamps.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderLines inserts order lines within the provided transaction
	// and sets their generated IDs in place.
	CreateOrderLines(ctx context.Context, tx pgx.Tx, lines []model.OrderLine) error

	// CreateLineIngredients inserts added and removed ingredient links
	// within the provided transaction.
	CreateLineIngredients(ctx context.Context, tx pgx.Tx, links []model.LineIngredient) error

	// GetByID retrieves an order by its ID along with its lines.
	GetByID(ctx context.Context, id int64) (*model.Order, []model.OrderLine, error)

	// UpdateStatus moves an order from one status to another. Returns false
	// if the order was no longer in the expected status.
	UpdateStatus(ctx context.Context, id int64, from, to model.OrderStatus) (bool, error)
}
