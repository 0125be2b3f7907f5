package service

import (
	"context"

	"restaurant-orders/internal/model"
	"restaurant-orders/internal/repository"

	"github.com/jackc/pgx/v5"
)

// OrderService defines operations for order management.
type OrderService interface {
	// PlaceOrder validates, prices and atomically persists an order for the
	// user, then notifies the restaurant.
	PlaceOrder(ctx context.Context, userID int64, req *model.OrderRequest) (*model.PlaceOrderResponse, error)

	// GetByID retrieves an order with its lines if it belongs to the user.
	GetByID(ctx context.Context, userID, id int64) (*model.OrderResponse, error)

	// UpdateStatus moves an order to a new status.
	UpdateStatus(ctx context.Context, id int64, status model.OrderStatus) (*model.Order, error)
}

// Repositories groups the data access the order service depends on.
type Repositories struct {
	Orders      repository.OrderRepository
	Catalog     repository.CatalogRepository
	Restaurants repository.RestaurantRepository
	Addresses   repository.AddressRepository
	Users       repository.UserRepository
}

// Options tunes order placement.
type Options struct {
	// IsoLevel is the isolation level of the write transaction.
	IsoLevel pgx.TxIsoLevel

	// SnapshotConcurrency bounds the parallel reads made before validation.
	SnapshotConcurrency int

	// CodeAttempts is how many codes are tried against the reserver before
	// an unreserved code is used.
	CodeAttempts int
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{
		IsoLevel:            pgx.ReadCommitted,
		SnapshotConcurrency: 4,
		CodeAttempts:        5,
	}
}
