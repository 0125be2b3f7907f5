package repository

import (
	"context"
	"errors"
	"fmt"

	"restaurant-orders/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

type restaurantRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewRestaurantRepository creates a new PostgreSQL-backed restaurant repository.
func NewRestaurantRepository(pool *pgxpool.Pool, logger zerolog.Logger) RestaurantRepository {
	return &restaurantRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "restaurant").Logger(),
	}
}

func (r *restaurantRepository) GetByID(ctx context.Context, id int64) (*model.Restaurant, error) {
	query := `
		SELECT id, address, phone, has_delivery, has_takeaway, has_dine_in, is_active
		FROM restaurant
		WHERE id = $1
	`

	var rest model.Restaurant
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&rest.ID,
		&rest.Address,
		&rest.Phone,
		&rest.HasDelivery,
		&rest.HasTakeaway,
		&rest.HasDineIn,
		&rest.IsActive,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Int64("restaurant_id", id).Msg("restaurant not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("restaurant_id", id).Msg("failed to query restaurant")
		return nil, fmt.Errorf("failed to query restaurant: %w", err)
	}

	return &rest, nil
}
