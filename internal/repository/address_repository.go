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

type addressRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewAddressRepository creates a new PostgreSQL-backed address repository.
func NewAddressRepository(pool *pgxpool.Pool, logger zerolog.Logger) AddressRepository {
	return &addressRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "address").Logger(),
	}
}

// GetUserAddress retrieves an address only if it belongs to the user and is not removed.
func (r *addressRepository) GetUserAddress(ctx context.Context, addressID, userID int64) (*model.Address, error) {
	query := `
		SELECT id, user_id, address, COALESCE(entrance, ''), floor, COALESCE(apartment, ''), is_primary
		FROM user_address
		WHERE id = $1 AND user_id = $2 AND NOT is_removed
	`

	var (
		a     model.Address
		floor *int16
	)
	err := r.pool.QueryRow(ctx, query, addressID, userID).Scan(
		&a.ID,
		&a.UserID,
		&a.Address,
		&a.Entrance,
		&floor,
		&a.Apartment,
		&a.IsPrimary,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().
				Int64("address_id", addressID).
				Int64("user_id", userID).
				Msg("address not found for user")
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("address_id", addressID).Msg("failed to query address")
		return nil, fmt.Errorf("failed to query address: %w", err)
	}
	if floor != nil {
		f := int(*floor)
		a.Floor = &f
	}

	return &a, nil
}

// SetPrimary untags every address of the user and tags addressID as primary.
func (r *addressRepository) SetPrimary(ctx context.Context, tx pgx.Tx, userID, addressID int64) error {
	_, err := tx.Exec(ctx,
		"UPDATE user_address SET is_primary = (id = $2) WHERE user_id = $1 AND (is_primary OR id = $2)",
		userID, addressID,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Int64("user_id", userID).
			Int64("address_id", addressID).
			Msg("failed to retag primary address")
		return fmt.Errorf("failed to retag primary address: %w", err)
	}

	return nil
}
