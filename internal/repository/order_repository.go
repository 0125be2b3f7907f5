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

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *orderRepository) BeginTx(ctx context.Context, isoLevel pgx.TxIsoLevel) (pgx.Tx, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: isoLevel})
	if err != nil {
		r.logger.Error().Err(err).Str("isolation", string(isoLevel)).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// CreateOrder inserts a new order within the provided transaction.
func (r *orderRepository) CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	query := `
		INSERT INTO customer_order (user_id, restaurant_id, address_id, order_action, status, total_price)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := tx.QueryRow(ctx, query,
		order.UserID,
		order.RestaurantID,
		order.AddressID,
		order.Action,
		order.Status,
		order.TotalPrice,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		r.logger.Error().
			Err(err).
			Int64("user_id", order.UserID).
			Int64("restaurant_id", order.RestaurantID).
			Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	r.logger.Debug().
		Int64("order_id", order.ID).
		Msg("order created successfully")

	return nil
}

// CreateOrderLines inserts multiple order lines within the provided transaction.
func (r *orderRepository) CreateOrderLines(ctx context.Context, tx pgx.Tx, lines []model.OrderLine) error {
	if len(lines) == 0 {
		return nil
	}

	query := `
		INSERT INTO order_item (order_id, food_variant_id, quantity, final_price)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	batch := &pgx.Batch{}
	for _, line := range lines {
		batch.Queue(query, line.OrderID, line.VariantID, line.Quantity, line.FinalPrice)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := range lines {
		if err := results.QueryRow().Scan(&lines[i].ID); err != nil {
			r.logger.Error().
				Err(err).
				Int64("order_id", lines[i].OrderID).
				Int64("variant_id", lines[i].VariantID).
				Msg("failed to create order line")
			return fmt.Errorf("failed to create order line: %w", err)
		}
	}

	r.logger.Debug().
		Int("count", len(lines)).
		Msg("order lines created successfully")

	return nil
}

// CreateLineIngredients inserts added and removed ingredient links within
// the provided transaction.
func (r *orderRepository) CreateLineIngredients(ctx context.Context, tx pgx.Tx, links []model.LineIngredient) error {
	if len(links) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, link := range links {
		switch link.Kind {
		case model.IngredientAdded:
			batch.Queue(
				"INSERT INTO order_item_added_ingredient (order_item_id, added_id, quantity) VALUES ($1, $2, $3)",
				link.OrderLineID, link.IngredientID, link.Count,
			)
		case model.IngredientRemoved:
			batch.Queue(
				"INSERT INTO order_item_removed_ingredient (order_item_id, removed_id) VALUES ($1, $2)",
				link.OrderLineID, link.IngredientID,
			)
		default:
			return fmt.Errorf("unknown ingredient link kind %q", link.Kind)
		}
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := range links {
		if _, err := results.Exec(); err != nil {
			r.logger.Error().
				Err(err).
				Int64("order_line_id", links[i].OrderLineID).
				Int64("ingredient_id", links[i].IngredientID).
				Str("kind", string(links[i].Kind)).
				Msg("failed to create line ingredient")
			return fmt.Errorf("failed to create line ingredient: %w", err)
		}
	}

	r.logger.Debug().
		Int("count", len(links)).
		Msg("line ingredients created successfully")

	return nil
}

// GetByID retrieves an order by its ID along with its lines.
func (r *orderRepository) GetByID(ctx context.Context, id int64) (*model.Order, []model.OrderLine, error) {
	orderQuery := `
		SELECT id, user_id, COALESCE(restaurant_id, 0), COALESCE(address_id, 0),
		       order_action, status, total_price, created_at, updated_at
		FROM customer_order
		WHERE id = $1
	`

	var order model.Order
	err := r.pool.QueryRow(ctx, orderQuery, id).Scan(
		&order.ID,
		&order.UserID,
		&order.RestaurantID,
		&order.AddressID,
		&order.Action,
		&order.Status,
		&order.TotalPrice,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Int64("order_id", id).Msg("order not found")
			return nil, nil, nil
		}
		r.logger.Error().Err(err).Int64("order_id", id).Msg("failed to query order")
		return nil, nil, fmt.Errorf("failed to query order: %w", err)
	}

	linesQuery := `
		SELECT id, order_id, food_variant_id, quantity, final_price
		FROM order_item
		WHERE order_id = $1
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, linesQuery, id)
	if err != nil {
		r.logger.Error().
			Err(err).
			Int64("order_id", id).
			Msg("failed to query order lines")
		return nil, nil, fmt.Errorf("failed to query order lines: %w", err)
	}
	defer rows.Close()

	lines := []model.OrderLine{}
	for rows.Next() {
		var line model.OrderLine
		err := rows.Scan(&line.ID, &line.OrderID, &line.VariantID, &line.Quantity, &line.FinalPrice)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order line row")
			return nil, nil, fmt.Errorf("failed to scan order line: %w", err)
		}
		lines = append(lines, line)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order line rows")
		return nil, nil, fmt.Errorf("error iterating order lines: %w", err)
	}

	return &order, lines, nil
}

// UpdateStatus moves an order to a new status if it is still in the expected one.
func (r *orderRepository) UpdateStatus(ctx context.Context, id int64, from, to model.OrderStatus) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		"UPDATE customer_order SET status = $3, updated_at = NOW() WHERE id = $1 AND status = $2",
		id, from, to,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Int64("order_id", id).
			Str("from", string(from)).
			Str("to", string(to)).
			Msg("failed to update order status")
		return false, fmt.Errorf("failed to update order status: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}
