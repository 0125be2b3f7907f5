package repository

import (
	"context"
	"fmt"

	"restaurant-orders/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// catalogRepository implements the CatalogRepository interface using PostgreSQL.
type catalogRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCatalogRepository creates a new PostgreSQL-backed catalog repository.
func NewCatalogRepository(pool *pgxpool.Pool, logger zerolog.Logger) CatalogRepository {
	return &catalogRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "catalog").Logger(),
	}
}

// GetVariantsByIDs retrieves food variants with their dish data and ingredient associations.
func (r *catalogRepository) GetVariantsByIDs(ctx context.Context, ids []int64) ([]model.FoodVariant, error) {
	if len(ids) == 0 {
		return []model.FoodVariant{}, nil
	}

	query := `
		SELECT fv.id, fv.food_id, f.name, COALESCE(f.measure_name, ''), fv.price,
		       fv.ingredient_price_modifier::text, fv.is_active,
		       ARRAY(
		           SELECT COALESCE(fc.measure_value, '')
		           FROM food_characteristic fc
		           JOIN food_characteristic_variant fcv ON fcv.characteristic_id = fc.id
		           WHERE fcv.variant_id = fv.id
		           ORDER BY fc.id
		       )
		FROM food_variant fv
		JOIN food f ON f.id = fv.food_id
		WHERE fv.id = ANY($1)
		ORDER BY fv.id
	`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to query food variants by IDs")
		return nil, fmt.Errorf("failed to query food variants by IDs: %w", err)
	}
	defer rows.Close()

	var variants []model.FoodVariant
	foodIDs := make([]int64, 0, len(ids))
	for rows.Next() {
		var (
			v        model.FoodVariant
			modifier string
		)
		err := rows.Scan(&v.ID, &v.FoodID, &v.FoodName, &v.MeasureUnit, &v.Price,
			&modifier, &v.IsActive, &v.MeasureValues)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan food variant row")
			return nil, fmt.Errorf("failed to scan food variant: %w", err)
		}
		v.IngredientPriceModifier, err = decimal.NewFromString(modifier)
		if err != nil {
			r.logger.Error().Err(err).Int64("variant_id", v.ID).Str("modifier", modifier).Msg("invalid ingredient price modifier")
			return nil, fmt.Errorf("invalid ingredient price modifier for variant %d: %w", v.ID, err)
		}
		variants = append(variants, v)
		foodIDs = append(foodIDs, v.FoodID)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating food variant rows")
		return nil, fmt.Errorf("error iterating food variants: %w", err)
	}

	if len(variants) == 0 {
		return variants, nil
	}

	assocs, err := r.getAssociations(ctx, foodIDs)
	if err != nil {
		return nil, err
	}
	for i := range variants {
		variants[i].Associations = assocs[variants[i].FoodID]
	}

	return variants, nil
}

// getAssociations retrieves ingredient associations grouped by food ID.
func (r *catalogRepository) getAssociations(ctx context.Context, foodIDs []int64) (map[int64][]model.IngredientAssociation, error) {
	query := `
		SELECT food_id, ingredient_id, is_adding, is_default
		FROM food_ingredient
		WHERE food_id = ANY($1)
		ORDER BY food_id, ingredient_id
	`

	rows, err := r.pool.Query(ctx, query, foodIDs)
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(foodIDs)).Msg("failed to query ingredient associations")
		return nil, fmt.Errorf("failed to query ingredient associations: %w", err)
	}
	defer rows.Close()

	assocs := make(map[int64][]model.IngredientAssociation)
	for rows.Next() {
		var (
			foodID int64
			a      model.IngredientAssociation
		)
		if err := rows.Scan(&foodID, &a.IngredientID, &a.IsAddable, &a.IsDefault); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan ingredient association row")
			return nil, fmt.Errorf("failed to scan ingredient association: %w", err)
		}
		assocs[foodID] = append(assocs[foodID], a)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating ingredient association rows")
		return nil, fmt.Errorf("error iterating ingredient associations: %w", err)
	}

	return assocs, nil
}

// GetIngredientsByIDs retrieves available ingredients by their IDs.
// Unavailable ingredients are left out as if they did not exist.
func (r *catalogRepository) GetIngredientsByIDs(ctx context.Context, ids []int64) ([]model.Ingredient, error) {
	if len(ids) == 0 {
		return []model.Ingredient{}, nil
	}

	query := `
		SELECT id, name, price
		FROM ingredient
		WHERE id = ANY($1) AND is_available
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to query ingredients by IDs")
		return nil, fmt.Errorf("failed to query ingredients by IDs: %w", err)
	}
	defer rows.Close()

	var ingredients []model.Ingredient
	for rows.Next() {
		var i model.Ingredient
		if err := rows.Scan(&i.ID, &i.Name, &i.Price); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan ingredient row")
			return nil, fmt.Errorf("failed to scan ingredient: %w", err)
		}
		ingredients = append(ingredients, i)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating ingredient rows")
		return nil, fmt.Errorf("error iterating ingredients: %w", err)
	}

	return ingredients, nil
}
