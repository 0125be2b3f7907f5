package repository

import (
	"context"
	"testing"
	"time"

	"restaurant-orders/internal/database"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDB creates a PostgreSQL testcontainer, applies the migrations
// and seeds the catalog.
func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	require.NoError(t, database.Migrate(ctx, pool, zerolog.Nop()))
	seedCatalog(t, pool)

	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}

	return pool, cleanup
}

// seedCatalog inserts a restaurant, customers and a small menu.
func seedCatalog(t *testing.T, pool *pgxpool.Pool) {
	ctx := context.Background()

	seed := `
		INSERT INTO restaurant (id, name, phone, address, has_delivery, has_takeaway, has_dine_in, is_active) VALUES
			(1, 'Pizzeria', '+79990000000', 'Lenina 1', TRUE, TRUE, FALSE, TRUE),
			(2, 'Closed', '+79990000001', 'Lenina 2', TRUE, TRUE, TRUE, FALSE);

		INSERT INTO app_user (id, phone, is_banned) VALUES
			(7, '+79991112233', FALSE),
			(8, '+79994445566', TRUE);

		INSERT INTO user_address (id, user_id, address, entrance, floor, apartment, is_primary, is_removed) VALUES
			(10, 7, 'Mira 5', '2', 3, '12', FALSE, FALSE),
			(11, 7, 'Old street 1', NULL, NULL, NULL, TRUE, FALSE),
			(12, 8, 'Banned lane 4', NULL, NULL, NULL, TRUE, FALSE),
			(13, 7, 'Gone 9', NULL, NULL, NULL, FALSE, TRUE);

		INSERT INTO food (id, name, measure_name) VALUES
			(50, 'Margherita', 'cm'),
			(51, 'Cola', 'l');

		INSERT INTO food_variant (id, food_id, price, ingredient_price_modifier, is_active) VALUES
			(100, 50, 500, 2.0, TRUE),
			(101, 51, 120, 1.0, TRUE),
			(102, 50, 700, 1.5, FALSE);

		INSERT INTO food_characteristic (id, measure_value) VALUES (1, '30'), (2, '0.5');
		INSERT INTO food_characteristic_variant (characteristic_id, variant_id) VALUES (1, 100), (2, 101);

		INSERT INTO ingredient (id, name, price) VALUES
			(1, 'Cheese', 70),
			(2, 'Onion', 30),
			(3, 'Basil', 45),
			(4, 'Tomato', 25);

		INSERT INTO ingredient (id, name, price, is_available) VALUES
			(5, 'Truffle', 400, FALSE);

		INSERT INTO food_ingredient (food_id, ingredient_id, is_adding, is_default) VALUES
			(50, 1, TRUE, FALSE),
			(50, 2, FALSE, TRUE),
			(50, 3, FALSE, FALSE),
			(50, 4, TRUE, TRUE);
	`

	_, err := pool.Exec(ctx, seed)
	require.NoError(t, err)
}

func TestCatalogRepository_GetVariantsByIDs(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewCatalogRepository(pool, zerolog.Nop())
	ctx := context.Background()

	t.Run("Known and unknown ids", func(t *testing.T) {
		variants, err := repo.GetVariantsByIDs(ctx, []int64{101, 100, 999})

		require.NoError(t, err)
		require.Len(t, variants, 2)

		margherita := variants[0]
		assert.Equal(t, int64(100), margherita.ID)
		assert.Equal(t, int64(50), margherita.FoodID)
		assert.Equal(t, "Margherita", margherita.FoodName)
		assert.Equal(t, "cm", margherita.MeasureUnit)
		assert.Equal(t, int64(500), margherita.Price)
		assert.True(t, margherita.IngredientPriceModifier.Equal(decimal.NewFromInt(2)))
		assert.True(t, margherita.IsActive)
		assert.Equal(t, []string{"30"}, margherita.MeasureValues)
		require.Len(t, margherita.Associations, 4)
		assert.Equal(t, int64(1), margherita.Associations[0].IngredientID)
		assert.True(t, margherita.Associations[0].IsAddable)
		assert.False(t, margherita.Associations[0].IsDefault)

		cola := variants[1]
		assert.Equal(t, "Cola", cola.FoodName)
		assert.Equal(t, []string{"0.5"}, cola.MeasureValues)
		assert.Empty(t, cola.Associations)
	})

	t.Run("Inactive variant is returned with its flag", func(t *testing.T) {
		variants, err := repo.GetVariantsByIDs(ctx, []int64{102})

		require.NoError(t, err)
		require.Len(t, variants, 1)
		assert.False(t, variants[0].IsActive)
		assert.Empty(t, variants[0].MeasureValues)
		assert.True(t, variants[0].IngredientPriceModifier.Equal(decimal.RequireFromString("1.5")))
	})

	t.Run("Empty ids", func(t *testing.T) {
		variants, err := repo.GetVariantsByIDs(ctx, nil)

		require.NoError(t, err)
		assert.Empty(t, variants)
	})
}

func TestCatalogRepository_GetIngredientsByIDs(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewCatalogRepository(pool, zerolog.Nop())
	ctx := context.Background()

	tests := []struct {
		name          string
		ids           []int64
		expectedNames []string
	}{
		{
			name:          "All exist",
			ids:           []int64{3, 1},
			expectedNames: []string{"Cheese", "Basil"},
		},
		{
			name:          "Some missing",
			ids:           []int64{4, 404},
			expectedNames: []string{"Tomato"},
		},
		{
			name:          "Unavailable treated as missing",
			ids:           []int64{5, 2},
			expectedNames: []string{"Onion"},
		},
		{
			name:          "Empty ids",
			ids:           []int64{},
			expectedNames: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ingredients, err := repo.GetIngredientsByIDs(ctx, tt.ids)

			require.NoError(t, err)
			require.Len(t, ingredients, len(tt.expectedNames))
			for i, name := range tt.expectedNames {
				assert.Equal(t, name, ingredients[i].Name)
			}
		})
	}
}

func TestCatalogRepository_ContextCancellation(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewCatalogRepository(pool, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	variants, err := repo.GetVariantsByIDs(ctx, []int64{100})

	require.Error(t, err)
	assert.Nil(t, variants)
	assert.Contains(t, err.Error(), "failed to query food variants by IDs")
}
