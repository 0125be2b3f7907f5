package integration

import (
	"context"
	"testing"
	"time"

	"restaurant-orders/internal/database"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const testAPIKey = "test-api-key"

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a migrated PostgreSQL test container and connection pool.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		t.Fatalf("failed to parse connection string: %v", err)
	}
	poolConfig.MaxConns = 20

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	if err := database.Migrate(ctx, pool, zerolog.Nop()); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// SeedCatalog inserts one active restaurant, users, addresses and a small menu.
func SeedCatalog(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	seed := `
		INSERT INTO restaurant (id, name, phone, address, has_delivery, has_takeaway, has_dine_in, is_active) VALUES
			(1, 'Pizzeria', '+79990000000', 'Lenina 1', TRUE, TRUE, FALSE, TRUE);

		INSERT INTO app_user (id, phone, is_banned) VALUES
			(7, '+79991112233', FALSE),
			(8, '+79994445566', TRUE);

		INSERT INTO user_address (id, user_id, address, entrance, floor, apartment, is_primary, is_removed) VALUES
			(10, 7, 'Mira 5', '2', 3, '12', FALSE, FALSE),
			(11, 7, 'Old street 1', NULL, NULL, NULL, TRUE, FALSE),
			(12, 8, 'Banned lane 4', NULL, NULL, NULL, TRUE, FALSE);

		INSERT INTO food (id, name, measure_name) VALUES (50, 'Margherita', 'cm');
		INSERT INTO food_variant (id, food_id, price, ingredient_price_modifier, is_active) VALUES (100, 50, 500, 2.0, TRUE);
		INSERT INTO food_characteristic (id, measure_value) VALUES (1, '30');
		INSERT INTO food_characteristic_variant (characteristic_id, variant_id) VALUES (1, 100);

		INSERT INTO ingredient (id, name, price) VALUES
			(1, 'Cheese', 70),
			(2, 'Onion', 30);

		INSERT INTO food_ingredient (food_id, ingredient_id, is_adding, is_default) VALUES
			(50, 1, TRUE, FALSE),
			(50, 2, FALSE, TRUE);
	`

	if _, err := pool.Exec(context.Background(), seed); err != nil {
		t.Fatalf("failed to seed catalog: %v", err)
	}
}

// CleanupDB removes all rows, orders first.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	_, err := pool.Exec(context.Background(), `
		TRUNCATE order_item_added_ingredient, order_item_removed_ingredient, order_item, customer_order,
			food_ingredient, ingredient, food_characteristic_variant, food_characteristic,
			food_variant, food, user_address, app_user, restaurant
		RESTART IDENTITY CASCADE
	`)
	if err != nil {
		t.Fatalf("failed to clean database: %v", err)
	}
}

// CountRows returns the number of rows in table.
func CountRows(t *testing.T, pool *pgxpool.Pool, table string) int {
	t.Helper()

	var n int
	if err := pool.QueryRow(context.Background(), "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		t.Fatalf("failed to count %s: %v", table, err)
	}
	return n
}
