package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Migrate applies every embedded migration that has not been recorded in
// schema_migrations, in file name order. Each migration runs in its own
// transaction together with its bookkeeping row.
func Migrate(ctx context.Context, pool *pgxpool.Pool, logger zerolog.Logger) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			filename   TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	files, err := fs.Glob(migrationFS, "migrations/*.sql")
	if err != nil {
		return fmt.Errorf("failed to list migrations: %w", err)
	}
	sort.Strings(files)

	for _, file := range files {
		var applied bool
		err := pool.QueryRow(ctx,
			"SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE filename = $1)", file,
		).Scan(&applied)
		if err != nil {
			return fmt.Errorf("failed to check migration %s: %w", file, err)
		}
		if applied {
			continue
		}

		body, err := migrationFS.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", file, err)
		}

		if err := applyMigration(ctx, pool, file, string(body)); err != nil {
			return err
		}

		logger.Info().Str("migration", file).Msg("migration applied")
	}

	return nil
}

func applyMigration(ctx context.Context, pool *pgxpool.Pool, file, body string) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin migration %s: %w", file, err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, body); err != nil {
		return fmt.Errorf("failed to run migration %s: %w", file, err)
	}
	if _, err := tx.Exec(ctx, "INSERT INTO schema_migrations (filename) VALUES ($1)", file); err != nil {
		return fmt.Errorf("failed to record migration %s: %w", file, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit migration %s: %w", file, err)
	}
	return nil
}
