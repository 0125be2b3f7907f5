package repository

import (
	"errors"
	"fmt"
	"strings"

	"restaurant-orders/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ParseIsoLevel maps a configured isolation name to a pgx isolation level.
// An empty name selects read committed.
func ParseIsoLevel(name string) (pgx.TxIsoLevel, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "read committed", "read_committed":
		return pgx.ReadCommitted, nil
	case "repeatable read", "repeatable_read":
		return pgx.RepeatableRead, nil
	case "serializable":
		return pgx.Serializable, nil
	}
	return "", fmt.Errorf("unsupported transaction isolation level %q", name)
}

// ClassifyError wraps a storage error with ErrConcurrentModification when
// PostgreSQL reports an integrity violation, a serialization failure or a
// deadlock, and with ErrDatabase otherwise. Domain errors, including
// already classified ones, pass through.
func ClassifyError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := model.AsDomainError(err); ok {
		return err
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if strings.HasPrefix(pgErr.Code, "23") || pgErr.Code == "40001" || pgErr.Code == "40P01" {
			return fmt.Errorf("%w: %w", model.ErrConcurrentModification, err)
		}
	}

	return fmt.Errorf("%w: %w", model.ErrDatabase, err)
}
