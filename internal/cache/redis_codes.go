// Package cache holds Redis-backed helpers that sit outside the order
// transaction.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	codeKeyPrefix = "order_code:"
	codeKeyTTL    = 26 * time.Hour
)

// RedisCodeReserver remembers the order codes handed out to each restaurant
// for the current day so a code is not repeated within a day.
type RedisCodeReserver struct {
	client *redis.Client
	now    func() time.Time
	logger zerolog.Logger
}

// NewRedisCodeReserver creates a reserver over client.
func NewRedisCodeReserver(client *redis.Client, logger zerolog.Logger) *RedisCodeReserver {
	return &RedisCodeReserver{
		client: client,
		now:    time.Now,
		logger: logger.With().Str("component", "redis-code-reserver").Logger(),
	}
}

// Reserve claims code for the restaurant for today. It returns false if the
// code was already claimed.
func (r *RedisCodeReserver) Reserve(ctx context.Context, restaurantID int64, code string) (bool, error) {
	key := codeKey(r.now(), restaurantID, code)

	ok, err := r.client.SetNX(ctx, key, 1, codeKeyTTL).Result()
	if err != nil {
		r.logger.Error().Err(err).Str("key", key).Msg("failed to reserve order code")
		return false, fmt.Errorf("failed to reserve order code: %w", err)
	}

	if !ok {
		r.logger.Debug().Str("key", key).Msg("order code already taken")
	}
	return ok, nil
}

func codeKey(day time.Time, restaurantID int64, code string) string {
	return fmt.Sprintf("%s%s:%d:%s", codeKeyPrefix, day.Format(time.DateOnly), restaurantID, code)
}

// NewClient creates a Redis client and verifies connectivity.
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", addr, err)
	}
	return client, nil
}
