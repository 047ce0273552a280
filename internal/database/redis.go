package database

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"ubuntu-connect/internal/config"
)

// NewRedis creates a Redis client for the leaderboard cache. Returns nil
// when no address is configured; callers treat a nil client as cache-off.
func NewRedis(cfg *config.RedisConfig) (*redis.Client, error) {
	if cfg.Address == "" {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return client, nil
}
