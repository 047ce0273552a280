package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"ubuntu-connect/internal/models"
)

const leaderboardKey = "leaderboard:top"

// LeaderboardCache keeps the computed ranking in Redis for a short TTL.
// A nil client disables the cache; every lookup is then a miss and writes
// are no-ops, so callers never branch on whether Redis is configured.
type LeaderboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewLeaderboardCache(client *redis.Client, ttl time.Duration) *LeaderboardCache {
	return &LeaderboardCache{client: client, ttl: ttl}
}

// Get retrieves the cached ranking, reporting whether it was present
func (c *LeaderboardCache) Get(ctx context.Context) ([]models.LeaderboardEntry, bool) {
	if c.client == nil {
		return nil, false
	}

	raw, err := c.client.Get(ctx, leaderboardKey).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("Leaderboard cache read failed", "error", err)
		return nil, false
	}

	var entries []models.LeaderboardEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		slog.Warn("Leaderboard cache held invalid payload", "error", err)
		return nil, false
	}

	return entries, true
}

// Set stores the ranking with the configured TTL
func (c *LeaderboardCache) Set(ctx context.Context, entries []models.LeaderboardEntry) {
	if c.client == nil {
		return
	}

	raw, err := json.Marshal(entries)
	if err != nil {
		slog.Warn("Failed to marshal leaderboard for cache", "error", err)
		return
	}

	if err := c.client.Set(ctx, leaderboardKey, raw, c.ttl).Err(); err != nil {
		slog.Warn("Leaderboard cache write failed", "error", err)
	}
}

// Invalidate drops the cached ranking after a ledger write
func (c *LeaderboardCache) Invalidate(ctx context.Context) {
	if c.client == nil {
		return
	}

	if err := c.client.Del(ctx, leaderboardKey).Err(); err != nil {
		slog.Warn("Leaderboard cache invalidation failed", "error", err)
	}
}
