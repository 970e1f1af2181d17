package services

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	queueStatusKey  = "queue:status"
	displayBoardKey = "display:board"
)

// Cache keeps short-lived JSON copies of the polled views in Redis. A nil
// Cache is valid and caches nothing.
type Cache struct {
	redis     *redis.Client
	statusTTL time.Duration
	boardTTL  time.Duration

	// generation advances on every Invalidate
	generation atomic.Uint64
}

func NewCache(client *redis.Client, statusTTL, boardTTL time.Duration) *Cache {
	if client == nil {
		return nil
	}
	return &Cache{redis: client, statusTTL: statusTTL, boardTTL: boardTTL}
}

// Invalidate drops every cached view. Failures only cost freshness up to the TTL.
func (c *Cache) Invalidate(ctx context.Context) {
	if c == nil {
		return
	}
	c.generation.Add(1)
	if err := c.redis.Del(ctx, queueStatusKey, displayBoardKey).Err(); err != nil {
		slog.Warn("Failed to invalidate queue cache", "error", err)
	}
}

// cached serves key from Redis, falling back to load and storing its result.
// A result is not stored when an invalidation ran while load was reading, so
// rows read before a commit do not outlive it. An invalidation landing between
// that check and the Set can still leave such a value for up to one TTL.
// Redis errors never fail the read.
func cached[T any](ctx context.Context, c *Cache, key string, load func() (T, error)) (T, error) {
	if c == nil || c.ttl(key) <= 0 {
		return load()
	}

	raw, err := c.redis.Get(ctx, key).Result()
	switch {
	case err == nil:
		var v T
		if jsonErr := json.Unmarshal([]byte(raw), &v); jsonErr == nil {
			return v, nil
		}
		slog.Warn("Discarding unreadable cache entry", "key", key)
	case !errors.Is(err, redis.Nil):
		slog.Warn("c.redis.Get()", "key", key, "error", err)
	}

	generation := c.generation.Load()
	v, err := load()
	if err != nil {
		return v, err
	}
	if c.generation.Load() != generation {
		return v, nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return v, nil
	}
	if err := c.redis.Set(ctx, key, string(data), c.ttl(key)).Err(); err != nil {
		slog.Warn("c.redis.Set()", "key", key, "error", err)
	}
	return v, nil
}

func (c *Cache) ttl(key string) time.Duration {
	if key == displayBoardKey {
		return c.boardTTL
	}
	return c.statusTTL
}
