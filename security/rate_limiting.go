package security

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/redis/go-redis/v9"
)

// RateLimiter counts requests per client IP in fixed Redis windows.
type RateLimiter struct {
	redis  *redis.Client
	limit  int64
	window time.Duration
}

func NewRateLimiter(redisClient *redis.Client, perMinute int) *RateLimiter {
	return &RateLimiter{
		redis:  redisClient,
		limit:  int64(perMinute),
		window: time.Minute,
	}
}

// Limit returns route middleware enforcing the limit under the given scope.
// Clients are keyed by e.RealIP(), so proxy headers only count when trusted
// proxies are configured in the PocketBase settings. A limiter without Redis
// lets everything through, and so does a Redis failure.
func (r *RateLimiter) Limit(scope string) func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if r == nil || r.redis == nil || r.limit <= 0 {
			return e.Next()
		}

		ctx := e.Request.Context()
		key := fmt.Sprintf("ratelimit:%s:%s", scope, e.RealIP())

		count, err := r.redis.Incr(ctx, key).Result()
		if err != nil {
			slog.Warn("Rate limiter unavailable", "key", key, "error", err)
			return e.Next()
		}
		if count == 1 {
			if err := r.redis.Expire(ctx, key, r.window).Err(); err != nil {
				// every counter must expire
				slog.Warn("Rate limiter window not set", "key", key, "error", err)
				r.redis.Del(ctx, key)
			}
		}
		if count > r.limit {
			slog.Info("Rate limit exceeded", "key", key, "count", count)
			return apis.NewTooManyRequestsError("Rate limit exceeded. Please try again later.", nil)
		}

		return e.Next()
	}
}
