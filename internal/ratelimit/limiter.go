package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/admin-service/internal/config"
)

// Limiter counts attempts per key within a fixed window. Callers must
// consult IsLimited before the guarded operation and Increment only on
// the failure path, so successful logins never count toward lockout.
type Limiter interface {
	IsLimited(ctx context.Context, key string) (bool, error)
	Increment(ctx context.Context, key string) error
	Reset(ctx context.Context, key string) error
}

type redisLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

// NewRedisLimiter builds a Redis-backed fixed-window limiter.
func NewRedisLimiter(client *redis.Client, cfg config.RateLimitConfig) Limiter {
	limit := cfg.LoginLimit
	if limit <= 0 {
		limit = 5
	}
	return &redisLimiter{
		client: client,
		limit:  limit,
		window: cfg.Window(),
	}
}

func (l *redisLimiter) counterKey(key string) string {
	return fmt.Sprintf("ratelimit:%s", key)
}

// IsLimited reports whether the key has exhausted its window budget.
func (l *redisLimiter) IsLimited(ctx context.Context, key string) (bool, error) {
	count, err := l.client.Get(ctx, l.counterKey(key)).Int()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return count >= l.limit, nil
}

// Increment records one attempt. The window starts on the first
// increment; the counter expires with the window.
func (l *redisLimiter) Increment(ctx context.Context, key string) error {
	counterKey := l.counterKey(key)

	pipe := l.client.TxPipeline()
	pipe.Incr(ctx, counterKey)
	pipe.ExpireNX(ctx, counterKey, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return err
	}
	return nil
}

// Reset clears the counter, e.g. after a successful login.
func (l *redisLimiter) Reset(ctx context.Context, key string) error {
	return l.client.Del(ctx, l.counterKey(key)).Err()
}
