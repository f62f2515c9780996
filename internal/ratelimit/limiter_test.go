package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/admin-service/internal/config"
)

func setupLimiter(t *testing.T, limit, windowSeconds int) (Limiter, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisLimiter(client, config.RateLimitConfig{
		LoginLimit:    limit,
		WindowSeconds: windowSeconds,
	}), mr
}

func TestLimiterBlocksAfterLimit(t *testing.T) {
	limiter, _ := setupLimiter(t, 5, 60)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		limited, err := limiter.IsLimited(ctx, "login:1.2.3.4")
		require.NoError(t, err)
		require.False(t, limited, "attempt %d should not be limited", i+1)
		require.NoError(t, limiter.Increment(ctx, "login:1.2.3.4"))
	}

	limited, err := limiter.IsLimited(ctx, "login:1.2.3.4")
	require.NoError(t, err)
	require.True(t, limited, "6th attempt should be limited")
}

func TestLimiterKeysAreIndependent(t *testing.T) {
	limiter, _ := setupLimiter(t, 2, 60)
	ctx := context.Background()

	require.NoError(t, limiter.Increment(ctx, "login:a"))
	require.NoError(t, limiter.Increment(ctx, "login:a"))

	limited, err := limiter.IsLimited(ctx, "login:a")
	require.NoError(t, err)
	require.True(t, limited)

	limited, err = limiter.IsLimited(ctx, "login:b")
	require.NoError(t, err)
	require.False(t, limited)
}

func TestLimiterWindowExpires(t *testing.T) {
	limiter, mr := setupLimiter(t, 2, 60)
	ctx := context.Background()

	require.NoError(t, limiter.Increment(ctx, "login:a"))
	require.NoError(t, limiter.Increment(ctx, "login:a"))

	limited, err := limiter.IsLimited(ctx, "login:a")
	require.NoError(t, err)
	require.True(t, limited)

	mr.FastForward(61 * time.Second)

	limited, err = limiter.IsLimited(ctx, "login:a")
	require.NoError(t, err)
	require.False(t, limited, "window should have expired")
}

func TestLimiterReset(t *testing.T) {
	limiter, _ := setupLimiter(t, 1, 60)
	ctx := context.Background()

	require.NoError(t, limiter.Increment(ctx, "login:a"))

	limited, err := limiter.IsLimited(ctx, "login:a")
	require.NoError(t, err)
	require.True(t, limited)

	require.NoError(t, limiter.Reset(ctx, "login:a"))

	limited, err = limiter.IsLimited(ctx, "login:a")
	require.NoError(t, err)
	require.False(t, limited)
}

func TestLimiterReportsBackendFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	limiter := NewRedisLimiter(client, config.RateLimitConfig{LoginLimit: 5, WindowSeconds: 60})
	mr.Close()

	_, err := limiter.IsLimited(context.Background(), "login:a")
	require.Error(t, err, "a down backend must surface an error so the caller can apply its fail policy")
}
