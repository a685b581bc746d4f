package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veritas-lab/pkg/logger"
)

// newTestRedis connects to VERITAS_TEST_REDIS_ADDR or skips
func newTestRedis(t *testing.T) *RedisCache {
	t.Helper()
	addr := os.Getenv("VERITAS_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("VERITAS_TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	require.NoError(t, client.Ping(context.Background()).Err())
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisFromClient(client, "veritas-test:"+uuid.NewString()+":", logger.NewNop())
}

func TestTokenAcquireRelease(t *testing.T) {
	c := newTestRedis(t)
	ctx := context.Background()

	ok, err := c.AcquireToken(ctx, "client-1", "tok-a", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.AcquireToken(ctx, "client-1", "tok-b", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	released, err := c.ReleaseToken(ctx, "client-1", "tok-b")
	require.NoError(t, err)
	assert.False(t, released, "a foreign token must not release the key")

	released, err = c.ReleaseToken(ctx, "client-1", "tok-a")
	require.NoError(t, err)
	assert.True(t, released)

	ok, err = c.AcquireToken(ctx, "client-1", "tok-b", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCheckRateLimit(t *testing.T) {
	c := newTestRedis(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, _, _, err := c.CheckRateLimit(ctx, "1.2.3.4", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed)
	}
	allowed, remaining, reset, err := c.CheckRateLimit(ctx, "1.2.3.4", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Zero(t, remaining)
	assert.True(t, reset.After(time.Now()))
}

func TestJSONRoundTripAndMiss(t *testing.T) {
	c := newTestRedis(t)
	ctx := context.Background()

	var out map[string]int
	assert.ErrorIs(t, c.GetCachedImageAnalysis(ctx, "missing", &out), ErrCacheMiss)

	require.NoError(t, c.CacheImageAnalysis(ctx, "abc", map[string]int{"confidence": 87}, time.Minute))
	require.NoError(t, c.GetCachedImageAnalysis(ctx, "abc", &out))
	assert.Equal(t, 87, out["confidence"])
}
