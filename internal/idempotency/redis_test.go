package idempotency

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/wom/internal/settlement"
)

var _ settlement.Deduper = (*RedisDeduper)(nil)

func redisClient(t *testing.T) *redis.Client {
	t.Helper()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client, err := Connect(context.Background(), addr, "", 0)
	if err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	t.Cleanup(func() { _ = client.Close() })

	return client
}

func TestRedisDeduper_ClaimOnce(t *testing.T) {
	client := redisClient(t)
	ctx := context.Background()
	d := NewRedisDeduper(client, time.Minute)

	id := "evt_" + uuid.NewString()
	t.Cleanup(func() { client.Del(ctx, eventKeyPrefix+id) })

	ok, err := d.Claim(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = d.Claim(ctx, id)
	require.NoError(t, err)
	assert.False(t, ok)

	ttl, err := client.TTL(ctx, eventKeyPrefix+id).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Minute)
}

func TestRedisDeduper_Release(t *testing.T) {
	client := redisClient(t)
	ctx := context.Background()
	d := NewRedisDeduper(client, 0)

	id := "evt_" + uuid.NewString()
	t.Cleanup(func() { client.Del(ctx, eventKeyPrefix+id) })

	ok, err := d.Claim(ctx, id)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, d.Release(ctx, id))

	ok, err = d.Claim(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestNewRedisDeduper_DefaultTTL(t *testing.T) {
	d := NewRedisDeduper(nil, -time.Second)
	assert.Equal(t, DefaultTTL, d.ttl)
}
