package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := NewRedisCacheWithClient(client, DefaultConfig())
	t.Cleanup(func() { c.Close() })
	return c, mr
}

func TestNewRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)

	c, err := NewRedisCache(context.Background(), RedisConfig{Addr: mr.Addr(), Cache: DefaultConfig()})
	require.NoError(t, err)
	require.NoError(t, c.Close())
}

func TestNewRedisCache_ConnectionError(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisCache(context.Background(), RedisConfig{Addr: addr})
	assert.Error(t, err)
}

func TestRedisCache_SetAndGet(t *testing.T) {
	c, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("doc"), time.Minute))
	assert.True(t, mr.Exists("jsonapify:k"))

	value, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "doc", string(value))

	_, err = c.Get(ctx, "missing")
	assert.True(t, IsCacheMiss(err))
}

func TestRedisCache_TTL(t *testing.T) {
	c, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("doc"), 0))
	assert.Equal(t, DefaultConfig().DefaultTTL, mr.TTL("jsonapify:k"))

	mr.FastForward(2 * time.Minute)
	_, err := c.Get(ctx, "k")
	assert.True(t, IsCacheMiss(err))
}

func TestRedisCache_DeleteAndClear(t *testing.T) {
	c, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, mr.Set("other:key", "keep"))
	require.NoError(t, c.Set(ctx, "a", []byte("1"), time.Minute))
	require.NoError(t, c.Set(ctx, "b", []byte("2"), time.Minute))

	require.NoError(t, c.Delete(ctx, "a"))
	assert.False(t, mr.Exists("jsonapify:a"))

	require.NoError(t, c.Clear(ctx))
	assert.False(t, mr.Exists("jsonapify:b"))
	assert.True(t, mr.Exists("other:key"))
}
