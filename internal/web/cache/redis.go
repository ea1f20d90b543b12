package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache implements a Redis-backed cache
type RedisCache struct {
	client *redis.Client
	config Config
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	// Addr is the Redis server address (host:port)
	Addr string
	// Password is the Redis password (optional)
	Password string
	// DB is the Redis database number
	DB int
	// Cache holds common cache configuration
	Cache Config
}

// NewRedisCache connects to Redis and verifies the connection
func NewRedisCache(ctx context.Context, config RedisConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", config.Addr, err)
	}

	return NewRedisCacheWithClient(client, config.Cache), nil
}

// NewRedisCacheWithClient creates a Redis cache with an existing client
func NewRedisCacheWithClient(client *redis.Client, config Config) *RedisCache {
	return &RedisCache{
		client: client,
		config: config,
	}
}

// Get retrieves a value from the cache
func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := r.client.Get(ctx, r.config.Prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, miss(key)
		}
		return nil, err
	}
	return value, nil
}

// Set stores a value in the cache with a TTL
func (r *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl == 0 {
		ttl = r.config.DefaultTTL
	}
	return r.client.Set(ctx, r.config.Prefix+key, value, ttl).Err()
}

// Delete removes a value from the cache
func (r *RedisCache) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.config.Prefix+key).Err()
}

// Clear removes all values under the prefix
func (r *RedisCache) Clear(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, r.config.Prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// Close closes the Redis connection
func (r *RedisCache) Close() error {
	return r.client.Close()
}
