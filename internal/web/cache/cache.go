// Package cache stores rendered JSON:API documents keyed by request so
// repeated reads skip the database and the assembler.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Cache defines the interface for all cache backends
type Cache interface {
	// Get retrieves a value; a missing or expired key returns ErrCacheMiss
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with a TTL. A zero TTL uses the backend default.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value from the cache
	Delete(ctx context.Context, key string) error

	// Clear removes every value under the backend's prefix
	Clear(ctx context.Context) error

	// Close releases backend resources
	Close() error
}

// Config holds common configuration for cache backends
type Config struct {
	// DefaultTTL is the default time-to-live for cached documents
	DefaultTTL time.Duration
	// Prefix is prepended to all cache keys
	Prefix string
}

// DefaultConfig returns a default cache configuration
func DefaultConfig() Config {
	return Config{
		DefaultTTL: time.Minute,
		Prefix:     "jsonapify:",
	}
}

// ErrCacheMiss is returned when a key is not found in the cache
var ErrCacheMiss = errors.New("cache miss")

func miss(key string) error {
	return fmt.Errorf("%w: %s", ErrCacheMiss, key)
}

// IsCacheMiss checks if an error is a cache miss
func IsCacheMiss(err error) bool {
	return errors.Is(err, ErrCacheMiss)
}
