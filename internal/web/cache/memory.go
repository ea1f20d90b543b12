package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MemoryCache implements an in-memory cache with TTL support
type MemoryCache struct {
	mu     sync.RWMutex
	items  map[string]cacheItem
	config Config
	now    func() time.Time
	cancel context.CancelFunc
}

// cacheItem represents an item stored in the cache
type cacheItem struct {
	value      []byte
	expiration time.Time
}

func (i cacheItem) expired(now time.Time) bool {
	return !i.expiration.IsZero() && now.After(i.expiration)
}

// NewMemoryCache creates an in-memory cache and starts its sweeper, which
// removes expired items every sweepInterval until Close.
func NewMemoryCache(config Config, sweepInterval time.Duration) *MemoryCache {
	ctx, cancel := context.WithCancel(context.Background())
	mc := &MemoryCache{
		items:  make(map[string]cacheItem),
		config: config,
		now:    time.Now,
		cancel: cancel,
	}

	if sweepInterval > 0 {
		go mc.sweep(ctx, sweepInterval)
	}

	return mc
}

// Get retrieves a value from the cache
func (m *MemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fullKey := m.config.Prefix + key

	m.mu.RLock()
	item, ok := m.items[fullKey]
	m.mu.RUnlock()

	if !ok || item.expired(m.now()) {
		return nil, miss(key)
	}
	return item.value, nil
}

// Set stores a value in the cache with a TTL
func (m *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if ttl == 0 {
		ttl = m.config.DefaultTTL
	}

	item := cacheItem{value: append([]byte(nil), value...)}
	if ttl > 0 {
		item.expiration = m.now().Add(ttl)
	}

	m.mu.Lock()
	m.items[m.config.Prefix+key] = item
	m.mu.Unlock()
	return nil
}

// Delete removes a value from the cache
func (m *MemoryCache) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	delete(m.items, m.config.Prefix+key)
	m.mu.Unlock()
	return nil
}

// Clear removes all values under the prefix
func (m *MemoryCache) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	for key := range m.items {
		if strings.HasPrefix(key, m.config.Prefix) {
			delete(m.items, key)
		}
	}
	m.mu.Unlock()
	return nil
}

// Len returns the number of stored items, expired or not
func (m *MemoryCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// Close stops the background sweeper
func (m *MemoryCache) Close() error {
	if m.cancel != nil {
		m.cancel()
	}
	return nil
}

func (m *MemoryCache) sweep(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.removeExpired()
		}
	}
}

func (m *MemoryCache) removeExpired() {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()
	for key, item := range m.items {
		if item.expired(now) {
			delete(m.items, key)
		}
	}
}
