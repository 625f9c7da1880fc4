// Package cache provides the key-value store used for shared, time-boxed results
package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/decentraland/marketplace-server-sub001/internal/adapter"
)

// ErrCacheMiss is returned when a key is missing or expired
var ErrCacheMiss = errors.New("cache miss")

const keyNamespace = "marketplace"

// Cache is a get/set key-value store with expirations.
// There is no locking: concurrent writers of a key simply overwrite each other.
//
//go:generate mockgen -source=cache.go -destination=../mocks/cache.go -package=mocks -mock_names=Cache=MockCache
type Cache interface {
	// Get returns the value stored at key or ErrCacheMiss
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value at key for ttl
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Key namespaces a cache key
func Key(parts ...string) string {
	key := keyNamespace
	for _, part := range parts {
		key += ":" + part
	}
	return key
}

type redisCache struct {
	client adapter.RedisClient
}

// NewRedisCache creates a cache backed by Redis
func NewRedisCache(client adapter.RedisClient) Cache {
	return &redisCache{client: client}
}

func (c *redisCache) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache key %s: %w", key, err)
	}
	return value, nil
}

func (c *redisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cache key %s: %w", key, err)
	}
	return nil
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

type memoryCache struct {
	mu      sync.RWMutex
	clock   adapter.Clock
	entries map[string]memoryEntry
}

// NewMemoryCache creates a process local cache
func NewMemoryCache(clock adapter.Clock) Cache {
	return &memoryCache{
		clock:   clock,
		entries: make(map[string]memoryEntry),
	}
}

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || (!entry.expiresAt.IsZero() && !c.clock.Now().Before(entry.expiresAt)) {
		return nil, ErrCacheMiss
	}
	return entry.value, nil
}

func (c *memoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	entry := memoryEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		entry.expiresAt = c.clock.Now().Add(ttl)
	}

	c.mu.Lock()
	c.entries[key] = entry
	c.mu.Unlock()
	return nil
}
