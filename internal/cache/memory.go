package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache is a process-local TTL cache.
type MemoryCache struct {
	cache *gocache.Cache
}

// NewMemoryCache creates a memory cache; expired entries are purged every cleanupInterval.
func NewMemoryCache(defaultTTL time.Duration, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{
		cache: gocache.New(defaultTTL, cleanupInterval),
	}
}

// Get returns the cached bytes for key.
func (c *MemoryCache) Get(key string) ([]byte, bool) {
	val, found := c.cache.Get(key)
	if !found {
		return nil, false
	}
	b, ok := val.([]byte)
	return b, ok
}

// Set stores value; a zero ttl uses the cache default.
func (c *MemoryCache) Set(key string, value []byte, ttl time.Duration) error {
	if ttl == 0 {
		ttl = gocache.DefaultExpiration
	}
	c.cache.Set(key, value, ttl)
	return nil
}

// Delete removes key.
func (c *MemoryCache) Delete(key string) error {
	c.cache.Delete(key)
	return nil
}

// Clear drops everything.
func (c *MemoryCache) Clear() error {
	c.cache.Flush()
	return nil
}

// Remember returns the value cached under key, computing and storing it on a miss.
// It is used for small typed lookups (e.g. database ids resolved by title).
func Remember[T any](c *MemoryCache, key string, load func() (T, error)) (T, error) {
	if v, ok := c.cache.Get(key); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}
	v, err := load()
	if err != nil {
		return v, err
	}
	c.cache.SetDefault(key, v)
	return v, nil
}
