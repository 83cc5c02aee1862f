package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/ppiankov/ecosnap/internal/model"
)

// Cache stores raw API response bodies.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives a cache key from a request identity (method and full URL).
func Key(method, url string) string {
	hash := sha256.Sum256([]byte(method + " " + url))
	return "ecosnap:v1:" + hex.EncodeToString(hash[:])
}

// New builds the backend selected by cfg. It returns nil when caching is disabled.
func New(cfg model.CacheConfig) (Cache, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	switch cfg.Backend {
	case "memory":
		return NewMemoryCache(cfg.TTL, 10*time.Minute), nil
	case "disk":
		return NewDiskCache(cfg.Dir, cfg.TTL), nil
	case "", "layered":
		return NewLayeredCache(cfg.TTL, cfg.Dir, cfg.TTL), nil
	case "redis":
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("cache backend redis requires cache.redis_addr")
		}
		return NewRedisCache(cfg.RedisAddr, cfg.TTL), nil
	default:
		return nil, fmt.Errorf("unknown cache backend: %s (supported: memory, disk, layered, redis)", cfg.Backend)
	}
}
