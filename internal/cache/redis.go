package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisOpTimeout = 2 * time.Second

// RedisCache shares cached responses between machines running ecosnap.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects lazily to addr.
func NewRedisCache(addr string, ttl time.Duration) *RedisCache {
	return NewRedisCacheWithClient(redis.NewClient(&redis.Options{Addr: addr}), ttl)
}

// NewRedisCacheWithClient wraps an existing client.
func NewRedisCacheWithClient(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// Get returns the stored value. Connection failures count as misses.
func (c *RedisCache) Get(key string) ([]byte, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	val, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return val, true
}

// Set stores value with ttl (or the cache default).
func (c *RedisCache) Set(key string, value []byte, ttl time.Duration) error {
	if ttl == 0 {
		ttl = c.ttl
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	return c.client.Set(ctx, key, value, ttl).Err()
}

// Delete removes key.
func (c *RedisCache) Delete(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	return c.client.Del(ctx, key).Err()
}

// Clear removes every ecosnap key.
func (c *RedisCache) Clear() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*redisOpTimeout)
	defer cancel()

	var errs []error
	iter := c.client.Scan(ctx, 0, "ecosnap:*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			errs = append(errs, err)
		}
	}
	errs = append(errs, iter.Err())
	return errors.Join(errs...)
}

// Close releases the connection pool.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
