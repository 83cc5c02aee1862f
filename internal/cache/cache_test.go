package cache

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/ppiankov/ecosnap/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey_StableAndDistinct(t *testing.T) {
	a := Key("GET", "https://api.github.com/repos/a/b/issues")
	assert.Equal(t, a, Key("GET", "https://api.github.com/repos/a/b/issues"))
	assert.NotEqual(t, a, Key("POST", "https://api.github.com/repos/a/b/issues"))
	assert.Contains(t, a, "ecosnap:v1:")
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	_, ok := c.Get("k")
	assert.False(t, ok)

	require.NoError(t, c.Set("k", []byte("v"), 0))
	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte("v"), got)

	require.NoError(t, c.Delete("k"))
	_, ok = c.Get("k")
	assert.False(t, ok)
}

func TestRemember(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	calls := 0
	load := func() (string, error) {
		calls++
		return "db-1", nil
	}

	for i := 0; i < 3; i++ {
		v, err := Remember(c, "title:Meetings", load)
		require.NoError(t, err)
		assert.Equal(t, "db-1", v)
	}
	assert.Equal(t, 1, calls)

	_, err := Remember(c, "title:Broken", func() (string, error) { return "", errors.New("boom") })
	assert.Error(t, err)
	_, err = Remember(c, "title:Broken", func() (string, error) { return "ok", nil })
	assert.NoError(t, err, "failed loads must not be cached")
}

func TestDiskCache_ExpiryAndClear(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	c := NewDiskCache(dir, time.Hour)

	require.NoError(t, c.Set("live", []byte("1"), 0))
	require.NoError(t, c.Set("dead", []byte("2"), -time.Second))

	got, ok := c.Get("live")
	require.True(t, ok)
	assert.Equal(t, []byte("1"), got)

	_, ok = c.Get("dead")
	assert.False(t, ok)
	_, err := os.Stat(filepath.Join(dir, "dead.cache"))
	assert.True(t, os.IsNotExist(err), "expired entry should be removed on read")

	assert.NoError(t, c.Delete("missing"))
	require.NoError(t, c.Clear())
	_, ok = c.Get("live")
	assert.False(t, ok)
}

func TestLayeredCache_PromotesDiskHits(t *testing.T) {
	dir := t.TempDir()
	disk := NewDiskCache(dir, time.Hour)
	require.NoError(t, disk.Set("k", []byte("from-disk"), 0))

	c := NewLayeredCache(time.Minute, dir, time.Hour)
	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte("from-disk"), got)

	mem, ok := c.memory.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte("from-disk"), mem)
}

func TestRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)
	c := NewRedisCacheWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Minute)
	defer func() { _ = c.Close() }()

	key := Key("GET", "https://api.github.com/x")
	require.NoError(t, c.Set(key, []byte("body"), 0))

	got, ok := c.Get(key)
	require.True(t, ok)
	assert.Equal(t, []byte("body"), got)
	assert.Equal(t, time.Minute, mr.TTL(key))

	mr.FastForward(2 * time.Minute)
	_, ok = c.Get(key)
	assert.False(t, ok)

	require.NoError(t, c.Set(key, []byte("again"), 0))
	require.NoError(t, c.Clear())
	assert.False(t, mr.Exists(key))
}

func TestNew(t *testing.T) {
	c, err := New(model.CacheConfig{Enabled: false})
	require.NoError(t, err)
	assert.Nil(t, c)

	c, err = New(model.CacheConfig{Enabled: true, Backend: "memory", TTL: time.Minute})
	require.NoError(t, err)
	assert.IsType(t, &MemoryCache{}, c)

	c, err = New(model.CacheConfig{Enabled: true, Backend: "layered", Dir: t.TempDir(), TTL: time.Minute})
	require.NoError(t, err)
	assert.IsType(t, &LayeredCache{}, c)

	_, err = New(model.CacheConfig{Enabled: true, Backend: "redis"})
	assert.Error(t, err)

	_, err = New(model.CacheConfig{Enabled: true, Backend: "memcached"})
	assert.ErrorContains(t, err, "unknown cache backend")
}
