package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*RedisMenuCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisMenuCache(client), mr
}

func TestMenuCacheMiss(t *testing.T) {
	cache, _ := newTestCache(t)

	_, err := cache.Get(context.Background(), "r1")

	require.ErrorIs(t, err, ErrCacheMiss)
}

func TestMenuCacheRoundTrip(t *testing.T) {
	cache, _ := newTestCache(t)
	items := []MenuItem{
		{ID: "i1", RestaurantID: "r1", Name: "Tagine", Price: 45, Available: true},
		{ID: "i2", RestaurantID: "r1", Name: "Mint tea", Price: 10, Available: true},
	}

	require.NoError(t, cache.Set(context.Background(), "r1", items))

	got, err := cache.Get(context.Background(), "r1")
	require.NoError(t, err)
	require.Equal(t, items, got)
}

func TestMenuCacheSetAppliesTTL(t *testing.T) {
	cache, mr := newTestCache(t)

	require.NoError(t, cache.Set(context.Background(), "r1", []MenuItem{{ID: "i1"}}))

	ttl := mr.TTL("menu:r1")
	require.GreaterOrEqual(t, ttl, cache.baseTTL)
	require.LessOrEqual(t, ttl, cache.baseTTL+5*time.Minute)
}

func TestMenuCacheDelete(t *testing.T) {
	cache, _ := newTestCache(t)
	require.NoError(t, cache.Set(context.Background(), "r1", []MenuItem{{ID: "i1"}}))

	require.NoError(t, cache.Delete(context.Background(), "r1"))

	_, err := cache.Get(context.Background(), "r1")
	require.ErrorIs(t, err, ErrCacheMiss)
}

func TestMenuCacheGetCorruptPayload(t *testing.T) {
	cache, mr := newTestCache(t)
	mr.Set("menu:r1", "not json")

	_, err := cache.Get(context.Background(), "r1")

	require.Error(t, err)
	require.False(t, errors.Is(err, ErrCacheMiss))
}
