package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrCacheMiss = errors.New("cache miss")

// MenuCache keeps restaurant menus close to the request path; the menu
// listing is by far the hottest read in the system.
type MenuCache interface {
	Get(ctx context.Context, restaurantID string) ([]MenuItem, error)
	Set(ctx context.Context, restaurantID string, items []MenuItem) error
	Delete(ctx context.Context, restaurantID string) error
}

type RedisMenuCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

func NewRedisMenuCache(client *redis.Client) *RedisMenuCache {
	return &RedisMenuCache{
		client:  client,
		baseTTL: 15 * time.Minute,
	}
}

func (r *RedisMenuCache) Get(ctx context.Context, restaurantID string) ([]MenuItem, error) {
	data, err := r.client.Get(ctx, menuKey(restaurantID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var items []MenuItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("unmarshal menu failed: %w", err)
	}
	return items, nil
}

func (r *RedisMenuCache) Set(ctx context.Context, restaurantID string, items []MenuItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal menu failed: %w", err)
	}

	// Jitter spreads expirations so hot menus don't all refill at once.
	ttl := r.baseTTL + time.Duration(rand.Intn(5))*time.Minute
	if err := r.client.Set(ctx, menuKey(restaurantID), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisMenuCache) Delete(ctx context.Context, restaurantID string) error {
	if err := r.client.Del(ctx, menuKey(restaurantID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func menuKey(restaurantID string) string {
	return fmt.Sprintf("menu:%s", restaurantID)
}
