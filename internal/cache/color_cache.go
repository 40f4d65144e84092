package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const colorMapKey = "stadium:contractor-colors"

// ColorCache keeps the occupant label -> hex color map in redis.
type ColorCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewColorCache connects using a redis:// URL.
func NewColorCache(url string, ttl time.Duration) (*ColorCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return NewColorCacheWithClient(redis.NewClient(opts), ttl), nil
}

func NewColorCacheWithClient(client *redis.Client, ttl time.Duration) *ColorCache {
	return &ColorCache{client: client, ttl: ttl}
}

func (c *ColorCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Get returns nil, nil on a cache miss.
func (c *ColorCache) Get(ctx context.Context) (map[string]string, error) {
	val, err := c.client.Get(ctx, colorMapKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var m map[string]string
	if err := json.Unmarshal([]byte(val), &m); err != nil {
		return nil, err
	}
	return m, nil
}

func (c *ColorCache) Set(ctx context.Context, m map[string]string) error {
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, colorMapKey, data, c.ttl).Err()
}

func (c *ColorCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, colorMapKey).Err()
}

func (c *ColorCache) Close() error {
	return c.client.Close()
}
