// internal/indicators/cache.go
package indicators

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "indicators:country:"

// Cache holds per-country indicator lists as JSON.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func cacheKey(country string) string {
	return cacheKeyPrefix + country
}

func (c *Cache) Get(ctx context.Context, country string) ([]Indicator, error) {
	data, err := c.client.Get(ctx, cacheKey(country)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("cache get %s: %w", country, err)
	}
	var out []Indicator
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("cache decode %s: %w", country, err)
	}
	return out, nil
}

func (c *Cache) Set(ctx context.Context, country string, inds []Indicator) error {
	data, err := json.Marshal(inds)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", country, err)
	}
	if err := c.client.Set(ctx, cacheKey(country), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", country, err)
	}
	return nil
}

func (c *Cache) Invalidate(ctx context.Context, country string) error {
	if err := c.client.Del(ctx, cacheKey(country)).Err(); err != nil {
		return fmt.Errorf("cache invalidate %s: %w", country, err)
	}
	return nil
}
