package geo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const cityKeyPrefix = "geo:city:"

// CityCache stores resolved cities by coordinates.
type CityCache interface {
	Get(ctx context.Context, lat, lng float64) (string, bool, error)
	Set(ctx context.Context, lat, lng float64, city string) error
}

// RedisCityCache implements CityCache on Redis with a fixed TTL.
type RedisCityCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCityCache creates a new Redis-backed city cache.
func NewRedisCityCache(client *redis.Client, ttl time.Duration) *RedisCityCache {
	return &RedisCityCache{client: client, ttl: ttl}
}

// cityKey rounds coordinates to 4 decimals (about 11m).
func cityKey(lat, lng float64) string {
	return fmt.Sprintf("%s%.4f,%.4f", cityKeyPrefix, lat, lng)
}

func (c *RedisCityCache) Get(ctx context.Context, lat, lng float64) (string, bool, error) {
	city, err := c.client.Get(ctx, cityKey(lat, lng)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read city cache: %w", err)
	}
	return city, true, nil
}

func (c *RedisCityCache) Set(ctx context.Context, lat, lng float64, city string) error {
	if err := c.client.Set(ctx, cityKey(lat, lng), city, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write city cache: %w", err)
	}
	return nil
}
