package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ChartKeyPrefix namespaces rendered chart entries.
const ChartKeyPrefix = "shotchart"

// RedisCache handles caching of rendered charts
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a new Redis cache connection
func NewRedisCache(redisURL string) (*RedisCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return &RedisCache{client: client}, nil
}

// NewFromClient wraps an existing client
func NewFromClient(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// Close closes the Redis connection
func (rc *RedisCache) Close() error {
	return rc.client.Close()
}

// Client returns the underlying Redis client
func (rc *RedisCache) Client() *redis.Client {
	return rc.client
}

// HealthCheck pings Redis to verify connection
func (rc *RedisCache) HealthCheck(ctx context.Context) error {
	return rc.client.Ping(ctx).Err()
}

// ChartKey builds the cache key of a rendered chart.
func ChartKey(playerID int, season, optionsHash string) string {
	return fmt.Sprintf("%s:%d:%s:%s", ChartKeyPrefix, playerID, season, optionsHash)
}

// GetBytes returns the cached value and whether it was present.
func (rc *RedisCache) GetBytes(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := rc.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

// SetBytes stores value with TTL. A zero TTL never expires.
func (rc *RedisCache) SetBytes(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return rc.client.Set(ctx, key, value, ttl).Err()
}

// Delete removes keys
func (rc *RedisCache) Delete(ctx context.Context, keys ...string) error {
	return rc.client.Del(ctx, keys...).Err()
}

// InvalidateCharts drops every cached chart of a player-season and returns
// how many entries were removed.
func (rc *RedisCache) InvalidateCharts(ctx context.Context, playerID int, season string) (int, error) {
	pattern := fmt.Sprintf("%s:%d:%s:*", ChartKeyPrefix, playerID, season)
	var removed int
	iter := rc.client.Scan(ctx, 0, pattern, 100).Iterator()
	var batch []string
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == 100 {
			n, err := rc.client.Del(ctx, batch...).Result()
			if err != nil {
				return removed, err
			}
			removed += int(n)
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return removed, err
	}
	if len(batch) > 0 {
		n, err := rc.client.Del(ctx, batch...).Result()
		if err != nil {
			return removed, err
		}
		removed += int(n)
	}
	return removed, nil
}
