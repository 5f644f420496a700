package directory

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisNegativeCache shares negative lookups across instances.
type RedisNegativeCache struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisNegativeCache(client redis.UniversalClient, prefix string) *RedisNegativeCache {
	if prefix == "" {
		prefix = "cardpark:negcache"
	}
	return &RedisNegativeCache{client: client, prefix: prefix}
}

func (c *RedisNegativeCache) Contains(ctx context.Context, code string) (bool, error) {
	_, err := c.client.Get(ctx, c.key(code)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (c *RedisNegativeCache) Add(ctx context.Context, code string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return c.client.Set(ctx, c.key(code), "1", ttl).Err()
}

func (c *RedisNegativeCache) Remove(ctx context.Context, code string) error {
	return c.client.Del(ctx, c.key(code)).Err()
}

func (c *RedisNegativeCache) key(code string) string {
	return c.prefix + ":" + code
}
