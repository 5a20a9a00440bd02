package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"livestream-backend/domain/repository"
	"livestream-backend/infrastructure/logger"
)

// RedisCache implements repository.ICache on go-redis.
type RedisCache struct {
	client *redis.Client
}

// NewCache connects to Redis and verifies the connection. Callers treat a
// nil cache as "no caching"; a connect failure is reported, not fatal.
func NewCache(ctx context.Context, addr, username, password string) (repository.ICache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Username: username,
		Password: password,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		logger.GetLogger().WithField("error", err).Warn("redis: ping failed")
		return nil, err
	}
	return &RedisCache{client: client}, nil
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	return c.client.Get(ctx, key).Bytes()
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}
