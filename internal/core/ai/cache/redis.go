package cache

import (
	"context"
	"fmt"

	"fridge-chef/internal/infrastructure/config"
	"fridge-chef/internal/pkg/common"

	"github.com/go-redis/redis/v8"
)

// RedisCache is the Redis-backed cache backend, for deployments where model
// responses should survive restarts or be shared across instances.
type RedisCache struct {
	client *redis.Client
	config *config.CacheConfig
}

// NewRedisCache creates the Redis cache backend.
func NewRedisCache(cfg *config.Config) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.Cache.RedisAddr,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisCache{
		client: client,
		config: &cfg.Cache,
	}, nil
}

// Get returns the cached value for a prompt + image pair.
func (s *RedisCache) Get(ctx context.Context, prompt, imageData string) (string, error) {
	key := "ai:response:" + cacheKey(prompt, imageData)

	value, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			common.LogCacheMiss("ai", key)
			return "", common.ErrCacheMiss
		}
		return "", fmt.Errorf("failed to get cache: %w", err)
	}

	common.LogCacheHit("ai", key)
	return value, nil
}

// Set stores a value for a prompt + image pair.
func (s *RedisCache) Set(ctx context.Context, prompt, imageData, value string) error {
	key := "ai:response:" + cacheKey(prompt, imageData)

	if err := s.client.Set(ctx, key, value, s.config.TTL).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}

	return nil
}

// Close closes the Redis connection.
func (s *RedisCache) Close() error {
	return s.client.Close()
}
