package storage

import (
	"context"
	"errors"
	"time"

	"github.com/ghain/storefront-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// RedisBackend stores slots as plain Redis strings. A non-zero ttl is
// refreshed on every write so idle visitors eventually lose their slots.
type RedisBackend struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisBackend(client *redis.Client, ttl time.Duration) *RedisBackend {
	return &RedisBackend{client: client, ttl: ttl}
}

func (b *RedisBackend) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := b.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		logger.Error("Failed to read storage slot from Redis", err, map[string]interface{}{
			"key": key,
		})
		return "", false, err
	}
	return val, true, nil
}

func (b *RedisBackend) Set(ctx context.Context, key, value string) error {
	if err := b.client.Set(ctx, key, value, b.ttl).Err(); err != nil {
		logger.Error("Failed to write storage slot to Redis", err, map[string]interface{}{
			"key": key,
		})
		return err
	}
	return nil
}

func (b *RedisBackend) Delete(ctx context.Context, key string) error {
	if err := b.client.Del(ctx, key).Err(); err != nil {
		logger.Error("Failed to delete storage slot from Redis", err, map[string]interface{}{
			"key": key,
		})
		return err
	}
	return nil
}
