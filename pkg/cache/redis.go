package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisCache struct {
	client *redis.Client
	config RedisConfig
}

// NewRedisCache creates a redis backed cache and verifies the connection.
func NewRedisCache(config RedisConfig) (Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         config.Addr,
		Password:     config.Password,
		DB:           config.DB,
		PoolSize:     config.PoolSize,
		DialTimeout:  config.DialTimeout,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &redisCache{client: client, config: config}, nil
}

func (rc *redisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	result, err := rc.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return result, true
}

func (rc *redisCache) Set(ctx context.Context, key string, value []byte, expiration time.Duration) error {
	return rc.client.Set(ctx, key, value, expiration).Err()
}

func (rc *redisCache) Delete(ctx context.Context, key string) error {
	return rc.client.Del(ctx, key).Err()
}

func (rc *redisCache) Exists(ctx context.Context, key string) bool {
	return rc.client.Exists(ctx, key).Val() > 0
}

func (rc *redisCache) Clear(ctx context.Context) error {
	return rc.client.FlushDB(ctx).Err()
}

func (rc *redisCache) Close() error {
	return rc.client.Close()
}
