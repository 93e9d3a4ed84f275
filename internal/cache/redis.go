package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisClient implementa Client usando Redis.
type redisClient struct {
	client *redis.Client
	prefix string
}

// NewRedis crea un cliente de cache Redis y verifica la conexión.
func NewRedis(ctx context.Context, cfg Config) (Client, error) {
	addr := cfg.Addr
	if addr == "" {
		addr = "localhost:6379"
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("cache: redis ping %s: %w", addr, err)
	}

	return &redisClient{client: rdb, prefix: cfg.Prefix}, nil
}

func (c *redisClient) Get(ctx context.Context, key string) (string, error) {
	val, err := c.client.Get(ctx, prefixed(c.prefix, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("cache: redis get: %w", err)
	}
	return val, nil
}

func (c *redisClient) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	if err := c.client.Set(ctx, prefixed(c.prefix, key), value, ttl).Err(); err != nil {
		return fmt.Errorf("cache: redis set: %w", err)
	}
	return nil
}

func (c *redisClient) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, prefixed(c.prefix, key)).Err(); err != nil {
		return fmt.Errorf("cache: redis del: %w", err)
	}
	return nil
}

func (c *redisClient) Exists(ctx context.Context, key string) (bool, error) {
	n, err := c.client.Exists(ctx, prefixed(c.prefix, key)).Result()
	if err != nil {
		return false, fmt.Errorf("cache: redis exists: %w", err)
	}
	return n > 0, nil
}

func (c *redisClient) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *redisClient) Close() error {
	return c.client.Close()
}
