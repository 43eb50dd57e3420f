package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const generationKey = "blogicum:listing:gen"

// Redis shares listing entries between server instances. Keys embed a
// generation counter; Invalidate bumps it so stale keys simply expire.
type Redis struct {
	client *redis.Client
	log    *zap.Logger
}

func NewRedis(ctx context.Context, opts *redis.Options, log *zap.Logger) (*Redis, error) {
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis %s: %w", opts.Addr, err)
	}
	return &Redis{client: client, log: log}, nil
}

func (c *Redis) key(ctx context.Context, key string) (string, error) {
	gen, err := c.client.Get(ctx, generationKey).Int64()
	if err != nil && err != redis.Nil {
		return "", err
	}
	return fmt.Sprintf("blogicum:listing:%d:%s", gen, key), nil
}

func (c *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	k, err := c.key(ctx, key)
	if err != nil {
		c.log.Warn("redis generation lookup failed", zap.Error(err))
		return nil, false
	}
	data, err := c.client.Get(ctx, k).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("redis get failed", zap.String("key", k), zap.Error(err))
		}
		return nil, false
	}
	return data, true
}

func (c *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	k, err := c.key(ctx, key)
	if err != nil {
		c.log.Warn("redis generation lookup failed", zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, k, value, ttl).Err(); err != nil {
		c.log.Warn("redis set failed", zap.String("key", k), zap.Error(err))
	}
}

func (c *Redis) Invalidate(ctx context.Context) {
	if err := c.client.Incr(ctx, generationKey).Err(); err != nil {
		c.log.Warn("redis invalidate failed", zap.Error(err))
	}
}

func (c *Redis) Close() error {
	return c.client.Close()
}
