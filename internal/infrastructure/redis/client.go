package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ClientConfig configures the Redis client.
type ClientConfig struct {
	URL         string
	DialTimeout time.Duration
	PoolSize    int
}

// NewClient creates a new Redis client from a URL.
func NewClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	return NewClientWithConfig(ctx, ClientConfig{URL: redisURL})
}

// NewClientWithConfig creates a Redis client and verifies the connection.
func NewClientWithConfig(ctx context.Context, cfg ClientConfig) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	if cfg.DialTimeout > 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}

	client := redis.NewClient(opts)

	// Verify connection
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}
