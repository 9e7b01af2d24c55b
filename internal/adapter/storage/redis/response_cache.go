package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// ResponseCache implements ports.ResponseCache using Redis.
type ResponseCache struct {
	client *goredis.Client
	prefix string
}

// NewResponseCache creates a cache whose keys live under "cache:<namespace>:".
func NewResponseCache(client *goredis.Client, namespace string) *ResponseCache {
	return &ResponseCache{
		client: client,
		prefix: "cache:" + namespace + ":",
	}
}

// Get returns the cached value, or nil, nil on a miss.
func (c *ResponseCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis cache get: %w", err)
	}
	return val, nil
}

// Set stores value for ttl.
func (c *ResponseCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.prefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis cache set: %w", err)
	}
	return nil
}

// NoopCache never hits. Used when Redis is disabled.
type NoopCache struct{}

func (NoopCache) Get(context.Context, string) ([]byte, error) { return nil, nil }

func (NoopCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
