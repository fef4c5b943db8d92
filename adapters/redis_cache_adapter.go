package adapters

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisCacheAdapter stores values in Redis under a key prefix. It suits
// server-side deployments where several processes act for the same client.
type RedisCacheAdapter struct {
	client redis.UniversalClient
	prefix string
}

var _ CacheAdapter = (*RedisCacheAdapter)(nil)

// NewRedisCacheAdapter wraps client. Keys are stored as prefix+key.
func NewRedisCacheAdapter(client redis.UniversalClient, prefix string) *RedisCacheAdapter {
	return &RedisCacheAdapter{client: client, prefix: prefix}
}

func (r *RedisCacheAdapter) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := r.client.Get(ctx, r.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %q: %w", key, err)
	}
	return value, true, nil
}

func (r *RedisCacheAdapter) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, r.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}
