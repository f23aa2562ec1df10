package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	rediscli "github.com/angelmondragon/storefront-cart/pkg/redis"
)

// RedisClient is the subset of pkg/redis.Client the store needs.
type RedisClient interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Ping(ctx context.Context) error
	CartKey(name string) string
}

// Redis stores values under namespaced cart keys.
type Redis struct {
	client RedisClient
	ttl    time.Duration
}

// NewRedis wraps a redis client; ttl of zero keeps entries forever.
func NewRedis(client RedisClient, ttl time.Duration) (*Redis, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	return &Redis{client: client, ttl: ttl}, nil
}

func (r *Redis) Get(ctx context.Context, key string) (string, error) {
	v, err := r.client.Get(ctx, r.client.CartKey(key))
	if errors.Is(err, rediscli.ErrNil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, nil
}

func (r *Redis) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, r.client.CartKey(key), value, r.ttl); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx)
}
