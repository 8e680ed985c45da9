package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis key prefixes.
const (
	kvKeyPrefix      = "kv:"
	attemptKeyPrefix = "authattempt:"
)

// Client wraps a Redis connection and hands out per-user Store views.
type Client struct {
	client *redis.Client
}

// New creates a new Client from a Redis URL.
func New(ctx context.Context, redisURL string) (*Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	// Connection pool settings
	opt.PoolSize = 10
	opt.MinIdleConns = 2
	opt.PoolTimeout = 4 * time.Second
	opt.ConnMaxIdleTime = 5 * time.Minute

	client := redis.NewClient(opt)

	// Verify connection
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return &Client{client: client}, nil
}

// Ping checks Redis connectivity.
func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis client.
func (c *Client) Close() error {
	return c.client.Close()
}

// ForUser returns a Store scoped to one user. Keys are namespaced as
// kv:{userID}:{key} so one user's blobs can never shadow another's.
func (c *Client) ForUser(userID string) Store {
	return &userStore{client: c.client, prefix: kvKeyPrefix + userID + ":"}
}

// IncrAuthAttempt bumps the fixed-window auth attempt counter for a client
// and returns the new count. The window TTL is set on first increment.
func (c *Client) IncrAuthAttempt(ctx context.Context, clientKey string, window time.Duration) (int64, error) {
	key := attemptKeyPrefix + clientKey

	pipe := c.client.Pipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to count auth attempt: %w", err)
	}

	return incr.Val(), nil
}

// userStore implements Store over a namespaced slice of the Redis keyspace.
type userStore struct {
	client *redis.Client
	prefix string
}

func (s *userStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	return data, nil
}

func (s *userStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (s *userStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	full := make([]string, len(keys))
	for i, key := range keys {
		full[i] = s.prefix + key
	}

	if err := s.client.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("redis del failed: %w", err)
	}
	return nil
}
