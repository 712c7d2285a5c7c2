package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	pkgredis "github.com/bodegonapp/storefront-backend/pkg/redis"
)

type redisCommands interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	CartKey(bucket string) string
}

// RedisStore persists cart buckets as JSON strings under namespaced keys with
// a sliding TTL.
type RedisStore struct {
	client redisCommands
	ttl    time.Duration
}

// NewRedisStore builds the Redis-backed cart store.
func NewRedisStore(client redisCommands, ttl time.Duration) (*RedisStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	return &RedisStore{client: client, ttl: ttl}, nil
}

// Load implements Store. A missing key is an empty bucket.
func (s *RedisStore) Load(ctx context.Context, key Key) ([]Line, error) {
	raw, err := s.client.Get(ctx, s.client.CartKey(key.Bucket()))
	if err != nil {
		if errors.Is(err, pkgredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("loading cart %q: %w", key, err)
	}
	var lines []Line
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		return nil, fmt.Errorf("decoding cart %q: %w", key, err)
	}
	return lines, nil
}

// Save implements Store and refreshes the bucket TTL.
func (s *RedisStore) Save(ctx context.Context, key Key, lines []Line) error {
	payload, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("encoding cart %q: %w", key, err)
	}
	if err := s.client.Set(ctx, s.client.CartKey(key.Bucket()), string(payload), s.ttl); err != nil {
		return fmt.Errorf("saving cart %q: %w", key, err)
	}
	return nil
}

// Erase implements Store.
func (s *RedisStore) Erase(ctx context.Context, key Key) error {
	if err := s.client.Del(ctx, s.client.CartKey(key.Bucket())); err != nil {
		return fmt.Errorf("erasing cart %q: %w", key, err)
	}
	return nil
}
