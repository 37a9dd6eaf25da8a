package snapshots

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps snapshots in Redis as JSON values with a TTL.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps an existing Redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Get loads and decodes the snapshot under key.
func (s *RedisStore) Get(ctx context.Context, key string) (State, bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return State{}, false, nil
	}
	if err != nil {
		return State{}, false, fmt.Errorf("snapshot get %s: %w", key, err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return State{}, false, fmt.Errorf("snapshot decode %s: %w", key, err)
	}
	return state, true, nil
}

// Put encodes and stores the snapshot under key with the given TTL.
func (s *RedisStore) Put(ctx context.Context, key string, state State, ttl time.Duration) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("snapshot encode %s: %w", key, err)
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if err := s.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("snapshot put %s: %w", key, err)
	}
	return nil
}

// Delete removes the snapshot under key.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("snapshot delete %s: %w", key, err)
	}
	return nil
}

var _ Store = (*RedisStore)(nil)
