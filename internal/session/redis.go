package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps sessions as expiring Redis keys.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore constructs a RedisStore.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: strings.TrimSpace(prefix)}
}

func (s *RedisStore) key(id string) string {
	if s.prefix == "" {
		return id
	}
	return s.prefix + ":" + id
}

// Get loads a session; Redis expiry handles staleness.
func (s *RedisStore) Get(ctx context.Context, id string) (Data, error) {
	if id == "" {
		return Data{}, ErrNotFound
	}
	raw, errGet := s.client.Get(ctx, s.key(id)).Bytes()
	if errGet != nil {
		if errors.Is(errGet, redis.Nil) {
			return Data{}, ErrNotFound
		}
		return Data{}, fmt.Errorf("session: redis get: %w", errGet)
	}
	var data Data
	if errUnmarshal := json.Unmarshal(raw, &data); errUnmarshal != nil {
		return Data{}, fmt.Errorf("session: decode: %w", errUnmarshal)
	}
	return data, nil
}

// Set stores the session with ttl.
func (s *RedisStore) Set(ctx context.Context, id string, data Data, ttl time.Duration) error {
	payload, errMarshal := json.Marshal(data)
	if errMarshal != nil {
		return fmt.Errorf("session: encode: %w", errMarshal)
	}
	if errSet := s.client.Set(ctx, s.key(id), payload, ttl).Err(); errSet != nil {
		return fmt.Errorf("session: redis set: %w", errSet)
	}
	return nil
}

// Destroy removes the session key.
func (s *RedisStore) Destroy(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if errDel := s.client.Del(ctx, s.key(id)).Err(); errDel != nil {
		return fmt.Errorf("session: redis del: %w", errDel)
	}
	return nil
}

// Close releases the Redis client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
