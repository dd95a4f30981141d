// Package redis is a storage.Storage backed by a Redis server.
package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/linkvault/internal/storage"
)

// KeyPrefix namespaces every key written by the store.
const KeyPrefix = "linkvault:"

// Store handles Redis operations for the vault keys.
type Store struct {
	client *redis.Client
	prefix string
}

var _ storage.Storage = (*Store)(nil)

// NewStore wraps an already connected client.
// Close closes the client.
func NewStore(client *redis.Client) *Store {
	return &Store{client: client, prefix: KeyPrefix}
}

// Key returns the Redis key for a storage key.
func (s *Store) Key(key string) string {
	return s.prefix + key
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	v, err := s.client.Get(ctx, s.Key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", storage.ErrNotFound
		}
		return "", fmt.Errorf("redis: get %s: %w", key, err)
	}
	return v, nil
}

// Set uses a single SET, which Redis applies atomically. No TTL: the vault
// keeps data until it is explicitly removed.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.Key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis: set %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.Key(key)).Err(); err != nil {
		return fmt.Errorf("redis: delete %s: %w", key, err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.client.Close()
}
