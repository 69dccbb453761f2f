package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	appErrors "github.com/noah-isme/sma-board-api/pkg/errors"
)

// RedisBlobStore persists board blobs as plain Redis string values.
type RedisBlobStore struct {
	client *redis.Client
	prefix string
}

// NewRedisBlobStore constructs a Redis-backed blob store. Keys are namespaced with prefix.
func NewRedisBlobStore(client *redis.Client, prefix string) *RedisBlobStore {
	return &RedisBlobStore{client: client, prefix: prefix}
}

// Get reads the value stored under key.
func (s *RedisBlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	raw, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, appErrors.ErrKeyNotFound
		}
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return raw, nil
}

// Put replaces the value with a single SET without expiry.
func (s *RedisBlobStore) Put(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Close releases the underlying Redis connection.
func (s *RedisBlobStore) Close() error {
	return s.client.Close()
}
