package repository

import (
	"context"
	"sync"

	appErrors "github.com/noah-isme/sma-board-api/pkg/errors"
)

// BlobStore is the durable key-value medium the board is persisted in. Put must
// replace the whole value in one operation so readers never see a partial write.
// Get returns appErrors.ErrKeyNotFound when nothing is stored under the key.
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}

// MemoryBlobStore keeps blobs in process memory. It backs the "memory" storage
// driver and is the in-memory stand-in used by tests.
type MemoryBlobStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemoryBlobStore constructs an empty in-memory store.
func NewMemoryBlobStore() *MemoryBlobStore {
	return &MemoryBlobStore{blobs: make(map[string][]byte)}
}

// Get returns a copy of the stored value.
func (s *MemoryBlobStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.blobs[key]
	if !ok {
		return nil, appErrors.ErrKeyNotFound
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

// Put stores a copy of value under key.
func (s *MemoryBlobStore) Put(_ context.Context, key string, value []byte) error {
	stored := make([]byte, len(value))
	copy(stored, value)
	s.mu.Lock()
	s.blobs[key] = stored
	s.mu.Unlock()
	return nil
}
