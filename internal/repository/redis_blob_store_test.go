package repository

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/sma-board-api/pkg/errors"
)

func TestRedisBlobStoreUnreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	store := NewRedisBlobStore(client, "board:")
	t.Cleanup(func() { _ = store.Close() })

	_, err := store.Get(context.Background(), "gb_announcements")
	require.Error(t, err)
	assert.NotErrorIs(t, err, appErrors.ErrKeyNotFound)
	assert.Contains(t, err.Error(), "redis get gb_announcements")

	err = store.Put(context.Background(), "gb_announcements", []byte("[]"))
	require.Error(t, err)

	repo := NewAnnouncementRepository(store, "gb_announcements", nil)
	assert.Equal(t, LoadOutcomeUnavailable, repo.Load(context.Background()))
	assert.Zero(t, repo.Count())
}
