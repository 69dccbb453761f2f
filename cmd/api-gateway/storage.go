package main

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-board-api/internal/handler"
	"github.com/noah-isme/sma-board-api/internal/repository"
	"github.com/noah-isme/sma-board-api/pkg/cache"
	"github.com/noah-isme/sma-board-api/pkg/config"
	"github.com/noah-isme/sma-board-api/pkg/database"
	appErrors "github.com/noah-isme/sma-board-api/pkg/errors"
	"github.com/noah-isme/sma-board-api/pkg/storage"
)

// openBlobStore connects the configured storage driver. The returned func
// releases its connections.
func openBlobStore(ctx context.Context, cfg *config.Config, logr *zap.Logger) (repository.BlobStore, func(), error) {
	noop := func() {}
	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		logr.Warn("memory storage selected, announcements are lost on restart")
		return repository.NewMemoryBlobStore(), noop, nil
	case config.StorageDriverFile, "":
		local, err := storage.NewLocalStorage(cfg.Storage.FileDir)
		if err != nil {
			return nil, noop, err
		}
		return local, noop, nil
	case config.StorageDriverRedis:
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, noop, err
		}
		store := repository.NewRedisBlobStore(client, "")
		return store, func() {
			if err := store.Close(); err != nil {
				logr.Warn("close redis", zap.Error(err))
			}
		}, nil
	case config.StorageDriverPostgres:
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, noop, err
		}
		store, err := repository.NewPostgresBlobStore(db, cfg.Database.Table)
		if err != nil {
			_ = db.Close()
			return nil, noop, err
		}
		if err := store.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, noop, err
		}
		return store, func() {
			if err := db.Close(); err != nil {
				logr.Warn("close postgres", zap.Error(err))
			}
		}, nil
	default:
		return nil, noop, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// storageProbe reads the preference key to confirm the backend answers.
func storageProbe(blobs repository.BlobStore, key string) handler.ReadinessCheck {
	return func(ctx context.Context) error {
		if _, err := blobs.Get(ctx, key); err != nil && !errors.Is(err, appErrors.ErrKeyNotFound) {
			return err
		}
		return nil
	}
}
