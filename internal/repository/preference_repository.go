package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-board-api/internal/models"
	appErrors "github.com/noah-isme/sma-board-api/pkg/errors"
)

// PreferenceRepository stores the preferred display language under its own key,
// independent of the announcement collection.
type PreferenceRepository struct {
	blobs  BlobStore
	key    string
	logger *zap.Logger
}

// NewPreferenceRepository constructs the repository.
func NewPreferenceRepository(blobs BlobStore, key string, logger *zap.Logger) *PreferenceRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	if key == "" {
		key = "gb_student_lang"
	}
	return &PreferenceRepository{blobs: blobs, key: key, logger: logger}
}

// GetLanguage returns the stored language code, or the source language when
// nothing usable is stored.
func (r *PreferenceRepository) GetLanguage(ctx context.Context) models.LanguageCode {
	raw, err := r.blobs.Get(ctx, r.key)
	if err != nil {
		if !errors.Is(err, appErrors.ErrKeyNotFound) {
			r.logger.Warn("read language preference failed", zap.String("key", r.key), zap.Error(err))
		}
		return models.SourceLanguage
	}
	code, ok := models.ParseLanguageCode(strings.Trim(string(raw), "\" \n"))
	if !ok {
		r.logger.Warn("ignoring unparsable language preference", zap.String("key", r.key))
		return models.SourceLanguage
	}
	return code
}

// SetLanguage persists the language code as a bare string.
func (r *PreferenceRepository) SetLanguage(ctx context.Context, code models.LanguageCode) error {
	if err := r.blobs.Put(ctx, r.key, []byte(code)); err != nil {
		return fmt.Errorf("store language preference: %w", err)
	}
	return nil
}
