package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-board-api/internal/models"
)

func TestPreferenceRepositoryDefaultsToSource(t *testing.T) {
	repo := NewPreferenceRepository(NewMemoryBlobStore(), "", nil)
	assert.Equal(t, models.SourceLanguage, repo.GetLanguage(context.Background()))
}

func TestPreferenceRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	blobs := NewMemoryBlobStore()
	repo := NewPreferenceRepository(blobs, "gb_student_lang", nil)
	require.NoError(t, repo.SetLanguage(ctx, models.LanguageVietnamese))

	raw, err := blobs.Get(ctx, "gb_student_lang")
	require.NoError(t, err)
	assert.Equal(t, "VI", string(raw))
	assert.Equal(t, models.LanguageVietnamese, NewPreferenceRepository(blobs, "gb_student_lang", nil).GetLanguage(ctx))
}

func TestPreferenceRepositoryIgnoresGarbage(t *testing.T) {
	ctx := context.Background()
	blobs := NewMemoryBlobStore()
	require.NoError(t, blobs.Put(ctx, "gb_student_lang", []byte("klingon")))
	repo := NewPreferenceRepository(blobs, "gb_student_lang", nil)
	assert.Equal(t, models.SourceLanguage, repo.GetLanguage(ctx))
}

func TestPreferenceRepositoryAcceptsQuotedValue(t *testing.T) {
	ctx := context.Background()
	blobs := NewMemoryBlobStore()
	require.NoError(t, blobs.Put(ctx, "gb_student_lang", []byte(`"FR"`)))
	assert.Equal(t, models.LanguageFrench, NewPreferenceRepository(blobs, "gb_student_lang", nil).GetLanguage(ctx))
}

func TestPreferenceRepositoryStorageErrorFallsBack(t *testing.T) {
	blobs := &failingBlobStore{MemoryBlobStore: NewMemoryBlobStore(), getErr: errors.New("timeout")}
	repo := NewPreferenceRepository(blobs, "", nil)
	assert.Equal(t, models.SourceLanguage, repo.GetLanguage(context.Background()))
}
