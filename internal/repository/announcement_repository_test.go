package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-board-api/internal/models"
)

type failingBlobStore struct {
	*MemoryBlobStore
	getErr error
	putErr error
	puts   int
}

func (s *failingBlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.MemoryBlobStore.Get(ctx, key)
}

func (s *failingBlobStore) Put(ctx context.Context, key string, value []byte) error {
	s.puts++
	if s.putErr != nil {
		return s.putErr
	}
	return s.MemoryBlobStore.Put(ctx, key, value)
}

func sampleAnnouncement(id string) models.Announcement {
	created := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	return models.Announcement{
		ID:              id,
		Category:        models.CategoryAssessment,
		OriginalTitle:   "시험 안내 " + id,
		OriginalContent: "내일 수학 시험이 있습니다",
		Translations: []models.Translation{
			{LanguageCode: models.LanguageEnglish, Title: "Exam notice " + id, Content: "Math exam tomorrow"},
			{LanguageCode: models.LanguageJapanese, Title: "試験のお知らせ " + id, Content: "明日数学の試験があります"},
		},
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func idsOf(items []models.Announcement) []string {
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	return ids
}

func TestAnnouncementRepositoryUpsertInsertsAtFront(t *testing.T) {
	ctx := context.Background()
	repo := NewAnnouncementRepository(NewMemoryBlobStore(), "", nil)
	repo.Load(ctx)

	require.NoError(t, repo.Upsert(ctx, sampleAnnouncement("A")))
	require.NoError(t, repo.Upsert(ctx, sampleAnnouncement("B")))
	require.NoError(t, repo.Upsert(ctx, sampleAnnouncement("C")))

	assert.Equal(t, []string{"C", "B", "A"}, idsOf(repo.List(ctx)))
}

func TestAnnouncementRepositoryUpsertReplacesInPlace(t *testing.T) {
	ctx := context.Background()
	repo := NewAnnouncementRepository(NewMemoryBlobStore(), "", nil)
	for _, id := range []string{"A", "B", "C"} {
		require.NoError(t, repo.Upsert(ctx, sampleAnnouncement(id)))
	}

	edited := sampleAnnouncement("B")
	edited.OriginalTitle = "수정된 제목"
	require.NoError(t, repo.Upsert(ctx, edited))

	items := repo.List(ctx)
	assert.Equal(t, []string{"C", "B", "A"}, idsOf(items))
	assert.Equal(t, "수정된 제목", items[1].OriginalTitle)
	assert.Equal(t, 3, repo.Count())
}

func TestAnnouncementRepositoryRemoveKeepsRelativeOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewAnnouncementRepository(NewMemoryBlobStore(), "", nil)
	for _, id := range []string{"C", "B", "A"} {
		require.NoError(t, repo.Upsert(ctx, sampleAnnouncement(id)))
	}
	require.Equal(t, []string{"A", "B", "C"}, idsOf(repo.List(ctx)))

	require.NoError(t, repo.Remove(ctx, "B"))
	assert.Equal(t, []string{"A", "C"}, idsOf(repo.List(ctx)))
}

func TestAnnouncementRepositoryRemoveUnknownIsNoop(t *testing.T) {
	ctx := context.Background()
	blobs := &failingBlobStore{MemoryBlobStore: NewMemoryBlobStore()}
	repo := NewAnnouncementRepository(blobs, "", nil)
	require.NoError(t, repo.Upsert(ctx, sampleAnnouncement("A")))
	writes := blobs.puts

	require.NoError(t, repo.Remove(ctx, "missing"))
	assert.Equal(t, writes, blobs.puts)
	assert.Equal(t, []string{"A"}, idsOf(repo.List(ctx)))
}

func TestAnnouncementRepositoryRoundTripAcrossSessions(t *testing.T) {
	ctx := context.Background()
	blobs := NewMemoryBlobStore()
	first := NewAnnouncementRepository(blobs, "gb_announcements", nil)
	first.Load(ctx)
	stored := sampleAnnouncement("X")
	require.NoError(t, first.Upsert(ctx, stored))

	second := NewAnnouncementRepository(blobs, "gb_announcements", nil)
	require.Equal(t, LoadOutcomeLoaded, second.Load(ctx))

	loaded, err := second.Get(ctx, "X")
	require.NoError(t, err)
	assert.Equal(t, stored.ID, loaded.ID)
	assert.Equal(t, stored.OriginalTitle, loaded.OriginalTitle)
	assert.Equal(t, stored.OriginalContent, loaded.OriginalContent)
	assert.Equal(t, stored.Category, loaded.Category)
	assert.Equal(t, stored.Translations, loaded.Translations)
	assert.True(t, stored.CreatedAt.Equal(loaded.CreatedAt))
}

func TestAnnouncementRepositoryLoadCorruptBlob(t *testing.T) {
	ctx := context.Background()
	blobs := NewMemoryBlobStore()
	require.NoError(t, blobs.Put(ctx, "gb_announcements", []byte("{not json")))

	repo := NewAnnouncementRepository(blobs, "gb_announcements", nil)
	outcome := repo.Load(ctx)

	assert.Equal(t, LoadOutcomeCorrupt, outcome)
	assert.Empty(t, repo.List(ctx))
}

func TestAnnouncementRepositoryLoadOutcomes(t *testing.T) {
	ctx := context.Background()

	empty := NewAnnouncementRepository(NewMemoryBlobStore(), "", nil)
	assert.Equal(t, LoadOutcomeEmpty, empty.Load(ctx))

	unavailable := NewAnnouncementRepository(&failingBlobStore{MemoryBlobStore: NewMemoryBlobStore(), getErr: errors.New("connection refused")}, "", nil)
	assert.Equal(t, LoadOutcomeUnavailable, unavailable.Load(ctx))
	assert.Empty(t, unavailable.List(ctx))
}

func TestAnnouncementRepositoryLoadDropsDuplicateIDs(t *testing.T) {
	ctx := context.Background()
	blobs := NewMemoryBlobStore()
	require.NoError(t, blobs.Put(ctx, "gb_announcements", []byte(`[{"id":"A","original_title":"first"},{"id":"A","original_title":"second"},{"id":""}]`)))

	repo := NewAnnouncementRepository(blobs, "gb_announcements", nil)
	repo.Load(ctx)

	items := repo.List(ctx)
	require.Len(t, items, 1)
	assert.Equal(t, "first", items[0].OriginalTitle)
}

func TestAnnouncementRepositoryPersistFailureKeepsState(t *testing.T) {
	ctx := context.Background()
	blobs := &failingBlobStore{MemoryBlobStore: NewMemoryBlobStore()}
	repo := NewAnnouncementRepository(blobs, "", nil)
	original := sampleAnnouncement("A")
	require.NoError(t, repo.Upsert(ctx, original))

	blobs.putErr = errors.New("disk full")
	edited := sampleAnnouncement("A")
	edited.OriginalTitle = "changed"
	require.Error(t, repo.Upsert(ctx, edited))
	require.Error(t, repo.Remove(ctx, "A"))
	require.Error(t, repo.Upsert(ctx, sampleAnnouncement("B")))

	items := repo.List(ctx)
	require.Len(t, items, 1)
	assert.Equal(t, original.OriginalTitle, items[0].OriginalTitle)
}

func TestAnnouncementRepositoryListReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewAnnouncementRepository(NewMemoryBlobStore(), "", nil)
	require.NoError(t, repo.Upsert(ctx, sampleAnnouncement("A")))

	items := repo.List(ctx)
	items[0].Translations[0].Title = "mutated"

	fresh, err := repo.Get(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, "Exam notice A", fresh.Translations[0].Title)
}

func TestAnnouncementRepositoryGetMissing(t *testing.T) {
	repo := NewAnnouncementRepository(NewMemoryBlobStore(), "", nil)
	_, err := repo.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrAnnouncementNotFound)
}

func TestAnnouncementRepositoryRemoveLastPersistsEmptyArray(t *testing.T) {
	ctx := context.Background()
	blobs := NewMemoryBlobStore()
	repo := NewAnnouncementRepository(blobs, "gb_announcements", nil)
	require.NoError(t, repo.Upsert(ctx, sampleAnnouncement("A")))
	require.NoError(t, repo.Remove(ctx, "A"))

	raw, err := blobs.Get(ctx, "gb_announcements")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
}

func TestAnnouncementRepositoryFailedReloadKeepsCollection(t *testing.T) {
	ctx := context.Background()
	blobs := &failingBlobStore{MemoryBlobStore: NewMemoryBlobStore()}
	repo := NewAnnouncementRepository(blobs, "", nil)
	require.Equal(t, LoadOutcomeEmpty, repo.Load(ctx))
	for _, id := range []string{"A", "B", "C"} {
		require.NoError(t, repo.Upsert(ctx, sampleAnnouncement(id)))
	}

	blobs.getErr = errors.New("connection reset")
	assert.Equal(t, LoadOutcomeUnavailable, repo.Load(ctx))
	assert.Equal(t, 3, repo.Count())
	blobs.getErr = nil

	require.NoError(t, repo.Upsert(ctx, sampleAnnouncement("D")))

	fresh := NewAnnouncementRepository(blobs.MemoryBlobStore, "", nil)
	require.Equal(t, LoadOutcomeLoaded, fresh.Load(ctx))
	assert.Equal(t, []string{"D", "C", "B", "A"}, idsOf(fresh.List(ctx)))
}

func TestAnnouncementRepositoryCorruptReloadKeepsCollection(t *testing.T) {
	ctx := context.Background()
	blobs := NewMemoryBlobStore()
	repo := NewAnnouncementRepository(blobs, "gb_announcements", nil)
	require.NoError(t, repo.Upsert(ctx, sampleAnnouncement("A")))

	require.NoError(t, blobs.Put(ctx, "gb_announcements", []byte("{not json")))
	assert.Equal(t, LoadOutcomeCorrupt, repo.Load(ctx))
	assert.Equal(t, []string{"A"}, idsOf(repo.List(ctx)))
}
