package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-board-api/internal/models"
	appErrors "github.com/noah-isme/sma-board-api/pkg/errors"
)

// LoadOutcome describes what Load found in durable storage.
type LoadOutcome string

const (
	LoadOutcomeLoaded      LoadOutcome = "loaded"
	LoadOutcomeEmpty       LoadOutcome = "empty"
	LoadOutcomeCorrupt     LoadOutcome = "corrupt"
	LoadOutcomeUnavailable LoadOutcome = "unavailable"
)

// ErrAnnouncementNotFound is returned by Get for unknown identifiers.
var ErrAnnouncementNotFound = errors.New("announcement not found")

// AnnouncementRepository owns the canonical announcement collection. The whole
// collection is persisted as one JSON blob after every mutation, and the
// in-memory view only changes once that write has succeeded.
type AnnouncementRepository struct {
	blobs  BlobStore
	key    string
	logger *zap.Logger

	mu     sync.RWMutex
	items  []models.Announcement
	loaded bool
}

// NewAnnouncementRepository creates the repository. Call Load before serving reads.
func NewAnnouncementRepository(blobs BlobStore, key string, logger *zap.Logger) *AnnouncementRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	if key == "" {
		key = "gb_announcements"
	}
	return &AnnouncementRepository{blobs: blobs, key: key, logger: logger}
}

// Load replaces the in-memory collection with the stored blob. On the first
// load, missing, unparsable or unreachable data degrades to an empty
// collection. Later loads keep the current collection when storage is
// unreachable or corrupt, so the next write cannot persist a truncated board.
func (r *AnnouncementRepository) Load(ctx context.Context) LoadOutcome {
	items, outcome := r.read(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loaded && (outcome == LoadOutcomeUnavailable || outcome == LoadOutcomeCorrupt) {
		r.logger.Warn("keeping in-memory announcements after failed reload", zap.String("outcome", string(outcome)), zap.Int("count", len(r.items)))
		return outcome
	}
	r.items = items
	r.loaded = true
	return outcome
}

func (r *AnnouncementRepository) read(ctx context.Context) ([]models.Announcement, LoadOutcome) {
	raw, err := r.blobs.Get(ctx, r.key)
	if err != nil {
		if errors.Is(err, appErrors.ErrKeyNotFound) {
			return nil, LoadOutcomeEmpty
		}
		r.logger.Error("announcement storage unavailable, starting empty", zap.String("key", r.key), zap.Error(err))
		return nil, LoadOutcomeUnavailable
	}
	if len(raw) == 0 {
		return nil, LoadOutcomeEmpty
	}
	var items []models.Announcement
	if err := json.Unmarshal(raw, &items); err != nil {
		r.logger.Warn("announcement storage corrupt, starting empty", zap.String("key", r.key), zap.Error(err))
		return nil, LoadOutcomeCorrupt
	}
	return dedupeByID(items), LoadOutcomeLoaded
}

// List returns a copy of the collection in display order.
func (r *AnnouncementRepository) List(_ context.Context) []models.Announcement {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Announcement, len(r.items))
	for i, item := range r.items {
		out[i] = item.Clone()
	}
	return out
}

// Get returns a copy of the announcement with the given identifier.
func (r *AnnouncementRepository) Get(_ context.Context, id string) (*models.Announcement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if idx := indexOf(r.items, id); idx >= 0 {
		item := r.items[idx].Clone()
		return &item, nil
	}
	return nil, ErrAnnouncementNotFound
}

// Upsert replaces the entry with the same identifier in place, or inserts the
// announcement at the front of the collection.
func (r *AnnouncementRepository) Upsert(ctx context.Context, announcement models.Announcement) error {
	if announcement.ID == "" {
		return fmt.Errorf("upsert announcement: empty identifier")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	next := make([]models.Announcement, 0, len(r.items)+1)
	if idx := indexOf(r.items, announcement.ID); idx >= 0 {
		next = append(next, r.items...)
		next[idx] = announcement.Clone()
	} else {
		next = append(next, announcement.Clone())
		next = append(next, r.items...)
	}

	if err := r.persist(ctx, next); err != nil {
		return fmt.Errorf("upsert announcement %s: %w", announcement.ID, err)
	}
	r.items = next
	r.loaded = true
	return nil
}

// Remove deletes the announcement with the given identifier. Unknown
// identifiers are a no-op and do not touch storage.
func (r *AnnouncementRepository) Remove(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := indexOf(r.items, id)
	if idx < 0 {
		return nil
	}
	next := make([]models.Announcement, 0, len(r.items)-1)
	next = append(next, r.items[:idx]...)
	next = append(next, r.items[idx+1:]...)

	if err := r.persist(ctx, next); err != nil {
		return fmt.Errorf("remove announcement %s: %w", id, err)
	}
	r.items = next
	r.loaded = true
	return nil
}

// Count returns the number of announcements held in memory.
func (r *AnnouncementRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

func (r *AnnouncementRepository) persist(ctx context.Context, items []models.Announcement) error {
	if items == nil {
		items = []models.Announcement{}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal announcements: %w", err)
	}
	return r.blobs.Put(ctx, r.key, payload)
}

func indexOf(items []models.Announcement, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

// dedupeByID keeps the first occurrence of every identifier from hand-edited blobs.
func dedupeByID(items []models.Announcement) []models.Announcement {
	seen := make(map[string]struct{}, len(items))
	out := items[:0]
	for _, item := range items {
		if item.ID == "" {
			continue
		}
		if _, dup := seen[item.ID]; dup {
			continue
		}
		seen[item.ID] = struct{}{}
		out = append(out, item)
	}
	return out
}
