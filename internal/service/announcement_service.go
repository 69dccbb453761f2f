package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-board-api/internal/dto"
	"github.com/noah-isme/sma-board-api/internal/models"
	"github.com/noah-isme/sma-board-api/internal/repository"
	appErrors "github.com/noah-isme/sma-board-api/pkg/errors"
)

type announcementStore interface {
	List(ctx context.Context) []models.Announcement
	Get(ctx context.Context, id string) (*models.Announcement, error)
	Upsert(ctx context.Context, announcement models.Announcement) error
	Remove(ctx context.Context, id string) error
	Count() int
}

// TranslationGateway produces translations of a source title and content.
type TranslationGateway interface {
	Translate(ctx context.Context, title, content string) ([]models.Translation, error)
}

// Rejection reasons recorded in metrics.
const (
	rejectValidation  = "validation"
	rejectNotFound    = "not_found"
	rejectConflict    = "conflict"
	rejectTranslation = "translation"
	rejectStorage     = "storage"
)

// AnnouncementService turns teacher input into fully translated announcements.
type AnnouncementService struct {
	store     announcementStore
	gateway   TranslationGateway
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
	now       func() time.Time
	newID     func() string

	inflight sync.Mutex
}

// NewAnnouncementService constructs the service. A nil gateway makes every
// submission fail with a translation error.
func NewAnnouncementService(store announcementStore, gateway TranslationGateway, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger) *AnnouncementService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &AnnouncementService{
		store:     store,
		gateway:   gateway,
		validator: validate,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
		newID:     uuid.NewString,
	}
	svc.validator.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return models.Category(fl.Field().String()).Valid()
	})
	svc.metrics.SetAnnouncementCount(store.Count())
	return svc
}

// List returns every stored announcement, newest first, with originals and translations.
func (s *AnnouncementService) List(ctx context.Context) []models.Announcement {
	return s.store.List(ctx)
}

// Get returns an announcement by id.
func (s *AnnouncementService) Get(ctx context.Context, id string) (*models.Announcement, error) {
	ann, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrAnnouncementNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "announcement not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get announcement")
	}
	return ann, nil
}

// Submit creates an announcement, or replaces the one identified by existingID.
// Nothing is stored unless every target language was translated.
func (s *AnnouncementService) Submit(ctx context.Context, req dto.SubmitAnnouncementRequest, existingID string) (*models.Announcement, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Content = strings.TrimSpace(req.Content)
	if category, ok := models.ParseCategory(req.Category); ok {
		req.Category = string(category)
	}
	if err := s.validator.Struct(req); err != nil {
		s.metrics.RecordRejectedSubmission(rejectValidation)
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "title, content and a known category are required")
	}

	if !s.inflight.TryLock() {
		s.metrics.RecordRejectedSubmission(rejectConflict)
		return nil, appErrors.Clone(appErrors.ErrConflict, "submission already in progress")
	}
	defer s.inflight.Unlock()

	var existing *models.Announcement
	if existingID != "" {
		found, err := s.Get(ctx, existingID)
		if err != nil {
			s.metrics.RecordRejectedSubmission(rejectNotFound)
			return nil, err
		}
		existing = found
	}

	translations, err := s.translate(ctx, req.Title, req.Content)
	if err != nil {
		s.metrics.RecordRejectedSubmission(rejectTranslation)
		return nil, err
	}

	now := s.now().UTC()
	announcement := models.Announcement{
		ID:              s.newID(),
		Category:        models.Category(req.Category),
		OriginalTitle:   req.Title,
		OriginalContent: req.Content,
		Translations:    translations,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if existing != nil {
		announcement.ID = existing.ID
		announcement.CreatedAt = existing.CreatedAt
		if announcement.UpdatedAt.Before(announcement.CreatedAt) {
			announcement.UpdatedAt = announcement.CreatedAt
		}
	}

	started := time.Now()
	if err := s.store.Upsert(ctx, announcement); err != nil {
		s.metrics.ObserveStoreWrite("upsert", OutcomeFailure, time.Since(started))
		s.metrics.RecordRejectedSubmission(rejectStorage)
		s.logger.Error("store announcement failed", zap.String("announcement_id", announcement.ID), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save announcement")
	}
	s.metrics.ObserveStoreWrite("upsert", OutcomeSuccess, time.Since(started))
	s.metrics.SetAnnouncementCount(s.store.Count())

	s.logger.Info("announcement saved",
		zap.String("announcement_id", announcement.ID),
		zap.Bool("edit", existing != nil),
		zap.String("category", announcement.Category.Key()),
		zap.Int("translations", len(announcement.Translations)),
	)
	return &announcement, nil
}

// Delete removes an announcement. Unknown identifiers are ignored.
func (s *AnnouncementService) Delete(ctx context.Context, id string) error {
	started := time.Now()
	if err := s.store.Remove(ctx, id); err != nil {
		s.metrics.ObserveStoreWrite("remove", OutcomeFailure, time.Since(started))
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete announcement")
	}
	s.metrics.ObserveStoreWrite("remove", OutcomeSuccess, time.Since(started))
	s.metrics.SetAnnouncementCount(s.store.Count())
	return nil
}

func (s *AnnouncementService) translate(ctx context.Context, title, content string) ([]models.Translation, error) {
	if s.gateway == nil {
		return nil, appErrors.Clone(appErrors.ErrTranslationFailed, "translation provider is not configured")
	}
	started := time.Now()
	raw, err := s.gateway.Translate(ctx, title, content)
	if err != nil {
		s.metrics.ObserveTranslation(OutcomeFailure, time.Since(started))
		s.logger.Warn("translation request failed", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrTranslationFailed.Code, appErrors.ErrTranslationFailed.Status, "translation failed, please try again")
	}
	translations, err := normalizeTranslations(raw)
	if err != nil {
		s.metrics.ObserveTranslation(OutcomeFailure, time.Since(started))
		s.logger.Warn("incomplete translation result", zap.Int("received", len(raw)), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrTranslationFailed.Code, appErrors.ErrTranslationFailed.Status, "translation incomplete, please try again")
	}
	s.metrics.ObserveTranslation(OutcomeSuccess, time.Since(started))
	return translations, nil
}

// normalizeTranslations maps provider output onto the target catalog. Codes are
// upper-cased, codes outside the target set are dropped and the first entry per
// code wins. Every target language must be present; the result follows catalog order.
func normalizeTranslations(raw []models.Translation) ([]models.Translation, error) {
	targets := models.TargetLanguages()
	wanted := make(map[models.LanguageCode]struct{}, len(targets))
	for _, lang := range targets {
		wanted[lang.Code] = struct{}{}
	}

	byCode := make(map[models.LanguageCode]models.Translation, len(targets))
	for _, t := range raw {
		code := models.LanguageCode(strings.ToUpper(strings.TrimSpace(string(t.LanguageCode))))
		if _, ok := wanted[code]; !ok {
			continue
		}
		if _, dup := byCode[code]; dup {
			continue
		}
		t.LanguageCode = code
		byCode[code] = t
	}

	out := make([]models.Translation, 0, len(targets))
	var missing []string
	for _, lang := range targets {
		t, ok := byCode[lang.Code]
		if !ok {
			missing = append(missing, string(lang.Code))
			continue
		}
		out = append(out, t)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing translations for %s", strings.Join(missing, ", "))
	}
	return out, nil
}
