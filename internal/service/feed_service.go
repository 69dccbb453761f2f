package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-board-api/internal/dto"
	"github.com/noah-isme/sma-board-api/internal/models"
	"github.com/noah-isme/sma-board-api/internal/repository"
	appErrors "github.com/noah-isme/sma-board-api/pkg/errors"
	"github.com/noah-isme/sma-board-api/pkg/export"
	"github.com/noah-isme/sma-board-api/pkg/i18n"
)

type feedStore interface {
	Load(ctx context.Context) repository.LoadOutcome
	List(ctx context.Context) []models.Announcement
}

type preferenceStore interface {
	GetLanguage(ctx context.Context) models.LanguageCode
	SetLanguage(ctx context.Context, code models.LanguageCode) error
}

type labeler interface {
	Message(code models.LanguageCode, id string) string
	CategoryLabel(code models.LanguageCode, category models.Category) string
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// Export formats.
const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

// FeedService renders the student-facing feed and manages the preferred display language.
type FeedService struct {
	store   feedStore
	prefs   preferenceStore
	labels  labeler
	csv     csvRenderer
	pdf     pdfRenderer
	metrics *MetricsService
	logger  *zap.Logger
	now     func() time.Time
}

// NewFeedService constructs the service. Nil renderers default to the package exporters.
func NewFeedService(store feedStore, prefs preferenceStore, labels labeler, csv csvRenderer, pdf pdfRenderer, metrics *MetricsService, logger *zap.Logger) *FeedService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter("")
	}
	return &FeedService{
		store:   store,
		prefs:   prefs,
		labels:  labels,
		csv:     csv,
		pdf:     pdf,
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
	}
}

// Feed renders every announcement in the requested language, or the stored
// preference when none is given.
func (s *FeedService) Feed(ctx context.Context, req dto.FeedRequest) (*dto.FeedResponse, error) {
	code, err := s.resolveLanguage(ctx, req.Language)
	if err != nil {
		return nil, err
	}
	var category models.Category
	if strings.TrimSpace(req.Category) != "" {
		parsed, ok := models.ParseCategory(req.Category)
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, "unknown category")
		}
		category = parsed
	}

	if req.Refresh {
		outcome := s.store.Load(ctx)
		s.metrics.RecordStoreLoad(string(outcome))
		s.logger.Debug("feed refreshed", zap.String("outcome", string(outcome)))
	}

	announcements := s.store.List(ctx)
	if req.Refresh {
		s.metrics.SetAnnouncementCount(len(announcements))
	}
	items := make([]dto.FeedItem, 0, len(announcements))
	for _, a := range announcements {
		if category != "" && a.Category != category {
			continue
		}
		items = append(items, s.render(a, code))
	}
	return &dto.FeedResponse{Language: string(code), Items: items}, nil
}

func (s *FeedService) render(a models.Announcement, code models.LanguageCode) dto.FeedItem {
	item := dto.FeedItem{
		ID:            a.ID,
		Category:      string(a.Category),
		CategoryLabel: s.labels.CategoryLabel(code, a.Category),
		CategoryColor: a.Category.Color(),
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
	text, ok := ResolveDisplay(a, code)
	if !ok {
		item.Notice = s.labels.Message(code, i18n.MessageTranslationUnavailable)
		return item
	}
	item.Available = true
	item.Title = text.Title
	item.Content = text.Content
	item.AutoTranslated = text.AutoTranslated
	if text.AutoTranslated {
		item.AutoTranslatedLabel = s.labels.Message(code, i18n.MessageAutoTranslated)
	}
	return item
}

// GetPreferredLanguage returns the stored display language.
func (s *FeedService) GetPreferredLanguage(ctx context.Context) models.LanguageCode {
	return s.prefs.GetLanguage(ctx)
}

// SetPreferredLanguage validates and persists the display language.
func (s *FeedService) SetPreferredLanguage(ctx context.Context, raw string) (models.LanguageCode, error) {
	code, ok := models.ParseLanguageCode(raw)
	if !ok {
		return "", appErrors.Clone(appErrors.ErrValidation, "unsupported language")
	}
	if err := s.prefs.SetLanguage(ctx, code); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save language preference")
	}
	return code, nil
}

// Languages lists the language catalog.
func (s *FeedService) Languages() []dto.LanguageItem {
	out := make([]dto.LanguageItem, 0, len(models.SupportedLanguages))
	for _, lang := range models.SupportedLanguages {
		out = append(out, dto.LanguageItem{
			Code:       string(lang.Code),
			Name:       lang.Name,
			NativeName: lang.NativeName,
			Source:     lang.Code == models.SourceLanguage,
		})
	}
	return out
}

// Categories lists the categories labelled in the requested (or preferred) language.
func (s *FeedService) Categories(ctx context.Context, lang string) ([]dto.CategoryItem, error) {
	code, err := s.resolveLanguage(ctx, lang)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryItem, 0, len(models.Categories))
	for _, c := range models.Categories {
		out = append(out, dto.CategoryItem{
			Value: string(c),
			Key:   c.Key(),
			Label: s.labels.CategoryLabel(code, c),
			Color: c.Color(),
		})
	}
	return out, nil
}

// Export renders the feed as a CSV or PDF handout.
func (s *FeedService) Export(ctx context.Context, req dto.FeedRequest, format string) (*dto.FeedExport, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = FormatCSV
	}
	if format != FormatCSV && format != FormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
	feed, err := s.Feed(ctx, req)
	if err != nil {
		return nil, err
	}
	code := models.LanguageCode(feed.Language)
	dataset := feedDataset(feed.Items)

	var (
		payload     []byte
		contentType string
	)
	switch format {
	case FormatPDF:
		lang, _ := models.LookupLanguage(code)
		payload, err = s.pdf.Render(dataset, fmt.Sprintf("Class board (%s)", lang.NativeName))
		contentType = "application/pdf"
	default:
		payload, err = s.csv.Render(dataset)
		contentType = "text/csv; charset=utf-8"
	}
	if err != nil {
		s.logger.Error("render feed export failed", zap.String("format", format), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	filename := fmt.Sprintf("announcements_%s_%s.%s", strings.ToLower(string(code)), s.now().UTC().Format("20060102"), format)
	return &dto.FeedExport{Filename: filename, ContentType: contentType, Data: payload}, nil
}

func feedDataset(items []dto.FeedItem) export.Dataset {
	data := export.Dataset{Headers: []string{"title", "category", "date", "content"}}
	for _, item := range items {
		title := item.Title
		if !item.Available {
			title = item.Notice
		}
		data.Rows = append(data.Rows, map[string]string{
			"title":    title,
			"category": item.CategoryLabel,
			"date":     item.UpdatedAt.Format("2006-01-02"),
			"content":  item.Content,
		})
	}
	return data
}

func (s *FeedService) resolveLanguage(ctx context.Context, raw string) (models.LanguageCode, error) {
	if strings.TrimSpace(raw) == "" {
		return s.prefs.GetLanguage(ctx), nil
	}
	code, ok := models.ParseLanguageCode(raw)
	if !ok {
		return "", appErrors.Clone(appErrors.ErrValidation, "unsupported language")
	}
	return code, nil
}
