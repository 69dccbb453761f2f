package i18n

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-board-api/internal/models"
)

//go:embed active.*.toml
var localeFS embed.FS

// Message identifiers used by the board.
const (
	MessageTranslationUnavailable = "translation_unavailable"
	MessageAutoTranslated         = "auto_translated"
)

// Localizer renders board labels in any catalog language, falling back to the
// source language and finally to the message ID.
type Localizer struct {
	bundle     *i18n.Bundle
	localizers map[models.LanguageCode]*i18n.Localizer
	logger     *zap.Logger
}

// NewLocalizer loads the embedded message files for every catalog language.
func NewLocalizer(logger *zap.Logger) (*Localizer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	source, _ := models.LookupLanguage(models.SourceLanguage)
	bundle := i18n.NewBundle(source.Tag())
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	files, err := fs.Glob(localeFS, "active.*.toml")
	if err != nil {
		return nil, fmt.Errorf("list message files: %w", err)
	}
	for _, file := range files {
		if _, err := bundle.LoadMessageFileFS(localeFS, file); err != nil {
			return nil, fmt.Errorf("load %s: %w", file, err)
		}
	}

	localizers := make(map[models.LanguageCode]*i18n.Localizer, len(models.SupportedLanguages))
	for _, lang := range models.SupportedLanguages {
		localizers[lang.Code] = i18n.NewLocalizer(bundle, lang.Tag().String(), source.Tag().String())
	}
	return &Localizer{bundle: bundle, localizers: localizers, logger: logger}, nil
}

// Message renders the message for the given display language.
func (l *Localizer) Message(code models.LanguageCode, id string) string {
	localizer, ok := l.localizers[code]
	if !ok {
		localizer = l.localizers[models.SourceLanguage]
	}
	msg, err := localizer.Localize(&i18n.LocalizeConfig{MessageID: id})
	if err != nil {
		l.logger.Warn("localize failed", zap.String("message_id", id), zap.String("language", string(code)), zap.Error(err))
		return id
	}
	return msg
}

// CategoryLabel returns the category name in the display language.
func (l *Localizer) CategoryLabel(code models.LanguageCode, category models.Category) string {
	if !category.Valid() {
		return string(category)
	}
	return l.Message(code, "category_"+category.Key())
}
