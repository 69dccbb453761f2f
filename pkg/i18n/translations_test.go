package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-board-api/internal/models"
)

func TestLocalizerCategoryLabels(t *testing.T) {
	l, err := NewLocalizer(nil)
	require.NoError(t, err)

	assert.Equal(t, "평가", l.CategoryLabel(models.LanguageKorean, models.CategoryAssessment))
	assert.Equal(t, "Assessment", l.CategoryLabel(models.LanguageEnglish, models.CategoryAssessment))
	assert.Equal(t, "お知らせ", l.CategoryLabel(models.LanguageJapanese, models.CategoryNotice))
	assert.Equal(t, "Projet", l.CategoryLabel(models.LanguageFrench, models.CategoryProject))
}

func TestLocalizerCoversEveryLanguageAndMessage(t *testing.T) {
	l, err := NewLocalizer(nil)
	require.NoError(t, err)

	ids := []string{MessageTranslationUnavailable, MessageAutoTranslated}
	for _, category := range models.Categories {
		ids = append(ids, "category_"+category.Key())
	}
	for _, lang := range models.SupportedLanguages {
		for _, id := range ids {
			msg := l.Message(lang.Code, id)
			assert.NotEqual(t, id, msg, "missing %s for %s", id, lang.Code)
			assert.NotEmpty(t, msg)
		}
	}
}

func TestLocalizerFallbacks(t *testing.T) {
	l, err := NewLocalizer(nil)
	require.NoError(t, err)

	assert.Equal(t, "자동 번역", l.Message(models.LanguageCode("XX"), MessageAutoTranslated))
	assert.Equal(t, "unknown_message", l.Message(models.LanguageEnglish, "unknown_message"))
	assert.Equal(t, "기타", l.CategoryLabel(models.LanguageEnglish, models.Category("기타")))
}
