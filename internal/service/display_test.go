package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/sma-board-api/internal/models"
)

func TestResolveDisplay(t *testing.T) {
	a := models.Announcement{
		ID:              "a1",
		OriginalTitle:   "시험 안내",
		OriginalContent: "내일 수학 시험",
		Translations: []models.Translation{
			{LanguageCode: models.LanguageEnglish, Title: "Exam notice", Content: "Math exam tomorrow"},
		},
	}

	text, ok := ResolveDisplay(a, models.LanguageKorean)
	assert.True(t, ok)
	assert.Equal(t, models.DisplayText{Title: "시험 안내", Content: "내일 수학 시험"}, text)

	text, ok = ResolveDisplay(a, models.LanguageEnglish)
	assert.True(t, ok)
	assert.Equal(t, "Exam notice", text.Title)
	assert.True(t, text.AutoTranslated)

	_, ok = ResolveDisplay(a, models.LanguageFrench)
	assert.False(t, ok)
}

func TestResolveDisplayLegacyWithoutTranslations(t *testing.T) {
	a := models.Announcement{ID: "legacy", OriginalTitle: "제목", OriginalContent: "내용"}

	for _, lang := range models.TargetLanguages() {
		_, ok := ResolveDisplay(a, lang.Code)
		assert.False(t, ok, lang.Code)
	}
	text, ok := ResolveDisplay(a, models.SourceLanguage)
	assert.True(t, ok)
	assert.Equal(t, "제목", text.Title)
}
