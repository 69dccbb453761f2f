package service

import "github.com/noah-isme/sma-board-api/internal/models"

// ResolveDisplay picks the text shown for an announcement in the given language.
// The source language yields the originals verbatim, any other catalog language
// yields the stored translation. The boolean is false when no text exists for
// the language.
func ResolveDisplay(a models.Announcement, code models.LanguageCode) (models.DisplayText, bool) {
	if code == models.SourceLanguage {
		return models.DisplayText{Title: a.OriginalTitle, Content: a.OriginalContent}, true
	}
	translation, ok := a.Translation(code)
	if !ok {
		return models.DisplayText{}, false
	}
	return models.DisplayText{Title: translation.Title, Content: translation.Content, AutoTranslated: true}, true
}
