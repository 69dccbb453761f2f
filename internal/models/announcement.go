package models

import (
	"strings"
	"time"
)

// Category classifies an announcement for labelling and filtering.
type Category string

const (
	CategoryNotice     Category = "공지"
	CategoryAssignment Category = "과제"
	CategoryAssessment Category = "평가"
	CategoryGuidance   Category = "안내"
	CategoryProject    Category = "프로젝트"
)

// Categories lists the closed category set in display order.
var Categories = []Category{
	CategoryNotice,
	CategoryAssignment,
	CategoryAssessment,
	CategoryGuidance,
	CategoryProject,
}

var categoryKeys = map[Category]string{
	CategoryNotice:     "notice",
	CategoryAssignment: "assignment",
	CategoryAssessment: "assessment",
	CategoryGuidance:   "guidance",
	CategoryProject:    "project",
}

var categoryColors = map[Category]string{
	CategoryNotice:     "blue",
	CategoryAssignment: "orange",
	CategoryAssessment: "red",
	CategoryGuidance:   "emerald",
	CategoryProject:    "purple",
}

// Valid reports whether the category belongs to the closed set.
func (c Category) Valid() bool {
	_, ok := categoryKeys[c]
	return ok
}

// Key returns the stable ASCII key for the category (e.g. "notice").
func (c Category) Key() string {
	return categoryKeys[c]
}

// Color returns the colour token the board uses for the category badge.
func (c Category) Color() string {
	return categoryColors[c]
}

// Translation is a provider-produced rendering of an announcement in one target language.
type Translation struct {
	LanguageCode LanguageCode `json:"language_code"`
	Title        string       `json:"title"`
	Content      string       `json:"content"`
}

// Announcement is the persisted board entry. Translations cover every target
// language of the catalog once the announcement has been stored.
type Announcement struct {
	ID              string        `json:"id"`
	Category        Category      `json:"category"`
	OriginalTitle   string        `json:"original_title"`
	OriginalContent string        `json:"original_content"`
	Translations    []Translation `json:"translations"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// Translation returns the translation for the language code, if present.
func (a Announcement) Translation(code LanguageCode) (Translation, bool) {
	for _, t := range a.Translations {
		if t.LanguageCode == code {
			return t, true
		}
	}
	return Translation{}, false
}

// Clone returns a copy that shares no slices with the receiver.
func (a Announcement) Clone() Announcement {
	out := a
	if a.Translations != nil {
		out.Translations = make([]Translation, len(a.Translations))
		copy(out.Translations, a.Translations)
	}
	return out
}

// DisplayText is the resolved title/content for one display language.
type DisplayText struct {
	Title          string `json:"title"`
	Content        string `json:"content"`
	AutoTranslated bool   `json:"auto_translated"`
}

// ParseCategory resolves either the category value ("평가") or its key ("assessment").
func ParseCategory(raw string) (Category, bool) {
	raw = strings.TrimSpace(raw)
	if c := Category(raw); c.Valid() {
		return c, true
	}
	for c, key := range categoryKeys {
		if strings.EqualFold(key, raw) {
			return c, true
		}
	}
	return "", false
}
