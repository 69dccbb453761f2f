package dto

import "time"

// SubmitAnnouncementRequest is the composer payload for both create and edit.
type SubmitAnnouncementRequest struct {
	Title    string `json:"title" validate:"required"`
	Content  string `json:"content" validate:"required"`
	Category string `json:"category" validate:"required,category"`
}

// FeedRequest selects how the student feed is rendered.
type FeedRequest struct {
	Language string
	Category string
	Refresh  bool
}

// FeedItem is one announcement rendered for a display language. When Available
// is false no translation exists for the language and Notice explains why.
// AutoTranslatedLabel carries the localized badge text for machine translations.
type FeedItem struct {
	ID                  string    `json:"id"`
	Category            string    `json:"category"`
	CategoryLabel       string    `json:"category_label"`
	CategoryColor       string    `json:"category_color"`
	Available           bool      `json:"available"`
	Title               string    `json:"title,omitempty"`
	Content             string    `json:"content,omitempty"`
	AutoTranslated      bool      `json:"auto_translated"`
	AutoTranslatedLabel string    `json:"auto_translated_label,omitempty"`
	Notice              string    `json:"notice,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// FeedResponse is the rendered feed for one language.
type FeedResponse struct {
	Language string     `json:"language"`
	Items    []FeedItem `json:"items"`
}

// LanguagePreference carries the stored display language.
type LanguagePreference struct {
	Code string `json:"code" validate:"required"`
}

// LanguageItem describes one catalog language.
type LanguageItem struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	NativeName string `json:"native_name"`
	Source     bool   `json:"source"`
}

// CategoryItem describes one category with its label in the requested language.
type CategoryItem struct {
	Value string `json:"value"`
	Key   string `json:"key"`
	Label string `json:"label"`
	Color string `json:"color"`
}

// FeedExport is a rendered feed file.
type FeedExport struct {
	Filename    string
	ContentType string
	Data        []byte
}
