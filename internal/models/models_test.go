package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLanguageCode(t *testing.T) {
	cases := []struct {
		in   string
		want LanguageCode
		ok   bool
	}{
		{"EN", LanguageEnglish, true},
		{"ko", LanguageKorean, true},
		{" fr ", LanguageFrench, true},
		{"en-US", LanguageEnglish, true},
		{"zh-Hant", LanguageChinese, true},
		{"ja-JP", LanguageJapanese, true},
		{"de", "", false},
		{"", "", false},
		{"12", "", false},
	}
	for _, tc := range cases {
		got, ok := ParseLanguageCode(tc.in)
		assert.Equal(t, tc.ok, ok, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}
}

func TestTargetLanguagesExcludeSource(t *testing.T) {
	targets := TargetLanguages()
	assert.Len(t, targets, len(SupportedLanguages)-1)
	for _, lang := range targets {
		assert.NotEqual(t, SourceLanguage, lang.Code)
	}
	assert.Equal(t, LanguageEnglish, targets[0].Code)
}

func TestParseCategory(t *testing.T) {
	c, ok := ParseCategory("평가")
	assert.True(t, ok)
	assert.Equal(t, CategoryAssessment, c)

	c, ok = ParseCategory("Project")
	assert.True(t, ok)
	assert.Equal(t, CategoryProject, c)

	_, ok = ParseCategory("sports")
	assert.False(t, ok)
	assert.Equal(t, "red", CategoryAssessment.Color())
}

func TestAnnouncementCloneIsIndependent(t *testing.T) {
	a := Announcement{ID: "1", Translations: []Translation{{LanguageCode: LanguageEnglish, Title: "Hi"}}}
	b := a.Clone()
	b.Translations[0].Title = "changed"
	assert.Equal(t, "Hi", a.Translations[0].Title)

	tr, ok := a.Translation(LanguageEnglish)
	assert.True(t, ok)
	assert.Equal(t, "Hi", tr.Title)
}
