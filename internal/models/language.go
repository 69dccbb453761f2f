package models

import (
	"strings"

	"golang.org/x/text/language"
)

// LanguageCode is the short upper-case identifier of a supported language.
type LanguageCode string

const (
	LanguageKorean     LanguageCode = "KO"
	LanguageEnglish    LanguageCode = "EN"
	LanguageChinese    LanguageCode = "ZH"
	LanguageRussian    LanguageCode = "RU"
	LanguageVietnamese LanguageCode = "VI"
	LanguageJapanese   LanguageCode = "JA"
	LanguageFrench     LanguageCode = "FR"
)

// SourceLanguage is the language teachers write in.
const SourceLanguage = LanguageKorean

// Language describes one entry of the fixed language catalog.
type Language struct {
	Code       LanguageCode `json:"code"`
	Name       string       `json:"name"`
	NativeName string       `json:"native_name"`
	tag        language.Tag
}

// Tag returns the BCP 47 tag backing the language.
func (l Language) Tag() language.Tag {
	return l.tag
}

// SupportedLanguages is the catalog, source language first.
var SupportedLanguages = []Language{
	{Code: LanguageKorean, Name: "한국어", NativeName: "한국어", tag: language.Korean},
	{Code: LanguageEnglish, Name: "English", NativeName: "English", tag: language.English},
	{Code: LanguageChinese, Name: "Chinese", NativeName: "中文", tag: language.Chinese},
	{Code: LanguageRussian, Name: "Russian", NativeName: "Русский", tag: language.Russian},
	{Code: LanguageVietnamese, Name: "Vietnamese", NativeName: "Tiếng Việt", tag: language.Vietnamese},
	{Code: LanguageJapanese, Name: "Japanese", NativeName: "日本語", tag: language.Japanese},
	{Code: LanguageFrench, Name: "French", NativeName: "Français", tag: language.French},
}

// TargetLanguages returns every catalog language except the source language.
func TargetLanguages() []Language {
	out := make([]Language, 0, len(SupportedLanguages)-1)
	for _, lang := range SupportedLanguages {
		if lang.Code != SourceLanguage {
			out = append(out, lang)
		}
	}
	return out
}

// LookupLanguage returns the catalog entry for an exact code.
func LookupLanguage(code LanguageCode) (Language, bool) {
	for _, lang := range SupportedLanguages {
		if lang.Code == code {
			return lang, true
		}
	}
	return Language{}, false
}

// ParseLanguageCode resolves user input to a catalog code. It accepts the
// catalog codes in any case as well as BCP 47 tags such as "en-US" or "zh-Hant".
func ParseLanguageCode(raw string) (LanguageCode, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	if lang, ok := LookupLanguage(LanguageCode(strings.ToUpper(raw))); ok {
		return lang.Code, true
	}
	tag, err := language.Parse(raw)
	if err != nil {
		return "", false
	}
	base, conf := tag.Base()
	if conf == language.No {
		return "", false
	}
	for _, lang := range SupportedLanguages {
		if candidate, _ := lang.tag.Base(); candidate == base {
			return lang.Code, true
		}
	}
	return "", false
}
