package translator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-board-api/internal/models"
)

func candidateBody(t *testing.T, text string) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"candidates": []map[string]any{{
			"content": map[string]any{"role": "model", "parts": []map[string]string{{"text": text}}},
		}},
	})
	require.NoError(t, err)
	return body
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *GeminiClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := NewGeminiClient(GeminiConfig{BaseURL: server.URL, APIKey: "test-key", Model: "test-model"})
	require.NoError(t, err)
	return client
}

func TestStripFences(t *testing.T) {
	cases := []struct{ in, want string }{
		{`[{"lang":"EN"}]`, `[{"lang":"EN"}]`},
		{"```json\n[{\"lang\":\"EN\"}]\n```", `[{"lang":"EN"}]`},
		{"```\n[]\n```", `[]`},
		{"  ```JSON\n[1]```  ", `[1]`},
		{"```json[{\"lang\":\"EN\"}]```", `[{"lang":"EN"}]`},
		{"\n\t[{\"lang\":\"FR\"}]\n", `[{"lang":"FR"}]`},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, StripFences(tc.in), "input %q", tc.in)
	}
}

func TestDecodeTranslationsAcceptsFieldSpellings(t *testing.T) {
	raw := "```json\n[" +
		`{"lang":"en","title":"Exam","content":"Tomorrow"},` +
		`{"langCode":"ZH","title":"考试","content":"明天"},` +
		`{"languageCode":"ja","title":"試験","content":"明日"}` +
		"]\n```"
	translations, err := DecodeTranslations(raw)
	require.NoError(t, err)
	require.Len(t, translations, 3)
	assert.Equal(t, models.LanguageEnglish, translations[0].LanguageCode)
	assert.Equal(t, models.LanguageChinese, translations[1].LanguageCode)
	assert.Equal(t, models.LanguageJapanese, translations[2].LanguageCode)
	assert.Equal(t, "試験", translations[2].Title)
}

func TestDecodeTranslationsMalformed(t *testing.T) {
	_, err := DecodeTranslations("{not json")
	assert.Error(t, err)

	_, err = DecodeTranslations("```json\n```")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestGeminiClientTranslate(t *testing.T) {
	var captured generateRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/models/test-model:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_, _ = w.Write(candidateBody(t, "```json\n[{\"lang\":\"EN\",\"title\":\"Exam notice\",\"content\":\"Math exam tomorrow\"}]\n```"))
	})

	translations, err := client.Translate(context.Background(), "시험 안내", "내일 수학 시험이 있습니다")
	require.NoError(t, err)
	require.Len(t, translations, 1)
	assert.Equal(t, models.Translation{LanguageCode: models.LanguageEnglish, Title: "Exam notice", Content: "Math exam tomorrow"}, translations[0])

	assert.Equal(t, "application/json", captured.GenerationConfig.ResponseMimeType)
	assert.Equal(t, "ARRAY", captured.GenerationConfig.ResponseSchema["type"])
	require.Len(t, captured.Contents, 1)
	assert.Contains(t, captured.Contents[0].Parts[0].Text, "Title: 시험 안내")
	assert.Contains(t, captured.Contents[0].Parts[0].Text, "Content: 내일 수학 시험이 있습니다")
	for _, lang := range models.TargetLanguages() {
		assert.Contains(t, captured.SystemInstruction.Parts[0].Text, string(lang.Code))
	}
	assert.NotContains(t, captured.SystemInstruction.Parts[0].Text, "KO (")
}

func TestGeminiClientErrorStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"quota exceeded"}}`))
	})

	_, err := client.Translate(context.Background(), "제목", "내용")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.NotContains(t, err.Error(), "test-key")
}

func TestGeminiClientEmptyCandidates(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[],"promptFeedback":{"blockReason":"SAFETY"}}`))
	})

	_, err := client.Translate(context.Background(), "제목", "내용")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestGeminiClientMalformedPayload(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(candidateBody(t, "Sure! Here are your translations."))
	})

	_, err := client.Translate(context.Background(), "제목", "내용")
	assert.Error(t, err)
}

func TestGeminiClientNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client, err := NewGeminiClient(GeminiConfig{BaseURL: server.URL, APIKey: "k"})
	require.NoError(t, err)
	server.Close()

	_, err = client.Translate(context.Background(), "제목", "내용")
	assert.Error(t, err)
}

func TestNewGeminiClientRequiresKey(t *testing.T) {
	_, err := NewGeminiClient(GeminiConfig{})
	assert.Error(t, err)
}
