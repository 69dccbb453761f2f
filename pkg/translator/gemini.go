package translator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-board-api/internal/models"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel   = "gemini-3-flash-preview"
	maxErrorBody   = 4096
)

// ErrEmptyResponse is returned when the provider answers without any text.
var ErrEmptyResponse = errors.New("translation provider returned an empty response")

// GeminiConfig configures the Gemini generateContent client.
type GeminiConfig struct {
	BaseURL    string
	APIKey     string
	Model      string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// GeminiClient translates announcements with a single structured generateContent call.
type GeminiClient struct {
	endpoint string
	apiKey   string
	model    string
	client   *http.Client
	logger   *zap.Logger
	targets  []models.Language
}

// NewGeminiClient builds the client for the catalog's target languages.
func NewGeminiClient(cfg GeminiConfig) (*GeminiClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("translation api key is required")
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("parse translation base url: %w", err)
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GeminiClient{
		endpoint: fmt.Sprintf("%s/models/%s:generateContent", baseURL, url.PathEscape(model)),
		apiKey:   strings.TrimSpace(cfg.APIKey),
		model:    model,
		client:   client,
		logger:   logger,
		targets:  models.TargetLanguages(),
	}, nil
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	SystemInstruction content          `json:"systemInstruction"`
	Contents          []content        `json:"contents"`
	GenerationConfig  generationConfig `json:"generationConfig"`
}

type generationConfig struct {
	ResponseMimeType string         `json:"responseMimeType"`
	ResponseSchema   map[string]any `json:"responseSchema"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

// item accepts every spelling of the language field the prompt and schema have used.
type item struct {
	Lang         string `json:"lang"`
	LangCode     string `json:"langCode"`
	LanguageCode string `json:"languageCode"`
	Title        string `json:"title"`
	Content      string `json:"content"`
}

func (i item) code() string {
	for _, candidate := range []string{i.Lang, i.LangCode, i.LanguageCode} {
		if trimmed := strings.TrimSpace(candidate); trimmed != "" {
			return strings.ToUpper(trimmed)
		}
	}
	return ""
}

// Translate sends title and content to the provider and decodes one
// translation object per returned entry. Completeness is left to the caller.
func (c *GeminiClient) Translate(ctx context.Context, title, body string) ([]models.Translation, error) {
	payload, err := json.Marshal(c.buildRequest(title, body))
	if err != nil {
		return nil, fmt.Errorf("marshal translation request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build translation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	res, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("translation request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		raw, readErr := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
		if readErr != nil {
			return nil, fmt.Errorf("read translation error body: %w", readErr)
		}
		return nil, fmt.Errorf("translation request status %d: %s", res.StatusCode, strings.TrimSpace(string(raw)))
	}

	var decoded generateResponse
	if err := json.NewDecoder(res.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode translation response: %w", err)
	}
	text := responseText(decoded)
	if strings.TrimSpace(text) == "" {
		if decoded.PromptFeedback != nil && decoded.PromptFeedback.BlockReason != "" {
			return nil, fmt.Errorf("%w: blocked (%s)", ErrEmptyResponse, decoded.PromptFeedback.BlockReason)
		}
		return nil, ErrEmptyResponse
	}

	translations, err := DecodeTranslations(text)
	if err != nil {
		c.logger.Debug("undecodable translation payload", zap.String("model", c.model), zap.Int("bytes", len(text)))
		return nil, err
	}
	return translations, nil
}

func (c *GeminiClient) buildRequest(title, body string) generateRequest {
	return generateRequest{
		SystemInstruction: content{Parts: []part{{Text: SystemInstruction(c.targets)}}},
		Contents: []content{{
			Role:  "user",
			Parts: []part{{Text: fmt.Sprintf("Translate the following school announcement into multiple languages.\nTitle: %s\nContent: %s", title, body)}},
		}},
		GenerationConfig: generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   responseSchema(),
		},
	}
}

// SystemInstruction describes the target languages, tone and output shape.
func SystemInstruction(targets []models.Language) string {
	names := make([]string, 0, len(targets))
	for _, lang := range targets {
		names = append(names, fmt.Sprintf("%s (%s)", lang.Code, lang.Name))
	}
	return "You are a specialized school communication translator. " +
		"Translate the announcement to " + strings.Join(names, ", ") + ". " +
		"Keep the tone warm, clear and appropriate for students and their families, and preserve dates, numbers and names. " +
		"Output a valid JSON array with exactly one object per language: [{lang, title, content}] where lang is the upper-case code."
}

func responseSchema() map[string]any {
	return map[string]any{
		"type": "ARRAY",
		"items": map[string]any{
			"type": "OBJECT",
			"properties": map[string]any{
				"lang":    map[string]any{"type": "STRING"},
				"title":   map[string]any{"type": "STRING"},
				"content": map[string]any{"type": "STRING"},
			},
			"required": []string{"lang", "title", "content"},
		},
	}
}

func responseText(res generateResponse) string {
	if len(res.Candidates) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, p := range res.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String()
}

// StripFences removes a surrounding fenced code block (``` or ```json) from raw
// provider text. Text without fences is returned trimmed.
func StripFences(raw string) string {
	text := strings.TrimSpace(raw)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	if nl := strings.IndexByte(text, '\n'); nl >= 0 {
		text = text[nl+1:]
	} else {
		text = strings.TrimLeft(text, "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")
	}
	text = strings.TrimSpace(text)
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

// DecodeTranslations strips fences and decodes the provider's JSON array.
func DecodeTranslations(raw string) ([]models.Translation, error) {
	text := StripFences(raw)
	if text == "" {
		return nil, ErrEmptyResponse
	}
	var items []item
	if err := json.Unmarshal([]byte(text), &items); err != nil {
		return nil, fmt.Errorf("decode translations: %w", err)
	}
	out := make([]models.Translation, 0, len(items))
	for _, it := range items {
		out = append(out, models.Translation{
			LanguageCode: models.LanguageCode(it.code()),
			Title:        it.Title,
			Content:      it.Content,
		})
	}
	return out, nil
}
