package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"lms_backend/internal/config"
)

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

var (
	ErrAINotConfigured = errors.New("ai: api key not configured")
	ErrAIBlocked       = errors.New("ai: response blocked")
	ErrAIEmpty         = errors.New("ai: empty response")
)

// GeminiService is a minimal client for the generateContent endpoint.
// One request per chat message, no retries; the chat orchestrator
// falls back to the rule-based responder on any error.
type GeminiService struct {
	mu     sync.RWMutex
	cfg    config.AIConfig
	client *http.Client
}

func NewGeminiService(cfg config.AIConfig) *GeminiService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultGeminiBaseURL
	}
	return &GeminiService{
		cfg: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

// UpdateConfig swaps in new settings on config reload.
func (g *GeminiService) UpdateConfig(cfg config.AIConfig) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultGeminiBaseURL
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cfg = cfg
	g.client.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
}

func (g *GeminiService) Model() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.cfg.Model
}

func (g *GeminiService) Configured() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.cfg.APIKey != ""
}

type geminiRequest struct {
	SystemInstruction *geminiContent  `json:"systemInstruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
	GenerationConfig  geminiGenConfig `json:"generationConfig"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenConfig struct {
	Temperature     float64 `json:"temperature"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Generate sends one prompt and returns the model's text answer.
func (g *GeminiService) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	g.mu.RLock()
	cfg := g.cfg
	g.mu.RUnlock()

	if cfg.APIKey == "" {
		return "", ErrAINotConfigured
	}

	reqBody := geminiRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: userPrompt}}},
		},
		GenerationConfig: geminiGenConfig{
			Temperature:     0.5,
			TopP:            0.95,
			MaxOutputTokens: 512,
		},
	}
	if systemPrompt != "" {
		reqBody.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: systemPrompt}}}
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", cfg.BaseURL, cfg.Model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", cfg.APIKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var parsed geminiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("ai: decode response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if parsed.Error != nil {
			return "", fmt.Errorf("ai: status %d: %s", resp.StatusCode, parsed.Error.Message)
		}
		return "", fmt.Errorf("ai: status %d", resp.StatusCode)
	}

	if parsed.PromptFeedback != nil && parsed.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("%w: %s", ErrAIBlocked, parsed.PromptFeedback.BlockReason)
	}
	if len(parsed.Candidates) == 0 {
		return "", ErrAIEmpty
	}

	candidate := parsed.Candidates[0]
	switch candidate.FinishReason {
	case "SAFETY", "RECITATION":
		return "", fmt.Errorf("%w: %s", ErrAIBlocked, candidate.FinishReason)
	}

	var text string
	for _, part := range candidate.Content.Parts {
		text += part.Text
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrAIEmpty
	}
	return text, nil
}
