package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"lms_backend/internal/config"
	"lms_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newChatService(t *testing.T, aiCfg config.AIConfig) (*ChatService, *model.User) {
	t.Helper()
	db := setupTestDB(t)
	analytics := newTestAnalytics(newTestRepos(db))

	student := newStudent(t, db, "student1")
	return NewChatService(analytics, NewResponderService(), NewGeminiService(aiCfg)), student
}

func TestChatFallsBackWhenNotConfigured(t *testing.T) {
	chat, student := newChatService(t, config.AIConfig{TimeoutSeconds: 1})

	outcome, err := chat.Ask(context.Background(), student, "xin chào")
	require.NoError(t, err)

	assert.True(t, outcome.UsedFallback)
	assert.Equal(t, "rule-based", outcome.Model)
	assert.NotEmpty(t, outcome.Text)
}

func TestChatUsesExternalModel(t *testing.T) {
	var captured geminiRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"candidates": []map[string]interface{}{
				{
					"content":      map[string]interface{}{"parts": []map[string]string{{"text": "Hãy ôn tập mỗi ngày."}}},
					"finishReason": "STOP",
				},
			},
		})
	}))
	defer server.Close()

	chat, student := newChatService(t, config.AIConfig{
		BaseURL:        server.URL,
		APIKey:         "test-key",
		Model:          "test-model",
		TimeoutSeconds: 5,
	})

	outcome, err := chat.Ask(context.Background(), student, "học như thế nào?")
	require.NoError(t, err)

	assert.False(t, outcome.UsedFallback)
	assert.Equal(t, "test-model", outcome.Model)
	assert.Equal(t, "Hãy ôn tập mỗi ngày.", outcome.Text)

	require.NotNil(t, captured.SystemInstruction)
	assert.Contains(t, captured.SystemInstruction.Parts[0].Text, "Bạn là trợ lý học tập bằng tiếng Việt cho sinh viên.")
	require.Len(t, captured.Contents, 1)
	assert.Contains(t, captured.Contents[0].Parts[0].Text, "Câu hỏi: học như thế nào?")
	assert.Equal(t, 0.5, captured.GenerationConfig.Temperature)
	assert.Equal(t, 0.95, captured.GenerationConfig.TopP)
	assert.Equal(t, 512, captured.GenerationConfig.MaxOutputTokens)
}

func TestChatTrimsExternalAnswer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"candidates": []map[string]interface{}{
				{
					"content":      map[string]interface{}{"parts": []map[string]string{{"text": "  Hãy ôn tập.\n"}}},
					"finishReason": "STOP",
				},
			},
		})
	}))
	defer server.Close()

	chat, student := newChatService(t, config.AIConfig{
		BaseURL:        server.URL,
		APIKey:         "test-key",
		Model:          "test-model",
		TimeoutSeconds: 5,
	})

	outcome, err := chat.Ask(context.Background(), student, "học như thế nào?")
	require.NoError(t, err)

	assert.False(t, outcome.UsedFallback)
	assert.Equal(t, "Hãy ôn tập.", outcome.Text)
}

func TestChatFallsBackOnSafetyBlock(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"candidates": []map[string]interface{}{
				{
					"content":      map[string]interface{}{"parts": []map[string]string{}},
					"finishReason": "SAFETY",
				},
			},
		})
	}))
	defer server.Close()

	chat, student := newChatService(t, config.AIConfig{
		BaseURL:        server.URL,
		APIKey:         "test-key",
		Model:          "test-model",
		TimeoutSeconds: 5,
	})

	outcome, err := chat.Ask(context.Background(), student, "học như thế nào?")
	require.NoError(t, err)

	assert.True(t, outcome.UsedFallback)
	assert.Equal(t, "rule-based", outcome.Model)
	assert.NotEmpty(t, outcome.Text)
}

func TestChatFallsBackOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]interface{}{"code": 500, "message": "boom"},
		})
	}))
	defer server.Close()

	chat, student := newChatService(t, config.AIConfig{
		BaseURL:        server.URL,
		APIKey:         "test-key",
		Model:          "test-model",
		TimeoutSeconds: 5,
	})

	outcome, err := chat.Ask(context.Background(), student, "gợi ý học tập")
	require.NoError(t, err)

	assert.True(t, outcome.UsedFallback)
	assert.Equal(t, "Để cải thiện điểm số, bạn nên ôn lại kiến thức cốt lõi, làm thêm bài tập tự luyện và trao đổi với giảng viên khi gặp khó khăn.", outcome.Text)
}

func TestGeminiNotConfigured(t *testing.T) {
	gemini := NewGeminiService(config.AIConfig{TimeoutSeconds: 1})
	_, err := gemini.Generate(context.Background(), "sys", "hi")
	assert.ErrorIs(t, err, ErrAINotConfigured)
}

func TestGeminiPromptFeedbackBlock(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"promptFeedback": map[string]string{"blockReason": "SAFETY"},
		})
	}))
	defer server.Close()

	gemini := NewGeminiService(config.AIConfig{
		BaseURL:        server.URL,
		APIKey:         "k",
		Model:          "m",
		TimeoutSeconds: 5,
	})
	_, err := gemini.Generate(context.Background(), "", "hi")
	assert.ErrorIs(t, err, ErrAIBlocked)
}

func TestGeminiEmptyCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"candidates": []interface{}{}})
	}))
	defer server.Close()

	gemini := NewGeminiService(config.AIConfig{
		BaseURL:        server.URL,
		APIKey:         "k",
		Model:          "m",
		TimeoutSeconds: 5,
	})
	_, err := gemini.Generate(context.Background(), "", "hi")
	assert.ErrorIs(t, err, ErrAIEmpty)
}

func TestGeminiWhitespaceOnlyAnswer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"candidates": []map[string]interface{}{
				{
					"content":      map[string]interface{}{"parts": []map[string]string{{"text": " \n\t "}}},
					"finishReason": "STOP",
				},
			},
		})
	}))
	defer server.Close()

	gemini := NewGeminiService(config.AIConfig{
		BaseURL:        server.URL,
		APIKey:         "k",
		Model:          "m",
		TimeoutSeconds: 5,
	})
	_, err := gemini.Generate(context.Background(), "", "hi")
	assert.ErrorIs(t, err, ErrAIEmpty)
}

func TestGeminiUpdateConfig(t *testing.T) {
	gemini := NewGeminiService(config.AIConfig{Model: "old", TimeoutSeconds: 5})
	assert.False(t, gemini.Configured())

	gemini.UpdateConfig(config.AIConfig{APIKey: "k", Model: "new", TimeoutSeconds: 10})
	assert.True(t, gemini.Configured())
	assert.Equal(t, "new", gemini.Model())
}
