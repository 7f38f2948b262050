package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mikey/conf-reminder/internal/config"
	"github.com/mikey/conf-reminder/internal/deadline"
	"github.com/mikey/conf-reminder/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestAssistant(t *testing.T, handler http.HandlerFunc) *Assistant {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger := zap.NewNop()
	f := NewFactory(config.OpenAIConfig{
		APIKey:      "test-key",
		BaseURL:     server.URL + "/v1",
		ModelName:   "gpt-4o-mini",
		MaxTokens:   256,
		MaxBodySize: 64,
	}, logger, utils.NewTextProcessor(logger))

	a, err := f.CreateAssistant()
	require.NoError(t, err)
	return a
}

func completion(content string) map[string]any {
	return map[string]any{
		"id":     "chatcmpl-1",
		"object": "chat.completion",
		"model":  "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
	}
}

func TestAssistant_ExtractDeadlines(t *testing.T) {
	var got struct {
		Model          string `json:"model"`
		ResponseFormat struct {
			Type string `json:"type"`
		} `json:"response_format"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}

	a := newTestAssistant(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(completion(
			`Sure! {"submission_deadline": {"date_str": "Sep 20, 2024", "tz_str": "aoe"}, "keynote": {"date_str": "x"}}`))
	})

	found, err := a.ExtractDeadlines(context.Background(), "Papers are due Sep 20, 2024 (AoE)")
	require.NoError(t, err)

	assert.Equal(t, map[deadline.Type]deadline.Extracted{
		deadline.SubmissionDeadline: {DateStr: "Sep 20, 2024", TZStr: "AOE"},
	}, found)

	assert.Equal(t, "gpt-4o-mini", got.Model)
	assert.Equal(t, "json_object", got.ResponseFormat.Type)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Contains(t, got.Messages[1].Content, "Papers are due Sep 20, 2024 (AoE)")
}

func TestAssistant_TruncatesLongBlocks(t *testing.T) {
	var prompt string
	a := newTestAssistant(t, func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		prompt = req.Messages[len(req.Messages)-1].Content
		_ = json.NewEncoder(w).Encode(completion(`{}`))
	})

	long := make([]byte, 500)
	for i := range long {
		long[i] = 'x'
	}
	found, err := a.ExtractDeadlines(context.Background(), string(long))
	require.NoError(t, err)
	assert.Empty(t, found)
	assert.Contains(t, prompt, "[... Content truncated due to size limits ...]")
	assert.NotContains(t, prompt, string(long))
}

func TestAssistant_Errors(t *testing.T) {
	t.Run("no choices", func(t *testing.T) {
		a := newTestAssistant(t, func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{"id": "x", "choices": []any{}})
		})
		_, err := a.ExtractDeadlines(context.Background(), "text")
		assert.ErrorContains(t, err, "empty response")
	})

	t.Run("not json", func(t *testing.T) {
		a := newTestAssistant(t, func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(completion("no deadlines here"))
		})
		_, err := a.ExtractDeadlines(context.Background(), "text")
		assert.ErrorContains(t, err, "failed to parse OpenAI response")
	})

	t.Run("api error", func(t *testing.T) {
		a := newTestAssistant(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error": {"message": "bad key", "type": "invalid_request_error"}}`))
		})
		_, err := a.ExtractDeadlines(context.Background(), "text")
		assert.ErrorContains(t, err, "failed to create chat completion")
	})
}

func TestFactory_RequiresAPIKey(t *testing.T) {
	_, err := NewFactory(config.OpenAIConfig{}, zap.NewNop(), utils.NewTextProcessor(zap.NewNop())).CreateAssistant()
	assert.Error(t, err)
}
