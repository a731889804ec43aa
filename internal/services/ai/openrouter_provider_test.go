// File: internal/services/ai/openrouter_provider_test.go
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemPrompt(t *testing.T) {
	prompt := SystemPrompt("Chemistry")

	assert.Contains(t, prompt, "**Chemistry**")
	assert.NotContains(t, prompt, "{{subject}}")
	assert.NotContains(t, prompt, "{{fence}}")
	assert.Contains(t, prompt, "```imagePrompt")
	assert.Contains(t, prompt, "```html")
}

type completionRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func newProviderServer(t *testing.T, content string, capture *completionRequest) (*httptest.Server, *OpenRouterProvider) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "https://tutor.example.com", r.Header.Get("HTTP-Referer"))
		assert.Equal(t, "AthenaAI", r.Header.Get("X-Title"))
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		if capture != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(capture))
		}
		resp := map[string]any{
			"id":     "cmpl-1",
			"object": "chat.completion",
			"choices": []map[string]any{
				{
					"index":         0,
					"message":       map[string]any{"role": "assistant", "content": content},
					"finish_reason": "stop",
				},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))

	cfg := DefaultConfig()
	cfg.APIKey = "test-key"
	cfg.BaseURL = srv.URL
	cfg.SiteURL = "https://tutor.example.com"
	cfg.SiteName = "AthenaAI"
	cfg.Timeout = 5 * time.Second
	return srv, NewOpenRouterProvider(cfg)
}

func TestAskSendsSubjectScopedRequest(t *testing.T) {
	var got completionRequest
	srv, provider := newProviderServer(t, "## Answer\n\nBecause physics.", &got)
	defer srv.Close()

	reply, err := provider.Ask(context.Background(), "  Why does ice float?  ", "Physics")
	require.NoError(t, err)
	assert.Equal(t, "## Answer\n\nBecause physics.", reply)

	assert.Equal(t, "deepseek/deepseek-chat-v3-0324:free", got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.True(t, strings.Contains(got.Messages[0].Content, "**Physics**"))
	assert.Equal(t, "user", got.Messages[1].Role)
	assert.Equal(t, "Why does ice float?", got.Messages[1].Content)
}

func TestAskRejectsEmptyQuestion(t *testing.T) {
	srv, provider := newProviderServer(t, "unused", nil)
	defer srv.Close()

	_, err := provider.Ask(context.Background(), "   ", "Physics")
	require.Error(t, err)

	var aiErr *AIError
	require.True(t, errors.As(err, &aiErr))
	assert.Equal(t, ErrTypeValidation, aiErr.Type)
}

func TestAskEmptyChoicesIsProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"cmpl-1","object":"chat.completion","choices":[]}`))
	}))
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.APIKey = "test-key"
	cfg.BaseURL = srv.URL
	provider := NewOpenRouterProvider(cfg)

	_, err := provider.Ask(context.Background(), "question", "Physics")
	require.Error(t, err)

	var aiErr *AIError
	require.True(t, errors.As(err, &aiErr))
	assert.Equal(t, ErrTypeProvider, aiErr.Type)
}

func TestAskUpstreamFailureIsProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"overloaded"}}`, http.StatusBadGateway)
	}))
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.APIKey = "test-key"
	cfg.BaseURL = srv.URL
	provider := NewOpenRouterProvider(cfg)

	_, err := provider.Ask(context.Background(), "question", "Physics")
	require.Error(t, err)

	var aiErr *AIError
	require.True(t, errors.As(err, &aiErr))
	assert.Equal(t, ErrTypeProvider, aiErr.Type)
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	require.Error(t, cfg.Validate(), "missing API key must fail validation")

	cfg.APIKey = "k"
	require.NoError(t, cfg.Validate())
}

func TestStreamAskDeliversDeltas(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		for _, c := range []string{"Iner", "tia."} {
			fmt.Fprintf(w, "data: {\"id\":\"cmpl-1\",\"object\":\"chat.completion.chunk\",\"choices\":[{\"index\":0,\"delta\":{\"content\":%q}}]}\n\n", c)
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.APIKey = "test-key"
	cfg.BaseURL = srv.URL
	provider := NewOpenRouterProvider(cfg)

	var got []string
	err := provider.StreamAsk(context.Background(), "What is inertia?", "Physics", func(d string) error {
		got = append(got, d)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Iner", "tia."}, got)
}

func TestStreamAskRejectsEmptyQuestion(t *testing.T) {
	cfg := DefaultConfig()
	cfg.APIKey = "test-key"
	provider := NewOpenRouterProvider(cfg)

	err := provider.StreamAsk(context.Background(), "   ", "Physics", nil)
	require.Error(t, err)

	var aiErr *AIError
	require.True(t, errors.As(err, &aiErr))
	assert.Equal(t, ErrTypeValidation, aiErr.Type)
}

func TestGetStatusReflectsConfigHealth(t *testing.T) {
	cfg := DefaultConfig()
	cfg.APIKey = "test-key"
	provider := NewOpenRouterProvider(cfg)

	status := provider.GetStatus(context.Background())
	assert.True(t, status.IsHealthy)
	assert.Equal(t, "OpenRouter provider healthy", status.Message)

	broken := DefaultConfig()
	provider = NewOpenRouterProvider(broken)

	status = provider.GetStatus(context.Background())
	assert.False(t, status.IsHealthy)
	assert.Contains(t, status.Message, "OPENROUTER_API_KEY")
}
