package providers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dshills/code-reviewer/internal/config"
	"go.uber.org/zap"
)

const chatCompletionBody = `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "created": 1700000000,
  "model": "llama3",
  "choices": [
    {"index": 0, "message": {"role": "assistant", "content": "[]"}, "finish_reason": "stop"}
  ],
  "usage": {"prompt_tokens": 10, "completion_tokens": 2, "total_tokens": 12}
}`

type capturedRequest struct {
	Path          string
	Authorization string
	Body          map[string]any
}

func newChatServer(t *testing.T, status int, body string) (*httptest.Server, *capturedRequest) {
	t.Helper()
	captured := &capturedRequest{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.Path = r.URL.Path
		captured.Authorization = r.Header.Get("Authorization")
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &captured.Body)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server, captured
}

func TestChatCompletions_Review(t *testing.T) {
	server, captured := newChatServer(t, http.StatusOK, chatCompletionBody)

	cfg := config.Config{
		Provider: config.ProviderLocal,
		Model:    "llama3",
		BaseURL:  server.URL + "/v1",
		APIKey:   config.LocalAPIKey,
	}
	c, err := NewChatCompletions(cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("NewChatCompletions error: %v", err)
	}

	resp, err := c.Review(context.Background(), ReviewRequest{
		SystemPrompt: "system text",
		UserPrompt:   "user text",
		MaxTokens:    100,
	})
	if err != nil {
		t.Fatalf("Review error: %v", err)
	}
	if resp.Content != "[]" {
		t.Errorf("Content = %q, want %q", resp.Content, "[]")
	}

	if captured.Path != "/v1/chat/completions" {
		t.Errorf("Path = %q, want /v1/chat/completions", captured.Path)
	}
	if captured.Authorization != "Bearer "+config.LocalAPIKey {
		t.Errorf("Authorization = %q", captured.Authorization)
	}
	if captured.Body["model"] != "llama3" {
		t.Errorf("model = %v, want llama3", captured.Body["model"])
	}

	messages, ok := captured.Body["messages"].([]any)
	if !ok || len(messages) != 2 {
		t.Fatalf("messages = %v, want 2 entries", captured.Body["messages"])
	}
	raw, _ := json.Marshal(messages)
	if !strings.Contains(string(raw), "system text") || !strings.Contains(string(raw), "user text") {
		t.Errorf("messages do not carry both prompts: %s", raw)
	}
}

func TestChatCompletions_APIErrorNotRetried(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"message":"model crashed","type":"server_error"}}`))
	}))
	defer server.Close()

	c, err := NewChatCompletions(config.Config{
		Provider: config.ProviderOpenAI,
		Model:    "gpt-4o",
		BaseURL:  server.URL,
		APIKey:   "sk-test",
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewChatCompletions error: %v", err)
	}

	_, err = c.Review(context.Background(), ReviewRequest{SystemPrompt: "s", UserPrompt: "u"})
	if err == nil {
		t.Fatal("Expected error for 500 response")
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1 (no retry)", attempts)
	}
}

func TestChatCompletions_Name(t *testing.T) {
	for _, provider := range []string{config.ProviderLocal, config.ProviderOpenAI} {
		c, err := NewChatCompletions(config.Config{
			Provider: provider,
			Model:    "m",
			APIKey:   "k",
		}, zap.NewNop())
		if err != nil {
			t.Fatalf("NewChatCompletions(%s) error: %v", provider, err)
		}
		if c.Name() != provider {
			t.Errorf("Name() = %q, want %q", c.Name(), provider)
		}
	}
}

func TestChatCompletions_DefaultBaseURL(t *testing.T) {
	c, err := NewChatCompletions(config.Config{
		Provider: config.ProviderOpenAI,
		Model:    "gpt-4o",
		APIKey:   "sk-test",
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewChatCompletions error: %v", err)
	}
	if c.baseURL != defaultOpenAIBaseURL {
		t.Errorf("baseURL = %q, want %q", c.baseURL, defaultOpenAIBaseURL)
	}
}

func TestTotalTokens(t *testing.T) {
	tests := []struct {
		info map[string]any
		want int
	}{
		{nil, 0},
		{map[string]any{"TotalTokens": 12}, 12},
		{map[string]any{"TotalTokens": int64(7)}, 7},
		{map[string]any{"TotalTokens": float64(3)}, 3},
		{map[string]any{"TotalTokens": "nope"}, 0},
	}
	for _, tt := range tests {
		if got := totalTokens(tt.info); got != tt.want {
			t.Errorf("totalTokens(%v) = %d, want %d", tt.info, got, tt.want)
		}
	}
}
