package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ppiankov/ecosnap/internal/apiclient"
	"github.com/ppiankov/ecosnap/internal/model"
	"github.com/sashabaranov/go-openai"
)

func testConfig(baseURL string) model.LLMConfig {
	return model.LLMConfig{
		Model:        "gpt-4-turbo",
		APIKey:       "test-key",
		BaseURL:      baseURL,
		SystemPrompt: "Summarize.",
		Timeout:      5 * time.Second,
	}
}

func TestChat_Post_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("Expected path /chat/completions, got %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("Expected Authorization header Bearer test-key, got %s", r.Header.Get("Authorization"))
		}

		var req openai.ChatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Model != "gpt-4-turbo" {
			t.Errorf("Expected model gpt-4-turbo, got %s", req.Model)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != openai.ChatMessageRoleSystem || req.Messages[1].Content != "notes" {
			t.Errorf("Unexpected messages: %+v", req.Messages)
		}

		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			Model: "gpt-4-turbo",
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Role: "assistant", Content: "  Shipped v1.  "}},
			},
			Usage: openai.Usage{PromptTokens: 10, CompletionTokens: 4, TotalTokens: 14},
		})
	}))
	defer server.Close()

	chat, err := NewChat(testConfig(server.URL), apiclient.ProxyConfig{})
	if err != nil {
		t.Fatalf("NewChat failed: %v", err)
	}

	got, err := chat.Post(context.Background(), "notes")
	if err != nil {
		t.Fatalf("Post failed: %v", err)
	}
	if got != "Shipped v1." {
		t.Errorf("Unexpected reply: %q", got)
	}
}

func TestChat_Post_NoHistory(t *testing.T) {
	var sizes []int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req openai.ChatCompletionRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		sizes = append(sizes, len(req.Messages))
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: "ok"}}},
		})
	}))
	defer server.Close()

	chat, err := NewChat(testConfig(server.URL), apiclient.ProxyConfig{})
	if err != nil {
		t.Fatalf("NewChat failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := chat.Post(context.Background(), "again"); err != nil {
			t.Fatalf("Post %d failed: %v", i, err)
		}
	}
	for i, n := range sizes {
		if n != 2 {
			t.Errorf("request %d carried %d messages, want 2", i, n)
		}
	}
}

func TestChat_Post_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "Invalid API key", "type": "invalid_request_error"},
		})
	}))
	defer server.Close()

	chat, err := NewChat(testConfig(server.URL), apiclient.ProxyConfig{})
	if err != nil {
		t.Fatalf("NewChat failed: %v", err)
	}
	if _, err := chat.Post(context.Background(), "notes"); err == nil {
		t.Fatal("Expected error for 401 response")
	}
}

func TestChat_Post_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{})
	}))
	defer server.Close()

	chat, _ := NewChat(testConfig(server.URL), apiclient.ProxyConfig{})
	if _, err := chat.Post(context.Background(), "notes"); err == nil {
		t.Fatal("Expected error when no choices are returned")
	}
}

func TestNewChat_RequiresAPIKey(t *testing.T) {
	cfg := testConfig("")
	cfg.APIKey = ""
	if _, err := NewChat(cfg, apiclient.ProxyConfig{}); err != ErrNoAPIKey {
		t.Errorf("Expected ErrNoAPIKey, got %v", err)
	}
}

func TestNewChat_DefaultModel(t *testing.T) {
	cfg := testConfig("")
	cfg.Model = ""
	chat, err := NewChat(cfg, apiclient.ProxyConfig{})
	if err != nil {
		t.Fatalf("NewChat failed: %v", err)
	}
	if chat.Model() != "gpt-4-turbo" {
		t.Errorf("Expected default model gpt-4-turbo, got %s", chat.Model())
	}
}
