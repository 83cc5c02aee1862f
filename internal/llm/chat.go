// Package llm wraps an OpenAI-compatible chat completion endpoint.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/ppiankov/ecosnap/internal/apiclient"
	"github.com/ppiankov/ecosnap/internal/logging"
	"github.com/ppiankov/ecosnap/internal/model"
	"github.com/sashabaranov/go-openai"
)

// ErrNoAPIKey is returned when the chat is built without credentials.
var ErrNoAPIKey = errors.New("OpenAI API key is required (set llm.api_key or OPENAI_API_KEY)")

// Chat sends single messages under a fixed system prompt. History is not
// kept: every Post is a fresh two-message conversation.
type Chat struct {
	client *openai.Client
	cfg    model.LLMConfig
}

// NewChat creates a chat client. A custom BaseURL points it at any
// OpenAI-compatible server.
func NewChat(cfg model.LLMConfig, proxy apiclient.ProxyConfig) (*Chat, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	if cfg.Model == "" {
		cfg.Model = model.DefaultConfig().LLM.Model
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	clientConfig.HTTPClient = &http.Client{
		Timeout:   cfg.Timeout,
		Transport: &http.Transport{Proxy: proxy.ProxyFunc()},
	}

	return &Chat{client: openai.NewClientWithConfig(clientConfig), cfg: cfg}, nil
}

// Model returns the model name requests are sent to.
func (c *Chat) Model() string {
	return c.cfg.Model
}

// Post sends message as the user and returns the first choice's content.
func (c *Chat) Post(ctx context.Context, message string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: c.cfg.SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: message},
		},
		MaxTokens: c.cfg.MaxTokens,
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	logging.FromContext(ctx).Info().
		Str("model", resp.Model).
		Int("prompt_tokens", resp.Usage.PromptTokens).
		Int("completion_tokens", resp.Usage.CompletionTokens).
		Int("total_tokens", resp.Usage.TotalTokens).
		Msg("chat usage")

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from %s", c.cfg.Model)
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
