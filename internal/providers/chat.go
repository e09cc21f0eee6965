package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/dshills/code-reviewer/internal/config"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

// ChatCompletions implements the Reviewer interface for OpenAI-compatible
// chat-completions endpoints.
type ChatCompletions struct {
	name    string
	model   string
	baseURL string
	llm     llms.Model
	log     *zap.Logger
}

// NewChatCompletions creates a chat-completions backend for the local or
// openai provider. A zero cfg.HTTPTimeout means no client timeout.
func NewChatCompletions(cfg config.Config, log *zap.Logger) (*ChatCompletions, error) {
	if log == nil {
		log = zap.NewNop()
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}

	llm, err := openai.New(
		openai.WithModel(cfg.Model),
		openai.WithToken(cfg.APIKey),
		openai.WithBaseURL(baseURL),
		openai.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s client: %w", cfg.Provider, err)
	}

	return &ChatCompletions{
		name:    cfg.Provider,
		model:   cfg.Model,
		baseURL: baseURL,
		llm:     llm,
		log:     log.With(zap.String("provider", cfg.Provider), zap.String("model", cfg.Model)),
	}, nil
}

func (c *ChatCompletions) Name() string { return c.name }

func (c *ChatCompletions) Review(ctx context.Context, req ReviewRequest) (ReviewResponse, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, req.SystemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, req.UserPrompt),
	}

	var opts []llms.CallOption
	if req.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(req.MaxTokens))
	}

	c.log.Debug("sending chat completion", zap.String("base_url", c.baseURL))
	resp, err := c.llm.GenerateContent(ctx, messages, opts...)
	if err != nil {
		return ReviewResponse{}, err
	}
	if len(resp.Choices) == 0 {
		return ReviewResponse{}, errors.New("no choices in response")
	}

	choice := resp.Choices[0]
	return ReviewResponse{
		Content:    choice.Content,
		TokensUsed: totalTokens(choice.GenerationInfo),
	}, nil
}

func totalTokens(info map[string]any) int {
	switch v := info["TotalTokens"].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
