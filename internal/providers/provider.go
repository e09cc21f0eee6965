package providers

import (
	"context"
	"fmt"

	"github.com/dshills/code-reviewer/internal/config"
	"go.uber.org/zap"
)

// ReviewRequest contains the data sent to an LLM for review.
type ReviewRequest struct {
	SystemPrompt string
	UserPrompt   string
	MaxTokens    int
}

// ReviewResponse contains the raw response from an LLM.
type ReviewResponse struct {
	Content    string
	TokensUsed int
}

// Reviewer is the provider abstraction interface.
type Reviewer interface {
	Review(ctx context.Context, req ReviewRequest) (ReviewResponse, error)
	Name() string
}

// New creates the backend selected by cfg.Provider.
func New(cfg config.Config, log *zap.Logger) (Reviewer, error) {
	if log == nil {
		log = zap.NewNop()
	}
	switch cfg.Provider {
	case config.ProviderLocal, config.ProviderOpenAI:
		return NewChatCompletions(cfg, log)
	case config.ProviderAnthropic:
		return NewAnthropicBatch(cfg, log)
	default:
		return nil, fmt.Errorf("%w: %s", config.ErrUnknownProvider, cfg.Provider)
	}
}
