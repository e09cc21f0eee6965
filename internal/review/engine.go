package review

import (
	"context"
	"fmt"
	"time"

	"github.com/dshills/code-reviewer/internal/providers"
	"go.uber.org/zap"
)

// Input is everything one review needs besides the provider.
type Input struct {
	Diff       string
	Context    string
	Guidelines string
	MaxTokens  int
}

// Run sends the diff to reviewer once and parses the reply. It does not retry
// or repair: provider and parse failures are returned wrapped.
func Run(ctx context.Context, reviewer providers.Reviewer, in Input, log *zap.Logger) ([]Comment, error) {
	if log == nil {
		log = zap.NewNop()
	}

	req := providers.ReviewRequest{
		SystemPrompt: SystemPrompt(in.Guidelines),
		UserPrompt:   UserPrompt(in.Diff, in.Context),
		MaxTokens:    in.MaxTokens,
	}

	start := time.Now()
	resp, err := reviewer.Review(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%s review: %w", reviewer.Name(), err)
	}
	log.Debug("review response received",
		zap.String("provider", reviewer.Name()),
		zap.Int("tokens", resp.TokensUsed),
		zap.Int("chars", len(resp.Content)),
		zap.Duration("took", time.Since(start)),
	)

	comments, err := ParseComments(resp.Content)
	if err != nil {
		return nil, fmt.Errorf("parsing %s response: %w", reviewer.Name(), err)
	}
	log.Debug("review parsed", zap.Int("comments", len(comments)))
	return comments, nil
}
