package providers

import (
	"context"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/dshills/code-reviewer/internal/config"
	"go.uber.org/zap"
)

// AnthropicBatch implements the Reviewer interface on Anthropic's Message
// Batches API.
type AnthropicBatch struct {
	poller *BatchPoller
}

// NewAnthropicBatch creates the batch backend. SDK retries are disabled.
// Only cfg.Batch.BaseURL can redirect it; cfg.BaseURL belongs to the chat
// backends.
func NewAnthropicBatch(cfg config.Config, log *zap.Logger) (*AnthropicBatch, error) {
	if log == nil {
		log = zap.NewNop()
	}
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.Batch.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.Batch.BaseURL))
	}
	if cfg.HTTPTimeout > 0 {
		opts = append(opts, option.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}))
	}

	api := &sdkBatches{
		client: anthropic.NewClient(opts...),
		model:  cfg.Model,
	}
	log = log.With(zap.String("provider", config.ProviderAnthropic), zap.String("model", cfg.Model))

	return &AnthropicBatch{
		poller: newBatchPoller(api, cfg.Batch.PollInterval, cfg.Batch.MaxWait, log),
	}, nil
}

func (a *AnthropicBatch) Name() string { return config.ProviderAnthropic }

func (a *AnthropicBatch) Review(ctx context.Context, req ReviewRequest) (ReviewResponse, error) {
	if req.MaxTokens == 0 {
		req.MaxTokens = 4096
	}
	return a.poller.Run(ctx, req)
}

// sdkBatches adapts the SDK batch service to batchAPI.
type sdkBatches struct {
	client anthropic.Client
	model  string
}

func (s *sdkBatches) Submit(ctx context.Context, customID string, req ReviewRequest) (batchJob, error) {
	params := anthropic.MessageBatchNewParams{
		Requests: []anthropic.MessageBatchNewParamsRequest{{
			CustomID: customID,
			Params: anthropic.MessageBatchNewParamsRequestParams{
				Model:     anthropic.Model(s.model),
				MaxTokens: int64(req.MaxTokens),
				System:    []anthropic.TextBlockParam{{Text: req.SystemPrompt}},
				Messages: []anthropic.MessageParam{
					anthropic.NewUserMessage(anthropic.NewTextBlock(req.UserPrompt)),
				},
			},
		}},
	}

	batch, err := s.client.Messages.Batches.New(ctx, params)
	if err != nil {
		return batchJob{}, err
	}
	return jobFromSDK(batch), nil
}

func (s *sdkBatches) Status(ctx context.Context, id string) (batchJob, error) {
	batch, err := s.client.Messages.Batches.Get(ctx, id)
	if err != nil {
		return batchJob{}, err
	}
	return jobFromSDK(batch), nil
}

func (s *sdkBatches) Results(ctx context.Context, id string) ([]batchResult, error) {
	stream := s.client.Messages.Batches.ResultsStreaming(ctx, id)
	defer stream.Close()

	var results []batchResult
	for stream.Next() {
		item := stream.Current()
		r := batchResult{
			CustomID: item.CustomID,
			Status:   string(item.Result.Type),
		}
		if r.Status == resultSucceeded {
			msg := item.Result.Message
			r.Text = messageText(msg.Content)
			r.TokensUsed = int(msg.Usage.InputTokens + msg.Usage.OutputTokens)
		}
		results = append(results, r)
	}
	if err := stream.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func jobFromSDK(b *anthropic.MessageBatch) batchJob {
	return batchJob{
		ID:    b.ID,
		Ended: b.ProcessingStatus == anthropic.MessageBatchProcessingStatusEnded,
	}
}

func messageText(blocks []anthropic.ContentBlockUnion) string {
	var b strings.Builder
	for _, block := range blocks {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	return b.String()
}
