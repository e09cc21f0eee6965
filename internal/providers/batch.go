package providers

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// batchCustomID tags the single request item of every batch job.
const batchCustomID = "review"

// resultSucceeded is the only result status that carries text.
const resultSucceeded = "succeeded"

// batchJob is the state of a submitted job as last observed.
type batchJob struct {
	ID    string
	Ended bool
}

// batchResult is one per-request outcome of an ended job.
type batchResult struct {
	CustomID   string
	Status     string
	Text       string
	TokensUsed int
}

// batchAPI is the subset of a message-batch service the poller needs.
type batchAPI interface {
	Submit(ctx context.Context, customID string, req ReviewRequest) (batchJob, error)
	Status(ctx context.Context, id string) (batchJob, error)
	Results(ctx context.Context, id string) ([]batchResult, error)
}

// BatchTimeoutError reports a job that did not end within the wait ceiling.
type BatchTimeoutError struct {
	ID      string
	MaxWait time.Duration
}

func (e *BatchTimeoutError) Error() string {
	return fmt.Sprintf("batch %s did not complete within %s", e.ID, formatSeconds(e.MaxWait))
}

// BatchNoResultsError reports an ended job with an empty result set.
type BatchNoResultsError struct {
	ID string
}

func (e *BatchNoResultsError) Error() string {
	return fmt.Sprintf("batch %s returned no results", e.ID)
}

// BatchResultError reports a result whose status is not "succeeded".
type BatchResultError struct {
	ID     string
	Status string
}

func (e *BatchResultError) Error() string {
	return fmt.Sprintf("batch %s request failed with status %q", e.ID, e.Status)
}

// BatchPoller drives one job from submission to its single result.
type BatchPoller struct {
	api      batchAPI
	interval time.Duration
	maxWait  time.Duration
	sleep    func(context.Context, time.Duration) error
	log      *zap.Logger
}

func newBatchPoller(api batchAPI, interval, maxWait time.Duration, log *zap.Logger) *BatchPoller {
	return &BatchPoller{
		api:      api,
		interval: interval,
		maxWait:  maxWait,
		sleep:    sleepContext,
		log:      log,
	}
}

// Run submits req as a one-item job, waits for it to end and returns the
// text of its result. Total time spent sleeping never exceeds maxWait.
func (p *BatchPoller) Run(ctx context.Context, req ReviewRequest) (ReviewResponse, error) {
	job, err := p.api.Submit(ctx, batchCustomID, req)
	if err != nil {
		return ReviewResponse{}, fmt.Errorf("creating batch: %w", err)
	}
	id := job.ID
	log := p.log.With(zap.String("batch_id", id))
	log.Debug("batch submitted")

	var elapsed time.Duration
	for {
		job, err = p.api.Status(ctx, id)
		if err != nil {
			return ReviewResponse{}, fmt.Errorf("checking batch %s: %w", id, err)
		}
		if job.Ended {
			break
		}
		if elapsed >= p.maxWait {
			return ReviewResponse{}, &BatchTimeoutError{ID: id, MaxWait: p.maxWait}
		}
		log.Debug("batch pending", zap.Duration("elapsed", elapsed))
		if err := p.sleep(ctx, p.interval); err != nil {
			return ReviewResponse{}, err
		}
		elapsed += p.interval
	}
	log.Debug("batch ended", zap.Duration("elapsed", elapsed))

	results, err := p.api.Results(ctx, id)
	if err != nil {
		return ReviewResponse{}, fmt.Errorf("fetching results of batch %s: %w", id, err)
	}
	if len(results) == 0 {
		return ReviewResponse{}, &BatchNoResultsError{ID: id}
	}

	result := pickResult(results)
	if result.Status != resultSucceeded {
		return ReviewResponse{}, &BatchResultError{ID: id, Status: result.Status}
	}
	return ReviewResponse{Content: result.Text, TokensUsed: result.TokensUsed}, nil
}

// pickResult prefers the item tagged with batchCustomID.
func pickResult(results []batchResult) batchResult {
	for _, r := range results {
		if r.CustomID == batchCustomID {
			return r
		}
	}
	return results[0]
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func formatSeconds(d time.Duration) string {
	if d%time.Second == 0 {
		return fmt.Sprintf("%ds", int64(d/time.Second))
	}
	return d.String()
}
