package review

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dshills/code-reviewer/internal/providers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubReviewer records the request and replies with a canned response.
type stubReviewer struct {
	content string
	err     error
	got     []providers.ReviewRequest
}

func (s *stubReviewer) Name() string { return "stub" }

func (s *stubReviewer) Review(_ context.Context, req providers.ReviewRequest) (providers.ReviewResponse, error) {
	s.got = append(s.got, req)
	if s.err != nil {
		return providers.ReviewResponse{}, s.err
	}
	return providers.ReviewResponse{Content: s.content}, nil
}

func TestRun_BuildsPromptsAndParses(t *testing.T) {
	stub := &stubReviewer{content: `[{"file":"x.py","line":5,"severity":"warning","comment":"issue"}]`}

	comments, err := Run(context.Background(), stub, Input{
		Diff:       "+ diff content",
		Context:    "test context",
		Guidelines: "check for XSS",
		MaxTokens:  4096,
	}, nil)
	require.NoError(t, err)

	require.Len(t, comments, 1)
	assert.Equal(t, "x.py", comments[0].File)
	assert.Equal(t, SeverityWarning, comments[0].Severity)

	require.Len(t, stub.got, 1, "exactly one provider call")
	req := stub.got[0]
	assert.True(t, strings.HasSuffix(req.SystemPrompt, "check for XSS"))
	assert.Contains(t, req.UserPrompt, "Context: test context")
	assert.Contains(t, req.UserPrompt, "```diff\n+ diff content\n```")
	assert.Equal(t, 4096, req.MaxTokens)
}

func TestRun_NoFindingsInProse(t *testing.T) {
	stub := &stubReviewer{content: "The change looks correct; I have no concerns."}

	comments, err := Run(context.Background(), stub, Input{Diff: "+ x"}, nil)
	require.NoError(t, err)
	assert.Empty(t, comments)
}

func TestRun_ProviderErrorPropagates(t *testing.T) {
	boom := errors.New("connection refused")
	stub := &stubReviewer{err: boom}

	_, err := Run(context.Background(), stub, Input{Diff: "+ x"}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Len(t, stub.got, 1, "no retry")
}

func TestRun_BatchErrorsStayTyped(t *testing.T) {
	stub := &stubReviewer{err: &providers.BatchNoResultsError{ID: "batch_9"}}

	_, err := Run(context.Background(), stub, Input{Diff: "+ x"}, nil)

	var noResults *providers.BatchNoResultsError
	require.True(t, errors.As(err, &noResults))
	assert.Equal(t, "batch_9", noResults.ID)
}

func TestRun_MalformedResponse(t *testing.T) {
	stub := &stubReviewer{content: `Here you go: [{"file": "a.go", "comment": }]`}

	_, err := Run(context.Background(), stub, Input{Diff: "+ x"}, nil)
	assert.ErrorIs(t, err, ErrMalformedResponse)
	assert.Len(t, stub.got, 1, "no repair pass")
}
