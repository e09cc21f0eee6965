package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dshills/code-reviewer/internal/config"
	"github.com/dshills/code-reviewer/internal/logging"
	"github.com/dshills/code-reviewer/internal/output"
	"github.com/dshills/code-reviewer/internal/providers"
	"github.com/dshills/code-reviewer/internal/redact"
	"github.com/dshills/code-reviewer/internal/review"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// dotEnvFile is loaded from the working directory when present.
const dotEnvFile = ".env"

func (a *app) runReview(ctx context.Context) {
	if a.stdinIsTerminal != nil && a.stdinIsTerminal() {
		fmt.Fprintln(a.stderr, "Error: No diff provided. Pipe a git diff into this command.")
		fmt.Fprintln(a.stderr, "  Example: git diff | code-reviewer")
		a.exitCode = ExitError
		return
	}

	data, err := io.ReadAll(a.stdin)
	if err != nil {
		a.fail(fmt.Errorf("reading stdin: %w", err))
		return
	}
	diff := strings.TrimSpace(string(data))
	if diff == "" {
		fmt.Fprintln(a.stderr, "Error: Empty diff.")
		a.exitCode = ExitError
		return
	}

	var guidelines string
	if a.flagGuidelines != "" {
		b, err := os.ReadFile(a.flagGuidelines)
		if err != nil {
			a.fail(fmt.Errorf("reading guidelines: %w", err))
			return
		}
		guidelines = string(b)
	}

	cfg, err := a.loadConfig()
	if err != nil {
		a.fail(err)
		return
	}

	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		a.fail(fmt.Errorf("creating logger: %w", err))
		return
	}
	defer func() { _ = log.Sync() }()
	log = log.With(zap.String("run_id", uuid.NewString()))
	log.Debug("configuration resolved",
		zap.String("provider", cfg.Provider),
		zap.String("model", cfg.Model),
		zap.String("base_url", cfg.BaseURL),
	)

	if a.flagRedact {
		var n int
		diff, n = redact.Diff(diff, redact.DefaultPaths)
		log.Info("diff redacted", zap.Int("redactions", n))
	}

	reviewer, err := providers.New(cfg, log)
	if err != nil {
		a.fail(err)
		return
	}

	comments, err := review.Run(ctx, reviewer, review.Input{
		Diff:       diff,
		Context:    a.flagContext,
		Guidelines: guidelines,
		MaxTokens:  cfg.MaxTokens,
	}, log)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			log.Warn("review interrupted")
		}
		a.fail(err)
		return
	}

	format := output.FormatText
	if a.flagJSON {
		format = output.FormatJSON
	}
	if err := output.WriteComments(a.stdout, comments, format); err != nil {
		a.fail(fmt.Errorf("writing output: %w", err))
	}
}

// loadConfig resolves the configuration from .env, the environment and flags.
func (a *app) loadConfig() (config.Config, error) {
	if err := config.LoadDotEnv(dotEnvFile); err != nil {
		return config.Config{}, err
	}
	return config.Load(a.buildOverrides())
}
