package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

const version = "0.3.0"

// Exit codes. Finding comments is not a failure.
const (
	ExitSuccess    = 0
	ExitError      = 1
	ExitUsageError = 2
)

// app holds the streams and flag values of one invocation.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	// stdinIsTerminal reports whether nothing was piped in.
	stdinIsTerminal func() bool

	exitCode int

	flagContext    string
	flagGuidelines string
	flagJSON       bool
	flagRedact     bool
	flagProvider   string
	flagModel      string
	flagBaseURL    string
	flagLogLevel   string
	flagMaxTokens  int
}

// Run executes the command line of the current process and returns an exit code.
func Run() int {
	a := &app{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		stdinIsTerminal: func() bool {
			fd := os.Stdin.Fd()
			return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return a.execute(ctx, os.Args[1:])
}

func (a *app) execute(ctx context.Context, args []string) int {
	a.exitCode = ExitSuccess

	root := a.newRootCmd()
	root.SetArgs(args)
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		// Cobra already prints the error
		return ExitUsageError
	}
	return a.exitCode
}

func (a *app) newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "code-reviewer",
		Short: "Review a git diff with an LLM",
		Long: "code-reviewer reads a unified diff from stdin, asks an LLM provider for a review " +
			"and prints the comments.\n\n  git diff | code-reviewer -c \"fixes the retry loop\"",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.runReview(cmd.Context())
			return nil
		},
	}

	root.Flags().StringVarP(&a.flagContext, "context", "c", "", "Short description of the change")
	root.Flags().StringVarP(&a.flagGuidelines, "guidelines", "g", "", "File with additional review guidelines")
	root.Flags().BoolVar(&a.flagJSON, "json", false, "Print comments as JSON")
	root.Flags().BoolVar(&a.flagRedact, "redact", false, "Mask secrets in the diff before sending it")

	pf := root.PersistentFlags()
	pf.StringVar(&a.flagProvider, "provider", "", "LLM provider (local, openai, anthropic)")
	pf.StringVar(&a.flagModel, "model", "", "Model name")
	pf.StringVar(&a.flagBaseURL, "base-url", "", "Chat-completions endpoint for local or openai")
	pf.StringVar(&a.flagLogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	pf.IntVar(&a.flagMaxTokens, "max-tokens", 0, "Maximum tokens in the model reply")

	root.AddCommand(a.newConfigCmd())
	root.AddCommand(a.newVersionCmd())
	return root
}

func (a *app) buildOverrides() map[string]string {
	m := make(map[string]string)
	if a.flagProvider != "" {
		m["provider"] = a.flagProvider
	}
	if a.flagModel != "" {
		m["model"] = a.flagModel
	}
	if a.flagBaseURL != "" {
		m["baseURL"] = a.flagBaseURL
	}
	if a.flagLogLevel != "" {
		m["logLevel"] = a.flagLogLevel
	}
	if a.flagMaxTokens != 0 {
		m["maxTokens"] = strconv.Itoa(a.flagMaxTokens)
	}
	return m
}

// fail prints err the way every handler does and records the exit code.
func (a *app) fail(err error) {
	fmt.Fprintf(a.stderr, "Error: %v\n", err)
	a.exitCode = ExitError
}

func (a *app) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print code-reviewer version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.stdout, "code-reviewer version %s\n", version)
		},
	}
}
