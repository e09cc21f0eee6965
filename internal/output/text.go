package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dshills/code-reviewer/internal/review"
	"github.com/fatih/color"
)

// TextWriter prints one block per comment:
//
//	  ✘ [error] main.go:12
//	    message
type TextWriter struct {
	// Color enables ANSI colours on the glyph and severity.
	Color bool
}

func (t *TextWriter) Write(w io.Writer, comments []review.Comment) error {
	ew := &errWriter{w: w}

	if len(comments) == 0 {
		ew.println("No issues found.")
		return ew.err
	}

	var b strings.Builder
	for _, c := range comments {
		label := fmt.Sprintf("%s [%s]", severityGlyph(c.Severity), c.Severity)
		fmt.Fprintf(&b, "  %s %s\n", t.paint(c.Severity, label), location(c))
		fmt.Fprintf(&b, "    %s\n\n", c.Comment)
	}
	ew.println(strings.TrimRight(b.String(), "\n"))
	return ew.err
}

func (t *TextWriter) paint(sev review.Severity, s string) string {
	c := color.New(severityColor(sev))
	if t.Color {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c.Sprint(s)
}

// errWriter wraps an io.Writer and captures the first error.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) println(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintln(ew.w, s)
}

func location(c review.Comment) string {
	if c.Line == nil {
		return c.File
	}
	return c.File + ":" + strconv.Itoa(*c.Line)
}

func severityGlyph(s review.Severity) string {
	switch s {
	case review.SeverityError:
		return "✘"
	case review.SeverityWarning:
		return "⚠"
	case review.SeveritySuggestion:
		return "○"
	case review.SeverityNitpick:
		return "·"
	default:
		return "?"
	}
}

func severityColor(s review.Severity) color.Attribute {
	switch s {
	case review.SeverityError:
		return color.FgRed
	case review.SeverityWarning:
		return color.FgYellow
	case review.SeveritySuggestion:
		return color.FgCyan
	default:
		return color.FgWhite
	}
}
