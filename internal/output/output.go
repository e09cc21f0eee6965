package output

import (
	"fmt"
	"io"

	"github.com/dshills/code-reviewer/internal/review"
	"github.com/fatih/color"
)

// Format names accepted by GetWriter.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Writer writes review comments in a specific format.
type Writer interface {
	Write(w io.Writer, comments []review.Comment) error
}

// GetWriter returns a writer for the specified format. The text writer
// colours its output only when stdout is a terminal.
func GetWriter(format string) (Writer, error) {
	switch format {
	case FormatText:
		return &TextWriter{Color: !color.NoColor}, nil
	case FormatJSON:
		return &JSONWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// WriteComments renders comments to w in the given format.
func WriteComments(w io.Writer, comments []review.Comment, format string) error {
	writer, err := GetWriter(format)
	if err != nil {
		return err
	}
	return writer.Write(w, comments)
}
