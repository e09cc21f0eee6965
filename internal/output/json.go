package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dshills/code-reviewer/internal/review"
)

// JSONWriter outputs the comments as an indented JSON array.
type JSONWriter struct{}

func (j *JSONWriter) Write(w io.Writer, comments []review.Comment) error {
	if comments == nil {
		comments = []review.Comment{}
	}
	data, err := json.MarshalIndent(comments, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	_, err = w.Write(data)
	if err != nil {
		return fmt.Errorf("writing JSON: %w", err)
	}
	_, err = fmt.Fprintln(w)
	return err
}
