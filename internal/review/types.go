package review

// Severity represents the importance of a review comment.
type Severity string

const (
	SeverityError      Severity = "error"
	SeverityWarning    Severity = "warning"
	SeveritySuggestion Severity = "suggestion"
	SeverityNitpick    Severity = "nitpick"
)

// Known reports whether s is one of the severities the tool understands.
func (s Severity) Known() bool {
	switch s {
	case SeverityError, SeverityWarning, SeveritySuggestion, SeverityNitpick:
		return true
	default:
		return false
	}
}

// UnknownFile is used when a model omits the file of a comment.
const UnknownFile = "unknown"

// Comment is a single review comment.
type Comment struct {
	File     string   `json:"file"`
	Line     *int     `json:"line"`
	Severity Severity `json:"severity"`
	Comment  string   `json:"comment"`
}

// LineNumber returns a pointer to n, for building comments with a line.
func LineNumber(n int) *int {
	return &n
}
