package redact

import (
	"path/filepath"
	"regexp"
	"strings"
)

const placeholder = "[REDACTED]"

// pathPlaceholder replaces the hunks of a file section withheld by path.
const pathPlaceholder = placeholder + " (file content redacted by path policy)"

// DefaultPaths are glob patterns for files whose diff content is never sent.
var DefaultPaths = []string{
	"**/.env",
	"**/.env.*",
	"**/*.pem",
	"**/*.key",
	"**/id_rsa",
	"**/id_ed25519",
}

// secretPatterns are regex heuristics for common secret types.
var secretPatterns = []*regexp.Regexp{
	// key = value assignments with a long opaque value
	regexp.MustCompile(`(?i)(api[_-]?key|apikey|api[_-]?secret)\s*[:=]\s*["']?([A-Za-z0-9/+=_-]{20,})["']?`),
	regexp.MustCompile(`AKIA[0-9A-Z]{16}`),
	regexp.MustCompile(`(?i)(aws[_-]?secret[_-]?access[_-]?key)\s*[:=]\s*["']?([A-Za-z0-9/+=]{40})["']?`),
	regexp.MustCompile(`(?i)(secret|token|password|passwd|credential)\s*[:=]\s*["']([^"']{8,})["']`),
	regexp.MustCompile(`(?i)Bearer\s+[A-Za-z0-9._-]{20,}`),
	// JWT
	regexp.MustCompile(`eyJ[A-Za-z0-9_-]{10,}\.eyJ[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}`),
	regexp.MustCompile(`-----BEGIN\s+(RSA\s+|EC\s+|OPENSSH\s+)?PRIVATE KEY-----`),
	regexp.MustCompile(`gh[pousr]_[A-Za-z0-9_]{36,}`),
	regexp.MustCompile(`xox[bporas]-[A-Za-z0-9-]{10,}`),
	// Anthropic before OpenAI: both start with sk-
	regexp.MustCompile(`sk-ant-[A-Za-z0-9_-]{20,}`),
	regexp.MustCompile(`sk-(proj-)?[A-Za-z0-9]{20,}`),
	regexp.MustCompile(`(?i)(key|secret|token)\s*[:=]\s*["']?[0-9a-f]{32,}["']?`),
	// credentials embedded in a connection string
	regexp.MustCompile(`[a-z][a-z0-9+.-]*://[^\s:/@]+:[^\s@/]+@`),
}

// Secrets replaces detected secrets in text with [REDACTED].
func Secrets(text string) string {
	out, _ := secrets(text)
	return out
}

func secrets(text string) (string, int) {
	n := 0
	for _, pat := range secretPatterns {
		text = pat.ReplaceAllStringFunc(text, func(string) string {
			n++
			return placeholder
		})
	}
	return text, n
}

// ShouldRedactPath reports whether path matches any of the glob patterns.
// A leading "**/" matches the base name in any directory.
func ShouldRedactPath(path string, patterns []string) bool {
	for _, pattern := range patterns {
		if matched, err := filepath.Match(pattern, path); err == nil && matched {
			return true
		}
		if rest, ok := strings.CutPrefix(pattern, "**/"); ok {
			if matched, err := filepath.Match(rest, filepath.Base(path)); err == nil && matched {
				return true
			}
		}
	}
	return false
}

// Diff masks a unified diff and returns it with the number of redactions.
// Sections for files matching paths keep their headers but lose their hunks.
func Diff(diff string, paths []string) (string, int) {
	var b strings.Builder
	count := 0
	withheld := false
	inHunks := false

	lines := strings.SplitAfter(diff, "\n")
	for _, line := range lines {
		if strings.HasPrefix(line, "diff --git ") {
			withheld = ShouldRedactPath(sectionPath(line), paths)
			inHunks = false
		}
		if withheld {
			if strings.HasPrefix(line, "@@") && !inHunks {
				inHunks = true
				count++
				b.WriteString(pathPlaceholder + "\n")
			}
			if inHunks {
				continue
			}
			b.WriteString(line)
			continue
		}
		masked, n := secrets(line)
		count += n
		b.WriteString(masked)
	}
	return b.String(), count
}

// sectionPath extracts the new-side path from a "diff --git a/x b/x" header.
func sectionPath(header string) string {
	fields := strings.Fields(header)
	if len(fields) == 0 {
		return ""
	}
	last := fields[len(fields)-1]
	return strings.TrimPrefix(last, "b/")
}
