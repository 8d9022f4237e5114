package prompt

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"
)

// Key is the only placeholder the pipeline binds.
const Key = "transcript"

// Default is used when no template file is configured.
//
//go:embed default_template.txt
var Default string

var placeholder = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_]*)\s*\}\}`)

// TemplateError reports a placeholder with no bound value.
type TemplateError struct {
	Key string
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("prompt: template references unbound placeholder %q", e.Key)
}

// Render replaces every {{transcript}} placeholder in tmpl with transcript.
// Whitespace inside the braces is allowed. Any other placeholder fails
// with *TemplateError.
func Render(tmpl, transcript string) (string, error) {
	for _, m := range placeholder.FindAllStringSubmatch(tmpl, -1) {
		if m[1] != Key {
			return "", &TemplateError{Key: m[1]}
		}
	}

	// ReplaceAllLiteralString keeps "$" in transcripts intact.
	return placeholder.ReplaceAllLiteralString(tmpl, transcript), nil
}

// References reports whether tmpl contains a placeholder for key.
func References(tmpl, key string) bool {
	for _, m := range placeholder.FindAllStringSubmatch(tmpl, -1) {
		if m[1] == key {
			return true
		}
	}
	return false
}

// Keys lists the distinct placeholder keys in order of first appearance.
func Keys(tmpl string) []string {
	var keys []string
	seen := make(map[string]bool)
	for _, m := range placeholder.FindAllStringSubmatch(tmpl, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			keys = append(keys, m[1])
		}
	}
	return keys
}

// Normalize trims a template loaded from disk so a trailing newline in the
// file does not leak into the model input.
func Normalize(tmpl string) string {
	return strings.TrimRight(tmpl, "\r\n")
}
