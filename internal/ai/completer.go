package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformed is returned when a completion cannot be parsed into the
// expected shape.
var ErrMalformed = errors.New("malformed completion")

// Completer sends one system+user prompt pair to an LLM and returns the
// raw text answer.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// stripFences removes a surrounding markdown code block, if any.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimSuffix(s, "```")
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(s, "```")
	}
	return strings.TrimSpace(s)
}

// extractJSON returns the outermost JSON value starting with open and
// ending with the matching last close rune.
func extractJSON(s string, open, close byte) (string, error) {
	s = stripFences(s)
	start := strings.IndexByte(s, open)
	end := strings.LastIndexByte(s, close)
	if start < 0 || end <= start {
		return "", fmt.Errorf("%w: no JSON %c%c found", ErrMalformed, open, close)
	}
	return s[start : end+1], nil
}
