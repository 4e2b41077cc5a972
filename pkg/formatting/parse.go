// Package formatting provides parsing utilities for model output and
// human-readable value types.
package formatting

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrParseFailed is returned when content cannot be parsed as JSON, either
// directly, from the outermost brace-delimited substring, or from a
// markdown code fence.
var ErrParseFailed = errors.New("failed to parse response")

var jsonBlockRegex = regexp.MustCompile(`(?s)` + "```" + `(?:json)?\s*\n?(.*?)\n?` + "```")

// Parse attempts to unmarshal content as JSON into T. Model output rarely
// arrives clean, so three strategies run in order: the trimmed content
// itself, the substring between the first '{' and the last '}', and the
// body of a markdown code fence. Returns ErrParseFailed when none yields
// valid JSON.
func Parse[T any](content string) (T, error) {
	var result T
	content = strings.TrimSpace(content)

	if err := json.Unmarshal([]byte(content), &result); err == nil {
		return result, nil
	}

	if embedded, ok := BraceSpan(content); ok {
		if err := json.Unmarshal([]byte(embedded), &result); err == nil {
			return result, nil
		}
	}

	matches := jsonBlockRegex.FindStringSubmatch(content)
	if len(matches) >= 2 {
		cleaned := strings.TrimSpace(matches[1])
		if err := json.Unmarshal([]byte(cleaned), &result); err == nil {
			return result, nil
		}
	}

	return result, fmt.Errorf("%w: %s", ErrParseFailed, content)
}

// BraceSpan returns the substring from the first '{' to the last '}' in
// content, inclusive. Reports false when no such span exists.
func BraceSpan(content string) (string, bool) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end == -1 || end <= start {
		return "", false
	}
	return content[start : end+1], true
}
