// Package codegen turns raw model completions into clean component source.
package codegen

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Source records which parsing path produced a Result.
type Source string

const (
	SourceJSON   Source = "json"
	SourceFenced Source = "fenced"
	SourceRaw    Source = "raw"
)

// DefaultSuggestions are offered when the model does not supply its own.
var DefaultSuggestions = []string{
	"Add loading states",
	"Implement error boundaries",
	"Add unit tests",
}

var fencePattern = regexp.MustCompile("```(?:tsx|jsx|typescript|javascript)?\\n((?s:.*?))```")

// Result is a normalized completion. Suggestions is never nil.
type Result struct {
	Code        string   `json:"code"`
	Explanation string   `json:"explanation"`
	Suggestions []string `json:"suggestions"`
	Source      Source   `json:"-"`
}

// Normalize extracts code, explanation and suggestions from a completion.
// Structured JSON objects are preferred; anything else is treated as text
// that may contain a fenced code block. It never fails.
func Normalize(raw string, includeDefaults bool) Result {
	if obj, ok := parseObject(raw); ok {
		res := Result{
			Code:   raw,
			Source: SourceJSON,
		}
		if s, ok := obj["code"].(string); ok {
			res.Code = s
		}
		if s, ok := obj["explanation"].(string); ok {
			res.Explanation = s
		}
		if list, ok := obj["suggestions"].([]any); ok {
			res.Suggestions = stringsOnly(list)
		} else {
			res.Suggestions = defaults(includeDefaults)
		}
		return res
	}

	code, fenced := extractFenced(raw)
	res := Result{
		Code:        code,
		Explanation: raw,
		Suggestions: defaults(includeDefaults),
		Source:      SourceRaw,
	}
	if fenced {
		res.Source = SourceFenced
	}
	return res
}

// StripFences returns the trimmed body of the first tagged-or-untagged code
// fence in s, or s trimmed when there is none.
func StripFences(s string) string {
	code, _ := extractFenced(s)
	return code
}

func extractFenced(s string) (string, bool) {
	m := fencePattern.FindStringSubmatch(s)
	if m == nil {
		return strings.TrimSpace(s), false
	}
	return strings.TrimSpace(m[1]), true
}

// parseObject succeeds only for a JSON object. Arrays, scalars and null are
// handled as plain text.
func parseObject(raw string) (map[string]any, bool) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(raw), &obj); err != nil || obj == nil {
		return nil, false
	}
	return obj, true
}

func stringsOnly(list []any) []string {
	out := make([]string, 0, len(list))
	for _, v := range list {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func defaults(include bool) []string {
	if !include {
		return []string{}
	}
	out := make([]string, len(DefaultSuggestions))
	copy(out, DefaultSuggestions)
	return out
}
