package ai

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Pre-compiled patterns; compiling per call is measurably slower and these
// run on every researcher response.
var (
	codeFenceRegex = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?([\\s\\S]*?)\\n?```")
	objectRegex    = regexp.MustCompile(`(?s)\{[\s\S]*\}`)
	arrayRegex     = regexp.MustCompile(`(?s)\[[\s\S]*\]`)
)

// ExtractJSON pulls a JSON object or array out of mixed model output.
// Models wrap JSON in prose or code fences often enough that direct
// unmarshaling of the raw response is unreliable.
//
// Strategy sequence:
//  1. The text already parses as JSON
//  2. Contents of the first code fence parse as JSON
//  3. The widest {...} or [...] span parses as JSON
//
// Returns the extracted JSON string and true, or "" and false when nothing
// in the text parses.
func ExtractJSON(text string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", false
	}

	if json.Valid([]byte(trimmed)) {
		return trimmed, true
	}

	if m := codeFenceRegex.FindStringSubmatch(trimmed); m != nil {
		candidate := strings.TrimSpace(m[1])
		if json.Valid([]byte(candidate)) {
			return candidate, true
		}
	}

	for _, re := range []*regexp.Regexp{objectRegex, arrayRegex} {
		if m := re.FindString(trimmed); m != "" && json.Valid([]byte(m)) {
			return m, true
		}
	}

	return "", false
}

// ExtractJSONObject is ExtractJSON restricted to objects whose body contains
// the given marker key, matching how researcher prompts anchor their output
// (e.g. a top-level "contributors" or "results" field).
func ExtractJSONObject(text, markerKey string) (string, bool) {
	extracted, ok := ExtractJSON(text)
	if ok && strings.Contains(extracted, `"`+markerKey+`"`) && strings.HasPrefix(extracted, "{") {
		return extracted, true
	}

	// Fall back to scanning for an object containing the marker anywhere in
	// the raw text, tolerating unparseable surroundings.
	re := regexp.MustCompile(`(?s)\{[\s\S]*"` + regexp.QuoteMeta(markerKey) + `"[\s\S]*\}`)
	if m := re.FindString(text); m != "" && json.Valid([]byte(m)) {
		return m, true
	}
	return "", false
}
