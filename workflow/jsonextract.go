package workflow

import (
	"encoding/json"
	"strings"
)

// stripFence strips a leading/trailing ``` fence (with optional language
// tag on the opening line) that models commonly wrap JSON output in.
func stripFence(text string) string {
	stripped := strings.TrimSpace(text)
	if !strings.HasPrefix(stripped, "```") {
		return stripped
	}
	lines := strings.Split(stripped, "\n")
	if len(lines) >= 3 && strings.TrimSpace(lines[len(lines)-1]) == "```" {
		return strings.TrimSpace(strings.Join(lines[1:len(lines)-1], "\n"))
	}
	return stripped
}

// extractJSONArray parses text as a JSON array of strings, stripping a
// code fence first. Returns nil, false on any parse failure so callers can
// fall back to line-splitting.
func extractJSONArray(text string) ([]string, bool) {
	var arr []any
	if err := json.Unmarshal([]byte(stripFence(text)), &arr); err != nil {
		return nil, false
	}
	out := make([]string, 0, len(arr))
	for _, v := range arr {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out, true
}

// extractJSONObject parses text as a JSON object, stripping a code fence
// first. Returns nil, false on any parse failure.
func extractJSONObject(text string) (map[string]any, bool) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(stripFence(text)), &obj); err != nil {
		return nil, false
	}
	return obj, true
}
