package chat

import "strings"

// isHedging reports whether reply contains a disclaimer or refusal phrase
// — a model declining to answer instead of using the tools it was given.
func isHedging(reply string, phrases []string) bool {
	lower := strings.ToLower(reply)
	for _, phrase := range phrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}
