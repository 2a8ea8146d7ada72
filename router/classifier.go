// Package router implements the pre-filter stage: an input-quality
// classifier, a deterministic fast path for time/date queries, and the
// workflow keyword router, all run before either orchestrator ever sees
// the text.
package router

import (
	"regexp"
	"strings"
)

// Quality is the outcome of ClassifyInput.
type Quality string

const (
	QualityValid   Quality = "valid"
	QualityGarbage Quality = "garbage"
	QualityLow     Quality = "low"
)

// garbageWords are single words STT commonly produces from noise or a
// short mic press. Greetings and farewells are deliberately excluded —
// those are real conversational signals.
var garbageWords = map[string]bool{
	"you": true, "the": true, "a": true, "i": true, "um": true, "uh": true,
	"hmm": true, "oh": true, "ah": true, "eh": true,
	"beep": true, "boop": true, "okay": true, "ok": true, "yeah": true,
	"yes": true, "no": true, "so": true,
	"well": true, "right": true, "like": true, "just": true, "but": true,
	"and": true, "or": true, "if": true, "it": true,
	"something": true, "nothing": true, "uh-huh": true, "mm-hmm": true,
	"mhm": true, "huh": true,
}

var hallucinationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^[\s.,!?\-…]+$`), // only punctuation
	regexp.MustCompile(`^\(.*\)$`),       // parenthetical
	regexp.MustCompile(`^♪`),             // leading music note
}

// isRepeatedWord reports whether clean is the same word repeated three or
// more times, e.g. "the the the" — a common STT hallucination on silence
// or noise. RE2 has no backreferences, so this is checked by tokenizing
// rather than with a `(\w+)\1{2,}` pattern.
func isRepeatedWord(clean string) bool {
	words := strings.Fields(clean)
	if len(words) < 3 {
		return false
	}
	first := normalizeWord(words[0])
	if first == "" {
		return false
	}
	for _, w := range words[1:] {
		if normalizeWord(w) != first {
			return false
		}
	}
	return true
}

// Metrics carries the optional STT signals the classifier weighs
// alongside the text itself.
type Metrics struct {
	NoSpeechProb    float64
	AvgLogProb      float64
	AudioDurationS  float64
}

// ClassifyInput applies the classifier rules in fixed order, short-circuiting
// on the first rule that fires.
func ClassifyInput(text string, m Metrics) Quality {
	clean := strings.TrimSpace(text)
	if clean == "" {
		return QualityGarbage
	}

	if m.AudioDurationS > 0 && m.AudioDurationS < 0.6 {
		return QualityGarbage
	}

	if m.NoSpeechProb > 0.6 {
		return QualityGarbage
	}

	for _, pattern := range hallucinationPatterns {
		if pattern.MatchString(clean) {
			return QualityGarbage
		}
	}
	if isRepeatedWord(clean) {
		return QualityGarbage
	}

	words := strings.Fields(strings.TrimRight(clean, "?.!,"))
	wordCount := len(words)

	if wordCount == 1 && garbageWords[normalizeWord(words[0])] {
		return QualityGarbage
	}

	if m.AvgLogProb < -1.0 && wordCount <= 3 {
		return QualityLow
	}

	if wordCount == 2 {
		w1, w2 := normalizeWord(words[0]), normalizeWord(words[1])
		if garbageWords[w1] && garbageWords[w2] {
			return QualityGarbage
		}
	}

	return QualityValid
}

func normalizeWord(w string) string {
	return strings.ToLower(strings.Trim(w, "?.!,-"))
}
