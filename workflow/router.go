package workflow

import "strings"

// Route matches user input against each definition's trigger pattern,
// returning the id of the first one whose minimum word count is satisfied
// and whose pattern matches. Returns "" when nothing matches (the turn
// falls through to the Chat Orchestrator).
//
// defs must be iterated in a stable order so routing is deterministic;
// callers pass the ordered slice produced by OrderedTemplates.
func Route(defs []*Definition, input string) string {
	wordCount := len(strings.Fields(input))
	for _, def := range defs {
		if wordCount < def.MinQueryWords {
			continue
		}
		if def.TriggerPattern != nil && def.TriggerPattern.MatchString(input) {
			return def.ID
		}
	}
	return ""
}

// OrderedTemplates returns the shipped templates in a fixed, deterministic
// order (map iteration order is not stable in Go).
func OrderedTemplates() []*Definition {
	defs := Templates()
	return []*Definition{defs["research_compare"], defs["deep_research"], defs["fact_check"]}
}
