package workflow

import (
	"strings"
	"time"
)

const (
	decomposeSnippetMax = 150
	decomposeTotalMax   = 2500
)

// truncateForDecompose shortens search-result snippets so decompose-style
// prompts stay small: indented snippet lines longer than
// decomposeSnippetMax are cut with an ellipsis, and the whole block is
// capped at decomposeTotalMax.
func truncateForDecompose(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, len(lines))
	for i, line := range lines {
		if strings.HasPrefix(line, "   ") && len(line) > decomposeSnippetMax {
			out[i] = line[:decomposeSnippetMax] + "..."
		} else {
			out[i] = line
		}
	}
	result := strings.Join(out, "\n")
	if len(result) > decomposeTotalMax {
		result = result[:decomposeTotalMax] + "\n[...truncated]"
	}
	return result
}

// renderTemplate substitutes "{{key}}" occurrences against a fixed key set
// drawn from the context.
func renderTemplate(template string, ctx *Context, now time.Time) string {
	shortQuery := ctx.UserQuery
	if len(shortQuery) > 50 {
		shortQuery = shortQuery[:50] + "..."
	}

	var queryLines []string
	for _, q := range ctx.SearchQueries {
		queryLines = append(queryLines, "- "+q)
	}

	replacements := map[string]string{
		"user_query":       ctx.UserQuery,
		"user_query_short": shortQuery,
		"current_date":     now.Format("January 2, 2006"),
		"current_year":     now.Format("2006"),
		"search_queries":   strings.Join(queryLines, "\n"),
		"search_results":   strings.Join(ctx.SearchResults, "\n\n"),
		"decompose_result": ctx.StepResults["decompose"],
		"initial_search":   ctx.StepResults["initial_search"],
		"initial_lookup":   truncateForDecompose(ctx.StepResults["initial_lookup"]),
		"gap_analysis":     ctx.StepResults["evaluate_gaps"],
		"targeted_results": ctx.StepResults["targeted_search"],
		"claims":           ctx.StepResults["extract_claim"],
		"evidence":         ctx.StepResults["search_evidence"],
		"counter_evidence": ctx.StepResults["search_counter"],
	}

	result := template
	for key, value := range replacements {
		result = strings.ReplaceAll(result, "{{"+key+"}}", value)
	}
	return result
}
