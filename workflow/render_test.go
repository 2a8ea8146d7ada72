package workflow

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRenderTemplate_substitutesKnownKeys(t *testing.T) {
	ctx := &Context{
		UserQuery:     "compare apple and nvidia market cap",
		SearchQueries: []string{"apple market cap 2026", "nvidia market cap 2026"},
		SearchResults: []string{"apple: $3.5T", "nvidia: $3.3T"},
		StepResults:   map[string]string{"decompose": `["a","b"]`},
	}
	now := time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)

	out := renderTemplate("Today {{current_date}} ({{current_year}}). Query: {{user_query}}.\n{{search_queries}}\n{{search_results}}", ctx, now)

	assert.Contains(t, out, "Today August 1, 2026")
	assert.Contains(t, out, "(2026)")
	assert.Contains(t, out, "Query: compare apple and nvidia market cap")
	assert.Contains(t, out, "- apple market cap 2026")
	assert.Contains(t, out, "apple: $3.5T\n\nnvidia: $3.3T")
}

func TestRenderTemplate_userQueryShortTruncatesAtFiftyChars(t *testing.T) {
	long := strings.Repeat("a", 60)
	ctx := &Context{UserQuery: long}
	out := renderTemplate("{{user_query_short}}", ctx, time.Now())
	assert.Equal(t, long[:50]+"...", out)
}

func TestTruncateForDecompose_cutsLongIndentedSnippets(t *testing.T) {
	longSnippet := "   " + strings.Repeat("x", 200)
	text := "1. Title (url)\n" + longSnippet
	out := truncateForDecompose(text)
	assert.Contains(t, out, "1. Title (url)")
	assert.True(t, strings.Contains(out, "..."))
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "   ") {
			assert.LessOrEqual(t, len(line), decomposeSnippetMax+3)
		}
	}
}

func TestTruncateForDecompose_capsTotalLength(t *testing.T) {
	text := strings.Repeat("a", 3000)
	out := truncateForDecompose(text)
	assert.LessOrEqual(t, len(out), decomposeTotalMax+len("\n[...truncated]"))
	assert.Contains(t, out, "[...truncated]")
}
