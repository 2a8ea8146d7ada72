package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONArray_stripsCodeFence(t *testing.T) {
	text := "```json\n[\"a\", \"b\", \"c\"]\n```"
	arr, ok := extractJSONArray(text)
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b", "c"}, arr)
}

func TestExtractJSONArray_plainJSON(t *testing.T) {
	arr, ok := extractJSONArray(`["x", "y"]`)
	require.True(t, ok)
	assert.Equal(t, []string{"x", "y"}, arr)
}

func TestExtractJSONArray_invalidFallsBackFalse(t *testing.T) {
	_, ok := extractJSONArray("not json at all")
	assert.False(t, ok)
}

func TestExtractJSONObject_stripsCodeFence(t *testing.T) {
	text := "```\n{\"claim\": \"x\", \"support_query\": \"y\"}\n```"
	obj, ok := extractJSONObject(text)
	require.True(t, ok)
	assert.Equal(t, "x", obj["claim"])
	assert.Equal(t, "y", obj["support_query"])
}

func TestParseQueryList_jsonArrayCapped(t *testing.T) {
	out := parseQueryList(`["a", "b", "c", "d", "e", "f"]`, 5)
	assert.Len(t, out, 5)
}

func TestParseQueryList_lineFallbackStripsMarkers(t *testing.T) {
	out := parseQueryList("1. first query\n2. second query\n- third", 3)
	assert.Equal(t, []string{"first query", "second query", "third"}, out)
}
