package tools

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubHandler struct {
	name   string
	result string
	err    error
	panics bool
}

func (s stubHandler) Name() string        { return s.name }
func (s stubHandler) Description() string { return "stub" }
func (s stubHandler) ParametersSchema() *jsonschema.Schema { return NoArgsSchema() }
func (s stubHandler) Execute(ctx context.Context, args map[string]any) (string, error) {
	if s.panics {
		panic("boom")
	}
	return s.result, s.err
}

func TestDispatch_unknownTool(t *testing.T) {
	r := NewRegistry(nil, nil)
	result, isErr := r.Dispatch(context.Background(), "nope", nil)
	assert.True(t, isErr)
	assert.Contains(t, result, "unknown tool")
}

func TestDispatch_aliasResolution(t *testing.T) {
	r := NewRegistry([]Handler{stubHandler{name: "web_search", result: "ok"}}, nil)
	result, isErr := r.Dispatch(context.Background(), "gc_search", nil)
	require.False(t, isErr)
	assert.Equal(t, "ok", result)
}

func TestDispatch_handlerErrorBecomesString(t *testing.T) {
	r := NewRegistry([]Handler{stubHandler{name: "x", err: errors.New("boom")}}, nil)
	result, isErr := r.Dispatch(context.Background(), "x", nil)
	assert.True(t, isErr)
	assert.Contains(t, result, "boom")
}

func TestDispatch_panicIsCaught(t *testing.T) {
	r := NewRegistry([]Handler{stubHandler{name: "x", panics: true}}, nil)
	result, isErr := r.Dispatch(context.Background(), "x", nil)
	assert.True(t, isErr)
	assert.Contains(t, result, "panicked")
}

func TestFiltered_excludesDisabled(t *testing.T) {
	r := NewRegistry([]Handler{
		stubHandler{name: "a"},
		stubHandler{name: "b"},
	}, nil)
	schemas := r.Filtered(map[string]bool{"a": true})
	require.Len(t, schemas, 1)
	assert.Equal(t, "b", schemas[0].Name)
}

func TestDatetimeTool_formatsGivenClock(t *testing.T) {
	fixed := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	tool := DatetimeTool{Now: func() time.Time { return fixed }}
	result, err := tool.Execute(context.Background(), nil)
	require.NoError(t, err)
	assert.Contains(t, result, "2026")
	assert.Contains(t, result, "August")
}

func TestCheckCalendarTool_notConfigured(t *testing.T) {
	tool := CheckCalendarTool{}
	result, err := tool.Execute(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "calendar is not configured", result)
}
