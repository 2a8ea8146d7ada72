package chat

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voicecore/common"
	"voicecore/llm"
)

// fakeProvider is a hand-written stub: each call pops the next scripted
// response, mirroring how it emits tool calls until the script is empty.
type fakeProvider struct {
	toolResponses []llm.ToolGenerateResponse
	plainReplies  []string
	calls         int
}

func (f *fakeProvider) Kind() llm.ProviderKind { return llm.ProviderAnthropic }

func (f *fakeProvider) Generate(ctx context.Context, req llm.GenerateRequest) (string, error) {
	if len(f.plainReplies) == 0 {
		return "", nil
	}
	r := f.plainReplies[0]
	f.plainReplies = f.plainReplies[1:]
	return r, nil
}

func (f *fakeProvider) GenerateWithTools(ctx context.Context, req llm.ToolGenerateRequest) (llm.ToolGenerateResponse, error) {
	defer func() { f.calls++ }()
	if f.calls >= len(f.toolResponses) {
		return llm.ToolGenerateResponse{Text: "fallback"}, nil
	}
	return f.toolResponses[f.calls], nil
}

// fakeTools is a hand-written stub tool surface.
type fakeTools struct {
	dispatched []string
	result     string
	isErr      bool
}

func (f *fakeTools) All() []common.ToolSchema {
	return []common.ToolSchema{{Name: "web_search", Description: "search"}}
}

func (f *fakeTools) Dispatch(ctx context.Context, name string, args map[string]any) (string, bool) {
	f.dispatched = append(f.dispatched, name)
	return f.result, f.isErr
}

func (f *fakeTools) Resolve(name string) string { return name }

func TestChat_noToolsReturnsTextImmediately(t *testing.T) {
	provider := &fakeProvider{toolResponses: []llm.ToolGenerateResponse{{Text: "hello there"}}}
	tools := &fakeTools{}
	orch := New(provider, tools, "")

	reply, err := orch.Chat(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "hello there", reply)
	require.Len(t, orch.History(), 2)
	assert.Equal(t, common.RoleUser, orch.History()[0].Role)
	assert.Equal(t, common.RoleAssistant, orch.History()[1].Role)
}

func TestChat_dispatchesToolCallThenAnswers(t *testing.T) {
	provider := &fakeProvider{toolResponses: []llm.ToolGenerateResponse{
		{ToolCalls: []common.ToolCall{{ID: "1", Name: "web_search", Arguments: map[string]any{"query": "weather"}}}},
		{Text: "it's sunny"},
	}}
	tools := &fakeTools{result: "72F and sunny"}
	orch := New(provider, tools, "")

	reply, err := orch.Chat(context.Background(), "what's the weather?")
	require.NoError(t, err)
	assert.Equal(t, "it's sunny", reply)
	assert.Equal(t, []string{"web_search"}, tools.dispatched)

	// tool group invariant: assistant-with-calls immediately followed by
	// one tool-role message per call
	history := orch.History()
	require.Len(t, history, 4) // user, assistant(calls), tool, assistant(final)
	assert.True(t, history[1].HasToolCalls())
	assert.Equal(t, common.RoleTool, history[2].Role)
}

func TestChat_postToolHedgingRetry_directiveNotPersisted(t *testing.T) {
	provider := &fakeProvider{
		toolResponses: []llm.ToolGenerateResponse{
			{ToolCalls: []common.ToolCall{{ID: "1", Name: "web_search", Arguments: map[string]any{}}}},
			{Text: "I don't have access to real-time data"},
		},
		plainReplies: []string{"it's 72F right now"},
	}
	tools := &fakeTools{result: "72F and sunny"}
	orch := New(provider, tools, "")

	reply, err := orch.Chat(context.Background(), "what's the weather?")
	require.NoError(t, err)
	assert.Equal(t, "it's 72F right now", reply)

	for _, m := range orch.History() {
		assert.NotContains(t, m.Text, "You already searched")
	}
}

func TestChat_safetyNetSearch_syntheticMessageNotPersisted(t *testing.T) {
	provider := &fakeProvider{
		toolResponses: []llm.ToolGenerateResponse{
			{Text: "as an AI I don't have access to real-time information"},
		},
		plainReplies: []string{"weather today", "it's 72F and sunny"},
	}
	tools := &fakeTools{result: "72F and sunny"}
	orch := New(provider, tools, "")

	reply, err := orch.Chat(context.Background(), "what's the weather?")
	require.NoError(t, err)
	assert.Equal(t, "it's 72F and sunny", reply)
	assert.Equal(t, []string{"web_search"}, tools.dispatched)

	for _, m := range orch.History() {
		assert.NotContains(t, m.Text, "I searched the web and found")
	}
}

func TestParseTextToolCalls_ignoresUnknownNames(t *testing.T) {
	aliases := map[string]string{"gc_search": "web_search"}
	calls := parseTextToolCalls(`gc_search {"query": "weather"}`, aliases)
	require.Len(t, calls, 1)
	assert.Equal(t, "web_search", calls[0].Name)

	none := parseTextToolCalls(`frobnicate {"a": 1}`, aliases)
	assert.Empty(t, none)
}

func TestChat_iterationExhaustion_fallsBackToLastNonEmptyText(t *testing.T) {
	provider := &fakeProvider{toolResponses: []llm.ToolGenerateResponse{
		{Text: `Checking that for you. web_search {"query": "weather"}`},
	}}
	tools := &fakeTools{result: "72F and sunny"}
	orch := New(provider, tools, "", WithMaxIterations(1))

	reply, err := orch.Chat(context.Background(), "what's the weather?")
	require.NoError(t, err)
	assert.Equal(t, `Checking that for you. web_search {"query": "weather"}`, reply)
}

func TestIsHedging(t *testing.T) {
	assert.True(t, isHedging("As an AI, I can't browse the web", DefaultHedgingPhrases))
	assert.False(t, isHedging("It's 72 degrees and sunny", DefaultHedgingPhrases))
}
