package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voicecore/common"
)

func TestBuildOpenAIToolResultMessages_roundTrip(t *testing.T) {
	assistant := common.Message{
		Role: common.RoleAssistant,
		Text: "",
		ToolCalls: []common.ToolCall{
			{ID: "call_1", Name: "get_weather", Arguments: map[string]any{"city": "Tokyo"}},
		},
	}
	results := []common.Message{
		{Role: common.RoleTool, ToolCallID: "call_1", ToolName: "get_weather", Text: "72F and sunny"},
	}

	msgs, err := BuildOpenAIToolResultMessages(assistant, results)
	require.NoError(t, err)
	require.Len(t, msgs, 2)

	assert.Equal(t, "assistant", msgs[0].Role)
	require.Len(t, msgs[0].ToolCalls, 1)
	assert.Equal(t, "call_1", msgs[0].ToolCalls[0].ID)
	assert.JSONEq(t, `{"city":"Tokyo"}`, msgs[0].ToolCalls[0].Function.Arguments)

	assert.Equal(t, "tool", msgs[1].Role)
	assert.Equal(t, "call_1", msgs[1].ToolCallID)
	assert.Equal(t, "72F and sunny", msgs[1].Content)

	calls, err := openaiToToolCalls(msgs[0].ToolCalls)
	require.NoError(t, err)
	require.Len(t, calls, 1)
	assert.Equal(t, "get_weather", calls[0].Name)
	assert.Equal(t, "Tokyo", calls[0].Arguments["city"])
}

func TestBuildOpenAIToolResultMessages_rejectsNonToolAssistant(t *testing.T) {
	_, err := BuildOpenAIToolResultMessages(common.Message{Role: common.RoleAssistant, Text: "hi"}, nil)
	assert.Error(t, err)
}

func TestOpenaiFromMessages_preservesOrderAndRoles(t *testing.T) {
	history := []common.Message{
		{Role: common.RoleUser, Text: "hi"},
		{Role: common.RoleAssistant, Text: "hello"},
	}
	out := openaiFromMessages("be concise", history)
	require.Len(t, out, 3)
	assert.Equal(t, "system", out[0].Role)
	assert.Equal(t, "user", out[1].Role)
	assert.Equal(t, "assistant", out[2].Role)
}
