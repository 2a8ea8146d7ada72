package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voicecore/common"
)

func TestBuildAnthropicToolResultMessages_roundTrip(t *testing.T) {
	assistant := common.Message{
		Role: common.RoleAssistant,
		Text: "let me check",
		ToolCalls: []common.ToolCall{
			{ID: "toolu_1", Name: "get_weather", Arguments: map[string]any{"city": "Tokyo"}},
		},
	}
	results := []common.Message{
		{Role: common.RoleTool, ToolCallID: "toolu_1", Text: "72F and sunny"},
	}

	msgs, err := BuildAnthropicToolResultMessages(assistant, results)
	require.NoError(t, err)
	require.Len(t, msgs, 2)

	assert.Equal(t, "assistant", string(msgs[0].Role))
	assert.Equal(t, "user", string(msgs[1].Role))

	require.Len(t, msgs[0].Content, 2)
	toolUse := msgs[0].Content[1].OfToolUse
	require.NotNil(t, toolUse)
	assert.Equal(t, "toolu_1", toolUse.ID)
	assert.Equal(t, "Tokyo", toolUse.Input.(map[string]any)["city"])

	require.Len(t, msgs[1].Content, 1)
	toolResult := msgs[1].Content[0].OfToolResult
	require.NotNil(t, toolResult)
	assert.Equal(t, "toolu_1", toolResult.ToolUseID)
}

func TestBuildAnthropicToolResultMessages_rejectsNonToolAssistant(t *testing.T) {
	_, err := BuildAnthropicToolResultMessages(common.Message{Role: common.RoleAssistant, Text: "hi"}, nil)
	assert.Error(t, err)
}

func TestAnthropicFromMessages_splitsToolGroupIntoTwoMessages(t *testing.T) {
	history := []common.Message{
		{Role: common.RoleUser, Text: "what's the weather?"},
		{Role: common.RoleAssistant, ToolCalls: []common.ToolCall{{ID: "t1", Name: "get_weather", Arguments: map[string]any{}}}},
		{Role: common.RoleTool, ToolCallID: "t1", Text: "sunny"},
	}
	out := anthropicFromMessages(history)
	require.Len(t, out, 3) // user, assistant(tool_use), user(tool_result)
}
