package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voicecore/common"
)

func TestBuildGoogleToolResultMessages_roundTrip(t *testing.T) {
	assistant := common.Message{
		Role: common.RoleAssistant,
		ToolCalls: []common.ToolCall{
			{Name: "get_weather", Arguments: map[string]any{"city": "Tokyo"}},
		},
	}
	results := []common.Message{
		{Role: common.RoleTool, ToolName: "get_weather", Text: "72F and sunny"},
	}

	contents, err := BuildGoogleToolResultMessages(assistant, results)
	require.NoError(t, err)
	require.Len(t, contents, 2)

	assert.Equal(t, "model", contents[0].Role)
	require.Len(t, contents[0].Parts, 1)
	require.NotNil(t, contents[0].Parts[0].FunctionCall)
	assert.Equal(t, "get_weather", contents[0].Parts[0].FunctionCall.Name)
	// google correlates by position, not id: no ID field is ever set
	assert.Empty(t, contents[0].Parts[0].FunctionCall.ID)

	assert.Equal(t, "user", contents[1].Role)
	require.Len(t, contents[1].Parts, 1)
	require.NotNil(t, contents[1].Parts[0].FunctionResponse)
	assert.Equal(t, "get_weather", contents[1].Parts[0].FunctionResponse.Name)
	assert.Equal(t, "72F and sunny", contents[1].Parts[0].FunctionResponse.Response["output"])
}

func TestBuildGoogleToolResultMessages_mismatchedCountErrors(t *testing.T) {
	assistant := common.Message{
		Role:      common.RoleAssistant,
		ToolCalls: []common.ToolCall{{Name: "a"}, {Name: "b"}},
	}
	_, err := BuildGoogleToolResultMessages(assistant, []common.Message{{Role: common.RoleTool, Text: "only one"}})
	assert.Error(t, err)
}

func TestGoogleExtract_nilResponseIsEmpty(t *testing.T) {
	text, calls := googleExtract(nil)
	assert.Empty(t, text)
	assert.Nil(t, calls)
}
