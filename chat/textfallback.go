package chat

import (
	"encoding/json"
	"regexp"
	"strings"

	"voicecore/common"
)

// textToolCallPattern matches a model emitting a tool call as plain text
// instead of through the vendor's structured channel, e.g.
// `gc_search {"query": "weather in Austin"}`.
var textToolCallPattern = regexp.MustCompile(`(?s)(?:^|['"` + "`" + `\s])(\w+)\s*\(?\s*(\{[^}]*\})\s*\)?`)

// parseTextToolCalls extracts tool calls embedded in plain text output.
// Unknown names (those with no alias) are ignored rather than erroring.
func parseTextToolCalls(text string, aliases map[string]string) []common.ToolCall {
	var calls []common.ToolCall
	for _, match := range textToolCallPattern.FindAllStringSubmatch(text, -1) {
		rawName := strings.ToLower(match[1])
		rawArgs := match[2]

		canonical, ok := aliases[rawName]
		if !ok {
			continue
		}

		var args map[string]any
		if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
			continue
		}

		calls = append(calls, common.ToolCall{Name: canonical, Arguments: args})
	}
	return calls
}
