package common

// TrimToolGroupAware drops messages from the front of history until its
// length is at most maxLen, without ever leaving a tool-role message as the
// new first element and without splitting a tool group.
//
// If no cut point keeps the invariants (the entire tail past every
// candidate cut is a single tool group longer than maxLen), the full group
// is kept and the result may still exceed maxLen, rather than truncating a
// group.
func TrimToolGroupAware(history []Message, maxLen int) []Message {
	if len(history) <= maxLen || maxLen <= 0 {
		return history
	}

	cut := len(history) - maxLen

	// Never leave a tool-role message as the new first element: a tool
	// message can only follow its assistant-with-tool-calls, so advancing
	// past it is always safe.
	for cut < len(history) && history[cut].Role == RoleTool {
		cut++
	}

	// Advancing ran off the end: everything past the candidate cut belongs
	// to one tool group, so rewind to the assistant message that opened it
	// and keep the whole group even though that exceeds maxLen.
	if cut == len(history) {
		cut = len(history) - maxLen
		for cut > 0 && history[cut].Role == RoleTool {
			cut--
		}
	}

	// If the message immediately before the cut is an assistant message
	// carrying tool calls, the cut would orphan it from its tool group;
	// rewind past it (and any tool messages that precede it in turn).
	for cut > 0 && history[cut-1].HasToolCalls() {
		cut--
		for cut > 0 && history[cut-1].Role == RoleTool {
			cut--
		}
	}

	return history[cut:]
}

// CleanOrphanedToolGroups removes tool-call messages whose results were
// never appended (e.g. trimming cut them off) and tool-result messages
// whose originating call is missing. Kept for callers that build history
// incrementally from storage rather than purely via Append.
func CleanOrphanedToolGroups(history []Message) []Message {
	out := make([]Message, 0, len(history))
	for i, msg := range history {
		if msg.HasToolCalls() {
			if i+1 >= len(history) || history[i+1].Role != RoleTool {
				continue
			}
		}
		out = append(out, msg)
	}

	seen := make(map[string]bool, len(out))
	final := make([]Message, 0, len(out))
	for _, msg := range out {
		if msg.Role == RoleTool {
			if msg.ToolCallID != "" && !seen[msg.ToolCallID] {
				continue
			}
		} else if msg.HasToolCalls() {
			for _, tc := range msg.ToolCalls {
				seen[tc.ID] = true
			}
		}
		final = append(final, msg)
	}
	return final
}
