// Package common holds the conversational data model shared by the
// provider adapter, chat orchestrator, and workflow runner: Message,
// ToolCall, ToolSchema, and the tool-group-aware history helpers.
package common

import "github.com/invopop/jsonschema"

// Role identifies who produced a Message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message is a single conversational unit. An assistant message
// carrying ToolCalls is always immediately followed, in History, by one
// Message with Role==RoleTool per call, in the same order — that
// contiguous run is a "tool group".
type Message struct {
	Role      Role       `json:"role"`
	Text      string     `json:"text"`
	ToolCalls []ToolCall `json:"toolCalls,omitempty"`

	// Set only on Role==RoleTool messages: which call this is the result
	// for, and whether dispatch failed.
	ToolCallID string `json:"toolCallId,omitempty"`
	ToolName   string `json:"toolName,omitempty"`
	IsError    bool   `json:"isError,omitempty"`
}

// HasToolCalls reports whether this message starts a tool group.
func (m Message) HasToolCalls() bool {
	return len(m.ToolCalls) > 0
}

// ToolCall is a single requested invocation. Id is populated when the
// originating provider requires it echoed back (Anthropic); it is empty
// for vendors that correlate by position.
type ToolCall struct {
	ID        string         `json:"id,omitempty"`
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// ToolSchema is the declarative tool metadata exposed to a model.
type ToolSchema struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Parameters  *jsonschema.Schema `json:"parameters"`
}
