// Package events defines the egress surface the core publishes through
// while never implementing transport itself: callers supply an EventSink
// and, optionally, PersistenceSink/TransportSink collaborators.
package events

import "context"

// Kind names one of the egress event shapes a caller may receive.
type Kind string

const (
	KindStatus            Kind = "status"
	KindToolCall          Kind = "tool_call"
	KindWorkflowStart     Kind = "workflow_start"
	KindWorkflowState     Kind = "workflow_state"
	KindWorkflowNarration Kind = "workflow_narration"
	KindWorkflowActivity  Kind = "workflow_activity"
	KindWorkflowDebug     Kind = "workflow_debug"
	KindWorkflowExit      Kind = "workflow_exit"
)

// WorkflowStepDescriptor serializes one FSM state for a client debugger,
// independent of the workflow package's internal Step representation.
type WorkflowStepDescriptor struct {
	ID            string
	Name          string
	Kind          string
	HasTool       bool
	ToolName      string
	PromptPreview string // first 200 characters of the prompt template
	NextStep      string
	Narration     string
}

// Event is a single egress notification. Fields beyond Kind are sparsely
// populated depending on Kind; callers switch on Kind before reading them.
type Event struct {
	Kind Kind

	// RunID correlates every event emitted during one workflow execution.
	// Empty for events emitted outside a workflow run.
	RunID string

	// status
	Status string

	// tool_call
	ToolName string
	ToolArgs map[string]any

	// workflow_start: the full definition, for a client debugger.
	// workflow_exit: only WorkflowName/WorkflowID are populated.
	WorkflowID          string
	WorkflowName        string
	WorkflowDescription string
	WorkflowSteps       []WorkflowStepDescriptor

	// workflow_state
	StepName   string
	StepIndex  int
	TotalSteps int
	StepState  string // "active" | "visited" | "loop_update"

	// workflow_state when StepState == "loop_update": the full query list
	// for this loop step and which index is currently active (-1 before
	// the first iteration starts).
	Children    []string
	ActiveIndex int

	// workflow_narration
	Text string

	// workflow_activity: a short human-readable progress line.
	Activity string

	// workflow_debug: free-form diagnostics (e.g. "step=... prompt_chars=...").
	Detail string
}

// Sink receives egress events. Implementations must not block the caller
// for long; the core does not retry or buffer on a sink's behalf.
type Sink interface {
	Emit(ctx context.Context, ev Event)
}

// NopSink discards every event. Useful as a default when a caller doesn't
// need egress notifications.
type NopSink struct{}

func (NopSink) Emit(context.Context, Event) {}

// PersistenceSink is the external collaborator a caller supplies to
// persist conversation history; the core never writes storage itself.
type PersistenceSink interface {
	SaveTurn(ctx context.Context, userText, assistantText string) error
}

// TransportSink is the external collaborator a caller supplies to deliver
// a finished reply over whatever channel it owns (HTTP, websocket, audio
// playback); the core never implements transport itself.
type TransportSink interface {
	Deliver(ctx context.Context, text string) error
}
