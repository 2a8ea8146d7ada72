// Package workflow implements the template-routed FSM runner for
// multi-step queries that the Chat Orchestrator alone handles poorly:
// comparisons, deep research, and fact checks. Each step gets a single
// focused model call; intermediate reasoning never enters conversation
// history.
package workflow

import (
	"regexp"

	"github.com/google/uuid"
)

// StepKind is the behavior a WorkflowStep dispatches to.
type StepKind string

const (
	StepLLM    StepKind = "llm"
	StepLoop   StepKind = "loop"
	StepDirect StepKind = "direct"
)

// Step is a single state in the workflow FSM.
type Step struct {
	ID             string
	Name           string
	Kind           StepKind
	PromptTemplate string // "{{placeholder}}" template, llm steps only
	ToolName       string // loop/direct; optional on llm
	NextStep       string // "" = terminal; advisory, the runner follows Steps order
	MaxRetries     int
	Narration      string // short user-visible sentence, rendered before execution
}

// Definition is an immutable workflow template loaded at process start.
type Definition struct {
	ID              string
	Name            string
	Description     string
	TriggerKeywords []string
	TriggerPattern  *regexp.Regexp
	Steps           []Step
	MinQueryWords   int
}

// Context is the mutable per-execution state threaded through a single
// workflow run. Created at workflow start, discarded on exit.
type Context struct {
	RunID         string // correlates every event emitted during this run
	WorkflowID    string
	UserQuery     string
	StepResults   map[string]string
	SearchQueries []string
	SearchResults []string
	FinalAnswer   string
}

func newContext(workflowID, userQuery string) *Context {
	return &Context{
		RunID:       uuid.NewString(),
		WorkflowID:  workflowID,
		UserQuery:   userQuery,
		StepResults: make(map[string]string),
	}
}
