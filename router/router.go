package router

import (
	"time"

	"voicecore/workflow"
)

// Outcome is what the Router decided for one turn.
type Outcome string

const (
	OutcomeDrop     Outcome = "drop"      // silent drop (garbage/low quality)
	OutcomeFastPath Outcome = "fast_path" // answered deterministically, reply is final
	OutcomeWorkflow Outcome = "workflow"  // WorkflowID names the template to run
	OutcomeChat     Outcome = "chat"      // delegate to the Chat Orchestrator
)

// Decision is the result of routing one input through all three filters.
type Decision struct {
	Outcome    Outcome
	Reply      string // set when Outcome == OutcomeFastPath
	WorkflowID string // set when Outcome == OutcomeWorkflow
}

// Router runs the three sequential pre-filters in order: input-quality
// classification, fast-path matching, then workflow keyword routing.
type Router struct {
	lookup    *TimezoneLookup
	workflows []*workflow.Definition
	now       func() time.Time
}

// New builds a Router over the shipped workflow templates.
func New() *Router {
	return &Router{
		lookup:    NewTimezoneLookup(),
		workflows: workflow.OrderedTemplates(),
		now:       time.Now,
	}
}

// Route decides what should handle one turn. clientTZ is the transport-
// supplied IANA timezone (may be empty); sttMetrics carries optional STT
// quality signals.
func (r *Router) Route(text, clientTZ string, sttMetrics Metrics) Decision {
	if ClassifyInput(text, sttMetrics) != QualityValid {
		return Decision{Outcome: OutcomeDrop}
	}

	if reply, ok := TryFastPath(text, clientTZ, r.lookup, r.now); ok {
		return Decision{Outcome: OutcomeFastPath, Reply: reply}
	}

	if id := workflow.Route(r.workflows, text); id != "" {
		return Decision{Outcome: OutcomeWorkflow, WorkflowID: id}
	}

	return Decision{Outcome: OutcomeChat}
}
