package workflow

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"voicecore/common"
	"voicecore/events"
	"voicecore/llm"
)

const (
	stepSystemPrompt   = "You are a research assistant. Follow instructions precisely."
	defaultLoopDelay   = 1500 * time.Millisecond
	defaultNoReply     = "I completed the research but couldn't form a response."
	promptPreviewChars = 200
	activityPreviewLen = 60
)

var listMarkerPattern = regexp.MustCompile(`^[\d.\-*]+\s*`)

// Generator is the subset of llm.Provider the runner needs: plain,
// tool-free generation for each step's focused prompt.
type Generator interface {
	Generate(ctx context.Context, req llm.GenerateRequest) (string, error)
}

// Dispatcher is the subset of the tool surface the runner needs.
type Dispatcher interface {
	Dispatch(ctx context.Context, name string, args map[string]any) (string, bool)
}

// HistoryAppender lets the runner persist exactly one user/assistant pair
// into the owning Chat Orchestrator's history once a workflow completes.
type HistoryAppender interface {
	AppendTurn(userText, assistantText string)
}

// Option configures a Runner.
type Option func(*Runner)

func WithEventSink(sink events.Sink) Option { return func(r *Runner) { r.sink = sink } }
func WithModel(model string) Option         { return func(r *Runner) { r.model = model } }
func WithLoopDelay(d time.Duration) Option  { return func(r *Runner) { r.loopDelay = d } }
func WithClock(now func() time.Time) Option { return func(r *Runner) { r.now = now } }
func WithSleeper(sleep func(time.Duration)) Option {
	return func(r *Runner) { r.sleep = sleep }
}

// Runner is the FSM-driven workflow executor: Route picks a template for
// an input and Execute runs it. It does not hand unmatched input to the
// Chat Orchestrator; the caller does that.
type Runner struct {
	order     []*Definition
	templates map[string]*Definition

	provider Generator
	tools    Dispatcher
	history  HistoryAppender

	model     string
	sink      events.Sink
	now       func() time.Time
	sleep     func(time.Duration)
	loopDelay time.Duration
}

// New builds a Runner over the three shipped templates.
func New(provider Generator, tools Dispatcher, history HistoryAppender, opts ...Option) *Runner {
	order := OrderedTemplates()
	templates := make(map[string]*Definition, len(order))
	for _, def := range order {
		templates[def.ID] = def
	}

	r := &Runner{
		order:     order,
		templates: templates,
		provider:  provider,
		tools:     tools,
		history:   history,
		sink:      events.NopSink{},
		now:       time.Now,
		sleep:     time.Sleep,
		loopDelay: defaultLoopDelay,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Route returns the workflow id matching input, or "" if none does.
func (r *Runner) Route(input string) string {
	return Route(r.order, input)
}

// Execute runs the named workflow's FSM to completion and appends exactly
// one user/assistant pair to history. It never returns an error: step
// failures become a user-visible apology.
func (r *Runner) Execute(ctx context.Context, workflowID, userInput string) string {
	def, ok := r.templates[workflowID]
	if !ok {
		reply := "I don't recognize that workflow."
		r.history.AppendTurn(userInput, reply)
		return reply
	}

	wfCtx := newContext(workflowID, userInput)

	r.emit(ctx, events.Event{
		Kind: events.KindWorkflowStart, RunID: wfCtx.RunID,
		WorkflowID: def.ID, WorkflowName: def.Name, WorkflowDescription: def.Description,
		WorkflowSteps: describeSteps(def.Steps),
	})

	var reply string
	aborted := false
	for idx, step := range def.Steps {
		r.emit(ctx, events.Event{
			Kind: events.KindWorkflowState, RunID: wfCtx.RunID, StepName: step.Name, StepState: "active",
			StepIndex: idx + 1, TotalSteps: len(def.Steps),
		})

		if err := r.executeStep(ctx, step, wfCtx); err != nil {
			reply = fmt.Sprintf("I ran into an issue during research: %s", err.Error())
			aborted = true
			break
		}

		r.emit(ctx, events.Event{Kind: events.KindWorkflowState, RunID: wfCtx.RunID, StepName: step.Name, StepState: "visited"})
	}

	if !aborted {
		reply = wfCtx.FinalAnswer
		if reply == "" {
			reply = defaultNoReply
		}
	}

	r.emit(ctx, events.Event{Kind: events.KindWorkflowExit, RunID: wfCtx.RunID, WorkflowID: def.ID, WorkflowName: def.Name})

	r.history.AppendTurn(userInput, reply)
	return reply
}

// describeSteps serializes a workflow's steps for a client debugger,
// independent of the internal Step representation.
func describeSteps(steps []Step) []events.WorkflowStepDescriptor {
	out := make([]events.WorkflowStepDescriptor, len(steps))
	for i, s := range steps {
		preview := s.PromptTemplate
		if len(preview) > promptPreviewChars {
			preview = preview[:promptPreviewChars]
		}
		out[i] = events.WorkflowStepDescriptor{
			ID: s.ID, Name: s.Name, Kind: string(s.Kind),
			HasTool: s.ToolName != "", ToolName: s.ToolName,
			PromptPreview: preview, NextStep: s.NextStep, Narration: s.Narration,
		}
	}
	return out
}

func (r *Runner) executeStep(ctx context.Context, step Step, wfCtx *Context) error {
	if step.Narration != "" {
		r.emit(ctx, events.Event{
			Kind: events.KindWorkflowNarration, RunID: wfCtx.RunID,
			Text: renderTemplate(step.Narration, wfCtx, r.now()),
		})
	}

	switch step.Kind {
	case StepLLM:
		return r.executeLLMStep(ctx, step, wfCtx)
	case StepLoop:
		r.executeLoopStep(ctx, step, wfCtx)
	case StepDirect:
		r.executeDirectStep(ctx, step, wfCtx)
	}
	return nil
}

func (r *Runner) executeLLMStep(ctx context.Context, step Step, wfCtx *Context) error {
	prompt := renderTemplate(step.PromptTemplate, wfCtx, r.now())

	modelLabel := r.model
	if modelLabel == "" {
		modelLabel = "LLM"
	}
	r.emit(ctx, events.Event{
		Kind: events.KindWorkflowActivity, RunID: wfCtx.RunID,
		Activity: fmt.Sprintf("Querying %s...", modelLabel),
	})

	text, err := r.provider.Generate(ctx, llm.GenerateRequest{
		System:   stepSystemPrompt,
		Messages: []common.Message{{Role: common.RoleUser, Text: prompt}},
		Model:    r.model,
	})
	if err != nil {
		return err
	}
	text = llm.StripThink(text)
	wfCtx.StepResults[step.ID] = text

	r.emit(ctx, events.Event{
		Kind: events.KindWorkflowDebug, RunID: wfCtx.RunID,
		Detail: fmt.Sprintf("step=%s prompt_chars=%d reply_chars=%d", step.ID, len(prompt), len(text)),
	})

	switch step.ID {
	case "decompose":
		wfCtx.SearchQueries = parseQueryList(text, 5)
	case "evaluate_gaps":
		wfCtx.SearchQueries = parseQueryList(text, 3)
	case "extract_claim":
		r.applyExtractClaim(text, wfCtx)
	case "initial_search", "initial_lookup":
		r.runImmediateSearch(ctx, step, text, wfCtx)
	case "synthesize", "verdict":
		wfCtx.FinalAnswer = text
	}
	return nil
}

// parseQueryList parses text as a JSON array of query strings, falling
// back to line-splitting with list-marker stripping, capped at max.
func parseQueryList(text string, max int) []string {
	if arr, ok := extractJSONArray(text); ok {
		if len(arr) > max {
			arr = arr[:max]
		}
		return arr
	}

	var out []string
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, listMarkerPattern.ReplaceAllString(line, ""))
		if len(out) >= max {
			break
		}
	}
	return out
}

func (r *Runner) applyExtractClaim(text string, wfCtx *Context) {
	if obj, ok := extractJSONObject(text); ok {
		claim, _ := obj["claim"].(string)
		if claim == "" {
			claim = text
		}
		wfCtx.StepResults["extract_claim"] = claim

		var queries []string
		if q, ok := obj["support_query"].(string); ok && q != "" {
			queries = append(queries, q)
		}
		if q, ok := obj["counter_query"].(string); ok && q != "" {
			queries = append(queries, q)
		}
		wfCtx.SearchQueries = queries
		return
	}
	wfCtx.SearchQueries = []string{wfCtx.UserQuery}
}

func (r *Runner) runImmediateSearch(ctx context.Context, step Step, text string, wfCtx *Context) {
	query := strings.Trim(strings.TrimSpace(text), `"'`)
	if step.ToolName == "" {
		wfCtx.StepResults[step.ID] = "(search not available)"
		return
	}
	r.emit(ctx, events.Event{
		Kind: events.KindWorkflowActivity, RunID: wfCtx.RunID,
		Activity: fmt.Sprintf("Searching: %s", truncateActivity(query)),
	})
	result, _ := r.tools.Dispatch(ctx, step.ToolName, map[string]any{"query": query})
	wfCtx.StepResults[step.ID] = result
}

func (r *Runner) executeLoopStep(ctx context.Context, step Step, wfCtx *Context) {
	queries := wfCtx.SearchQueries
	if len(queries) == 0 {
		return
	}

	r.emitLoopUpdate(ctx, wfCtx.RunID, step, queries, -1)

	results := make([]string, 0, len(queries))
	for i, query := range queries {
		if i > 0 {
			r.sleep(r.loopDelay)
		}
		r.emitLoopUpdate(ctx, wfCtx.RunID, step, queries, i)
		r.emit(ctx, events.Event{
			Kind: events.KindWorkflowActivity, RunID: wfCtx.RunID,
			Activity: fmt.Sprintf("Searching %d/%d: %s", i+1, len(queries), truncateActivity(query)),
		})

		if step.ToolName == "" {
			results = append(results, fmt.Sprintf("[Query: %s]\n(search not available)", query))
			continue
		}
		result, _ := r.tools.Dispatch(ctx, step.ToolName, map[string]any{"query": query})
		results = append(results, fmt.Sprintf("[Query: %s]\n%s", query, result))
	}
	wfCtx.SearchResults = results
}

// emitLoopUpdate reports the full query list and which one is currently
// active (-1 before the first iteration starts), mirroring the notify
// used for a client's live progress view.
func (r *Runner) emitLoopUpdate(ctx context.Context, runID string, step Step, children []string, activeIndex int) {
	r.emit(ctx, events.Event{
		Kind: events.KindWorkflowState, RunID: runID, StepName: step.Name, StepState: "loop_update",
		Children: children, ActiveIndex: activeIndex,
	})
}

func truncateActivity(s string) string {
	if len(s) > activityPreviewLen {
		return s[:activityPreviewLen]
	}
	return s
}

func (r *Runner) executeDirectStep(ctx context.Context, step Step, wfCtx *Context) {
	if step.ToolName == "" {
		wfCtx.StepResults[step.ID] = "(tool not available)"
		return
	}

	query := wfCtx.UserQuery
	switch {
	case step.ID == "search_evidence" && len(wfCtx.SearchQueries) > 0:
		query = wfCtx.SearchQueries[0]
	case step.ID == "search_counter" && len(wfCtx.SearchQueries) > 1:
		query = wfCtx.SearchQueries[1]
	}

	r.emit(ctx, events.Event{
		Kind: events.KindWorkflowActivity, RunID: wfCtx.RunID,
		Activity: fmt.Sprintf("Executing %s...", step.ToolName),
	})
	result, _ := r.tools.Dispatch(ctx, step.ToolName, map[string]any{"query": query})
	wfCtx.StepResults[step.ID] = result
}

func (r *Runner) emit(ctx context.Context, ev events.Event) {
	if r.sink != nil {
		r.sink.Emit(ctx, ev)
	}
}
