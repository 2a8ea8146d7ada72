package chat

import (
	"context"
	"strings"

	"voicecore/common"
	"voicecore/events"
	"voicecore/llm"
)

// DefaultToolAliases maps a model-emitted name to the canonical tool the
// text-fallback parser should dispatch.
var DefaultToolAliases = map[string]string{
	"gc_search":      "web_search",
	"search":         "web_search",
	"web_search":     "web_search",
	"check_calendar": "check_calendar",
	"calendar":       "check_calendar",
	"get_calendar":   "check_calendar",
	"search_notes":   "search_notes",
	"notes":          "search_notes",
	"get_notes":      "search_notes",
}

// ToolSurface is everything the orchestrator needs from the tool layer.
// *voicecore/tools.Registry satisfies this structurally.
type ToolSurface interface {
	All() []common.ToolSchema
	Dispatch(ctx context.Context, name string, args map[string]any) (string, bool)
	Resolve(name string) string
}

// Orchestrator drives the tool-calling loop behind one chat(text) -> text
// contract, owning its own conversation history.
type Orchestrator struct {
	history  []common.Message
	config   Config
	provider llm.Provider
	tools    ToolSurface
	model    string
	now      func() string
}

// New builds an Orchestrator. model may be empty to use the provider's
// default.
func New(provider llm.Provider, toolSurface ToolSurface, model string, opts ...Option) *Orchestrator {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.ToolAliases == nil {
		cfg.ToolAliases = DefaultToolAliases
	}
	return &Orchestrator{config: cfg, provider: provider, tools: toolSurface, model: model}
}

// History returns the current conversation history (read-only use by
// callers such as the workflow runner, which persists only a summary
// turn into it).
func (o *Orchestrator) History() []common.Message { return o.history }

// AppendTurn records a user/assistant pair directly into history without
// driving the tool-calling loop — used by the workflow runner to persist
// its single summary turn.
func (o *Orchestrator) AppendTurn(userText, assistantText string) {
	o.history = append(o.history, common.Message{Role: common.RoleUser, Text: userText})
	o.history = append(o.history, common.Message{Role: common.RoleAssistant, Text: assistantText})
	o.history = common.TrimToolGroupAware(o.history, o.config.MaxHistory)
}

// Chat is the public contract: one user input in, one assistant reply out,
// both appended to history.
func (o *Orchestrator) Chat(ctx context.Context, userInput string) (string, error) {
	o.history = append(o.history, common.Message{Role: common.RoleUser, Text: userInput})
	o.history = common.TrimToolGroupAware(o.history, o.config.MaxHistory)

	system := o.config.SystemPrompt
	if system == "" {
		system = defaultSystemPrompt(today())
	}

	o.emit(ctx, events.Event{Kind: events.KindStatus, Status: "thinking"})

	reply, searchPerformed, err := o.runLoop(ctx, system)
	if err != nil {
		return "", err
	}

	if searchPerformed && isHedging(reply, o.config.HedgingPhrases) {
		if retried := o.postToolHedgingRetry(ctx, system); retried != "" {
			reply = retried
		}
	} else if !searchPerformed && o.config.EnableHedgingSafetyNet &&
		len(o.tools.All()) > 0 && isHedging(reply, o.config.HedgingPhrases) {
		if alt, ok := o.safetyNetSearch(ctx, userInput, system); ok {
			reply = alt
		}
	}

	if reply != "" {
		o.history = append(o.history, common.Message{Role: common.RoleAssistant, Text: reply})
	}
	return reply, nil
}

// runLoop drives the generate/dispatch/regenerate iteration.
func (o *Orchestrator) runLoop(ctx context.Context, system string) (reply string, searchPerformed bool, err error) {
	var lastText string
	for iteration := 0; iteration < o.config.MaxIterations; iteration++ {
		isLast := iteration == o.config.MaxIterations-1

		var schemas []common.ToolSchema
		if !isLast {
			schemas = o.tools.All()
		}

		resp, genErr := o.provider.GenerateWithTools(ctx, llm.ToolGenerateRequest{
			System:   system,
			Messages: o.history,
			Tools:    schemas,
			Model:    o.model,
		})
		if genErr != nil {
			return "", searchPerformed, genErr
		}

		text := llm.StripThink(resp.Text)
		calls := resp.ToolCalls

		if text != "" {
			lastText = text
		}

		if len(calls) == 0 && text != "" {
			if fallback := parseTextToolCalls(text, o.config.ToolAliases); len(fallback) > 0 {
				calls = fallback
				text = ""
			}
		}

		if len(calls) == 0 {
			return text, searchPerformed, nil
		}

		o.history = append(o.history, common.Message{Role: common.RoleAssistant, Text: text, ToolCalls: calls})

		for _, call := range calls {
			o.emit(ctx, events.Event{Kind: events.KindToolCall, ToolName: call.Name, ToolArgs: call.Arguments})

			result, isErr := o.tools.Dispatch(ctx, call.Name, call.Arguments)
			if o.tools.Resolve(call.Name) == "web_search" {
				searchPerformed = true
			}

			o.history = append(o.history, common.Message{
				Role:       common.RoleTool,
				ToolCallID: call.ID,
				ToolName:   call.Name,
				Text:       result,
				IsError:    isErr,
			})
		}
	}

	if lastText != "" {
		return lastText, searchPerformed, nil
	}
	return "I wasn't able to complete that request.", searchPerformed, nil
}

// postToolHedgingRetry injects the ephemeral directive, regenerates once
// without tools, and removes the directive before returning — it must
// never be persisted.
func (o *Orchestrator) postToolHedgingRetry(ctx context.Context, system string) string {
	o.history = append(o.history, common.Message{Role: common.RoleUser, Text: postToolHedgingDirective})
	defer func() { o.history = o.history[:len(o.history)-1] }()

	reply, err := o.provider.Generate(ctx, llm.GenerateRequest{System: system, Messages: o.history, Model: o.model})
	if err != nil {
		return ""
	}
	return llm.StripThink(reply)
}

// safetyNetSearch runs an out-of-band search and regenerates against a
// synthetic assistant message that is never persisted into history.
func (o *Orchestrator) safetyNetSearch(ctx context.Context, userInput, system string) (string, bool) {
	query := o.extractSearchQuery(ctx, userInput)

	o.emit(ctx, events.Event{Kind: events.KindStatus, Status: "searching"})

	result, isErr := o.tools.Dispatch(ctx, "web_search", map[string]any{"query": query})
	if isErr || result == "" {
		return "", false
	}

	synthetic := common.Message{
		Role: common.RoleAssistant,
		Text: "I searched the web and found:\n\n" + result + "\nI'll use these results to answer.",
	}
	messages := make([]common.Message, len(o.history)+1)
	copy(messages, o.history)
	messages[len(o.history)] = synthetic

	o.emit(ctx, events.Event{Kind: events.KindStatus, Status: "thinking"})

	reply, err := o.provider.Generate(ctx, llm.GenerateRequest{System: system, Messages: messages, Model: o.model})
	if err != nil {
		return "", false
	}
	return llm.StripThink(reply), true
}

func (o *Orchestrator) extractSearchQuery(ctx context.Context, text string) string {
	reply, err := o.provider.Generate(ctx, llm.GenerateRequest{
		System:   searchClassifierPrompt,
		Messages: []common.Message{{Role: common.RoleUser, Text: text}},
		Model:    o.model,
	})
	if err == nil {
		if q := strings.TrimSpace(reply); len(q) > 5 {
			return q
		}
	}
	return text
}

func (o *Orchestrator) emit(ctx context.Context, ev events.Event) {
	if o.config.EventSink != nil {
		o.config.EventSink.Emit(ctx, ev)
	}
}
