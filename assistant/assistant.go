package assistant

import (
	"context"

	"voicecore/chat"
	"voicecore/common"
	"voicecore/llm"
	"voicecore/router"
	"voicecore/tools"
	"voicecore/tools/search"
	"voicecore/workflow"
)

// registrySurface adapts a *tools.Registry to both chat.ToolSurface and
// workflow.Dispatcher, applying the configured disabled-tool set to the
// schema list handed to the model.
type registrySurface struct {
	registry *tools.Registry
	disabled map[string]bool
}

func (s *registrySurface) All() []common.ToolSchema { return s.registry.Filtered(s.disabled) }

func (s *registrySurface) Dispatch(ctx context.Context, name string, args map[string]any) (string, bool) {
	return s.registry.Dispatch(ctx, name, args)
}

func (s *registrySurface) Resolve(name string) string { return s.registry.Resolve(name) }

// Assistant is the top-level entry point composing Router, Workflow
// Runner, and Chat Orchestrator.
type Assistant struct {
	router       *router.Router
	workflows    *workflow.Runner
	orchestrator *chat.Orchestrator
}

// New builds a fully-wired Assistant, applying opts over the default
// configuration (functional-options construction, matching chat.New and
// workflow.New).
func New(ctx context.Context, opts ...Option) (*Assistant, error) {
	merged := defaultConfig()
	for _, opt := range opts {
		opt(&merged)
	}

	provider, err := llm.NewProvider(ctx, merged.Provider, merged.Secrets, merged.Model)
	if err != nil {
		return nil, err
	}

	chain := search.NewChain(merged.TavilyAPIKey, merged.BraveAPIKey, merged.SerpAPIKey)
	registry := tools.NewRegistry([]tools.Handler{
		tools.DatetimeTool{},
		tools.WebSearchTool{Chain: chain},
		tools.CheckCalendarTool{Service: merged.Calendar},
		tools.SearchNotesTool{Service: merged.Notes},
	}, nil)

	surface := &registrySurface{registry: registry, disabled: merged.DisabledTools}

	orch := chat.New(provider, surface, merged.Model,
		chat.WithSystemPrompt(merged.SystemPrompt),
		chat.WithMaxIterations(merged.MaxIterations),
		chat.WithMaxHistory(merged.MaxHistory),
		chat.WithHedgingSafetyNet(merged.EnableHedgingSafetyNet),
		chat.WithHedgingPhrases(merged.HedgingPhrases),
		chat.WithToolAliases(merged.ToolAliases),
		chat.WithEventSink(merged.EventSink),
	)

	runner := workflow.New(provider, surface, orch,
		workflow.WithModel(merged.Model),
		workflow.WithEventSink(merged.EventSink),
	)

	return &Assistant{
		router:       router.New(),
		workflows:    runner,
		orchestrator: orch,
	}, nil
}

// Chat is the public ingress operation: one user input in, one reply
// out, silently dropping low-quality input.
func (a *Assistant) Chat(ctx context.Context, text, clientTZ string, sttMetrics router.Metrics) (string, error) {
	decision := a.router.Route(text, clientTZ, sttMetrics)

	switch decision.Outcome {
	case router.OutcomeDrop:
		return "", nil
	case router.OutcomeFastPath:
		return decision.Reply, nil
	case router.OutcomeWorkflow:
		return a.workflows.Execute(ctx, decision.WorkflowID, text), nil
	default:
		return a.orchestrator.Chat(ctx, text)
	}
}
