// Package tools implements the tool surface: a process-global registry
// of callable handlers, an alias table correcting model-emitted names, and
// a dispatch function that never panics back into the chat loop.
package tools

import (
	"context"
	"fmt"

	"github.com/invopop/jsonschema"

	"voicecore/common"
)

// Handler is a single callable tool. Execute must not panic; any failure
// it wants surfaced to the model should be returned as an error, which
// Dispatch turns into a string result rather than propagating.
type Handler interface {
	Name() string
	Description() string
	ParametersSchema() *jsonschema.Schema
	Execute(ctx context.Context, args map[string]any) (string, error)
}

// Registry is the process-global table of tool handlers, read-only after
// construction.
type Registry struct {
	handlers map[string]Handler
	aliases  map[string]string
}

// DefaultAliases maps model-emitted names that don't match a canonical
// tool name to the tool it almost certainly meant.
var DefaultAliases = map[string]string{
	"search":        "web_search",
	"gc_search":     "web_search",
	"google_search": "web_search",
	"websearch":     "web_search",
	"web search":    "web_search",
	"datetime":      "get_current_datetime",
	"current_time":  "get_current_datetime",
	"now":           "get_current_datetime",
	"calendar":      "check_calendar",
	"notes":         "search_notes",
}

// NewRegistry builds a Registry from handlers, keyed by their own Name(),
// with DefaultAliases layered on top of any extra aliases given.
func NewRegistry(handlers []Handler, extraAliases map[string]string) *Registry {
	r := &Registry{
		handlers: make(map[string]Handler, len(handlers)),
		aliases:  make(map[string]string, len(DefaultAliases)+len(extraAliases)),
	}
	for _, h := range handlers {
		r.handlers[h.Name()] = h
	}
	for k, v := range DefaultAliases {
		r.aliases[k] = v
	}
	for k, v := range extraAliases {
		r.aliases[k] = v
	}
	return r
}

// Resolve maps a model-emitted name to the canonical registered name it
// refers to, via the alias table when there's no direct match.
func (r *Registry) Resolve(name string) string {
	if _, ok := r.handlers[name]; ok {
		return name
	}
	if canonical, ok := r.aliases[name]; ok {
		return canonical
	}
	return name
}

// All returns the schema for every registered tool, in no particular
// order — callers that need stable ordering should sort by Name.
func (r *Registry) All() []common.ToolSchema {
	out := make([]common.ToolSchema, 0, len(r.handlers))
	for _, h := range r.handlers {
		out = append(out, ToSchema(h))
	}
	return out
}

// Filtered returns every tool schema except those named in disabled.
func (r *Registry) Filtered(disabled map[string]bool) []common.ToolSchema {
	out := make([]common.ToolSchema, 0, len(r.handlers))
	for name, h := range r.handlers {
		if disabled[name] {
			continue
		}
		out = append(out, ToSchema(h))
	}
	return out
}

// Dispatch resolves name, runs its handler, and always returns a string
// result: a missing tool or a handler error becomes an error-describing
// string rather than propagating, treating failures as normal
// completions to keep the chat loop simple. The bool return reports
// whether the result represents a failure, so callers can set
// Message.IsError without re-parsing the string.
func (r *Registry) Dispatch(ctx context.Context, name string, args map[string]any) (string, bool) {
	canonical := r.Resolve(name)
	handler, ok := r.handlers[canonical]
	if !ok {
		return fmt.Sprintf("error: unknown tool %q", name), true
	}

	result, err := safeExecute(ctx, handler, args)
	if err != nil {
		return fmt.Sprintf("error (%T): %v", err, err), true
	}
	return result, false
}

func safeExecute(ctx context.Context, h Handler, args map[string]any) (result string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tool %s panicked: %v", h.Name(), r)
		}
	}()
	return h.Execute(ctx, args)
}
