package tools

import (
	"context"
	"fmt"

	"github.com/invopop/jsonschema"

	"voicecore/tools/search"
)

type webSearchArgs struct {
	Query string `json:"query" jsonschema_description:"The search query."`
}

// WebSearchTool backs both the model-invoked web_search tool and the
// orchestrator's hedging safety net: it runs the provider fallback chain
// and formats whichever provider answered.
type WebSearchTool struct {
	Chain *search.Chain
}

func (t WebSearchTool) Name() string        { return "web_search" }
func (t WebSearchTool) Description() string { return "Searches the web for current information." }
func (t WebSearchTool) ParametersSchema() *jsonschema.Schema {
	return SchemaOf(&webSearchArgs{})
}

func (t WebSearchTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	query, _ := args["query"].(string)
	if query == "" {
		return "", fmt.Errorf("web_search requires a query")
	}
	resp, err := t.Chain.Search(ctx, query)
	if err != nil {
		return "", err
	}
	return search.FormatForContext(resp), nil
}
