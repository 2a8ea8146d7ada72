package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/invopop/jsonschema"
	"google.golang.org/genai"

	"voicecore/common"
	"voicecore/secret_manager"
)

// GoogleDefaultModel is used when no model is given at construction or
// per-request.
const GoogleDefaultModel = "gemini-2.5-pro"

// GoogleAPIKeySecretName is the primary secret_manager key this provider
// asks for; GEMINI_API_KEY is tried as a fallback name.
const GoogleAPIKeySecretName = "GOOGLE_API_KEY"
const googleAPIKeyFallbackSecretName = "GEMINI_API_KEY"

// GoogleProvider is the Gemini vendor adapter: tool calls and their results
// are native FunctionCall/FunctionResponse parts correlated by position,
// never by an echoed id.
type GoogleProvider struct {
	client       *genai.Client
	defaultModel string
}

func NewGoogleProvider(ctx context.Context, secrets secret_manager.SecretManager, defaultModel string) (*GoogleProvider, error) {
	key, err := secrets.GetSecret(GoogleAPIKeySecretName)
	if err != nil {
		key, err = secrets.GetSecret(googleAPIKeyFallbackSecretName)
	}
	if err != nil {
		return nil, newProviderError(ErrorKindAuth, "missing Google API key", err)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, newProviderError(ErrorKindTransport, "creating google client", err)
	}
	if defaultModel == "" {
		defaultModel = GoogleDefaultModel
	}
	return &GoogleProvider{client: client, defaultModel: defaultModel}, nil
}

func (p *GoogleProvider) Kind() ProviderKind { return ProviderGoogle }

func (p *GoogleProvider) model(requested string) string {
	if requested != "" {
		return requested
	}
	return p.defaultModel
}

func (p *GoogleProvider) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	contents := googleFromMessages(req.System, req.Messages)
	resp, err := p.client.Models.GenerateContent(ctx, p.model(req.Model), contents, nil)
	if err != nil {
		return "", classifyGoogleError(err)
	}
	return googleTextOf(resp), nil
}

func (p *GoogleProvider) GenerateWithTools(ctx context.Context, req ToolGenerateRequest) (ToolGenerateResponse, error) {
	contents := googleFromMessages(req.System, req.Messages)

	config := &genai.GenerateContentConfig{
		Tools: googleFromToolSchemas(req.Tools),
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.model(req.Model), contents, config)
	if err != nil {
		return ToolGenerateResponse{}, classifyGoogleError(err)
	}

	text, calls := googleExtract(resp)
	return ToolGenerateResponse{Text: text, ToolCalls: calls}, nil
}

// BuildGoogleToolResultMessages converts one assistant/tool-results pair
// into Gemini's wire shape: the assistant's function calls and the
// matching function responses are separate Content entries ("model" then
// "user" role), correlated by position — no id is carried on the wire.
// Pure and order-preserving.
func BuildGoogleToolResultMessages(assistantMsg common.Message, toolResults []common.Message) ([]*genai.Content, error) {
	if !assistantMsg.HasToolCalls() {
		return nil, errors.New("assistant message carries no tool calls")
	}
	if len(toolResults) != len(assistantMsg.ToolCalls) {
		return nil, fmt.Errorf("expected %d tool results, got %d", len(assistantMsg.ToolCalls), len(toolResults))
	}

	var callParts []*genai.Part
	if assistantMsg.Text != "" {
		callParts = append(callParts, &genai.Part{Text: assistantMsg.Text})
	}
	for _, tc := range assistantMsg.ToolCalls {
		callParts = append(callParts, &genai.Part{
			FunctionCall: &genai.FunctionCall{Name: tc.Name, Args: tc.Arguments},
		})
	}

	var responseParts []*genai.Part
	for i, tr := range toolResults {
		name := assistantMsg.ToolCalls[i].Name
		resp := map[string]any{"output": tr.Text}
		if tr.IsError {
			resp = map[string]any{"error": tr.Text}
		}
		responseParts = append(responseParts, &genai.Part{
			FunctionResponse: &genai.FunctionResponse{Name: name, Response: resp},
		})
	}

	return []*genai.Content{
		{Role: "model", Parts: callParts},
		{Role: "user", Parts: responseParts},
	}, nil
}

func googleFromMessages(system string, messages []common.Message) []*genai.Content {
	var out []*genai.Content
	if system != "" {
		out = append(out, &genai.Content{Role: "user", Parts: []*genai.Part{{Text: "Instructions: " + system}}})
	}

	i := 0
	for i < len(messages) {
		m := messages[i]
		switch {
		case m.Role == common.RoleAssistant && m.HasToolCalls():
			j := i + 1
			var results []common.Message
			for j < len(messages) && messages[j].Role == common.RoleTool {
				results = append(results, messages[j])
				j++
			}
			pair, err := BuildGoogleToolResultMessages(m, results)
			if err == nil {
				out = append(out, pair...)
			}
			i = j
		case m.Role == common.RoleAssistant:
			out = append(out, &genai.Content{Role: "model", Parts: []*genai.Part{{Text: m.Text}}})
			i++
		default:
			out = append(out, &genai.Content{Role: "user", Parts: []*genai.Part{{Text: m.Text}}})
			i++
		}
	}
	return out
}

func googleTextOf(resp *genai.GenerateContentResponse) string {
	text, _ := googleExtract(resp)
	return text
}

func googleExtract(resp *genai.GenerateContentResponse) (string, []common.ToolCall) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", nil
	}
	var text string
	var calls []common.ToolCall
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Text != "" && !part.Thought {
			text += part.Text
		}
		if part.FunctionCall != nil {
			calls = append(calls, common.ToolCall{
				Name:      part.FunctionCall.Name,
				Arguments: part.FunctionCall.Args,
			})
		}
	}
	return text, calls
}

func googleFromToolSchemas(schemas []common.ToolSchema) []*genai.Tool {
	if len(schemas) == 0 {
		return nil
	}
	decls := make([]*genai.FunctionDeclaration, 0, len(schemas))
	for _, s := range schemas {
		decls = append(decls, &genai.FunctionDeclaration{
			Name:        s.Name,
			Description: s.Description,
			Parameters:  googleFromSchema(s.Parameters),
		})
	}
	return []*genai.Tool{{FunctionDeclarations: decls}}
}

func googleFromSchema(schema *jsonschema.Schema) *genai.Schema {
	if schema == nil {
		return nil
	}
	out := &genai.Schema{
		Type:        genai.Type(schema.Type),
		Description: schema.Description,
		Required:    schema.Required,
	}
	if schema.Properties != nil {
		out.Properties = make(map[string]*genai.Schema)
		for pair := schema.Properties.Oldest(); pair != nil; pair = pair.Next() {
			out.Properties[pair.Key] = googleFromSchema(pair.Value)
		}
	}
	if schema.Items != nil {
		out.Items = googleFromSchema(schema.Items)
	}
	return out
}

func classifyGoogleError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 401, 403:
			return newProviderError(ErrorKindAuth, "google rejected credentials", err)
		case 429:
			return newProviderError(ErrorKindRateLimited, "google rate limit", err)
		case 408:
			return newProviderError(ErrorKindTimeout, "google request timed out", err)
		}
	}
	return newProviderError(ErrorKindTransport, "google request failed", err)
}
