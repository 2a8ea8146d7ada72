package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"voicecore/common"
	"voicecore/secret_manager"
)

// OpenAIDefaultModel is used when ToolGenerateRequest/GenerateRequest leave
// Model empty and the provider was not given one at construction.
const OpenAIDefaultModel = "gpt-4o"

// OpenAIAPIKeySecretName is the secret_manager key this provider asks for.
const OpenAIAPIKeySecretName = "OPENAI_API_KEY"

// OpenAIProvider is the OpenAI vendor adapter: parallel tool_calls[] each
// carrying an id, arguments are a JSON-encoded string on the wire.
type OpenAIProvider struct {
	client       *openai.Client
	defaultModel string
}

// NewOpenAIProvider builds a Provider backed by the OpenAI chat completions
// API. baseURL is optional (used for OpenAI-compatible endpoints).
func NewOpenAIProvider(secrets secret_manager.SecretManager, baseURL, defaultModel string) (*OpenAIProvider, error) {
	key, err := secrets.GetSecret(OpenAIAPIKeySecretName)
	if err != nil {
		return nil, newProviderError(ErrorKindAuth, "missing OpenAI API key", err)
	}
	cfg := openai.DefaultConfig(key)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if defaultModel == "" {
		defaultModel = OpenAIDefaultModel
	}
	return &OpenAIProvider{
		client:       openai.NewClientWithConfig(cfg),
		defaultModel: defaultModel,
	}, nil
}

func (p *OpenAIProvider) Kind() ProviderKind { return ProviderOpenAI }

func (p *OpenAIProvider) model(requested string) string {
	if requested != "" {
		return requested
	}
	return p.defaultModel
}

func (p *OpenAIProvider) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	messages := openaiFromMessages(req.System, req.Messages)
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    p.model(req.Model),
		Messages: messages,
	})
	if err != nil {
		return "", classifyOpenAIError(err)
	}
	if len(resp.Choices) == 0 {
		return "", newProviderError(ErrorKindMalformedResponse, "no choices returned", nil)
	}
	return resp.Choices[0].Message.Content, nil
}

func (p *OpenAIProvider) GenerateWithTools(ctx context.Context, req ToolGenerateRequest) (ToolGenerateResponse, error) {
	messages := openaiFromMessages(req.System, req.Messages)
	tools := openaiFromToolSchemas(req.Tools)

	request := openai.ChatCompletionRequest{
		Model:    p.model(req.Model),
		Messages: messages,
		Tools:    tools,
	}
	if len(tools) > 0 {
		parallel := true
		request.ParallelToolCalls = parallel
	}

	resp, err := p.client.CreateChatCompletion(ctx, request)
	if err != nil {
		return ToolGenerateResponse{}, classifyOpenAIError(err)
	}
	if len(resp.Choices) == 0 {
		return ToolGenerateResponse{}, newProviderError(ErrorKindMalformedResponse, "no choices returned", nil)
	}

	msg := resp.Choices[0].Message
	calls, err := openaiToToolCalls(msg.ToolCalls)
	if err != nil {
		return ToolGenerateResponse{}, newProviderError(ErrorKindMalformedResponse, "malformed tool call arguments", err)
	}

	return ToolGenerateResponse{
		Text:      msg.Content,
		ToolCalls: calls,
	}, nil
}

// BuildOpenAIToolResultMessages converts one assistant/tool-results pair
// into OpenAI's wire shape: an assistant message carrying tool calls
// becomes one openai.ChatCompletionMessage with ToolCalls[], each tool
// result becomes its own role:"tool" message correlated by ToolCallID.
// Pure and order-preserving: round-tripping a tool group through this and
// back yields the same calls and results.
func BuildOpenAIToolResultMessages(assistantMsg common.Message, toolResults []common.Message) ([]openai.ChatCompletionMessage, error) {
	if !assistantMsg.HasToolCalls() {
		return nil, errors.New("assistant message carries no tool calls")
	}
	calls, err := openaiFromToolCalls(assistantMsg.ToolCalls)
	if err != nil {
		return nil, err
	}
	out := make([]openai.ChatCompletionMessage, 0, len(toolResults)+1)
	out = append(out, openai.ChatCompletionMessage{
		Role:      openai.ChatMessageRoleAssistant,
		Content:   assistantMsg.Text,
		ToolCalls: calls,
	})
	for _, tr := range toolResults {
		out = append(out, openai.ChatCompletionMessage{
			Role:       openai.ChatMessageRoleTool,
			Content:    tr.Text,
			ToolCallID: tr.ToolCallID,
			Name:       tr.ToolName,
		})
	}
	return out, nil
}

func openaiFromMessages(system string, messages []common.Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages)+1)
	if system != "" {
		out = append(out, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: system,
		})
	}
	for _, m := range messages {
		switch m.Role {
		case common.RoleTool:
			out = append(out, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				Content:    m.Text,
				ToolCallID: m.ToolCallID,
				Name:       m.ToolName,
			})
		case common.RoleAssistant:
			calls, _ := openaiFromToolCalls(m.ToolCalls)
			out = append(out, openai.ChatCompletionMessage{
				Role:      openai.ChatMessageRoleAssistant,
				Content:   m.Text,
				ToolCalls: calls,
			})
		default:
			out = append(out, openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleUser,
				Content: m.Text,
			})
		}
	}
	return out
}

func openaiFromToolCalls(calls []common.ToolCall) ([]openai.ToolCall, error) {
	if len(calls) == 0 {
		return nil, nil
	}
	out := make([]openai.ToolCall, 0, len(calls))
	for _, c := range calls {
		argBytes, err := json.Marshal(c.Arguments)
		if err != nil {
			return nil, fmt.Errorf("marshal arguments for tool call %q: %w", c.Name, err)
		}
		out = append(out, openai.ToolCall{
			ID:   c.ID,
			Type: openai.ToolTypeFunction,
			Function: openai.FunctionCall{
				Name:      c.Name,
				Arguments: string(argBytes),
			},
		})
	}
	return out, nil
}

func openaiToToolCalls(calls []openai.ToolCall) ([]common.ToolCall, error) {
	if len(calls) == 0 {
		return nil, nil
	}
	out := make([]common.ToolCall, 0, len(calls))
	for _, c := range calls {
		args := map[string]any{}
		raw := strings.TrimSpace(c.Function.Arguments)
		if raw != "" {
			if err := json.Unmarshal([]byte(raw), &args); err != nil {
				return nil, fmt.Errorf("unmarshal arguments for tool call %q: %w", c.Function.Name, err)
			}
		}
		out = append(out, common.ToolCall{
			ID:        c.ID,
			Name:      c.Function.Name,
			Arguments: args,
		})
	}
	return out, nil
}

func openaiFromToolSchemas(schemas []common.ToolSchema) []openai.Tool {
	if len(schemas) == 0 {
		return nil
	}
	out := make([]openai.Tool, 0, len(schemas))
	for _, s := range schemas {
		out = append(out, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        s.Name,
				Description: s.Description,
				Parameters:  s.Parameters,
			},
		})
	}
	return out
}

func classifyOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case 401, 403:
			return newProviderError(ErrorKindAuth, "openai rejected credentials", err)
		case 429:
			return newProviderError(ErrorKindRateLimited, "openai rate limit", err)
		case 408:
			return newProviderError(ErrorKindTimeout, "openai request timed out", err)
		}
	}
	return newProviderError(ErrorKindTransport, "openai request failed", err)
}
