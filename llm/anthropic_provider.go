package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/shared/constant"

	"voicecore/common"
	"voicecore/secret_manager"
)

// AnthropicDefaultModel is used when no model is given at construction or
// per-request.
const AnthropicDefaultModel = "claude-opus-4-5"

// AnthropicAPIKeySecretName is the secret_manager key this provider asks for.
const AnthropicAPIKeySecretName = "ANTHROPIC_API_KEY"

const anthropicDefaultMaxTokens = 4096

// AnthropicProvider is the Claude vendor adapter: tool calls and their
// results travel as content blocks inside a message, correlated by an id
// the caller must echo back on tool_result blocks.
type AnthropicProvider struct {
	client       anthropic.Client
	defaultModel string
}

func NewAnthropicProvider(secrets secret_manager.SecretManager, defaultModel string) (*AnthropicProvider, error) {
	key, err := secrets.GetSecret(AnthropicAPIKeySecretName)
	if err != nil {
		return nil, newProviderError(ErrorKindAuth, "missing Anthropic API key", err)
	}
	if defaultModel == "" {
		defaultModel = AnthropicDefaultModel
	}
	return &AnthropicProvider{
		client:       anthropic.NewClient(option.WithAPIKey(key)),
		defaultModel: defaultModel,
	}, nil
}

func (p *AnthropicProvider) Kind() ProviderKind { return ProviderAnthropic }

func (p *AnthropicProvider) model(requested string) string {
	if requested != "" {
		return requested
	}
	return p.defaultModel
}

func (p *AnthropicProvider) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model(req.Model)),
		MaxTokens: anthropicDefaultMaxTokens,
		Messages:  anthropicFromMessages(req.Messages),
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return "", classifyAnthropicError(err)
	}
	return anthropicTextOf(msg), nil
}

func (p *AnthropicProvider) GenerateWithTools(ctx context.Context, req ToolGenerateRequest) (ToolGenerateResponse, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model(req.Model)),
		MaxTokens: anthropicDefaultMaxTokens,
		Messages:  anthropicFromMessages(req.Messages),
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}
	if len(req.Tools) > 0 {
		tools, err := anthropicFromToolSchemas(req.Tools)
		if err != nil {
			return ToolGenerateResponse{}, newProviderError(ErrorKindMalformedResponse, "invalid tool schema", err)
		}
		params.Tools = tools
	}

	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return ToolGenerateResponse{}, classifyAnthropicError(err)
	}

	var calls []common.ToolCall
	for _, block := range msg.Content {
		if tu := block.AsToolUse(); tu.ID != "" {
			args, ok := tu.Input.(map[string]any)
			if !ok {
				args = map[string]any{}
			}
			calls = append(calls, common.ToolCall{ID: tu.ID, Name: tu.Name, Arguments: args})
		}
	}

	return ToolGenerateResponse{Text: anthropicTextOf(msg), ToolCalls: calls}, nil
}

// BuildAnthropicToolResultMessages converts one assistant/tool-results pair
// into Claude's wire shape: the assistant's tool_use blocks and the
// matching tool_result blocks are two separate messages (assistant, then
// user), correlated by id rather than position. Pure and order-preserving.
func BuildAnthropicToolResultMessages(assistantMsg common.Message, toolResults []common.Message) ([]anthropic.MessageParam, error) {
	if !assistantMsg.HasToolCalls() {
		return nil, errors.New("assistant message carries no tool calls")
	}

	var assistantBlocks []anthropic.ContentBlockParamUnion
	if assistantMsg.Text != "" {
		assistantBlocks = append(assistantBlocks, anthropic.NewTextBlock(assistantMsg.Text))
	}
	for _, tc := range assistantMsg.ToolCalls {
		args := tc.Arguments
		if args == nil {
			args = map[string]any{}
		}
		assistantBlocks = append(assistantBlocks, anthropic.ContentBlockParamUnion{
			OfToolUse: &anthropic.ToolUseBlockParam{
				ID:    tc.ID,
				Name:  tc.Name,
				Input: args,
			},
		})
	}

	var resultBlocks []anthropic.ContentBlockParamUnion
	for _, tr := range toolResults {
		resultBlocks = append(resultBlocks, anthropic.ContentBlockParamUnion{
			OfToolResult: &anthropic.ToolResultBlockParam{
				ToolUseID: tr.ToolCallID,
				Content: []anthropic.ToolResultBlockParamContentUnion{
					{OfText: &anthropic.TextBlockParam{Text: tr.Text}},
				},
				IsError: anthropic.Bool(tr.IsError),
			},
		})
	}

	return []anthropic.MessageParam{
		anthropic.NewAssistantMessage(assistantBlocks...),
		anthropic.NewUserMessage(resultBlocks...),
	}, nil
}

func anthropicFromMessages(messages []common.Message) []anthropic.MessageParam {
	var out []anthropic.MessageParam
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
			pair, err := BuildAnthropicToolResultMessages(m, results)
			if err == nil {
				out = append(out, pair...)
			}
			i = j
		case m.Role == common.RoleAssistant:
			out = append(out, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Text)))
			i++
		default:
			out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Text)))
			i++
		}
	}
	return out
}

func anthropicTextOf(msg *anthropic.Message) string {
	var text string
	for _, block := range msg.Content {
		if tb := block.AsText(); tb.Text != "" {
			text += tb.Text
		}
	}
	return text
}

func anthropicFromToolSchemas(schemas []common.ToolSchema) ([]anthropic.ToolUnionParam, error) {
	out := make([]anthropic.ToolUnionParam, 0, len(schemas))
	for _, s := range schemas {
		if s.Parameters == nil {
			return nil, fmt.Errorf("tool %q has no parameter schema", s.Name)
		}
		var required []string
		for _, r := range s.Parameters.Required {
			required = append(required, r)
		}
		out = append(out, anthropic.ToolUnionParam{
			OfTool: &anthropic.ToolParam{
				Name:        s.Name,
				Description: anthropic.Opt(s.Description),
				InputSchema: anthropic.ToolInputSchemaParam{
					Properties: s.Parameters.Properties,
					Required:   required,
					Type:       constant.Object("object"),
				},
			},
		})
	}
	return out, nil
}

func classifyAnthropicError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case 401, 403:
			return newProviderError(ErrorKindAuth, "anthropic rejected credentials", err)
		case 429:
			return newProviderError(ErrorKindRateLimited, "anthropic rate limit", err)
		case 408:
			return newProviderError(ErrorKindTimeout, "anthropic request timed out", err)
		}
	}
	return newProviderError(ErrorKindTransport, "anthropic request failed", err)
}
