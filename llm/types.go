// Package llm hides three vendor tool-use wire protocols behind one
// call-and-convert interface, so every other component manipulates only
// voicecore/common.Message.
package llm

import (
	"context"
	"fmt"

	"voicecore/common"
)

// ProviderKind names one of the three supported vendors.
type ProviderKind string

const (
	ProviderAnthropic ProviderKind = "anthropic" // vendor A
	ProviderOpenAI    ProviderKind = "openai"    // vendor B
	ProviderGoogle    ProviderKind = "google"    // vendor C
)

// ErrorKind is the machine-readable classification carried by ProviderError.
type ErrorKind string

const (
	ErrorKindAuth             ErrorKind = "auth"
	ErrorKindRateLimited      ErrorKind = "rate-limited"
	ErrorKindTransport        ErrorKind = "transport"
	ErrorKindMalformedResponse ErrorKind = "malformed-response"
	ErrorKindTimeout          ErrorKind = "timeout"
)

// ProviderError is the single failure type surfaced by every Provider
// method.
type ProviderError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("provider error (%s): %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("provider error (%s): %s", e.Kind, e.Message)
}

func (e *ProviderError) Unwrap() error { return e.Err }

func newProviderError(kind ErrorKind, msg string, err error) *ProviderError {
	return &ProviderError{Kind: kind, Message: msg, Err: err}
}

// GenerateRequest is a plain-generation call: system + messages → text.
type GenerateRequest struct {
	System   string
	Messages []common.Message
	Model    string
}

// ToolGenerateRequest is a tool-use generation call: system + messages +
// schemas → text + optional tool calls.
type ToolGenerateRequest struct {
	System   string
	Messages []common.Message
	Tools    []common.ToolSchema
	Model    string
}

// ToolGenerateResponse is what a tool-use call returns.
type ToolGenerateResponse struct {
	Text      string
	ToolCalls []common.ToolCall
}

// Provider is the call-and-convert surface every vendor implements.
type Provider interface {
	Kind() ProviderKind

	// Generate performs plain generation (no tools offered).
	Generate(ctx context.Context, req GenerateRequest) (string, error)

	// GenerateWithTools performs tool-use generation.
	GenerateWithTools(ctx context.Context, req ToolGenerateRequest) (ToolGenerateResponse, error)
}
