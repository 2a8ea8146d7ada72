// Package assistant wires the Provider Adapter, Tool Surface, Chat
// Orchestrator, Workflow Runner, and Router into the single entry point a
// transport layer calls: New(ctx, opts...) then Chat(ctx, text, clientTZ, sttMetrics).
package assistant

import (
	"voicecore/chat"
	"voicecore/events"
	"voicecore/llm"
	"voicecore/secret_manager"
	"voicecore/tools"
)

// Option configures an Assistant at construction time.
type Option func(*Config)

// Config is the union of every knob the assembled assistant exposes,
// across provider selection, chat behavior, and the collaborators tool
// handlers need.
type Config struct {
	Provider llm.ProviderKind // "" = auto-detect
	Model    string
	Secrets  secret_manager.SecretManager

	SystemPrompt           string
	MaxIterations          int
	MaxHistory             int
	EnableHedgingSafetyNet bool
	HedgingPhrases         []string
	ToolAliases            map[string]string

	TavilyAPIKey  string
	BraveAPIKey   string
	SerpAPIKey    string
	Calendar      tools.CalendarService
	Notes         tools.NotesService
	DisabledTools map[string]bool

	EventSink events.Sink
}

func defaultConfig() Config {
	return Config{
		Secrets:                secret_manager.Default(),
		MaxIterations:          5,
		MaxHistory:             20,
		EnableHedgingSafetyNet: true,
		HedgingPhrases:         chat.DefaultHedgingPhrases,
		EventSink:              events.NopSink{},
	}
}

func WithProvider(kind llm.ProviderKind) Option { return func(c *Config) { c.Provider = kind } }
func WithModel(model string) Option             { return func(c *Config) { c.Model = model } }
func WithSecrets(sm secret_manager.SecretManager) Option {
	return func(c *Config) { c.Secrets = sm }
}
func WithSystemPrompt(prompt string) Option { return func(c *Config) { c.SystemPrompt = prompt } }
func WithMaxIterations(n int) Option        { return func(c *Config) { c.MaxIterations = n } }
func WithMaxHistory(n int) Option           { return func(c *Config) { c.MaxHistory = n } }
func WithHedgingSafetyNet(enabled bool) Option {
	return func(c *Config) { c.EnableHedgingSafetyNet = enabled }
}
func WithHedgingPhrases(phrases []string) Option {
	return func(c *Config) { c.HedgingPhrases = phrases }
}
func WithToolAliases(aliases map[string]string) Option {
	return func(c *Config) { c.ToolAliases = aliases }
}
func WithSearchProviderKeys(tavily, brave, serpAPI string) Option {
	return func(c *Config) { c.TavilyAPIKey = tavily; c.BraveAPIKey = brave; c.SerpAPIKey = serpAPI }
}
func WithCalendar(svc tools.CalendarService) Option { return func(c *Config) { c.Calendar = svc } }
func WithNotes(svc tools.NotesService) Option       { return func(c *Config) { c.Notes = svc } }
func WithDisabledTools(disabled map[string]bool) Option {
	return func(c *Config) { c.DisabledTools = disabled }
}
func WithEventSink(sink events.Sink) Option { return func(c *Config) { c.EventSink = sink } }
