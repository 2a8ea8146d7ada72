// Package chat implements the conversational orchestration loop: given
// one user input it produces one assistant reply, driving the
// tool-calling loop, hedging recovery, and tool-group-aware history.
package chat

import (
	"voicecore/events"
)

// DefaultHedgingPhrases are substrings that flag a reply as a refusal or
// a real-time-access disclaimer rather than an answer.
var DefaultHedgingPhrases = []string{
	"don't have access",
	"don't have real-time",
	"don't have current",
	"don't have the ability",
	"don't have live",
	"do not have access",
	"do not have real-time",
	"do not have current",
	"do not have the ability",
	"can't browse",
	"can't access the internet",
	"can't access the web",
	"can't search",
	"cannot browse",
	"cannot access the internet",
	"cannot access the web",
	"cannot search",
	"not able to browse",
	"not able to access",
	"not able to search",
	"unable to browse",
	"unable to access real",
	"unable to search",
	"my knowledge cutoff",
	"my training data",
	"information is outdated",
	"data is outdated",
	"may be outdated",
	"might be outdated",
	"as an ai",
	"as a language model",
	"as a large language model",
	"lack access",
	"beyond my capabilities",
	"outside my capabilities",
	"not available to me",
	"can't actually browse",
	"can't actually access",
	"can't actually search",
	"cannot actually browse",
	"cannot actually access",
	"cannot actually search",
	"don't actually have access",
	"still under development",
	"not accessible in real-time",
	"not accessible in real time",
	"isn't accessible",
	"is not accessible",
	"can't provide real-time",
	"cannot provide real-time",
	"can't provide you with real-time",
	"i can't answer that",
	"check yahoo finance",
	"check a financial",
	"visit a financial",
	"recommend checking",
}

const searchClassifierPrompt = "Extract a clean web search query from this user message. " +
	"Strip conversational filler and keep only the factual question.\n\n" +
	"Reply with ONLY the search query, nothing else.\n\n" +
	"Examples:\n" +
	"User: 'What is the weather today in Austin?' -> weather in Austin today\n" +
	"User: 'Yes, look that up, what's the S&P 500?' -> S&P 500 current price\n" +
	"User: 'Can you tell me who won the Super Bowl?' -> who won the Super Bowl"

const postToolHedgingDirective = "You already searched the web and received results above. " +
	"Use those results to answer my question directly. " +
	"Do not say you cannot access real-time data — you just did."

// Option configures an Orchestrator at construction time.
type Option func(*Config)

// Config holds every knob the orchestration loop exposes.
type Config struct {
	SystemPrompt           string
	MaxIterations          int
	MaxHistory             int
	EnableHedgingSafetyNet bool
	HedgingPhrases         []string
	ToolAliases            map[string]string
	EventSink              events.Sink
}

func defaultConfig() Config {
	return Config{
		MaxIterations:          5,
		MaxHistory:             20,
		EnableHedgingSafetyNet: true,
		HedgingPhrases:         DefaultHedgingPhrases,
		EventSink:              events.NopSink{},
	}
}

func WithSystemPrompt(prompt string) Option {
	return func(c *Config) { c.SystemPrompt = prompt }
}

func WithMaxIterations(n int) Option {
	return func(c *Config) { c.MaxIterations = n }
}

func WithMaxHistory(n int) Option {
	return func(c *Config) { c.MaxHistory = n }
}

func WithHedgingSafetyNet(enabled bool) Option {
	return func(c *Config) { c.EnableHedgingSafetyNet = enabled }
}

func WithHedgingPhrases(phrases []string) Option {
	return func(c *Config) { c.HedgingPhrases = phrases }
}

func WithToolAliases(aliases map[string]string) Option {
	return func(c *Config) { c.ToolAliases = aliases }
}

func WithEventSink(sink events.Sink) Option {
	return func(c *Config) { c.EventSink = sink }
}

// defaultSystemPrompt injects today's date into the base persona prompt.
func defaultSystemPrompt(today string) string {
	return "You are a helpful voice assistant. Today is " + today + ". " +
		"Keep responses concise — one to three sentences. " +
		"Speak naturally as in a conversation. " +
		"When searching the web, always include the current year in queries to get fresh results."
}
