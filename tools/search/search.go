// Package search implements the four-provider web search fallback chain
// behind the web_search tool: Tavily, Brave, a SerpAPI-style
// knowledge-graph search, and DuckDuckGo as the always-available last
// resort.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"voicecore/logger"
)

const (
	maxResults     = 4
	snippetMaxLen  = 200
	providerTimeout = 5 * time.Second
)

// Result is a single ranked hit.
type Result struct {
	Title   string
	URL     string
	Snippet string
}

// SideChannel carries structured extras a provider may surface above its
// numbered result list: an instant answer box, a knowledge-graph summary,
// or an infobox.
type SideChannel struct {
	AnswerBox       string
	KnowledgeGraph  string
	Infobox         string
}

// Response is one provider's successful answer.
type Response struct {
	Provider string
	Query    string
	Results  []Result
	Side     SideChannel
}

// Provider is a single search backend in the fallback chain.
type Provider interface {
	Name() string
	Configured() bool
	Search(ctx context.Context, query string) (*Response, error)
}

// Chain tries each provider in order and returns the first one that
// returns at least one result.
type Chain struct {
	providers []Provider
}

// NewChain builds the standard S1-S4 chain: Tavily, Brave, SerpAPI, then
// DuckDuckGo (which is always considered configured).
func NewChain(tavilyKey, braveKey, serpAPIKey string) *Chain {
	return &Chain{providers: []Provider{
		&TavilyProvider{APIKey: tavilyKey},
		&BraveProvider{APIKey: braveKey},
		&SerpAPIProvider{APIKey: serpAPIKey},
		&DuckDuckGoProvider{},
	}}
}

// Search runs the fallback chain, returning the first provider response
// that has at least one result row.
func (c *Chain) Search(ctx context.Context, query string) (*Response, error) {
	var lastErr error
	for _, p := range c.providers {
		if !p.Configured() {
			continue
		}
		reqCtx, cancel := context.WithTimeout(ctx, providerTimeout)
		resp, err := p.Search(reqCtx, query)
		cancel()
		if err != nil {
			log := logger.Get()
			log.Warn().Err(err).Str("provider", p.Name()).Msg("search provider failed")
			lastErr = err
			continue
		}
		if resp != nil && len(resp.Results) > 0 {
			return resp, nil
		}
	}
	if lastErr != nil {
		return nil, fmt.Errorf("all search providers exhausted, last error: %w", lastErr)
	}
	return nil, fmt.Errorf("all search providers returned no results")
}

// FormatForContext renders a Response as the block of text injected into
// the model's context: side channels first, then a numbered result list.
func FormatForContext(resp *Response) string {
	if resp == nil || len(resp.Results) == 0 {
		return ""
	}
	var b strings.Builder
	if resp.Side.AnswerBox != "" {
		fmt.Fprintf(&b, "Answer: %s\n", resp.Side.AnswerBox)
	}
	if resp.Side.KnowledgeGraph != "" {
		fmt.Fprintf(&b, "Knowledge graph: %s\n", resp.Side.KnowledgeGraph)
	}
	if resp.Side.Infobox != "" {
		fmt.Fprintf(&b, "Infobox: %s\n", resp.Side.Infobox)
	}
	fmt.Fprintf(&b, "Web search results for %q:\n", resp.Query)
	for i, r := range resp.Results {
		title := r.Title
		if title == "" {
			title = "No title"
		}
		fmt.Fprintf(&b, "%d. %s (%s)\n", i+1, title, r.URL)
		if r.Snippet != "" {
			fmt.Fprintf(&b, "   %s\n", r.Snippet)
		}
	}
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func buildURL(base string, query map[string]string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	q := u.Query()
	for k, v := range query {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func doJSON(req *http.Request, out any) error {
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("%s returned status %d", req.URL.Host, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeJSONBody(resp *http.Response, out any) error {
	return json.NewDecoder(resp.Body).Decode(out)
}
