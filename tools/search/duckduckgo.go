package search

import (
	"context"
	"fmt"
	"net/http"
)

// DuckDuckGoProvider is the always-available last resort in the fallback
// chain, needing no API key: it's backed by DuckDuckGo's no-key Instant
// Answer API.
type DuckDuckGoProvider struct{}

func (p *DuckDuckGoProvider) Name() string     { return "duckduckgo" }
func (p *DuckDuckGoProvider) Configured() bool { return true }

type duckDuckGoRelatedTopic struct {
	Text     string `json:"Text"`
	FirstURL string `json:"FirstURL"`
}

type duckDuckGoResponse struct {
	AbstractText  string                   `json:"AbstractText"`
	AbstractURL   string                   `json:"AbstractURL"`
	Heading       string                   `json:"Heading"`
	RelatedTopics []duckDuckGoRelatedTopic `json:"RelatedTopics"`
}

func (p *DuckDuckGoProvider) Search(ctx context.Context, query string) (*Response, error) {
	target := buildURL("https://api.duckduckgo.com/", map[string]string{
		"q":           query,
		"format":      "json",
		"no_html":     "1",
		"skip_disambig": "1",
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}

	var parsed duckDuckGoResponse
	if err := doJSON(req, &parsed); err != nil {
		return nil, fmt.Errorf("duckduckgo search: %w", err)
	}

	var results []Result
	if parsed.AbstractText != "" {
		title := parsed.Heading
		if title == "" {
			title = query
		}
		results = append(results, Result{Title: title, URL: parsed.AbstractURL, Snippet: truncate(parsed.AbstractText, snippetMaxLen)})
	}
	for _, rt := range parsed.RelatedTopics {
		if len(results) >= maxResults {
			break
		}
		if rt.Text == "" {
			continue
		}
		results = append(results, Result{Title: truncate(rt.Text, 80), URL: rt.FirstURL, Snippet: truncate(rt.Text, snippetMaxLen)})
	}

	return &Response{Provider: p.Name(), Query: query, Results: results}, nil
}
