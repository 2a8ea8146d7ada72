package search

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync/atomic"
)

// BraveProvider is S2: Brave's web search API, which surfaces an infobox
// for entity-like queries.
type BraveProvider struct {
	APIKey string

	remaining atomic.Int64 // 0 until a response header sets it; CheckQuota reports 0 as unknown (-1)
}

func (p *BraveProvider) Name() string     { return "brave" }
func (p *BraveProvider) Configured() bool { return p.APIKey != "" }

type braveWebResult struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

type braveInfobox struct {
	Description string `json:"description"`
}

type braveResponse struct {
	Web struct {
		Results []braveWebResult `json:"results"`
	} `json:"web"`
	Infobox *braveInfobox `json:"infobox"`
}

func (p *BraveProvider) Search(ctx context.Context, query string) (*Response, error) {
	target := buildURL("https://api.search.brave.com/res/v1/web/search", map[string]string{
		"q":     query,
		"count": strconv.Itoa(maxResults),
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Subscription-Token", p.APIKey)
	req.Header.Set("Accept", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("brave search: %w", err)
	}
	defer resp.Body.Close()

	if rl := resp.Header.Get("x-ratelimit-remaining"); rl != "" {
		if n, err := strconv.Atoi(rl); err == nil {
			p.remaining.Store(int64(n))
		}
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("brave search: status %d", resp.StatusCode)
	}

	var parsed braveResponse
	if err := decodeJSONBody(resp, &parsed); err != nil {
		return nil, fmt.Errorf("brave search: %w", err)
	}

	results := make([]Result, 0, len(parsed.Web.Results))
	for _, r := range parsed.Web.Results {
		if len(results) >= maxResults {
			break
		}
		results = append(results, Result{Title: r.Title, URL: r.URL, Snippet: truncate(r.Description, snippetMaxLen)})
	}

	var side SideChannel
	if parsed.Infobox != nil {
		side.Infobox = parsed.Infobox.Description
	}

	return &Response{Provider: p.Name(), Query: query, Results: results, Side: side}, nil
}

// CheckQuota reports Brave's remaining request count as cached from the
// last response's rate-limit header; Brave doesn't expose a total limit.
func (p *BraveProvider) CheckQuota() QuotaStatus {
	remaining := p.remaining.Load()
	status := QuotaStatus{Name: p.Name(), Configured: p.Configured(), Used: -1, Limit: -1, Remaining: -1}
	if remaining != 0 {
		status.Remaining = int(remaining)
	}
	return status
}
