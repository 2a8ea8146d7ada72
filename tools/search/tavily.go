package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// TavilyProvider is S1: Tavily's answer-box-augmented search API.
type TavilyProvider struct {
	APIKey string

	quotaMu    sync.Mutex
	quotaTS    time.Time
	quotaCache QuotaStatus
}

func (p *TavilyProvider) Name() string      { return "tavily" }
func (p *TavilyProvider) Configured() bool  { return p.APIKey != "" }

type tavilyRequest struct {
	Query         string `json:"query"`
	MaxResults    int    `json:"max_results"`
	IncludeAnswer bool   `json:"include_answer"`
}

type tavilyResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

type tavilyResponse struct {
	Answer  string         `json:"answer"`
	Results []tavilyResult `json:"results"`
}

func (p *TavilyProvider) Search(ctx context.Context, query string) (*Response, error) {
	body, err := json.Marshal(tavilyRequest{Query: query, MaxResults: maxResults, IncludeAnswer: true})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://api.tavily.com/search", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-API-Key", p.APIKey)
	req.Header.Set("Content-Type", "application/json")

	var parsed tavilyResponse
	if err := doJSON(req, &parsed); err != nil {
		return nil, fmt.Errorf("tavily search: %w", err)
	}

	results := make([]Result, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		if len(results) >= maxResults {
			break
		}
		results = append(results, Result{Title: r.Title, URL: r.URL, Snippet: truncate(r.Content, snippetMaxLen)})
	}

	return &Response{
		Provider: p.Name(),
		Query:    query,
		Results:  results,
		Side:     SideChannel{AnswerBox: parsed.Answer},
	}, nil
}

// QuotaStatus is one provider's usage diagnostics, surfaced as an
// optional side channel rather than folded into the result text.
type QuotaStatus struct {
	Name      string
	Configured bool
	Used      int
	Limit     int
	Remaining int
}

type tavilyUsageResponse struct {
	TotalSearches int `json:"total_searches"`
	MonthlyLimit  int `json:"monthly_limit"`
}

// CheckQuota reports Tavily's remaining monthly search quota, cached for
// five minutes to avoid spending quota on the check itself.
func (p *TavilyProvider) CheckQuota(ctx context.Context) QuotaStatus {
	p.quotaMu.Lock()
	defer p.quotaMu.Unlock()

	if time.Since(p.quotaTS) < 5*time.Minute && p.quotaCache.Name != "" {
		return p.quotaCache
	}

	status := QuotaStatus{Name: p.Name(), Configured: p.Configured(), Used: -1, Limit: -1, Remaining: -1}
	if !p.Configured() {
		return status
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://api.tavily.com/usage", nil)
	if err != nil {
		return status
	}
	req.Header.Set("X-API-Key", p.APIKey)

	var parsed tavilyUsageResponse
	if err := doJSON(req, &parsed); err != nil {
		return status
	}

	status.Used = parsed.TotalSearches
	status.Limit = parsed.MonthlyLimit
	status.Remaining = parsed.MonthlyLimit - parsed.TotalSearches

	p.quotaCache = status
	p.quotaTS = time.Now()
	return status
}
