package search

import (
	"context"
	"fmt"
	"net/http"
)

// SerpAPIProvider is S3: a SerpAPI-style Google results proxy, the richest
// of the four in structured extras (knowledge graph and an answer box).
type SerpAPIProvider struct {
	APIKey string
}

func (p *SerpAPIProvider) Name() string     { return "serpapi" }
func (p *SerpAPIProvider) Configured() bool { return p.APIKey != "" }

type serpOrganicResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

type serpKnowledgeGraph struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type serpAnswerBox struct {
	Answer  string `json:"answer"`
	Snippet string `json:"snippet"`
}

type serpResponse struct {
	OrganicResults  []serpOrganicResult `json:"organic_results"`
	KnowledgeGraph  *serpKnowledgeGraph `json:"knowledge_graph"`
	AnswerBox       *serpAnswerBox      `json:"answer_box"`
}

func (p *SerpAPIProvider) Search(ctx context.Context, query string) (*Response, error) {
	target := buildURL("https://serpapi.com/search", map[string]string{
		"q":      query,
		"engine": "google",
		"api_key": p.APIKey,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}

	var parsed serpResponse
	if err := doJSON(req, &parsed); err != nil {
		return nil, fmt.Errorf("serpapi search: %w", err)
	}

	results := make([]Result, 0, len(parsed.OrganicResults))
	for _, r := range parsed.OrganicResults {
		if len(results) >= maxResults {
			break
		}
		results = append(results, Result{Title: r.Title, URL: r.Link, Snippet: truncate(r.Snippet, snippetMaxLen)})
	}

	var side SideChannel
	if parsed.KnowledgeGraph != nil {
		side.KnowledgeGraph = parsed.KnowledgeGraph.Description
		if side.KnowledgeGraph == "" {
			side.KnowledgeGraph = parsed.KnowledgeGraph.Title
		}
	}
	if parsed.AnswerBox != nil {
		side.AnswerBox = parsed.AnswerBox.Answer
		if side.AnswerBox == "" {
			side.AnswerBox = parsed.AnswerBox.Snippet
		}
	}

	return &Response{Provider: p.Name(), Query: query, Results: results, Side: side}, nil
}
