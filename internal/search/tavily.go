package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/episteme-app/episteme/internal/model"
)

const tavilyEndpoint = "https://api.tavily.com/search"

// TavilySearch implements Searcher against the Tavily search API
type TavilySearch struct {
	apiKey     string
	httpClient *http.Client
	userAgent  string
}

type tavilyRequest struct {
	APIKey         string   `json:"api_key"`
	Query          string   `json:"query"`
	SearchDepth    string   `json:"search_depth"`
	IncludeAnswer  bool     `json:"include_answer"`
	MaxResults     int      `json:"max_results"`
	IncludeDomains []string `json:"include_domains"`
	ExcludeDomains []string `json:"exclude_domains"`
}

type tavilyResponse struct {
	Results []struct {
		Title   string  `json:"title"`
		URL     string  `json:"url"`
		Content string  `json:"content"`
		Score   float64 `json:"score"`
	} `json:"results"`
}

// Name returns the provider name
func (s *TavilySearch) Name() string { return "tavily" }

// Endpoint returns the provider API URL
func (s *TavilySearch) Endpoint() string { return tavilyEndpoint }

// Search issues one sub-query against Tavily
func (s *TavilySearch) Search(ctx context.Context, query string, maxResults int, excludeDomains []string) ([]model.SearchResult, error) {
	payload := tavilyRequest{
		APIKey:         s.apiKey,
		Query:          query,
		SearchDepth:    "basic",
		IncludeAnswer:  false,
		MaxResults:     maxResults,
		IncludeDomains: []string{},
		ExcludeDomains: excludeDomains,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tavilyEndpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tavily request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tavily API error: status %d", resp.StatusCode)
	}

	var parsed tavilyResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	results := make([]model.SearchResult, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		// The API honors exclude_domains, but guard against redirect hosts.
		if hostExcluded(r.URL, excludeDomains) {
			continue
		}
		results = append(results, model.SearchResult{
			Title:   r.Title,
			URL:     r.URL,
			Content: r.Content,
			Score:   r.Score,
		})
	}
	return results, nil
}
