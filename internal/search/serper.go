package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/episteme-app/episteme/internal/model"
)

const serperEndpoint = "https://google.serper.dev/search"

// SerperSearch implements Searcher against the Serper API. Serper returns
// rank-ordered organic results without scores, so a score is synthesized
// from the rank to keep the aggregator's ordering contract.
type SerperSearch struct {
	apiKey     string
	httpClient *http.Client
	userAgent  string
}

type serperRequest struct {
	Query string `json:"q"`
	Num   int    `json:"num"`
}

type serperResponse struct {
	Organic []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"organic"`
}

// Name returns the provider name
func (s *SerperSearch) Name() string { return "serper" }

// Endpoint returns the provider API URL
func (s *SerperSearch) Endpoint() string { return serperEndpoint }

// Search issues one sub-query against Serper
func (s *SerperSearch) Search(ctx context.Context, query string, maxResults int, excludeDomains []string) ([]model.SearchResult, error) {
	body, err := json.Marshal(serperRequest{Query: query, Num: maxResults})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, serperEndpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-API-KEY", s.apiKey)
	req.Header.Set("Content-Type", "application/json")
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("serper request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("serper API error: status %d", resp.StatusCode)
	}

	var parsed serperResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	results := make([]model.SearchResult, 0, len(parsed.Organic))
	for i, r := range parsed.Organic {
		if len(results) >= maxResults {
			break
		}
		if hostExcluded(r.Link, excludeDomains) {
			continue
		}
		results = append(results, model.SearchResult{
			Title:   r.Title,
			URL:     r.Link,
			Content: r.Snippet,
			Score:   rankScore(i),
		})
	}
	return results, nil
}

// rankScore maps a zero-based rank to a descending pseudo-relevance score
func rankScore(rank int) float64 {
	score := 1.0 - float64(rank)*0.05
	if score < 0.05 {
		score = 0.05
	}
	return score
}
