package model

// SearchResult is a single snippet returned by a web search provider.
// Identity is URL: when the same URL comes back from multiple sub-queries,
// only the highest-scoring instance survives into the evidence bundle.
type SearchResult struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score"` // Provider relevance score
}

// EvidenceBundle is the ranked, deduplicated, textually-rendered set of
// source snippets handed to the content synthesizer. Rendered is the exact
// wire form the prompt builder embeds: numbered SOURCE blocks terminated by
// a separator.
type EvidenceBundle struct {
	Results      []SearchResult `json:"results"`       // Ordered by descending score
	Rendered     string         `json:"rendered"`      // SOURCE n / URL / CONTENT / RELEVANCE SCORE blocks
	SourcesCount int            `json:"sources_count"` // Count of SOURCE markers in Rendered
	Degraded     bool           `json:"degraded"`      // True when this is the no-web-evidence placeholder
}
