package model

import "time"

// WikiArticle is a raw encyclopedic document as returned by the MediaWiki
// API: plaintext extract plus link and category metadata.
type WikiArticle struct {
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Summary    string   `json:"summary"`
	Links      []string `json:"links"`
	Categories []string `json:"categories"`
}

// ArticleSection is one heading-delimited block of a formatted article
type ArticleSection struct {
	Heading string `json:"heading"`
	Content string `json:"content"`
}

// ArticleMetadata carries display metadata for a formatted article
type ArticleMetadata struct {
	WordCount     int      `json:"word_count"`
	Categories    []string `json:"categories"`
	RelatedTopics []string `json:"related_topics"`
}

// FormattedArticle is the normalized section tree derived deterministically
// from raw encyclopedic wikitext. Section and key-fact caps are display
// bounds, not information loss in the stored form.
type FormattedArticle struct {
	Title    string           `json:"title"`
	Summary  string           `json:"summary"`
	Sections []ArticleSection `json:"sections"`
	KeyFacts []string         `json:"key_facts"`
	Metadata ArticleMetadata  `json:"metadata"`
}

// Article is the assembled output of one pipeline run: the synthesized (or
// sourced) prose plus everything derived from it.
type Article struct {
	ID           string               `json:"id"`
	Query        string               `json:"query"` // Normalized form, the cache identity
	Content      string               `json:"content"`
	Entity       EntityClassification `json:"entity"`
	Analysis     ContentAnalysis      `json:"analysis"`
	FactCheck    BiasReport           `json:"fact_check"`
	Formatted    *FormattedArticle    `json:"formatted,omitempty"` // Encyclopedic path only
	SourcesCount int                  `json:"sources_count"`
	Cached       bool                 `json:"cached"`
	Degraded     bool                 `json:"degraded"` // Generated without web evidence
	Warnings     []string             `json:"warnings,omitempty"`
	GeneratedAt  time.Time            `json:"generated_at"`
}
