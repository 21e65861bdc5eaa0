package model

import "errors"

// Failure taxonomy for the pipeline. Optional enrichments (normalization
// history, entity resolution, bias scoring) degrade to defaults and are
// reported as warnings; these sentinels cover the required steps whose
// failure the caller must render.
var (
	// ErrSearchUnavailable means no usable results came back from any
	// sub-query, or the search provider is not configured, and fallback
	// evidence was not permitted.
	ErrSearchUnavailable = errors.New("web search unavailable")

	// ErrSynthesisTimeout means the text-generation call exceeded its
	// deadline. Surfaced as a user-visible "try again" condition, never
	// retried internally.
	ErrSynthesisTimeout = errors.New("content synthesis timed out")

	// ErrArticleNotFound means the encyclopedic source has no article for
	// the query.
	ErrArticleNotFound = errors.New("encyclopedic article not found")
)
