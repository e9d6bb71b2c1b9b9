package domain

import "errors"

var (
	// ErrInvalidQuery signals an empty or missing search query.
	ErrInvalidQuery = errors.New("query cannot be empty")
	// ErrInvalidCriteria signals out-of-range search parameters.
	ErrInvalidCriteria = errors.New("invalid search criteria")
	// ErrProductNotFound signals a missing product record.
	ErrProductNotFound = errors.New("product not found")

	// ErrEmbeddingUnavailable signals that the embedding service call
	// errored or timed out.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")
	// ErrEmbeddingGenerationFailed signals that the embedding service
	// returned no vectors for a query.
	ErrEmbeddingGenerationFailed = errors.New("failed to generate embedding for query")
)

// Search failure sentinels carry the sanitized messages surfaced to
// callers; the original cause stays wrapped underneath for logs.
var (
	ErrSearchFailed            = errors.New("Search failed")
	ErrTitleSearchFailed       = errors.New("Title search failed")
	ErrDescriptionSearchFailed = errors.New("Description search failed")
)
