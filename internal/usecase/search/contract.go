package search

import (
	"context"

	"github.com/ecom-labs/searchapi/internal/domain"
	"github.com/ecom-labs/searchapi/internal/domain/search/criteria"
	"github.com/ecom-labs/searchapi/internal/domain/search/result"
)

// Repository defines the storage contract for search operations.
// Embeddings cross the boundary as pgvector text literals.
type Repository interface {
	SearchByVector(
		ctx context.Context, embedding string, minSimilarity float64,
		filters criteria.Filters, limit, offset int,
	) ([]result.Item, error)

	CountSearchResults(
		ctx context.Context, embedding string, minSimilarity float64,
		filters criteria.Filters,
	) (int, error)

	SearchByTitleVector(
		ctx context.Context, embedding string, minSimilarity float64,
		limit, offset int,
	) ([]result.Item, error)

	SearchByDescriptionVector(
		ctx context.Context, embedding string, minSimilarity float64,
		limit, offset int,
	) ([]result.Item, error)

	GetByASIN(ctx context.Context, asin string) (result.Item, error)
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
