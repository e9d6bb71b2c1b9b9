package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ecom-labs/searchapi/internal/domain"
	"github.com/ecom-labs/searchapi/internal/domain/search/criteria"
	"github.com/ecom-labs/searchapi/internal/domain/search/result"
	"github.com/ecom-labs/searchapi/internal/vector"
)

// Service handles product search across hybrid, title, and description paths.
type Service struct {
	repo  Repository
	embed Embedder
}

// New creates a search service.
func New(repo Repository, embed Embedder) *Service {
	return &Service{repo: repo, embed: embed}
}

// HybridSearch embeds the query and runs the filtered similarity search
// against the combined embedding. The total count comes from a separate
// unpaginated count query over the identical predicate, so it reflects
// all matches, not the returned page.
func (s *Service) HybridSearch(ctx context.Context, c criteria.Criteria) (result.Response, error) {
	start := time.Now()

	emb, err := s.vectorize(ctx, c.Query())
	if err != nil {
		return result.Response{}, fmt.Errorf("%w: %w", domain.ErrSearchFailed, err)
	}

	items, err := s.repo.SearchByVector(
		ctx, emb, c.MinSimilarity(), c.Filters(), c.Limit(), c.Offset(),
	)
	if err != nil {
		return result.Response{}, fmt.Errorf("%w: %w", domain.ErrSearchFailed, err)
	}

	total, err := s.repo.CountSearchResults(ctx, emb, c.MinSimilarity(), c.Filters())
	if err != nil {
		return result.Response{}, fmt.Errorf("%w: %w", domain.ErrSearchFailed, err)
	}

	return result.NewResponse(
		items, total, c.Limit(), c.Offset(), c.Query(), time.Since(start).Milliseconds(),
	), nil
}

// columnSearchFn runs a single-column ranked query.
type columnSearchFn func(
	ctx context.Context, embedding string, minSimilarity float64, limit, offset int,
) ([]result.Item, error)

// TitleSearch ranks against the title embedding only. Structured
// filters do not apply; the reported total equals the page size.
func (s *Service) TitleSearch(ctx context.Context, c criteria.Criteria) (result.Response, error) {
	return s.columnSearch(ctx, c, s.repo.SearchByTitleVector, domain.ErrTitleSearchFailed)
}

// DescriptionSearch ranks against the description embedding; products
// without one never appear. The reported total equals the page size.
func (s *Service) DescriptionSearch(ctx context.Context, c criteria.Criteria) (result.Response, error) {
	return s.columnSearch(ctx, c, s.repo.SearchByDescriptionVector, domain.ErrDescriptionSearchFailed)
}

func (s *Service) columnSearch(
	ctx context.Context, c criteria.Criteria, search columnSearchFn, failure error,
) (result.Response, error) {
	start := time.Now()

	emb, err := s.vectorize(ctx, c.Query())
	if err != nil {
		return result.Response{}, fmt.Errorf("%w: %w", failure, err)
	}

	items, err := search(ctx, emb, c.MinSimilarity(), c.Limit(), c.Offset())
	if err != nil {
		return result.Response{}, fmt.Errorf("%w: %w", failure, err)
	}

	return result.NewResponse(
		items, len(items), c.Limit(), c.Offset(), c.Query(), time.Since(start).Milliseconds(),
	), nil
}

// GetProduct fetches a single product by its ASIN.
func (s *Service) GetProduct(ctx context.Context, asin string) (result.Item, error) {
	return s.repo.GetByASIN(ctx, asin)
}

// vectorize embeds the query text and formats it as a pgvector literal.
// A provider that answers without an embedding is a generation failure,
// caught here so no store query runs with an empty vector.
func (s *Service) vectorize(ctx context.Context, query string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", domain.ErrInvalidQuery
	}

	emb, err := s.embed.Embed(ctx, query)
	if err != nil {
		return "", fmt.Errorf("vectorize query: %w", err)
	}
	if len(emb.Embedding) == 0 {
		return "", fmt.Errorf("%w: provider returned no embedding", domain.ErrEmbeddingGenerationFailed)
	}
	return vector.Format(emb.Embedding), nil
}
