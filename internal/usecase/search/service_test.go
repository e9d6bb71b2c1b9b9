package search

import (
	"context"
	"errors"
	"testing"

	"github.com/ecom-labs/searchapi/internal/domain"
	"github.com/ecom-labs/searchapi/internal/domain/search/criteria"
	"github.com/ecom-labs/searchapi/internal/domain/search/result"
)

type mockRepo struct {
	searchItems []result.Item
	searchErr   error
	count       int
	countErr    error
	titleItems  []result.Item
	titleErr    error
	descItems   []result.Item
	descErr     error
	item        result.Item
	itemErr     error

	searchCalls int
	countCalls  int
	titleCalls  int
	descCalls   int

	lastEmbedding string
	lastMinSim    float64
	lastFilters   criteria.Filters
	lastLimit     int
	lastOffset    int
}

func (m *mockRepo) SearchByVector(
	_ context.Context, embedding string, minSimilarity float64,
	filters criteria.Filters, limit, offset int,
) ([]result.Item, error) {
	m.searchCalls++
	m.lastEmbedding = embedding
	m.lastMinSim = minSimilarity
	m.lastFilters = filters
	m.lastLimit = limit
	m.lastOffset = offset
	return m.searchItems, m.searchErr
}

func (m *mockRepo) CountSearchResults(
	_ context.Context, _ string, _ float64, _ criteria.Filters,
) (int, error) {
	m.countCalls++
	return m.count, m.countErr
}

func (m *mockRepo) SearchByTitleVector(
	_ context.Context, embedding string, minSimilarity float64, limit, offset int,
) ([]result.Item, error) {
	m.titleCalls++
	m.lastEmbedding = embedding
	m.lastMinSim = minSimilarity
	m.lastLimit = limit
	m.lastOffset = offset
	return m.titleItems, m.titleErr
}

func (m *mockRepo) SearchByDescriptionVector(
	_ context.Context, _ string, _ float64, _, _ int,
) ([]result.Item, error) {
	m.descCalls++
	return m.descItems, m.descErr
}

func (m *mockRepo) GetByASIN(_ context.Context, _ string) (result.Item, error) {
	return m.item, m.itemErr
}

type mockEmbedder struct {
	result domain.EmbeddingResult
	err    error

	calls    int
	lastText string
}

func (m *mockEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	m.calls++
	m.lastText = text
	return m.result, m.err
}

func mustCriteria(t *testing.T, query string, limit, offset int, minSim float64, f criteria.Filters) criteria.Criteria {
	t.Helper()
	c, err := criteria.New(query, limit, offset, minSim, f)
	if err != nil {
		t.Fatalf("criteria: %v", err)
	}
	return c
}

func rankedItems(asins ...string) []result.Item {
	items := make([]result.Item, 0, len(asins))
	for i, asin := range asins {
		items = append(items, result.NewRanked(domain.Product{ASIN: asin}, 0.9-float64(i)*0.1))
	}
	return items
}

func TestHybridSearch(t *testing.T) {
	repo := &mockRepo{searchItems: rankedItems("B001", "B002"), count: 25}
	emb := &mockEmbedder{result: domain.EmbeddingResult{
		Embedding: []float32{0.1, 0.2, 0.3}, Model: "all-MiniLM-L6-v2", Dimension: 3,
	}}
	svc := New(repo, emb)

	brand := "sony"
	c := mustCriteria(t, "wireless headphones", 5, 0, 0.5, criteria.Filters{Brand: &brand})

	resp, err := svc.HybridSearch(context.Background(), c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(resp.Results()) != 2 {
		t.Errorf("results = %d, want 2", len(resp.Results()))
	}
	if resp.TotalCount() != 25 {
		t.Errorf("totalCount = %d, want 25 (count query, not page size)", resp.TotalCount())
	}
	if resp.Limit() != 5 || resp.Offset() != 0 {
		t.Errorf("pagination echo = %d/%d", resp.Limit(), resp.Offset())
	}
	if resp.Query() != "wireless headphones" {
		t.Errorf("query echo = %q", resp.Query())
	}
	if resp.ExecutionTimeMs() < 0 {
		t.Errorf("executionTimeMs = %d", resp.ExecutionTimeMs())
	}

	if emb.lastText != "wireless headphones" {
		t.Errorf("embedded text = %q", emb.lastText)
	}
	if repo.lastEmbedding != "[0.1,0.2,0.3]" {
		t.Errorf("vector literal = %q", repo.lastEmbedding)
	}
	if repo.lastMinSim != 0.5 || repo.lastLimit != 5 {
		t.Errorf("minSimilarity/limit = %v/%d", repo.lastMinSim, repo.lastLimit)
	}
	if repo.lastFilters.Brand == nil || *repo.lastFilters.Brand != "sony" {
		t.Errorf("brand filter not forwarded: %+v", repo.lastFilters)
	}
	if repo.countCalls != 1 {
		t.Errorf("countCalls = %d, want 1", repo.countCalls)
	}
}

func TestHybridSearch_EmptyQuery(t *testing.T) {
	repo := &mockRepo{}
	emb := &mockEmbedder{}
	svc := New(repo, emb)

	_, err := svc.HybridSearch(context.Background(), criteria.Criteria{})
	if !errors.Is(err, domain.ErrInvalidQuery) {
		t.Fatalf("expected ErrInvalidQuery, got %v", err)
	}
	if emb.calls != 0 || repo.searchCalls != 0 || repo.countCalls != 0 {
		t.Error("no collaborator may be called for an empty query")
	}
}

func TestHybridSearch_EmbedderUnavailable(t *testing.T) {
	repo := &mockRepo{}
	emb := &mockEmbedder{err: domain.ErrEmbeddingUnavailable}
	svc := New(repo, emb)

	c := mustCriteria(t, "laptop", 0, 0, 0, criteria.Filters{})
	_, err := svc.HybridSearch(context.Background(), c)

	if !errors.Is(err, domain.ErrSearchFailed) {
		t.Errorf("expected ErrSearchFailed, got %v", err)
	}
	if !errors.Is(err, domain.ErrEmbeddingUnavailable) {
		t.Errorf("embedding cause must stay detectable, got %v", err)
	}
	if repo.searchCalls != 0 || repo.countCalls != 0 {
		t.Error("store must not be queried when embedding fails")
	}
}

func TestHybridSearch_EmptyEmbedding(t *testing.T) {
	repo := &mockRepo{}
	emb := &mockEmbedder{result: domain.EmbeddingResult{Model: "all-MiniLM-L6-v2"}}
	svc := New(repo, emb)

	c := mustCriteria(t, "laptop", 0, 0, 0, criteria.Filters{})
	_, err := svc.HybridSearch(context.Background(), c)

	if !errors.Is(err, domain.ErrEmbeddingGenerationFailed) {
		t.Fatalf("expected ErrEmbeddingGenerationFailed, got %v", err)
	}
	if repo.searchCalls != 0 {
		t.Error("store must not be queried with an empty embedding")
	}
}

func TestHybridSearch_StoreError(t *testing.T) {
	repo := &mockRepo{searchErr: errors.New("relation does not exist")}
	emb := &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{1}}}
	svc := New(repo, emb)

	c := mustCriteria(t, "laptop", 0, 0, 0, criteria.Filters{})
	_, err := svc.HybridSearch(context.Background(), c)

	if !errors.Is(err, domain.ErrSearchFailed) {
		t.Errorf("expected ErrSearchFailed, got %v", err)
	}
}

func TestHybridSearch_CountError(t *testing.T) {
	repo := &mockRepo{searchItems: rankedItems("B001"), countErr: errors.New("timeout")}
	emb := &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{1}}}
	svc := New(repo, emb)

	c := mustCriteria(t, "laptop", 0, 0, 0, criteria.Filters{})
	_, err := svc.HybridSearch(context.Background(), c)

	if !errors.Is(err, domain.ErrSearchFailed) {
		t.Errorf("count failure must fail the search, got %v", err)
	}
}

func TestTitleSearch(t *testing.T) {
	repo := &mockRepo{titleItems: rankedItems("B001", "B002", "B003")}
	emb := &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{0.5}}}
	svc := New(repo, emb)

	c := mustCriteria(t, "gaming keyboard", 10, 0, 0, criteria.Filters{})
	resp, err := svc.TitleSearch(context.Background(), c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.TotalCount() != 3 {
		t.Errorf("title totalCount = %d, want page size 3", resp.TotalCount())
	}
	if repo.countCalls != 0 {
		t.Error("title search must not run the count query")
	}
	if repo.titleCalls != 1 {
		t.Errorf("titleCalls = %d, want 1", repo.titleCalls)
	}
}

func TestTitleSearch_Error(t *testing.T) {
	repo := &mockRepo{titleErr: errors.New("boom")}
	emb := &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{1}}}
	svc := New(repo, emb)

	c := mustCriteria(t, "keyboard", 0, 0, 0, criteria.Filters{})
	_, err := svc.TitleSearch(context.Background(), c)

	if !errors.Is(err, domain.ErrTitleSearchFailed) {
		t.Errorf("expected ErrTitleSearchFailed, got %v", err)
	}
	if errors.Is(err, domain.ErrSearchFailed) {
		t.Errorf("title failure must not be the hybrid sentinel: %v", err)
	}
}

func TestDescriptionSearch(t *testing.T) {
	repo := &mockRepo{descItems: rankedItems("B009")}
	emb := &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{0.5}}}
	svc := New(repo, emb)

	c := mustCriteria(t, "noise cancelling", 10, 0, 0, criteria.Filters{})
	resp, err := svc.DescriptionSearch(context.Background(), c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.TotalCount() != 1 {
		t.Errorf("description totalCount = %d, want page size 1", resp.TotalCount())
	}
}

func TestDescriptionSearch_Error(t *testing.T) {
	repo := &mockRepo{descErr: errors.New("boom")}
	emb := &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{1}}}
	svc := New(repo, emb)

	c := mustCriteria(t, "headphones", 0, 0, 0, criteria.Filters{})
	_, err := svc.DescriptionSearch(context.Background(), c)

	if !errors.Is(err, domain.ErrDescriptionSearchFailed) {
		t.Errorf("expected ErrDescriptionSearchFailed, got %v", err)
	}
}

func TestGetProduct(t *testing.T) {
	item := result.NewUnranked(domain.Product{ASIN: "B010", Title: "USB hub"})
	repo := &mockRepo{item: item}
	svc := New(repo, &mockEmbedder{})

	got, err := svc.GetProduct(context.Background(), "B010")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Product().ASIN != "B010" {
		t.Errorf("asin = %q", got.Product().ASIN)
	}
}

func TestGetProduct_NotFound(t *testing.T) {
	repo := &mockRepo{itemErr: domain.ErrProductNotFound}
	svc := New(repo, &mockEmbedder{})

	_, err := svc.GetProduct(context.Background(), "missing")
	if !errors.Is(err, domain.ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound, got %v", err)
	}
}
