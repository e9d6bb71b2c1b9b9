package result

import (
	"testing"

	"github.com/ecom-labs/searchapi/internal/domain"
)

func TestItem_RankedCarriesSimilarity(t *testing.T) {
	item := NewRanked(domain.Product{ASIN: "B001"}, 0.87)

	sim, ok := item.Similarity()
	if !ok {
		t.Fatal("ranked item should report a similarity")
	}
	if sim != 0.87 {
		t.Errorf("similarity = %f, want 0.87", sim)
	}
}

func TestItem_UnrankedHasNoSimilarity(t *testing.T) {
	item := NewUnranked(domain.Product{ASIN: "B002"})

	if _, ok := item.Similarity(); ok {
		t.Error("unranked item should not report a similarity")
	}
}

func TestResponse_Envelope(t *testing.T) {
	items := []Item{
		NewRanked(domain.Product{ASIN: "B001"}, 0.9),
		NewRanked(domain.Product{ASIN: "B002"}, 0.8),
	}
	resp := NewResponse(items, 25, 5, 10, "wireless headphones", 42)

	if len(resp.Results()) != 2 {
		t.Errorf("results = %d, want 2", len(resp.Results()))
	}
	if resp.TotalCount() != 25 {
		t.Errorf("totalCount = %d, want 25", resp.TotalCount())
	}
	if resp.Limit() != 5 || resp.Offset() != 10 {
		t.Errorf("limit/offset = %d/%d, want 5/10", resp.Limit(), resp.Offset())
	}
	if resp.Query() != "wireless headphones" {
		t.Errorf("query = %q", resp.Query())
	}
	if resp.ExecutionTimeMs() != 42 {
		t.Errorf("executionTimeMs = %d, want 42", resp.ExecutionTimeMs())
	}
}
