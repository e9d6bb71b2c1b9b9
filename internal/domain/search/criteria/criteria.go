package criteria

import (
	"fmt"
	"strings"

	"github.com/ecom-labs/searchapi/internal/domain"
)

// Search parameter limits.
const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Filters holds the optional structured constraints applied alongside
// similarity ranking. A nil field imposes no constraint.
type Filters struct {
	Category  *string
	Brand     *string
	MinPrice  *float64
	MaxPrice  *float64
	MinRating *float64
}

// Criteria is a validated search request.
type Criteria struct {
	query         string
	limit         int
	offset        int
	minSimilarity float64
	filters       Filters
}

// New validates and normalizes search parameters.
// Defaults: limit=10, offset=0, minSimilarity=0 (pass-through).
func New(query string, limit, offset int, minSimilarity float64, filters Filters) (Criteria, error) {
	if strings.TrimSpace(query) == "" {
		return Criteria{}, domain.ErrInvalidQuery
	}
	if limit == 0 {
		limit = DefaultLimit
	}
	if limit < 1 || limit > MaxLimit {
		return Criteria{}, fmt.Errorf("%w: limit must be between 1 and %d", domain.ErrInvalidCriteria, MaxLimit)
	}
	if offset < 0 {
		return Criteria{}, fmt.Errorf("%w: offset cannot be negative", domain.ErrInvalidCriteria)
	}
	if minSimilarity < 0 || minSimilarity > 1 {
		return Criteria{}, fmt.Errorf("%w: minSimilarity must be between 0 and 1", domain.ErrInvalidCriteria)
	}

	return Criteria{
		query:         query,
		limit:         limit,
		offset:        offset,
		minSimilarity: minSimilarity,
		filters:       filters,
	}, nil
}

// Query returns the free-text search query.
func (c *Criteria) Query() string { return c.query }

// Limit returns the page size.
func (c *Criteria) Limit() int { return c.limit }

// Offset returns the number of rows to skip.
func (c *Criteria) Offset() int { return c.offset }

// MinSimilarity returns the minimum similarity threshold.
func (c *Criteria) MinSimilarity() float64 { return c.minSimilarity }

// Filters returns the optional structured filters.
func (c *Criteria) Filters() Filters { return c.filters }
