package result

import "github.com/ecom-labs/searchapi/internal/domain"

// Item is a single search hit. Ranked items carry the similarity score
// computed by the store; unranked items come from non-ranked lookup
// paths and have no score. Which constructor is used is decided by the
// query path that produced the row, never by probing the row itself.
type Item struct {
	product    domain.Product
	similarity float64
	ranked     bool
}

// NewRanked creates an item produced by a vector-ranked query.
func NewRanked(p domain.Product, similarity float64) Item {
	return Item{product: p, similarity: similarity, ranked: true}
}

// NewUnranked creates an item produced by a non-ranked lookup.
func NewUnranked(p domain.Product) Item {
	return Item{product: p}
}

// Product returns the underlying product record.
func (i *Item) Product() domain.Product { return i.product }

// Similarity returns the score and whether this item is ranked.
func (i *Item) Similarity() (float64, bool) { return i.similarity, i.ranked }

// Response is the search response envelope. Results keep the store's
// ordering: similarity descending, ties broken by ASIN.
type Response struct {
	results         []Item
	totalCount      int
	limit           int
	offset          int
	query           string
	executionTimeMs int64
}

// NewResponse assembles a response envelope.
func NewResponse(results []Item, totalCount, limit, offset int, query string, executionTimeMs int64) Response {
	return Response{
		results:         results,
		totalCount:      totalCount,
		limit:           limit,
		offset:          offset,
		query:           query,
		executionTimeMs: executionTimeMs,
	}
}

// Results returns the ordered page of items.
func (r *Response) Results() []Item { return r.results }

// TotalCount returns the total matching count. On the hybrid path it is
// computed by a separate unpaginated count query; on title/description
// paths it equals the page size.
func (r *Response) TotalCount() int { return r.totalCount }

// Limit returns the echoed page size.
func (r *Response) Limit() int { return r.limit }

// Offset returns the echoed offset.
func (r *Response) Offset() int { return r.offset }

// Query returns the echoed query text.
func (r *Response) Query() string { return r.query }

// ExecutionTimeMs returns the elapsed wall-clock milliseconds.
func (r *Response) ExecutionTimeMs() int64 { return r.executionTimeMs }
