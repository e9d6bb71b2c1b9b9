// Package product reads the products table populated by the ingestion
// pipeline. All queries are parameterized reads; the service never
// writes product rows.
package product

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ecom-labs/searchapi/internal/domain"
	"github.com/ecom-labs/searchapi/internal/domain/search/criteria"
	"github.com/ecom-labs/searchapi/internal/domain/search/result"
)

// querier is the consumer interface for read queries (satisfied by pgxpool.Pool).
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repo implements the search usecase Repository contract.
type Repo struct {
	db querier
}

// New creates a product repository.
func New(db querier) *Repo {
	return &Repo{db: db}
}

const productColumns = `p.asin, p.title, p.description, p.brand, p.category, p.price,
       p.image_url, p.rating, p.review_count, p.created_at, p.updated_at`

// Optional filters are guarded with "$n IS NULL OR ..." so a nil
// parameter imposes no constraint. Ties on similarity break on asin so
// pages stay reproducible across query plans.
const filterPredicate = `
  AND ($3::text IS NULL OR EXISTS (
        SELECT 1 FROM unnest(p.category) AS c WHERE c LIKE '%' || $3::text || '%'))
  AND ($4::text IS NULL OR LOWER(p.brand) LIKE '%' || LOWER($4::text) || '%')
  AND ($5::numeric IS NULL OR p.price >= $5::numeric)
  AND ($6::numeric IS NULL OR p.price <= $6::numeric)
  AND ($7::numeric IS NULL OR p.rating >= $7::numeric)`

const searchByVectorSQL = `SELECT ` + productColumns + `,
       (1 - (p.combined_embedding <=> $1::vector)) AS similarity
FROM products p
WHERE (1 - (p.combined_embedding <=> $1::vector)) >= $2` + filterPredicate + `
ORDER BY similarity DESC, p.asin
LIMIT $8 OFFSET $9`

const countSearchResultsSQL = `SELECT COUNT(*)
FROM products p
WHERE (1 - (p.combined_embedding <=> $1::vector)) >= $2` + filterPredicate

const searchByTitleVectorSQL = `SELECT ` + productColumns + `,
       (1 - (p.title_embedding <=> $1::vector)) AS similarity
FROM products p
WHERE (1 - (p.title_embedding <=> $1::vector)) >= $2
ORDER BY similarity DESC, p.asin
LIMIT $3 OFFSET $4`

const searchByDescriptionVectorSQL = `SELECT ` + productColumns + `,
       (1 - (p.description_embedding <=> $1::vector)) AS similarity
FROM products p
WHERE p.description_embedding IS NOT NULL
  AND (1 - (p.description_embedding <=> $1::vector)) >= $2
ORDER BY similarity DESC, p.asin
LIMIT $3 OFFSET $4`

const getByASINSQL = `SELECT ` + productColumns + `
FROM products p
WHERE p.asin = $1`

// SearchByVector runs the filtered similarity search against the
// combined embedding, ordered by similarity descending.
func (r *Repo) SearchByVector(
	ctx context.Context, embedding string, minSimilarity float64,
	f criteria.Filters, limit, offset int,
) ([]result.Item, error) {
	rows, err := r.db.Query(ctx, searchByVectorSQL,
		embedding, minSimilarity,
		f.Category, f.Brand, f.MinPrice, f.MaxPrice, f.MinRating,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("search by vector: %w", err)
	}
	defer rows.Close()

	return collectRanked(rows)
}

// CountSearchResults counts all rows matching the identical filter
// predicate, without pagination.
func (r *Repo) CountSearchResults(
	ctx context.Context, embedding string, minSimilarity float64, f criteria.Filters,
) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, countSearchResultsSQL,
		embedding, minSimilarity,
		f.Category, f.Brand, f.MinPrice, f.MaxPrice, f.MinRating,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count search results: %w", err)
	}
	return count, nil
}

// SearchByTitleVector ranks against the title embedding only; no
// structured filters apply on this path.
func (r *Repo) SearchByTitleVector(
	ctx context.Context, embedding string, minSimilarity float64, limit, offset int,
) ([]result.Item, error) {
	rows, err := r.db.Query(ctx, searchByTitleVectorSQL, embedding, minSimilarity, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("search by title vector: %w", err)
	}
	defer rows.Close()

	return collectRanked(rows)
}

// SearchByDescriptionVector ranks against the description embedding;
// rows without one are excluded.
func (r *Repo) SearchByDescriptionVector(
	ctx context.Context, embedding string, minSimilarity float64, limit, offset int,
) ([]result.Item, error) {
	rows, err := r.db.Query(ctx, searchByDescriptionVectorSQL, embedding, minSimilarity, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("search by description vector: %w", err)
	}
	defer rows.Close()

	return collectRanked(rows)
}

// GetByASIN fetches a single product without ranking.
func (r *Repo) GetByASIN(ctx context.Context, asin string) (result.Item, error) {
	row := r.db.QueryRow(ctx, getByASINSQL, asin)

	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return result.Item{}, fmt.Errorf("get %s: %w", asin, domain.ErrProductNotFound)
		}
		return result.Item{}, fmt.Errorf("get %s: %w", asin, err)
	}
	return result.NewUnranked(p), nil
}

// collectRanked scans rows that carry a trailing similarity column.
func collectRanked(rows pgx.Rows) ([]result.Item, error) {
	var items []result.Item
	for rows.Next() {
		var p domain.Product
		var similarity float64
		err := rows.Scan(
			&p.ASIN, &p.Title, &p.Description, &p.Brand, &p.Category, &p.Price,
			&p.ImageURL, &p.Rating, &p.ReviewCount, &p.CreatedAt, &p.UpdatedAt,
			&similarity,
		)
		if err != nil {
			return nil, fmt.Errorf("scan ranked row: %w", err)
		}
		items = append(items, result.NewRanked(p, similarity))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	return items, nil
}

// scanProduct scans a row without a similarity column.
func scanProduct(row pgx.Row) (domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ASIN, &p.Title, &p.Description, &p.Brand, &p.Category, &p.Price,
		&p.ImageURL, &p.Rating, &p.ReviewCount, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return domain.Product{}, err
	}
	return p, nil
}
