// Package searchlog appends query analytics rows. Logging is
// best-effort: callers record after responding and only log failures.
package searchlog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Repo writes to the search_logs table.
type Repo struct {
	db execer
}

// New creates a search log repository.
func New(db execer) *Repo {
	return &Repo{db: db}
}

const insertSQL = `INSERT INTO search_logs (query, results_count, response_time_ms)
VALUES ($1, $2, $3)`

// Record appends one log row for an executed search.
func (r *Repo) Record(ctx context.Context, query string, resultsCount int, responseTimeMs int64) error {
	if _, err := r.db.Exec(ctx, insertSQL, query, resultsCount, responseTimeMs); err != nil {
		return fmt.Errorf("record search log: %w", err)
	}
	return nil
}
