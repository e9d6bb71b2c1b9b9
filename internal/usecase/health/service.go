package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates the service can answer searches.
	Healthy Status = "healthy"
	// Unhealthy indicates the product store is unreachable.
	Unhealthy Status = "unhealthy"
)

// Report aggregates health check results. The store decides the
// overall status; the embedding provider is reported alongside it
// because searches degrade, not fail, while it recovers.
type Report struct {
	Status           Status
	Database         bool
	EmbeddingService bool
}

// Service coordinates health checks.
type Service struct {
	db        DBPinger
	embedding EmbeddingChecker
}

// New creates a Service. embedding can be nil.
func New(db DBPinger, embedding EmbeddingChecker) *Service {
	return &Service{db: db, embedding: embedding}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	r := Report{Database: s.db.Ping(ctx) == nil}

	if s.embedding != nil {
		r.EmbeddingService = s.embedding.HealthCheck(ctx) == nil
	}

	if r.Database {
		r.Status = Healthy
	} else {
		r.Status = Unhealthy
	}
	return r
}
