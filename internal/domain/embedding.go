package domain

import "context"

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// HealthChecker is implemented by embedders that can probe their backend.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// EmbeddingResult carries the embedding vector and provider metadata.
type EmbeddingResult struct {
	Embedding []float32
	Model     string
	Dimension int
}
