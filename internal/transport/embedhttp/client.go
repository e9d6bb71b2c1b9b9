// Package embedhttp talks to the in-house embedding service, a small
// HTTP wrapper around a sentence-transformers model.
package embedhttp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/ecom-labs/searchapi/internal/domain"
	"github.com/ecom-labs/searchapi/internal/metrics"
)

const provider = "service"

// Client is an embedding provider backed by the embedding service.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// Config holds the embedding service settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Logger  *zap.Logger
}

// New creates an embedding service client.
func New(cfg *Config) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: cfg.Timeout},
		logger:  cfg.Logger,
	}
}

type embeddingRequest struct {
	Texts     string `json:"texts"`
	Normalize bool   `json:"normalize"`
}

type embeddingResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
	ModelName  string      `json:"model_name"`
	Dimension  int         `json:"dimension"`
}

// Embed implements domain.Embedder. A reply without embeddings is not
// a transport failure here; the caller decides what an empty vector
// means for its operation.
func (c *Client) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	body, err := json.Marshal(embeddingRequest{Texts: text, Normalize: true})
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("marshal embedding request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.baseURL+"/embed", bytes.NewReader(body),
	)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("build embedding request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	duration := time.Since(start)

	if err != nil {
		metrics.EmbeddingRequestsTotal.WithLabelValues(provider, "", "error").Inc()
		metrics.EmbeddingErrorsTotal.WithLabelValues(provider, "", "transport_error").Inc()
		return domain.EmbeddingResult{}, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.EmbeddingRequestsTotal.WithLabelValues(provider, "", "error").Inc()
		metrics.EmbeddingErrorsTotal.WithLabelValues(provider, "", "http_error").Inc()
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.EmbeddingResult{}, fmt.Errorf("%w: embedding service returned %d: %s",
			domain.ErrEmbeddingUnavailable, resp.StatusCode, snippet)
	}

	var parsed embeddingResponse
	if err = json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		metrics.EmbeddingRequestsTotal.WithLabelValues(provider, "", "error").Inc()
		metrics.EmbeddingErrorsTotal.WithLabelValues(provider, "", "decode_error").Inc()
		return domain.EmbeddingResult{}, fmt.Errorf("%w: decode embedding response: %w",
			domain.ErrEmbeddingUnavailable, err)
	}

	metrics.EmbeddingRequestsTotal.WithLabelValues(provider, parsed.ModelName, "success").Inc()
	metrics.EmbeddingRequestDuration.WithLabelValues(provider, parsed.ModelName).Observe(duration.Seconds())

	if len(parsed.Embeddings) == 0 {
		c.logger.Warn("embedding service returned no embeddings", zap.String("model", parsed.ModelName))
		return domain.EmbeddingResult{Model: parsed.ModelName, Dimension: parsed.Dimension}, nil
	}

	return domain.EmbeddingResult{
		Embedding: parsed.Embeddings[0],
		Model:     parsed.ModelName,
		Dimension: parsed.Dimension,
	}, nil
}

// HealthCheck verifies the embedding service answers its health probe.
func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("build health request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: health probe returned %d", domain.ErrEmbeddingUnavailable, resp.StatusCode)
	}

	var probe struct {
		Status string `json:"status"`
	}
	if err = json.NewDecoder(resp.Body).Decode(&probe); err != nil {
		return fmt.Errorf("%w: decode health response: %w", domain.ErrEmbeddingUnavailable, err)
	}
	if probe.Status != "healthy" {
		return fmt.Errorf("%w: embedding service reports %q", domain.ErrEmbeddingUnavailable, probe.Status)
	}
	return nil
}
