// Package chi implements the HTTP API on the chi router.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ecom-labs/searchapi/internal/domain"
	"github.com/ecom-labs/searchapi/internal/domain/search/criteria"
	"github.com/ecom-labs/searchapi/internal/domain/search/result"
	"github.com/ecom-labs/searchapi/internal/version"
	healthuc "github.com/ecom-labs/searchapi/internal/usecase/health"
	searchuc "github.com/ecom-labs/searchapi/internal/usecase/search"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// SearchLogger records executed searches for analytics. Logging is
// best-effort and never fails a request.
type SearchLogger interface {
	Record(ctx context.Context, query string, resultsCount int, responseTimeMs int64) error
}

// Server exposes the search API over HTTP.
type Server struct {
	search        *searchuc.Service
	health        *healthuc.Service
	searchLogs    SearchLogger
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. searchLogs can be nil.
func NewServer(
	search *searchuc.Service,
	health *healthuc.Service,
	searchLogs SearchLogger,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search:     search,
		health:     health,
		searchLogs: searchLogs,
		logger:     logger,
	}
	// Embedding sentinels come before the search-failure sentinels:
	// a hybrid failure caused by the provider carries both, and the
	// cause decides the status code.
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, "invalid_query"),
		sentinelHandler(domain.ErrInvalidCriteria, http.StatusBadRequest, "invalid_criteria"),
		sentinelHandler(domain.ErrProductNotFound, http.StatusNotFound, "product_not_found"),
		sentinelHandler(domain.ErrEmbeddingUnavailable, http.StatusBadGateway, "embedding_unavailable"),
		sentinelHandler(domain.ErrEmbeddingGenerationFailed, http.StatusBadGateway, "embedding_failed"),
		sentinelHandler(domain.ErrSearchFailed, http.StatusInternalServerError, "search_failed"),
		sentinelHandler(domain.ErrTitleSearchFailed, http.StatusInternalServerError, "title_search_failed"),
		sentinelHandler(domain.ErrDescriptionSearchFailed, http.StatusInternalServerError, "description_search_failed"),
	}
	return s
}

// Routes registers all handlers on the router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/", s.Info)
	r.Get("/health", s.Health)
	r.Get("/metrics", s.Metrics)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/search", s.HybridSearch)
		r.Post("/search/title", s.TitleSearch)
		r.Post("/search/description", s.DescriptionSearch)
		r.Get("/products/{asin}", s.GetProduct)
		r.Get("/health", s.Health)
	})
}

type searchRequest struct {
	Query         string   `json:"query"`
	Limit         *int     `json:"limit,omitempty"`
	Offset        *int     `json:"offset,omitempty"`
	MinSimilarity *float64 `json:"minSimilarity,omitempty"`
	Category      *string  `json:"category,omitempty"`
	Brand         *string  `json:"brand,omitempty"`
	MinPrice      *float64 `json:"minPrice,omitempty"`
	MaxPrice      *float64 `json:"maxPrice,omitempty"`
	MinRating     *float64 `json:"minRating,omitempty"`
}

type productResult struct {
	ASIN        string   `json:"asin"`
	Title       string   `json:"title"`
	Description *string  `json:"description,omitempty"`
	Brand       *string  `json:"brand,omitempty"`
	Category    []string `json:"category,omitempty"`
	Price       float64  `json:"price"`
	ImageURL    *string  `json:"imageUrl,omitempty"`
	Rating      float64  `json:"rating"`
	ReviewCount int      `json:"reviewCount"`
	Similarity  *float64 `json:"similarity,omitempty"`
}

type searchResponse struct {
	Results         []productResult `json:"results"`
	TotalCount      int             `json:"totalCount"`
	Limit           int             `json:"limit"`
	Offset          int             `json:"offset"`
	Query           string          `json:"query"`
	ExecutionTimeMs int64           `json:"executionTimeMs"`
}

type healthResponse struct {
	Status           string `json:"status"`
	Timestamp        string `json:"timestamp"`
	EmbeddingService bool   `json:"embeddingService"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HybridSearch handles POST /api/v1/search.
func (s *Server) HybridSearch(w http.ResponseWriter, r *http.Request) {
	s.handleSearch(w, r, s.search.HybridSearch, true)
}

// TitleSearch handles POST /api/v1/search/title.
func (s *Server) TitleSearch(w http.ResponseWriter, r *http.Request) {
	s.handleSearch(w, r, s.search.TitleSearch, false)
}

// DescriptionSearch handles POST /api/v1/search/description.
func (s *Server) DescriptionSearch(w http.ResponseWriter, r *http.Request) {
	s.handleSearch(w, r, s.search.DescriptionSearch, false)
}

type searchFn func(ctx context.Context, c criteria.Criteria) (result.Response, error)

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request, search searchFn, logged bool) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}

	c, err := criteriaFromRequest(req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	resp, err := search(r.Context(), c)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	if logged {
		s.recordSearch(r.Context(), &resp)
	}

	writeJSON(w, http.StatusOK, searchResponseFromResult(&resp))
}

// GetProduct handles GET /api/v1/products/{asin}.
func (s *Server) GetProduct(w http.ResponseWriter, r *http.Request) {
	asin := chi.URLParam(r, "asin")
	if asin == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "ASIN is required")
		return
	}

	item, err := s.search.GetProduct(r.Context(), asin)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, productFromItem(&item))
}

// Health handles health probes. The store decides the status code;
// the embedding provider is reported but never fails the probe.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status:           string(report.Status),
		Timestamp:        time.Now().UTC().Format(time.RFC3339),
		EmbeddingService: report.EmbeddingService,
	})
}

// Info handles GET /.
func (s *Server) Info(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"service": "searchapi",
		"version": version.Version,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func (s *Server) recordSearch(ctx context.Context, resp *result.Response) {
	if s.searchLogs == nil {
		return
	}
	err := s.searchLogs.Record(ctx, resp.Query(), len(resp.Results()), resp.ExecutionTimeMs())
	if err != nil {
		s.logger.Warn("record search log", zap.Error(err))
	}
}

func criteriaFromRequest(req searchRequest) (criteria.Criteria, error) {
	return criteria.New(
		req.Query,
		derefInt(req.Limit),
		derefInt(req.Offset),
		derefFloat(req.MinSimilarity),
		criteria.Filters{
			Category:  req.Category,
			Brand:     req.Brand,
			MinPrice:  req.MinPrice,
			MaxPrice:  req.MaxPrice,
			MinRating: req.MinRating,
		},
	)
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func derefFloat(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

func searchResponseFromResult(resp *result.Response) searchResponse {
	items := make([]productResult, len(resp.Results()))
	for i := range resp.Results() {
		items[i] = productFromItem(&resp.Results()[i])
	}
	return searchResponse{
		Results:         items,
		TotalCount:      resp.TotalCount(),
		Limit:           resp.Limit(),
		Offset:          resp.Offset(),
		Query:           resp.Query(),
		ExecutionTimeMs: resp.ExecutionTimeMs(),
	}
}

func productFromItem(item *result.Item) productResult {
	p := item.Product()
	out := productResult{
		ASIN:        p.ASIN,
		Title:       p.Title,
		Description: p.Description,
		Brand:       p.Brand,
		Category:    p.Category,
		Price:       p.Price,
		ImageURL:    p.ImageURL,
		Rating:      p.Rating,
		ReviewCount: p.ReviewCount,
	}
	if sim, ok := item.Similarity(); ok {
		out.Similarity = &sim
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidQuery,
		domain.ErrInvalidCriteria,
		domain.ErrProductNotFound,
		domain.ErrEmbeddingUnavailable,
		domain.ErrEmbeddingGenerationFailed,
		domain.ErrSearchFailed,
		domain.ErrTitleSearchFailed,
		domain.ErrDescriptionSearchFailed,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
}
