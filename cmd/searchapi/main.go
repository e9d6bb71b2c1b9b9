package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/ecom-labs/searchapi/internal/config"
	"github.com/ecom-labs/searchapi/internal/db/postgres"
	"github.com/ecom-labs/searchapi/internal/domain"
	logpkg "github.com/ecom-labs/searchapi/internal/logger"
	"github.com/ecom-labs/searchapi/internal/metrics"
	productrepo "github.com/ecom-labs/searchapi/internal/repository/product"
	searchlogrepo "github.com/ecom-labs/searchapi/internal/repository/searchlog"
	chiTransport "github.com/ecom-labs/searchapi/internal/transport/chi"
	"github.com/ecom-labs/searchapi/internal/transport/embedhttp"
	openaiEmb "github.com/ecom-labs/searchapi/internal/transport/openai"
	"github.com/ecom-labs/searchapi/internal/version"
	healthuc "github.com/ecom-labs/searchapi/internal/usecase/health"
	searchuc "github.com/ecom-labs/searchapi/internal/usecase/search"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting search API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("embedding_provider", cfg.Embedding.Provider),
	)

	ctx := context.Background()

	store, err := postgres.NewStore(ctx, postgres.Config{
		DSN:      cfg.Database.DSN,
		MaxConns: cfg.Database.MaxConns,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	if err = store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register embedding metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()

	embedder := buildEmbedder(&cfg, logger)

	productRepo := productrepo.New(store.Pool())
	searchLogRepo := searchlogrepo.New(store.Pool())

	searchSvc := searchuc.New(productRepo, embedder)
	healthSvc := healthuc.New(store, newEmbeddingHealthChecker(embedder))

	server := chiTransport.NewServer(searchSvc, healthSvc, searchLogRepo, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.APIKeyMiddleware(cfg.Auth.APIKeys))
	r.Use(chiTransport.RateLimitMiddleware(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildEmbedder selects the embedding provider from config.
func buildEmbedder(cfg *config.Config, logger *zap.Logger) domain.Embedder {
	switch cfg.Embedding.Provider {
	case "openai":
		return openaiEmb.NewEmbedder(&openaiEmb.Config{
			APIKey:     cfg.Embedding.OpenAI.APIKey,
			BaseURL:    cfg.Embedding.OpenAI.BaseURL,
			Model:      cfg.Embedding.OpenAI.Model,
			Dimensions: cfg.Embedding.OpenAI.Dimensions,
			Logger:     logger,
		})
	default:
		return embedhttp.New(&embedhttp.Config{
			BaseURL: cfg.Embedding.ServiceURL,
			Timeout: time.Duration(cfg.Embedding.TimeoutSec) * time.Second,
			Logger:  logger,
		})
	}
}

// embeddingHealthChecker wraps domain.Embedder to implement health.EmbeddingChecker.
type embeddingHealthChecker struct {
	embedder domain.Embedder
}

func newEmbeddingHealthChecker(embedder domain.Embedder) *embeddingHealthChecker {
	return &embeddingHealthChecker{embedder: embedder}
}

func (h *embeddingHealthChecker) HealthCheck(ctx context.Context) error {
	if hc, ok := h.embedder.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("embedding health check: %w", err)
		}
	}
	return nil
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
