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
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/motorq/concierge/internal/config"
	dbRedis "github.com/motorq/concierge/internal/db/redis"
	"github.com/motorq/concierge/internal/history"
	logpkg "github.com/motorq/concierge/internal/logger"
	"github.com/motorq/concierge/internal/metrics"
	"github.com/motorq/concierge/internal/repository/answercache"
	passagerepo "github.com/motorq/concierge/internal/repository/passage"
	chiTransport "github.com/motorq/concierge/internal/transport/chi"
	openaiTransport "github.com/motorq/concierge/internal/transport/openai"
	"github.com/motorq/concierge/internal/transport/tavily"
	decomposeuc "github.com/motorq/concierge/internal/usecase/decompose"
	healthuc "github.com/motorq/concierge/internal/usecase/health"
	pipelineuc "github.com/motorq/concierge/internal/usecase/pipeline"
	retrievaluc "github.com/motorq/concierge/internal/usecase/retrieval"
	synthesizeuc "github.com/motorq/concierge/internal/usecase/synthesize"
	"github.com/motorq/concierge/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting concierge API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.String("passage_index", cfg.Retrieval.IndexName),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	// Wait for database to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register pipeline metrics explicitly (no init())
	metrics.RegisterPipelineMetrics()

	// External adapters — composition root
	llm := openaiTransport.NewClient(&openaiTransport.ClientConfig{
		APIKey:  cfg.LLM.APIKey,
		BaseURL: cfg.LLM.BaseURL,
		Logger:  logger,
	})
	embedder := openaiTransport.NewEmbedder(&openaiTransport.EmbedderConfig{
		APIKey:     cfg.LLM.APIKey,
		BaseURL:    cfg.LLM.BaseURL,
		Model:      cfg.LLM.EmbeddingModel,
		Dimensions: cfg.LLM.Dimensions,
		Logger:     logger,
	})

	callTimeout := time.Duration(cfg.Retrieval.CallTimeoutSec) * time.Second
	searcher := tavily.New(&tavily.Config{
		APIKey:     cfg.Search.APIKey,
		BaseURL:    cfg.Search.BaseURL,
		MaxResults: cfg.Search.MaxResults,
		HTTPClient: &http.Client{Timeout: callTimeout},
		Logger:     logger,
	})

	// Repositories over the shared store
	cache := answercache.New(
		store,
		cfg.Cache.KeyPrefix,
		time.Duration(cfg.Cache.TTLSec)*time.Second,
		metrics.AnswerCacheTotal,
		logger,
	)
	passages := passagerepo.New(store, embedder, cfg.Retrieval.IndexName, logger)

	// Pipeline services
	decomposer := decomposeuc.New(llm, cfg.LLM.DecomposeModel)
	coordinator := retrievaluc.New(searcher, passages, cfg.Retrieval.TopK, callTimeout)
	synthesizer := synthesizeuc.New(llm, cfg.LLM.SynthesizeModel)

	var processor pipelineuc.Processor = pipelineuc.New(cache, decomposer, coordinator, synthesizer)
	if cfg.Retrieval.RetryAttempts > 0 {
		processor = pipelineuc.NewRetrying(
			processor,
			cfg.Retrieval.RetryAttempts,
			time.Duration(cfg.Retrieval.RetryBaseMs)*time.Millisecond,
		)
	}

	healthSvc := healthuc.New(store).
		WithCheck("llm", llm).
		WithCheck("search", searcher)

	// Session transcript lives in the calling layer, not the pipeline
	transcript := history.NewLog()

	server := chiTransport.NewServer(processor, healthSvc, transcript, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(requestLogger(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)
	r.Handle("/metrics", promhttp.Handler())

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

// requestLogger threads a request-scoped logger (with request id) through
// the context so pipeline stages can log without plumbing a logger down.
func requestLogger(base *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := chiMiddleware.GetReqID(r.Context())
			ctx := logpkg.WithRequestID(r.Context(), base, reqID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// jsonRecoverer converts panics into a JSON 500 instead of a closed connection.
func jsonRecoverer(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("panic in HTTP handler",
						zap.Any("panic", rec),
						zap.String("path", r.URL.Path),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal server error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
