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

	"github.com/clearway-labs/signpost/internal/cache"
	"github.com/clearway-labs/signpost/internal/config"
	logpkg "github.com/clearway-labs/signpost/internal/logger"
	"github.com/clearway-labs/signpost/internal/metrics"
	"github.com/clearway-labs/signpost/internal/repository/catalog"
	"github.com/clearway-labs/signpost/internal/repository/vectorindex"
	chiTransport "github.com/clearway-labs/signpost/internal/transport/chi"
	"github.com/clearway-labs/signpost/internal/transport/openai"
	extractuc "github.com/clearway-labs/signpost/internal/usecase/extract"
	healthuc "github.com/clearway-labs/signpost/internal/usecase/health"
	queryuc "github.com/clearway-labs/signpost/internal/usecase/query"
	searchuc "github.com/clearway-labs/signpost/internal/usecase/search"
	"github.com/clearway-labs/signpost/internal/version"
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

	logger.Info("Starting signpost API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("vector_addrs", cfg.Vector.Addrs),
	)

	// Intervention catalog snapshot
	store, err := catalog.Load(cfg.Catalog.Path, logger)
	if err != nil {
		logger.Fatal("Failed to load catalog", zap.Error(err))
	}

	// Vector index
	index, err := vectorindex.New(vectorindex.Config{
		Addrs:     cfg.Vector.Addrs,
		Password:  cfg.Vector.Password,
		IndexName: cfg.Vector.IndexName,
		KeyPrefix: cfg.Vector.KeyPrefix,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to create vector index client", zap.Error(err))
	}
	defer index.Close()

	ctx := context.Background()
	if err := index.WaitForReady(ctx, time.Duration(cfg.Vector.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Vector index not ready", zap.Error(err))
	}
	logger.Info("Connected to vector index")

	// Register language-model metrics explicitly (no init())
	metrics.RegisterLLMMetrics()

	// Language-model provider
	llm := openai.NewClient(&openai.Config{
		APIKey:         cfg.LLM.APIKey,
		BaseURL:        cfg.LLM.BaseURL,
		ExtractModel:   cfg.LLM.ExtractModel,
		SynthesisModel: cfg.LLM.SynthesisModel,
		EmbeddingModel: cfg.LLM.EmbeddingModel,
		Dimensions:     cfg.LLM.Dimensions,
		Logger:         logger,
	})

	// Search strategies — composition root
	similarity := searchuc.NewSimilarity(llm, index, logger)
	structured := searchuc.NewStructured(store, logger)
	hybrid := searchuc.NewHybrid(similarity, structured, logger)

	// Response cache
	respCache := cache.New(
		cfg.Cache.MaxEntries,
		time.Duration(cfg.Cache.TTLSec)*time.Second,
		metrics.ResponseCacheTotal,
		logger,
	)

	// Orchestrator
	extractor := extractuc.New(llm, logger)
	searchSvc := queryuc.New(
		[]queryuc.Strategy{similarity, structured, hybrid}, hybrid,
		extractor, llm, respCache,
		logger,
	)

	// Health service
	healthSvc := healthuc.New(store, index, llm)

	// Create chi server
	server := chiTransport.NewServer(searchSvc, store, respCache, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
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

			// Set X-Request-ID in response header
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
