package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/kailas-cloud/ragdex/internal/config"
	dbRedis "github.com/kailas-cloud/ragdex/internal/db/redis"
	"github.com/kailas-cloud/ragdex/internal/domain"
	logpkg "github.com/kailas-cloud/ragdex/internal/logger"
	"github.com/kailas-cloud/ragdex/internal/metrics"
	"github.com/kailas-cloud/ragdex/internal/repository/dircache"
	chiTransport "github.com/kailas-cloud/ragdex/internal/transport/chi"
	openaiEmb "github.com/kailas-cloud/ragdex/internal/transport/openai"
	"github.com/kailas-cloud/ragdex/internal/transport/pgvector"
	"github.com/kailas-cloud/ragdex/internal/transport/ragapi"
	corpusuc "github.com/kailas-cloud/ragdex/internal/usecase/corpus"
	healthuc "github.com/kailas-cloud/ragdex/internal/usecase/health"
	queryuc "github.com/kailas-cloud/ragdex/internal/usecase/query"
	searchuc "github.com/kailas-cloud/ragdex/internal/usecase/search"
	"github.com/kailas-cloud/ragdex/internal/version"
)

// retrievalProvider is the full backend contract plus the readiness
// probe both drivers expose.
type retrievalProvider interface {
	domain.Provider
	Ping(ctx context.Context) error
}

func main() {
	// .env is optional; real deployments set variables in the environment.
	_ = godotenv.Load()

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

	logger.Info("Starting ragdex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("provider_driver", cfg.Provider.Driver),
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
	)

	ctx := context.Background()

	// Register engine metrics explicitly (no init())
	metrics.RegisterEngineMetrics()

	// Build retrieval provider — composition root
	provider, closeProvider, err := buildProvider(ctx, cfg.Provider, logger)
	if err != nil {
		logger.Fatal("Failed to create retrieval provider", zap.Error(err))
	}
	defer closeProvider()

	// Directory cache is optional; without it every discovery hits the
	// provider directly.
	directory := domain.Directory(provider)
	var cachePinger healthuc.CachePinger
	if cfg.Cache.Enabled {
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer store.Close()

		if err := store.WaitForReady(ctx, time.Duration(cfg.Cache.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Cache not ready", zap.Error(err))
		}
		logger.Info("Connected to directory cache", zap.Strings("addrs", cfg.Cache.Addrs))

		directory = dircache.New(
			provider, store,
			time.Duration(cfg.Cache.TTLSec)*time.Second,
			metrics.DirectoryCacheTotal, logger,
		)
		cachePinger = store
	}

	// Create use case services
	defaults := cfg.Query.Defaults()
	querySvc := queryuc.New(provider, metrics.FilterDroppedTotal)
	searchSvc := searchuc.New(directory, querySvc, defaults.FanoutWorkers)
	corpusSvc := corpusuc.New(directory, querySvc, defaults)

	// Health pings the raw provider so cached reads never mask an outage.
	healthSvc := healthuc.New(provider, cachePinger)

	// Create chi server
	server := chiTransport.NewServer(corpusSvc, querySvc, searchSvc, healthSvc, defaults, logger)

	r := chi.NewRouter()
	r.Use(chiTransport.JSONRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(chiTransport.RequestLogger(logger))
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

// buildProvider assembles the configured retrieval backend. The pgvector
// driver needs an embedder and a schema check up front; ragapi is a
// stateless HTTP client.
func buildProvider(ctx context.Context, cfg config.ProviderConfig, logger *zap.Logger) (retrievalProvider, func(), error) {
	switch cfg.Driver {
	case "ragapi":
		client, err := ragapi.NewClient(ragapi.Config{
			BaseURL: cfg.RagAPI.BaseURL,
			APIKey:  cfg.RagAPI.APIKey,
			Timeout: time.Duration(cfg.RagAPI.TimeoutSec) * time.Second,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("ragapi provider: %w", err)
		}
		return client, func() {}, nil

	case "pgvector":
		embedder := openaiEmb.NewEmbedder(&openaiEmb.Config{
			APIKey:     cfg.Embedding.APIKey,
			BaseURL:    cfg.Embedding.BaseURL,
			Model:      cfg.Embedding.Model,
			Dimensions: cfg.Pgvector.Dimensions,
			Provider:   "openai",
			Timeout:    time.Duration(cfg.Embedding.TimeoutSec) * time.Second,
		})
		logger.Info("Embedder created",
			zap.String("model", cfg.Embedding.Model),
			zap.Int("dimensions", cfg.Pgvector.Dimensions),
		)

		driver, err := pgvector.New(ctx, pgvector.Config{
			DSN:        cfg.Pgvector.DSN,
			Dimensions: cfg.Pgvector.Dimensions,
		}, embedder)
		if err != nil {
			return nil, nil, fmt.Errorf("pgvector provider: %w", err)
		}
		if err := driver.EnsureSchema(ctx); err != nil {
			_ = driver.Close()
			return nil, nil, fmt.Errorf("pgvector schema: %w", err)
		}
		return driver, func() { _ = driver.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown provider driver %q", cfg.Driver)
	}
}
