package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/af-corp/bridge-gateway/internal/analyzer"
	"github.com/af-corp/bridge-gateway/internal/auth"
	"github.com/af-corp/bridge-gateway/internal/bridge"
	"github.com/af-corp/bridge-gateway/internal/cache"
	"github.com/af-corp/bridge-gateway/internal/classifier"
	"github.com/af-corp/bridge-gateway/internal/config"
	"github.com/af-corp/bridge-gateway/internal/embed"
	"github.com/af-corp/bridge-gateway/internal/evaluator"
	"github.com/af-corp/bridge-gateway/internal/gate"
	"github.com/af-corp/bridge-gateway/internal/gateway"
	"github.com/af-corp/bridge-gateway/internal/ratelimit"
	"github.com/af-corp/bridge-gateway/internal/router"
	"github.com/af-corp/bridge-gateway/internal/telemetry"
)

var version = "dev"

func main() {
	configDir := flag.String("config", "configs", "path to configuration directory")
	flag.Parse()

	// Bootstrap logger; replaced once config is loaded.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	loader := config.NewLoader(*configDir, logger)
	if err := loader.Load(); err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if err := loader.Watch(); err != nil {
		logger.Warn("failed to start config watcher", "error", err)
	}

	cfg := loader.Config()
	logger = newLogger(cfg.Telemetry)
	slog.SetDefault(logger)

	// PostgreSQL: durable Q&A history and API keys.
	dbPool, err := pgxpool.New(context.Background(), cfg.Database.DSN())
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	if err := dbPool.Ping(context.Background()); err != nil {
		logger.Warn("database not reachable (auth and history disabled until it recovers)", "error", err)
	} else {
		logger.Info("database connected")
	}

	// Redis: hot answer cache, key cache, rate limit state.
	var rdb *redis.Client
	if len(cfg.Redis.Addresses) > 0 && cfg.Redis.Addresses[0] != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addresses[0],
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			logger.Warn("redis not reachable (exact cache and rate limiting fail open)", "error", err)
			rdb = nil
		} else {
			logger.Info("redis connected")
		}
	}

	// Pipeline stages.
	embedder := embed.NewClient(func() config.EmbeddingConfig { return loader.Config().Embedding })
	qaCache := cache.NewManager(
		cache.NewRedisStore(rdb),
		cache.NewPGStore(dbPool),
		embedder,
		func() config.CacheConfig { return loader.Config().Pipeline.Cache },
	)
	qaCache.Warm(context.Background())

	registry := router.BuildRegistry(loader.Providers())
	loader.OnReload(func() {
		registry.Replace(router.BuildRegistry(loader.Providers()))
		logger.Info("provider registry reloaded")
	})

	cb := cfg.Pipeline.Routing.CircuitBreaker
	tierRouter := router.New(
		registry,
		func() *config.TiersConfig { return loader.Tiers() },
		func() config.RoutingConfig { return loader.Config().Pipeline.Routing },
		router.NewHealthTracker(cb.FailureThreshold, cb.RecoveryProbeInterval),
		logger,
	)

	metrics := telemetry.NewMetrics()
	pipeline := bridge.New(
		gate.New(),
		qaCache,
		analyzer.New(func() config.AnalyzerConfig { return loader.Config().Pipeline.Analyzer }),
		classifier.New(func() config.ClassifierConfig { return loader.Config().Pipeline.Classifier }, logger),
		tierRouter,
		evaluator.New(func() config.EvaluatorConfig { return loader.Config().Pipeline.Evaluator }, logger),
		metrics,
		logger,
	)

	// HTTP surface.
	keyStore := auth.NewCachedKeyStore(dbPool, rdb)
	limiter := ratelimit.NewLimiter(rdb)
	quota := ratelimit.NewQuotaTracker(rdb)
	server := gateway.NewServer(pipeline, func() *config.TiersConfig { return loader.Tiers() }, logger)

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(gateway.RequestID)

	r.Get("/healthz", gateway.HandleHealth)

	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(keyStore))
		r.Use(ratelimit.Middleware(limiter, quota, func() config.RateLimitConfig {
			return loader.Config().Pipeline.RateLimit
		}))
		server.Routes(r)
	})

	// Metrics on a separate listener, never exposed on the API port.
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Telemetry.MetricsPort)
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		logger.Info("metrics listener starting", "addr", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			logger.Error("metrics listener failed", "error", err)
		}
	}()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("bridge starting", "addr", addr, "version", version)
		errCh <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("received shutdown signal", "signal", sig)
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulShutdown)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	logger.Info("bridge stopped")
}

func newLogger(cfg config.TelemetryConfig) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
