package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/esoccer-insights/stats-api/internal/cache"
	"github.com/esoccer-insights/stats-api/internal/config"
	"github.com/esoccer-insights/stats-api/internal/handlers"
	"github.com/esoccer-insights/stats-api/internal/hub"
	"github.com/esoccer-insights/stats-api/internal/logic"
	"github.com/esoccer-insights/stats-api/internal/source"
	"github.com/esoccer-insights/stats-api/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	if err := run(cfg, logger); err != nil {
		sugar.Fatalw("Stats API failed", "error", err)
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func run(cfg *config.Config, logger *zap.Logger) error {
	sugar := logger.Sugar()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ClickHouse archive
	chOpts, err := clickhouse.ParseDSN(cfg.ClickHouseURL)
	if err != nil {
		return fmt.Errorf("parse CLICKHOUSE_URL: %w", err)
	}
	ch, err := clickhouse.Open(chOpts)
	if err != nil {
		return fmt.Errorf("open clickhouse: %w", err)
	}
	defer ch.Close()

	archive := source.NewArchive(ch)
	initCtx, initCancel := context.WithTimeout(ctx, 15*time.Second)
	err = archive.EnsureSchema(initCtx)
	initCancel()
	if err != nil {
		return fmt.Errorf("clickhouse schema: %w", err)
	}
	sugar.Info("Connected to ClickHouse")

	// Redis cache
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("parse REDIS_URL: %w", err)
	}
	rdb := redis.NewClient(redisOpts)
	defer rdb.Close()

	store := cache.NewRedisStore(rdb)
	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	if err := store.Ping(pingCtx); err != nil {
		// the cache degrades to direct fetches
		sugar.Warnw("Redis unreachable at startup", "error", err)
	} else {
		sugar.Info("Connected to Redis")
	}
	pingCancel()

	// Match history source
	var matchSource logic.MatchSource = archive
	if cfg.MatchSource == config.SourceUpstream {
		matchSource = source.NewUpstream(cfg.UpstreamURL,
			source.WithRateLimit(cfg.UpstreamRPS, cfg.UpstreamBurst),
			source.WithLogger(logger),
		)
	}
	sugar.Infow("Match source selected", "source", cfg.MatchSource)

	analysis := logic.NewAnalysisService(logic.AnalysisConfig{
		Source:           matchSource,
		Cache:            store,
		CacheTTL:         cfg.CacheTTL,
		HistoryDepth:     cfg.HistoryDepth,
		FetchConcurrency: cfg.FetchConcurrency,
		Logger:           logger,
	})

	// Live snapshots
	liveHub := hub.New(logger)
	go liveHub.Run(ctx)

	refresher := worker.NewRefresher(worker.RefresherConfig{
		Leagues:     cfg.WatchLeagues,
		Interval:    cfg.RefreshInterval,
		Window:      cfg.DefaultWindow,
		Concurrency: cfg.FetchConcurrency,
		Snapshots:   analysis,
		Publisher:   liveHub,
		Logger:      logger,
	})
	go refresher.Run(ctx)

	// Ingest pipeline
	pool := worker.NewPool(worker.PoolConfig{
		WorkerCount:   cfg.WorkerCount,
		QueueSize:     cfg.QueueSize,
		BatchSize:     cfg.BatchSize,
		FlushInterval: cfg.FlushInterval,
		Archive:       archive,
		OnArchived:    refresher.Trigger,
		Logger:        logger,
	})
	pool.Start(ctx)

	h := handlers.New(handlers.Config{
		Analysis:   analysis,
		WorkerPool: pool,
		Hub:        liveHub,
		Checks: map[string]handlers.ReadinessCheck{
			"clickhouse": archive.Ping,
			"redis":      store.Ping,
		},
		DefaultWindow:  cfg.DefaultWindow,
		LiveContext:    ctx,
		AllowedOrigins: cfg.AllowedOrigins,
		Logger:         logger,
	})

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Handle("/metrics", promhttp.Handler())
	h.Mount(r)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		sugar.Infow("Stats API listening", "port", cfg.Port, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		sugar.Infow("Shutting down", "signal", sig.String())
	case err := <-serverErr:
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		sugar.Warnw("HTTP shutdown error", "error", err)
	}

	// Flush queued matches before the refresher and hub go away
	pool.Stop()
	cancel()

	sugar.Info("Shutdown complete")
	return nil
}
