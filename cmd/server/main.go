package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/iho/bankrecon/internal/adapter/http"
	"github.com/iho/bankrecon/internal/adapter/http/handler"
	"github.com/iho/bankrecon/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/bankrecon/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/bankrecon/internal/adapter/repository/redis"
	"github.com/iho/bankrecon/internal/infrastructure/config"
	"github.com/iho/bankrecon/internal/infrastructure/logger"
	"github.com/iho/bankrecon/internal/infrastructure/metrics"
	"github.com/iho/bankrecon/internal/infrastructure/postgres"
	"github.com/iho/bankrecon/internal/infrastructure/redis"
	"github.com/iho/bankrecon/internal/infrastructure/syncworker"
	"github.com/iho/bankrecon/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	log.Logger = logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log.Logger); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
	log.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config, appLog zerolog.Logger) error {
	defaults, err := importDefaults(cfg)
	if err != nil {
		return err
	}

	if cfg.MigrationsAuto {
		if err := postgres.RunMigrations(cfg.DatabaseURL, appLog); err != nil {
			return err
		}
	}

	// Connect to PostgreSQL
	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL:    cfg.DatabaseURL,
		MaxConns:       cfg.DatabaseMaxConns,
		MinConns:       cfg.DatabaseMinConns,
		ConnectTimeout: cfg.DatabaseTimeout,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}
	defer pool.Close()
	appLog.Info().Msg("connected to postgres")

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	defer redisClient.Close()
	appLog.Info().Msg("connected to redis")

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	entryRepo := postgresRepo.NewEntryRepository(pool)
	ledgerRepo := postgresRepo.NewLedgerRepository(pool)
	assocRepo := redisRepo.NewCachedAssociationRepository(
		postgresRepo.NewAssociationRepository(pool),
		redisRepo.NewCache(redisClient),
		cfg.AssociationCacheTTL,
		m,
		appLog,
	)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier(cfg.SyncMaxRetries, appLog)

	// Initialize use cases
	assocUC := usecase.NewAssociationUseCase(assocRepo, idGen, retrier, m, appLog)
	worker := syncworker.New(syncworker.Config{
		Upserter:  assocUC,
		Metrics:   m,
		Depth:     m.SyncQueueDepth,
		Logger:    appLog,
		QueueSize: cfg.SyncQueueSize,
	})
	importUC := usecase.NewImportUseCase(txManager, accountRepo, assocRepo, entryRepo, idGen, worker, m, defaults, appLog)
	accountUC := usecase.NewAccountUseCase(accountRepo, idGen)
	entryUC := usecase.NewEntryUseCase(entryRepo)
	ledgerUC := usecase.NewLedgerUseCase(ledgerRepo)

	var rateLimiter *middleware.RateLimiter
	if cfg.RateLimitRPS > 0 {
		rateLimiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).WithHitCounter(m.RateLimitHits)
		go rateLimiter.RunCleanup(ctx, 10*time.Minute, time.Hour)
	}

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:     handler.NewAccountHandler(accountUC),
		AssociationHandler: handler.NewAssociationHandler(assocUC),
		ImportHandler:      handler.NewImportHandler(importUC, cfg.ImportMaxBytes),
		EntryHandler:       handler.NewEntryHandler(entryUC),
		LedgerHandler:      handler.NewLedgerHandler(ledgerUC),
		HealthHandler: handler.NewHealthHandler(
			handler.HealthCheck{Name: "postgres", Check: pool.Ping},
			handler.HealthCheck{Name: "redis", Check: func(ctx context.Context) error {
				return redisClient.Ping(ctx).Err()
			}},
		),
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		RateLimiter:      rateLimiter,
		Metrics:          m,
		MetricsHandler:   promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
		Logger:           appLog,
	})

	server := newHTTPServer(cfg, router)

	// The worker outlives ctx: requests still in flight during shutdown
	// enqueue writes, so it is stopped only after the server has drained.
	workerCtx, stopWorker := context.WithCancel(context.WithoutCancel(ctx))
	workerDone := make(chan error, 1)
	go func() { workerDone <- worker.Start(workerCtx) }()
	flushWorker := func() {
		stopWorker()
		<-workerDone
	}

	serverErr := make(chan error, 1)
	go func() {
		appLog.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			flushWorker()
			return err
		}
	case <-ctx.Done():
	}

	appLog.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	shutdownErr := server.Shutdown(shutdownCtx)
	flushWorker()

	if shutdownErr != nil {
		return fmt.Errorf("server forced to shutdown: %w", shutdownErr)
	}

	return nil
}

func importDefaults(cfg *config.Config) (usecase.ImportDefaults, error) {
	mode, err := cfg.Mode()
	if err != nil {
		return usecase.ImportDefaults{}, err
	}
	delim, err := cfg.Delimiter()
	if err != nil {
		return usecase.ImportDefaults{}, err
	}
	return usecase.ImportDefaults{
		Mode:               mode,
		CounterpartAccount: cfg.ImportCounterpartAccount,
		Delimiter:          delim,
	}, nil
}

func newHTTPServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      h,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}
}
