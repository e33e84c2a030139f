package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/iho/gomovements/internal/adapter/http"
	"github.com/iho/gomovements/internal/adapter/http/handler"
	"github.com/iho/gomovements/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/gomovements/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/gomovements/internal/adapter/repository/redis"
	"github.com/iho/gomovements/internal/infrastructure/config"
	"github.com/iho/gomovements/internal/infrastructure/eventpublisher"
	"github.com/iho/gomovements/internal/infrastructure/logging"
	"github.com/iho/gomovements/internal/infrastructure/metrics"
	"github.com/iho/gomovements/internal/infrastructure/postgres"
	"github.com/iho/gomovements/internal/infrastructure/redis"
	"github.com/iho/gomovements/internal/usecase"
)

func main() {
	// Setup logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup log level
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	// Workers and repositories log through slog
	slogger := logging.New(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)

	ctx := context.Background()

	// Run migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}
	log.Info().Msg("migrations applied")

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	movementRepo := postgresRepo.NewMovementRepository(pool)
	ledgerRepo := postgresRepo.NewLedgerRepository(pool)
	historyRepo := postgresRepo.NewHistoryRepository(pool)
	taxRepo := postgresRepo.NewTaxRepository(pool)
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier(slogger.Logger)
	taxCache := redisRepo.NewTaxCache(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)

	appMetrics := metrics.New()

	// Initialize use cases
	postingUC := usecase.NewPostingUseCase(txManager, movementRepo, ledgerRepo, historyRepo, taxRepo, outboxRepo, idGen).
		WithTaxCache(taxCache, cfg.TaxCacheTTL).
		WithRetrier(retrier).
		WithMetrics(appMetrics)
	movementUC := usecase.NewMovementUseCase(movementRepo, ledgerRepo, historyRepo)
	consistencyUC := usecase.NewConsistencyUseCase(movementRepo, ledgerRepo).
		WithMetrics(appMetrics)

	// Initialize handlers
	movementHandler := handler.NewMovementHandler(postingUC, movementUC)
	consistencyHandler := handler.NewConsistencyHandler(consistencyUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	// Outbox publisher
	publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: outboxRepo,
		Publisher:  eventpublisher.NewLogPublisher(slogger.Logger),
		Logger:     slogger.Logger,
		Metrics:    appMetrics,
		BatchSize:  cfg.OutboxBatchSize,
		Interval:   cfg.OutboxInterval,
	})

	publisherCtx, stopPublisher := context.WithCancel(ctx)
	defer stopPublisher()
	go func() {
		if err := publisher.Start(publisherCtx); err != nil && publisherCtx.Err() == nil {
			log.Error().Err(err).Msg("outbox publisher stopped")
		}
	}()

	// Create router
	routerCfg := httpAdapter.RouterConfig{
		MovementHandler:    movementHandler,
		ConsistencyHandler: consistencyHandler,
		HealthHandler:      healthHandler,
		IdempotencyStore:   idempotencyStore,
		Logging:            middleware.NewLoggingMiddleware(log.Logger),
	}
	if cfg.RateLimitPerSecond > 0 {
		routerCfg.RateLimiter = middleware.NewRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst)
	}
	router := httpAdapter.NewRouter(routerCfg)

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	// Stop accepting new work, then drain in-flight requests
	stopPublisher()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
