package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/casalar/ledger/internal/adapter/http"
	"github.com/casalar/ledger/internal/adapter/http/handler"
	postgresRepo "github.com/casalar/ledger/internal/adapter/repository/postgres"
	redisRepo "github.com/casalar/ledger/internal/adapter/repository/redis"
	"github.com/casalar/ledger/internal/infrastructure/config"
	"github.com/casalar/ledger/internal/infrastructure/logger"
	"github.com/casalar/ledger/internal/infrastructure/metrics"
	"github.com/casalar/ledger/internal/infrastructure/postgres"
	"github.com/casalar/ledger/internal/infrastructure/redis"
	"github.com/casalar/ledger/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	log.Logger = logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns, cfg.DatabaseTimeout)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Connect to Redis when configured; the statement cache is optional
	var (
		statementCache usecase.Cache
		redisClient    *goredis.Client
	)
	if cfg.RedisURL != "" {
		redisClient, err = redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisClient.Close()
		log.Info().Msg("connected to redis")

		statementCache = redisRepo.NewCache(redisClient)
	}

	// Initialize repositories and use cases
	registry := postgresRepo.NewTenantRegistry(pool)
	stores := postgresRepo.NewStoreFactory(pool)
	m := metrics.New()

	statementUC := usecase.NewStatementUseCase(registry, stores, statementCache, cfg.StatementCacheTTL, m)
	ledgerUC := usecase.NewLedgerUseCase(registry, stores)

	// Initialize handlers
	statementHandler := handler.NewStatementHandler(statementUC)
	ledgerHandler := handler.NewLedgerHandler(ledgerUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		StatementHandler: statementHandler,
		LedgerHandler:    ledgerHandler,
		HealthHandler:    healthHandler,
		Metrics:          m,
	})

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

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
