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

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/iho/gosales/internal/adapter/exchange"
	httpAdapter "github.com/iho/gosales/internal/adapter/http"
	"github.com/iho/gosales/internal/adapter/http/handler"
	"github.com/iho/gosales/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/gosales/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/gosales/internal/adapter/repository/redis"
	"github.com/iho/gosales/internal/infrastructure/auth"
	"github.com/iho/gosales/internal/infrastructure/config"
	"github.com/iho/gosales/internal/infrastructure/logger"
	"github.com/iho/gosales/internal/infrastructure/metrics"
	"github.com/iho/gosales/internal/infrastructure/postgres"
	"github.com/iho/gosales/internal/infrastructure/redis"
	"github.com/iho/gosales/internal/usecase"
)

const limiterCleanupInterval = middleware.DefaultLimiterIdleTTL

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
	log.Info().Msg("server stopped")
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to PostgreSQL
	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL:  cfg.DatabaseURL,
		MaxConns:     cfg.DatabaseMaxConns,
		MinConns:     cfg.DatabaseMinConns,
		PingAttempts: 5,
		PingInterval: time.Second,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Migrations install the change-notification trigger the ledger relies on.
	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger.Component(log, "migrate")); err != nil {
		return err
	}

	// Connect to Redis
	redisClient, err := redis.NewClientWithConfig(ctx, redis.ClientConfig{
		URL:          cfg.RedisURL,
		PingAttempts: 5,
		PingInterval: time.Second,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	observer := metrics.New(nil)

	// Initialize repositories
	retryCfg := postgresRepo.DefaultRetrierConfig()
	retryCfg.Logger = logger.Component(log, "retrier")
	saleRepo := postgresRepo.NewSaleRepository(pool, postgresRepo.NewRetrierWithConfig(retryCfg))
	clientRepo := postgresRepo.NewClientRepository(pool)
	inventoryRepo := postgresRepo.NewInventoryRepository(pool)
	feed := postgresRepo.NewSaleFeed(saleRepo, postgresRepo.FeedConfig{
		DatabaseURL: cfg.DatabaseURL,
		Logger:      log,
	})
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	rateCache := redisRepo.NewRateCache(redisClient)
	idGen := postgresRepo.NewULIDGenerator()

	// Live ledger
	ledger := usecase.NewSalesLedger(usecase.LedgerConfig{
		Repo:             saleRepo,
		Feed:             feed,
		Logger:           log,
		Observer:         observer,
		WriteConcurrency: cfg.ReorderConcurrency,
	})
	if err := ledger.Open(ctx); err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
		defer cancel()
		if err := ledger.Close(closeCtx); err != nil {
			log.Warn().Err(err).Msg("ledger closed with pending writes")
		}
	}()

	poller := usecase.NewRatePoller(usecase.RatePollerConfig{
		Source:   exchange.NewSunatClient(exchange.ClientConfig{URL: cfg.ExchangeRateURL}),
		Cache:    rateCache,
		Logger:   log,
		Observer: observer,
		Interval: cfg.ExchangeRateInterval,
		CacheTTL: cfg.ExchangeRateCacheTTL,
	})

	// Initialize use cases
	saleUC := usecase.NewSaleUseCase(saleRepo, ledger, idGen).WithConcurrency(cfg.ReorderConcurrency)
	reportUC := usecase.NewReportUseCase(ledger, poller)
	clientUC := usecase.NewClientUseCase(clientRepo, idGen)
	inventoryUC := usecase.NewInventoryUseCase(inventoryRepo, idGen)

	jwtManager := newJWTManager(cfg)
	var authHandler *handler.AuthHandler
	if jwtManager != nil {
		authHandler = handler.NewAuthHandler(jwtManager)
	}
	rateLimiter := newRateLimiter(cfg)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		SaleHandler:      handler.NewSaleHandler(saleUC, ledger, reportUC),
		ReportHandler:    handler.NewReportHandler(reportUC),
		ExchangeHandler:  handler.NewExchangeHandler(poller),
		ClientHandler:    handler.NewClientHandler(clientUC),
		InventoryHandler: handler.NewInventoryHandler(inventoryUC),
		LedgerHandler:    handler.NewLedgerHandler(ledger),
		HealthHandler:    handler.NewHealthHandler(pool, redisClient, ledger),
		AuthHandler:      authHandler,
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		RateLimiter:      rateLimiter,
		JWTManager:       jwtManager,
		Logger:           log,
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := poller.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	if rateLimiter != nil {
		g.Go(func() error {
			ticker := time.NewTicker(limiterCleanupInterval)
			defer ticker.Stop()
			for {
				select {
				case <-gctx.Done():
					return nil
				case <-ticker.C:
					rateLimiter.CleanupLimiters()
				}
			}
		})
	}

	g.Go(func() error {
		log.Info().Str("port", cfg.HTTPPort).Bool("auth", jwtManager != nil).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down server...")

		// Graceful shutdown
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// newJWTManager returns nil when authentication is disabled.
func newJWTManager(cfg *config.Config) *auth.JWTManager {
	if !cfg.AuthEnabled || cfg.JWTSecret == "" {
		return nil
	}
	return auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
}

// newRateLimiter returns nil when RATE_LIMIT_RPS is not positive.
func newRateLimiter(cfg *config.Config) *middleware.RateLimiter {
	if cfg.RateLimitRPS <= 0 {
		return nil
	}
	burst := cfg.RateLimitBurst
	if burst <= 0 {
		burst = 1
	}
	return middleware.NewRateLimiter(cfg.RateLimitRPS, burst)
}
