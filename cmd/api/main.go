package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"restaurant-orders/internal/cache"
	"restaurant-orders/internal/config"
	"restaurant-orders/internal/database"
	"restaurant-orders/internal/handler"
	"restaurant-orders/internal/notify"
	"restaurant-orders/internal/ordering"
	"restaurant-orders/internal/repository"
	"restaurant-orders/internal/router"
	"restaurant-orders/internal/service"

	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting restaurant orders API server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool, logger); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	isoLevel, err := repository.ParseIsoLevel(cfg.Ordering.TxIsolation)
	if err != nil {
		return fmt.Errorf("failed to configure ordering: %w", err)
	}

	repos := service.Repositories{
		Orders:      repository.NewOrderRepository(pool, logger),
		Catalog:     repository.NewCatalogRepository(pool, logger),
		Restaurants: repository.NewRestaurantRepository(pool, logger),
		Addresses:   repository.NewAddressRepository(pool, logger),
		Users:       repository.NewUserRepository(pool, logger),
	}

	var reserver ordering.CodeReserver
	if cfg.Redis.Enabled {
		client, err := cache.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to connect to Redis, order codes will not be reserved")
		} else {
			defer client.Close()
			reserver = cache.NewRedisCodeReserver(client, logger)
		}
	} else {
		logger.Info().Msg("order code reservation disabled (Redis disabled)")
	}

	notifiers, closeNotifiers := buildNotifiers(ctx, cfg, logger)
	defer closeNotifiers()

	opts := service.Options{
		IsoLevel:            isoLevel,
		SnapshotConcurrency: cfg.Ordering.SnapshotConcurrency,
		CodeAttempts:        cfg.Ordering.CodeAttempts,
	}
	orderService := service.NewOrderService(repos, notify.NewMulti(notifiers...), nil, reserver, opts, logger)

	orderHandler := handler.NewOrderHandler(orderService, logger)
	mux := router.New(orderHandler, cfg.Auth.APIKey, logger)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Str("tx_isolation", string(isoLevel)).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// buildNotifiers connects the enabled order event sinks. A sink that cannot
// be reached at startup is skipped so order placement keeps working.
func buildNotifiers(ctx context.Context, cfg *config.Config, logger zerolog.Logger) ([]notify.Notifier, func()) {
	var (
		notifiers []notify.Notifier
		closers   []func()
	)

	if cfg.RabbitMQ.Enabled {
		publisher, err := notify.DialAMQP(ctx, cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, cfg.RabbitMQ.MaxRetries, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to connect to RabbitMQ, order events will not be published")
		} else {
			notifiers = append(notifiers, publisher)
			closers = append(closers, func() {
				if err := publisher.Close(); err != nil {
					logger.Error().Err(err).Msg("failed to close RabbitMQ publisher")
				}
			})
		}
	}

	if cfg.S3.Enabled {
		archiver, err := notify.NewS3Archiver(ctx, cfg.S3.Bucket, cfg.S3.Region, cfg.S3.Prefix, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to initialise S3 archiver, order summaries will not be archived")
		} else {
			notifiers = append(notifiers, archiver)
		}
	}

	if len(notifiers) == 0 {
		logger.Info().Msg("no order event sinks enabled")
	}

	return notifiers, func() {
		for _, closeFn := range closers {
			closeFn()
		}
	}
}
