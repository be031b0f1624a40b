package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"storefront/internal/cart"
	"storefront/internal/checkout"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/events"
	"storefront/internal/handler"
	"storefront/internal/orderstatus"
	"storefront/internal/pricing"
	"storefront/internal/rates"
	"storefront/internal/repository"
	"storefront/internal/router"
	"storefront/internal/service"
	"storefront/internal/session"

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

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting storefront API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool, applying migrations first
	pool, err := database.Open(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Initialize repositories
	productRepo := repository.NewProductRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	outboxRepo := repository.NewOutboxRepository(pool, logger)
	transactor := repository.NewTransactor(pool, logger)

	// Load the exchange rate table
	table, err := loadRates(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to load rate table: %w", err)
	}

	engine := pricing.NewEngine(table, pricing.Config{
		ShippingFee:       cfg.Pricing.ShippingFee,
		ShippingThreshold: cfg.Pricing.ShippingThreshold,
	})

	builder, err := checkout.NewBuilder(engine, cfg.Pricing.PhonePattern)
	if err != nil {
		return fmt.Errorf("failed to initialize order builder: %w", err)
	}
	committer := checkout.NewCommitter(transactor, orderRepo, outboxRepo, logger)
	machine := orderstatus.NewMachine(transactor, orderRepo, outboxRepo, logger)
	carts := cart.NewStore(engine)

	// Initialize services
	productService := service.NewProductService(productRepo, logger)
	cartService := service.NewCartService(carts, productService, engine, logger)
	checkoutService := service.NewCheckoutService(carts, builder, committer, engine, logger)
	orderService := service.NewOrderService(orderRepo, machine, engine, logger)

	// Start the outbox relay
	publisher, err := newPublisher(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize event publisher: %w", err)
	}
	defer publisher.Close()

	relay := events.NewRelay(outboxRepo, publisher, cfg.Outbox.PollInterval, cfg.Outbox.BatchSize, logger)
	relayDone := make(chan struct{})
	go func() {
		defer close(relayDone)
		relay.Run(ctx)
	}()
	defer func() {
		cancel()
		<-relayDone
	}()

	// Initialize router
	mux := router.New(router.Handlers{
		Product: handler.NewProductHandler(productService, logger),
		Cart:    handler.NewCartHandler(cartService, logger),
		Order:   handler.NewOrderHandler(checkoutService, orderService, logger),
	}, session.HeaderProvider{}, cfg.Auth.APIKey, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Strs("currencies", engine.Currencies()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// loadRates returns the configured rate table, or the built-in one when no
// rate file is set.
func loadRates(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (rates.Table, error) {
	base := strings.ToUpper(cfg.Pricing.BaseCurrency)

	if cfg.Pricing.RatesFile == "" {
		table := rates.DefaultTable()
		if table.Base() != base {
			return nil, fmt.Errorf("built-in rate table has base %s, configured base is %s", table.Base(), base)
		}
		logger.Info().Msg("using built-in rate table")
		return table, nil
	}

	fileLoader := rates.NewFileLoader(base, logger)
	var s3Loader rates.Loader

	if cfg.S3.Enabled {
		loader, err := rates.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, base, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 loader, falling back to local file system only")
		} else {
			s3Loader = loader
		}
	} else {
		logger.Info().Msg("using local file system for rate file (S3 disabled)")
	}

	loader := rates.NewFallbackLoader(s3Loader, fileLoader, cfg.S3.Prefix, s3Loader != nil, logger)
	return loader.Load(ctx, cfg.Pricing.RatesFile)
}

// newPublisher returns the RabbitMQ publisher when enabled, otherwise one
// that only logs events.
func newPublisher(cfg *config.Config, logger zerolog.Logger) (events.Publisher, error) {
	if !cfg.RabbitMQ.Enabled {
		logger.Info().Msg("RabbitMQ disabled, order events will be logged only")
		return events.NewLogPublisher(logger), nil
	}
	publisher, err := events.DialRabbit(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, logger)
	if err != nil {
		return nil, err
	}
	return publisher, nil
}
