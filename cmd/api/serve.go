package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/alfagnish/exchange-api/internal/config"
	"github.com/alfagnish/exchange-api/internal/events"
	grpchealth "github.com/alfagnish/exchange-api/internal/grpc"
	"github.com/alfagnish/exchange-api/internal/logging"
	"github.com/alfagnish/exchange-api/internal/metrics"
	"github.com/alfagnish/exchange-api/internal/seed"
	"github.com/alfagnish/exchange-api/internal/server"
	"github.com/alfagnish/exchange-api/internal/store"
	"github.com/alfagnish/exchange-api/internal/validation"
)

const (
	shutdownTimeout = 10 * time.Second
	eventBuffer     = 64
)

type serveOptions struct {
	configFile string
	port       int
}

func (o *serveOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.configFile, "config", "c", os.Getenv("CONFIG_FILE"), "YAML config file")
	cmd.Flags().IntVarP(&o.port, "port", "p", 0, "HTTP port (overrides FASTAPIPORT)")
}

func serve(ctx context.Context, opts serveOptions) error {
	// 1. Load configuration from file and environment variables.
	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return err
	}
	if opts.port != 0 {
		cfg.Port = opts.port
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	logger.Info("config",
		zap.String("listen", cfg.ListenAddr()),
		zap.String("grpc", cfg.GRPCAddr),
		zap.Bool("metrics", cfg.MetricsEnabled),
		zap.String("seed", cfg.SeedFile),
	)

	// 2. Create the in-memory stores, optionally seeded.
	stores := store.NewSet()
	if cfg.SeedFile != "" {
		counts, err := seed.LoadFile(cfg.SeedFile, stores, validation.New())
		if err != nil {
			return fmt.Errorf("seeding stores: %w", err)
		}
		logger.Info("stores seeded",
			zap.Int("persons", counts.Persons),
			zap.Int("addresses", counts.Addresses),
			zap.Int("conversions", counts.Conversions),
			zap.Int("destinations", counts.Destinations),
		)
	}

	var mc *metrics.Collector
	if cfg.MetricsEnabled {
		mc = metrics.New()
		mc.SetRecords("persons", stores.Persons.Len())
		mc.SetRecords("addresses", stores.Addresses.Len())
		mc.SetRecords("conversions", stores.Conversions.Len())
		mc.SetRecords("destinations", stores.Destinations.Len())
	}

	// 3. Set up the chi router with all handlers.
	handler := server.New(server.Options{
		Config:  cfg,
		Logger:  logger,
		Stores:  stores,
		Hub:     events.NewHub(eventBuffer),
		Metrics: mc,
	})

	srv := &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 2)

	// 4. Start the gRPC health service unless disabled.
	var health *grpchealth.HealthServer
	if cfg.GRPCAddr != "" {
		lis, err := net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			return fmt.Errorf("grpc listen: %w", err)
		}
		health = grpchealth.NewHealthServer(logger)
		go func() {
			if err := health.Serve(lis); err != nil {
				errCh <- fmt.Errorf("grpc server: %w", err)
			}
		}()
	}

	// 5. Start the HTTP server.
	go func() {
		logger.Info("api listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case runErr = <-errCh:
		logger.Error("server failed", zap.Error(runErr))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if health != nil {
		health.Stop()
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("graceful shutdown error", zap.Error(err))
	}

	logger.Info("api stopped")
	return runErr
}
