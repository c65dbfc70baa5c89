// Package main is the entry point for the stockbook API server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"stockbook/internal/app"
	"stockbook/internal/config"
	v1 "stockbook/internal/infrastructure/http/v1"
	"stockbook/internal/infrastructure/metrics"
	"stockbook/internal/infrastructure/storage/postgres"
	"stockbook/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.Log.Development,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger.SetDefault(log)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatalw("server failed", "error", err)
	}
	log.Info("server stopped")
}

func run(ctx context.Context, cfg config.Config, log *logger.Logger) error {
	poolCfg := postgres.DefaultPoolConfig(cfg.Database.DSN)
	poolCfg.MaxConns = cfg.Database.MaxConns
	poolCfg.MinConns = cfg.Database.MinConns

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	if cfg.Database.AutoMigrate {
		if err := postgres.Migrate(ctx, pool, postgres.MigrateUp); err != nil {
			return err
		}
		log.Info("migrations applied")
	}

	var rec app.Recorder
	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
		m.RegisterPool(pool.Pool)
		rec = m
	}

	services, err := app.New(pool, app.Options{
		ReceiptPrefix: cfg.Documents.ReceiptPrefix,
		SalePrefix:    cfg.Documents.SalePrefix,
		LowStockRule:  cfg.Reports.LowStockRule,
		Recorder:      rec,
	})
	if err != nil {
		return err
	}

	routerCfg := v1.RouterConfig{
		Logger:       log,
		DB:           pool,
		Products:     services.Products,
		Stock:        services.Ledger,
		Suppliers:    services.Suppliers,
		Receipts:     services.Receipts,
		Sales:        services.Sales,
		Reservations: services.Reservations,
		Reports:      services.Reports,
	}
	if m != nil {
		routerCfg.Metrics = m
	}

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      v1.NewHandler(routerCfg),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infow("server starting", "addr", cfg.HTTP.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
