package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/Germanaz0/phpconfar/internal/app"
	"github.com/Germanaz0/phpconfar/internal/clock"
	"github.com/Germanaz0/phpconfar/internal/config"
	"github.com/Germanaz0/phpconfar/internal/metrics"
	"github.com/Germanaz0/phpconfar/internal/source"
	"github.com/Germanaz0/phpconfar/internal/storage/postgres"
	"github.com/Germanaz0/phpconfar/internal/storage/sqlite"
	"github.com/Germanaz0/phpconfar/migrations"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "attendees",
		Short:        "Import conference attendees and run raffles",
		SilenceUsage: true,
	}
	root.AddCommand(
		newServeCmd(),
		newImportCmd(),
		newSearchCmd(),
		newEligibleCmd(),
		newRaffleCmd(),
		newMigrateCmd(),
	)
	return root
}

// env bundles what every subcommand needs once configuration is loaded.
type env struct {
	cfg      config.Config
	logger   *log.Logger
	svc      *app.AttendeeService
	registry *prometheus.Registry
	ping     func(ctx context.Context) error
	close    func()
}

func setup(ctx context.Context) (*env, error) {
	logger := log.New(os.Stderr, "", log.LstdFlags)
	config.LoadEnvFile(logger)

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	repo, ping, closeFn, err := openRepository(ctx, cfg)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	var importMetrics *metrics.Import
	if cfg.MetricsEnabled {
		importMetrics = metrics.NewImport(registry)
	}

	svc := app.NewAttendeeService(
		repo,
		source.NewHTTPFetcher(cfg.FetchTimeout),
		clock.NewSystem(),
		app.WithLogger(logger),
		app.WithMetrics(importMetrics),
	)
	return &env{
		cfg:      cfg,
		logger:   logger,
		svc:      svc,
		registry: registry,
		ping:     ping,
		close:    closeFn,
	}, nil
}

func openRepository(ctx context.Context, cfg config.Config) (app.AttendeeRepository, func(context.Context) error, func(), error) {
	switch cfg.StoreDriver {
	case config.DriverSQLite:
		store, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, nil, err
		}
		return store, store.Ping, func() { _ = store.Close() }, nil
	default:
		pool, err := connectPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := migrations.Apply(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, nil, fmt.Errorf("apply migrations: %w", err)
		}
		return postgres.NewAttendeeRepository(pool), pool.Ping, pool.Close, nil
	}
}

func connectPostgres(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to db: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return pool, nil
}
