package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	corecfg "github.com/aevon-lab/rainfall-explorer/internal/core/config"
	"github.com/aevon-lab/rainfall-explorer/internal/core/storage"
	"github.com/aevon-lab/rainfall-explorer/internal/core/storage/postgres"
	"github.com/aevon-lab/rainfall-explorer/internal/dashboard"
	"github.com/aevon-lab/rainfall-explorer/internal/ingestion"
	"github.com/aevon-lab/rainfall-explorer/internal/migrations"
	"github.com/aevon-lab/rainfall-explorer/internal/observability"
	"github.com/aevon-lab/rainfall-explorer/internal/server"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := flag.String("config", "", "Path to configuration file (defaults and RAINFALL_ env vars when empty)")
	envFile := flag.String("env", ".env", "Path to an optional .env file")
	importMode := flag.Bool("import", false, "Import the configured CSV dataset into Postgres and exit")
	flag.Parse()

	// 0. Initialize Logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Error("Failed to load env file", "path", *envFile, "error", err)
		os.Exit(1)
	}

	// 1. Load Configuration
	cfg, err := corecfg.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	slog.Info("Loaded config",
		"dataset_source", cfg.Dataset.Source,
		"station_id", cfg.Dataset.StationID,
		"database", cfg.Database.Enabled(),
		"refresh_cron", cfg.Dataset.RefreshCron)

	var metrics *observability.Metrics
	if cfg.Metrics.Enabled {
		metrics = observability.NewMetrics()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Initialize Storage (optional PostgreSQL)
	var (
		dbAdapter *postgres.Adapter
		store     storage.SeriesStore
	)
	if cfg.Database.Enabled() {
		dbAdapter, err = postgres.NewAdapter(cfg.Database.DSN, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns)
		if err != nil {
			slog.Error("Failed to initialize database", "error", err)
			os.Exit(1)
		}
		defer dbAdapter.Close()

		if err := migrations.Apply(dbAdapter.DB(), cfg.Database.AutoMigrate); err != nil {
			slog.Error("Failed to run database migrations", "error", err)
			os.Exit(1)
		}
		if err := dbAdapter.ValidateSchema(ctx); err != nil {
			slog.Error("Database schema check failed", "error", err)
			os.Exit(1)
		}
		store = dbAdapter
	}

	loader := ingestion.NewLoader(cfg.Dataset, store)

	// 2.1. One-shot import
	if *importMode {
		if store == nil {
			slog.Error("Import requires database.dsn")
			os.Exit(1)
		}
		if _, err := loader.Import(ctx, store); err != nil {
			slog.Error("Import failed", "error", err)
			os.Exit(1)
		}
		return
	}

	// 3. Load the initial dataset snapshot
	datasets := ingestion.NewStore(loader, clockwork.NewRealClock(), metrics)
	if _, err := datasets.Reload(ctx, ""); err != nil {
		if cfg.Dataset.RefreshCron == "" {
			slog.Error("Failed to load dataset", "error", err)
			os.Exit(1)
		}
		slog.Warn("Initial dataset load failed, serving 503 until the next scheduled refresh", "error", err)
	}

	// 4. Initialize Dashboard (query API)
	defaults, err := dashboard.DefaultsFromConfig(cfg)
	if err != nil {
		slog.Error("Invalid dashboard defaults", "error", err)
		os.Exit(1)
	}
	dashboardSvc := dashboard.NewService(datasets, defaults, dashboard.NewProfileCache(cfg.Climatology.CacheSize), metrics)

	// 5. Initialize Server
	opts := server.Options{
		Mode:    cfg.Server.Mode,
		Dataset: datasets,
		Metrics: metrics,
	}
	if cfg.Metrics.Enabled {
		opts.MetricsPath = cfg.Metrics.Path
	}
	if dbAdapter != nil {
		opts.DB = dbAdapter.DB()
	}
	srv := server.New(fmtAddr(cfg.Server.Host, cfg.Server.Port), opts)
	ingestion.NewHandler(datasets, cfg.Server.MaxBodySizeMB).RegisterRoutes(srv.Engine)
	dashboardSvc.RegisterRoutes(srv.Engine)

	// 6. Start Services; the first failure or a signal stops them all.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(gctx)
	})
	if cfg.Dataset.RefreshCron != "" {
		refresher, err := ingestion.NewRefresher(cfg.Dataset.RefreshCron, datasets)
		if err != nil {
			slog.Error("Failed to schedule dataset refresh", "error", err)
			os.Exit(1)
		}
		g.Go(func() error {
			return refresher.Run(gctx)
		})
	}

	if err := g.Wait(); err != nil {
		slog.Error("Server stopped with error", "error", err)
	}

	slog.Info("Shutdown complete")
}

func fmtAddr(host string, port int) string {
	return fmt.Sprintf("%s:%d", host, port)
}
