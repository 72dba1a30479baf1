package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"

	"github.com/hoitkn/processqa/internal/catalog"
	"github.com/hoitkn/processqa/internal/config"
	"github.com/hoitkn/processqa/internal/ingest"
	"github.com/hoitkn/processqa/internal/logging"
	"github.com/hoitkn/processqa/internal/queue"
	"github.com/hoitkn/processqa/internal/remote"
	"github.com/hoitkn/processqa/internal/source"
	"github.com/hoitkn/processqa/internal/syncer"
	"github.com/hoitkn/processqa/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"remote_backend", cfg.Remote.Backend,
		"queue_max_records", cfg.Queue.MaxRecords,
		"sync_interval", cfg.Sync.Interval,
	)

	// Open the durable offline queue
	q, err := queue.Open(cfg.Queue.Path, queue.Options{
		MaxRecords:    cfg.Queue.MaxRecords,
		BlockWhenFull: cfg.Queue.BlockWhenFull,
	})
	if err != nil {
		slog.Error("failed to open offline queue", "error", err)
		os.Exit(1)
	}
	defer func() { _ = q.Close() }()

	if pending, err := q.Len(); err == nil && pending > 0 {
		slog.Info("offline queue has pending submissions", "pending", pending)
	}

	// Select the remote writer
	writer, cleanup, err := buildWriter(cfg)
	if err != nil {
		slog.Error("failed to configure remote writer", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	// Load reference data and publish the first catalog. An unreachable
	// workbook degrades to fallback data inside the ingestor; anything
	// else is fatal at startup.
	store := catalog.NewStore()
	ingestor := ingest.New(source.NewXLSXFetcher(), store, ingest.Config{
		EmployeesPath:  cfg.Sources.EmployeesPath,
		NoodlePath:     cfg.Sources.NoodlePath,
		RiceNoodlePath: cfg.Sources.RiceNoodlePath,
	})

	ctx := context.Background()
	if err := ingestor.Run(ctx); err != nil {
		slog.Error("initial reference load failed", "error", err)
		os.Exit(1)
	}

	// Create the sync engine and server
	engine := syncer.New(writer, q, cfg.Sync.Interval)
	server := web.NewServer(store, engine, q, writer)

	// Background jobs: periodic queue retry and optional catalog reload
	jobCtx, cancelJobs := context.WithCancel(context.Background())
	go engine.Run(jobCtx)
	if cfg.Sources.ReloadInterval > 0 {
		go ingestor.RunPeriodic(jobCtx, cfg.Sources.ReloadInterval)
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")
		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(cfg.Server.Addr()); err != nil {
		slog.Info("server stopped", "error", err)
	}
}

// buildWriter constructs the configured remote writer. The mysql backend
// opens a pooled connection; a failed ping is logged but not fatal, because
// starting offline is a supported state.
func buildWriter(cfg *config.Config) (remote.Writer, func(), error) {
	switch strings.ToLower(cfg.Remote.Backend) {
	case "mysql":
		db, err := sql.Open("mysql", cfg.Remote.MySQL.DSN)
		if err != nil {
			return nil, nil, err
		}
		db.SetMaxOpenConns(cfg.Remote.MySQL.MaxOpenConns)
		db.SetConnMaxLifetime(cfg.Remote.MySQL.ConnMaxLifetime)

		if err := db.PingContext(context.Background()); err != nil {
			slog.Warn("database unreachable at startup, submissions will queue", "error", err)
		}
		return remote.NewSQLWriter(db), func() { _ = db.Close() }, nil

	default: // graph
		client := remote.NewGraphClient(remote.GraphConfig{
			BaseURL:           cfg.Remote.Graph.BaseURL,
			SitePath:          cfg.Remote.Graph.SitePath,
			DataListName:      cfg.Remote.Graph.DataList,
			ParameterListName: cfg.Remote.Graph.ParameterList,
		}, remote.StaticTokenSource{Token: cfg.Remote.Graph.AccessToken})
		return client, func() {}, nil
	}
}
