package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/iudanet/supaship/internal/config"
	"github.com/iudanet/supaship/internal/logger"
	"github.com/iudanet/supaship/internal/server"
	"github.com/iudanet/supaship/internal/server/storage"
	"github.com/iudanet/supaship/internal/server/storage/postgres"
	"github.com/iudanet/supaship/internal/server/storage/sqlite"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	// Флаги переопределяют значения из окружения
	showVersion := flag.Bool("version", false, "Show version information")
	flag.StringVar(&cfg.HTTPAddr, "addr", cfg.HTTPAddr, "HTTP listen address")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	flag.StringVar(&cfg.Database.Driver, "db-driver", cfg.Database.Driver, "Database driver (sqlite, postgres)")
	flag.StringVar(&cfg.Database.DSN, "dsn", cfg.Database.DSN, "Database DSN or SQLite file path")
	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	lg, err := logger.New(os.Stdout, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	store, err := openStorage(ctx, cfg)
	if err != nil {
		lg.Fatal("failed to initialize storage", "driver", cfg.Database.Driver, "error", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			lg.Error("failed to close storage", "error", err)
		}
	}()

	lg.Info("Supaship server starting",
		"version", Version,
		"driver", cfg.Database.Driver,
		"address", cfg.HTTPAddr)

	if err := server.New(cfg, store, lg.Logger, Version).Run(ctx); err != nil {
		lg.Error("server stopped with error", "error", err)
		return
	}

	lg.Info("shutdown complete")
}

func openStorage(ctx context.Context, cfg *config.Config) (storage.Storage, error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		return postgres.New(ctx, cfg.Database.DSN)
	default:
		return sqlite.New(ctx, cfg.Database.DSN)
	}
}

func printVersion() {
	fmt.Printf("Supaship Server\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
