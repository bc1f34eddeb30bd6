package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/iudanet/supaship/internal/client/api"
	"github.com/iudanet/supaship/internal/client/auth"
	"github.com/iudanet/supaship/internal/client/cli"
	"github.com/iudanet/supaship/internal/client/guard"
	"github.com/iudanet/supaship/internal/client/iocli"
	"github.com/iudanet/supaship/internal/client/profile"
	"github.com/iudanet/supaship/internal/client/session"
	"github.com/iudanet/supaship/internal/client/storage/boltdb"
	"github.com/iudanet/supaship/internal/logger"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Глобальные флаги
	showVersion := flag.Bool("version", false, "Show version information")
	serverURL := flag.String("server", "http://localhost:8080", "Server URL")
	dbPath := flag.String("db", "supaship-client.db", "Path to local database")
	verbose := flag.Bool("verbose", false, "Write debug logs to stderr")

	flag.Parse()

	if *showVersion {
		printVersion()
		return 0
	}

	args := flag.Args()
	if len(args) == 0 {
		cli.PrintUsage(os.Stdout)
		return 1
	}

	level := "warn"
	if *verbose {
		level = "debug"
	}
	appLogger, err := logger.New(os.Stderr, level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		return 1
	}
	log := appLogger.Logger

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Открываем BoltDB storage
	boltStorage, err := boltdb.New(ctx, *dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		return 1
	}
	defer func() {
		if err := boltStorage.Close(); err != nil {
			log.Error("failed to close database", "error", err)
		}
	}()

	apiClient := api.NewClient(*serverURL)

	authService := auth.NewService(apiClient, boltStorage, log)
	if _, err := authService.Restore(ctx); err != nil {
		log.Warn("failed to restore session", "error", err)
	}

	profiles := profile.NewService(apiClient, authService)
	state := session.New(authService, profiles, log)
	nav := guard.NewNavigator(state, log, guard.WithLocationStore(boltStorage))

	// Фоновые горутины пишут в bbolt и должны остановиться до закрытия базы
	stopBackground := startBackground(ctx, state, nav, log)
	defer stopBackground()

	c := cli.New(iocli.NewStdio(), apiClient, authService, profiles, state, nav, boltStorage, log)
	if err := c.Run(ctx, args[0], args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	return 0
}

type stateRunner interface {
	Run(ctx context.Context) error
}

type redirectWatcher interface {
	Watch(ctx context.Context, onRedirect func(from, to guard.Route)) error
}

// startBackground запускает цикл состояния и наблюдатель редиректов.
// Возвращаемая функция отменяет их и ждет завершения.
func startBackground(ctx context.Context, state stateRunner, nav redirectWatcher, log *slog.Logger) func() {
	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		if err := state.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("client state stopped", "error", err)
		}
	}()
	go func() {
		defer wg.Done()
		_ = nav.Watch(ctx, func(from, to guard.Route) {
			log.Debug("redirected", "from", from.Path, "to", to.Path)
		})
	}()

	return func() {
		cancel()
		wg.Wait()
	}
}

func printVersion() {
	fmt.Printf("Supaship Client\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
