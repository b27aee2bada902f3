package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/osse101/CozyCasino_Go/internal/bootstrap"
	"github.com/osse101/CozyCasino_Go/internal/client"
	"github.com/osse101/CozyCasino_Go/internal/config"
	"github.com/osse101/CozyCasino_Go/internal/eventlog"
	"github.com/osse101/CozyCasino_Go/internal/identity"
	"github.com/osse101/CozyCasino_Go/internal/logger"
	"github.com/osse101/CozyCasino_Go/internal/onboarding"
	"github.com/osse101/CozyCasino_Go/internal/session"
	"github.com/osse101/CozyCasino_Go/internal/sse"
	"github.com/osse101/CozyCasino_Go/internal/terminal"
	"github.com/osse101/CozyCasino_Go/internal/worker"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "cozycasino:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Logs go to the file only, stdout belongs to the game
	logFile, err := bootstrap.SetupLogger(cfg, logger.FrontendTerminal, nil)
	if err != nil {
		return err
	}
	defer logFile.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, err := bootstrap.OpenStores(ctx, cfg)
	if err != nil {
		return err
	}

	bus := bootstrap.InitializeEventSystem()
	hub := bootstrap.InitializeEventStream(bus)
	journal := eventlog.NewService(stores.EventLog)
	if err := bootstrap.RegisterEventHandlers(bootstrap.EventHandlerDependencies{
		EventBus:        bus,
		EventLogService: journal,
	}); err != nil {
		_ = stores.DB.Close()
		return err
	}
	bootstrap.PruneEventLog(ctx, cfg, journal)

	store, err := stores.DB.Store(identity.NamespaceLocal)
	if err != nil {
		_ = stores.DB.Close()
		return err
	}
	sess := session.New(identity.NamespaceLocal, client.NewAPIClient(cfg.BackendURL), store, bus)

	srv := bootstrap.StartStatusServer(cfg, identity.NamespaceLocal, func(ns string) (session.View, bool) {
		if ns != identity.NamespaceLocal {
			return session.View{}, false
		}
		return sess.Snapshot(), true
	}, map[string]http.Handler{sse.Route: sse.Handler(hub)})

	syncWorker := bootstrap.StartMetaSync(ctx, cfg, worker.SessionSourceFunc(func() []worker.MetaSyncer {
		return []worker.MetaSyncer{sess}
	}))

	repl := terminal.New(sess, os.Stdin, os.Stdout, onboarding.SuggestUserID).WithHistory(journal)

	// Scanning stdin cannot be interrupted, so a signal abandons the REPL goroutine
	done := make(chan error, 1)
	go func() { done <- repl.Run(ctx) }()

	var runErr error
	select {
	case runErr = <-done:
	case <-ctx.Done():
		fmt.Fprintln(os.Stdout)
		fmt.Fprintln(os.Stdout, terminal.MsgGoodbye)
	}
	if errors.Is(runErr, context.Canceled) {
		runErr = nil
	}
	if runErr != nil {
		slog.Error("Terminal stopped with error", "error", runErr)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	bootstrap.GracefulShutdown(shutdownCtx, bootstrap.ShutdownComponents{
		EventHub:       hub,
		Server:         srv,
		MetaSyncWorker: syncWorker,
		Sessions:       func() []*session.Session { return []*session.Session{sess} },
		DB:             stores.DB,
	})
	return runErr
}
