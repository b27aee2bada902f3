package main

import (
	"context"
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
	"github.com/osse101/CozyCasino_Go/internal/discord"
	"github.com/osse101/CozyCasino_Go/internal/eventlog"
	"github.com/osse101/CozyCasino_Go/internal/logger"
	"github.com/osse101/CozyCasino_Go/internal/session"
	"github.com/osse101/CozyCasino_Go/internal/sse"
	"github.com/osse101/CozyCasino_Go/internal/worker"
)

const (
	shutdownTimeout    = 10 * time.Second
	routeDiscordHealth = "/discord/health"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Discord bot failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.ValidateDiscord(); err != nil {
		return err
	}

	logFile, err := bootstrap.SetupLogger(cfg, logger.FrontendDiscord, os.Stdout)
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

	// One API client is shared by every player session
	api := client.NewAPIClient(cfg.BackendURL)
	sessions := session.NewRegistry(cfg.SessionCacheSize, cfg.SessionTTL, func(_ context.Context, namespace string) (*session.Session, error) {
		store, err := stores.DB.Store(namespace)
		if err != nil {
			return nil, fmt.Errorf("identity store %s: %w", namespace, err)
		}
		return session.New(namespace, api, store, bus), nil
	})

	bot, err := discord.New(discord.Config{
		Token:              cfg.DiscordToken,
		AppID:              cfg.DiscordAppID,
		ForceCommandUpdate: cfg.DiscordForceCommandUpdate,
		History:            journal,
	}, discord.NewPlayerDirectory(sessions))
	if err != nil {
		_ = stores.DB.Close()
		return err
	}

	// There is no default player, /session needs ?namespace=discord:<id>
	srv := bootstrap.StartStatusServer(cfg, "", func(ns string) (session.View, bool) {
		s, ok := sessions.Peek(ns)
		if !ok {
			return session.View{}, false
		}
		return s.Snapshot(), true
	}, map[string]http.Handler{
		routeDiscordHealth: bot.HandleHealth(),
		sse.Route:          sse.Handler(hub),
	})

	syncWorker := bootstrap.StartMetaSync(ctx, cfg, worker.SessionSourceFunc(func() []worker.MetaSyncer {
		live := sessions.Sessions()
		out := make([]worker.MetaSyncer, len(live))
		for i, s := range live {
			out[i] = s
		}
		return out
	}))

	runErr := bot.Run(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	bootstrap.GracefulShutdown(shutdownCtx, bootstrap.ShutdownComponents{
		EventHub:       hub,
		Server:         srv,
		MetaSyncWorker: syncWorker,
		Sessions:       sessions.Sessions,
		DB:             stores.DB,
	})
	return runErr
}
