package bootstrap

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/osse101/CozyCasino_Go/internal/config"
	"github.com/osse101/CozyCasino_Go/internal/eventlog"
	"github.com/osse101/CozyCasino_Go/internal/server"
	"github.com/osse101/CozyCasino_Go/internal/worker"
)

// StartStatusServer starts the status server in the background.
// It returns nil when STATUS_PORT is 0.
func StartStatusServer(cfg *config.Config, defaultNamespace string, lookup server.SessionLookup, routes map[string]http.Handler) *server.Server {
	if cfg.StatusPort == 0 {
		return nil
	}
	srv := server.NewServer(server.Options{
		Port:             cfg.StatusPort,
		ServiceName:      cfg.ServiceName,
		Version:          cfg.Version,
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		DefaultNamespace: defaultNamespace,
		Sessions:         lookup,
		Routes:           routes,
	})
	go func() {
		if err := srv.Start(); err != nil {
			slog.Error(LogMsgStatusServerFailed, "error", err)
		}
	}()
	return srv
}

// StartMetaSync starts the periodic quest/event sync. The worker is idle when META_SYNC_INTERVAL is 0.
func StartMetaSync(ctx context.Context, cfg *config.Config, source worker.SessionSource) *worker.MetaSyncWorker {
	w := worker.NewMetaSyncWorker(source, cfg.MetaSyncInterval)
	w.Start(ctx)
	return w
}

// PruneEventLog runs the journal retention job once
func PruneEventLog(ctx context.Context, cfg *config.Config, svc eventlog.Service) {
	if err := eventlog.NewCleanupJob(svc, cfg.EventLogRetention).Process(ctx); err != nil {
		slog.Warn(LogMsgEventLogPruneFailed, "error", err)
	}
}
