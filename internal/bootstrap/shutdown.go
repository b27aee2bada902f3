package bootstrap

import (
	"context"
	"log/slog"

	"github.com/osse101/CozyCasino_Go/internal/identity"
	"github.com/osse101/CozyCasino_Go/internal/server"
	"github.com/osse101/CozyCasino_Go/internal/session"
	"github.com/osse101/CozyCasino_Go/internal/sse"
	"github.com/osse101/CozyCasino_Go/internal/worker"
)

// ShutdownComponents holds all components that need graceful shutdown. Nil fields are skipped.
type ShutdownComponents struct {
	EventHub       *sse.Hub
	Server         *server.Server
	MetaSyncWorker *worker.MetaSyncWorker
	Sessions       func() []*session.Session
	DB             *identity.SQLiteDB
}

// GracefulShutdown stops components in order:
// 1. event stream (ends open SSE responses) and status server
// 2. meta sync worker (cancel pending timers, wait for running syncs)
// 3. sessions
// 4. identity database
//
// Errors are logged and do not stop the sequence.
func GracefulShutdown(ctx context.Context, c ShutdownComponents) {
	slog.Info(LogMsgShuttingDown)

	if c.EventHub != nil {
		c.EventHub.Stop()
	}

	if c.Server != nil {
		if err := c.Server.Stop(ctx); err != nil {
			slog.Error(LogMsgServerForcedShutdown, "error", err)
		}
	}

	if c.MetaSyncWorker != nil {
		if err := c.MetaSyncWorker.Shutdown(ctx); err != nil {
			slog.Error(LogMsgMetaSyncShutdownFailed, "error", err)
		}
	}

	if c.Sessions != nil {
		sessions := c.Sessions()
		for _, s := range sessions {
			s.Close()
		}
		slog.Info(LogMsgSessionsClosed, "count", len(sessions))
	}

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			slog.Error(LogMsgIdentityDBCloseFailed, "error", err)
		}
	}

	slog.Info(LogMsgStopped)
}
