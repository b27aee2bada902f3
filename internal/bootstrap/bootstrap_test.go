package bootstrap

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/CozyCasino_Go/internal/domain"
	"github.com/osse101/CozyCasino_Go/internal/event"
	"github.com/osse101/CozyCasino_Go/internal/eventlog"
	"github.com/osse101/CozyCasino_Go/internal/session"
	"github.com/osse101/CozyCasino_Go/internal/worker"
)

func TestStoresAndEventHandlers(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	cfg.IdentityDBPath = filepath.Join(t.TempDir(), "cozy.db")
	cfg.EventLogRetention = time.Hour

	stores, err := OpenStores(ctx, cfg)
	require.NoError(t, err)
	defer stores.DB.Close()

	journal := eventlog.NewService(stores.EventLog)
	bus := InitializeEventSystem()
	require.NoError(t, RegisterEventHandlers(EventHandlerDependencies{EventBus: bus, EventLogService: journal}))

	event.Emit(ctx, bus, event.PlaySucceeded, event.PlaySucceededPayloadV1{
		Kind: domain.GameKindMini, UserID: "user_1", Mini: &domain.MiniResult{Success: true},
	})

	entries, err := journal.Recent(ctx, "user_1", 5)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, string(event.PlaySucceeded), entries[0].EventType)

	// Fresh entries survive pruning
	PruneEventLog(ctx, cfg, journal)
	entries, err = journal.Recent(ctx, "user_1", 5)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestOpenStores_BadPath(t *testing.T) {
	cfg := testConfig(t)
	cfg.IdentityDBPath = filepath.Join(t.TempDir(), "missing", "dir", "cozy.db")

	_, err := OpenStores(context.Background(), cfg)
	assert.ErrorContains(t, err, ErrMsgFailedOpenIdentity)
}

func TestStartStatusServer_DisabledOnZeroPort(t *testing.T) {
	cfg := testConfig(t)
	assert.Nil(t, StartStatusServer(cfg, "local", nil, nil))
}

func TestGracefulShutdown(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	t.Run("nil components", func(t *testing.T) {
		GracefulShutdown(ctx, ShutdownComponents{})
	})

	t.Run("stops worker and closes database", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.IdentityDBPath = filepath.Join(t.TempDir(), "cozy.db")
		cfg.MetaSyncInterval = time.Hour

		stores, err := OpenStores(ctx, cfg)
		require.NoError(t, err)

		w := StartMetaSync(ctx, cfg, worker.SessionSourceFunc(func() []worker.MetaSyncer { return nil }))
		assert.True(t, w.Enabled())

		closed := false
		GracefulShutdown(ctx, ShutdownComponents{
			MetaSyncWorker: w,
			Sessions: func() []*session.Session {
				closed = true
				return nil
			},
			DB: stores.DB,
		})
		assert.True(t, closed)

		_, err = stores.DB.Store("local")
		require.NoError(t, err)
		assert.Error(t, stores.DB.DB().PingContext(ctx))
	})
}
