package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/CozyCasino_Go/internal/domain"
	"github.com/osse101/CozyCasino_Go/internal/quest"
	"github.com/osse101/CozyCasino_Go/internal/testing/leaktest"
)

type fakeSyncer struct {
	ns    string
	ready bool
	err   error
	calls atomic.Int32
}

func (f *fakeSyncer) Namespace() string { return f.ns }
func (f *fakeSyncer) Ready() bool       { return f.ready }
func (f *fakeSyncer) SyncMeta(context.Context) (quest.Snapshot, error) {
	f.calls.Add(1)
	return quest.Snapshot{}, f.err
}

func sourceOf(syncers ...*fakeSyncer) SessionSource {
	return SessionSourceFunc(func() []MetaSyncer {
		out := make([]MetaSyncer, len(syncers))
		for i, s := range syncers {
			out[i] = s
		}
		return out
	})
}

func TestMetaSyncWorker_DisabledWithZeroInterval(t *testing.T) {
	s := &fakeSyncer{ns: "local", ready: true}
	w := NewMetaSyncWorker(sourceOf(s), 0)
	assert.False(t, w.Enabled())

	w.Start(context.Background())
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, w.Shutdown(context.Background()))
	assert.Zero(t, s.calls.Load())
}

func TestMetaSyncWorker_SyncsReadySessionsPeriodically(t *testing.T) {
	defer leaktest.Check(t)()

	ready := &fakeSyncer{ns: "discord:1", ready: true}
	failing := &fakeSyncer{ns: "discord:2", ready: true, err: errors.New("boom")}
	notReady := &fakeSyncer{ns: "discord:3"}

	w := NewMetaSyncWorker(sourceOf(ready, failing, notReady), 10*time.Millisecond)
	w.Start(context.Background())

	assert.Eventually(t, func() bool {
		return ready.calls.Load() >= 2 && failing.calls.Load() >= 2
	}, time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, w.Shutdown(ctx))
	assert.Zero(t, notReady.calls.Load())

	// No further rounds after shutdown
	after := ready.calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, ready.calls.Load())
}

func TestMetaSyncWorker_RunOnce(t *testing.T) {
	a := &fakeSyncer{ns: "a", ready: true}
	b := &fakeSyncer{ns: "b"}
	w := NewMetaSyncWorker(sourceOf(a, b), time.Hour)
	w.pool.Start(context.Background())
	defer w.pool.Stop()

	assert.Equal(t, 1, w.RunOnce(context.Background()))
	assert.Eventually(t, func() bool { return a.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
}

func TestSyncJob_IgnoresMissingSession(t *testing.T) {
	s := &fakeSyncer{ns: "a", err: domain.ErrNoSession}
	assert.NoError(t, syncJob{session: s}.Process(context.Background()))

	s.err = errors.New("boom")
	err := syncJob{session: s}.Process(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestBaseWorker_ShutdownTimeout(t *testing.T) {
	var w BaseWorker
	w.init()

	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	w.schedule(uuid.New(), time.Millisecond, func() {
		once.Do(func() { close(started) })
		<-release
	})
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, w.shutdownInternal(ctx, "test worker"), context.DeadlineExceeded)
	close(release)
}
