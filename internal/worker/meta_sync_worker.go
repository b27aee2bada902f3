package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/CozyCasino_Go/internal/domain"
	"github.com/osse101/CozyCasino_Go/internal/logger"
	"github.com/osse101/CozyCasino_Go/internal/quest"
)

// MetaSyncer is a session whose quests and events can be refetched
type MetaSyncer interface {
	Namespace() string
	Ready() bool
	SyncMeta(ctx context.Context) (quest.Snapshot, error)
}

// SessionSource lists the sessions to keep in sync
type SessionSource interface {
	Sessions() []MetaSyncer
}

// SessionSourceFunc adapts a function to SessionSource
type SessionSourceFunc func() []MetaSyncer

func (f SessionSourceFunc) Sessions() []MetaSyncer { return f() }

// MetaSyncWorker periodically refetches quests and events of every ready session
type MetaSyncWorker struct {
	BaseWorker
	source   SessionSource
	pool     *Pool
	interval time.Duration
	timerID  uuid.UUID
	ctx      context.Context
}

// NewMetaSyncWorker creates a worker syncing every interval. A zero interval disables it.
func NewMetaSyncWorker(source SessionSource, interval time.Duration) *MetaSyncWorker {
	w := &MetaSyncWorker{
		source:   source,
		pool:     NewPool(DefaultMetaSyncWorkers, DefaultMetaSyncQueueSize),
		interval: interval,
		timerID:  uuid.New(),
	}
	w.init()
	return w
}

// Enabled reports whether the worker has an interval
func (w *MetaSyncWorker) Enabled() bool {
	return w.interval > 0
}

// Start begins the sync loop
func (w *MetaSyncWorker) Start(ctx context.Context) {
	if !w.Enabled() {
		logger.FromContext(ctx).Info(LogMsgMetaSyncDisabled)
		return
	}
	w.ctx = context.WithoutCancel(ctx)
	w.pool.Start(w.ctx)
	w.scheduleNext()
}

// RunOnce enqueues a sync for every ready session and returns the number enqueued
func (w *MetaSyncWorker) RunOnce(ctx context.Context) int {
	log := logger.FromContext(ctx)
	sessions := w.source.Sessions()
	log.Debug(LogMsgMetaSyncStarting, "sessions", len(sessions))

	enqueued := 0
	for _, s := range sessions {
		if !s.Ready() {
			continue
		}
		if !w.pool.Enqueue(syncJob{session: s}) {
			log.Warn(LogMsgWorkerQueueFull, "namespace", s.Namespace())
			continue
		}
		enqueued++
	}
	return enqueued
}

func (w *MetaSyncWorker) scheduleNext() {
	logger.FromContext(w.ctx).Debug(LogMsgMetaSyncScheduled, "in", w.interval)
	w.schedule(w.timerID, w.interval, func() {
		w.RunOnce(w.ctx)
		w.scheduleNext()
	})
}

// Shutdown stops the timer and waits for running syncs
func (w *MetaSyncWorker) Shutdown(ctx context.Context) error {
	w.stopTimer(w.timerID)
	err := w.shutdownInternal(ctx, WorkerNameMetaSync)
	if w.Enabled() && w.ctx != nil {
		w.pool.Stop()
	}
	return err
}

type syncJob struct {
	session MetaSyncer
}

func (j syncJob) Process(ctx context.Context) error {
	if _, err := j.session.SyncMeta(ctx); err != nil && !errors.Is(err, domain.ErrNoSession) {
		return fmt.Errorf("%s %s: %w", LogMsgMetaSyncFailed, j.session.Namespace(), err)
	}
	return nil
}
