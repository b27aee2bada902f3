package worker

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/CozyCasino_Go/internal/logger"
)

// BaseWorker provides common functionality for background workers that manage timers
type BaseWorker struct {
	mu     sync.Mutex
	timers map[uuid.UUID]*time.Timer
	closed bool
	wg     sync.WaitGroup
}

func (w *BaseWorker) init() {
	if w.timers == nil {
		w.timers = make(map[uuid.UUID]*time.Timer)
	}
}

// schedule runs fn after d unless the worker shuts down first.
// fn is tracked so shutdown waits for it.
func (w *BaseWorker) schedule(id uuid.UUID, d time.Duration, fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if old, ok := w.timers[id]; ok {
		old.Stop()
	}
	w.timers[id] = time.AfterFunc(d, func() {
		w.mu.Lock()
		if w.closed {
			w.mu.Unlock()
			return
		}
		w.wg.Add(1)
		delete(w.timers, id)
		w.mu.Unlock()

		defer w.wg.Done()
		fn()
	})
}

func (w *BaseWorker) stopTimer(id uuid.UUID) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if timer, ok := w.timers[id]; ok {
		timer.Stop()
		delete(w.timers, id)
	}
}

func (w *BaseWorker) shutdownInternal(ctx context.Context, workerName string) error {
	log := logger.FromContext(ctx)
	log.Info("Shutting down " + workerName)

	// Cancel all pending timers
	w.mu.Lock()
	w.closed = true
	for id, timer := range w.timers {
		timer.Stop()
		log.Debug("Cancelled pending "+workerName+" execution", "timer_id", id)
	}
	w.timers = make(map[uuid.UUID]*time.Timer)
	w.mu.Unlock()

	// Wait for in-flight executions
	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info(workerName + " shutdown complete")
		return nil
	case <-ctx.Done():
		log.Warn(workerName + " shutdown timeout")
		return ctx.Err()
	}
}
