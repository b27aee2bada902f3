// Package quest keeps the player's quest and event lists in sync with the backend.
package quest

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/osse101/CozyCasino_Go/internal/domain"
	"github.com/osse101/CozyCasino_Go/internal/event"
	"github.com/osse101/CozyCasino_Go/internal/logger"
)

// Log messages
const (
	LogMsgSynced     = "Quests and events synced"
	LogMsgSyncFailed = "Quest/event sync failed"
	LogMsgStaleSync  = "Discarded stale quest/event sync"
)

// Gateway is the subset of the backend API used for syncing
type Gateway interface {
	GetQuests(ctx context.Context, userID string) ([]domain.Quest, error)
	GetEvents(ctx context.Context) ([]domain.Event, error)
}

// Snapshot is the last successfully synced quest and event lists
type Snapshot struct {
	UserID   string         `json:"user_id,omitempty"`
	Quests   []domain.Quest `json:"quests"`
	Events   []domain.Event `json:"events"`
	SyncedAt time.Time      `json:"synced_at"`
}

// Fetcher syncs quests and events together. Both lists are replaced only when
// both requests succeed; a failed sync keeps the previous snapshot.
type Fetcher struct {
	gateway Gateway
	bus     event.Bus
	now     func() time.Time

	mu       sync.RWMutex
	snapshot Snapshot
	next     uint64
	applied  uint64
	lastErr  error
}

// NewFetcher creates a fetcher with an empty snapshot. bus may be nil.
func NewFetcher(gateway Gateway, bus event.Bus) *Fetcher {
	return &Fetcher{
		gateway:  gateway,
		bus:      bus,
		now:      time.Now,
		snapshot: emptySnapshot(),
	}
}

func emptySnapshot() Snapshot {
	return Snapshot{Quests: []domain.Quest{}, Events: []domain.Event{}}
}

// Sync fetches quests for userID and the active events concurrently.
// A sync overtaken by a newer one is discarded and the current snapshot returned.
func (f *Fetcher) Sync(ctx context.Context, userID string) (Snapshot, error) {
	log := logger.FromContext(ctx)

	f.mu.Lock()
	f.next++
	ticket := f.next
	f.mu.Unlock()

	var quests []domain.Quest
	var events []domain.Event
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		quests, err = f.gateway.GetQuests(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		events, err = f.gateway.GetEvents(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		f.mu.Lock()
		if ticket > f.applied {
			f.lastErr = err
		}
		f.mu.Unlock()

		log.Warn(LogMsgSyncFailed, "user_id", userID, "error", err)
		event.Emit(ctx, f.bus, event.MetaSyncFailed, event.MetaSyncFailedPayloadV1{UserID: userID, Error: err.Error()})
		return Snapshot{}, err
	}

	if quests == nil {
		quests = []domain.Quest{}
	}
	if events == nil {
		events = []domain.Event{}
	}

	f.mu.Lock()
	if ticket <= f.applied {
		current := f.snapshot
		f.mu.Unlock()
		log.Debug(LogMsgStaleSync, "user_id", userID, "ticket", ticket)
		event.Emit(ctx, f.bus, event.StaleResponseDiscarded, event.StaleResponseDiscardedPayloadV1{
			Resource: event.ResourceMeta, UserID: userID, Ticket: ticket,
		})
		return current, nil
	}
	f.applied = ticket
	f.snapshot = Snapshot{UserID: userID, Quests: quests, Events: events, SyncedAt: f.now()}
	f.lastErr = nil
	snap := f.snapshot
	f.mu.Unlock()

	log.Debug(LogMsgSynced, "user_id", userID, "quests", len(quests), "events", len(events))
	event.Emit(ctx, f.bus, event.MetaSynced, event.MetaSyncedPayloadV1{UserID: userID, Quests: len(quests), Events: len(events)})
	return snap, nil
}

// Snapshot returns the last applied sync
func (f *Fetcher) Snapshot() Snapshot {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.snapshot
}

// LastError returns the error of the last failed sync, nil once a sync succeeds
func (f *Fetcher) LastError() error {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.lastErr
}

// Clear empties the snapshot and discards every sync still in flight
func (f *Fetcher) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snapshot = emptySnapshot()
	f.applied = f.next
	f.lastErr = nil
}
