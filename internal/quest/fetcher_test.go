package quest

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/CozyCasino_Go/internal/client"
	"github.com/osse101/CozyCasino_Go/internal/client/clienttest"
	"github.com/osse101/CozyCasino_Go/internal/domain"
	"github.com/osse101/CozyCasino_Go/internal/event"
)

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) GetQuests(ctx context.Context, userID string) ([]domain.Quest, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Quest), args.Error(1)
}

func (m *MockGateway) GetEvents(ctx context.Context) ([]domain.Event, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Event), args.Error(1)
}

var (
	testQuests = []domain.Quest{{QuestID: "q1", Title: "Spin 3 times", Progress: 1, Target: 3, Reward: domain.Reward{Amount: 50, Type: "coins"}}}
	testEvents = []domain.Event{{EventID: "e1", Name: "Candy Week", Theme: "candy_carnival"}}
)

func TestSync_ReplacesBothLists(t *testing.T) {
	backend := clienttest.NewBackend(t)
	backend.SetQuests("user_1", testQuests)
	backend.SetEvents(testEvents)
	f := NewFetcher(backend.Client, nil)

	snap, err := f.Sync(context.Background(), "user_1")
	require.NoError(t, err)
	assert.Equal(t, testQuests, snap.Quests)
	assert.Equal(t, testEvents, snap.Events)
	assert.Equal(t, "user_1", snap.UserID)
	assert.False(t, snap.SyncedAt.IsZero())
	assert.Equal(t, snap, f.Snapshot())
	assert.NoError(t, f.LastError())
}

func TestSync_EmptyListsAreNotNil(t *testing.T) {
	backend := clienttest.NewBackend(t)
	f := NewFetcher(backend.Client, nil)

	snap, err := f.Sync(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, snap.Quests)
	assert.NotNil(t, snap.Events)
	assert.Empty(t, snap.Quests)
}

func TestSync_PartialFailureKeepsPreviousSnapshot(t *testing.T) {
	backend := clienttest.NewBackend(t)
	backend.SetQuests("user_1", testQuests)
	backend.SetEvents(testEvents)
	bus := event.NewMemoryBus()
	var failures int
	bus.Subscribe(event.MetaSyncFailed, func(context.Context, event.Event) error {
		failures++
		return nil
	})
	f := NewFetcher(backend.Client, bus)

	before, err := f.Sync(context.Background(), "user_1")
	require.NoError(t, err)

	backend.SetQuests("user_1", nil)
	backend.FailWith(clienttest.RouteEvents, http.StatusServiceUnavailable)

	_, err = f.Sync(context.Background(), "user_1")
	require.Error(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, client.StatusCode(err))
	assert.Equal(t, before, f.Snapshot())
	assert.ErrorIs(t, f.LastError(), client.ErrHTTP)
	assert.Equal(t, 1, failures)

	backend.FailWith(clienttest.RouteEvents, 0)
	_, err = f.Sync(context.Background(), "user_1")
	require.NoError(t, err)
	assert.NoError(t, f.LastError())
	assert.Empty(t, f.Snapshot().Quests)
}

// stallingGateway holds the first quest request until release is closed
type stallingGateway struct {
	calls   atomic.Int32
	entered chan struct{}
	release chan struct{}
	first   []domain.Quest
	later   []domain.Quest
}

func (g *stallingGateway) GetQuests(ctx context.Context, userID string) ([]domain.Quest, error) {
	if g.calls.Add(1) == 1 {
		close(g.entered)
		<-g.release
		return g.first, nil
	}
	return g.later, nil
}

func (g *stallingGateway) GetEvents(ctx context.Context) ([]domain.Event, error) {
	return testEvents, nil
}

func TestSync_StaleSyncDiscarded(t *testing.T) {
	gw := &stallingGateway{
		entered: make(chan struct{}),
		release: make(chan struct{}),
		first:   []domain.Quest{{QuestID: "old", Target: 1}},
		later:   []domain.Quest{{QuestID: "new", Target: 1}},
	}
	bus := event.NewMemoryBus()
	var stale atomic.Int32
	bus.Subscribe(event.StaleResponseDiscarded, func(_ context.Context, evt event.Event) error {
		p := evt.Payload.(event.StaleResponseDiscardedPayloadV1)
		assert.Equal(t, event.ResourceMeta, p.Resource)
		stale.Add(1)
		return nil
	})
	f := NewFetcher(gw, bus)

	type result struct {
		snap Snapshot
		err  error
	}
	done := make(chan result, 1)
	go func() {
		snap, err := f.Sync(context.Background(), "user_1")
		done <- result{snap, err}
	}()
	<-gw.entered

	_, err := f.Sync(context.Background(), "user_1")
	require.NoError(t, err)

	close(gw.release)
	first := <-done
	require.NoError(t, first.err)

	assert.Equal(t, gw.later, first.snap.Quests)
	assert.Equal(t, gw.later, f.Snapshot().Quests)
	assert.Equal(t, int32(1), stale.Load())
}

func TestClear_DiscardsInFlightSync(t *testing.T) {
	gw := new(MockGateway)
	f := NewFetcher(gw, nil)

	gw.On("GetQuests", mock.Anything, "user_1").
		Run(func(mock.Arguments) { f.Clear() }).
		Return(testQuests, nil)
	gw.On("GetEvents", mock.Anything).Return(testEvents, nil)

	_, err := f.Sync(context.Background(), "user_1")
	require.NoError(t, err)

	snap := f.Snapshot()
	assert.Empty(t, snap.Quests)
	assert.Empty(t, snap.Events)
	assert.True(t, snap.SyncedAt.IsZero())
}
