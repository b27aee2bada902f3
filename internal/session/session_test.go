package session

import (
	"context"
	"encoding/json"
	"net/http"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/CozyCasino_Go/internal/client"
	"github.com/osse101/CozyCasino_Go/internal/client/clienttest"
	"github.com/osse101/CozyCasino_Go/internal/domain"
	"github.com/osse101/CozyCasino_Go/internal/identity"
)

func newSession(t *testing.T, backend *clienttest.Backend, store identity.Store) *Session {
	t.Helper()
	s := New(identity.NamespaceLocal, backend.Client, store, nil)
	t.Cleanup(s.Close)
	return s
}

func TestStart_NoIdentity(t *testing.T) {
	backend := clienttest.NewBackend(t)
	s := newSession(t, backend, identity.NewMemoryStore())

	status, err := s.Start(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusNeedsOnboarding, status)
	assert.False(t, s.Ready())
	assert.Equal(t, 0, backend.Calls(clienttest.RouteGetProfile))

	s.Close()
	assert.Equal(t, 1, backend.Calls(clienttest.RouteTest))
}

func TestStart_LoadsProfileAndMeta(t *testing.T) {
	backend := clienttest.NewBackend(t)
	backend.SetProfile(domain.NewDefaultProfile("user_1", "Robin"))
	backend.SetQuests("user_1", []domain.Quest{{QuestID: "q1", Progress: 1, Target: 2}})
	backend.SetEvents([]domain.Event{{EventID: "e1", Name: "Candy Week"}})

	store := identity.NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), "user_1", "Robin"))
	s := newSession(t, backend, store)

	status, err := s.Start(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusReady, status)

	v := s.Snapshot()
	require.NotNil(t, v.Profile)
	assert.Equal(t, 500, v.Profile.Currencies.Coins)
	assert.Equal(t, &domain.Identity{UserID: "user_1", DisplayName: "Robin"}, v.Identity)
	assert.Len(t, v.Quests, 1)
	assert.Len(t, v.Events, 1)
	assert.NotNil(t, v.SyncedAt)
	assert.Equal(t, domain.DefaultBet, v.Bet)
	assert.Empty(t, v.Notice)
}

func TestStart_RefetchIsIdempotent(t *testing.T) {
	backend := clienttest.NewBackend(t)
	backend.SetProfile(domain.NewDefaultProfile("user_1", "Robin"))
	store := identity.NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), "user_1", "Robin"))
	s := newSession(t, backend, store)

	_, err := s.Start(context.Background())
	require.NoError(t, err)
	first := s.Snapshot()

	_, err = s.Start(context.Background())
	require.NoError(t, err)
	second := s.Snapshot()

	assert.Equal(t, first.Profile, second.Profile)
	assert.Equal(t, first.Quests, second.Quests)
	assert.Equal(t, 2, backend.Calls(clienttest.RouteGetProfile))
}

func TestStart_ProfileLoadFailure(t *testing.T) {
	backend := clienttest.NewBackend(t)
	store := identity.NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), "ghost", "Casper"))
	s := newSession(t, backend, store)

	status, err := s.Start(context.Background())
	assert.Equal(t, StatusNeedsOnboarding, status)
	assert.Equal(t, http.StatusNotFound, client.StatusCode(err))
	assert.Equal(t, domain.MsgProfileLoadFailed, s.Snapshot().Notice)
	assert.False(t, s.Ready())
	assert.Equal(t, 0, backend.Calls(clienttest.RouteQuests))
}

func TestOnboardThenPlay(t *testing.T) {
	backend := clienttest.NewBackend(t)
	backend.SetSlotResult(domain.SlotResult{Reels: [][]string{{"a"}, {"a"}, {"a"}}, Outcome: "win", WinAmount: 60})
	s := newSession(t, backend, identity.NewMemoryStore())

	status, err := s.Start(context.Background())
	require.NoError(t, err)
	require.Equal(t, StatusNeedsOnboarding, status)

	_, err = s.PlaySlot(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrNoSession)

	_, err = s.Onboard(context.Background(), "user_1", "Robin")
	require.NoError(t, err)
	require.NoError(t, s.SetBet(20))

	res, err := s.PlaySlot(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 60, res.WinAmount)

	reqs := backend.SlotRequests()
	require.Len(t, reqs, 1)
	assert.Equal(t, domain.SlotPlayRequest{UserID: "user_1", Theme: domain.DefaultSlotTheme, Bet: 20}, reqs[0])

	v := s.Snapshot()
	assert.Equal(t, 540, v.Profile.Currencies.Coins)
	assert.Equal(t, domain.PlayStateIdle, v.Slot.State)
	assert.Equal(t, domain.PlayStateSucceeded, v.Slot.Outcome)
	assert.Equal(t, res, v.Slot.SlotResult)
	assert.Empty(t, v.Slot.Message)

	mini, err := s.PlayMini(context.Background(), "")
	require.NoError(t, err)
	assert.True(t, mini.Success)
}

func TestPlayFailureView(t *testing.T) {
	backend := clienttest.NewBackend(t)
	s := newSession(t, backend, identity.NewMemoryStore())
	_, err := s.Onboard(context.Background(), "user_1", "Robin")
	require.NoError(t, err)

	backend.FailWith(clienttest.RoutePlayMini, http.StatusPaymentRequired)
	_, err = s.PlayMini(context.Background(), "")
	require.Error(t, err)

	v := s.Snapshot()
	assert.Equal(t, domain.PlayStateFailed, v.Mini.Outcome)
	assert.Equal(t, domain.MsgPlayFailed, v.Mini.Message)
	assert.Nil(t, v.Mini.MiniResult)
}

func TestLogout(t *testing.T) {
	backend := clienttest.NewBackend(t)
	backend.SetQuests("user_1", []domain.Quest{{QuestID: "q1", Target: 1}})
	store := identity.NewMemoryStore()
	s := newSession(t, backend, store)

	_, err := s.Onboard(context.Background(), "user_1", "Robin")
	require.NoError(t, err)
	require.NoError(t, s.SetBet(50))
	_, err = s.PlaySlot(context.Background(), "")
	require.NoError(t, err)

	require.NoError(t, s.Logout(context.Background()))

	v := s.Snapshot()
	assert.Nil(t, v.Identity)
	assert.Nil(t, v.Profile)
	assert.Nil(t, v.Slot.SlotResult)
	assert.Empty(t, v.Quests)
	assert.Equal(t, domain.DefaultBet, v.Bet)

	_, ok, _ := store.Load(context.Background())
	assert.False(t, ok)

	_, err = s.PlaySlot(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrNoSession)
	_, err = s.RefreshProfile(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoSession)
	_, err = s.SyncMeta(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoSession)
}

func TestRefreshProfile(t *testing.T) {
	backend := clienttest.NewBackend(t)
	s := newSession(t, backend, identity.NewMemoryStore())
	_, err := s.Onboard(context.Background(), "user_1", "Robin")
	require.NoError(t, err)

	updated := domain.NewDefaultProfile("user_1", "Robin")
	updated.Currencies.Stars = 3
	backend.SetProfile(updated)

	p, err := s.RefreshProfile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, p.Currencies.Stars)
	assert.Equal(t, 3, s.Snapshot().Profile.Currencies.Stars)
}

func TestSetBet(t *testing.T) {
	backend := clienttest.NewBackend(t)
	s := newSession(t, backend, identity.NewMemoryStore())

	assert.ErrorIs(t, s.SetBet(25), domain.ErrInvalidInput)
	assert.Equal(t, domain.DefaultBet, s.Bet())
	require.NoError(t, s.SetBet(100))
	assert.Equal(t, 100, s.Bet())
}

func TestSession_SurvivesRestart(t *testing.T) {
	ctx := context.Background()
	backend := clienttest.NewBackend(t)
	db, err := identity.Open(ctx, filepath.Join(t.TempDir(), "identity.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	store, err := db.Store(identity.NamespaceLocal)
	require.NoError(t, err)
	first := newSession(t, backend, store)
	_, err = first.Onboard(ctx, "user_1", "Robin")
	require.NoError(t, err)

	restarted := newSession(t, backend, store)
	status, err := restarted.Start(ctx)
	require.NoError(t, err)
	assert.Equal(t, StatusReady, status)
	assert.Equal(t, "Robin", restarted.Snapshot().Identity.DisplayName)
}

func TestSnapshotJSON(t *testing.T) {
	backend := clienttest.NewBackend(t)
	s := newSession(t, backend, identity.NewMemoryStore())

	data, err := json.Marshal(s.Snapshot())
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "idle", decoded["slot"].(map[string]interface{})["state"])
	assert.Equal(t, []interface{}{}, decoded["quests"])
	assert.NotContains(t, decoded, "profile")
}

func TestRegistry(t *testing.T) {
	backend := clienttest.NewBackend(t)
	builds := 0
	r := NewRegistry(2, time.Minute, func(_ context.Context, namespace string) (*Session, error) {
		builds++
		return New(namespace, backend.Client, identity.NewMemoryStore(), nil), nil
	})

	a, created, err := r.Get(context.Background(), identity.DiscordNamespace("1"))
	require.NoError(t, err)
	assert.True(t, created)

	again, created, err := r.Get(context.Background(), identity.DiscordNamespace("1"))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Same(t, a, again)
	assert.Equal(t, 1, builds)

	_, _, _ = r.Get(context.Background(), identity.DiscordNamespace("2"))
	_, _, _ = r.Get(context.Background(), identity.DiscordNamespace("3"))
	assert.Equal(t, 2, r.Len())
	_, ok := r.Peek(identity.DiscordNamespace("1"))
	assert.False(t, ok, "least recently used session is evicted")

	sessions := r.Sessions()
	require.Len(t, sessions, 2)
	assert.Equal(t, identity.DiscordNamespace("2"), sessions[0].Namespace())

	r.Remove(identity.DiscordNamespace("3"))
	assert.Equal(t, 1, r.Len())
}

func TestEnsureStarted(t *testing.T) {
	backend := clienttest.NewBackend(t)
	backend.SetProfile(domain.NewDefaultProfile("user_1", "Robin"))
	store := identity.NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), "user_1", "Robin"))
	s := newSession(t, backend, store)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			status, err := s.EnsureStarted(context.Background())
			assert.NoError(t, err)
			assert.Equal(t, StatusReady, status)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, backend.Calls(clienttest.RouteGetProfile), "started once")
}

func TestEnsureStarted_RetriesAfterFailure(t *testing.T) {
	backend := clienttest.NewBackend(t)
	backend.SetProfile(domain.NewDefaultProfile("user_1", "Robin"))
	backend.FailWith(clienttest.RouteGetProfile, http.StatusServiceUnavailable)
	store := identity.NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), "user_1", "Robin"))
	s := newSession(t, backend, store)

	status, err := s.EnsureStarted(context.Background())
	require.Error(t, err)
	assert.Equal(t, StatusNeedsOnboarding, status)

	backend.FailWith(clienttest.RouteGetProfile, 0)
	status, err = s.EnsureStarted(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusReady, status)

	// Later calls reflect the current state without refetching
	require.NoError(t, s.Logout(context.Background()))
	status, err = s.EnsureStarted(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusNeedsOnboarding, status)
	assert.Equal(t, 2, backend.Calls(clienttest.RouteGetProfile))
}

func waitSignal(t *testing.T, ch <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
	}
}

func TestOnboard_DuringInFlightSpinKeepsNewUser(t *testing.T) {
	ctx := context.Background()
	backend := clienttest.NewBackend(t)
	s := newSession(t, backend, identity.NewMemoryStore())
	_, err := s.Onboard(ctx, "user_a", "Ada")
	require.NoError(t, err)

	releasePlay := backend.Block(clienttest.RoutePlaySlot)
	played := make(chan struct{})
	go func() {
		defer close(played)
		_, _ = s.PlaySlot(ctx, "")
	}()
	waitSignal(t, backend.Entered(clienttest.RoutePlaySlot), "slot play")

	// The new profile is cached before quests are fetched
	releaseQuests := backend.Block(clienttest.RouteQuests)
	onboarded := make(chan struct{})
	go func() {
		defer close(onboarded)
		_, err := s.Onboard(ctx, "user_b", "Bea")
		assert.NoError(t, err)
	}()
	waitSignal(t, backend.Entered(clienttest.RouteQuests), "quest sync")

	releasePlay()
	waitSignal(t, played, "slot play to finish")
	releaseQuests()
	waitSignal(t, onboarded, "onboarding to finish")

	v := s.Snapshot()
	require.NotNil(t, v.Identity)
	require.NotNil(t, v.Profile)
	assert.Equal(t, "user_b", v.Identity.UserID)
	assert.Equal(t, "user_b", v.Profile.UserID)
	assert.Nil(t, v.Slot.SlotResult)

	_, err = s.PlaySlot(ctx, "")
	require.NoError(t, err)
	requests := backend.SlotRequests()
	require.Len(t, requests, 2)
	assert.Equal(t, "user_b", requests[1].UserID)
}

func TestLogout_DuringInFlightSpinStaysLoggedOut(t *testing.T) {
	ctx := context.Background()
	backend := clienttest.NewBackend(t)
	s := newSession(t, backend, identity.NewMemoryStore())
	_, err := s.Onboard(ctx, "user_1", "Robin")
	require.NoError(t, err)

	release := backend.Block(clienttest.RoutePlaySlot)
	played := make(chan struct{})
	go func() {
		defer close(played)
		_, _ = s.PlaySlot(ctx, "")
	}()
	waitSignal(t, backend.Entered(clienttest.RoutePlaySlot), "slot play")

	require.NoError(t, s.Logout(ctx))
	release()
	waitSignal(t, played, "slot play to finish")

	assert.False(t, s.Ready())
	assert.Nil(t, s.Snapshot().Profile)
	_, err = s.PlaySlot(ctx, "")
	assert.ErrorIs(t, err, domain.ErrNoSession)
}

func TestPlaySlotBet(t *testing.T) {
	ctx := context.Background()
	backend := clienttest.NewBackend(t)
	s := newSession(t, backend, identity.NewMemoryStore())
	_, err := s.Onboard(ctx, "user_1", "Robin")
	require.NoError(t, err)

	_, err = s.PlaySlotBet(ctx, "", 50)
	require.NoError(t, err)
	assert.Equal(t, 50, s.Bet())

	_, err = s.PlaySlotBet(ctx, "", 25)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 50, s.Bet())

	requests := backend.SlotRequests()
	require.Len(t, requests, 1)
	assert.Equal(t, 50, requests[0].Bet)
	assert.Equal(t, domain.DefaultSlotTheme, requests[0].Theme)
}

// emptyProfileGateway answers profile fetches with no body and no error
type emptyProfileGateway struct {
	*client.APIClient
}

func (emptyProfileGateway) GetProfile(context.Context, string) (*domain.Profile, error) {
	return nil, nil
}

func TestStart_EmptyProfileResponse(t *testing.T) {
	backend := clienttest.NewBackend(t)
	store := identity.NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), "user_1", "Robin"))
	s := New(identity.NamespaceLocal, emptyProfileGateway{backend.Client}, store, nil)
	t.Cleanup(s.Close)

	status, err := s.Start(context.Background())
	assert.ErrorIs(t, err, domain.ErrInvalidResponse)
	assert.Equal(t, StatusNeedsOnboarding, status)
	assert.False(t, s.Ready())
}

func TestRegistry_GetExtendsTTL(t *testing.T) {
	builds := 0
	r := NewRegistry(4, 300*time.Millisecond, func(_ context.Context, namespace string) (*Session, error) {
		builds++
		return New(namespace, clienttest.NewBackend(t).Client, identity.NewMemoryStore(), nil), nil
	})

	ns := identity.DiscordNamespace("1")
	first, created, err := r.Get(context.Background(), ns)
	require.NoError(t, err)
	require.True(t, created)

	for i := 0; i < 3; i++ {
		time.Sleep(150 * time.Millisecond)
		s, created, err := r.Get(context.Background(), ns)
		require.NoError(t, err)
		assert.False(t, created)
		assert.Same(t, first, s)
	}
	assert.Equal(t, 1, builds)
}
