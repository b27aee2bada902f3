// Package session ties the identity, profile cache, play orchestrator,
// onboarding flow and quest fetcher of one player together.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/osse101/CozyCasino_Go/internal/domain"
	"github.com/osse101/CozyCasino_Go/internal/event"
	"github.com/osse101/CozyCasino_Go/internal/identity"
	"github.com/osse101/CozyCasino_Go/internal/logger"
	"github.com/osse101/CozyCasino_Go/internal/onboarding"
	"github.com/osse101/CozyCasino_Go/internal/play"
	"github.com/osse101/CozyCasino_Go/internal/profile"
	"github.com/osse101/CozyCasino_Go/internal/quest"
)

// Status is the outcome of Start
type Status int

const (
	// StatusNeedsOnboarding means no usable profile is associated with this session
	StatusNeedsOnboarding Status = iota
	// StatusReady means the profile is loaded and plays are accepted
	StatusReady
)

func (s Status) String() string {
	if s == StatusReady {
		return "ready"
	}
	return "needs_onboarding"
}

// warmUpTimeout bounds the fire-and-forget warm-up request
const warmUpTimeout = 10 * time.Second

// Log messages
const (
	LogMsgWarmUpFailed      = "Backend warm-up failed"
	LogMsgNoIdentity        = "No saved identity, onboarding required"
	LogMsgProfileLoadFailed = "Failed to load profile"
	LogMsgSessionReady      = "Session established"
	LogMsgMetaSyncFailed    = "Quest/event sync failed"
	LogMsgLoggedOut         = "Session cleared"
)

// Gateway is the backend API used by a session
type Gateway interface {
	play.Gateway
	quest.Gateway
	onboarding.Gateway
	WarmUp(ctx context.Context) error
}

// Session is the state of one player: who they are, their cached profile,
// the play state machine and their quests and events.
type Session struct {
	namespace string
	api       Gateway
	store     identity.Store
	bus       event.Bus

	cache   *profile.Cache
	orch    *play.Orchestrator
	fetcher *quest.Fetcher
	flow    *onboarding.Flow

	mu       sync.RWMutex
	identity domain.Identity
	bet      int
	notice   string

	startMu sync.Mutex
	started bool

	wg sync.WaitGroup
}

// New creates a session for namespace. bus may be nil.
func New(namespace string, api Gateway, store identity.Store, bus event.Bus) *Session {
	cache := profile.NewCache()
	fetcher := quest.NewFetcher(api, bus)
	orch := play.NewOrchestrator(api, cache, bus)
	return &Session{
		namespace: namespace,
		api:       api,
		store:     store,
		bus:       bus,
		cache:     cache,
		orch:      orch,
		fetcher:   fetcher,
		flow:      onboarding.NewFlow(api, store, cache, fetcher, bus).WithResetter(orch),
		bet:       domain.DefaultBet,
	}
}

// Namespace returns the identity namespace of the session
func (s *Session) Namespace() string {
	return s.namespace
}

// Start warms the backend up, loads the saved identity and, when there is one,
// its profile followed by quests and events. Calling it again refetches.
func (s *Session) Start(ctx context.Context) (Status, error) {
	log := logger.FromContext(ctx)
	s.warmUp(ctx)

	id, ok, err := s.store.Load(ctx)
	if err != nil {
		return StatusNeedsOnboarding, fmt.Errorf("load identity: %w", err)
	}
	if !ok {
		log.Info(LogMsgNoIdentity, "namespace", s.namespace)
		return StatusNeedsOnboarding, nil
	}

	s.mu.Lock()
	s.identity = id
	s.mu.Unlock()

	if err := s.loadProfile(ctx, id.UserID, event.SourceSessionStart); err != nil {
		log.Warn(LogMsgProfileLoadFailed, "user_id", id.UserID, "error", err)
		s.setNotice(domain.MsgProfileLoadFailed)
		return StatusNeedsOnboarding, err
	}
	s.setNotice("")

	log.Info(LogMsgSessionReady, "namespace", s.namespace, "user_id", id.UserID)
	event.Emit(ctx, s.bus, event.SessionEstablished, event.SessionPayloadV1{UserID: id.UserID, DisplayName: id.DisplayName})

	if _, err := s.fetcher.Sync(ctx, id.UserID); err != nil {
		log.Warn(LogMsgMetaSyncFailed, "user_id", id.UserID, "error", err)
	}
	return StatusReady, nil
}

// EnsureStarted runs Start once. Concurrent callers wait for the first start,
// and a start that failed is retried by the next call.
func (s *Session) EnsureStarted(ctx context.Context) (Status, error) {
	s.startMu.Lock()
	defer s.startMu.Unlock()
	if s.started {
		if s.Ready() {
			return StatusReady, nil
		}
		return StatusNeedsOnboarding, nil
	}
	status, err := s.Start(ctx)
	if err == nil {
		s.started = true
	}
	return status, err
}

func (s *Session) warmUp(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), warmUpTimeout)
		defer cancel()
		if err := s.api.WarmUp(wctx); err != nil {
			logger.FromContext(wctx).Debug(LogMsgWarmUpFailed, "error", err)
		}
	}()
}

// loadProfile fetches userID's profile through a cache ticket
func (s *Session) loadProfile(ctx context.Context, userID, source string) error {
	ticket := s.cache.Begin()
	p, err := s.api.GetProfile(ctx, userID)
	switch {
	case err != nil:
	case p == nil:
		err = domain.ErrInvalidResponse
	case p.UserID != userID:
		err = fmt.Errorf("%w: got %q", domain.ErrProfileMismatch, p.UserID)
	}
	if err != nil {
		event.Emit(ctx, s.bus, event.ProfileRefreshFailed, event.ProfileRefreshFailedPayloadV1{
			UserID: userID, Source: source, Error: err.Error(),
		})
		return err
	}

	if !s.cache.Apply(ticket, *p) {
		event.Emit(ctx, s.bus, event.StaleResponseDiscarded, event.StaleResponseDiscardedPayloadV1{
			Resource: event.ResourceProfile, UserID: userID, Ticket: uint64(ticket),
		})
		return nil
	}
	event.Emit(ctx, s.bus, event.ProfileRefreshed, event.ProfileRefreshedPayloadV1{
		UserID: userID, Version: uint64(ticket), Source: source,
	})
	return nil
}

// Onboard creates the profile and makes it the session's identity.
// A failure leaves the session exactly as it was. Plays of the previous
// identity are reset by the flow before the new profile is cached.
func (s *Session) Onboard(ctx context.Context, userID, displayName string) (*domain.Profile, error) {
	p, err := s.flow.Submit(ctx, userID, displayName)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.identity = p.Identity()
	s.notice = ""
	s.mu.Unlock()

	event.Emit(ctx, s.bus, event.SessionEstablished, event.SessionPayloadV1{UserID: p.UserID, DisplayName: p.DisplayName})
	return p, nil
}

// PlaySlot spins theme (the default theme when empty) with the selected bet
func (s *Session) PlaySlot(ctx context.Context, theme string) (*domain.SlotResult, error) {
	return s.PlaySlotBet(ctx, theme, s.Bet())
}

// PlaySlotBet spins theme for bet. An allowed bet also becomes the selected bet.
// The bet goes out with this play even when another command selects a different one meanwhile.
func (s *Session) PlaySlotBet(ctx context.Context, theme string, bet int) (*domain.SlotResult, error) {
	if theme == "" {
		theme = domain.DefaultSlotTheme
	}
	if domain.IsAllowedBet(bet) {
		s.mu.Lock()
		s.bet = bet
		s.mu.Unlock()
	}
	return s.orch.PlaySlot(ctx, theme, bet)
}

// PlayMini plays game (the default mini game when empty)
func (s *Session) PlayMini(ctx context.Context, game string) (*domain.MiniResult, error) {
	if game == "" {
		game = domain.DefaultMiniGame
	}
	return s.orch.PlayMini(ctx, game)
}

// RefreshProfile refetches the profile of the active identity
func (s *Session) RefreshProfile(ctx context.Context) (domain.Profile, error) {
	userID := s.userID()
	if userID == "" {
		return domain.Profile{}, domain.ErrNoSession
	}
	if err := s.loadProfile(ctx, userID, event.SourceManual); err != nil {
		return domain.Profile{}, err
	}
	p, _ := s.cache.Get()
	return p, nil
}

// SyncMeta refetches quests and events of the active identity
func (s *Session) SyncMeta(ctx context.Context) (quest.Snapshot, error) {
	userID := s.userID()
	if userID == "" {
		return quest.Snapshot{}, domain.ErrNoSession
	}
	return s.fetcher.Sync(ctx, userID)
}

// Logout forgets the identity, the cached profile, results and quests.
// Nothing is cleared when the identity could not be removed.
func (s *Session) Logout(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear identity: %w", err)
	}

	s.mu.Lock()
	old := s.identity
	s.identity = domain.Identity{}
	s.bet = domain.DefaultBet
	s.notice = ""
	s.mu.Unlock()

	// The cache empties first so no new play can pick up the old user
	s.cache.Clear()
	s.orch.Reset()
	s.fetcher.Clear()

	logger.FromContext(ctx).Info(LogMsgLoggedOut, "namespace", s.namespace, "user_id", old.UserID)
	event.Emit(ctx, s.bus, event.SessionCleared, event.SessionPayloadV1{UserID: old.UserID, DisplayName: old.DisplayName})
	return nil
}

// SetBet selects the bet used by PlaySlot
func (s *Session) SetBet(bet int) error {
	if !domain.IsAllowedBet(bet) {
		return domain.NewValidationError(domain.FieldBet, play.ReasonBetNotAllowed)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bet = bet
	return nil
}

// Bet returns the selected bet
func (s *Session) Bet() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bet
}

// Ready reports whether a profile is loaded
func (s *Session) Ready() bool {
	_, ok := s.cache.Get()
	return ok
}

// Close waits for background requests started by the session
func (s *Session) Close() {
	s.wg.Wait()
}

func (s *Session) userID() string {
	if id := s.cache.UserID(); id != "" {
		return id
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity.UserID
}

func (s *Session) setNotice(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notice = msg
}
