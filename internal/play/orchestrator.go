// Package play coordinates slot and mini game plays: submit, await the
// result, then refresh the profile before the game is playable again.
package play

import (
	"context"
	"fmt"
	"sync"

	"github.com/osse101/CozyCasino_Go/internal/client"
	"github.com/osse101/CozyCasino_Go/internal/domain"
	"github.com/osse101/CozyCasino_Go/internal/event"
	"github.com/osse101/CozyCasino_Go/internal/logger"
	"github.com/osse101/CozyCasino_Go/internal/profile"
)

// Gateway is the subset of the backend API used by plays
type Gateway interface {
	PlaySlot(ctx context.Context, req domain.SlotPlayRequest) (*domain.SlotResult, error)
	PlayMini(ctx context.Context, req domain.MiniPlayRequest) (*domain.MiniResult, error)
	GetProfile(ctx context.Context, userID string) (*domain.Profile, error)
}

type kindState struct {
	state   domain.PlayState
	outcome domain.PlayState // Succeeded or Failed of the last completed play, Idle if none
	err     error
}

// Orchestrator runs the per-kind play state machine.
// Each kind moves Idle -> Submitting -> (Succeeded | Failed) -> Idle and
// only one play per kind may be past Idle at a time.
type Orchestrator struct {
	gateway Gateway
	cache   *profile.Cache
	bus     event.Bus

	mu         sync.Mutex
	kinds      map[domain.GameKind]*kindState
	slotResult *domain.SlotResult
	miniResult *domain.MiniResult
	generation uint64 // bumped by Reset so late responses of a previous session are dropped
}

// NewOrchestrator creates an orchestrator writing refreshed profiles to cache.
// bus may be nil.
func NewOrchestrator(gateway Gateway, cache *profile.Cache, bus event.Bus) *Orchestrator {
	o := &Orchestrator{
		gateway: gateway,
		cache:   cache,
		bus:     bus,
		kinds:   make(map[domain.GameKind]*kindState, len(domain.GameKinds)),
	}
	for _, k := range domain.GameKinds {
		o.kinds[k] = &kindState{}
	}
	return o
}

// PlaySlot spins the theme slot machine for bet coins.
// On success the returned error is nil or wraps domain.ErrProfileRefresh, in
// which case the result stands but the cache kept its pre-play value.
func (o *Orchestrator) PlaySlot(ctx context.Context, theme string, bet int) (*domain.SlotResult, error) {
	kind := domain.GameKindSlot
	var invalid error
	if !domain.IsAllowedBet(bet) {
		invalid = domain.NewValidationError(domain.FieldBet, ReasonBetNotAllowed)
	} else if _, ok := domain.LookupGame(kind, theme); !ok {
		invalid = domain.NewValidationError(domain.FieldTheme, ReasonUnknownTheme)
	}

	userID, gen, err := o.begin(ctx, kind, invalid)
	if err != nil {
		return nil, err
	}

	res, err := o.gateway.PlaySlot(ctx, domain.SlotPlayRequest{UserID: userID, Theme: theme, Bet: bet})
	if err == nil && res == nil {
		err = domain.ErrInvalidResponse
	}
	if err != nil {
		o.fail(ctx, kind, userID, gen, err)
		return nil, err
	}

	o.mu.Lock()
	if o.generation == gen {
		o.slotResult = res
	}
	o.mu.Unlock()

	logger.FromContext(ctx).Info(LogMsgPlaySucceeded, "kind", kind, "user_id", userID,
		"theme", theme, "bet", bet, "outcome", res.Outcome, "win_amount", res.WinAmount)
	return res, o.succeed(ctx, kind, userID, gen, event.PlaySucceededPayloadV1{Kind: kind, UserID: userID, Slot: res})
}

// PlayMini plays one round of the game mini game.
// Errors follow PlaySlot.
func (o *Orchestrator) PlayMini(ctx context.Context, game string) (*domain.MiniResult, error) {
	kind := domain.GameKindMini
	var invalid error
	if _, ok := domain.LookupGame(kind, game); !ok {
		invalid = domain.NewValidationError(domain.FieldGame, ReasonUnknownGame)
	}

	userID, gen, err := o.begin(ctx, kind, invalid)
	if err != nil {
		return nil, err
	}

	res, err := o.gateway.PlayMini(ctx, domain.MiniPlayRequest{UserID: userID, Game: game})
	if err == nil && res == nil {
		err = domain.ErrInvalidResponse
	}
	if err != nil {
		o.fail(ctx, kind, userID, gen, err)
		return nil, err
	}

	o.mu.Lock()
	if o.generation == gen {
		o.miniResult = res
	}
	o.mu.Unlock()

	logger.FromContext(ctx).Info(LogMsgPlaySucceeded, "kind", kind, "user_id", userID,
		"game", game, "success", res.Success, "score", res.Score)
	return res, o.succeed(ctx, kind, userID, gen, event.PlaySucceededPayloadV1{Kind: kind, UserID: userID, Mini: res})
}

// begin applies the guarded Idle -> Submitting transition.
// invalid is only reported once the session and in-flight checks passed.
func (o *Orchestrator) begin(ctx context.Context, kind domain.GameKind, invalid error) (string, uint64, error) {
	log := logger.FromContext(ctx)

	o.mu.Lock()
	st := o.kinds[kind]
	userID := o.cache.UserID()

	var reason string
	var err error
	switch {
	case userID == "":
		reason, err = event.RejectReasonNoSession, domain.ErrNoSession
	case st.state != domain.PlayStateIdle:
		reason, err = event.RejectReasonInFlight, fmt.Errorf("%w: %s", domain.ErrPlayInFlight, kind)
	case invalid != nil:
		reason, err = rejectReason(invalid), invalid
	}
	if err != nil {
		o.mu.Unlock()
		log.Debug(LogMsgPlayRejected, "kind", kind, "reason", reason)
		event.Emit(ctx, o.bus, event.PlayRejected, event.PlayRejectedPayloadV1{Kind: kind, Reason: reason})
		return "", 0, err
	}

	st.state = domain.PlayStateSubmitting
	st.err = nil
	o.clearResult(kind)
	gen := o.generation
	o.mu.Unlock()

	log.Debug(LogMsgPlaySubmitted, "kind", kind, "user_id", userID)
	o.emitTransition(ctx, kind, domain.PlayStateIdle, domain.PlayStateSubmitting)
	return userID, gen, nil
}

// succeed records the success, refreshes the profile and only then returns kind to Idle
func (o *Orchestrator) succeed(ctx context.Context, kind domain.GameKind, userID string, gen uint64, payload event.PlaySucceededPayloadV1) error {
	o.mu.Lock()
	st := o.kinds[kind]
	st.state = domain.PlayStateSucceeded
	if o.generation == gen {
		st.outcome = domain.PlayStateSucceeded
	}
	o.mu.Unlock()

	o.emitTransition(ctx, kind, domain.PlayStateSubmitting, domain.PlayStateSucceeded)
	event.Emit(ctx, o.bus, event.PlaySucceeded, payload)

	refreshErr := o.refresh(ctx, userID, gen)

	o.mu.Lock()
	if o.generation == gen {
		st.err = refreshErr
	}
	st.state = domain.PlayStateIdle
	o.mu.Unlock()

	o.emitTransition(ctx, kind, domain.PlayStateSucceeded, domain.PlayStateIdle)
	return refreshErr
}

func (o *Orchestrator) refresh(ctx context.Context, userID string, gen uint64) error {
	log := logger.FromContext(ctx)
	ticket := o.cache.Begin()

	p, err := o.gateway.GetProfile(ctx, userID)
	switch {
	case err != nil:
		err = fmt.Errorf("%w: %w", domain.ErrProfileRefresh, err)
	case p == nil:
		err = fmt.Errorf("%w: %w", domain.ErrProfileRefresh, domain.ErrInvalidResponse)
	case p.UserID != userID:
		err = fmt.Errorf("%w: %w: got %q", domain.ErrProfileRefresh, domain.ErrProfileMismatch, p.UserID)
	}
	if err != nil {
		log.Warn(LogMsgProfileRefreshFailed, "user_id", userID, "error", err)
		event.Emit(ctx, o.bus, event.ProfileRefreshFailed, event.ProfileRefreshFailedPayloadV1{
			UserID: userID, Source: event.SourcePlay, Error: err.Error(),
		})
		return err
	}

	o.mu.Lock()
	applied := o.generation == gen && o.cache.ApplyRefresh(ticket, *p)
	o.mu.Unlock()

	if !applied {
		log.Debug(LogMsgStaleProfile, "user_id", userID, "ticket", ticket)
		event.Emit(ctx, o.bus, event.StaleResponseDiscarded, event.StaleResponseDiscardedPayloadV1{
			Resource: event.ResourceProfile, UserID: userID, Ticket: uint64(ticket),
		})
		return nil
	}

	log.Debug(LogMsgProfileRefreshed, "user_id", userID, "coins", p.Currencies.Coins, "energy", p.Currencies.Energy)
	event.Emit(ctx, o.bus, event.ProfileRefreshed, event.ProfileRefreshedPayloadV1{
		UserID: userID, Version: uint64(ticket), Source: event.SourcePlay,
	})
	return nil
}

// fail clears the result, records err and returns kind to Idle. The cache is not touched.
func (o *Orchestrator) fail(ctx context.Context, kind domain.GameKind, userID string, gen uint64, err error) {
	logger.FromContext(ctx).Warn(LogMsgPlayFailed, "kind", kind, "user_id", userID,
		"status", client.StatusCode(err), "error", err)

	o.mu.Lock()
	st := o.kinds[kind]
	st.state = domain.PlayStateFailed
	if o.generation == gen {
		st.outcome = domain.PlayStateFailed
		st.err = err
		o.clearResult(kind)
	}
	o.mu.Unlock()

	o.emitTransition(ctx, kind, domain.PlayStateSubmitting, domain.PlayStateFailed)
	event.Emit(ctx, o.bus, event.PlayFailed, event.PlayFailedPayloadV1{
		Kind:    kind,
		UserID:  userID,
		Status:  client.StatusCode(err),
		Message: domain.MsgPlayFailed,
		Error:   err.Error(),
	})

	o.mu.Lock()
	st.state = domain.PlayStateIdle
	o.mu.Unlock()

	o.emitTransition(ctx, kind, domain.PlayStateFailed, domain.PlayStateIdle)
}

// clearResult must be called with o.mu held
func (o *Orchestrator) clearResult(kind domain.GameKind) {
	switch kind {
	case domain.GameKindSlot:
		o.slotResult = nil
	case domain.GameKindMini:
		o.miniResult = nil
	}
}

func (o *Orchestrator) emitTransition(ctx context.Context, kind domain.GameKind, from, to domain.PlayState) {
	event.Emit(ctx, o.bus, event.PlayStateChanged, event.PlayStateChangedPayloadV1{Kind: kind, From: from, To: to})
}

func rejectReason(err error) string {
	if vErr, ok := err.(*domain.ValidationError); ok && vErr.Field == domain.FieldBet {
		return event.RejectReasonInvalidBet
	}
	return event.RejectReasonUnknownGame
}

// State returns the current state of kind
func (o *Orchestrator) State(kind domain.GameKind) domain.PlayState {
	o.mu.Lock()
	defer o.mu.Unlock()
	if st, ok := o.kinds[kind]; ok {
		return st.state
	}
	return domain.PlayStateIdle
}

// LastOutcome returns Succeeded or Failed for the last completed play of kind, Idle if none
func (o *Orchestrator) LastOutcome(kind domain.GameKind) domain.PlayState {
	o.mu.Lock()
	defer o.mu.Unlock()
	if st, ok := o.kinds[kind]; ok {
		return st.outcome
	}
	return domain.PlayStateIdle
}

// LastError returns the error of the last play of kind: the play failure, or the
// refresh failure of a successful play. Nil after a clean success.
func (o *Orchestrator) LastError(kind domain.GameKind) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if st, ok := o.kinds[kind]; ok {
		return st.err
	}
	return nil
}

// SlotResult returns the displayed slot result, nil when none
func (o *Orchestrator) SlotResult() *domain.SlotResult {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.slotResult == nil {
		return nil
	}
	r := *o.slotResult
	return &r
}

// MiniResult returns the displayed mini game result, nil when none
func (o *Orchestrator) MiniResult() *domain.MiniResult {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.miniResult == nil {
		return nil
	}
	r := *o.miniResult
	return &r
}

// Reset forgets results and errors. Plays still in flight complete without
// touching the cache or the displayed state.
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.generation++
	o.slotResult = nil
	o.miniResult = nil
	for _, st := range o.kinds {
		st.outcome = domain.PlayStateIdle
		st.err = nil
	}
}
