package event

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/osse101/CozyCasino_Go/internal/domain"
	"github.com/osse101/CozyCasino_Go/internal/logger"
)

// Type represents the type of an event
type Type string

// Event represents a generic event in the system
type Event struct {
	Version string      `json:"version"` // Event schema version (e.g., "1.0")
	Type    Type        `json:"type"`
	Payload interface{} `json:"payload"`
}

// New creates an event with the current schema version
func New(t Type, payload interface{}) Event {
	return Event{Version: EventSchemaVersion, Type: t, Payload: payload}
}

// Session and play event types
const (
	PlayStateChanged       Type = "play.state_changed"
	PlaySucceeded          Type = "play.succeeded"
	PlayFailed             Type = "play.failed"
	PlayRejected           Type = "play.rejected"
	ProfileRefreshed       Type = "profile.refreshed"
	ProfileRefreshFailed   Type = "profile.refresh_failed"
	StaleResponseDiscarded Type = "sync.stale_discarded"
	SessionEstablished     Type = "session.established"
	SessionCleared         Type = "session.cleared"
	OnboardingCompleted    Type = "onboarding.completed"
	OnboardingFailed       Type = "onboarding.failed"
	MetaSynced             Type = "meta.synced"
	MetaSyncFailed         Type = "meta.sync_failed"
)

// AllTypes lists every event type published by the client
var AllTypes = []Type{
	PlayStateChanged,
	PlaySucceeded,
	PlayFailed,
	PlayRejected,
	ProfileRefreshed,
	ProfileRefreshFailed,
	StaleResponseDiscarded,
	SessionEstablished,
	SessionCleared,
	OnboardingCompleted,
	OnboardingFailed,
	MetaSynced,
	MetaSyncFailed,
}

// Typed event payloads for type safety

// PlayStateChangedPayloadV1 is published on every play state transition
type PlayStateChangedPayloadV1 struct {
	Kind domain.GameKind  `json:"kind"`
	From domain.PlayState `json:"from"`
	To   domain.PlayState `json:"to"`
}

// PlaySucceededPayloadV1 carries the result of a successful play
type PlaySucceededPayloadV1 struct {
	Kind   domain.GameKind    `json:"kind"`
	UserID string             `json:"user_id"`
	Slot   *domain.SlotResult `json:"slot,omitempty"`
	Mini   *domain.MiniResult `json:"mini,omitempty"`
}

// PlayFailedPayloadV1 describes a play the backend refused or never answered
type PlayFailedPayloadV1 struct {
	Kind    domain.GameKind `json:"kind"`
	UserID  string          `json:"user_id"`
	Status  int             `json:"status,omitempty"` // 0 for transport failures
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

// PlayRejectedPayloadV1 describes a play blocked by a client-side guard
type PlayRejectedPayloadV1 struct {
	Kind   domain.GameKind `json:"kind"`
	Reason string          `json:"reason"`
}

// ProfileRefreshedPayloadV1 is published when a fetched profile was applied to the cache
type ProfileRefreshedPayloadV1 struct {
	UserID  string `json:"user_id"`
	Version uint64 `json:"version"`
	Source  string `json:"source"`
}

// ProfileRefreshFailedPayloadV1 is published when a profile fetch failed
type ProfileRefreshFailedPayloadV1 struct {
	UserID string `json:"user_id"`
	Source string `json:"source"`
	Error  string `json:"error"`
}

// StaleResponseDiscardedPayloadV1 is published when a late response lost to a newer one
type StaleResponseDiscardedPayloadV1 struct {
	Resource string `json:"resource"`
	UserID   string `json:"user_id"`
	Ticket   uint64 `json:"ticket"`
}

// SessionPayloadV1 identifies the session an event refers to
type SessionPayloadV1 struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
}

// OnboardingFailedPayloadV1 describes why a profile could not be created
type OnboardingFailedPayloadV1 struct {
	UserID string `json:"user_id"`
	Error  string `json:"error"`
}

// MetaSyncedPayloadV1 summarizes a quest/event sync
type MetaSyncedPayloadV1 struct {
	UserID string `json:"user_id"`
	Quests int    `json:"quests"`
	Events int    `json:"events"`
}

// MetaSyncFailedPayloadV1 describes a failed quest/event sync
type MetaSyncFailedPayloadV1 struct {
	UserID string `json:"user_id"`
	Error  string `json:"error"`
}

// DecodePayload decodes an event payload into T via type assertion then JSON fallback.
// Events published on the MemoryBus already carry the concrete struct.
func DecodePayload[T any](input interface{}) (T, error) {
	if v, ok := input.(T); ok {
		return v, nil
	}
	var result T
	data, err := json.Marshal(input)
	if err != nil {
		return result, err
	}
	return result, json.Unmarshal(data, &result)
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish publishes an event to all subscribers.
// Handlers run synchronously on the caller's goroutine.
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers[event.Type]...)
	b.mu.RUnlock()

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}

	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// SubscribeAll subscribes handler to every type in types
func SubscribeAll(bus Bus, types []Type, handler Handler) {
	for _, t := range types {
		bus.Subscribe(t, handler)
	}
}

// Emit publishes on bus and logs handler failures instead of returning them.
// A nil bus is ignored.
func Emit(ctx context.Context, bus Bus, t Type, payload interface{}) {
	if bus == nil {
		return
	}
	if err := bus.Publish(ctx, New(t, payload)); err != nil {
		logger.FromContext(ctx).Warn(LogMsgPublishFailed, "type", t, "error", err)
	}
}
