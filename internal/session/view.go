package session

import (
	"time"

	"github.com/osse101/CozyCasino_Go/internal/domain"
)

// KindView is the display state of one game kind
type KindView struct {
	State      domain.PlayState   `json:"state"`
	Outcome    domain.PlayState   `json:"outcome"`
	SlotResult *domain.SlotResult `json:"slot_result,omitempty"`
	MiniResult *domain.MiniResult `json:"mini_result,omitempty"`
	Message    string             `json:"message,omitempty"`
}

// View is a point-in-time snapshot of a session for rendering
type View struct {
	Namespace string           `json:"namespace"`
	Identity  *domain.Identity `json:"identity,omitempty"`
	Profile   *domain.Profile  `json:"profile,omitempty"`
	Bet       int              `json:"bet"`
	Slot      KindView         `json:"slot"`
	Mini      KindView         `json:"mini"`
	Quests    []domain.Quest   `json:"quests"`
	Events    []domain.Event   `json:"events"`
	SyncedAt  *time.Time       `json:"synced_at,omitempty"`
	MetaError string           `json:"meta_error,omitempty"`
	Notice    string           `json:"notice,omitempty"`
}

// Snapshot returns the current view of the session
func (s *Session) Snapshot() View {
	s.mu.RLock()
	v := View{
		Namespace: s.namespace,
		Bet:       s.bet,
		Notice:    s.notice,
	}
	if !s.identity.IsZero() {
		id := s.identity
		v.Identity = &id
	}
	s.mu.RUnlock()

	if p, ok := s.cache.Get(); ok {
		v.Profile = &p
	}

	v.Slot = s.kindView(domain.GameKindSlot)
	v.Slot.SlotResult = s.orch.SlotResult()
	v.Mini = s.kindView(domain.GameKindMini)
	v.Mini.MiniResult = s.orch.MiniResult()

	meta := s.fetcher.Snapshot()
	v.Quests = meta.Quests
	v.Events = meta.Events
	if !meta.SyncedAt.IsZero() {
		at := meta.SyncedAt
		v.SyncedAt = &at
	}
	if s.fetcher.LastError() != nil {
		v.MetaError = domain.MsgMetaSyncFailed
	}
	return v
}

func (s *Session) kindView(kind domain.GameKind) KindView {
	kv := KindView{
		State:   s.orch.State(kind),
		Outcome: s.orch.LastOutcome(kind),
	}
	if err := s.orch.LastError(kind); err != nil {
		kv.Message = domain.PlayErrorMessage(err)
	}
	return kv
}
