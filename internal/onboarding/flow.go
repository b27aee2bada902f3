// Package onboarding creates the player's profile and establishes the session.
package onboarding

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/osse101/CozyCasino_Go/internal/domain"
	"github.com/osse101/CozyCasino_Go/internal/event"
	"github.com/osse101/CozyCasino_Go/internal/identity"
	"github.com/osse101/CozyCasino_Go/internal/logger"
	"github.com/osse101/CozyCasino_Go/internal/profile"
	"github.com/osse101/CozyCasino_Go/internal/quest"
	"github.com/osse101/CozyCasino_Go/internal/validation"
)

// Log messages
const (
	LogMsgOnboardingFailed    = "Onboarding failed"
	LogMsgOnboardingCompleted = "Onboarding completed"
	LogMsgMetaSyncFailed      = "Initial quest/event sync failed after onboarding"
)

// Gateway is the subset of the backend API used for onboarding
type Gateway interface {
	CreateProfile(ctx context.Context, p domain.Profile) (*domain.Profile, error)
}

// MetaSyncer refreshes quests and events once the profile exists
type MetaSyncer interface {
	Sync(ctx context.Context, userID string) (quest.Snapshot, error)
}

// Request is the onboarding form
type Request struct {
	UserID      string `json:"user_id" validate:"required,max=128"`
	DisplayName string `json:"display_name" validate:"required,max=64"`
}

// Resetter drops play state tied to the previous identity
type Resetter interface {
	Reset()
}

// Flow submits the onboarding form. A failed submission commits nothing.
type Flow struct {
	gateway  Gateway
	identity identity.Store
	cache    *profile.Cache
	meta     MetaSyncer
	plays    Resetter
	bus      event.Bus
}

// NewFlow creates an onboarding flow. meta and bus may be nil.
func NewFlow(gateway Gateway, store identity.Store, cache *profile.Cache, meta MetaSyncer, bus event.Bus) *Flow {
	return &Flow{
		gateway:  gateway,
		identity: store,
		cache:    cache,
		meta:     meta,
		bus:      bus,
	}
}

// WithResetter makes Submit reset plays before the new profile is cached,
// so a play of the previous user cannot write the cache afterwards.
func (f *Flow) WithResetter(plays Resetter) *Flow {
	f.plays = plays
	return f
}

// SuggestUserID returns a random user ID to pre-fill the form
func SuggestUserID() string {
	return uuid.NewString()
}

// Submit creates a default profile for userID and, once the server accepted it,
// stores the identity, replaces the cached profile and syncs quests and events.
func (f *Flow) Submit(ctx context.Context, userID, displayName string) (*domain.Profile, error) {
	log := logger.FromContext(ctx)
	req := Request{UserID: strings.TrimSpace(userID), DisplayName: strings.TrimSpace(displayName)}

	if err := validation.Get().Struct(req); err != nil {
		return nil, f.fail(ctx, req.UserID, err)
	}

	created, err := f.gateway.CreateProfile(ctx, domain.NewDefaultProfile(req.UserID, req.DisplayName))
	if err != nil {
		return nil, f.fail(ctx, req.UserID, err)
	}
	if created == nil || strings.TrimSpace(created.UserID) == "" {
		return nil, f.fail(ctx, req.UserID, fmt.Errorf("%w: created profile has no user_id", domain.ErrInvalidResponse))
	}
	if strings.TrimSpace(created.DisplayName) == "" {
		created.DisplayName = req.DisplayName
	}

	if err := f.identity.Save(ctx, created.UserID, created.DisplayName); err != nil {
		return nil, f.fail(ctx, req.UserID, fmt.Errorf("save identity: %w", err))
	}
	if f.plays != nil {
		f.plays.Reset()
	}
	f.cache.Replace(*created)

	log.Info(LogMsgOnboardingCompleted, "user_id", created.UserID, "display_name", created.DisplayName)
	event.Emit(ctx, f.bus, event.OnboardingCompleted, event.SessionPayloadV1{
		UserID: created.UserID, DisplayName: created.DisplayName,
	})
	event.Emit(ctx, f.bus, event.ProfileRefreshed, event.ProfileRefreshedPayloadV1{
		UserID: created.UserID, Version: f.cache.Version(), Source: event.SourceOnboarding,
	})

	if f.meta != nil {
		if _, err := f.meta.Sync(ctx, created.UserID); err != nil {
			log.Warn(LogMsgMetaSyncFailed, "user_id", created.UserID, "error", err)
		}
	}

	p := *created
	return &p, nil
}

func (f *Flow) fail(ctx context.Context, userID string, err error) error {
	logger.FromContext(ctx).Warn(LogMsgOnboardingFailed, "user_id", userID, "error", err)
	event.Emit(ctx, f.bus, event.OnboardingFailed, event.OnboardingFailedPayloadV1{UserID: userID, Error: err.Error()})
	return err
}
