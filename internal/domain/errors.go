package domain

import (
	"errors"
	"fmt"
)

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Session errors
	ErrMsgNoSession       = "no active session"
	ErrMsgProfileMismatch = "profile does not belong to the active identity"

	// Play errors
	ErrMsgPlayInFlight    = "a play is already in flight for this game"
	ErrMsgProfileRefresh  = "profile refresh failed"
	ErrMsgInvalidResponse = "invalid response from backend"

	// Transport errors
	ErrMsgTransport = "backend unreachable"
	ErrMsgHTTP      = "backend returned an error status"

	// Input errors
	ErrMsgInvalidInput = "invalid input"
)

// Common domain errors
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	ErrNoSession       = errors.New(ErrMsgNoSession)
	ErrProfileMismatch = errors.New(ErrMsgProfileMismatch)

	ErrPlayInFlight    = errors.New(ErrMsgPlayInFlight)
	ErrProfileRefresh  = errors.New(ErrMsgProfileRefresh)
	ErrInvalidResponse = errors.New(ErrMsgInvalidResponse)

	// Matched by the concrete errors of the API client
	ErrTransport = errors.New(ErrMsgTransport)
	ErrHTTP      = errors.New(ErrMsgHTTP)

	ErrInvalidInput = errors.New(ErrMsgInvalidInput)
)

// ValidationError is a client-side guard failure. Nothing was sent to the backend.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrMsgInvalidInput, e.Field, e.Reason)
}

// Is lets errors.Is(err, ErrInvalidInput) match any ValidationError
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a ValidationError for field
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// User-facing messages
const (
	MsgProfileLoadFailed    = "Unable to load profile. Please complete onboarding."
	MsgOnboardingFailed     = "Failed to create profile. Try again."
	MsgPlayFailed           = "Not enough energy or server error."
	MsgNoSession            = "Create your profile to start playing."
	MsgPlayInFlight         = "Hold on, that game is still running."
	MsgInvalidBet           = "Pick a bet of 10, 20, 50 or 100."
	MsgUnknownGame          = "That game is not in the lobby."
	MsgProfileRefreshFailed = "Your result stands, but your balance could not be refreshed yet."
	MsgMetaSyncFailed       = "Quests and events are unavailable right now."
)

// Validation fields used by the play and onboarding guards
const (
	FieldBet         = "bet"
	FieldTheme       = "theme"
	FieldGame        = "game"
	FieldUserID      = "user_id"
	FieldDisplayName = "display_name"
)

// PlayErrorMessage maps an error returned by a play call to the text shown to the player
func PlayErrorMessage(err error) string {
	var vErr *ValidationError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNoSession):
		return MsgNoSession
	case errors.Is(err, ErrPlayInFlight):
		return MsgPlayInFlight
	case errors.As(err, &vErr):
		if vErr.Field == FieldBet {
			return MsgInvalidBet
		}
		return MsgUnknownGame
	case errors.Is(err, ErrProfileRefresh):
		return MsgProfileRefreshFailed
	default:
		return MsgPlayFailed
	}
}
