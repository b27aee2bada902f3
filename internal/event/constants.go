package event

// Event schema versioning
const (
	// EventSchemaVersion is the current event schema version
	EventSchemaVersion = "1.0"
)

// Log message constants
const (
	// Log message for handler errors
	LogMsgHandlerErrorFormat = "encountered %d errors while handling event %s: %v"
	LogMsgPublishFailed      = "Event handlers reported errors"
)

// Play rejection reasons
const (
	RejectReasonNoSession   = "no_session"
	RejectReasonInFlight    = "in_flight"
	RejectReasonInvalidBet  = "invalid_bet"
	RejectReasonUnknownGame = "unknown_game"
)

// Resources guarded by sequence numbers
const (
	ResourceProfile = "profile"
	ResourceMeta    = "meta"
)

// Profile refresh sources
const (
	SourceSessionStart = "session_start"
	SourcePlay         = "play"
	SourceManual       = "manual"
	SourceOnboarding   = "onboarding"
)
