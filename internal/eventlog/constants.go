package eventlog

import (
	"time"

	"github.com/osse101/CozyCasino_Go/internal/event"
)

// LoggedTypes are the event types written to the journal
var LoggedTypes = []event.Type{
	event.PlaySucceeded,
	event.PlayFailed,
	event.OnboardingCompleted,
	event.SessionCleared,
}

// Defaults
const (
	DefaultHistoryLimit = 10
	MaxHistoryLimit     = 100
	DefaultRetention    = 30 * 24 * time.Hour
)

// JSON payload field keys
const (
	PayloadKeyUserID = "user_id"
)

// Log messages - service events
const (
	LogMsgFailedToLogEvent = "Failed to log event to journal"
	LogMsgEventLogged      = "Event logged to journal"
)

// Log messages - cleanup job
const (
	LogMsgCleanupJobStarting  = "Starting event log cleanup job"
	LogMsgCleanupJobFailed    = "Event log cleanup failed"
	LogMsgCleanupJobCompleted = "Event log cleanup completed"
	LogMsgCleanupDisabled     = "Event log retention disabled, cleanup skipped"
)

// Log field keys
const (
	LogFieldType         = "type"
	LogFieldUserID       = "user_id"
	LogFieldError        = "error"
	LogFieldRetention    = "retention"
	LogFieldDuration     = "duration"
	LogFieldDeletedCount = "deletedCount"
)
