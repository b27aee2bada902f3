package eventlog

import (
	"context"
	"encoding/json"
	"time"
)

// Entry is a journaled event
type Entry struct {
	ID        int64           `json:"id"`
	EventType string          `json:"event_type"`
	UserID    string          `json:"user_id,omitempty"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

// Repository defines the interface for event journal storage
type Repository interface {
	// LogEvent stores an event. An empty userID is stored as NULL.
	LogEvent(ctx context.Context, eventType, userID string, payload json.RawMessage) error

	// GetEventsByUser returns the newest events of userID first
	GetEventsByUser(ctx context.Context, userID string, limit int) ([]Entry, error)

	// CleanupOldEvents removes events created before cutoff
	CleanupOldEvents(ctx context.Context, cutoff time.Time) (int64, error)
}
