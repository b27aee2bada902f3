package eventlog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/osse101/CozyCasino_Go/internal/event"
	"github.com/osse101/CozyCasino_Go/internal/logger"
)

// Service handles event journal business logic
type Service interface {
	// Subscribe registers the journal on the bus for LoggedTypes
	Subscribe(bus event.Bus)

	// Recent returns the newest entries of userID, newest first
	Recent(ctx context.Context, userID string, limit int) ([]Entry, error)

	// CleanupOldEvents removes entries older than retention
	CleanupOldEvents(ctx context.Context, retention time.Duration) (int64, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates a new event journal service
func NewService(repo Repository) Service {
	return &service{repo: repo, now: time.Now}
}

func (s *service) Subscribe(bus event.Bus) {
	event.SubscribeAll(bus, LoggedTypes, s.handleEvent)
}

// handleEvent stores the payload as JSON keyed by its user_id
func (s *service) handleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	payload, err := json.Marshal(evt.Payload)
	if err != nil {
		log.Error(LogMsgFailedToLogEvent, LogFieldError, err, LogFieldType, evt.Type)
		return err
	}

	var fields map[string]any
	_ = json.Unmarshal(payload, &fields)
	userID, _ := fields[PayloadKeyUserID].(string)

	if err := s.repo.LogEvent(ctx, string(evt.Type), userID, payload); err != nil {
		log.Error(LogMsgFailedToLogEvent, LogFieldError, err, LogFieldType, evt.Type)
		return err
	}

	log.Debug(LogMsgEventLogged, LogFieldType, evt.Type, LogFieldUserID, userID)
	return nil
}

func (s *service) Recent(ctx context.Context, userID string, limit int) ([]Entry, error) {
	if userID == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return s.repo.GetEventsByUser(ctx, userID, min(limit, MaxHistoryLimit))
}

func (s *service) CleanupOldEvents(ctx context.Context, retention time.Duration) (int64, error) {
	return s.repo.CleanupOldEvents(ctx, s.now().Add(-retention))
}
