package sse

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/osse101/CozyCasino_Go/internal/event"
	"github.com/osse101/CozyCasino_Go/internal/logger"
)

// ForwardedTypes are the bus events pushed to stream clients
var ForwardedTypes = []event.Type{
	event.PlayStateChanged,
	event.PlaySucceeded,
	event.PlayFailed,
	event.PlayRejected,
	event.ProfileRefreshed,
	event.SessionEstablished,
	event.SessionCleared,
	event.MetaSynced,
	event.MetaSyncFailed,
}

// Subscriber bridges the internal event bus to the SSE hub
type Subscriber struct {
	hub *Hub
}

// NewSubscriber creates a new SSE subscriber
func NewSubscriber(hub *Hub) *Subscriber {
	return &Subscriber{hub: hub}
}

// Subscribe registers the bridge for ForwardedTypes
func (s *Subscriber) Subscribe(bus event.Bus) {
	event.SubscribeAll(bus, ForwardedTypes, s.handleEvent)
	slog.Info(LogMsgSubscriberReady, "types", ForwardedTypes)
}

// handleEvent forwards evt with the user_id of its payload, when it has one
func (s *Subscriber) handleEvent(ctx context.Context, evt event.Event) error {
	var owner struct {
		UserID string `json:"user_id"`
	}
	if data, err := json.Marshal(evt.Payload); err == nil {
		_ = json.Unmarshal(data, &owner)
	}

	n := s.hub.Broadcast(string(evt.Type), owner.UserID, evt.Payload)
	logger.FromContext(ctx).Debug(LogMsgEventBroadcast, "event_type", evt.Type, "user_id", owner.UserID, "clients", n)
	return nil
}
