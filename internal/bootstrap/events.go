package bootstrap

import (
	"log/slog"

	"github.com/osse101/CozyCasino_Go/internal/event"
	"github.com/osse101/CozyCasino_Go/internal/sse"
)

// InitializeEventSystem creates the in-process event bus shared by sessions and subscribers
func InitializeEventSystem() event.Bus {
	bus := event.NewMemoryBus()
	slog.Info(LogMsgEventSystemInitialized)
	return bus
}

// InitializeEventStream creates the SSE hub served on the status server and bridges bus events into it
func InitializeEventStream(bus event.Bus) *sse.Hub {
	hub := sse.NewHub()
	sse.NewSubscriber(hub).Subscribe(bus)
	return hub
}
