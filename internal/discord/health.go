package discord

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"
)

// HealthStatus represents the bot's health status
type HealthStatus struct {
	Status           string     `json:"status"`
	Uptime           string     `json:"uptime"`
	Connected        bool       `json:"connected"`
	CommandsReceived int64      `json:"commands_received"`
	LastCommandTime  *time.Time `json:"last_command_time,omitempty"`
	ActiveSessions   int        `json:"active_sessions"`
}

// Stats counts received commands
type Stats struct {
	startTime   time.Time
	commands    atomic.Int64
	lastCommand atomic.Int64 // unix nanoseconds
}

// NewStats starts the uptime clock
func NewStats() *Stats {
	return &Stats{startTime: time.Now()}
}

// RecordCommand increments the command counter
func (s *Stats) RecordCommand() {
	s.commands.Add(1)
	s.lastCommand.Store(time.Now().UnixNano())
}

// Health reports the bot's connection and usage
func (b *Bot) Health() HealthStatus {
	connected := b.Session != nil && b.Session.DataReady

	h := HealthStatus{
		Status:           "healthy",
		Uptime:           time.Since(b.stats.startTime).Round(time.Second).String(),
		Connected:        connected,
		CommandsReceived: b.stats.commands.Load(),
	}
	if !connected {
		h.Status = "degraded"
	}
	if last := b.stats.lastCommand.Load(); last > 0 {
		t := time.Unix(0, last)
		h.LastCommandTime = &t
	}
	if b.Players != nil {
		h.ActiveSessions = b.Players.Len()
	}
	return h
}

// HandleHealth serves Health as JSON, 503 while disconnected
func (b *Bot) HandleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		health := b.Health()
		w.Header().Set("Content-Type", "application/json")
		if !health.Connected {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		if err := json.NewEncoder(w).Encode(health); err != nil {
			slog.Error("Failed to encode health status", "error", err)
		}
	}
}
