package sse

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event is a message sent over SSE
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Timestamp int64       `json:"timestamp"`
	UserID    string      `json:"user_id,omitempty"`
	Payload   interface{} `json:"payload"`
}

// Filter selects the events a client receives
type Filter struct {
	Types  map[string]bool // nil means every type
	UserID string          // empty means every player; set, events without a user are skipped
}

// NewFilter builds a filter from a type list and a user ID
func NewFilter(types []string, userID string) Filter {
	f := Filter{UserID: userID}
	if len(types) > 0 {
		f.Types = make(map[string]bool, len(types))
		for _, t := range types {
			f.Types[t] = true
		}
	}
	return f
}

// Match reports whether e passes the filter
func (f Filter) Match(e Event) bool {
	if f.Types != nil && !f.Types[e.Type] {
		return false
	}
	return f.UserID == "" || f.UserID == e.UserID
}

// Client is a connected SSE client
type Client struct {
	ID     string
	events chan Event
	filter Filter
}

// Events is closed when the client is unregistered or the hub stops
func (c *Client) Events() <-chan Event {
	return c.events
}

// Hub fans events out to connected clients
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	closed  bool
	now     func() time.Time
}

// NewHub creates a new SSE Hub
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		now:     time.Now,
	}
}

// Register adds a client. After Stop the returned client's channel is already closed.
func (h *Hub) Register(filter Filter) *Client {
	c := &Client{
		ID:     uuid.New().String(),
		events: make(chan Event, ClientEventBuffer),
		filter: filter,
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(c.events)
		return c
	}
	h.clients[c.ID] = c
	return c
}

// Unregister removes a client and closes its channel
func (h *Hub) Unregister(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clients[clientID]; ok {
		close(c.events)
		delete(h.clients, clientID)
	}
}

// Broadcast sends an event to every matching client without blocking.
// It returns the number of clients that received it.
func (h *Hub) Broadcast(eventType, userID string, payload interface{}) int {
	e := Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: h.now().Unix(),
		UserID:    userID,
		Payload:   payload,
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for _, c := range h.clients {
		if !c.filter.Match(e) {
			continue
		}
		select {
		case c.events <- e:
			delivered++
		default:
			// Client buffer full, skip this event
		}
	}
	return delivered
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Stop disconnects every client. Safe to call more than once.
func (h *Hub) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, c := range h.clients {
		close(c.events)
		delete(h.clients, id)
	}
}

// FormatSSEMessage formats an event for transmission:
// "id: <id>\nevent: <type>\ndata: <json>\n\n"
func FormatSSEMessage(e Event) ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	return []byte(fmt.Sprintf("id: %s\nevent: %s\ndata: %s\n\n", e.ID, e.Type, data)), nil
}
