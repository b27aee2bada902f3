package sse

import "time"

// Buffer sizes
const (
	// ClientEventBuffer is the buffer size for each client's event channel.
	// A client that falls this far behind misses events.
	ClientEventBuffer = 64
)

// SSE connection settings
const (
	// KeepaliveInterval is how often to send keepalive pings
	KeepaliveInterval = 30 * time.Second

	// Route is where the status server mounts the stream
	Route = "/events"
)

// Query parameters of the stream
const (
	QueryTypes  = "types"
	QueryUserID = "user_id"
)

// Stream-only event types
const (
	EventTypeConnected = "connected"
	EventTypeKeepalive = "keepalive"
)

// Log messages
const (
	LogMsgClientConnected    = "SSE client connected"
	LogMsgClientDisconnected = "SSE client disconnected"
	LogMsgEventBroadcast     = "Broadcasting SSE event"
	LogMsgWriteError         = "Failed to write SSE event"
	LogMsgSubscriberReady    = "SSE subscriber registered for event types"
	LogMsgStreamUnsupported  = "SSE not supported"
)
