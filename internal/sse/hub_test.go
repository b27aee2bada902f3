package sse

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilter_Match(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		event  Event
		want   bool
	}{
		{"empty filter matches all", NewFilter(nil, ""), Event{Type: "play.succeeded", UserID: "u1"}, true},
		{"type listed", NewFilter([]string{"play.failed", "play.succeeded"}, ""), Event{Type: "play.succeeded"}, true},
		{"type not listed", NewFilter([]string{"play.failed"}, ""), Event{Type: "play.succeeded"}, false},
		{"same user", NewFilter(nil, "u1"), Event{Type: "play.succeeded", UserID: "u1"}, true},
		{"other user", NewFilter(nil, "u1"), Event{Type: "play.succeeded", UserID: "u2"}, false},
		{"user filter skips anonymous events", NewFilter(nil, "u1"), Event{Type: "play.rejected"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Match(tt.event))
		})
	}
}

func TestHub_BroadcastRespectsFilters(t *testing.T) {
	hub := NewHub()
	hub.now = func() time.Time { return time.Unix(1700000000, 0) }

	all := hub.Register(NewFilter(nil, ""))
	mine := hub.Register(NewFilter(nil, "u1"))
	failures := hub.Register(NewFilter([]string{"play.failed"}, ""))
	assert.Equal(t, 3, hub.ClientCount())

	assert.Equal(t, 2, hub.Broadcast("play.succeeded", "u1", map[string]int{"win": 5}))

	e := <-all.Events()
	assert.Equal(t, "play.succeeded", e.Type)
	assert.Equal(t, "u1", e.UserID)
	assert.Equal(t, int64(1700000000), e.Timestamp)
	assert.NotEmpty(t, e.ID)

	e = <-mine.Events()
	assert.Equal(t, "play.succeeded", e.Type)
	assert.Empty(t, failures.Events())
}

func TestHub_SlowClientDropsEvents(t *testing.T) {
	hub := NewHub()
	c := hub.Register(Filter{})

	for i := 0; i < ClientEventBuffer+5; i++ {
		hub.Broadcast("play.state_changed", "", nil)
	}
	assert.Len(t, c.Events(), ClientEventBuffer)
	assert.Zero(t, hub.Broadcast("play.state_changed", "", nil))
}

func TestHub_UnregisterAndStop(t *testing.T) {
	hub := NewHub()
	a := hub.Register(Filter{})
	b := hub.Register(Filter{})

	hub.Unregister(a.ID)
	hub.Unregister(a.ID)
	_, open := <-a.Events()
	assert.False(t, open)
	assert.Equal(t, 1, hub.ClientCount())

	hub.Stop()
	hub.Stop()
	_, open = <-b.Events()
	assert.False(t, open)
	assert.Zero(t, hub.ClientCount())

	// Late clients get a closed channel
	late := hub.Register(Filter{})
	_, open = <-late.Events()
	assert.False(t, open)
	hub.Unregister(late.ID)
	assert.Zero(t, hub.Broadcast("play.failed", "", nil))
}

func TestFormatSSEMessage(t *testing.T) {
	msg, err := FormatSSEMessage(Event{ID: "abc", Type: "play.succeeded", Timestamp: 1, UserID: "u1", Payload: map[string]int{"win": 5}})
	require.NoError(t, err)

	lines := strings.Split(string(msg), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "id: abc", lines[0])
	assert.Equal(t, "event: play.succeeded", lines[1])
	assert.JSONEq(t, `{"id":"abc","type":"play.succeeded","timestamp":1,"user_id":"u1","payload":{"win":5}}`,
		strings.TrimPrefix(lines[2], "data: "))
	assert.Equal(t, "", lines[3])
	assert.Equal(t, "", lines[4])
}
