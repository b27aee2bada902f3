package event

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/CozyCasino_Go/internal/domain"
)

func TestMemoryBus_PublishSubscribe(t *testing.T) {
	bus := NewMemoryBus()
	eventType := Type("test_event")
	handled := false

	bus.Subscribe(eventType, func(ctx context.Context, event Event) error {
		if event.Type != eventType {
			t.Errorf("Expected event type %s, got %s", eventType, event.Type)
		}
		if event.Payload.(string) != "payload" {
			t.Errorf("Expected payload 'payload', got %v", event.Payload)
		}
		handled = true
		return nil
	})

	err := bus.Publish(context.Background(), Event{
		Version: "1.0",
		Type:    eventType,
		Payload: "payload",
	})

	if err != nil {
		t.Errorf("Publish returned error: %v", err)
	}

	if !handled {
		t.Error("Handler was not called")
	}
}

func TestMemoryBus_PublishMultipleHandlers(t *testing.T) {
	bus := NewMemoryBus()
	eventType := Type("test_event")
	count := 0

	handler := func(ctx context.Context, event Event) error {
		count++
		return nil
	}

	bus.Subscribe(eventType, handler)
	bus.Subscribe(eventType, handler)

	err := bus.Publish(context.Background(), Event{Version: "1.0", Type: eventType})
	if err != nil {
		t.Errorf("Publish returned error: %v", err)
	}

	if count != 2 {
		t.Errorf("Expected 2 handlers to be called, got %d", count)
	}
}

func TestMemoryBus_PublishError(t *testing.T) {
	bus := NewMemoryBus()
	eventType := Type("test_event")

	bus.Subscribe(eventType, func(ctx context.Context, event Event) error {
		return errors.New("handler error")
	})

	err := bus.Publish(context.Background(), Event{Version: "1.0", Type: eventType})
	if err == nil {
		t.Error("Expected error from Publish, got nil")
	}
}

func TestMemoryBus_SubscribeDuringPublish(t *testing.T) {
	bus := NewMemoryBus()
	calls := 0

	bus.Subscribe(PlayFailed, func(ctx context.Context, event Event) error {
		calls++
		bus.Subscribe(PlayFailed, func(ctx context.Context, event Event) error {
			calls++
			return nil
		})
		return nil
	})

	require.NoError(t, bus.Publish(context.Background(), New(PlayFailed, nil)))
	assert.Equal(t, 1, calls, "handler added during publish must not run in the same publish")

	require.NoError(t, bus.Publish(context.Background(), New(PlayFailed, nil)))
	assert.Equal(t, 3, calls)
}

func TestDecodePayload(t *testing.T) {
	t.Run("typed payload", func(t *testing.T) {
		in := PlayStateChangedPayloadV1{Kind: domain.GameKindSlot, From: domain.PlayStateIdle, To: domain.PlayStateSubmitting}
		out, err := DecodePayload[PlayStateChangedPayloadV1](in)
		require.NoError(t, err)
		assert.Equal(t, in, out)
	})

	t.Run("map payload falls back to JSON", func(t *testing.T) {
		in := map[string]interface{}{"user_id": "user_1", "quests": 2, "events": 1}
		out, err := DecodePayload[MetaSyncedPayloadV1](in)
		require.NoError(t, err)
		assert.Equal(t, MetaSyncedPayloadV1{UserID: "user_1", Quests: 2, Events: 1}, out)
	})
}

func TestEmit(t *testing.T) {
	bus := NewMemoryBus()
	var got []Event

	SubscribeAll(bus, []Type{SessionEstablished, SessionCleared}, func(ctx context.Context, event Event) error {
		got = append(got, event)
		return errors.New("ignored")
	})

	Emit(context.Background(), bus, SessionEstablished, SessionPayloadV1{UserID: "user_1"})
	Emit(context.Background(), bus, SessionCleared, SessionPayloadV1{UserID: "user_1"})
	Emit(context.Background(), nil, SessionCleared, nil)

	require.Len(t, got, 2)
	assert.Equal(t, EventSchemaVersion, got[0].Version)
	assert.Equal(t, SessionEstablished, got[0].Type)
	assert.Equal(t, SessionCleared, got[1].Type)
}
