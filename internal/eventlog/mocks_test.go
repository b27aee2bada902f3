package eventlog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/osse101/CozyCasino_Go/internal/event"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) LogEvent(ctx context.Context, eventType, userID string, payload json.RawMessage) error {
	args := m.Called(ctx, eventType, userID, payload)
	return args.Error(0)
}

func (m *MockRepository) GetEventsByUser(ctx context.Context, userID string, limit int) ([]Entry, error) {
	args := m.Called(ctx, userID, limit)
	entries, _ := args.Get(0).([]Entry)
	return entries, args.Error(1)
}

func (m *MockRepository) CleanupOldEvents(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

type MockEventBus struct {
	mock.Mock
}

func (m *MockEventBus) Publish(ctx context.Context, evt event.Event) error {
	args := m.Called(ctx, evt)
	return args.Error(0)
}

func (m *MockEventBus) Subscribe(eventType event.Type, handler event.Handler) {
	m.Called(eventType, handler)
}
