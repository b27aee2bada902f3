package play

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/osse101/CozyCasino_Go/internal/domain"
)

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) PlaySlot(ctx context.Context, req domain.SlotPlayRequest) (*domain.SlotResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SlotResult), args.Error(1)
}

func (m *MockGateway) PlayMini(ctx context.Context, req domain.MiniPlayRequest) (*domain.MiniResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MiniResult), args.Error(1)
}

func (m *MockGateway) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}
