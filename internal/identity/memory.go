package identity

import (
	"context"
	"sync"

	"github.com/osse101/CozyCasino_Go/internal/domain"
)

// MemoryStore keeps the identity in process memory
type MemoryStore struct {
	mu       sync.RWMutex
	identity domain.Identity
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(_ context.Context) (domain.Identity, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity, !s.identity.IsZero(), nil
}

func (s *MemoryStore) Save(_ context.Context, userID, displayName string) error {
	if err := validate(userID, displayName); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = domain.Identity{UserID: userID, DisplayName: displayName}
	return nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = domain.Identity{}
	return nil
}
