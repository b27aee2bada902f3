package session

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/CozyCasino_Go/internal/metrics"
)

// Factory builds the session of namespace
type Factory func(ctx context.Context, namespace string) (*Session, error)

// Registry holds the sessions of a multi-user front-end in an LRU cache
// with time-based expiration. An evicted session is rebuilt from its saved
// identity the next time it is requested.
type Registry struct {
	mu      sync.Mutex
	lru     *expirable.LRU[string, *Session]
	factory Factory
}

// NewRegistry creates a registry of at most size sessions. A session expires
// ttl after it was last returned by Get.
func NewRegistry(size int, ttl time.Duration, factory Factory) *Registry {
	return &Registry{
		lru: expirable.NewLRU[string, *Session](size, func(string, *Session) {
			metrics.ActiveSessions.Dec()
		}, ttl),
		factory: factory,
	}
}

// Get returns the session of namespace, building it when absent.
// created reports whether the session was just built and still needs Start.
func (r *Registry) Get(ctx context.Context, namespace string) (s *Session, created bool, err error) {
	r.mu.Lock()
	if s, ok := r.lru.Get(namespace); ok {
		// expirable.LRU counts ttl from Add, so re-adding restarts it
		r.lru.Add(namespace, s)
		r.mu.Unlock()
		return s, false, nil
	}

	s, err = r.factory(ctx, namespace)
	if err != nil {
		r.mu.Unlock()
		return nil, false, err
	}
	r.lru.Add(namespace, s)
	metrics.ActiveSessions.Inc()
	r.mu.Unlock()

	return s, true, nil
}

// Peek returns the session of namespace without creating it
func (r *Registry) Peek(namespace string) (*Session, bool) {
	return r.lru.Peek(namespace)
}

// Remove drops the session of namespace
func (r *Registry) Remove(namespace string) {
	r.lru.Remove(namespace)
}

// Len returns the number of live sessions
func (r *Registry) Len() int {
	return r.lru.Len()
}

// Sessions returns the live sessions, oldest first
func (r *Registry) Sessions() []*Session {
	return r.lru.Values()
}
