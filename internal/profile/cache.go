package profile

import (
	"sync"

	"github.com/osse101/CozyCasino_Go/internal/domain"
)

// Ticket is a sequence number reserved before a profile fetch is issued
type Ticket uint64

// Cache holds the most recent authoritative profile.
// Every write is a full replace, and responses are ordered by the ticket
// reserved before their request was sent rather than by arrival.
type Cache struct {
	mu      sync.RWMutex
	profile *domain.Profile
	next    uint64 // last ticket handed out
	applied uint64 // ticket of the stored profile
}

// NewCache creates an empty cache
func NewCache() *Cache {
	return &Cache{}
}

// Get returns a copy of the cached profile
func (c *Cache) Get() (domain.Profile, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.profile == nil {
		return domain.Profile{}, false
	}
	return *c.profile, true
}

// UserID returns the user of the cached profile, or "" when empty
func (c *Cache) UserID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.profile == nil {
		return ""
	}
	return c.profile.UserID
}

// Begin reserves a ticket for a fetch about to be issued
func (c *Cache) Begin() Ticket {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.next++
	return Ticket(c.next)
}

// Apply stores p if ticket is newer than the ticket of the stored profile.
// It reports false when the response is stale and was discarded.
func (c *Cache) Apply(ticket Ticket, p domain.Profile) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if uint64(ticket) <= c.applied {
		return false
	}
	c.applied = uint64(ticket)
	c.profile = &p
	return true
}

// ApplyRefresh stores p like Apply, but only over a cached profile of the same user.
// A refresh started for a user who has since logged out or been replaced is discarded.
func (c *Cache) ApplyRefresh(ticket Ticket, p domain.Profile) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.profile == nil || c.profile.UserID != p.UserID || uint64(ticket) <= c.applied {
		return false
	}
	c.applied = uint64(ticket)
	c.profile = &p
	return true
}

// Replace unconditionally stores p, superseding any outstanding ticket
func (c *Cache) Replace(p domain.Profile) {
	c.Apply(c.Begin(), p)
}

// Clear empties the cache and invalidates every outstanding ticket
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.profile = nil
	c.applied = c.next
}

// Version returns the ticket of the stored profile
func (c *Cache) Version() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.applied
}
