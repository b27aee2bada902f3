// Package clienttest provides an in-process fake of the game backend for tests.
package clienttest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/osse101/CozyCasino_Go/internal/client"
	"github.com/osse101/CozyCasino_Go/internal/domain"
)

// Route keys used by FailWith, Block and Calls
const (
	RouteTest          = "GET /test"
	RouteGetProfile    = "GET /profiles/{user_id}"
	RouteCreateProfile = "POST /profiles"
	RouteQuests        = "GET /quests/{user_id}"
	RouteEvents        = "GET /events"
	RoutePlaySlot      = "POST /play/slot"
	RoutePlayMini      = "POST /play/mini"
)

// Backend is a stateful fake of the game backend.
// Slot plays cost the bet plus one energy and pay WinAmount; mini plays cost one energy
// and pay the coin reward.
type Backend struct {
	Server *httptest.Server
	Client *client.APIClient

	mu         sync.Mutex
	profiles   map[string]domain.Profile
	quests     map[string][]domain.Quest
	events     []domain.Event
	slotResult domain.SlotResult
	miniResult domain.MiniResult
	failures   map[string]int
	blocks     map[string]chan struct{}
	entered    map[string]chan struct{}
	calls      map[string]int
	slotBodies []domain.SlotPlayRequest
	created    []domain.Profile
}

// NewBackend starts a fake backend that is closed when the test ends
func NewBackend(t *testing.T) *Backend {
	t.Helper()

	b := &Backend{
		profiles:   make(map[string]domain.Profile),
		quests:     make(map[string][]domain.Quest),
		failures:   make(map[string]int),
		blocks:     make(map[string]chan struct{}),
		entered:    make(map[string]chan struct{}),
		calls:      make(map[string]int),
		slotResult: domain.SlotResult{Reels: [][]string{{"flower"}, {"flower"}, {"bee"}}, Outcome: "lose"},
		miniResult: domain.MiniResult{Success: true, Score: 0.5, Reward: domain.Reward{Amount: 5, Type: "coins"}},
	}

	mux := http.NewServeMux()
	mux.HandleFunc(RouteTest, b.wrap(RouteTest, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}))
	mux.HandleFunc(RouteGetProfile, b.wrap(RouteGetProfile, b.handleGetProfile))
	mux.HandleFunc(RouteCreateProfile, b.wrap(RouteCreateProfile, b.handleCreateProfile))
	mux.HandleFunc(RouteQuests, b.wrap(RouteQuests, b.handleQuests))
	mux.HandleFunc(RouteEvents, b.wrap(RouteEvents, func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		events := append([]domain.Event{}, b.events...)
		b.mu.Unlock()
		writeJSON(w, http.StatusOK, events)
	}))
	mux.HandleFunc(RoutePlaySlot, b.wrap(RoutePlaySlot, b.handlePlaySlot))
	mux.HandleFunc(RoutePlayMini, b.wrap(RoutePlayMini, b.handlePlayMini))

	b.Server = httptest.NewServer(mux)
	b.Client = client.NewAPIClient(b.Server.URL)

	t.Cleanup(func() {
		b.releaseAll()
		b.Server.Close()
	})

	return b
}

// SetProfile stores p as the authoritative profile for its user
func (b *Backend) SetProfile(p domain.Profile) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.profiles[p.UserID] = p
}

// Profile returns the authoritative profile for userID
func (b *Backend) Profile(userID string) (domain.Profile, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.profiles[userID]
	return p, ok
}

// SetQuests stores the quest list for userID
func (b *Backend) SetQuests(userID string, quests []domain.Quest) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.quests[userID] = quests
}

// SetEvents stores the active events
func (b *Backend) SetEvents(events []domain.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = events
}

// SetSlotResult sets the result returned by every slot play
func (b *Backend) SetSlotResult(r domain.SlotResult) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.slotResult = r
}

// SetMiniResult sets the result returned by every mini play
func (b *Backend) SetMiniResult(r domain.MiniResult) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.miniResult = r
}

// FailWith makes route answer status with a FastAPI style detail body. Status 0 clears it.
func (b *Backend) FailWith(route string, status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if status == 0 {
		delete(b.failures, route)
		return
	}
	b.failures[route] = status
}

// Block holds every request to route until the returned release func is called.
// Entered returns a channel that receives once per request reaching the block.
func (b *Backend) Block(route string) (release func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(chan struct{})
	b.blocks[route] = ch
	b.entered[route] = make(chan struct{}, 16)
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.blocks[route] == ch {
			delete(b.blocks, route)
			close(ch)
		}
	}
}

// Entered signals each request that reached a Block on route
func (b *Backend) Entered(route string) <-chan struct{} {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.entered[route]
}

// Calls returns how many requests route has received
func (b *Backend) Calls(route string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[route]
}

// SlotRequests returns the bodies of every slot play received
func (b *Backend) SlotRequests() []domain.SlotPlayRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]domain.SlotPlayRequest{}, b.slotBodies...)
}

// CreatedProfiles returns the bodies of every profile creation received
func (b *Backend) CreatedProfiles() []domain.Profile {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]domain.Profile{}, b.created...)
}

func (b *Backend) wrap(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.calls[route]++
		block := b.blocks[route]
		entered := b.entered[route]
		b.mu.Unlock()

		if block != nil {
			select {
			case entered <- struct{}{}:
			default:
			}
			select {
			case <-block:
			case <-r.Context().Done():
				return
			}
		}

		b.mu.Lock()
		status := b.failures[route]
		b.mu.Unlock()
		if status != 0 {
			writeJSON(w, status, map[string]string{"detail": http.StatusText(status)})
			return
		}

		next(w, r)
	}
}

func (b *Backend) releaseAll() {
	b.mu.Lock()
	blocks := b.blocks
	b.blocks = make(map[string]chan struct{})
	b.mu.Unlock()
	for _, ch := range blocks {
		close(ch)
	}
}

func (b *Backend) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	p, ok := b.Profile(r.PathValue("user_id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Profile not found"})
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (b *Backend) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	var p domain.Profile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": err.Error()})
		return
	}

	b.mu.Lock()
	b.created = append(b.created, p)
	b.profiles[p.UserID] = p
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, p)
}

func (b *Backend) handleQuests(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	quests := append([]domain.Quest{}, b.quests[r.PathValue("user_id")]...)
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, quests)
}

func (b *Backend) handlePlaySlot(w http.ResponseWriter, r *http.Request) {
	var req domain.SlotPlayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": err.Error()})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.slotBodies = append(b.slotBodies, req)

	p, ok := b.profiles[req.UserID]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Profile not found"})
		return
	}
	if p.Currencies.Energy < 1 || p.Currencies.Coins < req.Bet {
		writeJSON(w, http.StatusPaymentRequired, map[string]string{"detail": "Not enough energy or coins"})
		return
	}
	p.Currencies.Energy--
	p.Currencies.Coins += b.slotResult.WinAmount - req.Bet
	b.profiles[req.UserID] = p

	writeJSON(w, http.StatusOK, b.slotResult)
}

func (b *Backend) handlePlayMini(w http.ResponseWriter, r *http.Request) {
	var req domain.MiniPlayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": err.Error()})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	p, ok := b.profiles[req.UserID]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Profile not found"})
		return
	}
	if p.Currencies.Energy < 1 {
		writeJSON(w, http.StatusPaymentRequired, map[string]string{"detail": "Not enough energy"})
		return
	}
	p.Currencies.Energy--
	if b.miniResult.Success && b.miniResult.Reward.Type == "coins" {
		p.Currencies.Coins += b.miniResult.Reward.Amount
	}
	b.profiles[req.UserID] = p

	writeJSON(w, http.StatusOK, b.miniResult)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
