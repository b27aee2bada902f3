package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/osse101/CozyCasino_Go/internal/client/clienttest"
	"github.com/osse101/CozyCasino_Go/internal/event"
	"github.com/osse101/CozyCasino_Go/internal/eventlog"
	"github.com/osse101/CozyCasino_Go/internal/identity"
	"github.com/osse101/CozyCasino_Go/internal/session"
)

// MockRoundTripper implements http.RoundTripper for intercepting requests
type MockRoundTripper struct {
	RoundTripFunc func(req *http.Request) (*http.Response, error)
}

func (m *MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return m.RoundTripFunc(req)
}

// CapturedRequest is a Discord API call made by a handler
type CapturedRequest struct {
	Method string
	Path   string
	Body   []byte
}

// TestContext wires a fake backend, per-user sessions and a Discord session
// whose API calls are captured instead of sent.
type TestContext struct {
	Backend      *clienttest.Backend
	Players      *PlayerDirectory
	Stores       map[string]*identity.MemoryStore
	Journal      eventlog.Service
	Session      *discordgo.Session
	DiscordMocks *MockRoundTripper

	mu       sync.Mutex
	requests []CapturedRequest
}

// SetupTestContext builds a TestContext whose identity stores survive session eviction
func SetupTestContext(t *testing.T) *TestContext {
	t.Helper()

	tc := &TestContext{
		Backend: clienttest.NewBackend(t),
		Stores:  make(map[string]*identity.MemoryStore),
	}

	db, err := identity.Open(context.Background(), filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("Failed to open journal: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	bus := event.NewMemoryBus()
	tc.Journal = eventlog.NewService(eventlog.NewSQLiteRepository(db.DB()))
	tc.Journal.Subscribe(bus)

	registry := session.NewRegistry(16, time.Minute, func(_ context.Context, namespace string) (*session.Session, error) {
		tc.mu.Lock()
		store, ok := tc.Stores[namespace]
		if !ok {
			store = identity.NewMemoryStore()
			tc.Stores[namespace] = store
		}
		tc.mu.Unlock()
		s := session.New(namespace, tc.Backend.Client, store, bus)
		t.Cleanup(s.Close)
		return s, nil
	})
	tc.Players = NewPlayerDirectory(registry)

	s, err := discordgo.New("Bot test-token")
	if err != nil {
		t.Fatalf("Failed to create mock session: %v", err)
	}
	tc.DiscordMocks = &MockRoundTripper{
		RoundTripFunc: func(req *http.Request) (*http.Response, error) {
			var body []byte
			if req.Body != nil {
				body, _ = io.ReadAll(req.Body)
			}
			tc.mu.Lock()
			tc.requests = append(tc.requests, CapturedRequest{Method: req.Method, Path: req.URL.Path, Body: body})
			tc.mu.Unlock()

			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(bytes.NewBufferString("{}")),
				Header:     make(http.Header),
				Request:    req,
			}, nil
		},
	}
	s.Client = &http.Client{Transport: tc.DiscordMocks}
	tc.Session = s

	return tc
}

// Store returns the identity store of a Discord user
func (tc *TestContext) Store(discordUserID string) *identity.MemoryStore {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	ns := identity.DiscordNamespace(discordUserID)
	store, ok := tc.Stores[ns]
	if !ok {
		store = identity.NewMemoryStore()
		tc.Stores[ns] = store
	}
	return store
}

// Interaction builds a slash command interaction from a guild member
func Interaction(discordUserID, command string, options ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			ID:     "interaction-" + discordUserID,
			AppID:  "app-id",
			Token:  "token-" + discordUserID,
			Type:   discordgo.InteractionApplicationCommand,
			Member: &discordgo.Member{User: &discordgo.User{ID: discordUserID, Username: "player" + discordUserID}},
			Data: discordgo.ApplicationCommandInteractionData{
				Name:    command,
				Options: options,
			},
		},
	}
}

// StringOpt builds a string option
func StringOpt(name, value string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{Name: name, Type: discordgo.ApplicationCommandOptionString, Value: value}
}

// IntOpt builds an integer option the way Discord sends it (as a JSON number)
func IntOpt(name string, value int) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{Name: name, Type: discordgo.ApplicationCommandOptionInteger, Value: float64(value)}
}

// Run dispatches i through a registry holding every casino command
func (tc *TestContext) Run(i *discordgo.InteractionCreate) {
	registry := NewCommandRegistry()
	RegisterCasinoCommands(registry)
	registry.Register(HistoryCommand(tc.Journal))
	registry.Handle(tc.Session, i, tc.Players)
}

// Requests returns the captured Discord API calls
func (tc *TestContext) Requests() []CapturedRequest {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	return append([]CapturedRequest(nil), tc.requests...)
}

// Edits decodes every edit of the original interaction response, oldest first
func (tc *TestContext) Edits(t *testing.T) []discordgo.WebhookEdit {
	t.Helper()
	var edits []discordgo.WebhookEdit
	for _, r := range tc.Requests() {
		if r.Method != http.MethodPatch || !strings.HasSuffix(r.Path, "/messages/@original") {
			continue
		}
		var edit discordgo.WebhookEdit
		if err := json.Unmarshal(r.Body, &edit); err != nil {
			t.Fatalf("decode edit: %v", err)
		}
		edits = append(edits, edit)
	}
	return edits
}

// LastEditText flattens the last edit into searchable text
func (tc *TestContext) LastEditText(t *testing.T) string {
	t.Helper()
	edits := tc.Edits(t)
	if len(edits) == 0 {
		t.Fatalf("no interaction response edit captured")
	}
	return editText(edits[len(edits)-1])
}

// AllEditText flattens every edit into searchable text
func (tc *TestContext) AllEditText(t *testing.T) string {
	t.Helper()
	var sb strings.Builder
	for _, e := range tc.Edits(t) {
		sb.WriteString(editText(e))
	}
	return sb.String()
}

func editText(edit discordgo.WebhookEdit) string {
	var sb strings.Builder
	if edit.Content != nil {
		sb.WriteString(*edit.Content + "\n")
	}
	if edit.Embeds != nil {
		for _, e := range *edit.Embeds {
			sb.WriteString(e.Title + "\n" + e.Description + "\n")
			for _, f := range e.Fields {
				sb.WriteString(f.Name + ": " + f.Value + "\n")
			}
		}
	}
	return sb.String()
}
