package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/CozyCasino_Go/internal/domain"
	"github.com/osse101/CozyCasino_Go/internal/logger"
	"github.com/osse101/CozyCasino_Go/internal/metrics"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *APIClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewAPIClient(server.URL + "/")
}

func TestCall_SendsJSONAndRequestID(t *testing.T) {
	var gotContentType, gotRequestID string
	var gotBody domain.SlotPlayRequest

	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get(HeaderContentType)
		gotRequestID = r.Header.Get(HeaderRequestID)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		assert.Equal(t, PathPlaySlot, r.URL.Path)
		w.Header().Set(HeaderContentType, ContentTypeJSON)
		_, _ = w.Write([]byte(`{"reels":[["a"],["b"],["c"]],"outcome":"win","win_amount":40}`))
	})

	ctx := logger.WithRequestID(context.Background(), "req-123")
	res, err := c.PlaySlot(ctx, domain.SlotPlayRequest{UserID: "user_1", Theme: "sunny_garden", Bet: 20})
	require.NoError(t, err)

	assert.Equal(t, ContentTypeJSON, gotContentType)
	assert.Equal(t, "req-123", gotRequestID)
	assert.Equal(t, domain.SlotPlayRequest{UserID: "user_1", Theme: "sunny_garden", Bet: 20}, gotBody)
	assert.Equal(t, 40, res.WinAmount)
	assert.Equal(t, "win", res.Outcome)
	assert.Len(t, res.Reels, 3)
}

func TestCall_GeneratesRequestID(t *testing.T) {
	var gotRequestID string
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotRequestID = r.Header.Get(HeaderRequestID)
		_, _ = w.Write([]byte(`[]`))
	})

	_, err := c.GetEvents(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, gotRequestID)
}

func TestCall_HTTPError(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"detail":"Not enough energy"}`))
	})

	_, err := c.PlayMini(context.Background(), domain.MiniPlayRequest{UserID: "u", Game: "bubble_pop"})
	require.Error(t, err)

	assert.ErrorIs(t, err, ErrHTTP)
	assert.NotErrorIs(t, err, ErrTransport)
	assert.Equal(t, http.StatusPaymentRequired, StatusCode(err))

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, "Not enough energy", httpErr.Detail)
	assert.Equal(t, http.MethodPost, httpErr.Method)
	assert.Equal(t, PathPlayMini, httpErr.Path)
}

func TestCall_HTTPErrorPlainBody(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusInternalServerError)
	})

	err := c.WarmUp(context.Background())
	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, "upstream exploded", httpErr.Detail)
	assert.Contains(t, err.Error(), "status 500")
}

func TestCall_TransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	c := NewAPIClient(server.URL)
	server.Close()

	_, err := c.GetProfile(context.Background(), "user_1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
	assert.Equal(t, 0, StatusCode(err))

	var tErr *TransportError
	require.ErrorAs(t, err, &tErr)
	assert.Equal(t, "/profiles/user_1", tErr.Path)
}

func TestCall_CancelledContext(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.GetProfile(ctx, "user_1")
	assert.ErrorIs(t, err, ErrTransport)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCall_NoRetry(t *testing.T) {
	var calls atomic.Int32
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := c.PlaySlot(context.Background(), domain.SlotPlayRequest{UserID: "u", Theme: "sunny_garden", Bet: 10})
	assert.Equal(t, http.StatusServiceUnavailable, StatusCode(err))
	assert.Equal(t, int32(1), calls.Load())
}

func TestCall_InvalidResponse(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})

	_, err := c.GetProfile(context.Background(), "user_1")
	assert.ErrorIs(t, err, domain.ErrInvalidResponse)
}

func TestGetProfile_EscapesPath(t *testing.T) {
	var gotPath string
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		_ = json.NewEncoder(w).Encode(domain.NewDefaultProfile("a/b c", "Robin"))
	})

	p, err := c.GetProfile(context.Background(), "a/b c")
	require.NoError(t, err)
	assert.Equal(t, "/profiles/a%2Fb%20c", gotPath)
	assert.Equal(t, "a/b c", p.UserID)
}

func TestGetQuests(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/quests/user_1", r.URL.Path)
		_, _ = w.Write([]byte(`[{"quest_id":"q1","title":"Spin 3","description":"","progress":2,"target":3,"reward":{"amount":50,"type":"coins"}}]`))
	})

	quests, err := c.GetQuests(context.Background(), "user_1")
	require.NoError(t, err)
	require.Len(t, quests, 1)
	assert.Equal(t, "q1", quests[0].QuestID)
	assert.Equal(t, 67, quests[0].ProgressPercent())
	assert.Equal(t, domain.Reward{Amount: 50, Type: "coins"}, quests[0].Reward)
}

func TestCreateProfile(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var p domain.Profile
		require.NoError(t, json.NewDecoder(r.Body).Decode(&p))
		assert.Nil(t, p.Avatar)
		_ = json.NewEncoder(w).Encode(p)
	})

	created, err := c.CreateProfile(context.Background(), domain.NewDefaultProfile("user_1", "Robin"))
	require.NoError(t, err)
	assert.Equal(t, domain.NewDefaultProfile("user_1", "Robin"), *created)
}

func TestCall_RecordsMetrics(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})
	counter := metrics.APIRequestsTotal.WithLabelValues(http.MethodGet, RouteProfile, "200")
	before := testutil.ToFloat64(counter)

	_, err := c.GetProfile(context.Background(), "someone")
	require.NoError(t, err)

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestRouteLabel(t *testing.T) {
	tests := map[string]string{
		"/profiles/user_1": RouteProfile,
		"/profiles":        PathProfiles,
		"/quests/user_1":   RouteQuests,
		"/events":          PathEvents,
		"/play/slot":       PathPlaySlot,
		"/play/mini":       PathPlayMini,
		"/test":            PathTest,
		"/admin":           RouteUnknown,
	}
	for path, want := range tests {
		assert.Equal(t, want, routeLabel(path), path)
	}
}
