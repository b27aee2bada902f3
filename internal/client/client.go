package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/osse101/CozyCasino_Go/internal/domain"
	"github.com/osse101/CozyCasino_Go/internal/logger"
	"github.com/osse101/CozyCasino_Go/internal/metrics"
)

// APIClient handles communication with the CozyCasino game backend.
// Requests are never retried; deadlines come from the caller's context.
type APIClient struct {
	BaseURL string
	Client  *http.Client
}

// NewAPIClient creates a new API client
func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{},
	}
}

// Call sends body as JSON to path and decodes a 2xx response into out (when non-nil).
// It returns *TransportError when no response was received and *HTTPError for non-2xx statuses.
func (c *APIClient) Call(ctx context.Context, method, path string, body, out interface{}) error {
	ctx, requestID := logger.EnsureRequestID(ctx)
	log := logger.FromContext(ctx)

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrMsgMarshalBody, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgCreateRequest, err)
	}
	req.Header.Set(HeaderContentType, ContentTypeJSON)
	req.Header.Set(HeaderRequestID, requestID)

	route := routeLabel(path)
	start := time.Now()
	resp, err := c.Client.Do(req)
	elapsed := time.Since(start)
	metrics.APIRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())

	if err != nil {
		metrics.APIRequestsTotal.WithLabelValues(method, route, metrics.StatusTransportError).Inc()
		log.Warn(LogMsgRequestFailed, "method", method, "path", path, "duration", elapsed, "error", err)
		return &TransportError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	metrics.APIRequestsTotal.WithLabelValues(method, route, strconv.Itoa(resp.StatusCode)).Inc()
	log.Debug(LogMsgRequest, "method", method, "path", path, "status", resp.StatusCode, "duration", elapsed)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &HTTPError{Method: method, Path: path, Status: resp.StatusCode, Detail: readDetail(resp.Body)}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %s %s: %s: %v", domain.ErrInvalidResponse, method, path, ErrMsgDecodeResponse, err)
	}
	return nil
}

// WarmUp pings the backend so a cold instance starts early. The body is ignored.
func (c *APIClient) WarmUp(ctx context.Context) error {
	return c.Call(ctx, http.MethodGet, PathTest, nil, nil)
}

// GetProfile fetches the authoritative profile for userID
func (c *APIClient) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	var p domain.Profile
	if err := c.Call(ctx, http.MethodGet, PathProfiles+"/"+url.PathEscape(userID), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProfile creates a profile and returns the one the server stored
func (c *APIClient) CreateProfile(ctx context.Context, p domain.Profile) (*domain.Profile, error) {
	var created domain.Profile
	if err := c.Call(ctx, http.MethodPost, PathProfiles, p, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// GetQuests fetches the quest list for userID
func (c *APIClient) GetQuests(ctx context.Context, userID string) ([]domain.Quest, error) {
	var quests []domain.Quest
	if err := c.Call(ctx, http.MethodGet, PathQuests+"/"+url.PathEscape(userID), nil, &quests); err != nil {
		return nil, err
	}
	return quests, nil
}

// GetEvents fetches the active events
func (c *APIClient) GetEvents(ctx context.Context) ([]domain.Event, error) {
	var events []domain.Event
	if err := c.Call(ctx, http.MethodGet, PathEvents, nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// PlaySlot submits a slot spin
func (c *APIClient) PlaySlot(ctx context.Context, req domain.SlotPlayRequest) (*domain.SlotResult, error) {
	var result domain.SlotResult
	if err := c.Call(ctx, http.MethodPost, PathPlaySlot, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// PlayMini submits a mini game round
func (c *APIClient) PlayMini(ctx context.Context, req domain.MiniPlayRequest) (*domain.MiniResult, error) {
	var result domain.MiniResult
	if err := c.Call(ctx, http.MethodPost, PathPlayMini, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// routeLabel collapses per-user paths into their route template to keep metric cardinality bounded
func routeLabel(path string) string {
	switch {
	case strings.HasPrefix(path, PathProfiles+"/"):
		return RouteProfile
	case strings.HasPrefix(path, PathQuests+"/"):
		return RouteQuests
	}
	switch path {
	case PathTest, PathProfiles, PathEvents, PathPlaySlot, PathPlayMini:
		return path
	}
	return RouteUnknown
}

// readDetail extracts a message from an error body: FastAPI style {"detail": ...},
// {"error": ...}, or the raw text.
func readDetail(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, maxDetailBytes))
	if err != nil || len(data) == 0 {
		return ""
	}

	var errResp struct {
		Detail interface{} `json:"detail"`
		Error  string      `json:"error"`
	}
	if json.Unmarshal(data, &errResp) == nil {
		if s, ok := errResp.Detail.(string); ok && s != "" {
			return s
		}
		if errResp.Error != "" {
			return errResp.Error
		}
	}
	return strings.TrimSpace(string(data))
}
