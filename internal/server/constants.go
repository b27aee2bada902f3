package server

import "time"

// HTTP error messages for middleware responses
const (
	ErrMsgTooManyRequests = "Too Many Requests"
	ErrMsgSessionNotFound = "session not found"
)

// Security alert message templates
const (
	SecurityAlertHighRate = "⚠️ SECURITY ALERT: Blocking high request rate"
)

// Log messages for server lifecycle and request handling
const (
	LogMsgServerStarting   = "Status server starting"
	LogMsgServerStopped    = "Status server stopped"
	LogMsgRequestCompleted = "Request completed"
	LogMsgEncodeFailed     = "Failed to encode response"
)

// HTTP header names
const (
	HeaderContentType        = "Content-Type"
	HeaderContentTypeOptions = "X-Content-Type-Options"
	HeaderFrameOptions       = "X-Frame-Options"
	HeaderReferrerPolicy     = "Referrer-Policy"
	HeaderCacheControl       = "Cache-Control"
)

// Header values
const (
	HeaderValueJSON                 = "application/json"
	HeaderValueNoSniff              = "nosniff"
	HeaderValueDeny                 = "DENY"
	HeaderValueReferrerNoReferrer   = "no-referrer"
	HeaderValueNoStore              = "no-store"
	HeaderValueAllowedRequestHeader = "Accept"
)

// Routes
const (
	RouteHealthz = "/healthz"
	RouteVersion = "/version"
	RouteMetrics = "/metrics"
	RouteSession = "/session"

	// QueryNamespace selects the session shown by /session
	QueryNamespace = "namespace"
)

// Rate limiting
const (
	RateLimitWindow   = 5 * time.Minute
	RateLimitRequests = 1000

	corsMaxAge        = 60 * 15
	readHeaderTimeout = 5 * time.Second
)

// Paths skipped by the request log
var quietPaths = []string{RouteHealthz, RouteMetrics}
