package metrics

// ============================================================================
// Metric Names
// ============================================================================

// Backend API metric names
const (
	MetricNameAPIRequestsTotal   = "api_requests_total"
	MetricNameAPIRequestDuration = "api_request_duration_seconds"
)

// Status server metric names
const (
	MetricNameHTTPRequestsTotal = "status_http_requests_total"
)

// Event metric names
const (
	MetricNameEventsPublished = "events_published_total"
)

// Play metric names
const (
	MetricNamePlaysTotal       = "plays_total"
	MetricNamePlaysRejected    = "plays_rejected_total"
	MetricNamePlaysInFlight    = "plays_in_flight"
	MetricNameProfileRefreshes = "profile_refreshes_total"
	MetricNameStaleDiscarded   = "stale_responses_discarded_total"
	MetricNameMetaSyncs        = "meta_syncs_total"
	MetricNameCoinsWon         = "coins_won_total"
	MetricNameOnboardingsTotal = "onboardings_total"
	MetricNameActiveSessions   = "active_sessions"
)

// ============================================================================
// Metric Help Text
// ============================================================================

const (
	HelpTextAPIRequestsTotal   = "Total number of requests sent to the game backend"
	HelpTextAPIRequestDuration = "Game backend request latency in seconds"
	HelpTextHTTPRequestsTotal  = "Total number of requests served by the status server"
	HelpTextEventsPublished    = "Total number of client events published"
	HelpTextPlaysTotal         = "Total number of plays submitted, by game kind and outcome"
	HelpTextPlaysRejected      = "Total number of plays blocked before submission"
	HelpTextPlaysInFlight      = "Plays currently awaiting the backend"
	HelpTextProfileRefreshes   = "Total number of profile refresh attempts"
	HelpTextStaleDiscarded     = "Total number of late responses discarded in favour of newer ones"
	HelpTextMetaSyncs          = "Total number of quest and event syncs"
	HelpTextCoinsWon           = "Total coins won on the slot machine"
	HelpTextOnboardingsTotal   = "Total number of onboarding submissions"
	HelpTextActiveSessions     = "Sessions currently held by the session registry"
)

// ============================================================================
// Metric Label Names
// ============================================================================

const (
	LabelMethod   = "method"
	LabelRoute    = "route"
	LabelStatus   = "status"
	LabelType     = "type"
	LabelKind     = "kind"
	LabelOutcome  = "outcome"
	LabelReason   = "reason"
	LabelResult   = "result"
	LabelResource = "resource"
)

// Label values
const (
	StatusTransportError = "transport_error"
	OutcomeSucceeded     = "succeeded"
	OutcomeFailed        = "failed"
	ResultOK             = "ok"
	ResultError          = "error"
	RouteUnmatched       = "unmatched"
)

// ============================================================================
// Histogram Buckets
// ============================================================================

// APILatencyBuckets ranges from 5ms to 10s
var APILatencyBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// ============================================================================
// Log Messages
// ============================================================================

const (
	LogMsgEventPayloadDecodeFailed = "Failed to decode event payload for metrics"
)
