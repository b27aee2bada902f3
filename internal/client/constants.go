package client

// Backend routes
const (
	PathTest     = "/test"
	PathProfiles = "/profiles"
	PathQuests   = "/quests"
	PathEvents   = "/events"
	PathPlaySlot = "/play/slot"
	PathPlayMini = "/play/mini"
	RouteProfile = "/profiles/{user_id}"
	RouteQuests  = "/quests/{user_id}"
	RouteUnknown = "other"
)

// Headers
const (
	HeaderContentType = "Content-Type"
	HeaderRequestID   = "X-Request-ID"
	ContentTypeJSON   = "application/json"
)

// Error messages
const (
	ErrMsgTransport      = "backend unreachable"
	ErrMsgHTTP           = "backend returned an error status"
	ErrMsgMarshalBody    = "failed to marshal body"
	ErrMsgCreateRequest  = "failed to create request"
	ErrMsgDecodeResponse = "failed to decode response"
)

// Log messages
const (
	LogMsgRequest       = "Backend request"
	LogMsgRequestFailed = "Backend request failed"
	LogMsgWarmUpFailed  = "Backend warm-up failed"
)

// maxDetailBytes caps how much of an error body is kept in HTTPError.Detail
const maxDetailBytes = 1024
