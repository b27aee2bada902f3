package play

// Log messages
const (
	LogMsgPlayRejected         = "Play rejected"
	LogMsgPlaySubmitted        = "Play submitted"
	LogMsgPlaySucceeded        = "Play succeeded"
	LogMsgPlayFailed           = "Play failed"
	LogMsgProfileRefreshed     = "Profile refreshed after play"
	LogMsgProfileRefreshFailed = "Profile refresh after play failed"
	LogMsgStaleProfile         = "Discarded stale profile response"
)

// Validation reasons
const (
	ReasonBetNotAllowed = "must be one of 10, 20, 50, 100"
	ReasonUnknownTheme  = "is not a known slot theme"
	ReasonUnknownGame   = "is not a known mini game"
)
