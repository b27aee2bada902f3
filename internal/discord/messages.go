package discord

// Friendly message constants for Discord responses
const (
	MsgOnboardHint     = "👋 **New here?**\nUse `/cozy-onboard` to create your profile."
	MsgLoggedOut       = "👋 Logged out. Your profile stays on the server; use `/cozy-onboard` to play again."
	MsgLogoutFailed    = "❌ Could not log out. Try again."
	MsgSessionFailed   = "❌ Error connecting to the casino. Try again."
	MsgRefreshFailed   = "⚠️ Could not refresh your profile."
	MsgNoQuests        = "No quests yet."
	MsgNoEvents        = "No active events"
	MsgMiniSuccess     = "Success!"
	MsgMiniRetry       = "Try again!"
	MsgInvalidOptions  = "❌ Those options are not valid: %s"
	MsgGenericError    = "❌ Something went wrong."
	MsgMetaUnavailable = "⚠️ Showing the last known list."
	MsgNoPlays         = "No plays yet."
	MsgHistoryFailed   = "❌ Could not read your play history."
)

// Embed titles
const (
	TitleWelcome = "🎉 Welcome to Cozy Casino"
	TitleProfile = "🏡 Cozy Profile"
	TitleSpin    = "🎰 %s"
	TitlePop     = "🫧 %s"
	TitleQuests  = "📜 Quests"
	TitleEvents  = "🎪 Events"
	TitleHistory = "🧾 Recent Plays"
)

// Embed colors
const (
	ColorGreen  = 0x2ecc71
	ColorBlue   = 0x3498db
	ColorYellow = 0xf1c40f
	ColorPurple = 0x9b59b6
	ColorGray   = 0x95a5a6
)

// Footer constants for standardized embed footers
const (
	FooterCozyCasino = "Cozy Casino"
)

// Command names
const (
	CmdOnboard = "cozy-onboard"
	CmdProfile = "cozy-profile"
	CmdSpin    = "cozy-spin"
	CmdPop     = "cozy-pop"
	CmdQuests  = "cozy-quests"
	CmdEvents  = "cozy-events"
	CmdLogout  = "cozy-logout"
	CmdHistory = "cozy-history"
)

// Option names
const (
	OptName   = "name"
	OptUserID = "user_id"
	OptBet    = "bet"
	OptTheme  = "theme"
	OptGame   = "game"
	OptCount  = "count"
)

// Log messages
const (
	LogMsgBotReady          = "Bot is ready"
	LogMsgBotRunning        = "Discord bot is now running"
	LogMsgCommandFailed     = "Command failed"
	LogMsgDeferFailed       = "Failed to send deferred response"
	LogMsgEditFailed        = "Failed to edit interaction response"
	LogMsgCommandsChecking  = "Checking Discord commands..."
	LogMsgCommandsUnchanged = "Commands unchanged, skipping registration"
	LogMsgCommandsUpdated   = "Commands updated successfully"
	LogMsgSessionStartFail  = "Failed to start player session"
)
