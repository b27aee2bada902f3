package terminal

// Prompt and banner text
const (
	Prompt           = "cozy> "
	WelcomeBanner    = "Welcome to Cozy Casino! Spin, pop, and collect rewards with a cozy vibe."
	MsgOnboardHint   = "Type 'onboard <name> [user_id]' to create your profile."
	MsgUnknownCmd    = "Unknown command %q. Type 'help' for the list."
	MsgGoodbye       = "See you soon!"
	MsgLoggedOut     = "Logged out. Your profile stays on the server."
	MsgLogoutFailed  = "Could not log out. Try again."
	MsgRefreshFailed = "Could not refresh your profile."
	MsgBetSet        = "Bet set to %d."
	MsgWelcome       = "Welcome, %s!"
	MsgHistoryUsage  = "Usage: history [n]"
	MsgHistoryFailed = "Could not read your play history."
)

// Empty list text
const (
	MsgNoQuests = "No quests yet."
	MsgNoEvents = "No active events"
	MsgNoPlays  = "No plays yet."
)

// Mini game result headlines
const (
	MsgMiniSuccess = "Success!"
	MsgMiniRetry   = "Try again!"
)

// Command names
const (
	CmdHUD     = "hud"
	CmdBet     = "bet"
	CmdSpin    = "spin"
	CmdPop     = "pop"
	CmdQuests  = "quests"
	CmdEvents  = "events"
	CmdGames   = "games"
	CmdOnboard = "onboard"
	CmdLogout  = "logout"
	CmdRefresh = "refresh"
	CmdHelp    = "help"
	CmdQuit    = "quit"
	CmdHistory = "history"
)

const historyTimeFormat = "Jan 02 15:04"

const progressBarWidth = 20
