package config

// Defaults
const (
	DefaultBackendURL     = "http://localhost:8000"
	DefaultIdentityDBPath = "cozycasino.db"
	DefaultStatusPort     = 0
)

// Environment variable names checked outside struct parsing
const (
	EnvDiscordToken = "DISCORD_TOKEN"
	EnvDiscordAppID = "DISCORD_APP_ID"
)
