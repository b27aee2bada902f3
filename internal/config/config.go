package config

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/osse101/CozyCasino_Go/internal/logger"
	"github.com/osse101/CozyCasino_Go/internal/validation"
)

// Config holds the application configuration
type Config struct {
	BackendURL  string `env:"BACKEND_URL" envDefault:"http://localhost:8000" json:"BACKEND_URL" validate:"required,http_url"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info" json:"LOG_LEVEL" validate:"oneof=debug info warn warning error"`
	LogFormat   string `env:"LOG_FORMAT" envDefault:"text" json:"LOG_FORMAT" validate:"oneof=text json"`
	Environment string `env:"ENVIRONMENT" envDefault:"dev" json:"ENVIRONMENT" validate:"oneof=dev staging prod test"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"cozy-casino" json:"SERVICE_NAME" validate:"required"`
	Version     string `env:"VERSION" envDefault:"dev" json:"VERSION"`

	// SQLite file holding the saved identity
	IdentityDBPath string `env:"IDENTITY_DB_PATH" envDefault:"cozycasino.db" json:"IDENTITY_DB_PATH" validate:"required"`

	// Log files, one per run
	LogDir string `env:"LOG_DIR" envDefault:"logs" json:"LOG_DIR"`

	// Play journal retention, 0 keeps everything
	EventLogRetention time.Duration `env:"EVENT_LOG_RETENTION" envDefault:"720h" json:"EVENT_LOG_RETENTION" validate:"gte=0"`

	// Status server, disabled when 0
	StatusPort         int      `env:"STATUS_PORT" envDefault:"0" json:"STATUS_PORT" validate:"gte=0,lte=65535"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," json:"CORS_ALLOWED_ORIGINS"`

	// Periodic quest/event sync, disabled when 0
	MetaSyncInterval time.Duration `env:"META_SYNC_INTERVAL" envDefault:"0s" json:"META_SYNC_INTERVAL" validate:"gte=0"`

	// Session registry of multi-user front-ends
	SessionCacheSize int           `env:"SESSION_CACHE_SIZE" envDefault:"1000" json:"SESSION_CACHE_SIZE" validate:"gte=1"`
	SessionTTL       time.Duration `env:"SESSION_TTL" envDefault:"1h" json:"SESSION_TTL" validate:"gte=0"`

	// Discord front-end
	DiscordToken              string `env:"DISCORD_TOKEN" json:"DISCORD_TOKEN"`
	DiscordAppID              string `env:"DISCORD_APP_ID" json:"DISCORD_APP_ID"`
	DiscordForceCommandUpdate bool   `env:"DISCORD_FORCE_COMMAND_UPDATE" envDefault:"false" json:"DISCORD_FORCE_COMMAND_UPDATE"`
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()
	return Parse()
}

// Parse reads the configuration from the current environment and validates it
func Parse() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.BackendURL = strings.TrimRight(strings.TrimSpace(cfg.BackendURL), "/")
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	cfg.Environment = strings.ToLower(cfg.Environment)

	if err := validation.Get().ValidateStruct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %s", formatErrors(err))
	}
	return &cfg, nil
}

// ValidateDiscord checks the settings only the Discord front-end needs
func (c *Config) ValidateDiscord() error {
	var missing []string
	if c.DiscordToken == "" {
		missing = append(missing, EnvDiscordToken)
	}
	if c.DiscordAppID == "" {
		missing = append(missing, EnvDiscordAppID)
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Warnings returns non-fatal configuration issues
func (c *Config) Warnings() []string {
	var warnings []string
	if c.Environment == logger.EnvironmentProduction && strings.HasPrefix(c.BackendURL, "http://localhost") {
		warnings = append(warnings, "BACKEND_URL points at localhost in production")
	}
	if c.StatusPort != 0 && len(c.CORSAllowedOrigins) == 0 {
		warnings = append(warnings, "status server enabled without CORS_ALLOWED_ORIGINS, browsers cannot poll it")
	}
	return warnings
}

// LoggerConfig returns the logger settings
func (c *Config) LoggerConfig() logger.Config {
	return logger.Config{
		Level:       c.LogLevel,
		Format:      c.LogFormat,
		ServiceName: c.ServiceName,
		Version:     c.Version,
		Environment: c.Environment,
		Backend:     backendHost(c.BackendURL),
		AddSource:   c.Environment == logger.EnvironmentDev,
	}
}

// backendHost returns the host of the backend URL, "" when it has none
func backendHost(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}
	return u.Host
}

func formatErrors(err error) string {
	errs := validation.FormatValidationError(err)
	parts := make([]string, 0, len(errs))
	for field, msg := range errs {
		parts = append(parts, field+" "+msg)
	}
	sort.Strings(parts)
	return strings.Join(parts, "; ")
}
