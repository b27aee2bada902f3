package discord

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/osse101/CozyCasino_Go/internal/identity"
	"github.com/osse101/CozyCasino_Go/internal/logger"
	"github.com/osse101/CozyCasino_Go/internal/session"
)

// Players hands out the casino session of a Discord user
type Players interface {
	Player(ctx context.Context, discordUserID string) (*session.Session, error)
	Forget(discordUserID string)
	Len() int
}

// PlayerDirectory keeps one session per Discord user in a session registry
type PlayerDirectory struct {
	sessions *session.Registry
}

// NewPlayerDirectory creates a directory backed by sessions
func NewPlayerDirectory(sessions *session.Registry) *PlayerDirectory {
	return &PlayerDirectory{sessions: sessions}
}

// Player returns the started session of the user. A session whose saved
// profile could not be loaded is still returned; it reports the failure in its view.
func (d *PlayerDirectory) Player(ctx context.Context, discordUserID string) (*session.Session, error) {
	s, _, err := d.sessions.Get(ctx, identity.DiscordNamespace(discordUserID))
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if _, err := s.EnsureStarted(ctx); err != nil {
		logger.FromContext(ctx).Warn(LogMsgSessionStartFail, "discord_user_id", discordUserID, "error", err)
	}
	return s, nil
}

// Forget drops the in-memory session of the user
func (d *PlayerDirectory) Forget(discordUserID string) {
	d.sessions.Remove(identity.DiscordNamespace(discordUserID))
}

// Len returns the number of live sessions
func (d *PlayerDirectory) Len() int {
	return d.sessions.Len()
}

// Bot represents the Discord bot
type Bot struct {
	Session  *discordgo.Session
	Players  Players
	AppID    string
	Registry *CommandRegistry

	forceCommandUpdate bool
	stats              *Stats
}

// Config holds the bot configuration
type Config struct {
	Token              string
	AppID              string
	ForceCommandUpdate bool

	// History enables /cozy-history when set
	History History
}

// New creates a new Discord bot with every casino command registered
func New(cfg Config, players Players) (*Bot, error) {
	s, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating Discord session: %w", err)
	}

	registry := NewCommandRegistry()
	RegisterCasinoCommands(registry)
	if cfg.History != nil {
		registry.Register(HistoryCommand(cfg.History))
	}

	return &Bot{
		Session:            s,
		Players:            players,
		AppID:              cfg.AppID,
		Registry:           registry,
		forceCommandUpdate: cfg.ForceCommandUpdate,
		stats:              NewStats(),
	}, nil
}

// Start opens the gateway connection and syncs slash commands
func (b *Bot) Start() error {
	b.Session.AddHandler(b.ready)
	b.Session.AddHandler(b.interactionCreate)

	if err := b.Session.Open(); err != nil {
		return fmt.Errorf("error opening connection: %w", err)
	}
	if err := b.RegisterCommands(b.Registry, b.forceCommandUpdate); err != nil {
		_ = b.Session.Close()
		return err
	}

	slog.Info(LogMsgBotRunning)
	return nil
}

// Stop stops the bot
func (b *Bot) Stop() {
	if err := b.Session.Close(); err != nil {
		slog.Warn("Failed to close Discord session", "error", err)
	}
}

// Run runs the bot until ctx is cancelled
func (b *Bot) Run(ctx context.Context) error {
	if err := b.Start(); err != nil {
		return err
	}
	defer b.Stop()

	<-ctx.Done()
	return nil
}

func (b *Bot) ready(s *discordgo.Session, r *discordgo.Ready) {
	slog.Info(LogMsgBotReady, "user", r.User.Username)
}

func (b *Bot) interactionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	b.stats.RecordCommand()
	b.Registry.Handle(s, i, b.Players)
}
