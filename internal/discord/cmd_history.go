package discord

import (
	"context"
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/osse101/CozyCasino_Go/internal/eventlog"
)

const maxHistoryCount = 25

// History reads the play journal
type History interface {
	Recent(ctx context.Context, userID string, limit int) ([]eventlog.Entry, error)
}

// HistoryCommand returns the play history command definition and handler
func HistoryCommand(history History) (*discordgo.ApplicationCommand, CommandHandler) {
	minCount := 1.0
	cmd := &discordgo.ApplicationCommand{
		Name:        CmdHistory,
		Description: "Show your latest plays",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        OptCount,
				Description: "How many plays to show",
				MinValue:    &minCount,
				MaxValue:    maxHistoryCount,
			},
		},
	}

	handler := func(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, players Players) {
		if !deferResponse(s, i, true) {
			return
		}

		sess, err := players.Player(ctx, getInteractionUser(i).ID)
		if err != nil {
			slog.Error(LogMsgCommandFailed, "command", CmdHistory, "error", err)
			respondError(s, i, MsgSessionFailed)
			return
		}

		view := sess.Snapshot()
		if view.Identity == nil {
			respondNeedsOnboarding(s, i, view.Notice)
			return
		}

		limit := eventlog.DefaultHistoryLimit
		if opt, ok := optionMap(i)[OptCount]; ok {
			limit = min(max(int(opt.IntValue()), 1), maxHistoryCount)
		}

		entries, err := history.Recent(ctx, view.Identity.UserID, limit)
		if err != nil {
			slog.Error(LogMsgCommandFailed, "command", CmdHistory, "error", err)
			respondError(s, i, MsgHistoryFailed)
			return
		}

		lines := make([]string, 0, len(entries))
		for _, e := range entries {
			lines = append(lines, formatHistoryEntry(e))
		}
		if len(lines) == 0 {
			lines = append(lines, MsgNoPlays)
		}

		sendEmbed(s, i, createEmbed(TitleHistory, strings.Join(lines, "\n"), ColorBlue))
	}

	return cmd, handler
}
