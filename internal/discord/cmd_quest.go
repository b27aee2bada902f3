package discord

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/osse101/CozyCasino_Go/internal/domain"
)

// QuestsCommand returns the quest list command definition and handler
func QuestsCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        CmdQuests,
		Description: "Show your quest progress",
	}

	handler := func(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, players Players) {
		if !deferResponse(s, i, true) {
			return
		}

		sess, err := players.Player(ctx, getInteractionUser(i).ID)
		if err != nil {
			slog.Error(LogMsgCommandFailed, "command", CmdQuests, "error", err)
			respondError(s, i, MsgSessionFailed)
			return
		}

		description := ""
		if _, err := sess.SyncMeta(ctx); err != nil {
			if errors.Is(err, domain.ErrNoSession) {
				respondNeedsOnboarding(s, i, sess.Snapshot().Notice)
				return
			}
			description = MsgMetaUnavailable
		}

		quests := sess.Snapshot().Quests
		if len(quests) == 0 {
			description = strings.TrimSpace(description + "\n" + MsgNoQuests)
		}

		embed := createEmbed(TitleQuests, description, ColorPurple)
		for idx, q := range quests {
			if idx == maxEmbedFields {
				break
			}
			embed.Fields = append(embed.Fields, questField(q))
		}
		sendEmbed(s, i, embed)
	}

	return cmd, handler
}

// EventsCommand returns the event list command definition and handler
func EventsCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        CmdEvents,
		Description: "Show the active casino events",
	}

	handler := func(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, players Players) {
		if !deferResponse(s, i, true) {
			return
		}

		sess, err := players.Player(ctx, getInteractionUser(i).ID)
		if err != nil {
			slog.Error(LogMsgCommandFailed, "command", CmdEvents, "error", err)
			respondError(s, i, MsgSessionFailed)
			return
		}

		var lines []string
		if _, err := sess.SyncMeta(ctx); err != nil {
			if errors.Is(err, domain.ErrNoSession) {
				respondNeedsOnboarding(s, i, sess.Snapshot().Notice)
				return
			}
			lines = append(lines, MsgMetaUnavailable)
		}

		events := sess.Snapshot().Events
		if len(events) == 0 {
			lines = append(lines, MsgNoEvents)
		}
		for _, e := range events {
			line := "• **" + e.Name + "**"
			if e.Theme != "" {
				line += " (" + gameTitle(domain.GameKindSlot, e.Theme) + ")"
			}
			lines = append(lines, line)
		}

		sendEmbed(s, i, createEmbed(TitleEvents, strings.Join(lines, "\n"), ColorPurple))
	}

	return cmd, handler
}
