package discord

import (
	"context"
	"errors"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/osse101/CozyCasino_Go/internal/domain"
)

// ProfileCommand returns the balances command definition and handler
func ProfileCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        CmdProfile,
		Description: "Show your coins, stars, energy and keys",
	}

	handler := func(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, players Players) {
		if !deferResponse(s, i, true) {
			return
		}

		sess, err := players.Player(ctx, getInteractionUser(i).ID)
		if err != nil {
			slog.Error(LogMsgCommandFailed, "command", CmdProfile, "error", err)
			respondError(s, i, MsgSessionFailed)
			return
		}

		description := ""
		if _, err := sess.RefreshProfile(ctx); err != nil {
			if errors.Is(err, domain.ErrNoSession) {
				respondNeedsOnboarding(s, i, sess.Snapshot().Notice)
				return
			}
			description = MsgRefreshFailed
		}

		view := sess.Snapshot()
		if view.Profile == nil {
			respondNeedsOnboarding(s, i, view.Notice)
			return
		}

		embed := createEmbed(TitleProfile+" - "+view.Profile.DisplayName, description, ColorBlue)
		embed.Fields = hudFields(view.Profile, view.Bet)
		sendEmbed(s, i, embed)
	}

	return cmd, handler
}

// respondNeedsOnboarding points a player without a profile to /cozy-onboard
func respondNeedsOnboarding(s *discordgo.Session, i *discordgo.InteractionCreate, notice string) {
	msg := MsgOnboardHint
	if notice != "" {
		msg = "⚠️ " + notice + "\n" + MsgOnboardHint
	}
	respondError(s, i, msg)
}
