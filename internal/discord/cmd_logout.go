package discord

import (
	"context"
	"log/slog"

	"github.com/bwmarrin/discordgo"
)

// LogoutCommand returns the logout command definition and handler
func LogoutCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        CmdLogout,
		Description: "Forget your saved Cozy Casino profile",
	}

	handler := func(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, players Players) {
		if !deferResponse(s, i, true) {
			return
		}

		user := getInteractionUser(i)
		sess, err := players.Player(ctx, user.ID)
		if err != nil {
			slog.Error(LogMsgCommandFailed, "command", CmdLogout, "error", err)
			respondError(s, i, MsgSessionFailed)
			return
		}

		if err := sess.Logout(ctx); err != nil {
			slog.Error(LogMsgCommandFailed, "command", CmdLogout, "error", err)
			respondError(s, i, MsgLogoutFailed)
			return
		}
		players.Forget(user.ID)
		respondError(s, i, MsgLoggedOut)
	}

	return cmd, handler
}
