package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/osse101/CozyCasino_Go/internal/domain"
	"github.com/osse101/CozyCasino_Go/internal/onboarding"
)

// OnboardCommand returns the profile creation command definition and handler
func OnboardCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	minLen := 1
	cmd := &discordgo.ApplicationCommand{
		Name:        CmdOnboard,
		Description: "Create your Cozy Casino profile",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        OptName,
				Description: "Display name",
				Required:    true,
				MinLength:   &minLen,
				MaxLength:   64,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        OptUserID,
				Description: "User ID (a random one is picked when empty)",
				Required:    false,
				MaxLength:   128,
			},
		},
	}

	handler := func(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, players Players) {
		if !deferResponse(s, i, false) {
			return
		}

		user := getInteractionUser(i)
		opts := optionMap(i)
		name := ""
		if o, ok := opts[OptName]; ok {
			name = o.StringValue()
		}
		userID := onboarding.SuggestUserID()
		if o, ok := opts[OptUserID]; ok && o.StringValue() != "" {
			userID = o.StringValue()
		}

		sess, err := players.Player(ctx, user.ID)
		if err != nil {
			slog.Error(LogMsgCommandFailed, "command", CmdOnboard, "error", err)
			respondError(s, i, MsgSessionFailed)
			return
		}

		p, err := sess.Onboard(ctx, userID, name)
		if err != nil {
			var vErr *domain.ValidationError
			if errors.As(err, &vErr) {
				respondError(s, i, fmt.Sprintf(MsgInvalidOptions, vErr.Field+" "+vErr.Reason))
				return
			}
			slog.Error(LogMsgCommandFailed, "command", CmdOnboard, "error", err)
			respondError(s, i, "❌ "+domain.MsgOnboardingFailed)
			return
		}

		embed := createEmbed(TitleWelcome, fmt.Sprintf("Welcome, **%s**! Your user ID is `%s`.", p.DisplayName, p.UserID), ColorGreen)
		embed.Fields = hudFields(p, sess.Bet())
		sendEmbed(s, i, embed)
	}

	return cmd, handler
}
