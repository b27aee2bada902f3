package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/bwmarrin/discordgo"

	"github.com/osse101/CozyCasino_Go/internal/domain"
	"github.com/osse101/CozyCasino_Go/internal/validation"
)

type popOptions struct {
	Game string `json:"game" validate:"omitempty,gamekey,max=64"`
}

// PopCommand returns the mini game command definition and handler
func PopCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        CmdPop,
		Description: "Play an instant mini game",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        OptGame,
				Description: "Mini game",
				Required:    false,
				Choices:     catalogChoices(domain.MiniGames),
			},
		},
	}

	handler := func(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, players Players) {
		if !deferResponse(s, i, false) {
			return
		}

		var opts popOptions
		if o, ok := optionMap(i)[OptGame]; ok {
			opts.Game = o.StringValue()
		}
		if err := validation.Get().Struct(opts); err != nil {
			respondFriendlyError(s, i, err)
			return
		}

		sess, err := players.Player(ctx, getInteractionUser(i).ID)
		if err != nil {
			slog.Error(LogMsgCommandFailed, "command", CmdPop, "error", err)
			respondError(s, i, MsgSessionFailed)
			return
		}

		result, err := sess.PlayMini(ctx, opts.Game)
		if result == nil {
			if errors.Is(err, domain.ErrNoSession) {
				respondNeedsOnboarding(s, i, sess.Snapshot().Notice)
				return
			}
			respondFriendlyError(s, i, err)
			return
		}

		game := opts.Game
		if game == "" {
			game = domain.DefaultMiniGame
		}
		headline, color := MsgMiniRetry, ColorGray
		if result.Success {
			headline, color = MsgMiniSuccess, ColorGreen
		}

		embed := createEmbed(fmt.Sprintf(TitlePop, gameTitle(domain.GameKindMini, game)), "**"+headline+"**", color)
		embed.Fields = []*discordgo.MessageEmbedField{
			{Name: "Score", Value: strconv.FormatFloat(result.Score, 'f', -1, 64), Inline: true},
			{Name: "Reward", Value: formatNumber(result.Reward.Amount) + " coins", Inline: true},
		}
		if err != nil {
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "⚠️", Value: domain.PlayErrorMessage(err)})
		}
		if view := sess.Snapshot(); view.Profile != nil {
			embed.Fields = append(embed.Fields, hudFields(view.Profile, view.Bet)...)
		}
		sendEmbed(s, i, embed)
	}

	return cmd, handler
}
