package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/osse101/CozyCasino_Go/internal/domain"
	"github.com/osse101/CozyCasino_Go/internal/validation"
)

// spinOptions are the validated options of /cozy-spin
type spinOptions struct {
	Bet   int    `json:"bet" validate:"omitempty,oneof=10 20 50 100"`
	Theme string `json:"theme" validate:"omitempty,gamekey,max=64"`
}

// SpinCommand returns the slot machine command definition and handler
func SpinCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	betChoices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(domain.AllowedBets))
	for _, bet := range domain.AllowedBets {
		betChoices = append(betChoices, &discordgo.ApplicationCommandOptionChoice{Name: fmt.Sprintf("%d coins", bet), Value: bet})
	}

	cmd := &discordgo.ApplicationCommand{
		Name:        CmdSpin,
		Description: "Spin a cozy slot machine",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        OptBet,
				Description: "Bet (keeps your last bet when empty)",
				Required:    false,
				Choices:     betChoices,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        OptTheme,
				Description: "Slot theme",
				Required:    false,
				Choices:     catalogChoices(domain.SlotThemes),
			},
		},
	}

	handler := func(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, players Players) {
		if !deferResponse(s, i, false) {
			return
		}

		var opts spinOptions
		om := optionMap(i)
		if o, ok := om[OptBet]; ok {
			opts.Bet = int(o.IntValue())
		}
		if o, ok := om[OptTheme]; ok {
			opts.Theme = o.StringValue()
		}
		if err := validation.Get().Struct(opts); err != nil {
			respondFriendlyError(s, i, err)
			return
		}

		sess, err := players.Player(ctx, getInteractionUser(i).ID)
		if err != nil {
			slog.Error(LogMsgCommandFailed, "command", CmdSpin, "error", err)
			respondError(s, i, MsgSessionFailed)
			return
		}
		var result *domain.SlotResult
		if opts.Bet != 0 {
			result, err = sess.PlaySlotBet(ctx, opts.Theme, opts.Bet)
		} else {
			result, err = sess.PlaySlot(ctx, opts.Theme)
		}
		if result == nil {
			if errors.Is(err, domain.ErrNoSession) {
				respondNeedsOnboarding(s, i, sess.Snapshot().Notice)
				return
			}
			respondFriendlyError(s, i, err)
			return
		}

		view := sess.Snapshot()
		theme := opts.Theme
		if theme == "" {
			theme = domain.DefaultSlotTheme
		}

		color := ColorGray
		if result.IsWin() {
			color = ColorYellow
		}
		embed := createEmbed(fmt.Sprintf(TitleSpin, gameTitle(domain.GameKindSlot, theme)), formatReels(result.Reels), color)
		embed.Fields = []*discordgo.MessageEmbedField{
			{Name: "Outcome", Value: formatOutcome(result.Outcome), Inline: true},
			{Name: "Win", Value: formatNumber(result.WinAmount) + " coins", Inline: true},
		}
		if err != nil {
			// The spin happened but the balances are stale
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "⚠️", Value: domain.PlayErrorMessage(err)})
		}
		if view.Profile != nil {
			embed.Fields = append(embed.Fields, hudFields(view.Profile, view.Bet)...)
		}
		sendEmbed(s, i, embed)
	}

	return cmd, handler
}
