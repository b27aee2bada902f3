package discord

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/osse101/CozyCasino_Go/internal/domain"
	"github.com/osse101/CozyCasino_Go/internal/event"
	"github.com/osse101/CozyCasino_Go/internal/eventlog"
)

const (
	progressBarWidth = 10
	maxEmbedFields   = 25
)

// formatNumber adds thousands separators
func formatNumber(n int) string {
	return message.NewPrinter(language.English).Sprintf("%d", n)
}

// formatOutcome turns a backend outcome key such as "big_win" into "Big Win"
func formatOutcome(key string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(key, "_", " "))
}

// hudFields renders the balances of p
func hudFields(p *domain.Profile, bet int) []*discordgo.MessageEmbedField {
	c := p.Currencies
	return []*discordgo.MessageEmbedField{
		{Name: "🪙 Coins", Value: formatNumber(c.Coins), Inline: true},
		{Name: "⭐ Stars", Value: formatNumber(c.Stars), Inline: true},
		{Name: "⚡ Energy", Value: formatNumber(c.Energy), Inline: true},
		{Name: "🔑 Keys", Value: formatNumber(c.Keys), Inline: true},
		{Name: "🎚️ Bet", Value: formatNumber(bet), Inline: true},
	}
}

// formatReels lays the reel columns out as rows
func formatReels(reels [][]string) string {
	rows := 0
	for _, col := range reels {
		rows = max(rows, len(col))
	}
	var sb strings.Builder
	for i := 0; i < rows; i++ {
		cells := make([]string, len(reels))
		for j, col := range reels {
			if i < len(col) {
				cells[j] = col[i]
			}
		}
		sb.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	return sb.String()
}

func progressBar(pct int) string {
	filled := pct * progressBarWidth / 100
	return strings.Repeat("🟩", filled) + strings.Repeat("⬜", progressBarWidth-filled)
}

func questField(q domain.Quest) *discordgo.MessageEmbedField {
	pct := q.ProgressPercent()
	value := fmt.Sprintf("%s %d/%d (%d%%)\nReward: %s %s",
		progressBar(pct), q.Progress, q.Target, pct, formatNumber(q.Reward.Amount), q.Reward.Type)
	if q.Description != "" {
		value = q.Description + "\n" + value
	}
	return &discordgo.MessageEmbedField{Name: q.Title, Value: value}
}

// catalogChoices lists the games of kind as command choices
func catalogChoices(games []domain.Game) []*discordgo.ApplicationCommandOptionChoice {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(games))
	for _, g := range games {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: g.Name, Value: g.Key})
	}
	return choices
}

// gameTitle returns the catalog name of key, or key itself
func gameTitle(kind domain.GameKind, key string) string {
	if g, ok := domain.LookupGame(kind, key); ok {
		return g.Name
	}
	return key
}

// formatHistoryEntry renders a journal entry with a Discord relative timestamp
func formatHistoryEntry(e eventlog.Entry) string {
	when := fmt.Sprintf("<t:%d:R>", e.CreatedAt.Unix())
	switch event.Type(e.EventType) {
	case event.PlaySucceeded:
		p, err := event.DecodePayload[event.PlaySucceededPayloadV1](e.Payload)
		if err != nil {
			break
		}
		switch {
		case p.Slot != nil:
			return fmt.Sprintf("%s 🎰 %s **+%s**", when, formatOutcome(p.Slot.Outcome), formatNumber(p.Slot.WinAmount))
		case p.Mini != nil && p.Mini.Success:
			return fmt.Sprintf("%s 🫧 %s **+%s** %s", when, MsgMiniSuccess, formatNumber(p.Mini.Reward.Amount), p.Mini.Reward.Type)
		case p.Mini != nil:
			return fmt.Sprintf("%s 🫧 %s", when, MsgMiniRetry)
		}
	case event.PlayFailed:
		p, err := event.DecodePayload[event.PlayFailedPayloadV1](e.Payload)
		if err != nil {
			break
		}
		icon := "🎰"
		if p.Kind == domain.GameKindMini {
			icon = "🫧"
		}
		if p.Status != 0 {
			return fmt.Sprintf("%s %s failed (%d)", when, icon, p.Status)
		}
		return fmt.Sprintf("%s %s failed", when, icon)
	case event.OnboardingCompleted:
		return when + " 🎉 Profile created"
	case event.SessionCleared:
		return when + " 👋 Logged out"
	}
	return when + " " + e.EventType
}
