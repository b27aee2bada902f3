package terminal

import (
	"strings"

	"github.com/osse101/CozyCasino_Go/internal/domain"
	"github.com/osse101/CozyCasino_Go/internal/event"
	"github.com/osse101/CozyCasino_Go/internal/eventlog"
	"github.com/osse101/CozyCasino_Go/internal/session"
)

func (r *REPL) renderHUD(v session.View) {
	if v.Profile == nil {
		return
	}
	c := v.Profile.Currencies
	// The message printer adds thousands separators
	r.println(r.printer.Sprintf("%s  |  %d Coins  |  %d Stars  |  %d Energy  |  %d Keys  |  Bet %d",
		v.Profile.DisplayName, c.Coins, c.Stars, c.Energy, c.Keys, v.Bet))
}

func (r *REPL) renderSlot(res *domain.SlotResult) {
	if len(res.Reels) > 0 {
		rows := 0
		for _, col := range res.Reels {
			rows = max(rows, len(col))
		}
		for i := 0; i < rows; i++ {
			cells := make([]string, len(res.Reels))
			for j, col := range res.Reels {
				if i < len(col) {
					cells[j] = col[i]
				}
			}
			r.println("  [ " + strings.Join(cells, " | ") + " ]")
		}
	}
	r.println("Outcome: " + r.outcome(res.Outcome))
	r.println(r.printer.Sprintf("Win: %d coins", res.WinAmount))
}

func (r *REPL) renderMini(res *domain.MiniResult) {
	if res.Success {
		r.println(MsgMiniSuccess)
	} else {
		r.println(MsgMiniRetry)
	}
	r.println(r.printer.Sprintf("Score: %v", res.Score))
	r.println(r.printer.Sprintf("Reward: %d coins", res.Reward.Amount))
}

func (r *REPL) renderQuests(quests []domain.Quest) {
	if len(quests) == 0 {
		r.println(MsgNoQuests)
		return
	}
	for _, q := range quests {
		pct := q.ProgressPercent()
		r.println(q.Title)
		if q.Description != "" {
			r.println("  " + q.Description)
		}
		r.println(r.printer.Sprintf("  %s %d/%d (%d%%)", progressBar(pct), q.Progress, q.Target, pct))
		r.println(r.printer.Sprintf("  Reward: %d %s", q.Reward.Amount, q.Reward.Type))
	}
}

func (r *REPL) renderEvents(events []domain.Event) {
	if len(events) == 0 {
		r.println(MsgNoEvents)
		return
	}
	for _, e := range events {
		line := "* " + e.Name
		if e.Theme != "" {
			line += " (" + e.Theme + ")"
		}
		r.println(line)
	}
}

func (r *REPL) renderGames() {
	r.println("Slots:")
	for _, g := range domain.SlotThemes {
		r.printf("  %-18s %s - %s\n", g.Key, g.Name, g.Description)
	}
	r.println("Mini games:")
	for _, g := range domain.MiniGames {
		r.printf("  %-18s %s - %s\n", g.Key, g.Name, g.Description)
	}
}

func (r *REPL) renderHistory(entries []eventlog.Entry) {
	if len(entries) == 0 {
		r.println(MsgNoPlays)
		return
	}
	for _, e := range entries {
		r.println(e.CreatedAt.Local().Format(historyTimeFormat) + "  " + r.historyLine(e))
	}
}

func (r *REPL) historyLine(e eventlog.Entry) string {
	switch event.Type(e.EventType) {
	case event.PlaySucceeded:
		p, err := event.DecodePayload[event.PlaySucceededPayloadV1](e.Payload)
		if err != nil {
			break
		}
		switch {
		case p.Slot != nil:
			return r.printer.Sprintf("Spin  %s  +%d coins", r.outcome(p.Slot.Outcome), p.Slot.WinAmount)
		case p.Mini != nil && p.Mini.Success:
			return r.printer.Sprintf("Pop   %s  +%d %s", MsgMiniSuccess, p.Mini.Reward.Amount, p.Mini.Reward.Type)
		case p.Mini != nil:
			return "Pop   " + MsgMiniRetry
		}
	case event.PlayFailed:
		p, err := event.DecodePayload[event.PlayFailedPayloadV1](e.Payload)
		if err != nil {
			break
		}
		line := kindLabel(p.Kind) + "  failed"
		if p.Status != 0 {
			line += r.printer.Sprintf(" (status %d)", p.Status)
		}
		return line
	case event.OnboardingCompleted:
		return "Profile created"
	case event.SessionCleared:
		return "Logged out"
	}
	return e.EventType
}

func kindLabel(kind domain.GameKind) string {
	if kind == domain.GameKindMini {
		return "Pop "
	}
	return "Spin"
}

// outcome turns a backend outcome key such as "big_win" into "Big Win"
func (r *REPL) outcome(key string) string {
	return r.title.String(strings.ReplaceAll(key, "_", " "))
}

func progressBar(pct int) string {
	filled := pct * progressBarWidth / 100
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", progressBarWidth-filled) + "]"
}
