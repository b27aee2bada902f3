package domain

import "slices"

// GameKind identifies one of the two independently tracked play surfaces
type GameKind string

const (
	GameKindSlot GameKind = "slot" // Slot machine spin
	GameKindMini GameKind = "mini" // Instant mini game
)

// GameKinds lists every play surface
var GameKinds = []GameKind{GameKindSlot, GameKindMini}

// AllowedBets is the fixed set of bet amounts the slot machine accepts
var AllowedBets = []int{10, 20, 50, 100}

// DefaultBet is the bet preselected for a new session
const DefaultBet = 10

// IsAllowedBet reports whether bet is one of AllowedBets
func IsAllowedBet(bet int) bool {
	return slices.Contains(AllowedBets, bet)
}

// SlotPlayRequest is the body of POST /play/slot
type SlotPlayRequest struct {
	UserID string `json:"user_id"`
	Theme  string `json:"theme"`
	Bet    int    `json:"bet"`
}

// MiniPlayRequest is the body of POST /play/mini
type MiniPlayRequest struct {
	UserID string `json:"user_id"`
	Game   string `json:"game"`
}

// SlotResult is the outcome of a slot spin.
// Reels holds one column of symbols per reel.
type SlotResult struct {
	Reels     [][]string `json:"reels"`
	Outcome   string     `json:"outcome"`
	WinAmount int        `json:"win_amount"`
}

// IsWin reports whether the spin paid out
func (r *SlotResult) IsWin() bool {
	return r != nil && r.WinAmount > 0
}

// Reward is a currency grant attached to quests and mini games
type Reward struct {
	Amount int    `json:"amount"`
	Type   string `json:"type"`
}

// MiniResult is the outcome of a mini game round
type MiniResult struct {
	Success bool    `json:"success"`
	Score   float64 `json:"score"`
	Reward  Reward  `json:"reward"`
}

// PlayState is the lifecycle of a single play surface
type PlayState int

const (
	PlayStateIdle PlayState = iota
	PlayStateSubmitting
	PlayStateSucceeded
	PlayStateFailed
)

func (s PlayState) String() string {
	switch s {
	case PlayStateIdle:
		return "idle"
	case PlayStateSubmitting:
		return "submitting"
	case PlayStateSucceeded:
		return "succeeded"
	case PlayStateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// MarshalText renders the state by name in JSON snapshots
func (s PlayState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
