package domain

// Identity is the locally persisted record of who is playing.
type Identity struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
}

// IsZero reports whether no session is associated with the identity
func (i Identity) IsZero() bool {
	return i.UserID == ""
}

// Currencies holds the four economy balances shown in the HUD
type Currencies struct {
	Coins  int `json:"coins"`
	Stars  int `json:"stars"`
	Energy int `json:"energy"`
	Keys   int `json:"keys"`
}

// Profile is the authoritative player state returned by the backend.
// It is only ever replaced as a whole, never patched field by field.
type Profile struct {
	UserID      string     `json:"user_id"`
	DisplayName string     `json:"display_name"`
	Avatar      *string    `json:"avatar"`
	Currencies  Currencies `json:"currencies"`
	Level       int        `json:"level"`
	Exp         int        `json:"exp"`
	Streak      int        `json:"streak"`
}

// Starting balances for a freshly onboarded player
const (
	DefaultCoins  = 500
	DefaultStars  = 0
	DefaultEnergy = 20
	DefaultKeys   = 0
	DefaultLevel  = 1
	DefaultExp    = 0
	DefaultStreak = 0
)

// NewDefaultProfile builds the profile creation body sent during onboarding
func NewDefaultProfile(userID, displayName string) Profile {
	return Profile{
		UserID:      userID,
		DisplayName: displayName,
		Avatar:      nil,
		Currencies: Currencies{
			Coins:  DefaultCoins,
			Stars:  DefaultStars,
			Energy: DefaultEnergy,
			Keys:   DefaultKeys,
		},
		Level:  DefaultLevel,
		Exp:    DefaultExp,
		Streak: DefaultStreak,
	}
}

// Identity returns the identity part of the profile
func (p Profile) Identity() Identity {
	return Identity{UserID: p.UserID, DisplayName: p.DisplayName}
}

// Equal reports whether two profiles carry the same values
func (p Profile) Equal(o Profile) bool {
	if p.UserID != o.UserID || p.DisplayName != o.DisplayName {
		return false
	}
	if p.Currencies != o.Currencies || p.Level != o.Level || p.Exp != o.Exp || p.Streak != o.Streak {
		return false
	}
	switch {
	case p.Avatar == nil && o.Avatar == nil:
		return true
	case p.Avatar == nil || o.Avatar == nil:
		return false
	default:
		return *p.Avatar == *o.Avatar
	}
}
