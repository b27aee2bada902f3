package domain

// Game describes an entry of the slot or mini game catalog.
// Key is the value sent to the backend as theme or game.
type Game struct {
	Key         string   `json:"key"`
	Kind        GameKind `json:"kind"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
}

// Default play targets
const (
	DefaultSlotTheme = "sunny_garden"
	DefaultMiniGame  = "bubble_pop"
)

// SlotThemes lists the slot machines offered in the lobby
var SlotThemes = []Game{
	{Key: "sunny_garden", Kind: GameKindSlot, Name: "Sunny Garden Spin", Description: "Flowers, butterflies and a golden carrot jackpot."},
	{Key: "candy_carnival", Kind: GameKindSlot, Name: "Candy Carnival Wheel", Description: "Cupcakes, popcorn and candy wilds."},
	{Key: "pirate_treasure", Kind: GameKindSlot, Name: "Pirate Treasure Reels", Description: "Anchors, parrots and chest scatters."},
	{Key: "fairytale_forest", Kind: GameKindSlot, Name: "Fairytale Forest Fortune", Description: "Mushrooms, crystals and magical vines."},
	{Key: "royal_pet_palace", Kind: GameKindSlot, Name: "Royal Pet Palace", Description: "Cats, yarn and playful jackpots."},
}

// MiniGames lists the instant games offered in the lobby
var MiniGames = []Game{
	{Key: "lucky_flip", Kind: GameKindMini, Name: "Lucky Flip Tiles", Description: "Match pairs to win!"},
	{Key: "bubble_pop", Kind: GameKindMini, Name: "Bubble Pop Chance", Description: "Pop before the timer ends."},
	{Key: "treasure_drop", Kind: GameKindMini, Name: "Treasure Drop Path", Description: "One nudge before landing."},
	{Key: "magic_timing", Kind: GameKindMini, Name: "Magic Timing Ring", Description: "Stop in the green zone."},
	{Key: "puzzle_pick", Kind: GameKindMini, Name: "Puzzle Pick Chest", Description: "Choose a chest with hints."},
}

// LookupGame finds a catalog entry by kind and key
func LookupGame(kind GameKind, key string) (Game, bool) {
	list := SlotThemes
	if kind == GameKindMini {
		list = MiniGames
	}
	for _, g := range list {
		if g.Key == key {
			return g, true
		}
	}
	return Game{}, false
}
