package profile

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/CozyCasino_Go/internal/domain"
)

func withCoins(coins int) domain.Profile {
	p := domain.NewDefaultProfile("user_1", "Robin")
	p.Currencies.Coins = coins
	return p
}

func TestCache_Empty(t *testing.T) {
	c := NewCache()
	_, ok := c.Get()
	assert.False(t, ok)
	assert.Equal(t, "", c.UserID())
	assert.Equal(t, uint64(0), c.Version())
}

func TestCache_ReplaceIsWholesale(t *testing.T) {
	c := NewCache()
	avatar := "cat"
	first := withCoins(500)
	first.Avatar = &avatar
	c.Replace(first)

	second := withCoins(480)
	c.Replace(second)

	got, ok := c.Get()
	require.True(t, ok)
	assert.Equal(t, second, got)
	assert.Nil(t, got.Avatar)
}

func TestCache_StaleResponseDiscarded(t *testing.T) {
	c := NewCache()
	older := c.Begin()
	newer := c.Begin()

	assert.True(t, c.Apply(newer, withCoins(460)))
	assert.False(t, c.Apply(older, withCoins(480)))

	got, _ := c.Get()
	assert.Equal(t, 460, got.Currencies.Coins)
	assert.Equal(t, uint64(newer), c.Version())
}

func TestCache_InOrderResponsesApplied(t *testing.T) {
	c := NewCache()
	first := c.Begin()
	second := c.Begin()

	assert.True(t, c.Apply(first, withCoins(480)))
	assert.True(t, c.Apply(second, withCoins(460)))

	got, _ := c.Get()
	assert.Equal(t, 460, got.Currencies.Coins)
}

func TestCache_ReplaceSupersedesOutstandingTicket(t *testing.T) {
	c := NewCache()
	pending := c.Begin()
	c.Replace(withCoins(100))

	assert.False(t, c.Apply(pending, withCoins(999)))
	got, _ := c.Get()
	assert.Equal(t, 100, got.Currencies.Coins)
}

func TestCache_ClearInvalidatesTickets(t *testing.T) {
	c := NewCache()
	c.Replace(withCoins(500))
	pending := c.Begin()

	c.Clear()
	_, ok := c.Get()
	assert.False(t, ok)

	assert.False(t, c.Apply(pending, withCoins(480)))
	_, ok = c.Get()
	assert.False(t, ok)

	assert.True(t, c.Apply(c.Begin(), withCoins(480)))
}

func TestCache_ApplyRefreshRequiresSameUser(t *testing.T) {
	c := NewCache()

	assert.False(t, c.ApplyRefresh(c.Begin(), withCoins(500)), "empty cache takes no refresh")

	c.Replace(withCoins(500))
	ticket := c.Begin()
	other := domain.NewDefaultProfile("user_2", "Bea")
	c.Replace(other)
	assert.False(t, c.ApplyRefresh(c.Begin(), withCoins(900)), "refresh of a replaced user")
	assert.False(t, c.ApplyRefresh(ticket, withCoins(900)))
	assert.Equal(t, "user_2", c.UserID())

	refreshed := other
	refreshed.Currencies.Coins = 320
	require.True(t, c.ApplyRefresh(c.Begin(), refreshed))
	got, _ := c.Get()
	assert.Equal(t, 320, got.Currencies.Coins)

	stale := c.Begin()
	c.Clear()
	assert.False(t, c.ApplyRefresh(stale, refreshed), "refresh after clear")
	_, ok := c.Get()
	assert.False(t, ok)
}

func TestCache_GetReturnsCopy(t *testing.T) {
	c := NewCache()
	c.Replace(withCoins(500))

	got, _ := c.Get()
	got.Currencies.Coins = 0

	again, _ := c.Get()
	assert.Equal(t, 500, again.Currencies.Coins)
}

func TestCache_ConcurrentApply(t *testing.T) {
	c := NewCache()
	tickets := make([]Ticket, 50)
	for i := range tickets {
		tickets[i] = c.Begin()
	}

	var wg sync.WaitGroup
	for i, ticket := range tickets {
		wg.Add(1)
		go func(i int, ticket Ticket) {
			defer wg.Done()
			c.Apply(ticket, withCoins(i))
		}(i, ticket)
	}
	wg.Wait()

	got, _ := c.Get()
	assert.Equal(t, len(tickets)-1, got.Currencies.Coins)
	assert.Equal(t, uint64(tickets[len(tickets)-1]), c.Version())
}
