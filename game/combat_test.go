package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startedFight(t *testing.T) (*State, *Resolver) {
	t.Helper()
	s, r, c := newTestState()
	res := NewResolver(r.Combat, c)
	require.NoError(t, res.Start(s, t0))
	return s, res
}

func TestResolver_StartResetsHP(t *testing.T) {
	s, r, c := newTestState()
	res := NewResolver(r.Combat, c)
	s.Combat.PlayerHP, s.Combat.EnemyHP = 3, 1

	require.NoError(t, res.Start(s, t0))
	assert.True(t, s.Combat.InCombat)
	assert.Equal(t, int64(100), s.Combat.PlayerHP)
	assert.Equal(t, int64(10), s.Combat.EnemyHP)
	assert.Equal(t, t0, s.Combat.LastTickAt)

	assert.ErrorIs(t, res.Start(s, t0.Add(time.Second)), ErrInvalidTransition)
	assert.Equal(t, t0, s.Combat.LastTickAt)
}

func TestResolver_NoRoundBeforeInterval(t *testing.T) {
	s, res := startedFight(t)

	round := res.Tick(s, t0.Add(999*time.Millisecond))
	assert.Equal(t, OutcomeNone, round.Outcome)
	assert.Equal(t, int64(10), s.Combat.EnemyHP)
}

func TestResolver_ExchangeCarriesForward(t *testing.T) {
	s, res := startedFight(t)

	round := res.Tick(s, t0.Add(1500*time.Millisecond))
	assert.Equal(t, OutcomeExchange, round.Outcome)
	assert.Equal(t, int64(9), s.Combat.EnemyHP)
	assert.Equal(t, int64(99), s.Combat.PlayerHP)
	assert.Equal(t, t0.Add(time.Second), s.Combat.LastTickAt)

	// 0.5s carried, another 0.5s completes the second round
	round = res.Tick(s, t0.Add(2*time.Second))
	assert.Equal(t, OutcomeExchange, round.Outcome)
	assert.Equal(t, int64(8), s.Combat.EnemyHP)
}

func TestResolver_OneExchangePerTick(t *testing.T) {
	s, res := startedFight(t)

	res.Tick(s, t0.Add(5*time.Second))
	assert.Equal(t, int64(9), s.Combat.EnemyHP)
	assert.Equal(t, t0.Add(5*time.Second), s.Combat.LastTickAt)
}

func TestResolver_TieBreakFavorsPlayer(t *testing.T) {
	s, res := startedFight(t)
	s.Combat.EnemyHP, s.Combat.PlayerHP = 1, 1
	s.Economy.Balance = 100

	round := res.Tick(s, t0.Add(time.Second))
	assert.Equal(t, OutcomeVictory, round.Outcome)
	assert.False(t, s.Combat.InCombat)
	assert.Equal(t, 1, s.Inventory.Quantity(CategoryEnemyDrops, "Blue Slime Chunk"))
	assert.Equal(t, int64(100), s.Economy.Balance)
	assert.Equal(t, int64(0), s.Combat.PlayerHP)
	assert.Equal(t, 1, s.Combat.Victories)
}

func TestResolver_DefeatWithoutRevive(t *testing.T) {
	s, res := startedFight(t)
	s.Combat.PlayerHP = 1
	s.Economy.Balance = 101

	round := res.Tick(s, t0.Add(time.Second))
	assert.Equal(t, OutcomeDefeat, round.Outcome)
	assert.Equal(t, int64(50), round.Lost)
	assert.Equal(t, int64(51), s.Economy.Balance)
	assert.False(t, s.Combat.InCombat)
	assert.Equal(t, 1, s.Combat.Defeats)
	assert.Zero(t, s.Inventory.Quantity(CategoryEnemyDrops, "Blue Slime Chunk"))
}

func TestResolver_DefeatWithRevive(t *testing.T) {
	s, res := startedFight(t)
	s.Combat.PlayerHP = 1
	s.Economy.Balance = 100
	s.Inventory.Add(CategoryBattleItems, "Revive", 1)

	round := res.Tick(s, t0.Add(time.Second))
	assert.Equal(t, OutcomeRevived, round.Outcome)
	assert.Equal(t, "Revive", round.Revive.Key)
	assert.True(t, s.Combat.InCombat)
	assert.Equal(t, int64(25), s.Combat.PlayerHP)
	assert.Equal(t, 0, s.Inventory.Quantity(CategoryBattleItems, "Revive"))
	assert.Equal(t, int64(100), s.Economy.Balance)

	// Fight continues afterwards
	round = res.Tick(s, t0.Add(2*time.Second))
	assert.Equal(t, OutcomeExchange, round.Outcome)
	assert.Equal(t, int64(24), s.Combat.PlayerHP)
}

func TestResolver_FullFight(t *testing.T) {
	s, res := startedFight(t)

	var last Round
	now := t0
	for i := 0; i < 20 && s.Combat.InCombat; i++ {
		now = now.Add(time.Second)
		last = res.Tick(s, now)
	}
	assert.Equal(t, OutcomeVictory, last.Outcome)
	assert.Equal(t, int64(90), s.Combat.PlayerHP)
}

func TestResolver_Flee(t *testing.T) {
	s, res := startedFight(t)

	require.NoError(t, res.Flee(s))
	assert.False(t, s.Combat.InCombat)
	assert.ErrorIs(t, res.Flee(s), ErrInvalidTransition)
	assert.Equal(t, OutcomeNone, res.Tick(s, t0.Add(10*time.Second)).Outcome)
}
