package game

import (
	"fmt"
	"time"
)

// Outcome is the result of one combat tick
type Outcome int

const (
	OutcomeNone     Outcome = iota // No round elapsed or not in combat
	OutcomeExchange                // Both sides hit, fight goes on
	OutcomeVictory                 // Enemy died, loot granted
	OutcomeRevived                 // Player died and a revive was consumed
	OutcomeDefeat                  // Player died, half the balance lost
)

var outcomeNames = [...]string{"none", "exchange", "victory", "revived", "defeat"}

func (o Outcome) String() string {
	if int(o) < len(outcomeNames) {
		return outcomeNames[o]
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// Round reports what a combat tick did
type Round struct {
	Outcome     Outcome
	DamageDealt int64
	DamageTaken int64
	Drop        Item  // OutcomeVictory
	Revive      Item  // OutcomeRevived
	Lost        int64 // OutcomeDefeat
}

// Resolver runs the turn-based fight against the configured enemy
//
// States: Idle -> InCombat -> Idle via victory, defeat or flee
// A revive keeps the fight in InCombat
type Resolver struct {
	rules   CombatRules
	catalog *Catalog
}

// NewResolver creates a resolver for rules; the catalog supplies drop and revive items
func NewResolver(r CombatRules, c *Catalog) *Resolver {
	return &Resolver{rules: r, catalog: c}
}

// Rules returns the resolver's parameters
func (r *Resolver) Rules() CombatRules {
	return r.rules
}

// Start begins a fight at full HP; only valid from Idle
func (r *Resolver) Start(s *State, now time.Time) error {
	if s.Combat.InCombat {
		return fmt.Errorf("start combat: %w", ErrInvalidTransition)
	}
	s.Combat.PlayerHP = r.rules.PlayerMaxHP
	s.Combat.EnemyHP = r.rules.EnemyMaxHP
	s.Combat.StartedAt = now
	s.Combat.LastTickAt = now
	s.Combat.InCombat = true
	return nil
}

// Flee ends the fight with no loot and no penalty
func (r *Resolver) Flee(s *State) error {
	if !s.Combat.InCombat {
		return fmt.Errorf("flee: %w", ErrInvalidTransition)
	}
	s.Combat.InCombat = false
	return nil
}

// Tick resolves at most one simultaneous exchange once a round has elapsed
// LastTickAt advances by whole rounds so remainders carry forward
// Enemy death is checked before player death, so mutual kills are victories
func (r *Resolver) Tick(s *State, now time.Time) Round {
	c := &s.Combat
	if !c.InCombat {
		return Round{}
	}
	elapsed := now.Sub(c.LastTickAt)
	if elapsed < r.rules.Round {
		return Round{}
	}
	rounds := elapsed / r.rules.Round
	c.LastTickAt = c.LastTickAt.Add(rounds * r.rules.Round)

	c.EnemyHP -= r.rules.PlayerDamage
	c.PlayerHP -= r.rules.EnemyDamage
	round := Round{
		Outcome:     OutcomeExchange,
		DamageDealt: r.rules.PlayerDamage,
		DamageTaken: r.rules.EnemyDamage,
	}

	switch {
	case c.EnemyHP <= 0:
		c.EnemyHP = 0
		c.PlayerHP = max(c.PlayerHP, 0)
		c.InCombat = false
		c.Victories++
		round.Outcome = OutcomeVictory
		if drop, ok := r.catalog.Lookup(r.rules.DropKey); ok {
			s.Inventory.Add(drop.Category, drop.Key, 1)
			round.Drop = drop
		} else {
			s.Inventory.Add(CategoryEnemyDrops, r.rules.DropKey, 1)
			round.Drop = Item{Key: r.rules.DropKey, Name: r.rules.DropKey, Category: CategoryEnemyDrops, Kind: KindDrop}
		}

	case c.PlayerHP <= 0:
		if revive, ok := r.takeRevive(s); ok {
			c.PlayerHP = min(max(revive.Amount, 1), r.rules.PlayerMaxHP)
			round.Outcome = OutcomeRevived
			round.Revive = revive
			break
		}
		c.PlayerHP = 0
		c.InCombat = false
		c.Defeats++
		round.Outcome = OutcomeDefeat
		round.Lost = s.Economy.Balance / 2
		s.Economy.Balance -= round.Lost
	}
	return round
}

// takeRevive consumes the first owned revive item
func (r *Resolver) takeRevive(s *State) (Item, bool) {
	for _, it := range r.catalog.OfKind(KindRevive) {
		if s.Inventory.Take(it.Category, it.Key) == nil {
			return it, true
		}
	}
	return Item{}, false
}
