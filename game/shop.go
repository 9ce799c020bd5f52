package game

import (
	"fmt"
	"time"
)

// Shop sells catalog items and applies their use effects
type Shop struct {
	catalog *Catalog
	rules   CombatRules
}

// NewShop binds a catalog to the combat rules heal items clamp against
func NewShop(c *Catalog, r CombatRules) *Shop {
	return &Shop{catalog: c, rules: r}
}

// Catalog returns the shop's catalog
func (sh *Shop) Catalog() *Catalog {
	return sh.catalog
}

// Buy charges the item cost and adds one to the inventory
func (sh *Shop) Buy(s *State, key string) (Item, error) {
	it, ok := sh.catalog.Lookup(key)
	if !ok || !it.ForSale() {
		return Item{}, fmt.Errorf("%s: %w", key, ErrUnknownItem)
	}
	if s.Economy.Balance < it.Cost {
		return it, fmt.Errorf("%s costs %d, have %d: %w", it.Name, it.Cost, s.Economy.Balance, ErrInsufficientFunds)
	}
	s.Economy.Balance -= it.Cost
	s.Inventory.Add(it.Category, it.Key, 1)
	return it, nil
}

// UseResult describes what an item use did
type UseResult struct {
	Item      Item
	Effect    TimedEffect
	Permanent bool
	Healed    int64
}

// Use consumes one owned item and dispatches on its kind
func (sh *Shop) Use(s *State, key string, now time.Time) (UseResult, error) {
	it, ok := sh.catalog.Lookup(key)
	if !ok {
		return UseResult{}, fmt.Errorf("%s: %w", key, ErrUnknownItem)
	}
	res := UseResult{Item: it}
	if s.Inventory.Quantity(it.Category, it.Key) <= 0 {
		return res, fmt.Errorf("%s: %w", it.Name, ErrItemNotOwned)
	}

	switch it.Kind {
	case KindBooster:
		if err := s.Inventory.Take(it.Category, it.Key); err != nil {
			return res, err
		}
		e, timed := s.Effects.Apply(&s.Economy, it.Key, it.Effect.RateDelta, it.Effect.Duration, now)
		res.Effect = e
		res.Permanent = !timed
	case KindHeal:
		if err := s.Inventory.Take(it.Category, it.Key); err != nil {
			return res, err
		}
		res.Healed = heal(&s.Combat, it.Amount, sh.rules.PlayerMaxHP)
	default:
		return res, fmt.Errorf("%s: %w", it.Name, ErrNotUsable)
	}
	return res, nil
}

// heal raises HP by amount clamped to maxHP and returns the HP actually gained
func heal(c *CombatState, amount, maxHP int64) int64 {
	before := c.PlayerHP
	c.PlayerHP += amount
	if c.PlayerHP > maxHP {
		c.PlayerHP = maxHP
	}
	return c.PlayerHP - before
}
