package engine

import (
	"sort"
	"time"

	"github.com/lixenwraith/clicky/game"
)

// ShopEntry is one purchasable item as presented
type ShopEntry struct {
	Item        game.Item
	Description string
	Affordable  bool
	Owned       int
}

// InventoryEntry is one inventory line; Usable is false for revives and drops
type InventoryEntry struct {
	Item     game.Item
	Quantity int
	Usable   bool
}

// EffectView is an active timed effect with its remaining time
type EffectView struct {
	Source    string
	RateDelta int64
	Remaining time.Duration
}

// CombatView is the fight as presented
type CombatView struct {
	EnemyName   string
	PlayerHP    int64
	PlayerMaxHP int64
	EnemyHP     int64
	EnemyMaxHP  int64
	InCombat    bool
	Victories   int
	Defeats     int
}

// Snapshot is a read-only copy of everything presentation needs
// It shares no memory with the live state
type Snapshot struct {
	Time   time.Time
	Screen Screen

	Balance  int64
	Rate     int64
	BaseRate int64

	UpgradeCost         int64
	UpgradeRateGain     int64
	MegaUpgradeCost     int64
	MegaUpgradeRateGain int64

	Shop      []ShopEntry
	Inventory []InventoryEntry
	Effects   []EffectView
	Combat    CombatView

	Message          string
	MessageRemaining time.Duration
}

// Snapshot captures the state as of now
func (c *Controller) Snapshot(now time.Time) Snapshot {
	s := c.state
	cr := c.rules.Combat

	snap := Snapshot{
		Time:                now,
		Screen:              c.screen,
		Balance:             s.Economy.Balance,
		Rate:                s.Economy.Rate,
		BaseRate:            s.Economy.BaseRate,
		UpgradeCost:         s.Economy.UpgradeCost,
		UpgradeRateGain:     s.Economy.UpgradeRateGain,
		MegaUpgradeCost:     s.Economy.MegaUpgradeCost,
		MegaUpgradeRateGain: s.Economy.MegaUpgradeRateGain,
		Combat: CombatView{
			EnemyName:   cr.EnemyName,
			PlayerHP:    s.Combat.PlayerHP,
			PlayerMaxHP: cr.PlayerMaxHP,
			EnemyHP:     s.Combat.EnemyHP,
			EnemyMaxHP:  cr.EnemyMaxHP,
			InCombat:    s.Combat.InCombat,
			Victories:   s.Combat.Victories,
			Defeats:     s.Combat.Defeats,
		},
	}
	snap.Message, snap.MessageRemaining = s.ActiveMessage(now)

	for _, it := range c.catalog.ForSale() {
		snap.Shop = append(snap.Shop, ShopEntry{
			Item:        it,
			Description: it.Description(),
			Affordable:  s.Economy.Balance >= it.Cost,
			Owned:       s.Inventory.Quantity(it.Category, it.Key),
		})
	}

	snap.Inventory = inventoryEntries(c.catalog, s.Inventory)

	for _, e := range s.Effects.List() {
		snap.Effects = append(snap.Effects, EffectView{
			Source:    e.Source,
			RateDelta: e.RateDelta,
			Remaining: e.Remaining(now),
		})
	}
	return snap
}

// inventoryEntries lists categories in display order, catalog items first,
// then keys the catalog does not know (from older saves) sorted by name
// Categories outside the display set follow the known ones, sorted by name
func inventoryEntries(cat *game.Catalog, inv game.Inventory) []InventoryEntry {
	categories := append([]game.Category(nil), game.Categories...)
	var extraCategories []string
	for category := range inv {
		if !category.Known() {
			extraCategories = append(extraCategories, string(category))
		}
	}
	sort.Strings(extraCategories)
	for _, category := range extraCategories {
		categories = append(categories, game.Category(category))
	}

	var out []InventoryEntry
	for _, category := range categories {
		seen := make(map[string]bool)
		for _, it := range cat.Items() {
			if it.Category != category {
				continue
			}
			seen[it.Key] = true
			out = append(out, InventoryEntry{
				Item:     it,
				Quantity: inv.Quantity(category, it.Key),
				Usable:   it.Kind == game.KindBooster || it.Kind == game.KindHeal,
			})
		}

		var extra []string
		for key := range inv[category] {
			if !seen[key] {
				extra = append(extra, key)
			}
		}
		sort.Strings(extra)
		for _, key := range extra {
			out = append(out, InventoryEntry{
				Item:     game.Item{Key: key, Name: key, Category: category, Kind: game.KindDrop},
				Quantity: inv.Quantity(category, key),
			})
		}
	}
	return out
}
