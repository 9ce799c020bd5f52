package game

import (
	"fmt"
	"time"
)

// Category groups inventory items
type Category string

const (
	CategoryConsumables Category = "Consumables"
	CategoryEnemyDrops  Category = "Enemy Drops"
	CategoryBattleItems Category = "Battle Items"
)

// Categories lists inventory categories in display order
var Categories = []Category{CategoryConsumables, CategoryEnemyDrops, CategoryBattleItems}

// Known reports whether c is one of the display categories
func (c Category) Known() bool {
	for _, k := range Categories {
		if c == k {
			return true
		}
	}
	return false
}

// ItemKind selects what using an item does
type ItemKind int

const (
	KindBooster ItemKind = iota // Rate effect, timed or permanent
	KindHeal                    // Restores player HP
	KindRevive                  // Auto-consumed on player defeat
	KindDrop                    // Enemy loot, not sold, not usable
)

var kindNames = [...]string{"booster", "heal", "revive", "drop"}

func (k ItemKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseItemKind maps a config name to an ItemKind
func ParseItemKind(s string) (ItemKind, error) {
	for i, name := range kindNames {
		if name == s {
			return ItemKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown item kind %q", s)
}

// Effect is the rate change granted by a booster; zero Duration means permanent
type Effect struct {
	RateDelta int64
	Duration  time.Duration
}

// Item is one catalog entry
type Item struct {
	Key      string
	Name     string
	Cost     int64
	Category Category
	Kind     ItemKind
	Effect   Effect // KindBooster
	Amount   int64  // HP restored for KindHeal and KindRevive
}

// ForSale reports whether the shop lists the item
func (it Item) ForSale() bool {
	return it.Kind != KindDrop
}

// Description is the one-line shop blurb
func (it Item) Description() string {
	switch it.Kind {
	case KindBooster:
		if it.Effect.Duration > 0 {
			return fmt.Sprintf("+%d CPS for %ds", it.Effect.RateDelta, int64(it.Effect.Duration/time.Second))
		}
		return fmt.Sprintf("+%d CPS forever", it.Effect.RateDelta)
	case KindHeal:
		return fmt.Sprintf("Heals %d HP", it.Amount)
	case KindRevive:
		return "Auto-heal upon death"
	default:
		return "Enemy drop"
	}
}

// Catalog is the immutable item table, iterated in insertion order
type Catalog struct {
	items []Item
	byKey map[string]int
}

// NewCatalog validates items and builds a catalog
func NewCatalog(items ...Item) (*Catalog, error) {
	c := &Catalog{
		items: make([]Item, 0, len(items)),
		byKey: make(map[string]int, len(items)),
	}
	for _, it := range items {
		if it.Key == "" {
			return nil, fmt.Errorf("catalog: item with empty key")
		}
		if _, dup := c.byKey[it.Key]; dup {
			return nil, fmt.Errorf("catalog: duplicate item %q", it.Key)
		}
		if it.Category == "" {
			return nil, fmt.Errorf("catalog: item %q has no category", it.Key)
		}
		if !it.Category.Known() {
			return nil, fmt.Errorf("catalog: item %q has unknown category %q", it.Key, it.Category)
		}
		if it.Kind == KindBooster && it.Effect.Duration < 0 {
			return nil, fmt.Errorf("catalog: item %q has negative duration", it.Key)
		}
		if it.ForSale() && it.Cost <= 0 {
			return nil, fmt.Errorf("catalog: item %q must cost more than zero", it.Key)
		}
		if it.Name == "" {
			it.Name = it.Key
		}
		c.byKey[it.Key] = len(c.items)
		c.items = append(c.items, it)
	}
	return c, nil
}

// DefaultItems is the stock shop plus the slime drop
func DefaultItems() []Item {
	return []Item{
		{
			Key: "CPS Booster", Name: "CPS Booster", Cost: 100,
			Category: CategoryConsumables, Kind: KindBooster,
			Effect: Effect{RateDelta: 10, Duration: 10 * time.Second},
		},
		{Key: "Potion", Name: "Potion", Cost: 100, Category: CategoryBattleItems, Kind: KindHeal, Amount: 50},
		{Key: "Revive", Name: "Revive", Cost: 1000, Category: CategoryBattleItems, Kind: KindRevive, Amount: 25},
		{Key: "Blue Slime Chunk", Name: "Blue Slime Chunk", Category: CategoryEnemyDrops, Kind: KindDrop},
	}
}

// DefaultCatalog builds the catalog from DefaultItems
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(DefaultItems()...)
	if err != nil {
		panic(err)
	}
	return c
}

// Lookup returns the item for key
func (c *Catalog) Lookup(key string) (Item, bool) {
	i, ok := c.byKey[key]
	if !ok {
		return Item{}, false
	}
	return c.items[i], true
}

// Items returns a copy of all entries in order
func (c *Catalog) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// ForSale returns shop entries in order
func (c *Catalog) ForSale() []Item {
	out := make([]Item, 0, len(c.items))
	for _, it := range c.items {
		if it.ForSale() {
			out = append(out, it)
		}
	}
	return out
}

// FirstOfKind returns the first item of kind k
func (c *Catalog) FirstOfKind(k ItemKind) (Item, bool) {
	for _, it := range c.items {
		if it.Kind == k {
			return it, true
		}
	}
	return Item{}, false
}

// OfKind returns all items of kind k in order
func (c *Catalog) OfKind(k ItemKind) []Item {
	var out []Item
	for _, it := range c.items {
		if it.Kind == k {
			out = append(out, it)
		}
	}
	return out
}

// CategoryOf resolves the category of a key, used to place legacy flat inventories
func (c *Catalog) CategoryOf(key string) (Category, bool) {
	it, ok := c.Lookup(key)
	if !ok {
		return "", false
	}
	return it.Category, true
}
