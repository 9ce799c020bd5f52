package game

import "fmt"

// Inventory maps category to item key to owned quantity
type Inventory map[Category]map[string]int

// NewInventory seeds every catalog item at zero so screens can list them
func NewInventory(c *Catalog) Inventory {
	inv := make(Inventory, len(Categories))
	for _, cat := range Categories {
		inv[cat] = make(map[string]int)
	}
	if c == nil {
		return inv
	}
	for _, it := range c.items {
		inv.ensure(it.Category)[it.Key] = 0
	}
	return inv
}

func (inv Inventory) ensure(cat Category) map[string]int {
	m, ok := inv[cat]
	if !ok {
		m = make(map[string]int)
		inv[cat] = m
	}
	return m
}

// Quantity returns the owned count, zero when absent
func (inv Inventory) Quantity(cat Category, key string) int {
	return inv[cat][key]
}

// Add increments a quantity; negative n is ignored
func (inv Inventory) Add(cat Category, key string, n int) {
	if n <= 0 {
		return
	}
	inv.ensure(cat)[key] += n
}

// Take removes one unit, refusing when none is owned
func (inv Inventory) Take(cat Category, key string) error {
	m := inv[cat]
	if m[key] <= 0 {
		return fmt.Errorf("%s: %w", key, ErrItemNotOwned)
	}
	m[key]--
	return nil
}

// Set overwrites a quantity, flooring at zero
func (inv Inventory) Set(cat Category, key string, n int) {
	if n < 0 {
		n = 0
	}
	inv.ensure(cat)[key] = n
}

// Clone deep-copies the inventory
func (inv Inventory) Clone() Inventory {
	out := make(Inventory, len(inv))
	for cat, items := range inv {
		m := make(map[string]int, len(items))
		for k, v := range items {
			m[k] = v
		}
		out[cat] = m
	}
	return out
}
