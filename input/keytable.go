// Package input maps terminal key events to controller intents
package input

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/clicky/engine"
	"github.com/lixenwraith/clicky/event"
)

// Behavior classifies how a key is processed
type Behavior uint8

const (
	BehaviorNone       Behavior = iota
	BehaviorIntent              // Submit Intent to the controller
	BehaviorIndex               // Digit: buy or use the n-th listed item on the current screen
	BehaviorQuit                // Save and exit
	BehaviorToggleMute          // Flip sound cues on or off
)

// KeyEntry describes a key without function pointers
type KeyEntry struct {
	Behavior Behavior
	Intent   event.Intent
}

// KeyTable holds bindings
type KeyTable struct {
	// Special keys (Ctrl+*, Escape, Backspace)
	SpecialKeys map[tcell.Key]KeyEntry

	// Rune bindings, identical on every screen
	Runes map[rune]KeyEntry
}

func intentKey(in event.Intent) KeyEntry {
	return KeyEntry{Behavior: BehaviorIntent, Intent: in}
}

// DefaultKeyTable returns the default key bindings
func DefaultKeyTable() *KeyTable {
	kt := &KeyTable{
		SpecialKeys: map[tcell.Key]KeyEntry{
			tcell.KeyCtrlC:      {Behavior: BehaviorQuit},
			tcell.KeyEscape:     {Behavior: BehaviorQuit},
			tcell.KeyBackspace:  intentKey(event.Back()),
			tcell.KeyBackspace2: intentKey(event.Back()),
			tcell.KeyEnter:      intentKey(event.Collect()),
		},

		Runes: map[rune]KeyEntry{
			'c': intentKey(event.Collect()),
			' ': intentKey(event.Collect()),
			'u': intentKey(event.PurchaseUpgrade()),
			'm': intentKey(event.PurchaseMegaUpgrade()),
			's': intentKey(event.Save()),
			'h': intentKey(event.OpenShop()),
			'i': intentKey(event.OpenInventory()),
			'f': intentKey(event.StartCombat()),
			'p': intentKey(event.UsePotion()),
			'b': intentKey(event.Back()),
			'q': {Behavior: BehaviorQuit},
			'x': {Behavior: BehaviorToggleMute},
		},
	}
	for r := '1'; r <= '9'; r++ {
		kt.Runes[r] = KeyEntry{Behavior: BehaviorIndex}
	}
	return kt
}

// Translate resolves a key on the screen described by snap
// Digits become BuyShopItem on the shop, UseInventoryItem on the inventory,
// and nothing elsewhere or past the end of the list
func (kt *KeyTable) Translate(ev *tcell.EventKey, snap *engine.Snapshot) KeyEntry {
	var entry KeyEntry
	var ok bool
	if ev.Key() == tcell.KeyRune {
		entry, ok = kt.Runes[ev.Rune()]
	} else {
		entry, ok = kt.SpecialKeys[ev.Key()]
	}
	if !ok {
		return KeyEntry{}
	}
	if entry.Behavior != BehaviorIndex {
		return entry
	}

	n := int(ev.Rune() - '1')
	switch snap.Screen {
	case engine.ScreenShop:
		if n < len(snap.Shop) {
			return intentKey(event.BuyShopItem(snap.Shop[n].Item.Key))
		}
	case engine.ScreenInventory:
		if n < len(snap.Inventory) {
			return intentKey(event.UseInventoryItem(snap.Inventory[n].Item.Key))
		}
	}
	return KeyEntry{}
}
