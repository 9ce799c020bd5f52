package input

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"

	"github.com/lixenwraith/clicky/engine"
	"github.com/lixenwraith/clicky/event"
	"github.com/lixenwraith/clicky/game"
)

func runeKey(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func testSnapshot(screen engine.Screen) *engine.Snapshot {
	return &engine.Snapshot{
		Screen: screen,
		Shop: []engine.ShopEntry{
			{Item: game.Item{Key: "CPS Booster"}},
			{Item: game.Item{Key: "Potion"}},
		},
		Inventory: []engine.InventoryEntry{
			{Item: game.Item{Key: "CPS Booster"}},
			{Item: game.Item{Key: "Blue Slime Chunk"}},
			{Item: game.Item{Key: "Potion"}},
		},
	}
}

func TestTranslate_Runes(t *testing.T) {
	kt := DefaultKeyTable()
	snap := testSnapshot(engine.ScreenMain)

	tests := []struct {
		key  rune
		want event.Intent
	}{
		{'c', event.Collect()},
		{' ', event.Collect()},
		{'u', event.PurchaseUpgrade()},
		{'m', event.PurchaseMegaUpgrade()},
		{'s', event.Save()},
		{'h', event.OpenShop()},
		{'i', event.OpenInventory()},
		{'f', event.StartCombat()},
		{'p', event.UsePotion()},
		{'b', event.Back()},
	}
	for _, tt := range tests {
		got := kt.Translate(runeKey(tt.key), snap)
		assert.Equal(t, BehaviorIntent, got.Behavior, "key %q", tt.key)
		assert.Equal(t, tt.want, got.Intent, "key %q", tt.key)
	}

	assert.Equal(t, BehaviorQuit, kt.Translate(runeKey('q'), snap).Behavior)
	assert.Equal(t, BehaviorToggleMute, kt.Translate(runeKey('x'), snap).Behavior)
	assert.Equal(t, BehaviorNone, kt.Translate(runeKey('z'), snap).Behavior)
}

func TestTranslate_SpecialKeys(t *testing.T) {
	kt := DefaultKeyTable()
	snap := testSnapshot(engine.ScreenMain)

	assert.Equal(t, BehaviorQuit, kt.Translate(tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl), snap).Behavior)
	assert.Equal(t, BehaviorQuit, kt.Translate(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), snap).Behavior)
	assert.Equal(t, event.Back(), kt.Translate(tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone), snap).Intent)
}

func TestTranslate_DigitsFollowScreen(t *testing.T) {
	kt := DefaultKeyTable()

	got := kt.Translate(runeKey('2'), testSnapshot(engine.ScreenShop))
	assert.Equal(t, event.BuyShopItem("Potion"), got.Intent)

	got = kt.Translate(runeKey('3'), testSnapshot(engine.ScreenInventory))
	assert.Equal(t, event.UseInventoryItem("Potion"), got.Intent)

	assert.Equal(t, BehaviorNone, kt.Translate(runeKey('3'), testSnapshot(engine.ScreenShop)).Behavior)
	assert.Equal(t, BehaviorNone, kt.Translate(runeKey('1'), testSnapshot(engine.ScreenMain)).Behavior)
	assert.Equal(t, BehaviorNone, kt.Translate(runeKey('1'), testSnapshot(engine.ScreenCombat)).Behavior)
}
