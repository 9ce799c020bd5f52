package engine

import "fmt"

// Screen is the view the player is on
// Screens only affect presentation and Back; every subsystem ticks regardless
type Screen int

const (
	ScreenMain Screen = iota
	ScreenShop
	ScreenInventory
	ScreenCombat
	screenCount
)

var screenNames = [screenCount]string{"main", "shop", "inventory", "combat"}

func (s Screen) String() string {
	if s >= 0 && s < screenCount {
		return screenNames[s]
	}
	return fmt.Sprintf("screen(%d)", int(s))
}
