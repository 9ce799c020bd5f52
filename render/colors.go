package render

import "github.com/gdamore/tcell/v2"

// RGB palette
var (
	RgbBackground = tcell.NewRGBColor(26, 27, 38)    // Tokyo Night background
	RgbText       = tcell.NewRGBColor(192, 202, 245) // Default foreground
	RgbDim        = tcell.NewRGBColor(110, 115, 140) // Unavailable entries, hints
	RgbTitle      = tcell.NewRGBColor(255, 165, 0)   // Orange headings
	RgbCoins      = tcell.NewRGBColor(255, 215, 0)   // Gold balance
	RgbRate       = tcell.NewRGBColor(80, 220, 120)  // Green CPS
	RgbAffordable = tcell.NewRGBColor(80, 220, 120)
	RgbExpensive  = tcell.NewRGBColor(255, 80, 80)
	RgbEffect     = tcell.NewRGBColor(140, 190, 255) // Blue timed effects
	RgbMessage    = tcell.NewRGBColor(255, 255, 255)
	RgbPlayerHP   = tcell.NewRGBColor(80, 220, 120)
	RgbEnemyHP    = tcell.NewRGBColor(100, 150, 255) // Slime blue
	RgbKey        = tcell.NewRGBColor(255, 165, 0)   // Key hints
)

// Styles derived from the palette
var (
	styleBase       = tcell.StyleDefault.Background(RgbBackground).Foreground(RgbText)
	styleDim        = styleBase.Foreground(RgbDim)
	styleTitle      = styleBase.Foreground(RgbTitle).Bold(true)
	styleCoins      = styleBase.Foreground(RgbCoins).Bold(true)
	styleRate       = styleBase.Foreground(RgbRate)
	styleAffordable = styleBase.Foreground(RgbAffordable)
	styleExpensive  = styleBase.Foreground(RgbExpensive)
	styleEffect     = styleBase.Foreground(RgbEffect)
	styleMessage    = styleBase.Foreground(RgbMessage).Bold(true)
	styleKey        = styleBase.Foreground(RgbKey).Bold(true)
)
