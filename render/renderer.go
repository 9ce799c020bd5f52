// Package render draws engine snapshots onto a tcell screen
package render

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/clicky/engine"
	"github.com/lixenwraith/clicky/game"
)

const (
	leftMargin = 2
	hpBarWidth = 20
)

// Renderer draws one snapshot per frame
// Draw is called from a single goroutine; the snapshot is a value copy
type Renderer struct {
	screen tcell.Screen
	muted  bool
}

// NewRenderer creates a renderer on an initialized screen
func NewRenderer(screen tcell.Screen) *Renderer {
	return &Renderer{screen: screen}
}

// SetMuted toggles the sound indicator in the header
func (r *Renderer) SetMuted(muted bool) {
	r.muted = muted
}

// Draw renders a complete frame and shows it
func (r *Renderer) Draw(snap engine.Snapshot) {
	s := r.screen
	s.SetStyle(styleBase)
	s.Clear()

	width, height := s.Size()
	if width <= leftMargin || height < 4 {
		s.Show()
		return
	}

	y := r.drawHeader(snap, width)
	y++

	switch snap.Screen {
	case engine.ScreenShop:
		r.drawShop(snap, y, width)
	case engine.ScreenInventory:
		r.drawInventory(snap, y, width)
	case engine.ScreenCombat:
		r.drawCombat(snap, y, width)
	default:
		r.drawMain(snap, y, width)
	}

	if snap.Message != "" {
		drawText(s, leftMargin, height-2, width, styleMessage, snap.Message)
	}
	drawText(s, leftMargin, height-1, width, styleDim, helpLine(snap.Screen))
	s.Show()
}

// drawHeader writes the title and balance lines, returns the next free row
func (r *Renderer) drawHeader(snap engine.Snapshot, width int) int {
	s := r.screen
	title := "CLICKY"
	if r.muted {
		title += " [muted]"
	}
	drawText(s, leftMargin, 0, width, styleTitle, title)
	drawSpans(s, leftMargin, 1, width,
		span{"Coins: ", styleBase},
		span{humanize.Comma(snap.Balance), styleCoins},
		span{"   CPS: ", styleBase},
		span{humanize.Comma(snap.Rate), styleRate},
		span{fmt.Sprintf(" (base %s)", humanize.Comma(snap.BaseRate)), styleDim},
	)
	return 2
}

func (r *Renderer) drawMain(snap engine.Snapshot, y, width int) {
	s := r.screen
	costStyle := func(cost int64) tcell.Style {
		if snap.Balance >= cost {
			return styleAffordable
		}
		return styleExpensive
	}

	drawSpans(s, leftMargin, y, width, span{"[c] ", styleKey}, span{"Collect coin", styleBase})
	y++
	drawSpans(s, leftMargin, y, width,
		span{"[u] ", styleKey},
		span{fmt.Sprintf("Upgrade +%d CPS  ", snap.UpgradeRateGain), styleBase},
		span{humanize.Comma(snap.UpgradeCost) + " coins", costStyle(snap.UpgradeCost)},
	)
	y++
	drawSpans(s, leftMargin, y, width,
		span{"[m] ", styleKey},
		span{fmt.Sprintf("Mega upgrade +%d CPS  ", snap.MegaUpgradeRateGain), styleBase},
		span{humanize.Comma(snap.MegaUpgradeCost) + " coins", costStyle(snap.MegaUpgradeCost)},
	)
	y += 2

	if len(snap.Effects) == 0 {
		return
	}
	drawText(s, leftMargin, y, width, styleTitle, "Active Effects")
	y++
	for _, e := range snap.Effects {
		line := fmt.Sprintf("%s +%d CPS  %s left", e.Source, e.RateDelta, formatRemaining(e.Remaining))
		drawText(s, leftMargin+2, y, width, styleEffect, line)
		y++
	}
}

func (r *Renderer) drawShop(snap engine.Snapshot, y, width int) {
	s := r.screen
	drawText(s, leftMargin, y, width, styleTitle, "Shop")
	y++
	if len(snap.Shop) == 0 {
		drawText(s, leftMargin+2, y, width, styleDim, "Nothing for sale")
		return
	}

	nameWidth := 0
	for _, e := range snap.Shop {
		nameWidth = max(nameWidth, len(e.Item.Name))
	}
	for i, e := range snap.Shop {
		style := styleExpensive
		if e.Affordable {
			style = styleAffordable
		}
		drawSpans(s, leftMargin+2, y, width,
			span{fmt.Sprintf("[%d] ", i+1), styleKey},
			span{padRight(e.Item.Name, nameWidth+2), styleBase},
			span{padRight(humanize.Comma(e.Item.Cost)+" coins", 14), style},
			span{padRight(e.Description, 24), styleDim},
			span{fmt.Sprintf("owned %d", e.Owned), styleBase},
		)
		y++
	}
}

func (r *Renderer) drawInventory(snap engine.Snapshot, y, width int) {
	s := r.screen
	drawText(s, leftMargin, y, width, styleTitle, "Inventory")
	y++

	var current game.Category
	for i, e := range snap.Inventory {
		if e.Item.Category != current {
			current = e.Item.Category
			drawText(s, leftMargin+2, y, width, styleBase.Underline(true), string(current))
			y++
		}
		style := styleBase
		if !e.Usable || e.Quantity == 0 {
			style = styleDim
		}
		drawSpans(s, leftMargin+4, y, width,
			span{fmt.Sprintf("[%d] ", i+1), styleKey},
			span{fmt.Sprintf("%s x%d", e.Item.Name, e.Quantity), style},
		)
		y++
	}
}

func (r *Renderer) drawCombat(snap engine.Snapshot, y, width int) {
	s := r.screen
	c := snap.Combat

	if !c.InCombat {
		drawText(s, leftMargin, y, width, styleTitle, "Arena")
		y++
		drawSpans(s, leftMargin+2, y, width,
			span{"[f] ", styleKey},
			span{"Fight " + c.EnemyName, styleBase},
		)
		y++
		drawText(s, leftMargin+2, y, width, styleDim,
			fmt.Sprintf("Victories %d  Defeats %d", c.Victories, c.Defeats))
		return
	}

	drawText(s, leftMargin, y, width, styleTitle, "Fighting "+c.EnemyName)
	y += 2
	drawHP(s, leftMargin+2, y, width, "You  ", c.PlayerHP, c.PlayerMaxHP, styleBase.Foreground(RgbPlayerHP))
	y++
	drawHP(s, leftMargin+2, y, width, "Enemy", c.EnemyHP, c.EnemyMaxHP, styleBase.Foreground(RgbEnemyHP))
	y += 2
	drawSpans(s, leftMargin+2, y, width,
		span{"[p] ", styleKey}, span{"Potion  ", styleBase},
		span{"[b] ", styleKey}, span{"Flee", styleBase},
	)
}

func drawHP(s tcell.Screen, x, y, width int, label string, hp, maxHP int64, style tcell.Style) {
	drawSpans(s, x, y, width,
		span{label + " ", styleBase},
		span{bar(hp, maxHP, hpBarWidth), style},
		span{fmt.Sprintf(" %d/%d", hp, maxHP), styleBase},
	)
}

func helpLine(sc engine.Screen) string {
	switch sc {
	case engine.ScreenShop:
		return "1-9 buy  b back  x mute  q quit"
	case engine.ScreenInventory:
		return "1-9 use  b back  x mute  q quit"
	case engine.ScreenCombat:
		return "f fight  p potion  b back  x mute  q quit"
	default:
		return "c collect  u upgrade  m mega  h shop  i inventory  f fight  s save  x mute  q quit"
	}
}

// formatRemaining rounds up to whole seconds so a live effect never shows 0s
func formatRemaining(d time.Duration) string {
	secs := (d + time.Second - 1) / time.Second
	return fmt.Sprintf("%ds", int64(secs))
}
