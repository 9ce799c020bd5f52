package render

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// drawText writes s at x,y clipped to maxX and returns the column after the text
func drawText(s tcell.Screen, x, y, maxX int, style tcell.Style, text string) int {
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			w = 1
		}
		if x+w > maxX {
			break
		}
		s.SetContent(x, y, r, nil, style)
		x += w
	}
	return x
}

// span is one styled piece of a line
type span struct {
	text  string
	style tcell.Style
}

func drawSpans(s tcell.Screen, x, y, maxX int, spans ...span) int {
	for _, sp := range spans {
		x = drawText(s, x, y, maxX, sp.style, sp.text)
	}
	return x
}

// bar renders a filled/empty gauge of width cells
func bar(value, maxValue int64, width int) string {
	if maxValue <= 0 || width <= 0 {
		return ""
	}
	filled := int(value * int64(width) / maxValue)
	filled = min(max(filled, 0), width)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// padRight pads text to width display cells
func padRight(text string, width int) string {
	if w := runewidth.StringWidth(text); w < width {
		return text + strings.Repeat(" ", width-w)
	}
	return text
}
