package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

const ellipsis = "…"

// fit truncates or pads s to exactly width cells.
func fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) > width {
		s = runewidth.Truncate(s, width, ellipsis)
	}
	return runewidth.FillRight(s, width)
}

// fitLeft keeps the tail of s, used for paths where the leaf matters most.
func fitLeft(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return runewidth.FillRight(s, width)
	}
	runes := []rune(s)
	w := runewidth.StringWidth(ellipsis)
	start := len(runes)
	for start > 0 {
		rw := runewidth.RuneWidth(runes[start-1])
		if w+rw > width {
			break
		}
		w += rw
		start--
	}
	return runewidth.FillRight(ellipsis+string(runes[start:]), width)
}

// fitRight right-aligns s in width cells.
func fitRight(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) > width {
		return runewidth.Truncate(s, width, ellipsis)
	}
	return runewidth.FillLeft(s, width)
}

// put draws s starting at x,y and returns the column after it. Wide runes
// take two cells.
func put(s tcell.Screen, x, y int, style tcell.Style, text string) int {
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		s.SetContent(x, y, r, nil, style)
		x += w
	}
	return x
}

func fill(s tcell.Screen, x, y, width int, style tcell.Style) {
	for i := 0; i < width; i++ {
		s.SetContent(x+i, y, ' ', nil, style)
	}
}
