package render

import (
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// TextCells lays s out from (x, y), one cell per grapheme cluster.
// Wide clusters are followed by a Skip cell, '\n' starts a new line at x,
// zero-width clusters are dropped.
func TextCells(x, y int, s string, st Style) []Cell {
	out := make([]Cell, 0, len(s))
	cx, cy := x, y
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		cluster := gr.Str()
		if cluster == "\n" || cluster == "\r\n" {
			cx = x
			cy++
			continue
		}
		w := runewidth.StringWidth(cluster)
		if w <= 0 {
			continue
		}
		out = append(out, At(cx, cy, Text(cluster), st))
		for i := 1; i < w; i++ {
			out = append(out, At(cx+i, cy, Skip(), st))
		}
		cx += w
	}
	return out
}

// TextWidth is the number of cells TextCells uses for the longest line of s
func TextWidth(s string) int {
	widest, cur := 0, 0
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		cluster := gr.Str()
		if cluster == "\n" || cluster == "\r\n" {
			widest = max(widest, cur)
			cur = 0
			continue
		}
		cur += max(runewidth.StringWidth(cluster), 0)
	}
	return max(widest, cur)
}

// Truncate cuts s to at most w cells without splitting a cluster
func Truncate(s string, w int) string {
	if w <= 0 {
		return ""
	}
	used, end := 0, 0
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		cw := runewidth.StringWidth(gr.Str())
		if used+cw > w {
			break
		}
		used += cw
		_, end = gr.Positions()
	}
	return s[:end]
}
