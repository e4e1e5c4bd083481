package element

import (
	"strings"

	"github.com/lixenwraith/loom/layout"
	"github.com/lixenwraith/loom/render"
	"github.com/lixenwraith/loom/terminal"
)

// DrawFunc produces cells in the element's local space
type DrawFunc func(r layout.Region) []render.Cell

// canvas is the element's own layer: background, border, title, text and a custom draw func
type canvas struct {
	bg          *render.Style
	border      bool
	line        render.LineType
	title       string
	borderStyle render.Style
	text        string
	textStyle   render.Style
	draw        DrawFunc

	dirty bool
	drawn bool
	size  layout.Size
}

func newCanvas() canvas {
	return canvas{
		borderStyle: render.Style{Fg: render.Solid(terminal.Silver)},
		dirty:       true,
	}
}

// SetBackground fills the element with spaces in st
func (cv *canvas) SetBackground(st render.Style) {
	cv.bg = &st
	cv.dirty = true
}

// SetBorder draws a box along the element's edge; the title sits on the top edge
func (cv *canvas) SetBorder(line render.LineType, st render.Style) {
	cv.border = true
	cv.line = line
	cv.borderStyle = st
	cv.dirty = true
}

func (cv *canvas) SetTitle(title string) {
	cv.title = title
	cv.dirty = true
}

func (cv *canvas) Title() string { return cv.title }

// SetText shows s inside the border, one line per '\n', cut at the right edge
func (cv *canvas) SetText(s string, st render.Style) {
	cv.text = s
	cv.textStyle = st
	cv.dirty = true
}

func (cv *canvas) Text() string { return cv.text }

// SetDraw adds custom cells in front of background, border and text
func (cv *canvas) SetDraw(fn DrawFunc) {
	cv.draw = fn
	cv.dirty = true
}

// Invalidate requests a redraw of the element's own layer on the next frame
func (cv *canvas) Invalidate() { cv.dirty = true }

// Inner is the area inside the border in local coordinates
func (cv *canvas) Inner(r layout.Region) layout.Rect {
	full := layout.RectWH(0, 0, r.Size.W, r.Size.H)
	if !cv.border || r.Size.W < 2 || r.Size.H < 2 {
		return full
	}
	return layout.Rect{X0: 1, Y0: 1, X1: r.Size.W - 1, Y1: r.Size.H - 1}
}

func (cv *canvas) cells(r layout.Region, focused bool) []render.Cell {
	var out []render.Cell
	full := layout.RectWH(0, 0, r.Size.W, r.Size.H)
	if cv.bg != nil {
		out = append(out, render.Fill(full, render.Glyph(' '), *cv.bg)...)
	}
	if cv.border {
		st := cv.borderStyle
		if focused {
			st = st.WithAttrs(terminal.AttrBold)
		} else if c, ok := st.Fg.RGB(); ok {
			st = st.WithFg(render.Solid(render.Scale(c, 0.6)))
		}
		out = append(out, render.Box(full, cv.line, st)...)
		if cv.title != "" && r.Size.W > 4 {
			title := render.Truncate(" "+cv.title+" ", r.Size.W-4)
			out = append(out, render.TextCells(2, 0, title, st)...)
		}
	}
	if cv.text != "" {
		in := cv.Inner(r)
		for i, line := range strings.Split(cv.text, "\n") {
			y := in.Y0 + i
			if y >= in.Y1 {
				break
			}
			out = append(out, render.TextCells(in.X0, y, render.Truncate(line, in.Width()), cv.textStyle)...)
		}
	}
	if cv.draw != nil {
		out = append(out, cv.draw(r)...)
	}
	return out
}

// drawing returns the own-layer updates for this frame
func (cv *canvas) drawing(r layout.Region, force, visible, focused bool) []render.Update {
	if !visible {
		if cv.drawn {
			cv.drawn = false
			return []render.Update{render.ClearAll(nil)}
		}
		return nil
	}
	if r.Size != cv.size {
		cv.size = r.Size
		cv.dirty = true
	}
	if !cv.drawn {
		force = true
	}
	if !cv.dirty && !force {
		return nil
	}
	cv.dirty = false
	cv.drawn = true
	cells := render.Clip(cv.cells(r, focused), r.Visible)
	return []render.Update{render.Replace(nil, nil, cells)}
}
