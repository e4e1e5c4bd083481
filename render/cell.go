package render

import (
	"github.com/lixenwraith/loom/layout"
	"github.com/lixenwraith/loom/terminal"
)

// ContentKind tags what a layer puts in a cell
type ContentKind uint8

const (
	ContentTransparent ContentKind = iota // inherit the glyph from beneath
	ContentGlyph
	ContentText // one grapheme cluster
	ContentSkip // covered by the wide glyph to the left
)

// Content is the character part of a layer
type Content struct {
	Kind ContentKind
	Rune rune
	Text string
}

// TransparentContent keeps whatever is beneath
var TransparentContent = Content{}

// Glyph is a single rune
func Glyph(r rune) Content {
	return Content{Kind: ContentGlyph, Rune: r}
}

// Text is one grapheme cluster; single-rune clusters collapse to a glyph
func Text(s string) Content {
	rs := []rune(s)
	switch len(rs) {
	case 0:
		return Glyph(' ')
	case 1:
		return Glyph(rs[0])
	}
	return Content{Kind: ContentText, Text: s}
}

// Skip marks the right half of a wide glyph
func Skip() Content {
	return Content{Kind: ContentSkip}
}

// DrawCell is one layer's contribution to one terminal cell
type DrawCell struct {
	Content Content
	Style   Style
}

func (d DrawCell) equal(o DrawCell) bool {
	return d.Content == o.Content && d.Style.Equal(o.Style)
}

// Cell is a DrawCell placed at a position in the submitter's coordinate space
type Cell struct {
	X, Y int
	DrawCell
}

// At places content with a style
func At(x, y int, c Content, s Style) Cell {
	return Cell{X: x, Y: y, DrawCell: DrawCell{Content: c, Style: s}}
}

// Fill covers rect with the same content and style
func Fill(r layout.Rect, c Content, s Style) []Cell {
	if r.Empty() {
		return nil
	}
	out := make([]Cell, 0, r.Width()*r.Height())
	for y := r.Y0; y < r.Y1; y++ {
		for x := r.X0; x < r.X1; x++ {
			out = append(out, At(x, y, c, s))
		}
	}
	return out
}

// LineType selects box drawing characters
type LineType uint8

const (
	LineSingle  LineType = iota // ┌─┐│└┘
	LineDouble                  // ╔═╗║╚╝
	LineRounded                 // ╭─╮│╰╯
	LineHeavy                   // ┏━┓┃┗┛
)

var boxChars = [...][6]rune{
	LineSingle:  {'┌', '─', '┐', '│', '└', '┘'},
	LineDouble:  {'╔', '═', '╗', '║', '╚', '╝'},
	LineRounded: {'╭', '─', '╮', '│', '╰', '╯'},
	LineHeavy:   {'┏', '━', '┓', '┃', '┗', '┛'},
}

// Box draws a border along the edge of r, interior untouched
func Box(r layout.Rect, line LineType, s Style) []Cell {
	w, h := r.Width(), r.Height()
	if w < 2 || h < 2 {
		return nil
	}
	if int(line) >= len(boxChars) {
		line = LineSingle
	}
	ch := boxChars[line]
	out := make([]Cell, 0, 2*w+2*h)

	out = append(out,
		At(r.X0, r.Y0, Glyph(ch[0]), s),
		At(r.X1-1, r.Y0, Glyph(ch[2]), s),
		At(r.X0, r.Y1-1, Glyph(ch[4]), s),
		At(r.X1-1, r.Y1-1, Glyph(ch[5]), s),
	)
	for x := r.X0 + 1; x < r.X1-1; x++ {
		out = append(out, At(x, r.Y0, Glyph(ch[1]), s), At(x, r.Y1-1, Glyph(ch[1]), s))
	}
	for y := r.Y0 + 1; y < r.Y1-1; y++ {
		out = append(out, At(r.X0, y, Glyph(ch[3]), s), At(r.X1-1, y, Glyph(ch[3]), s))
	}
	return out
}

// Clip keeps the cells inside r
func Clip(cells []Cell, r layout.Rect) []Cell {
	out := cells[:0:0]
	for _, c := range cells {
		if r.Contains(layout.Point{X: c.X, Y: c.Y}) {
			out = append(out, c)
		}
	}
	return out
}

// Translate shifts cells by (dx, dy) into a new slice
func Translate(cells []Cell, dx, dy int) []Cell {
	out := make([]Cell, len(cells))
	for i, c := range cells {
		c.X += dx
		c.Y += dy
		out[i] = c
	}
	return out
}

func contentToTerminal(c Content, cell *terminal.Cell) {
	switch c.Kind {
	case ContentGlyph:
		cell.Rune = c.Rune
	case ContentText:
		cell.Text = c.Text
	case ContentSkip:
		cell.Rune = terminal.RuneSkip
	default:
		cell.Rune = ' '
	}
}
