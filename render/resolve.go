package render

import (
	"time"

	"github.com/lixenwraith/loom/terminal"
)

type channel uint8

const (
	chFg channel = 1 << iota
	chBg
	chUl
)

func (s *Style) channel(ch channel) Color {
	switch ch {
	case chFg:
		return s.Fg
	case chBg:
		return s.Bg
	}
	return s.Underline
}

// composite is the running result while walking layers back-to-front
type composite struct {
	content Content
	attrs   terminal.Attr
	fg      resolved
	bg      resolved
	ul      resolved
}

func (c *composite) get(ch channel) resolved {
	switch ch {
	case chFg:
		return c.fg
	case chBg:
		return c.bg
	}
	return c.ul
}

var blank = composite{content: Glyph(' '), fg: defaultColor, bg: defaultColor, ul: defaultColor}

type resolver struct {
	beneath *composite
	x, y    int
	now     time.Time
}

// color resolves one channel of a layer. orig is the channel being filled,
// visited the own channels already followed; a cycle falls back to beneath.
func (r *resolver) color(st *Style, ch, orig, visited channel) resolved {
	c := st.channel(ch)
	switch c.kind {
	case colorSolid:
		return resolved{rgb: c.rgb}
	case colorDefault:
		return defaultColor
	case colorGradient:
		return resolved{rgb: c.grad.At(r.x, r.y, r.now)}
	}

	var target channel
	switch c.source {
	case FromBeneathFg:
		return r.beneath.fg
	case FromBeneathBg:
		return r.beneath.bg
	case FromBeneathUnderline:
		return r.beneath.ul
	case FromOwnFg:
		target = chFg
	case FromOwnBg:
		target = chBg
	default:
		return r.beneath.get(ch)
	}
	if target == ch {
		return r.beneath.get(ch)
	}
	if visited&target != 0 {
		return r.beneath.get(orig)
	}
	return r.color(st, target, orig, visited|ch)
}

func resolve(layers []layer, x, y int, now time.Time) terminal.Cell {
	cur := blank
	r := resolver{x: x, y: y, now: now}
	for i := range layers {
		l := &layers[i]
		r.beneath = &cur
		st := &l.cell.Style
		next := composite{
			content: cur.content,
			attrs:   cur.attrs,
			fg:      r.color(st, chFg, chFg, 0),
			bg:      r.color(st, chBg, chBg, 0),
			ul:      r.color(st, chUl, chUl, 0),
		}
		if l.cell.Content.Kind != ContentTransparent {
			next.content = l.cell.Content
			next.attrs = st.Attrs & terminal.AttrStyle
		}
		cur = next
	}
	return cur.cell()
}

func (c *composite) cell() terminal.Cell {
	out := terminal.Cell{Attrs: c.attrs}
	contentToTerminal(c.content, &out)
	if c.fg.def {
		out.Attrs |= terminal.AttrFgDefault
	} else {
		out.Fg = c.fg.rgb
	}
	if c.bg.def {
		out.Attrs |= terminal.AttrBgDefault
	} else {
		out.Bg = c.bg.rgb
	}
	if !c.ul.def {
		out.Ul = c.ul.rgb
		out.Attrs |= terminal.AttrUlColor
	}
	return out
}

// Resolve composites a stack of cells, back first, the way the cache does
func Resolve(stack []DrawCell, x, y int, now time.Time) terminal.Cell {
	layers := make([]layer, len(stack))
	for i, dc := range stack {
		layers[i] = layer{cell: dc}
	}
	return resolve(layers, x, y, now)
}
