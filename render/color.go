package render

import (
	"github.com/lixenwraith/loom/terminal"
)

// Source names the channel a transparent color substitutes
type Source uint8

const (
	FromBeneath          Source = iota // same channel of the cell beneath
	FromBeneathFg                      // foreground of the cell beneath
	FromBeneathBg                      // background of the cell beneath
	FromBeneathUnderline               // underline color of the cell beneath
	FromOwnFg                          // this layer's resolved foreground
	FromOwnBg                          // this layer's resolved background
)

func (s Source) String() string {
	switch s {
	case FromBeneathFg:
		return "beneath_fg"
	case FromBeneathBg:
		return "beneath_bg"
	case FromBeneathUnderline:
		return "beneath_underline"
	case FromOwnFg:
		return "own_fg"
	case FromOwnBg:
		return "own_bg"
	default:
		return "beneath"
	}
}

type colorKind uint8

const (
	colorTransparent colorKind = iota
	colorSolid
	colorDefault
	colorGradient
)

// Color is one style channel. The zero value is transparent, inheriting
// the same channel from the cell beneath.
type Color struct {
	kind   colorKind
	rgb    terminal.RGB
	source Source
	grad   *Gradient
}

// Solid is a fixed color
func Solid(c terminal.RGB) Color {
	return Color{kind: colorSolid, rgb: c}
}

// Hex parses "#rrggbb" into a solid color, falling back to default on bad input
func Hex(s string) Color {
	c, err := parseHex(s)
	if err != nil {
		return Default()
	}
	return Solid(c)
}

// Default is the terminal's own default color for the channel
func Default() Color {
	return Color{kind: colorDefault}
}

// Transparent substitutes the channel named by src
func Transparent(src Source) Color {
	return Color{kind: colorTransparent, source: src}
}

// Animate wraps a gradient as a color channel
func Animate(g Gradient) Color {
	g.Stops = append([]Stop(nil), g.Stops...)
	return Color{kind: colorGradient, grad: &g}
}

// IsTransparent reports whether the channel inherits from elsewhere
func (c Color) IsTransparent() bool { return c.kind == colorTransparent }

// IsDefault reports whether the channel is the terminal default
func (c Color) IsDefault() bool { return c.kind == colorDefault }

// RGB returns the fixed color and whether the channel has one
func (c Color) RGB() (terminal.RGB, bool) {
	return c.rgb, c.kind == colorSolid
}

// Source returns the transparency source, meaningful only for transparent colors
func (c Color) Source() Source { return c.source }

// Animated reports whether the channel changes with wall-clock time
func (c Color) Animated() bool {
	return c.kind == colorGradient && c.grad.Period > 0
}

func (c Color) equal(o Color) bool {
	if c.kind != o.kind {
		return false
	}
	switch c.kind {
	case colorSolid:
		return c.rgb == o.rgb
	case colorTransparent:
		return c.source == o.source
	case colorGradient:
		return c.grad == o.grad || c.grad.equal(*o.grad)
	}
	return true
}

// resolved is a channel after substitution: either a concrete color or the default
type resolved struct {
	rgb terminal.RGB
	def bool
}

var defaultColor = resolved{def: true}

// Style carries the three color channels and text attributes of a layer
type Style struct {
	Fg        Color
	Bg        Color
	Underline Color
	Attrs     terminal.Attr
}

// Plain is the all-default style
var Plain = Style{Fg: Default(), Bg: Default(), Underline: Default()}

// Animated reports whether any channel is time-keyed
func (s Style) Animated() bool {
	return s.Fg.Animated() || s.Bg.Animated() || s.Underline.Animated()
}

// Equal compares styles by value
func (s Style) Equal(o Style) bool {
	return s.Attrs == o.Attrs && s.Fg.equal(o.Fg) && s.Bg.equal(o.Bg) && s.Underline.equal(o.Underline)
}

// WithFg returns a copy with the foreground replaced
func (s Style) WithFg(c Color) Style {
	s.Fg = c
	return s
}

// WithBg returns a copy with the background replaced
func (s Style) WithBg(c Color) Style {
	s.Bg = c
	return s
}

// WithAttrs returns a copy with attrs added
func (s Style) WithAttrs(a terminal.Attr) Style {
	s.Attrs |= a
	return s
}
