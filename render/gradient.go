package render

import (
	"math"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/lixenwraith/loom/terminal"
)

// Axis is the direction a gradient spreads across cells
type Axis uint8

const (
	AxisNone Axis = iota // uniform across cells
	AxisX
	AxisY
	AxisDiagonal
)

// Stop is a gradient color at position Pos in [0,1]
type Stop struct {
	Pos   float64
	Color terminal.RGB
}

// Gradient maps (cell position, wall-clock time) to a color.
// Phase = position/Spread + elapsed/Period, wrapped to [0,1).
// Stops interpolate in CIE-Lab. Period 0 is static in time.
type Gradient struct {
	Stops  []Stop
	Period time.Duration
	Spread int // cells per full cycle along Axis, 0 disables spatial phase
	Axis   Axis
}

// Cycle builds evenly spaced stops that wrap back to the first color
func Cycle(period time.Duration, spread int, axis Axis, colors ...terminal.RGB) Gradient {
	g := Gradient{Period: period, Spread: spread, Axis: axis}
	if len(colors) == 0 {
		return g
	}
	n := len(colors)
	for i, c := range colors {
		g.Stops = append(g.Stops, Stop{Pos: float64(i) / float64(n), Color: c})
	}
	g.Stops = append(g.Stops, Stop{Pos: 1, Color: colors[0]})
	return g
}

// Phase returns the wrapped position in [0,1) for a cell at time now
func (g Gradient) Phase(x, y int, now time.Time) float64 {
	var p float64
	if g.Spread > 0 {
		var d int
		switch g.Axis {
		case AxisX:
			d = x
		case AxisY:
			d = y
		case AxisDiagonal:
			d = x + y
		}
		p += float64(d) / float64(g.Spread)
	}
	if g.Period > 0 {
		p += float64(now.UnixNano()%int64(g.Period)) / float64(g.Period)
	}
	p -= math.Floor(p)
	return p
}

// At resolves the gradient color for a cell at time now
func (g Gradient) At(x, y int, now time.Time) terminal.RGB {
	return g.Sample(g.Phase(x, y, now))
}

// Sample interpolates the stops at t, clamping outside the first and last stop
func (g Gradient) Sample(t float64) terminal.RGB {
	switch len(g.Stops) {
	case 0:
		return terminal.RGB{}
	case 1:
		return g.Stops[0].Color
	}
	first, last := g.Stops[0], g.Stops[len(g.Stops)-1]
	if t <= first.Pos {
		return first.Color
	}
	if t >= last.Pos {
		return last.Color
	}
	for i := 1; i < len(g.Stops); i++ {
		b := g.Stops[i]
		if t > b.Pos {
			continue
		}
		a := g.Stops[i-1]
		span := b.Pos - a.Pos
		if span <= 0 {
			return b.Color
		}
		return lerpLab(a.Color, b.Color, (t-a.Pos)/span)
	}
	return last.Color
}

func (g Gradient) equal(o Gradient) bool {
	if g.Period != o.Period || g.Spread != o.Spread || g.Axis != o.Axis || len(g.Stops) != len(o.Stops) {
		return false
	}
	for i := range g.Stops {
		if g.Stops[i] != o.Stops[i] {
			return false
		}
	}
	return true
}

func toColorful(c terminal.RGB) colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

func fromColorful(c colorful.Color) terminal.RGB {
	r, g, b := c.Clamped().RGB255()
	return terminal.RGB{R: r, G: g, B: b}
}

func lerpLab(a, b terminal.RGB, t float64) terminal.RGB {
	return fromColorful(toColorful(a).BlendLab(toColorful(b), t))
}

func parseHex(s string) (terminal.RGB, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return terminal.RGB{}, err
	}
	return fromColorful(c), nil
}
