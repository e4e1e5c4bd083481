package layout

import (
	"fmt"
)

// Location places an element inside its container
// Z is the stacking index among siblings, 0 is frontmost and lower values are closer
type Location struct {
	StartX Value // inclusive
	EndX   Value // exclusive
	StartY Value // inclusive
	EndY   Value // exclusive
	Z      int

	// Extras are additional hit regions in the same container space (e.g. a drop-down)
	Extras []Location
}

// NewLocation builds a location from four values at z=0
func NewLocation(startX, endX, startY, endY Value) Location {
	return Location{StartX: startX, EndX: endX, StartY: startY, EndY: endY}
}

// FullLocation covers the whole container
func FullLocation() Location {
	return NewLocation(Zero(), Full(), Zero(), Full())
}

// FixedLocation is a constant rectangle
func FixedLocation(x, y, w, h int) Location {
	return NewLocation(Fixed(x), Fixed(x+w), Fixed(y), Fixed(y+h))
}

// WithZ returns a copy at the given z
func (l Location) WithZ(z int) Location {
	c := l.Clone()
	c.Z = z
	return c
}

// WithExtra returns a copy with an additional hit region
func (l Location) WithExtra(extra Location) Location {
	c := l.Clone()
	c.Extras = append(c.Extras, extra.Clone())
	return c
}

// Clone deep-copies the location
func (l Location) Clone() Location {
	c := Location{
		StartX: l.StartX.clone(),
		EndX:   l.EndX.clone(),
		StartY: l.StartY.clone(),
		EndY:   l.EndY.clone(),
		Z:      l.Z,
	}
	if len(l.Extras) > 0 {
		c.Extras = make([]Location, len(l.Extras))
		for i := range l.Extras {
			c.Extras[i] = l.Extras[i].Clone()
		}
	}
	return c
}

// Resolve evaluates the primary rectangle for a container size
func (l Location) Resolve(s Size) Rect {
	r := Rect{
		X0: l.StartX.Eval(s.W),
		X1: l.EndX.Eval(s.W),
		Y0: l.StartY.Eval(s.H),
		Y1: l.EndY.Eval(s.H),
	}
	assertWellFormed(l, r)
	return r
}

// Width never returns a negative number
func (l Location) Width(s Size) int {
	return l.Resolve(s).Width()
}

// Height never returns a negative number
func (l Location) Height(s Size) int {
	return l.Resolve(s).Height()
}

// Contains reports whether the primary rectangle or any extra contains p
func (l Location) Contains(p Point, s Size) bool {
	if l.Resolve(s).Contains(p) {
		return true
	}
	for i := range l.Extras {
		if l.Extras[i].Contains(p, s) {
			return true
		}
	}
	return false
}

// Validate reports an end-before-start rectangle for a container size
func (l Location) Validate(s Size) error {
	r := Rect{
		X0: l.StartX.Eval(s.W),
		X1: l.EndX.Eval(s.W),
		Y0: l.StartY.Eval(s.H),
		Y1: l.EndY.Eval(s.H),
	}
	if r.X1 < r.X0 || r.Y1 < r.Y0 {
		return fmt.Errorf("malformed location at %dx%d: x[%d,%d) y[%d,%d)", s.W, s.H, r.X0, r.X1, r.Y0, r.Y1)
	}
	for i := range l.Extras {
		if err := l.Extras[i].Validate(s); err != nil {
			return fmt.Errorf("extra %d: %w", i, err)
		}
	}
	return nil
}

// Equal reports structural equality
func (l Location) Equal(o Location) bool {
	if l.Z != o.Z || len(l.Extras) != len(o.Extras) {
		return false
	}
	if !Equal(l.StartX, o.StartX) || !Equal(l.EndX, o.EndX) ||
		!Equal(l.StartY, o.StartY) || !Equal(l.EndY, o.EndY) {
		return false
	}
	for i := range l.Extras {
		if !l.Extras[i].Equal(o.Extras[i]) {
			return false
		}
	}
	return true
}

// SplitH divides the width into flex columns by ratio, the last column absorbs rounding
func SplitH(ratios ...float64) []Location {
	return split(ratios, func(start, end Value) Location {
		return NewLocation(start, end, Zero(), Full())
	})
}

// SplitV divides the height into flex rows by ratio
func SplitV(ratios ...float64) []Location {
	return split(ratios, func(start, end Value) Location {
		return NewLocation(Zero(), Full(), start, end)
	})
}

func split(ratios []float64, mk func(start, end Value) Location) []Location {
	if len(ratios) == 0 {
		return nil
	}
	var sum float64
	for _, r := range ratios {
		sum += r
	}
	if sum <= 0 {
		sum = 1
	}

	out := make([]Location, len(ratios))
	acc := 0.0
	for i, r := range ratios {
		start := Flex(acc)
		acc += r / sum
		end := Flex(acc)
		if i == len(ratios)-1 {
			end = Full()
		}
		out[i] = mk(start, end)
	}
	return out
}
