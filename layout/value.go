// Package layout implements resizable values and locations evaluated against a container size.
//
// A Value is an expression tree:
//
//	Mul * (Fixed + round(size*Flex) + ΣTerms + min(MinOf) + max(MaxOf))
//
// Values are immutable by convention: every combinator returns a new tree and copies the slices
// it touches, so values can be shared and copied freely.
package layout

import (
	"math"
)

// Value is a scalar expression evaluated against a container dimension
type Value struct {
	Fixed int
	Flex  float64
	Mul   float64 // 0 is read as 1 so the zero Value is a valid constant 0
	Terms []Value // added
	MinOf []Value // smallest one added
	MaxOf []Value // largest one added
}

// Fixed returns a constant value
func Fixed(n int) Value {
	return Value{Fixed: n, Mul: 1}
}

// Flex returns a value proportional to the container size
func Flex(f float64) Value {
	return Value{Flex: f, Mul: 1}
}

// FlexPlus returns round(size*f) + n
func FlexPlus(f float64, n int) Value {
	return Value{Fixed: n, Flex: f, Mul: 1}
}

// Full is the whole container dimension
func Full() Value {
	return Flex(1)
}

// Zero is the constant 0
func Zero() Value {
	return Fixed(0)
}

func (v Value) mul() float64 {
	if v.Mul == 0 {
		return 1
	}
	return v.Mul
}

// Eval evaluates the value for a container dimension
func (v Value) Eval(size int) int {
	sum := v.Fixed
	if v.Flex != 0 {
		sum += roundInt(float64(size) * v.Flex)
	}
	for i := range v.Terms {
		sum += v.Terms[i].Eval(size)
	}
	if len(v.MinOf) > 0 {
		m := v.MinOf[0].Eval(size)
		for i := 1; i < len(v.MinOf); i++ {
			m = min(m, v.MinOf[i].Eval(size))
		}
		sum += m
	}
	if len(v.MaxOf) > 0 {
		m := v.MaxOf[0].Eval(size)
		for i := 1; i < len(v.MaxOf); i++ {
			m = max(m, v.MaxOf[i].Eval(size))
		}
		sum += m
	}

	mul := v.mul()
	if mul == 1 {
		return sum
	}
	return roundInt(mul * float64(sum))
}

// roundInt rounds half away from zero
func roundInt(f float64) int {
	return int(math.Round(f))
}

// ===== COMBINATORS =====

func (v Value) clone() Value {
	c := v
	c.Mul = v.mul()
	c.Terms = cloneValues(v.Terms)
	c.MinOf = cloneValues(v.MinOf)
	c.MaxOf = cloneValues(v.MaxOf)
	return c
}

func cloneValues(vs []Value) []Value {
	if len(vs) == 0 {
		return nil
	}
	out := make([]Value, len(vs))
	for i := range vs {
		out[i] = vs[i].clone()
	}
	return out
}

// Plus returns v + Σothers
func (v Value) Plus(others ...Value) Value {
	c := v.clone()
	if c.mul() != 1 {
		// Scaled trees must keep their own multiplier, so add as siblings
		c = Value{Mul: 1, Terms: []Value{c}}
	}
	c.Terms = append(c.Terms, cloneValues(others)...)
	return c
}

// PlusMinOf returns v + min(others)
func (v Value) PlusMinOf(others ...Value) Value {
	if len(others) == 0 {
		return v.clone()
	}
	return Value{Mul: 1, Terms: []Value{v.clone()}, MinOf: cloneValues(others)}
}

// PlusMaxOf returns v + max(others)
func (v Value) PlusMaxOf(others ...Value) Value {
	if len(others) == 0 {
		return v.clone()
	}
	return Value{Mul: 1, Terms: []Value{v.clone()}, MaxOf: cloneValues(others)}
}

// AddFixed returns v + n
func (v Value) AddFixed(n int) Value {
	return v.Plus(Fixed(n))
}

// AddFlex returns v + round(size*f)
func (v Value) AddFlex(f float64) Value {
	return v.Plus(Flex(f))
}

// Scale returns f * v
func (v Value) Scale(f float64) Value {
	c := v.clone()
	c.Mul = c.mul() * f
	return c
}

// Negate returns -v
func (v Value) Negate() Value {
	return v.Scale(-1)
}

// Minus returns v - o
func (v Value) Minus(o Value) Value {
	return v.Plus(o.Negate())
}

// Equal reports structural equality
func Equal(a, b Value) bool {
	if a.Fixed != b.Fixed || a.Flex != b.Flex || a.mul() != b.mul() {
		return false
	}
	return equalValues(a.Terms, b.Terms) &&
		equalValues(a.MinOf, b.MinOf) &&
		equalValues(a.MaxOf, b.MaxOf)
}

func equalValues(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// ===== FLATTENING =====

// isConstant reports whether the subtree evaluates identically for every size
func (v Value) isConstant() bool {
	if v.Flex != 0 {
		return false
	}
	for _, group := range [][]Value{v.Terms, v.MinOf, v.MaxOf} {
		for i := range group {
			if !group[i].isConstant() {
				return false
			}
		}
	}
	return true
}

// Flatten returns a numerically identical tree with fewer nodes
// Rounding is per flex term, so flex is merged only into a parent without flex of its own
func (v Value) Flatten() Value {
	if v.isConstant() {
		return Fixed(v.Eval(0))
	}

	out := Value{Fixed: v.Fixed, Flex: v.Flex, Mul: v.mul()}

	var pending []Value
	pending = append(pending, v.Terms...)
	// A single-element min/max is just an addend
	if len(v.MinOf) == 1 {
		pending = append(pending, v.MinOf[0])
	} else {
		for i := range v.MinOf {
			out.MinOf = append(out.MinOf, v.MinOf[i].Flatten())
		}
	}
	if len(v.MaxOf) == 1 {
		pending = append(pending, v.MaxOf[0])
	} else {
		for i := range v.MaxOf {
			out.MaxOf = append(out.MaxOf, v.MaxOf[i].Flatten())
		}
	}

	for len(pending) > 0 {
		child := pending[0].Flatten()
		pending = pending[1:]

		if child.isConstant() {
			out.Fixed += child.Eval(0)
			continue
		}
		if child.mul() != 1 || len(child.MinOf) > 0 || len(child.MaxOf) > 0 {
			out.Terms = append(out.Terms, child)
			continue
		}

		// Unscaled sum node: splice into parent
		out.Fixed += child.Fixed
		if child.Flex != 0 {
			if out.Flex == 0 {
				out.Flex = child.Flex
			} else {
				out.Terms = append(out.Terms, Flex(child.Flex))
			}
		}
		pending = append(pending, child.Terms...)
	}

	return out
}
