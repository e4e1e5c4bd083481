package layout

// Point is a cell coordinate
type Point struct {
	X, Y int
}

// Size is an evaluated container size in cells
type Size struct {
	W, H int
}

// Rect is a resolved location: X0/Y0 inclusive, X1/Y1 exclusive
type Rect struct {
	X0, Y0 int
	X1, Y1 int
}

// RectWH builds a rect from origin and dimensions
func RectWH(x, y, w, h int) Rect {
	return Rect{X0: x, Y0: y, X1: x + w, Y1: y + h}
}

// Width is clamped to zero
func (r Rect) Width() int {
	return max(r.X1-r.X0, 0)
}

// Height is clamped to zero
func (r Rect) Height() int {
	return max(r.Y1-r.Y0, 0)
}

// Size returns the clamped dimensions
func (r Rect) Size() Size {
	return Size{W: r.Width(), H: r.Height()}
}

// Empty reports whether the rect covers no cells
func (r Rect) Empty() bool {
	return r.Width() == 0 || r.Height() == 0
}

// Contains treats start inclusive and end exclusive on both axes
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X0 && p.X < r.X1 && p.Y >= r.Y0 && p.Y < r.Y1
}

// Translate shifts the rect by (dx, dy)
func (r Rect) Translate(dx, dy int) Rect {
	return Rect{X0: r.X0 + dx, Y0: r.Y0 + dy, X1: r.X1 + dx, Y1: r.Y1 + dy}
}

// Intersect returns the overlap, clipped to an empty rect at r's origin when disjoint
func (r Rect) Intersect(o Rect) Rect {
	out := Rect{
		X0: max(r.X0, o.X0),
		Y0: max(r.Y0, o.Y0),
		X1: min(r.X1, o.X1),
		Y1: min(r.Y1, o.Y1),
	}
	if out.X1 < out.X0 {
		out.X1 = out.X0
	}
	if out.Y1 < out.Y0 {
		out.Y1 = out.Y0
	}
	return out
}

// Local converts a point in container space into the rect's local space
func (r Rect) Local(p Point) Point {
	return Point{X: p.X - r.X0, Y: p.Y - r.Y0}
}

// Global converts a point in the rect's local space back into container space
func (r Rect) Global(p Point) Point {
	return Point{X: p.X + r.X0, Y: p.Y + r.Y0}
}

// Region is the evaluated container size plus the visible area in local coordinates
// passed down the tree during layout, draw and event delivery
type Region struct {
	Size    Size
	Visible Rect
}

// NewRegion returns a fully visible region of the given size
func NewRegion(w, h int) Region {
	return Region{Size: Size{W: w, H: h}, Visible: RectWH(0, 0, w, h)}
}

// Child derives the region of a child placed at rect (in this region's space)
func (g Region) Child(rect Rect) Region {
	vis := g.Visible.Intersect(rect).Translate(-rect.X0, -rect.Y0)
	return Region{Size: rect.Size(), Visible: vis}
}
