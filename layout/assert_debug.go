//go:build debug

package layout

import (
	"github.com/lixenwraith/loom/errors"
)

func assertWellFormed(l Location, r Rect) {
	if r.X1 < r.X0 || r.Y1 < r.Y0 {
		errors.Invariant("layout.Location.Resolve", "end before start: x[%d,%d) y[%d,%d)", r.X0, r.X1, r.Y0, r.Y1)
	}
}
