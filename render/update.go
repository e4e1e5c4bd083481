package render

import (
	"fmt"
	"strings"

	"github.com/lixenwraith/loom/core"
	"github.com/lixenwraith/loom/layout"
)

// Path is the stable tree path of a layer owner, root first.
// Segments are element IDs, optionally followed by a sub-layer name.
type Path []string

// PathOf builds a path from element IDs
func PathOf(ids ...core.ID) Path {
	p := make(Path, len(ids))
	for i, id := range ids {
		p[i] = string(id)
	}
	return p
}

// Key joins the segments with '/'
func (p Path) Key() string {
	return strings.Join(p, "/")
}

func (p Path) String() string { return p.Key() }

// Under returns the path with id prepended
func (p Path) Under(id core.ID) Path {
	out := make(Path, 0, len(p)+1)
	out = append(out, string(id))
	return append(out, p...)
}

// Sub returns the path with a sub-layer name appended
func (p Path) Sub(name string) Path {
	out := make(Path, 0, len(p)+1)
	out = append(out, p...)
	return append(out, name)
}

// prefixMatch reports whether key lies under prefix (inclusive)
func prefixMatch(key, prefix string) bool {
	if prefix == "" {
		return true
	}
	return key == prefix || strings.HasPrefix(key, prefix+"/")
}

// ZKey is one level of a z-path: the element's z and its ID
type ZKey struct {
	Z  int
	ID core.ID
}

// ZPath orders layers; one ZKey per ancestor level below the root
type ZPath []ZKey

// Under returns the z-path with a level prepended
func (z ZPath) Under(k ZKey) ZPath {
	out := make(ZPath, 0, len(z)+1)
	out = append(out, k)
	return append(out, z...)
}

// Compare orders back-to-front: negative when a is behind b.
// Lower z is frontmost, equal z puts the newer (greater) ID in front,
// and a descendant is in front of its ancestor's own layer.
func (a ZPath) Compare(b ZPath) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i].Z != b[i].Z {
			if a[i].Z > b[i].Z {
				return -1
			}
			return 1
		}
		if a[i].ID != b[i].ID {
			if a[i].ID < b[i].ID {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}

func (z ZPath) String() string {
	parts := make([]string, len(z))
	for i, k := range z {
		parts[i] = fmt.Sprintf("%d:%s", k.Z, k.ID.Short())
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// Action is the kind of draw update
type Action uint8

const (
	ActionClearAll Action = iota // drop every layer under a path prefix
	ActionRemove                 // drop the layer at exactly this path
	ActionReplace                // drop then add
	ActionAppend                 // add cells to the existing layer
)

func (a Action) String() string {
	switch a {
	case ActionClearAll:
		return "clear_all"
	case ActionRemove:
		return "remove"
	case ActionReplace:
		return "replace"
	case ActionAppend:
		return "append"
	}
	return "unknown"
}

// Update is one draw submission for the compositor
type Update struct {
	Action Action
	Path   Path
	ZPath  ZPath
	Cells  []Cell
}

// ClearAll drops every layer whose path is prefix or lies under it
func ClearAll(prefix Path) Update {
	return Update{Action: ActionClearAll, Path: prefix}
}

// Remove drops the layer at path
func Remove(path Path) Update {
	return Update{Action: ActionRemove, Path: path}
}

// Replace swaps the layer at path for cells
func Replace(path Path, z ZPath, cells []Cell) Update {
	return Update{Action: ActionReplace, Path: path, ZPath: z, Cells: cells}
}

// Append adds cells to the layer at path
func Append(path Path, z ZPath, cells []Cell) Update {
	return Update{Action: ActionAppend, Path: path, ZPath: z, Cells: cells}
}

// Nest lifts a child's update into its parent's space: the path and
// z-path gain the child's level, cells shift by the child's origin
// and are clipped to the child's bounds and the parent's visible area
func (u Update) Nest(id core.ID, z int, bounds, visible layout.Rect) Update {
	out := Update{
		Action: u.Action,
		Path:   u.Path.Under(id),
		ZPath:  u.ZPath,
	}
	if u.Action == ActionReplace || u.Action == ActionAppend {
		out.ZPath = u.ZPath.Under(ZKey{Z: z, ID: id})
		clip := bounds.Intersect(visible)
		cells := make([]Cell, 0, len(u.Cells))
		for _, c := range u.Cells {
			c.X += bounds.X0
			c.Y += bounds.Y0
			if clip.Contains(layout.Point{X: c.X, Y: c.Y}) {
				cells = append(cells, c)
			}
		}
		out.Cells = cells
	}
	return out
}
