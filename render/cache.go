package render

import (
	"sort"
	"time"

	"github.com/lixenwraith/loom/terminal"
)

// layer is one path's contribution to one cell
type layer struct {
	path     string
	zpath    ZPath
	seq      uint64
	cell     DrawCell
	animated bool
}

// behind orders layers back-to-front; equal z-paths put the greater path key in front,
// then the later submission
func (l *layer) behind(o *layer) bool {
	if c := l.zpath.Compare(o.zpath); c != 0 {
		return c < 0
	}
	if l.path != o.path {
		return l.path < o.path
	}
	return l.seq < o.seq
}

// cellState is the per-cell store: layers sorted back-to-front
type cellState struct {
	layers     []layer
	dirty      bool
	timeLayers int
	last       terminal.Cell
	valid      bool
}

// Cache is the compositor: it keeps every live layer per terminal cell
// and emits only cells whose resolved value changed since the last frame
type Cache struct {
	width, height int
	cells         []cellState

	// index of cells each path key touches
	paths    map[string]map[int]struct{}
	dirty    []int
	animated map[int]struct{}
	seq      uint64
	force    bool
}

// NewCache creates a cache for a screen of w×h cells
func NewCache(w, h int) *Cache {
	c := &Cache{}
	c.Resize(w, h)
	return c
}

// Size returns the screen dimensions
func (c *Cache) Size() (int, int) {
	return c.width, c.height
}

// Resize drops every layer and forces the next frame to emit every cell
func (c *Cache) Resize(w, h int) {
	w, h = max(w, 0), max(h, 0)
	c.width, c.height = w, h
	c.cells = make([]cellState, w*h)
	c.paths = make(map[string]map[int]struct{})
	c.animated = make(map[int]struct{})
	c.dirty = c.dirty[:0]
	c.force = true
}

// Invalidate forgets the emitted state so the next frame emits every cell
func (c *Cache) Invalidate() {
	c.force = true
}

// Layers returns the number of layers on a cell, 0 when out of bounds
func (c *Cache) Layers(x, y int) int {
	if !c.inBounds(x, y) {
		return 0
	}
	return len(c.cells[y*c.width+x].layers)
}

func (c *Cache) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < c.width && y < c.height
}

func (c *Cache) markDirty(i int) {
	cs := &c.cells[i]
	if !cs.dirty {
		cs.dirty = true
		c.dirty = append(c.dirty, i)
	}
}

// Apply executes updates in order
func (c *Cache) Apply(updates ...Update) {
	for _, u := range updates {
		key := u.Path.Key()
		switch u.Action {
		case ActionClearAll:
			c.clearPrefix(key)
		case ActionRemove:
			c.removePath(key)
		case ActionReplace:
			c.removePath(key)
			c.add(key, u.ZPath, u.Cells)
		case ActionAppend:
			c.add(key, u.ZPath, u.Cells)
		}
	}
}

func (c *Cache) clearPrefix(prefix string) {
	for key := range c.paths {
		if prefixMatch(key, prefix) {
			c.removePath(key)
		}
	}
}

func (c *Cache) removePath(key string) {
	idx, ok := c.paths[key]
	if !ok {
		return
	}
	delete(c.paths, key)
	for i := range idx {
		cs := &c.cells[i]
		kept := cs.layers[:0]
		for _, l := range cs.layers {
			if l.path == key {
				if l.animated {
					cs.timeLayers--
				}
				continue
			}
			kept = append(kept, l)
		}
		clear(cs.layers[len(kept):])
		cs.layers = kept
		if cs.timeLayers == 0 {
			delete(c.animated, i)
		}
		c.markDirty(i)
	}
}

func (c *Cache) add(key string, z ZPath, cells []Cell) {
	if len(cells) == 0 {
		return
	}
	idx := c.paths[key]
	for _, dc := range cells {
		if !c.inBounds(dc.X, dc.Y) {
			continue
		}
		if idx == nil {
			idx = make(map[int]struct{})
			c.paths[key] = idx
		}
		i := dc.Y*c.width + dc.X
		c.seq++
		l := layer{path: key, zpath: z, seq: c.seq, cell: dc.DrawCell, animated: dc.Style.Animated()}
		cs := &c.cells[i]

		// Stable insertion: after every layer not in front of l
		pos := sort.Search(len(cs.layers), func(j int) bool {
			return l.behind(&cs.layers[j])
		})
		cs.layers = append(cs.layers, layer{})
		copy(cs.layers[pos+1:], cs.layers[pos:])
		cs.layers[pos] = l

		if l.animated {
			cs.timeLayers++
			c.animated[i] = struct{}{}
		}
		idx[i] = struct{}{}
		c.markDirty(i)
	}
}

// Frame resolves dirty and time-animated cells and returns the ones that changed
func (c *Cache) Frame(now time.Time) []terminal.CellUpdate {
	var out []terminal.CellUpdate

	emit := func(i int, forced bool) {
		cs := &c.cells[i]
		x, y := i%c.width, i/c.width
		cell := resolve(cs.layers, x, y, now)
		cs.dirty = false
		if !forced && cs.valid && cs.last == cell {
			return
		}
		cs.last = cell
		cs.valid = true
		out = append(out, terminal.CellUpdate{X: x, Y: y, Cell: cell})
	}

	if c.force {
		c.force = false
		c.dirty = c.dirty[:0]
		out = make([]terminal.CellUpdate, 0, len(c.cells))
		for i := range c.cells {
			emit(i, true)
		}
		return out
	}

	// Time layers are never clean; emit in row-major order
	idx := make([]int, 0, len(c.dirty)+len(c.animated))
	for _, i := range c.dirty {
		if _, ok := c.animated[i]; !ok {
			idx = append(idx, i)
		}
	}
	for i := range c.animated {
		idx = append(idx, i)
	}
	c.dirty = c.dirty[:0]
	sort.Ints(idx)
	for _, i := range idx {
		emit(i, false)
	}
	return out
}
