package render

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/loom/core"
	"github.com/lixenwraith/loom/layout"
	"github.com/lixenwraith/loom/terminal"
)

var t0 = time.Unix(1_700_000_000, 0)

type pos struct{ x, y int }

func frameMap(c *Cache, now time.Time) map[pos]terminal.Cell {
	out := make(map[pos]terminal.Cell)
	for _, u := range c.Frame(now) {
		out[pos{u.X, u.Y}] = u.Cell
	}
	return out
}

func glyphAt(x, y int, r rune, st Style) []Cell {
	return []Cell{At(x, y, Glyph(r), st)}
}

func red() Style {
	return Style{Fg: Solid(terminal.RGB{R: 255}), Bg: Default(), Underline: Default()}
}

func TestCacheFirstFrameAndResize(t *testing.T) {
	c := NewCache(3, 2)
	first := frameMap(c, t0)
	assert.Len(t, first, 6)
	assert.Equal(t, terminal.Blank, first[pos{2, 1}])

	assert.Empty(t, c.Frame(t0), "clean cells emit nothing")

	c.Apply(Replace(Path{"a"}, nil, glyphAt(0, 0, 'x', red())))
	c.Resize(4, 1)
	after := frameMap(c, t0)
	assert.Len(t, after, 4, "resize forces every cell once")
	assert.Equal(t, ' ', after[pos{0, 0}].Rune, "resize drops layers")
	w, h := c.Size()
	assert.Equal(t, 4, w)
	assert.Equal(t, 1, h)
}

func TestCacheReplaceIdempotent(t *testing.T) {
	c := NewCache(4, 1)
	c.Frame(t0)

	u := Replace(Path{"a"}, ZPath{{Z: 0, ID: "a"}}, TextCells(0, 0, "hi", red()))
	c.Apply(u)
	out := frameMap(c, t0)
	require.Len(t, out, 2)
	assert.Equal(t, 'h', out[pos{0, 0}].Rune)
	assert.Equal(t, terminal.RGB{R: 255}, out[pos{1, 0}].Fg)

	c.Apply(u)
	assert.Empty(t, c.Frame(t0), "same content again changes nothing")
	assert.Equal(t, 1, c.Layers(0, 0))
}

func TestCacheRemoveThenReAdd(t *testing.T) {
	c := NewCache(2, 1)
	c.Frame(t0)
	u := Replace(Path{"a"}, nil, glyphAt(1, 0, 'q', red()))

	c.Apply(u)
	before := frameMap(c, t0)[pos{1, 0}]

	c.Apply(Remove(Path{"a"}))
	cleared := frameMap(c, t0)
	require.Len(t, cleared, 1)
	assert.Equal(t, terminal.Blank, cleared[pos{1, 0}])
	assert.Equal(t, 0, c.Layers(1, 0))

	c.Apply(u)
	assert.Equal(t, before, frameMap(c, t0)[pos{1, 0}])
}

func TestCacheLowerZInFront(t *testing.T) {
	root := core.ID("r")
	c := NewCache(1, 1)
	c.Frame(t0)

	zFront := ZPath{{Z: 0, ID: root}, {Z: 0, ID: "a"}}
	zBack := ZPath{{Z: 0, ID: root}, {Z: 1, ID: "b"}}
	// Submission order must not matter
	c.Apply(
		Replace(PathOf(root, "a"), zFront, glyphAt(0, 0, 'A', red())),
		Replace(PathOf(root, "b"), zBack, glyphAt(0, 0, 'B', red())),
	)
	assert.Equal(t, 'A', frameMap(c, t0)[pos{0, 0}].Rune)

	c.Apply(Remove(PathOf(root, "a")))
	assert.Equal(t, 'B', frameMap(c, t0)[pos{0, 0}].Rune)
}

func TestCacheDescendantInFrontOfAncestor(t *testing.T) {
	c := NewCache(1, 1)
	c.Frame(t0)
	parent := ZPath{{Z: 0, ID: "p"}}
	child := ZPath{{Z: 0, ID: "p"}, {Z: 5, ID: "c"}}

	c.Apply(
		Replace(Path{"p", "c"}, child, glyphAt(0, 0, 'c', red())),
		Replace(Path{"p"}, parent, glyphAt(0, 0, 'p', red())),
	)
	assert.Equal(t, 'c', frameMap(c, t0)[pos{0, 0}].Rune)
}

func TestCacheEqualZPathGreaterKeyInFront(t *testing.T) {
	c := NewCache(1, 1)
	c.Frame(t0)
	z := ZPath{{Z: 0, ID: "p"}}
	c.Apply(
		Replace(Path{"p", "b"}, z, glyphAt(0, 0, 'b', red())),
		Replace(Path{"p", "a"}, z, glyphAt(0, 0, 'a', red())),
	)
	assert.Equal(t, 'b', frameMap(c, t0)[pos{0, 0}].Rune)
}

func TestCacheClearAllPrefix(t *testing.T) {
	c := NewCache(3, 1)
	c.Frame(t0)
	c.Apply(
		Replace(Path{"a"}, nil, glyphAt(0, 0, '1', red())),
		Replace(Path{"a", "b"}, nil, glyphAt(1, 0, '2', red())),
		Replace(Path{"ab"}, nil, glyphAt(2, 0, '3', red())),
	)
	c.Frame(t0)

	c.Apply(ClearAll(Path{"a"}))
	out := frameMap(c, t0)
	assert.Len(t, out, 2)
	assert.Equal(t, ' ', out[pos{0, 0}].Rune)
	assert.Equal(t, ' ', out[pos{1, 0}].Rune)
	assert.Equal(t, 1, c.Layers(2, 0), "sibling with a shared string prefix survives")
}

func TestCacheAppendAccumulates(t *testing.T) {
	c := NewCache(2, 1)
	c.Frame(t0)
	c.Apply(
		Append(Path{"a"}, nil, glyphAt(0, 0, 'x', red())),
		Append(Path{"a"}, nil, glyphAt(1, 0, 'y', red())),
		Append(Path{"a"}, nil, glyphAt(1, 0, 'z', red())),
	)
	out := frameMap(c, t0)
	assert.Equal(t, 'x', out[pos{0, 0}].Rune)
	assert.Equal(t, 'z', out[pos{1, 0}].Rune, "later append on the same path is in front")

	c.Apply(Remove(Path{"a"}))
	assert.Len(t, c.Frame(t0), 2)
}

func TestCacheOutOfBoundsIgnored(t *testing.T) {
	c := NewCache(2, 2)
	c.Frame(t0)
	c.Apply(Replace(Path{"a"}, nil, []Cell{
		At(-1, 0, Glyph('x'), red()),
		At(2, 0, Glyph('x'), red()),
		At(0, 5, Glyph('x'), red()),
	}))
	assert.Empty(t, c.Frame(t0))
}

func TestResolveTransparency(t *testing.T) {
	panel := Style{Fg: Solid(terminal.RGB{G: 200}), Bg: Solid(terminal.RGB{B: 90}), Underline: Default()}

	t.Run("zero style inherits every channel", func(t *testing.T) {
		cell := Resolve([]DrawCell{
			{Content: Glyph(' '), Style: panel},
			{Content: Glyph('x')},
		}, 0, 0, t0)
		assert.Equal(t, 'x', cell.Rune)
		assert.Equal(t, terminal.RGB{G: 200}, cell.Fg)
		assert.Equal(t, terminal.RGB{B: 90}, cell.Bg)
		assert.Zero(t, cell.Attrs&(terminal.AttrFgDefault|terminal.AttrBgDefault))
	})

	t.Run("transparent content keeps glyph and attrs", func(t *testing.T) {
		bold := panel.WithAttrs(terminal.AttrBold)
		cell := Resolve([]DrawCell{
			{Content: Glyph('k'), Style: bold},
			{Content: TransparentContent, Style: Style{Fg: Solid(terminal.RGB{R: 1})}},
		}, 0, 0, t0)
		assert.Equal(t, 'k', cell.Rune)
		assert.Equal(t, terminal.RGB{R: 1}, cell.Fg)
		assert.Equal(t, terminal.AttrBold, cell.Attrs&terminal.AttrStyle)
	})

	t.Run("cross channel from beneath", func(t *testing.T) {
		cell := Resolve([]DrawCell{
			{Content: Glyph(' '), Style: panel},
			{Content: Glyph('i'), Style: Style{Fg: Transparent(FromBeneathBg), Bg: Transparent(FromBeneathFg)}},
		}, 0, 0, t0)
		assert.Equal(t, terminal.RGB{B: 90}, cell.Fg)
		assert.Equal(t, terminal.RGB{G: 200}, cell.Bg)
	})

	t.Run("own channel", func(t *testing.T) {
		cell := Resolve([]DrawCell{
			{Content: Glyph('o'), Style: Style{Fg: Transparent(FromOwnBg), Bg: Solid(terminal.RGB{R: 9}), Underline: Transparent(FromOwnFg)}},
		}, 0, 0, t0)
		assert.Equal(t, terminal.RGB{R: 9}, cell.Fg)
		assert.Equal(t, terminal.RGB{R: 9}, cell.Ul)
		assert.NotZero(t, cell.Attrs&terminal.AttrUlColor)
	})

	t.Run("own cycle falls back to beneath", func(t *testing.T) {
		cell := Resolve([]DrawCell{
			{Content: Glyph(' '), Style: panel},
			{Content: Glyph('c'), Style: Style{Fg: Transparent(FromOwnBg), Bg: Transparent(FromOwnFg)}},
		}, 0, 0, t0)
		assert.Equal(t, terminal.RGB{G: 200}, cell.Fg)
		assert.Equal(t, terminal.RGB{B: 90}, cell.Bg)
	})

	t.Run("self reference falls back to beneath", func(t *testing.T) {
		cell := Resolve([]DrawCell{
			{Content: Glyph(' '), Style: panel},
			{Content: Glyph('s'), Style: Style{Bg: Transparent(FromOwnBg)}},
		}, 0, 0, t0)
		assert.Equal(t, terminal.RGB{B: 90}, cell.Bg)
	})

	t.Run("default over solid", func(t *testing.T) {
		cell := Resolve([]DrawCell{
			{Content: Glyph(' '), Style: panel},
			{Content: Glyph('d'), Style: Plain},
		}, 0, 0, t0)
		assert.NotZero(t, cell.Attrs&terminal.AttrFgDefault)
		assert.NotZero(t, cell.Attrs&terminal.AttrBgDefault)
		assert.Zero(t, cell.Attrs&terminal.AttrUlColor)
	})
}

func TestCacheAnimatedCellsReResolve(t *testing.T) {
	c := NewCache(2, 1)
	c.Frame(t0)

	g := Gradient{
		Stops:  []Stop{{Pos: 0, Color: terminal.RGB{}}, {Pos: 1, Color: terminal.RGB{R: 255, G: 255, B: 255}}},
		Period: time.Second,
	}
	st := Style{Fg: Animate(g), Bg: Default()}
	c.Apply(
		Replace(Path{"anim"}, nil, glyphAt(0, 0, '*', st)),
		Replace(Path{"static"}, nil, glyphAt(1, 0, '-', red())),
	)

	first := frameMap(c, t0)
	require.Len(t, first, 2)

	// No Apply, but time moved: only the animated cell comes back
	second := frameMap(c, t0.Add(500*time.Millisecond))
	require.Len(t, second, 1)
	assert.NotEqual(t, first[pos{0, 0}].Fg, second[pos{0, 0}].Fg)

	// Same instant again: re-resolved but unchanged, nothing emitted
	assert.Empty(t, c.Frame(t0.Add(500*time.Millisecond)))

	c.Apply(Remove(Path{"anim"}))
	c.Frame(t0)
	assert.Empty(t, c.Frame(t0.Add(250*time.Millisecond)), "time layer gone, cell stays clean")
}

func TestCacheFrameRowMajor(t *testing.T) {
	g := Gradient{
		Stops:  []Stop{{Pos: 0, Color: terminal.RGB{}}, {Pos: 1, Color: terminal.RGB{R: 255, G: 255, B: 255}}},
		Period: time.Second,
	}
	anim := Style{Fg: Animate(g), Bg: Default()}

	c := NewCache(6, 4)
	c.Frame(t0)
	var cells []Cell
	for y := 0; y < 4; y++ {
		for x := 0; x < 6; x += 2 {
			cells = append(cells, At(x, y, Glyph('*'), anim))
		}
	}
	c.Apply(Replace(Path{"anim"}, nil, cells))
	c.Frame(t0)

	now := t0
	for i := 0; i < 20; i++ {
		now = now.Add(100 * time.Millisecond)
		c.Apply(Replace(Path{"static"}, nil, []Cell{
			At(5-i%6, 3-i%4, Glyph(rune('a'+i)), red()),
			At(i%6, i%4, Glyph(rune('A'+i)), red()),
		}))
		out := c.Frame(now)
		require.NotEmpty(t, out)
		for j := 1; j < len(out); j++ {
			prev, cur := out[j-1], out[j]
			require.True(t, prev.Y < cur.Y || (prev.Y == cur.Y && prev.X < cur.X),
				"frame %d: (%d,%d) before (%d,%d)", i, prev.X, prev.Y, cur.X, cur.Y)
		}
	}
}

func TestZPathCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b ZPath
		want int
	}{
		{"equal", ZPath{{0, "a"}}, ZPath{{0, "a"}}, 0},
		{"higher z behind", ZPath{{2, "a"}}, ZPath{{1, "a"}}, -1},
		{"lower z in front", ZPath{{0, "z"}}, ZPath{{1, "a"}}, 1},
		{"older id behind", ZPath{{0, "a"}}, ZPath{{0, "b"}}, -1},
		{"ancestor behind descendant", ZPath{{0, "a"}}, ZPath{{0, "a"}, {9, "c"}}, -1},
		{"sibling order beats depth", ZPath{{0, "b"}}, ZPath{{0, "a"}, {0, "c"}}, 1},
		{"empty behind everything", nil, ZPath{{0, "a"}}, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Compare(tt.b))
		})
	}
}

func TestUpdateNest(t *testing.T) {
	u := Replace(Path{"border"}, nil, []Cell{
		At(0, 0, Glyph('a'), Plain),
		At(3, 0, Glyph('b'), Plain),
		At(1, 1, Glyph('c'), Plain),
	})
	bounds := layout.RectWH(5, 2, 3, 3) // child is 3×3 at (5,2)
	visible := layout.RectWH(0, 0, 10, 3)

	n := u.Nest("child", 2, bounds, visible)
	assert.Equal(t, "child/border", n.Path.Key())
	assert.Equal(t, ZPath{{Z: 2, ID: "child"}}, n.ZPath)
	require.Len(t, n.Cells, 1, "outside the child and below the visible area are clipped")
	assert.Equal(t, 5, n.Cells[0].X)
	assert.Equal(t, 2, n.Cells[0].Y)

	clr := ClearAll(nil).Nest("child", 2, bounds, visible)
	assert.Equal(t, ActionClearAll, clr.Action)
	assert.Equal(t, "child", clr.Path.Key())
	assert.Empty(t, clr.ZPath)
}

func TestBoxAndFill(t *testing.T) {
	cells := Box(layout.RectWH(0, 0, 3, 3), LineRounded, Plain)
	assert.Len(t, cells, 8)
	assert.Equal(t, '╭', cells[0].Content.Rune)
	assert.Nil(t, Box(layout.RectWH(0, 0, 1, 4), LineSingle, Plain))

	assert.Len(t, Fill(layout.RectWH(1, 1, 2, 3), Glyph('.'), Plain), 6)
	assert.Len(t, Clip(Fill(layout.RectWH(0, 0, 4, 4), Glyph('.'), Plain), layout.RectWH(1, 1, 2, 2)), 4)
}
