package element

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/loom/core"
	"github.com/lixenwraith/loom/errors"
	"github.com/lixenwraith/loom/event"
	"github.com/lixenwraith/loom/layout"
	"github.com/lixenwraith/loom/terminal"
)

var (
	keyX  = event.Combo(event.Rune('x'))
	keyY  = event.Combo(event.Rune('y'))
	keyGG = event.Combo(event.Rune('g'), event.Rune('g'))
	tick  = event.CustomEvent("tick")
)

type recorder struct {
	from []core.ID
	got  []Responses
}

func (r *recorder) Propagate(child core.ID, rs Responses) {
	r.from = append(r.from, child)
	r.got = append(r.got, rs)
}

func (r *recorder) delta() event.Delta {
	var d event.Delta
	for _, rs := range r.got {
		d = d.Merge(rs.Delta())
	}
	return d.Net()
}

func nop(layout.Region, event.Event) (bool, Responses) { return true, nil }

func respond(rs ...Response) Handler {
	return func(layout.Region, event.Event) (bool, Responses) { return true, rs }
}

func routable(entries []event.Entry) []string {
	var out []string
	for _, e := range entries {
		if e.Priority.Routable() {
			out = append(out, e.String())
		}
	}
	return out
}

func TestPaneReceivable(t *testing.T) {
	p := NewPane(layout.FullLocation())
	p.On(keyX, nop)
	p.OnAt(keyY, event.Highest, nop)

	assert.ElementsMatch(t, []event.Entry{
		{Event: keyX, Priority: event.Focused},
		{Event: keyY, Priority: event.Focused}, // never more focused than the pane itself
	}, p.Receivable())

	d := p.ChangePriority(event.Unfocused)
	assert.Len(t, d.Remove, 2)
	assert.Len(t, d.Add, 2)
	assert.Empty(t, routable(p.Receivable()))
	assert.True(t, p.ChangePriority(event.Unfocused).Empty())
}

func TestDemotedChildMasksContainer(t *testing.T) {
	c := NewContainer(layout.FullLocation())
	a := NewPane(layout.FullLocation())
	a.On(keyX, nop)
	a.On(keyGG, nop)
	c.Add(a)
	require.ElementsMatch(t, []string{keyX.Key() + "@focused", keyGG.Key() + "@focused"}, routable(c.Receivable()))

	d := c.org.SetPriority(a.ID(), event.Unfocused)
	assert.False(t, d.Empty())
	assert.Empty(t, routable(c.Receivable()), "demoted child leaves nothing routable")
	assert.Len(t, c.Receivable(), 2, "still registered, at Unfocused")
}

func TestContainerPriorityRederives(t *testing.T) {
	root := NewContainer(layout.FullLocation())
	mid := NewContainer(layout.FullLocation())
	leaf := NewPane(layout.FullLocation())
	leaf.On(keyX, nop)
	mid.Add(leaf)
	root.Add(mid)

	d := mid.ChangePriority(event.Unfocused)
	assert.Equal(t, []event.Entry{{Event: keyX, Priority: event.Focused}}, d.Remove)
	assert.Equal(t, []event.Entry{{Event: keyX, Priority: event.Unfocused}}, d.Add)

	// Restoring is symmetric and does not touch the leaf
	d = mid.ChangePriority(event.Focused)
	assert.Equal(t, []event.Entry{{Event: keyX, Priority: event.Focused}}, d.Add)
	assert.Equal(t, event.Focused, leaf.Priority())
}

func TestUpwardPropagation(t *testing.T) {
	root := NewContainer(layout.FullLocation())
	mid := NewContainer(layout.FullLocation())
	leaf := NewPane(layout.FullLocation())
	mid.Add(leaf)
	root.Add(mid)
	rec := &recorder{}
	root.SetParent(rec)

	leaf.On(keyX, nop)
	require.Len(t, rec.got, 1)
	assert.Equal(t, root.ID(), rec.from[0])
	assert.Equal(t, event.Delta{Add: []event.Entry{{Event: keyX, Priority: event.Focused}}}, rec.delta())
	assert.Equal(t, []string{keyX.Key() + "@focused"}, routable(root.Receivable()))

	// Through an unfocused middle the leaf's change is invisible outside
	root.org.SetPriority(mid.ID(), event.Unfocused)
	rec.got = nil
	leaf.On(keyY, nop)
	require.Len(t, rec.got, 1)
	assert.Equal(t, event.Delta{Add: []event.Entry{{Event: keyY, Priority: event.Unfocused}}}, rec.delta())

	// Re-registering the same binding changes nothing upward
	rec.got = nil
	leaf.On(keyY, nop)
	assert.Empty(t, rec.got)

	leaf.Off(keyX)
	assert.NotContains(t, root.Receivable(), event.Entry{Event: keyX, Priority: event.Unfocused})
}

func TestDuplicateFocusedSiblingsPanic(t *testing.T) {
	c := NewContainer(layout.FullLocation())
	a := NewPane(layout.FullLocation())
	b := NewPane(layout.FullLocation())
	a.On(keyX, nop)
	b.On(keyX, nop)
	c.Add(a)

	defer func() {
		rec := recover()
		require.NotNil(t, rec)
		err, ok := rec.(*errors.Error)
		require.True(t, ok, "panic value %T", rec)
		assert.Equal(t, errors.KindInvariant, err.Kind)
		assert.Equal(t, 1, c.org.Len(), "refused child is not half added")
	}()
	c.Add(b)
}

func TestUnfocusedDuplicatesAllowed(t *testing.T) {
	c := NewContainer(layout.FullLocation())
	a := NewPane(layout.FullLocation())
	b := NewPane(layout.FullLocation())
	a.On(keyX, nop)
	b.On(keyX, nop)
	b.ChangePriority(event.Unfocused)
	assert.NotPanics(t, func() {
		c.Add(a)
		c.Add(b)
	})

	// Focus moves without ever holding two Focused rows
	assert.NotPanics(t, func() { c.FocusChild(b.ID()) })
	assert.Equal(t, event.Unfocused, a.Priority())
	assert.Equal(t, event.Focused, b.Priority())
}

func TestKeyRoutingAndQuit(t *testing.T) {
	root := NewContainer(layout.FullLocation())
	mid := NewContainer(layout.FullLocation())
	leaf := NewPane(layout.FullLocation())
	var got []event.Event
	leaf.On(keyX, func(_ layout.Region, ev event.Event) (bool, Responses) {
		got = append(got, ev)
		return true, Responses{Quit{}}
	})
	mid.Add(leaf)
	root.Add(mid)

	combo := event.KeyCombo{Receivable: keyX, Presses: keyX.Presses()}
	captured, rs := root.ReceiveEvent(layout.NewRegion(10, 10), combo)
	assert.True(t, captured)
	assert.True(t, rs.Has(Quit{}))
	require.Len(t, got, 1)

	captured, rs = root.ReceiveEvent(layout.NewRegion(10, 10), event.KeyCombo{Receivable: keyY})
	assert.False(t, captured)
	assert.Empty(t, rs)
}

func TestStrictestRowOwnsCombo(t *testing.T) {
	c := NewContainer(layout.FullLocation())
	hits := 0
	c.OnAt(keyGG, event.Highest, func(layout.Region, event.Event) (bool, Responses) {
		hits++
		return true, nil
	})
	p := NewPane(layout.FullLocation())
	p.On(keyGG, nop)
	c.Add(p)

	captured, _ := c.ReceiveEvent(layout.NewRegion(1, 1), event.KeyCombo{Receivable: keyGG})
	assert.True(t, captured)
	assert.Equal(t, 1, hits, "strictest row owns the combo")
}

func TestDestructCleansUp(t *testing.T) {
	c := NewContainer(layout.FullLocation())
	a := NewPane(layout.FullLocation())
	b := NewPane(layout.FullLocation())
	a.On(keyX, respond(Destruct{}))
	b.OnAt(keyY, event.Unfocused, nop)
	c.Add(a)
	c.Add(b)
	fired := 0
	b.AddHook(HookVisibility, a.ID(), func(HookKind, Element) { fired++ })
	c.AddHook(HookAttribute, a.ID(), func(HookKind, Element) { fired++ })

	// Drain the first frame so only the removal shows up later
	c.Drawing(layout.NewRegion(4, 4), false)

	_, rs := c.ReceiveEvent(layout.NewRegion(4, 4), event.KeyCombo{Receivable: keyX})
	assert.Equal(t, event.Delta{Remove: []event.Entry{{Event: keyX, Priority: event.Focused}}}, rs.Delta())

	_, ok := c.org.Get(a.ID())
	assert.False(t, ok)
	assert.Empty(t, c.org.Entries(a.ID()))
	for _, row := range c.org.Registry().Rows() {
		assert.NotEqual(t, a.ID(), row.Owner, "stale row for removed child")
	}

	b.SetVisible(false)
	c.SetAttribute("k", []byte("v"))
	assert.Zero(t, fired, "hooks registered by the removed child are gone")

	ups := c.Drawing(layout.NewRegion(4, 4), false)
	require.NotEmpty(t, ups)
	assert.Equal(t, "clear_all", ups[0].Action.String())
	assert.Equal(t, string(a.ID()), ups[0].Path.Key())
}

func TestNewElementAddsSibling(t *testing.T) {
	c := NewContainer(layout.FullLocation())
	spawned := NewPane(layout.FixedLocation(0, 0, 2, 2))
	spawned.On(keyY, nop)
	a := NewPane(layout.FullLocation())
	a.On(keyX, respond(NewElement{El: spawned}))
	c.Add(a)

	_, rs := c.ReceiveEvent(layout.NewRegion(4, 4), event.KeyCombo{Receivable: keyX})
	assert.Equal(t, event.Delta{Add: []event.Entry{{Event: keyY, Priority: event.Focused}}}, rs.Delta())
	assert.Equal(t, 2, c.org.Len())
}

func TestFocusResponses(t *testing.T) {
	root := NewContainer(layout.FullLocation())
	left := NewContainer(layout.FixedLocation(0, 0, 5, 5))
	right := NewContainer(layout.FixedLocation(5, 0, 5, 5))
	a := NewPane(layout.FullLocation())
	b := NewPane(layout.FullLocation())
	a.On(keyX, nop)
	b.OnMouse(respond(UnfocusOthers{}, Focus{}))
	b.On(keyY, nop)
	left.Add(a)
	right.Add(b)
	root.Add(left)
	root.Add(right)
	right.ChangePriority(event.Unfocused)
	root.org.Apply(right.ID(), event.Diff(root.org.Entries(right.ID()), right.Receivable()))

	click := event.Mouse{Point: layout.Point{X: 6, Y: 1}, Abs: layout.Point{X: 6, Y: 1}, Button: terminal.MouseBtnLeft, Action: terminal.MouseActionPress}
	_, rs := root.ReceiveEvent(layout.NewRegion(10, 5), click)

	assert.True(t, rs.Has(Focus{}))
	assert.True(t, rs.Has(UnfocusOthers{}))
	assert.Equal(t, event.Unfocused, left.Priority())
	assert.Equal(t, event.Focused, right.Priority())
	assert.Equal(t, []string{keyY.Key() + "@focused"}, routable(root.Receivable()))
}

func TestUnfocusOthersSparesHighestSiblings(t *testing.T) {
	root := NewContainer(layout.FullLocation())
	global := NewPane(layout.FixedLocation(0, 0, 10, 1))
	global.OnAt(keyX, event.Highest, nop)
	pinnedPane := NewPane(layout.FixedLocation(0, 1, 10, 1))
	pinnedPane.ChangePriority(event.Highest)
	pinnedPane.On(tick, nop)
	panel := NewPane(layout.FixedLocation(0, 2, 10, 3))
	panel.OnMouse(respond(UnfocusOthers{}, Focus{}))
	panel.On(keyY, nop)
	panel.ChangePriority(event.Unfocused)
	root.Add(global)
	root.Add(pinnedPane)
	root.Add(panel)

	click := event.Mouse{Point: layout.Point{X: 1, Y: 3}, Abs: layout.Point{X: 1, Y: 3}, Button: terminal.MouseBtnLeft, Action: terminal.MouseActionPress}
	root.ReceiveEvent(layout.NewRegion(10, 5), click)

	assert.Equal(t, event.Focused, global.Priority())
	assert.Equal(t, event.Highest, pinnedPane.Priority())
	assert.Equal(t, event.Focused, panel.Priority())
	assert.ElementsMatch(t,
		[]string{keyX.Key() + "@focused", tick.Key() + "@focused", keyY.Key() + "@focused"},
		routable(root.Receivable()))
}

func TestFocusKeepsHighest(t *testing.T) {
	root := NewContainer(layout.FullLocation())
	p := NewPane(layout.FullLocation())
	p.ChangePriority(event.Highest)
	p.OnMouse(respond(Focus{}))
	root.Add(p)

	click := event.Mouse{Point: layout.Point{X: 1, Y: 1}, Abs: layout.Point{X: 1, Y: 1}, Button: terminal.MouseBtnLeft, Action: terminal.MouseActionPress}
	_, rs := root.ReceiveEvent(layout.NewRegion(4, 4), click)
	assert.True(t, rs.Has(Focus{}))
	assert.Equal(t, event.Highest, p.Priority())

	require.Empty(t, root.FocusChild(p.ID()).Delta().Add)
	assert.Equal(t, event.Highest, p.Priority())
}

func TestMouseHitTest(t *testing.T) {
	c := NewContainer(layout.FullLocation())
	back := NewPane(layout.FixedLocation(0, 0, 5, 5).WithZ(1))
	front := NewPane(layout.FixedLocation(2, 0, 5, 5))
	idle := NewPane(layout.FixedLocation(8, 0, 2, 2))
	idle.ChangePriority(event.Unfocused)

	var backGot, frontGot, idleGot []event.Event
	record := func(dst *[]event.Event) Handler {
		return func(_ layout.Region, ev event.Event) (bool, Responses) {
			*dst = append(*dst, ev)
			return true, nil
		}
	}
	back.OnMouse(record(&backGot))
	back.OnExternalMouse(record(&backGot))
	front.OnMouse(record(&frontGot))
	front.OnExternalMouse(record(&frontGot))
	idle.OnExternalMouse(record(&idleGot))
	c.Add(back)
	c.Add(front)
	c.Add(idle)

	click := event.Mouse{Point: layout.Point{X: 3, Y: 1}, Abs: layout.Point{X: 13, Y: 21}, Action: terminal.MouseActionPress}
	captured, _ := c.ReceiveEvent(layout.NewRegion(10, 5), click)
	assert.True(t, captured)

	require.Len(t, frontGot, 1)
	m, ok := frontGot[0].(event.Mouse)
	require.True(t, ok)
	assert.Equal(t, layout.Point{X: 1, Y: 1}, m.Point, "translated into the child's space")
	assert.Equal(t, layout.Point{X: 13, Y: 21}, m.Abs)

	require.Len(t, backGot, 1)
	ext, ok := backGot[0].(event.ExternalMouse)
	require.True(t, ok)
	assert.Equal(t, layout.Point{X: 13, Y: 21}, ext.Point, "external events carry screen coordinates")
	assert.Empty(t, idleGot, "unfocused children are not told")

	// Outside every child: all routable children hear about it
	frontGot, backGot = nil, nil
	c.ReceiveEvent(layout.NewRegion(10, 5), event.Mouse{Point: layout.Point{X: 9, Y: 4}})
	assert.Len(t, frontGot, 1)
	assert.Len(t, backGot, 1)
}

func TestMouseEqualZNewerWins(t *testing.T) {
	c := NewContainer(layout.FullLocation())
	older := NewPane(layout.FixedLocation(0, 0, 3, 3))
	newer := NewPane(layout.FixedLocation(0, 0, 3, 3))
	c.Add(newer)
	c.Add(older)

	hit, _, ok := c.org.Hit(layout.Point{X: 1, Y: 1}, layout.Size{W: 3, H: 3})
	require.True(t, ok)
	assert.Equal(t, newer.ID(), hit.ID())

	older.SetVisible(false)
	newer.SetVisible(false)
	_, _, ok = c.org.Hit(layout.Point{X: 1, Y: 1}, layout.Size{W: 3, H: 3})
	assert.False(t, ok, "hidden children are not hit")
}

func TestMouseExtraRegion(t *testing.T) {
	c := NewContainer(layout.FullLocation())
	menu := NewPane(layout.FixedLocation(0, 0, 4, 1).WithExtra(layout.FixedLocation(0, 1, 4, 3)))
	c.Add(menu)
	hit, _, ok := c.org.Hit(layout.Point{X: 2, Y: 3}, layout.Size{W: 10, H: 10})
	require.True(t, ok)
	assert.Equal(t, menu.ID(), hit.ID())
}

func TestCustomRouting(t *testing.T) {
	root := NewContainer(layout.FullLocation())
	mid := NewContainer(layout.FullLocation())
	a := NewPane(layout.FullLocation())
	b := NewPane(layout.FullLocation())
	var aHits, bHits int
	a.On(tick, func(layout.Region, event.Event) (bool, Responses) { aHits++; return true, nil })
	b.OnAt(tick, event.Unfocused, func(layout.Region, event.Event) (bool, Responses) { bHits++; return true, nil })
	mid.Add(a)
	root.Add(mid)
	root.Add(b)

	// Broadcast reaches owners at any priority
	captured, _ := root.ReceiveEvent(layout.NewRegion(5, 5), event.Custom{Name: "tick"})
	assert.True(t, captured)
	assert.Equal(t, 1, aHits)
	assert.Equal(t, 1, bHits)

	// Targeted goes down the subtree holding the target only
	root.ReceiveEvent(layout.NewRegion(5, 5), event.Custom{Name: "tick", Target: a.ID()})
	assert.Equal(t, 2, aHits)
	assert.Equal(t, 1, bHits)

	captured, _ = root.ReceiveEvent(layout.NewRegion(5, 5), event.Custom{Name: "tick", Target: core.NewID()})
	assert.False(t, captured)

	found, ok := root.Find(a.ID())
	require.True(t, ok)
	assert.Equal(t, a.ID(), found.ID())
}

func TestResizeDeliversChildSizes(t *testing.T) {
	c := NewContainer(layout.FullLocation())
	locs := layout.SplitH(0.5, 0.5)
	left := NewPane(locs[0])
	right := NewPane(locs[1])
	var sizes []layout.Size
	for _, p := range []*Pane{left, right} {
		p.OnResize(func(r layout.Region, ev event.Event) (bool, Responses) {
			sizes = append(sizes, ev.(event.Resize).Size)
			assert.Equal(t, r.Size, ev.(event.Resize).Size)
			return true, nil
		})
		c.Add(p)
	}

	c.ReceiveEvent(layout.NewRegion(20, 10), event.Resize{Size: layout.Size{W: 20, H: 10}})
	assert.Equal(t, []layout.Size{{W: 10, H: 10}, {W: 10, H: 10}}, sizes)
}

func TestBringToFront(t *testing.T) {
	c := NewContainer(layout.FullLocation())
	a := NewPane(layout.FixedLocation(0, 0, 2, 2))
	b := NewPane(layout.FixedLocation(0, 0, 2, 2).WithZ(2))
	d := NewPane(layout.FixedLocation(0, 0, 2, 2).WithZ(5))
	b.On(keyX, respond(BringToFront{}))
	c.Add(a)
	c.Add(b)
	c.Add(d)

	_, rs := c.ReceiveEvent(layout.NewRegion(2, 2), event.KeyCombo{Receivable: keyX})
	assert.Empty(t, rs, "restacking stays inside the container")
	assert.Equal(t, 0, b.Location().Z)
	assert.Equal(t, 1, a.Location().Z)
	assert.Equal(t, 5, d.Location().Z)

	hit, _, _ := c.org.Hit(layout.Point{}, layout.Size{W: 2, H: 2})
	assert.Equal(t, b.ID(), hit.ID())
}

func TestFocusNextCycles(t *testing.T) {
	c := NewContainer(layout.FullLocation())
	var panes []*Pane
	for i := 0; i < 3; i++ {
		p := NewPane(layout.FullLocation())
		p.On(keyX, nop)
		if i > 0 {
			p.ChangePriority(event.Unfocused)
		}
		c.Add(p)
		panes = append(panes, p)
	}
	panes[1].SetVisible(false)

	// Same bindings on every sibling: the outside view does not change
	rs := c.FocusNext(1)
	assert.Empty(t, rs)
	f, ok := c.Focused()
	require.True(t, ok)
	assert.Equal(t, panes[2].ID(), f.ID(), "hidden children are skipped")

	c.FocusNext(1)
	f, _ = c.Focused()
	assert.Equal(t, panes[0].ID(), f.ID())

	c.FocusNext(-1)
	f, _ = c.Focused()
	assert.Equal(t, panes[2].ID(), f.ID())
}
