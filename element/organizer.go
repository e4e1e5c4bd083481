package element

import (
	"github.com/lixenwraith/loom/core"
	"github.com/lixenwraith/loom/event"
	"github.com/lixenwraith/loom/layout"
	"github.com/lixenwraith/loom/render"
)

// child is the organizer's record of one child
type child struct {
	el    Element
	rect  layout.Rect // last drawn rect
	z     int         // last drawn z
	drawn bool
}

// Organizer owns a container's children: it keeps the child table, the
// routing registry of what each child reported, and the compositor
// clears queued by removals
//
// Children hold only the Parent capability, never the organizer.
type Organizer struct {
	host     Element
	up       Parent
	children map[core.ID]*child
	order    []core.ID
	reg      *event.Registry
	cleared  []render.Update
}

// NewOrganizer creates the organizer of host; children get up as their parent
func NewOrganizer(host Element, up Parent) *Organizer {
	return &Organizer{
		host:     host,
		up:       up,
		children: make(map[core.ID]*child),
		reg:      event.NewRegistry(),
	}
}

// Registry is the routing table; rows owned by the host are its own registrations
func (o *Organizer) Registry() *event.Registry { return o.reg }

// Add registers el and returns the delta of its reported entries, unperceived
func (o *Organizer) Add(el Element) event.Delta {
	id := el.ID()
	if _, ok := o.children[id]; ok {
		return event.Delta{}
	}
	entries := el.Receivable()
	// Registry first: a duplicate panics before the child is half added
	for _, e := range entries {
		o.reg.Add(id, e)
	}
	o.children[id] = &child{el: el}
	o.order = append(o.order, id)
	el.SetParent(o.up)
	return event.Delta{Add: entries}
}

// Remove drops the child, its registry rows, its compositor layers and
// every hook it registered within the host's subtree
func (o *Organizer) Remove(id core.ID) (event.Delta, bool) {
	ch, ok := o.children[id]
	if !ok {
		return event.Delta{}, false
	}
	delete(o.children, id)
	for i, x := range o.order {
		if x == id {
			o.order = append(o.order[:i], o.order[i+1:]...)
			break
		}
	}
	o.cleared = append(o.cleared, render.ClearAll(render.PathOf(id)))
	removed := o.reg.RemoveOwner(id)
	o.host.RemoveHooks(id)
	ch.el.SetParent(nil)
	return event.Delta{Remove: removed}, true
}

// Apply records a child's reported delta
func (o *Organizer) Apply(id core.ID, d event.Delta) bool {
	if _, ok := o.children[id]; !ok {
		return false
	}
	o.reg.Apply(id, d)
	return true
}

// SetPriority changes a child's priority and records the delta it reports
func (o *Organizer) SetPriority(id core.ID, p event.Priority) event.Delta {
	ch, ok := o.children[id]
	if !ok || ch.el.Priority() == p {
		return event.Delta{}
	}
	d := ch.el.ChangePriority(p)
	o.reg.Apply(id, d)
	return d
}

// Get looks up a direct child
func (o *Organizer) Get(id core.ID) (Element, bool) {
	ch, ok := o.children[id]
	if !ok {
		return nil, false
	}
	return ch.el, true
}

// Children returns the children in insertion order
func (o *Organizer) Children() []Element {
	out := make([]Element, len(o.order))
	for i, id := range o.order {
		out[i] = o.children[id].el
	}
	return out
}

func (o *Organizer) Len() int { return len(o.order) }

// Entries returns what a child last reported
func (o *Organizer) Entries(id core.ID) []event.Entry {
	return o.reg.OwnerEntries(id)
}

// Hit selects the visible child whose primary or extra location contains p:
// lowest z, ties to the newer (greater) ID
func (o *Organizer) Hit(p layout.Point, s layout.Size) (Element, layout.Rect, bool) {
	var best Element
	var bestLoc layout.Location
	for _, id := range o.order {
		el := o.children[id].el
		if !el.Visible() {
			continue
		}
		loc := el.Location()
		if !loc.Contains(p, s) {
			continue
		}
		if best == nil || loc.Z < bestLoc.Z || (loc.Z == bestLoc.Z && el.ID().Newer(best.ID())) {
			best, bestLoc = el, loc
		}
	}
	if best == nil {
		return nil, layout.Rect{}, false
	}
	return best, bestLoc.Resolve(s), true
}

// BringToFront gives id z 0 and pushes every sibling that was in front of or level with it back by one
func (o *Organizer) BringToFront(id core.ID) {
	ch, ok := o.children[id]
	if !ok {
		return
	}
	old := ch.el.Location().Z
	for _, x := range o.order {
		if x == id {
			continue
		}
		el := o.children[x].el
		loc := el.Location()
		if loc.Z <= old {
			el.SetLocation(loc.WithZ(loc.Z + 1))
		}
	}
	ch.el.SetLocation(ch.el.Location().WithZ(0))
}

// takeCleared returns and forgets the queued removal clears
func (o *Organizer) takeCleared() []render.Update {
	out := o.cleared
	o.cleared = nil
	return out
}

// forgetDrawn makes every child redraw in full on its next frame
func (o *Organizer) forgetDrawn() {
	for _, ch := range o.children {
		ch.drawn = false
	}
}

// drawing collects every child's updates nested into the host's space
func (o *Organizer) drawing(r layout.Region, force bool) []render.Update {
	var out []render.Update
	for _, id := range o.order {
		ch := o.children[id]
		loc := ch.el.Location()
		rect := loc.Resolve(r.Size)
		f := force || !ch.drawn
		if ch.drawn && (rect != ch.rect || loc.Z != ch.z) {
			// Moved or restacked: old layers carry stale positions and z-paths
			out = append(out, render.ClearAll(render.PathOf(id)))
			f = true
		}
		ch.rect, ch.z, ch.drawn = rect, loc.Z, true
		for _, u := range ch.el.Drawing(r.Child(rect), f) {
			out = append(out, u.Nest(id, loc.Z, rect, r.Visible))
		}
	}
	return out
}
