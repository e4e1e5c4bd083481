package element

import (
	"github.com/lixenwraith/loom/core"
	"github.com/lixenwraith/loom/event"
	"github.com/lixenwraith/loom/layout"
	"github.com/lixenwraith/loom/render"
)

// Container is an element with children
//
// Its Receivable is derived from the organizer's registry, so a priority
// change re-derives the outside view without walking the subtree.
type Container struct {
	Base
	canvas
	org *Organizer
}

// NewContainer creates a visible, Focused container at loc
func NewContainer(loc layout.Location) *Container {
	c := &Container{canvas: newCanvas()}
	c.init(c, KindContainer, loc)
	c.org = NewOrganizer(c, c)
	c.ownChanged = func(d event.Delta) event.Delta {
		c.org.reg.Apply(c.id, d)
		return d.Perceive(c.priority)
	}
	return c
}

// Organizer exposes the child table
func (c *Container) Organizer() *Organizer { return c.org }

// Add attaches a child outside event delivery and reports the change upward
func (c *Container) Add(el Element) {
	d := c.org.Add(el)
	c.PropagateDelta(d.Perceive(c.priority))
}

// Remove detaches a child outside event delivery and reports the change upward
func (c *Container) Remove(id core.ID) bool {
	d, ok := c.org.Remove(id)
	if ok {
		c.PropagateDelta(d.Perceive(c.priority))
	}
	return ok
}

func (c *Container) Children() []Element { return c.org.Children() }

// Find searches the subtree for id
func (c *Container) Find(id core.ID) (Element, bool) {
	if el, ok := c.org.Get(id); ok {
		return el, true
	}
	for _, el := range c.org.Children() {
		if f, ok := el.(Finder); ok {
			if found, ok := f.Find(id); ok {
				return found, true
			}
		}
	}
	return nil, false
}

// Receivable is every registry row seen through the container's priority
func (c *Container) Receivable() []event.Entry {
	return event.Perceive(c.priority, c.org.reg.Entries())
}

func (c *Container) ChangePriority(p event.Priority) event.Delta {
	if p == c.priority {
		return event.Delta{}
	}
	before := c.Receivable()
	c.priority = p
	c.dirty = true
	return event.Diff(before, c.Receivable())
}

// RemoveHooks drops owner's hooks on the container and its whole subtree
func (c *Container) RemoveHooks(owner core.ID) {
	c.hooks.Remove(owner)
	for _, el := range c.org.Children() {
		el.RemoveHooks(owner)
	}
}

// Propagate implements Parent for the children
func (c *Container) Propagate(child core.ID, rs Responses) {
	c.Notify(c.absorb(child, rs)...)
}

// FocusChild makes id the only Focused visible child
// The returned responses carry the outside delta; return them from a handler
// or pass them to Notify outside event delivery.
func (c *Container) FocusChild(id core.ID) Responses {
	if _, ok := c.org.Get(id); !ok {
		return nil
	}
	d := c.unfocusSiblings(id).Merge(c.raise(id))
	return Responses{}.withDelta(d.Perceive(c.priority))
}

// pinned reports whether focus changes leave el alone:
// it runs at Highest or declares Highest registrations of its own
func pinned(el Element) bool {
	if el.Priority() == event.Highest {
		return true
	}
	if o, ok := el.(interface{ Own() []event.Entry }); ok {
		for _, e := range o.Own() {
			if e.Priority == event.Highest {
				return true
			}
		}
	}
	return false
}

// unfocusSiblings demotes every child except keep and the pinned ones
func (c *Container) unfocusSiblings(keep core.ID) event.Delta {
	var d event.Delta
	for _, el := range c.org.Children() {
		if el.ID() != keep && !pinned(el) {
			d = d.Merge(c.org.SetPriority(el.ID(), event.Unfocused))
		}
	}
	return d
}

// raise lifts a child to Focused; Highest stays Highest
func (c *Container) raise(id core.ID) event.Delta {
	el, ok := c.org.Get(id)
	if !ok || el.Priority() >= event.Focused {
		return event.Delta{}
	}
	return c.org.SetPriority(id, event.Focused)
}

// Focused returns the first Focused child
func (c *Container) Focused() (Element, bool) {
	for _, el := range c.org.Children() {
		if el.Priority() >= event.Focused {
			return el, true
		}
	}
	return nil, false
}

// FocusNext moves focus step children forward (negative for backward), skipping hidden ones
func (c *Container) FocusNext(step int) Responses {
	kids := c.org.Children()
	var candidates []Element
	cur := -1
	for _, el := range kids {
		if !el.Visible() {
			continue
		}
		if cur < 0 && el.Priority() >= event.Focused {
			cur = len(candidates)
		}
		candidates = append(candidates, el)
	}
	if len(candidates) == 0 {
		return nil
	}
	next := 0
	if cur >= 0 {
		n := len(candidates)
		next = ((cur+step)%n + n) % n
	}
	return c.FocusChild(candidates[next].ID())
}

func (c *Container) ReceiveEvent(r layout.Region, ev event.Event) (bool, Responses) {
	c.hooks.Fire(HookBeforeEvent, c)
	defer c.hooks.Fire(HookAfterEvent, c)

	switch e := ev.(type) {
	case event.KeyCombo:
		owner, ok := c.org.reg.Lookup(e.Receivable)
		if !ok {
			return false, nil
		}
		if owner == c.id {
			return c.handle(r, handlerKey(ev), ev)
		}
		return c.deliver(r, owner, ev)

	case event.Mouse:
		return c.routeMouse(r, e)

	case event.ExternalMouse:
		var up Responses
		for _, el := range c.org.Children() {
			if el.Visible() && el.Priority().Routable() {
				_, rs := c.deliver(r, el.ID(), e)
				up = append(up, rs...)
			}
		}
		captured, rs := c.handle(r, keyExternalMouse, ev)
		return captured, append(up, rs...)

	case event.Custom:
		return c.routeCustom(r, e)

	case event.Resize:
		if e.Size != c.size {
			c.dirty = true
		}
		var up Responses
		for _, el := range c.org.Children() {
			rect := el.Location().Resolve(r.Size)
			_, rs := c.deliver(r, el.ID(), event.Resize{Size: rect.Size()})
			up = append(up, rs...)
		}
		captured, rs := c.handle(r, keyResize, ev)
		return captured, append(up, rs...)
	}
	return false, nil
}

func (c *Container) routeMouse(r layout.Region, e event.Mouse) (bool, Responses) {
	target, rect, hit := c.org.Hit(e.Point, r.Size)
	var up Responses
	for _, el := range c.org.Children() {
		if hit && el.ID() == target.ID() {
			continue
		}
		if el.Visible() && el.Priority().Routable() {
			_, rs := c.deliver(r, el.ID(), e.External())
			up = append(up, rs...)
		}
	}
	if !hit {
		captured, rs := c.handle(r, keyMouse, e)
		return captured, append(up, rs...)
	}
	local := e
	local.Point = rect.Local(e.Point)
	captured, rs := c.deliver(r, target.ID(), local)
	return captured, append(up, rs...)
}

func (c *Container) routeCustom(r layout.Region, e event.Custom) (bool, Responses) {
	if e.Target != core.NoID {
		if e.Target == c.id {
			return c.handle(r, handlerKey(e), e)
		}
		for _, el := range c.org.Children() {
			if el.ID() == e.Target {
				return c.deliver(r, el.ID(), e)
			}
			if f, ok := el.(Finder); ok {
				if _, found := f.Find(e.Target); found {
					return c.deliver(r, el.ID(), e)
				}
			}
		}
		return false, nil
	}

	var captured bool
	var up Responses
	for _, owner := range c.org.reg.Owners(e.Receivable()) {
		var cp bool
		var rs Responses
		if owner == c.id {
			cp, rs = c.handle(r, handlerKey(e), e)
		} else {
			cp, rs = c.deliver(r, owner, e)
		}
		captured = captured || cp
		up = append(up, rs...)
	}
	return captured, up
}

// deliver hands ev to a child in its own region and absorbs what it responds
func (c *Container) deliver(r layout.Region, id core.ID, ev event.Event) (bool, Responses) {
	el, ok := c.org.Get(id)
	if !ok {
		return false, nil
	}
	rect := el.Location().Resolve(r.Size)
	captured, rs := el.ReceiveEvent(r.Child(rect), ev)
	return captured, c.absorb(id, rs)
}

// absorb applies a child's responses and returns what goes further up
func (c *Container) absorb(id core.ID, rs Responses) Responses {
	if len(rs) == 0 {
		return nil
	}
	var up Responses
	var d event.Delta

	// Unfocus before focus so two siblings never hold Focused at once
	for _, r := range rs {
		if _, ok := r.(UnfocusOthers); ok {
			d = d.Merge(c.unfocusSiblings(id))
			up = append(up, r)
		}
	}

	for _, r := range rs {
		switch x := r.(type) {
		case Quit, Metadata:
			up = append(up, r)
		case Destruct:
			rd, _ := c.org.Remove(id)
			d = d.Merge(rd)
		case NewElement:
			if x.El != nil {
				d = d.Merge(c.org.Add(x.El))
			}
		case ReceivableDelta:
			if c.org.Apply(id, x.Delta) {
				d = d.Merge(x.Delta)
			}
		case BringToFront:
			c.org.BringToFront(id)
		case Focus:
			d = d.Merge(c.raise(id))
			up = append(up, r)
		}
	}
	return up.withDelta(d.Perceive(c.priority))
}

func (c *Container) Drawing(r layout.Region, force bool) []render.Update {
	if !c.visible {
		if c.drawn {
			c.drawn = false
			c.org.takeCleared()
			c.org.forgetDrawn()
			return []render.Update{render.ClearAll(nil)}
		}
		return nil
	}
	if !c.drawn {
		force = true
	}
	out := c.org.takeCleared()
	out = append(out, c.drawing(r, force, true, c.priority.Routable())...)
	return append(out, c.org.drawing(r, force)...)
}
