package element

import (
	"github.com/lixenwraith/loom/core"
	"github.com/lixenwraith/loom/event"
	"github.com/lixenwraith/loom/layout"
)

// Base carries the state every element shares: identity, location,
// visibility, priority, attributes, hooks and its own registrations
//
// Concrete elements embed Base and call init with themselves.
type Base struct {
	id       core.ID
	kind     string
	self     Element
	loc      layout.Location
	visible  bool
	priority event.Priority
	parent   Parent
	attrs    *Store
	hooks    Hooks

	// own registrations with their declared priority
	own      []event.Entry
	handlers map[string]Handler

	// ownChanged lets the concrete element account for own registrations
	// before the perceived delta goes upward
	ownChanged func(d event.Delta) event.Delta
}

func (b *Base) init(self Element, kind string, loc layout.Location) {
	b.id = core.NewID()
	b.kind = kind
	b.self = self
	b.loc = loc
	b.visible = true
	b.priority = event.Focused
	b.attrs = NewStore()
	b.handlers = make(map[string]Handler)
}

func (b *Base) ID() core.ID { return b.id }

func (b *Base) Kind() string { return b.kind }

func (b *Base) Priority() event.Priority { return b.priority }

func (b *Base) Attribute(key string) ([]byte, bool) {
	return b.attrs.Get(key)
}

func (b *Base) SetAttribute(key string, val []byte) {
	b.attrs.Set(key, val)
	b.hooks.Fire(HookAttribute, b.self)
}

// Attributes exposes the attribute store
func (b *Base) Attributes() *Store { return b.attrs }

func (b *Base) AddHook(kind HookKind, owner core.ID, fn HookFunc) {
	b.hooks.Add(kind, owner, fn)
}

func (b *Base) RemoveHooks(owner core.ID) {
	b.hooks.Remove(owner)
}

func (b *Base) Location() layout.Location { return b.loc.Clone() }

func (b *Base) SetLocation(loc layout.Location) {
	if b.loc.Equal(loc) {
		return
	}
	b.loc = loc
	b.hooks.Fire(HookLocation, b.self)
}

func (b *Base) Visible() bool { return b.visible }

func (b *Base) SetVisible(v bool) {
	if b.visible == v {
		return
	}
	b.visible = v
	b.hooks.Fire(HookVisibility, b.self)
}

func (b *Base) SetParent(p Parent) { b.parent = p }

// On registers a handler for rc at Focused priority
func (b *Base) On(rc event.Receivable, fn Handler) {
	b.OnAt(rc, event.Focused, fn)
}

// OnAt registers a handler for rc at priority p, replacing an earlier one
func (b *Base) OnAt(rc event.Receivable, p event.Priority, fn Handler) {
	var d event.Delta
	for _, e := range b.own {
		if e.Event.Key() == rc.Key() {
			d.Remove = append(d.Remove, e)
		}
	}
	entry := event.Entry{Event: rc, Priority: p}
	d.Add = append(d.Add, entry)
	b.own = d.Apply(b.own)
	b.handlers[rc.Key()] = fn
	b.ownUpdated(d)
}

// Off drops the registration for rc
func (b *Base) Off(rc event.Receivable) {
	var d event.Delta
	for _, e := range b.own {
		if e.Event.Key() == rc.Key() {
			d.Remove = append(d.Remove, e)
		}
	}
	if len(d.Remove) == 0 {
		return
	}
	b.own = d.Apply(b.own)
	delete(b.handlers, rc.Key())
	b.ownUpdated(d)
}

// Own returns the element's own registrations at their declared priority
func (b *Base) Own() []event.Entry {
	return append([]event.Entry(nil), b.own...)
}

// Handles reports whether the element itself registered rc
func (b *Base) Handles(rc event.Receivable) bool {
	_, ok := b.handlers[rc.Key()]
	return ok
}

func (b *Base) ownUpdated(d event.Delta) {
	if b.ownChanged != nil {
		d = b.ownChanged(d)
	} else {
		d = d.Perceive(b.priority)
	}
	b.PropagateDelta(d)
}

// PropagateDelta sends a perceived delta to the parent out of band
func (b *Base) PropagateDelta(d event.Delta) {
	d = d.Net()
	if d.Empty() {
		return
	}
	b.Notify(ReceivableDelta{Delta: d})
}

// Notify sends responses to the parent outside of event delivery
func (b *Base) Notify(rs ...Response) {
	if b.parent == nil || len(rs) == 0 {
		return
	}
	b.parent.Propagate(b.id, rs)
}

// handle runs the element's own handler for ev, if any
func (b *Base) handle(r layout.Region, key string, ev event.Event) (bool, Responses) {
	fn, ok := b.handlers[key]
	if !ok {
		return false, nil
	}
	return fn(r, ev)
}

// handlerKey maps an event to the key of the handler that wants it
func handlerKey(ev event.Event) string {
	switch e := ev.(type) {
	case event.KeyCombo:
		return e.Receivable.Key()
	case event.Custom:
		return e.Receivable().Key()
	case event.Mouse:
		return keyMouse
	case event.ExternalMouse:
		return keyExternalMouse
	case event.Resize:
		return keyResize
	}
	return ""
}

const (
	keyMouse         = "mouse"
	keyExternalMouse = "mouse.external"
	keyResize        = "resize"
)

// OnMouse handles pointer events over the element
func (b *Base) OnMouse(fn Handler) { b.handlers[keyMouse] = fn }

// OnExternalMouse handles pointer events elsewhere while the element is routable
func (b *Base) OnExternalMouse(fn Handler) { b.handlers[keyExternalMouse] = fn }

// OnResize handles region size changes
func (b *Base) OnResize(fn Handler) { b.handlers[keyResize] = fn }
