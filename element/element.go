// Package element defines the node contract of the UI tree and the two
// stock nodes: Container, which owns children through an Organizer, and
// Pane, a leaf that draws cells and runs handlers.
package element

import (
	"github.com/lixenwraith/loom/core"
	"github.com/lixenwraith/loom/event"
	"github.com/lixenwraith/loom/layout"
	"github.com/lixenwraith/loom/render"
)

// Element is what every tree node implements
//
// Calls arrive from the single event loop only; implementations need no locking.
// Coordinates and regions are in the element's local space.
type Element interface {
	ID() core.ID
	Kind() string

	// Receivable reports every (event, priority) wanted by the element or any
	// descendant, as perceived from outside the element
	Receivable() []event.Entry
	ReceiveEvent(r layout.Region, ev event.Event) (captured bool, rs Responses)
	ChangePriority(p event.Priority) event.Delta
	Priority() event.Priority

	// Drawing returns compositor updates with paths relative to the element;
	// force asks for a full redraw
	Drawing(r layout.Region, force bool) []render.Update

	Attribute(key string) ([]byte, bool)
	SetAttribute(key string, val []byte)
	AddHook(kind HookKind, owner core.ID, fn HookFunc)
	RemoveHooks(owner core.ID)

	Location() layout.Location
	SetLocation(loc layout.Location)
	Visible() bool
	SetVisible(v bool)

	SetParent(p Parent)
}

// Parent is the upward capability a child holds; it never exposes the parent itself
type Parent interface {
	// Propagate hands responses produced outside event delivery to the parent,
	// which applies them as if the child had returned them
	Propagate(child core.ID, rs Responses)
}

// Handler runs for an event an element registered for
type Handler func(r layout.Region, ev event.Event) (captured bool, rs Responses)

// Finder is implemented by elements with descendants
type Finder interface {
	Find(id core.ID) (Element, bool)
}

const (
	KindPane      = "pane"
	KindContainer = "container"
)
