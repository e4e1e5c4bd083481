package element

import (
	"github.com/lixenwraith/loom/core"
)

// HookKind is the transition a hook fires around
type HookKind uint8

const (
	HookBeforeEvent HookKind = iota
	HookAfterEvent
	HookAttribute
	HookVisibility
	HookLocation
)

func (k HookKind) String() string {
	switch k {
	case HookBeforeEvent:
		return "before_event"
	case HookAfterEvent:
		return "after_event"
	case HookAttribute:
		return "attribute"
	case HookVisibility:
		return "visibility"
	case HookLocation:
		return "location"
	}
	return "unknown"
}

// HookFunc observes a transition on el
type HookFunc func(kind HookKind, el Element)

type hook struct {
	kind  HookKind
	owner core.ID
	fn    HookFunc
}

// Hooks is an element's hook table, fired in registration order
type Hooks struct {
	list []hook
}

func (h *Hooks) Add(kind HookKind, owner core.ID, fn HookFunc) {
	h.list = append(h.list, hook{kind: kind, owner: owner, fn: fn})
}

// Remove drops every hook registered by owner
func (h *Hooks) Remove(owner core.ID) int {
	kept := h.list[:0]
	n := 0
	for _, x := range h.list {
		if x.owner == owner {
			n++
			continue
		}
		kept = append(kept, x)
	}
	clear(h.list[len(kept):])
	h.list = kept
	return n
}

func (h *Hooks) Fire(kind HookKind, el Element) {
	// Hooks may register or remove hooks; iterate a snapshot
	list := append([]hook(nil), h.list...)
	for _, x := range list {
		if x.kind == kind {
			x.fn(kind, el)
		}
	}
}

func (h *Hooks) Len() int { return len(h.list) }
