package element

import (
	"github.com/lixenwraith/loom/event"
	"github.com/lixenwraith/loom/layout"
	"github.com/lixenwraith/loom/render"
)

// Pane is a leaf element: it draws its own layer and runs its own handlers
type Pane struct {
	Base
	canvas
}

// NewPane creates a visible, Focused pane at loc
func NewPane(loc layout.Location) *Pane {
	p := &Pane{canvas: newCanvas()}
	p.init(p, KindPane, loc)
	return p
}

// Receivable is the pane's own registrations seen through its priority
func (p *Pane) Receivable() []event.Entry {
	return event.Perceive(p.priority, p.own)
}

func (p *Pane) ChangePriority(np event.Priority) event.Delta {
	if np == p.priority {
		return event.Delta{}
	}
	before := p.Receivable()
	p.priority = np
	p.dirty = true
	return event.Diff(before, p.Receivable())
}

func (p *Pane) ReceiveEvent(r layout.Region, ev event.Event) (bool, Responses) {
	p.hooks.Fire(HookBeforeEvent, p)
	defer p.hooks.Fire(HookAfterEvent, p)

	if rs, ok := ev.(event.Resize); ok && rs.Size != p.size {
		p.dirty = true
	}
	return p.handle(r, handlerKey(ev), ev)
}

func (p *Pane) Drawing(r layout.Region, force bool) []render.Update {
	return p.drawing(r, force, p.visible, p.priority.Routable())
}
