package event

import (
	"github.com/lixenwraith/loom/core"
	"github.com/lixenwraith/loom/layout"
	"github.com/lixenwraith/loom/terminal"
)

// Event is anything delivered to an element
type Event interface {
	isEvent()
}

// KeyCombo is a matched key sequence, delivered along the owner chain of its receivable
type KeyCombo struct {
	Receivable Receivable
	Presses    []KeyPress
}

// Mouse is a pointer event in the receiving element's local coordinates
// Abs keeps the screen position while Point is translated down the tree
type Mouse struct {
	Point  layout.Point
	Abs    layout.Point
	Button terminal.MouseButton
	Action terminal.MouseAction
	Mod    terminal.Modifier
}

// ExternalMouse tells a routable element that a pointer event happened outside it
// Point is in absolute screen coordinates
type ExternalMouse struct {
	Point  layout.Point
	Button terminal.MouseButton
	Action terminal.MouseAction
	Mod    terminal.Modifier
}

// Custom is a named application event
// With a Target it goes to that element only, otherwise to every element registered for Name
type Custom struct {
	Name   string
	Target core.ID
	Data   []byte
}

// Receivable returns the registration that custom events of this name match
func (c Custom) Receivable() Receivable {
	return CustomEvent(c.Name)
}

// Resize reports the new size of the receiving element's region
type Resize struct {
	Size layout.Size
}

// External converts the event for elements the pointer is not over
func (m Mouse) External() ExternalMouse {
	return ExternalMouse{Point: m.Abs, Button: m.Button, Action: m.Action, Mod: m.Mod}
}

func (KeyCombo) isEvent()      {}
func (Mouse) isEvent()         {}
func (ExternalMouse) isEvent() {}
func (Custom) isEvent()        {}
func (Resize) isEvent()        {}

// Names of custom events emitted by the runtime itself
const (
	TaskExited = "task.exited"
	TaskFailed = "task.failed"
)
