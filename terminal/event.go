package terminal

// EventType tells which fields of an Event are meaningful
type EventType uint8

const (
	EventKey EventType = iota
	EventResize
	EventMouse
	EventError
	EventClosed
)

// Event is one decoded input or resize notification
type Event struct {
	Type EventType

	Key       Key
	Rune      rune
	Modifiers Modifier

	Width, Height int

	MouseX, MouseY int
	MouseBtn       MouseButton
	MouseAction    MouseAction

	Err error
}
