package event

import "fmt"

// Priority orders how strongly an element wants its events
// Only priorities above Unfocused take part in routing
type Priority uint8

const (
	Unfocused Priority = iota
	Focused
	Highest
)

func (p Priority) String() string {
	switch p {
	case Unfocused:
		return "unfocused"
	case Focused:
		return "focused"
	case Highest:
		return "highest"
	default:
		return fmt.Sprintf("priority(%d)", uint8(p))
	}
}

// Routable reports whether the priority takes part in routing
func (p Priority) Routable() bool {
	return p > Unfocused
}

// Perceived is the priority a child's entry has when seen from outside its parent
// An unfocused parent masks everything below it; otherwise the lower of the two wins,
// so a child never appears more focused than its parent
func Perceived(parent, child Priority) Priority {
	if parent == Unfocused {
		return Unfocused
	}
	return min(parent, child)
}

// Entry is one receivable an element wants, at a priority
type Entry struct {
	Event    Receivable
	Priority Priority
}

// key identifies the entry for multiset bookkeeping
func (e Entry) key() string {
	return fmt.Sprintf("%d|%s", e.Priority, e.Event.Key())
}

func (e Entry) String() string {
	return e.Event.Key() + "@" + e.Priority.String()
}

// Perceive returns entries as seen through a parent at priority p
func Perceive(p Priority, entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	for i, e := range entries {
		out[i] = Entry{Event: e.Event, Priority: Perceived(p, e.Priority)}
	}
	return out
}
