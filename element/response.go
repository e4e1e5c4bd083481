package element

import (
	"reflect"

	"github.com/lixenwraith/loom/event"
)

// Response is a request an element makes to whoever delivered its event
type Response interface {
	isResponse()
}

// Quit stops the loop
type Quit struct{}

// Destruct removes the responding element from its parent
type Destruct struct{}

// NewElement adds El as a sibling of the responding element
type NewElement struct {
	El Element
}

// ReceivableDelta reports a change of the responder's Receivable set
type ReceivableDelta struct {
	Delta event.Delta
}

// Metadata travels up to the loop unchanged
type Metadata struct {
	Key   string
	Value []byte
}

// BringToFront moves the responder in front of its siblings
type BringToFront struct{}

// Focus raises the responder to Focused in its parent, and its parent in turn
// A responder already at Highest keeps it.
type Focus struct{}

// UnfocusOthers lowers every sibling of the responder to Unfocused, at each level up
// Siblings at Highest, or with Highest registrations of their own, are left alone.
type UnfocusOthers struct{}

func (Quit) isResponse()            {}
func (Destruct) isResponse()        {}
func (NewElement) isResponse()      {}
func (ReceivableDelta) isResponse() {}
func (Metadata) isResponse()        {}
func (BringToFront) isResponse()    {}
func (Focus) isResponse()           {}
func (UnfocusOthers) isResponse()   {}

// Responses is an ordered batch
type Responses []Response

// Has reports whether any response has the same type as r
func (rs Responses) Has(r Response) bool {
	for _, x := range rs {
		if reflect.TypeOf(x) == reflect.TypeOf(r) {
			return true
		}
	}
	return false
}

// Delta merges every ReceivableDelta in the batch
func (rs Responses) Delta() event.Delta {
	var d event.Delta
	for _, r := range rs {
		if rd, ok := r.(ReceivableDelta); ok {
			d = d.Merge(rd.Delta)
		}
	}
	return d.Net()
}

// withDelta appends d as a ReceivableDelta unless empty
func (rs Responses) withDelta(d event.Delta) Responses {
	d = d.Net()
	if d.Empty() {
		return rs
	}
	return append(rs, ReceivableDelta{Delta: d})
}
