package input

import (
	"github.com/lixenwraith/loom/core"
	"github.com/lixenwraith/loom/event"
)

// MaxBuffered bounds the presses held while waiting for a longer combo
const MaxBuffered = 8

// Outcome is what one key press did to the matcher
type Outcome uint8

const (
	OutcomeDropped    Outcome = iota // no pattern matches, buffer emptied
	OutcomePending                   // buffer is a prefix of a routable pattern
	OutcomeDispatched                // a pattern matched and the buffer was consumed
)

func (o Outcome) String() string {
	switch o {
	case OutcomePending:
		return "pending"
	case OutcomeDispatched:
		return "dispatched"
	default:
		return "dropped"
	}
}

// Result is the matcher's decision for one key press
type Result struct {
	Outcome Outcome
	Combo   event.KeyCombo
	Owner   core.ID // registry row owner the combo goes to
}
