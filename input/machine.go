package input

import (
	"strings"

	"github.com/lixenwraith/loom/event"
	"github.com/lixenwraith/loom/terminal"
)

// Matcher buffers raw key presses and resolves them against a routing registry
// Single goroutine only (runtime loop)
type Matcher struct {
	buf []event.KeyPress
	max int
}

// NewMatcher creates a matcher holding at most MaxBuffered presses
func NewMatcher() *Matcher {
	return &Matcher{
		buf: make([]event.KeyPress, 0, MaxBuffered),
		max: MaxBuffered,
	}
}

// Reset clears pending presses
func (m *Matcher) Reset() {
	m.buf = m.buf[:0]
}

// Pending returns the buffered presses for display, e.g. "g"
func (m *Matcher) Pending() string {
	if len(m.buf) == 0 {
		return ""
	}
	names := make([]string, len(m.buf))
	for i, kp := range m.buf {
		names[i] = kp.String()
	}
	return strings.Join(names, " ")
}

// Process feeds a terminal key event
func (m *Matcher) Process(ev terminal.Event, reg *event.Registry) Result {
	if ev.Type != terminal.EventKey {
		return Result{Outcome: OutcomeDropped}
	}
	return m.Feed(event.FromTerminal(ev), reg)
}

// Feed adds one press and resolves the buffer
// The first routable row whose pattern equals the buffer wins and consumes it;
// if some routable pattern extends the buffer the matcher waits for more;
// otherwise the oldest press is dropped and the rest retried
func (m *Matcher) Feed(kp event.KeyPress, reg *event.Registry) Result {
	if len(m.buf) == m.max {
		m.buf = append(m.buf[:0], m.buf[1:]...)
	}
	m.buf = append(m.buf, kp)

	rows := reg.Rows()
	for len(m.buf) > 0 {
		prefix := false
		for _, row := range rows {
			if !row.Priority.Routable() {
				break
			}
			if !row.Event.IsKey() {
				continue
			}
			switch row.Event.Match(m.buf) {
			case event.MatchFull:
				combo := event.KeyCombo{
					Receivable: row.Event,
					Presses:    append([]event.KeyPress(nil), m.buf...),
				}
				m.buf = m.buf[:0]
				return Result{Outcome: OutcomeDispatched, Combo: combo, Owner: row.Owner}
			case event.MatchPrefix:
				prefix = true
			}
		}
		if prefix {
			return Result{Outcome: OutcomePending}
		}
		m.buf = append(m.buf[:0], m.buf[1:]...)
	}
	return Result{Outcome: OutcomeDropped}
}
