package terminal

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/loom/errors"
)

// fakeBackend is an in-memory Backend
type fakeBackend struct {
	mu       sync.Mutex
	out      bytes.Buffer
	w, h     int
	input    chan []byte
	resize   func(w, h int)
	inited   bool
	finished bool
	failInit error
}

func newFakeBackend(w, h int) *fakeBackend {
	return &fakeBackend{w: w, h: h, input: make(chan []byte, 16)}
}

func (f *fakeBackend) Init() error {
	if f.failInit != nil {
		return f.failInit
	}
	f.inited = true
	return nil
}

func (f *fakeBackend) Fini() {
	f.mu.Lock()
	f.finished = true
	f.mu.Unlock()
}

func (f *fakeBackend) Size() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.w, f.h
}

func (f *fakeBackend) Write(p []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.out.Write(p)
	return nil
}

func (f *fakeBackend) Read(stopCh <-chan struct{}) ([]byte, error) {
	select {
	case <-stopCh:
		return nil, nil
	case data := <-f.input:
		return data, nil
	case <-time.After(10 * time.Millisecond):
		return nil, nil
	}
}

func (f *fakeBackend) SetResizeHandler(handler func(w, h int)) {
	f.resize = handler
}

func (f *fakeBackend) output() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.out.String()
}

func (f *fakeBackend) reset() {
	f.mu.Lock()
	f.out.Reset()
	f.mu.Unlock()
}

func (f *fakeBackend) setSize(w, h int) {
	f.mu.Lock()
	f.w, f.h = w, h
	f.mu.Unlock()
	f.resize(w, h)
}

func nextEvent(t *testing.T, term Terminal) Event {
	t.Helper()
	select {
	case ev := <-term.Events():
		return ev
	case <-time.After(time.Second):
		t.Fatal("no event")
	}
	return Event{}
}

func TestTerminalLifecycle(t *testing.T) {
	b := newFakeBackend(10, 3)
	term := newTerm(b, ColorModeTrueColor)

	require.NoError(t, term.Init())
	assert.True(t, b.inited)
	assert.Contains(t, b.output(), string(csiAltScreenEnter))
	assert.Contains(t, b.output(), string(csiAutoWrapOff))

	b.reset()
	term.Fini()
	term.Fini()
	out := b.output()
	assert.Contains(t, out, string(csiAltScreenExit))
	assert.Equal(t, 1, strings.Count(out, string(csiAltScreenExit)))
	assert.True(t, b.finished)

	err := term.Draw([]CellUpdate{{X: 0, Y: 0, Cell: Blank}})
	assert.True(t, errors.IsKind(err, errors.KindTerminal))
}

func TestTerminalInitFailureIsTyped(t *testing.T) {
	b := newFakeBackend(10, 3)
	b.failInit = assert.AnError
	err := newTerm(b, ColorMode256).Init()
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindTerminal))
	assert.ErrorIs(t, err, assert.AnError)
}

func TestTerminalEvents(t *testing.T) {
	b := newFakeBackend(10, 3)
	term := newTerm(b, ColorModeTrueColor)
	require.NoError(t, term.Init())
	defer term.Fini()

	b.input <- []byte("q")
	ev := nextEvent(t, term)
	assert.Equal(t, EventKey, ev.Type)
	assert.Equal(t, 'q', ev.Rune)

	b.setSize(20, 6)
	ev = nextEvent(t, term)
	assert.Equal(t, Event{Type: EventResize, Width: 20, Height: 6}, ev)

	term.PostEvent(Event{Type: EventKey, Key: KeyF5})
	assert.Equal(t, KeyF5, nextEvent(t, term).Key)
}

func TestTerminalDrawSortsAndClips(t *testing.T) {
	b := newFakeBackend(4, 2)
	term := newTerm(b, ColorModeTrueColor)
	require.NoError(t, term.Init())
	defer term.Fini()
	b.reset()

	style := Cell{Fg: RGB{1, 2, 3}, Bg: RGB{4, 5, 6}}
	at := func(x, y int, r rune) CellUpdate {
		c := style
		c.Rune = r
		return CellUpdate{X: x, Y: y, Cell: c}
	}
	require.NoError(t, term.Draw([]CellUpdate{at(1, 1, 'd'), at(0, 0, 'a'), at(9, 0, 'x'), at(1, 0, 'b')}))

	out := b.output()
	assert.NotContains(t, out, "x")
	assert.Less(t, strings.Index(out, "a"), strings.Index(out, "b"))
	assert.Less(t, strings.Index(out, "b"), strings.Index(out, "d"))
	// One style sequence for the whole frame, cells share it
	assert.Equal(t, 1, strings.Count(out, "38;2;1;2;3"))
	assert.Contains(t, out, "\x1b[1;1H")
	assert.Contains(t, out, "\x1b[2;2H")
}

func TestTerminalMouseMode(t *testing.T) {
	b := newFakeBackend(4, 2)
	term := newTerm(b, ColorMode256)
	require.NoError(t, term.Init())
	b.reset()

	require.NoError(t, term.SetMouseMode(MouseModeClick|MouseModeDrag))
	out := b.output()
	assert.Contains(t, out, string(csiMouseSGROn))
	assert.Contains(t, out, string(csiMouseClickOn))
	assert.Contains(t, out, string(csiMouseDragOn))
	assert.NotContains(t, out, string(csiMouseMotionOn))

	b.reset()
	term.Fini()
	assert.Contains(t, b.output(), string(csiMouseSGROff))
}

func TestEmergencyReset(t *testing.T) {
	var buf bytes.Buffer
	EmergencyReset(&buf)
	assert.Contains(t, buf.String(), string(csiCursorShow))
	assert.Contains(t, buf.String(), string(csiAltScreenExit))
}

func TestParseInput(t *testing.T) {
	r := newInputReader(newFakeBackend(1, 1))
	consumed := r.parseInput([]byte("a\x1b[A\x03\x1b[<0;5;3M\x1b[<0;5;3mé"))
	require.Equal(t, len("a\x1b[A\x03\x1b[<0;5;3M\x1b[<0;5;3mé"), consumed)

	var evs []Event
	for len(r.eventCh) > 0 {
		evs = append(evs, <-r.eventCh)
	}
	require.Len(t, evs, 6)
	assert.Equal(t, 'a', evs[0].Rune)
	assert.Equal(t, KeyUp, evs[1].Key)
	assert.Equal(t, KeyCtrlC, evs[2].Key)
	assert.Equal(t, Event{Type: EventMouse, MouseX: 4, MouseY: 2, MouseBtn: MouseBtnLeft, MouseAction: MouseActionPress}, evs[3])
	assert.Equal(t, MouseActionRelease, evs[4].MouseAction)
	assert.Equal(t, 'é', evs[5].Rune)
}

func TestParseInputWaitsForIncomplete(t *testing.T) {
	r := newInputReader(newFakeBackend(1, 1))
	assert.Equal(t, 1, r.parseInput([]byte("x\x1b[1;5")))
	assert.Equal(t, 0, r.parseInput([]byte{0xc3}))
}

func TestKeyNamesRoundTrip(t *testing.T) {
	names := KeyNames()
	require.NotEmpty(t, names)
	for _, name := range names {
		k, ok := KeyByName(name)
		require.True(t, ok, name)
		if name != "shift_tab" {
			assert.Equal(t, name, KeyName(k))
		}
	}
}
