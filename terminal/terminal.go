package terminal

import (
	"io"
	"os"
	"sync"

	"github.com/lixenwraith/loom/errors"
)

// Terminal is where the engine draws and where its input comes from
type Terminal interface {
	// Init switches to raw mode and the alternate screen
	Init() error
	// Fini restores the terminal; repeated calls are no-ops
	Fini()

	Size() (width, height int)

	// Events carries input and resize events until Fini
	Events() <-chan Event
	// PostEvent queues a synthetic event behind pending input
	PostEvent(Event)

	ColorMode() ColorMode

	// Draw writes the given cells at absolute positions
	Draw(updates []CellUpdate) error
	// Sync wipes the physical screen; every cell must be drawn again after it
	Sync() error

	SetMouseMode(mode MouseMode) error
}

// ansiTerm writes escape sequences straight to a Backend
type ansiTerm struct {
	backend Backend
	out     *writer
	input   *inputReader

	synthetic chan Event
	resized   chan Event
	events    chan Event
	quit      chan struct{}
	pumpDone  chan struct{}

	mu     sync.Mutex
	active bool
	closed bool
	mouse  MouseMode
}

// New returns a Terminal on stdin and stdout
func New(colorMode ColorMode) Terminal {
	return newTerm(newBackend(), colorMode)
}

func newTerm(b Backend, colorMode ColorMode) *ansiTerm {
	return &ansiTerm{
		backend:   b,
		out:       newWriter(backendWriter{b}, colorMode),
		synthetic: make(chan Event, 16),
		resized:   make(chan Event, 1),
		events:    make(chan Event, inputQueue),
		quit:      make(chan struct{}),
		pumpDone:  make(chan struct{}),
	}
}

func (t *ansiTerm) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.active || t.closed {
		return nil
	}

	if err := t.backend.Init(); err != nil {
		return errors.Wrap(err, "terminal.init", errors.KindTerminal)
	}
	t.out.resize(t.backend.Size())
	t.backend.SetResizeHandler(t.onResize)

	for _, seq := range [][]byte{csiAltScreenEnter, csiCursorHide, csiAutoWrapOff} {
		t.out.out.Write(seq)
	}
	if err := t.out.clear(); err != nil {
		t.backend.Fini()
		return errors.Wrap(err, "terminal.init", errors.KindTerminal)
	}

	t.input = newInputReader(t.backend)
	t.input.start()
	go t.pump()

	t.active = true
	return nil
}

// onResize keeps only the newest size when the pump falls behind
func (t *ansiTerm) onResize(w, h int) {
	ev := Event{Type: EventResize, Width: w, Height: h}
	for {
		select {
		case t.resized <- ev:
			return
		default:
		}
		select {
		case <-t.resized:
		default:
		}
	}
}

func (t *ansiTerm) Fini() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.active || t.closed {
		return
	}
	t.closed = true

	close(t.quit)
	t.input.stop()
	<-t.pumpDone

	w := t.out.out
	t.writeMouse(t.mouse, MouseModeNone)
	// wrap goes back on after leaving the alternate screen so the main buffer has it
	for _, seq := range [][]byte{csiCursorShow, csiAltScreenExit, csiAutoWrapOn, csiSGR0} {
		w.Write(seq)
	}
	_ = w.Flush()
	t.backend.Fini()
}

func (t *ansiTerm) Size() (int, int) {
	return t.backend.Size()
}

func (t *ansiTerm) Events() <-chan Event {
	return t.events
}

func (t *ansiTerm) ColorMode() ColorMode {
	return t.out.colorMode
}

// Draw holds the lock for the whole frame so Sync and mouse changes cannot interleave
func (t *ansiTerm) Draw(updates []CellUpdate) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.active || t.closed {
		return errors.New("terminal.draw", errors.KindTerminal, "terminal not active")
	}

	// clip to the live size; a pending resize event redraws everything anyway
	if w, h := t.backend.Size(); w != t.out.width || h != t.out.height {
		t.out.resize(w, h)
	}
	if err := t.out.draw(updates); err != nil {
		return errors.Wrap(err, "terminal.draw", errors.KindTerminal)
	}
	return nil
}

func (t *ansiTerm) Sync() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.active || t.closed {
		return nil
	}

	t.out.resize(t.backend.Size())
	if err := t.out.clear(); err != nil {
		return errors.Wrap(err, "terminal.sync", errors.KindTerminal)
	}
	return nil
}

// PostEvent drops the event when the synthetic queue is full
func (t *ansiTerm) PostEvent(ev Event) {
	select {
	case t.synthetic <- ev:
	default:
	}
}

// SetMouseMode sends only the changes between the current and the requested modes
func (t *ansiTerm) SetMouseMode(mode MouseMode) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.active || t.closed {
		return nil
	}

	t.writeMouse(t.mouse, mode)
	t.mouse = mode
	if err := t.out.out.Flush(); err != nil {
		return errors.Wrap(err, "terminal.mouse", errors.KindTerminal)
	}
	return nil
}

// writeMouse buffers the sequences that move reporting from prev to next
// SGR encoding is switched on before the first mode and off after the last.
func (t *ansiTerm) writeMouse(prev, next MouseMode) {
	w := t.out.out
	for i := len(mouseModes) - 1; i >= 0; i-- {
		if m := mouseModes[i]; prev&m.mode != 0 && next&m.mode == 0 {
			w.Write(m.off)
		}
	}
	switch {
	case prev != MouseModeNone && next == MouseModeNone:
		w.Write(csiMouseSGROff)
	case prev == MouseModeNone && next != MouseModeNone:
		w.Write(csiMouseSGROn)
	}
	for _, m := range mouseModes {
		if next&m.mode != 0 && prev&m.mode == 0 {
			w.Write(m.on)
		}
	}
}

// pump merges synthetic, input and resize events into Events until Fini
func (t *ansiTerm) pump() {
	defer close(t.pumpDone)
	for {
		var ev Event
		select {
		case <-t.quit:
			return
		case ev = <-t.synthetic:
		case ev = <-t.input.events():
		case ev = <-t.resized:
		}
		select {
		case t.events <- ev:
		case <-t.quit:
			return
		}
	}
}

// EmergencyReset writes every restoring sequence to w and puts the tty back in cooked mode
// It is for panic paths where Fini cannot run.
func EmergencyReset(w io.Writer) {
	seqs := [][]byte{csiMouseMotionOff, csiMouseDragOff, csiMouseClickOff, csiMouseSGROff,
		csiCursorShow, csiAltScreenExit, csiSGR0, csiAutoWrapOn, csiRIS}
	for _, seq := range seqs {
		_, _ = w.Write(seq)
	}
	if f, ok := w.(*os.File); ok {
		_ = f.Sync()
	}
	restoreCooked()
}
