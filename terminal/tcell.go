package terminal

import (
	"sync"
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/loom/errors"
)

// tcellTerm implements Terminal on a tcell screen
type tcellTerm struct {
	screen    tcell.Screen
	colorMode ColorMode

	eventCh  chan Event
	stopCh   chan struct{}
	pollDone chan struct{}

	mu          sync.Mutex
	initialized bool
	finalized   bool
	lastButtons tcell.ButtonMask // poll goroutine only
}

// NewTcell creates a terminal backed by tcell's terminfo driver
func NewTcell(colorMode ColorMode) (Terminal, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, errors.Wrap(err, "terminal.tcell", errors.KindTerminal)
	}
	return NewTcellScreen(s, colorMode), nil
}

// NewTcellScreen wraps an existing screen, e.g. tcell.NewSimulationScreen in tests
func NewTcellScreen(s tcell.Screen, colorMode ColorMode) Terminal {
	return &tcellTerm{
		screen:    s,
		colorMode: colorMode,
		eventCh:   make(chan Event, 256),
		stopCh:    make(chan struct{}),
		pollDone:  make(chan struct{}),
	}
}

func (t *tcellTerm) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.initialized {
		return nil
	}
	if err := t.screen.Init(); err != nil {
		return errors.Wrap(err, "terminal.tcell.init", errors.KindTerminal)
	}
	t.screen.HideCursor()
	t.screen.Clear()

	go t.poll()

	t.initialized = true
	return nil
}

func (t *tcellTerm) Fini() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized || t.finalized {
		return
	}
	t.finalized = true

	close(t.stopCh)
	// Fini makes PollEvent return nil, which ends the poll goroutine
	t.screen.Fini()
	<-t.pollDone
}

func (t *tcellTerm) Size() (int, int) {
	return t.screen.Size()
}

func (t *tcellTerm) Events() <-chan Event {
	return t.eventCh
}

func (t *tcellTerm) PostEvent(ev Event) {
	select {
	case t.eventCh <- ev:
	default:
	}
}

func (t *tcellTerm) ColorMode() ColorMode {
	return t.colorMode
}

func (t *tcellTerm) Draw(updates []CellUpdate) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized || t.finalized {
		return errors.New("terminal.tcell.draw", errors.KindTerminal, "terminal not active")
	}

	for _, u := range updates {
		c := u.Cell
		if c.Skip() {
			continue
		}
		mainc, comb := c.Rune, []rune(nil)
		if c.Text != "" {
			runes := []rune(c.Text)
			mainc, comb = runes[0], runes[1:]
		}
		if mainc <= 0 {
			mainc = ' '
		}
		t.screen.SetContent(u.X, u.Y, mainc, comb, t.style(c))
	}
	t.screen.Show()
	return nil
}

func (t *tcellTerm) Sync() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized || t.finalized {
		return nil
	}
	t.screen.Clear()
	t.screen.Sync()
	return nil
}

func (t *tcellTerm) SetMouseMode(mode MouseMode) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized || t.finalized {
		return nil
	}
	if mode == MouseModeNone {
		t.screen.DisableMouse()
		return nil
	}

	var flags []tcell.MouseFlags
	if mode&MouseModeClick != 0 {
		flags = append(flags, tcell.MouseButtonEvents)
	}
	if mode&MouseModeDrag != 0 {
		flags = append(flags, tcell.MouseDragEvents)
	}
	if mode&MouseModeMotion != 0 {
		flags = append(flags, tcell.MouseMotionEvents)
	}
	t.screen.EnableMouse(flags...)
	return nil
}

// poll converts tcell events until the screen is finalized
func (t *tcellTerm) poll() {
	defer close(t.pollDone)

	for {
		tev := t.screen.PollEvent()
		if tev == nil {
			return
		}
		ev, ok := t.convert(tev)
		if !ok {
			continue
		}
		select {
		case t.eventCh <- ev:
		case <-t.stopCh:
			return
		}
	}
}

func (t *tcellTerm) convert(tev tcell.Event) (Event, bool) {
	switch ev := tev.(type) {
	case *tcell.EventKey:
		return convertKey(ev), true
	case *tcell.EventMouse:
		return t.convertMouse(ev), true
	case *tcell.EventResize:
		w, h := ev.Size()
		return Event{Type: EventResize, Width: w, Height: h}, true
	}
	return Event{}, false
}

// tcellKeys maps tcell keys with a direct equivalent
// Control letters that alias these (Tab, Enter, Backspace) resolve here first
var tcellKeys = map[tcell.Key]Key{
	tcell.KeyEnter:      KeyEnter,
	tcell.KeyTab:        KeyTab,
	tcell.KeyBacktab:    KeyBacktab,
	tcell.KeyEscape:     KeyEscape,
	tcell.KeyBackspace:  KeyBackspace,
	tcell.KeyBackspace2: KeyBackspace,
	tcell.KeyDelete:     KeyDelete,
	tcell.KeyUp:         KeyUp,
	tcell.KeyDown:       KeyDown,
	tcell.KeyLeft:       KeyLeft,
	tcell.KeyRight:      KeyRight,
	tcell.KeyHome:       KeyHome,
	tcell.KeyEnd:        KeyEnd,
	tcell.KeyPgUp:       KeyPageUp,
	tcell.KeyPgDn:       KeyPageDown,
	tcell.KeyInsert:     KeyInsert,
	tcell.KeyF1:         KeyF1,
	tcell.KeyF2:         KeyF2,
	tcell.KeyF3:         KeyF3,
	tcell.KeyF4:         KeyF4,
	tcell.KeyF5:         KeyF5,
	tcell.KeyF6:         KeyF6,
	tcell.KeyF7:         KeyF7,
	tcell.KeyF8:         KeyF8,
	tcell.KeyF9:         KeyF9,
	tcell.KeyF10:        KeyF10,
	tcell.KeyF11:        KeyF11,
	tcell.KeyF12:        KeyF12,
	tcell.KeyNUL:        KeyCtrlSpace,
	tcell.KeyFS:         KeyCtrlBackslash,
	tcell.KeyGS:         KeyCtrlBracketRight,
	tcell.KeyRS:         KeyCtrlCaret,
	tcell.KeyUS:         KeyCtrlUnderscore,
}

func convertMod(m tcell.ModMask) Modifier {
	var mod Modifier
	if m&tcell.ModShift != 0 {
		mod |= ModShift
	}
	if m&tcell.ModAlt != 0 {
		mod |= ModAlt
	}
	if m&tcell.ModCtrl != 0 {
		mod |= ModCtrl
	}
	return mod
}

func convertKey(ev *tcell.EventKey) Event {
	out := Event{Type: EventKey, Modifiers: convertMod(ev.Modifiers())}
	k := ev.Key()

	switch {
	case k == tcell.KeyRune:
		r := unicode.ToLower(ev.Rune())
		switch {
		case out.Modifiers&ModCtrl != 0 && r >= 'a' && r <= 'z':
			out.Key = KeyCtrlA + Key(r-'a')
		case r == ' ':
			out.Key = KeySpace
		default:
			out.Key = KeyRune
			out.Rune = ev.Rune()
		}
	case tcellKeys[k] != KeyNone:
		out.Key = tcellKeys[k]
	case k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ:
		out.Key = KeyCtrlA + Key(k-tcell.KeyCtrlA)
	}

	// Control keys carry ctrl in the key itself, as the ANSI parser reports them
	if out.Key >= KeyCtrlA && out.Key <= KeyCtrlUnderscore {
		out.Modifiers &^= ModCtrl
	}
	// Shift is implied by Backtab
	if out.Key == KeyBacktab {
		out.Modifiers &^= ModShift
	}
	return out
}

func (t *tcellTerm) convertMouse(ev *tcell.EventMouse) Event {
	x, y := ev.Position()
	out := Event{Type: EventMouse, MouseX: x, MouseY: y, Modifiers: convertMod(ev.Modifiers())}

	btns := ev.Buttons()
	switch {
	case btns&tcell.WheelUp != 0:
		out.MouseBtn, out.MouseAction = MouseBtnWheelUp, MouseActionPress
		return out
	case btns&tcell.WheelDown != 0:
		out.MouseBtn, out.MouseAction = MouseBtnWheelDown, MouseActionPress
		return out
	}

	btns &= tcell.Button1 | tcell.Button2 | tcell.Button3
	prev := t.lastButtons
	t.lastButtons = btns

	switch {
	case btns != 0 && prev == 0:
		out.MouseBtn, out.MouseAction = buttonOf(btns), MouseActionPress
	case btns != 0:
		out.MouseBtn, out.MouseAction = buttonOf(btns), MouseActionDrag
	case prev != 0:
		out.MouseBtn, out.MouseAction = buttonOf(prev), MouseActionRelease
	default:
		out.MouseAction = MouseActionMove
	}
	return out
}

func buttonOf(m tcell.ButtonMask) MouseButton {
	switch {
	case m&tcell.Button1 != 0:
		return MouseBtnLeft
	case m&tcell.Button3 != 0:
		return MouseBtnMiddle
	case m&tcell.Button2 != 0:
		return MouseBtnRight
	}
	return MouseBtnNone
}

// style converts cell colors and attributes, honoring the configured color mode
func (t *tcellTerm) style(c Cell) tcell.Style {
	a := c.Attrs
	return tcell.StyleDefault.
		Foreground(t.color(c.Fg, a&AttrFg256 != 0, a&AttrFgDefault != 0)).
		Background(t.color(c.Bg, a&AttrBg256 != 0, a&AttrBgDefault != 0)).
		Bold(a&AttrBold != 0).
		Dim(a&AttrDim != 0).
		Italic(a&AttrItalic != 0).
		Underline(a&AttrUnderline != 0).
		Blink(a&AttrBlink != 0).
		Reverse(a&AttrReverse != 0).
		StrikeThrough(a&AttrStrikethrough != 0)
}

func (t *tcellTerm) color(rgb RGB, palette, def bool) tcell.Color {
	switch {
	case def:
		return tcell.ColorDefault
	case palette:
		return tcell.PaletteColor(int(rgb.R))
	case t.colorMode == ColorMode256:
		return tcell.PaletteColor(int(RGBTo256(rgb)))
	}
	return tcell.NewRGBColor(int32(rgb.R), int32(rgb.G), int32(rgb.B))
}
