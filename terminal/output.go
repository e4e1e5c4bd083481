package terminal

import (
	"bufio"
	"io"
	"slices"

	"github.com/mattn/go-runewidth"
)

// styleState is the SGR state last emitted to the terminal
type styleState struct {
	fg, bg, ul RGB
	attr       Attr
}

// writer turns sorted cell updates into cursor moves, coalesced SGR and content
// The compositor already diffs frames; the writer only minimizes escape traffic
type writer struct {
	out       *bufio.Writer
	colorMode ColorMode
	width     int
	height    int

	cursorX     int
	cursorY     int
	cursorValid bool

	last      styleState
	lastValid bool
}

// newWriter creates an output writer
func newWriter(w io.Writer, colorMode ColorMode) *writer {
	return &writer{
		out:       bufio.NewWriterSize(w, 131072), // 128KB buffer
		colorMode: colorMode,
	}
}

// resize updates the clip bounds
func (o *writer) resize(width, height int) {
	o.width = width
	o.height = height
	o.invalidate()
}

// invalidate forgets cursor and style state
func (o *writer) invalidate() {
	o.lastValid = false
	o.cursorValid = false
}

// cellWidth returns display columns occupied by the cell content
func cellWidth(c Cell) int {
	var n int
	if c.Text != "" {
		n = runewidth.StringWidth(c.Text)
	} else {
		n = runewidth.RuneWidth(c.Rune)
	}
	return max(n, 1)
}

// draw writes updates in row-major order and flushes
func (o *writer) draw(updates []CellUpdate) error {
	sorted := slices.Clone(updates)
	slices.SortStableFunc(sorted, func(a, b CellUpdate) int {
		if a.Y != b.Y {
			return a.Y - b.Y
		}
		return a.X - b.X
	})

	w := o.out
	for _, u := range sorted {
		if u.X < 0 || u.Y < 0 || u.X >= o.width || u.Y >= o.height {
			continue
		}
		c := u.Cell
		if c.Skip() {
			continue
		}

		if !o.cursorValid || u.X != o.cursorX || u.Y != o.cursorY {
			// Cursor forward is non-destructive, same row jumps stay short
			if o.cursorValid && u.Y == o.cursorY && u.X > o.cursorX {
				moveRight(w, u.X-o.cursorX)
			} else {
				moveTo(w, u.X, u.Y)
			}
			o.cursorX = u.X
			o.cursorY = u.Y
			o.cursorValid = true
		}

		o.writeStyleCoalesced(w, styleState{fg: c.Fg, bg: c.Bg, ul: c.Ul, attr: c.Attrs})

		switch {
		case c.Text != "":
			w.WriteString(c.Text)
		case c.Rune <= 0:
			w.WriteByte(' ')
		case c.Rune < 0x80:
			w.WriteByte(byte(c.Rune))
		default:
			w.WriteRune(c.Rune)
		}
		o.cursorX += cellWidth(c)
	}

	w.Write(csiSGR0)
	o.lastValid = false

	return w.Flush()
}

// writeStyleCoalesced emits a single combined SGR sequence when style changes
func (o *writer) writeStyleCoalesced(w *bufio.Writer, s styleState) {
	const fgMask = AttrFg256 | AttrFgDefault
	const bgMask = AttrBg256 | AttrBgDefault

	l := o.last
	fgChanged := !o.lastValid || s.fg != l.fg || s.attr&fgMask != l.attr&fgMask
	bgChanged := !o.lastValid || s.bg != l.bg || s.attr&bgMask != l.attr&bgMask
	ulChanged := !o.lastValid || s.ul != l.ul || s.attr&AttrUlColor != l.attr&AttrUlColor
	attrChanged := !o.lastValid || s.attr&AttrStyle != l.attr&AttrStyle

	if !fgChanged && !bgChanged && !ulChanged && !attrChanged {
		return
	}

	w.Write(csi)
	if attrChanged {
		// Attribute removal needs a reset, which also drops all colors
		w.WriteByte('0')
		for _, ap := range attrParams {
			if s.attr&ap.attr != 0 {
				w.WriteByte(';')
				w.WriteByte(ap.param)
			}
		}
		w.WriteByte(';')
		o.writeFg(w, s)
		w.WriteByte(';')
		o.writeBg(w, s)
		if s.attr&AttrUlColor != 0 {
			w.WriteByte(';')
			o.writeUl(w, s)
		}
	} else {
		sep := false
		next := func() {
			if sep {
				w.WriteByte(';')
			}
			sep = true
		}
		if fgChanged {
			next()
			o.writeFg(w, s)
		}
		if bgChanged {
			next()
			o.writeBg(w, s)
		}
		if ulChanged {
			next()
			o.writeUl(w, s)
		}
	}
	w.WriteByte('m')

	o.last = s
	o.lastValid = true
}

func (o *writer) writeFg(w *bufio.Writer, s styleState) {
	if s.attr&AttrFgDefault != 0 {
		w.Write(planeFg.reset)
		return
	}
	o.writeColor(w, planeFg, s.fg, s.attr&AttrFg256 != 0)
}

func (o *writer) writeBg(w *bufio.Writer, s styleState) {
	if s.attr&AttrBgDefault != 0 {
		w.Write(planeBg.reset)
		return
	}
	o.writeColor(w, planeBg, s.bg, s.attr&AttrBg256 != 0)
}

func (o *writer) writeUl(w *bufio.Writer, s styleState) {
	if s.attr&AttrUlColor == 0 {
		w.Write(planeUl.reset)
		return
	}
	o.writeColor(w, planeUl, s.ul, false)
}

// writeColor writes the parameters of one color; indexed means c.R already holds a palette index
func (o *writer) writeColor(w *bufio.Writer, p colorPlane, c RGB, indexed bool) {
	switch {
	case indexed:
		w.Write(p.indexed)
		writeNum(w, int(c.R))
	case o.colorMode == ColorModeTrueColor:
		w.Write(p.direct)
		writeNum(w, int(c.R))
		w.WriteByte(';')
		writeNum(w, int(c.G))
		w.WriteByte(';')
		writeNum(w, int(c.B))
	default:
		w.Write(p.indexed)
		writeNum(w, int(RGBTo256(c)))
	}
}

// clear resets style and wipes the screen in terminal default colors
func (o *writer) clear() error {
	w := o.out
	w.Write(csiSGR0)
	w.Write(csiClear)
	o.invalidate()
	return w.Flush()
}
