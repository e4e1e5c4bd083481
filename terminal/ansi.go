package terminal

import (
	"bufio"
	"strconv"
)

const esc = "\x1b"

// DEC private modes, set with CSI ? n h and reset with CSI ? n l
const (
	modeAutoWrap    = 7
	modeCursor      = 25
	modeMouseClick  = 1000
	modeMouseDrag   = 1002
	modeMouseMotion = 1003
	modeMouseSGR    = 1006
	modeAltScreen   = 1049
)

func decMode(mode int, on bool) []byte {
	b := strconv.AppendInt([]byte(esc+"[?"), int64(mode), 10)
	if on {
		return append(b, 'h')
	}
	return append(b, 'l')
}

var (
	csi      = []byte(esc + "[")
	csiSGR0  = []byte(esc + "[0m")
	csiClear = []byte(esc + "[2J" + esc + "[H")
	// full reset, crash path only
	csiRIS = []byte(esc + "c")

	csiCursorHide     = decMode(modeCursor, false)
	csiCursorShow     = decMode(modeCursor, true)
	csiAltScreenEnter = decMode(modeAltScreen, true)
	csiAltScreenExit  = decMode(modeAltScreen, false)
	// with wrap off a write to the bottom-right cell does not scroll
	csiAutoWrapOff = decMode(modeAutoWrap, false)
	csiAutoWrapOn  = decMode(modeAutoWrap, true)

	csiMouseSGROn     = decMode(modeMouseSGR, true)
	csiMouseSGROff    = decMode(modeMouseSGR, false)
	csiMouseClickOn   = decMode(modeMouseClick, true)
	csiMouseClickOff  = decMode(modeMouseClick, false)
	csiMouseDragOn    = decMode(modeMouseDrag, true)
	csiMouseDragOff   = decMode(modeMouseDrag, false)
	csiMouseMotionOn  = decMode(modeMouseMotion, true)
	csiMouseMotionOff = decMode(modeMouseMotion, false)
)

// mouseModes is in enable order; modes are disabled walking it backwards
var mouseModes = [...]struct {
	mode    MouseMode
	on, off []byte
}{
	{MouseModeClick, csiMouseClickOn, csiMouseClickOff},
	{MouseModeDrag, csiMouseDragOn, csiMouseDragOff},
	{MouseModeMotion, csiMouseMotionOn, csiMouseMotionOff},
}

// colorPlane holds the SGR parameter prefixes of one color target
type colorPlane struct {
	reset, indexed, direct []byte
}

var (
	planeFg = colorPlane{[]byte("39"), []byte("38;5;"), []byte("38;2;")}
	planeBg = colorPlane{[]byte("49"), []byte("48;5;"), []byte("48;2;")}
	planeUl = colorPlane{[]byte("59"), []byte("58;5;"), []byte("58;2;")}
)

// attrParams lists style bits with their SGR parameter, in emission order
var attrParams = [...]struct {
	attr  Attr
	param byte
}{
	{AttrBold, '1'},
	{AttrDim, '2'},
	{AttrItalic, '3'},
	{AttrUnderline, '4'},
	{AttrBlink, '5'},
	{AttrReverse, '7'},
	{AttrStrikethrough, '9'},
}

// writeNum writes a non-negative decimal
func writeNum(w *bufio.Writer, n int) {
	var scratch [8]byte
	w.Write(strconv.AppendInt(scratch[:0], int64(max(n, 0)), 10))
}

// moveTo writes CUP for a zero-based cell
func moveTo(w *bufio.Writer, x, y int) {
	w.Write(csi)
	writeNum(w, y+1)
	w.WriteByte(';')
	writeNum(w, x+1)
	w.WriteByte('H')
}

// moveRight writes CUF, omitting the count for a single column
func moveRight(w *bufio.Writer, n int) {
	if n <= 0 {
		return
	}
	w.Write(csi)
	if n > 1 {
		writeNum(w, n)
	}
	w.WriteByte('C')
}
