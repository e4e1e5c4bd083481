package terminal

import "unicode/utf8"

const (
	// longest CSI sequence scanned before the bytes are dropped as garbage
	maxCSI = 32
	// coordinates and parameters above this are rejected
	maxParam = 9999
)

// decode reads one event from the front of data
// n == 0 means data ends inside a sequence and more input is needed.
// ok is false for consumed bytes that carry no event: unknown sequences and stray bytes.
func decode(data []byte) (n int, ev Event, ok bool) {
	if len(data) == 0 {
		return 0, Event{}, false
	}
	b := data[0]
	switch {
	case b >= 0x20 && b < 0x7f:
		return 1, keyEvent(KeyRune, rune(b), ModNone), true
	case b == 0x7f:
		return 1, keyEvent(KeyBackspace, 0, ModNone), true
	case b == 0x1b:
		return decodeEscape(data)
	case b < 0x20:
		return 1, keyEvent(controlKey(b), 0, ModNone), true
	}

	if !utf8.FullRune(data) {
		return 0, Event{}, false
	}
	r, size := utf8.DecodeRune(data)
	if r == utf8.RuneError && size <= 1 {
		return 1, Event{}, false
	}
	return size, keyEvent(KeyRune, r, ModNone), true
}

func keyEvent(k Key, r rune, mod Modifier) Event {
	return Event{Type: EventKey, Key: k, Rune: r, Modifiers: mod}
}

// decodeEscape handles data starting with ESC
// A lone ESC waits here; the reader emits it as a key when input goes quiet.
func decodeEscape(data []byte) (int, Event, bool) {
	if len(data) < 2 {
		return 0, Event{}, false
	}
	switch data[1] {
	case 0x1b:
		return 2, keyEvent(KeyEscape, 0, ModAlt), true
	case '[':
		return decodeCSI(data)
	case 'O':
		return decodeSS3(data)
	}

	// ESC prefix on anything else is Alt
	n, ev, ok := decode(data[1:])
	if n == 0 {
		return 0, Event{}, false
	}
	ev.Modifiers |= ModAlt
	return n + 1, ev, ok
}

// decodeCSI handles ESC [ sequences: cursor and function keys, and SGR mouse reports
func decodeCSI(data []byte) (int, Event, bool) {
	if len(data) < 3 {
		return 0, Event{}, false
	}
	switch data[2] {
	case '<':
		return decodeSGRMouse(data)
	case '[':
		if len(data) < 4 {
			return 0, Event{}, false
		}
		k, ok := consoleKeys[data[3]]
		return 4, keyEvent(k, 0, ModNone), ok
	}

	// Parameter and intermediate bytes are 0x20-0x3f, the final byte 0x40-0x7e
	end := -1
	for i := 2; i < len(data) && i < maxCSI; i++ {
		c := data[i]
		if c >= 0x40 && c <= 0x7e {
			end = i
			break
		}
		if c < 0x20 || c > 0x3f {
			return i, Event{}, false
		}
	}
	if end < 0 {
		if len(data) >= maxCSI {
			return maxCSI, Event{}, false
		}
		return 0, Event{}, false
	}

	n := end + 1
	params, ok := parseParams(data[2:end])
	if !ok {
		return n, Event{}, false
	}
	first, mod := param(params, 0, 1), xtermMod(param(params, 1, 1))

	switch final := data[end]; final {
	case '~':
		k, ok := tildeKeys[first]
		return n, keyEvent(k, 0, mod), ok
	case 'Z':
		return n, keyEvent(KeyBacktab, 0, ModShift|mod), true
	default:
		k, ok := letterKeys[final]
		return n, keyEvent(k, 0, mod), ok
	}
}

// decodeSS3 handles ESC O x: application cursor keys, F1-F4 and the keypad
func decodeSS3(data []byte) (int, Event, bool) {
	if len(data) < 3 {
		return 0, Event{}, false
	}
	c := data[2]
	if k, ok := letterKeys[c]; ok {
		return 3, keyEvent(k, 0, ModNone), true
	}
	if c == 'M' {
		return 3, keyEvent(KeyEnter, 0, ModNone), true
	}
	if r, ok := keypadRunes[c]; ok {
		return 3, keyEvent(KeyRune, r, ModNone), true
	}
	return 3, Event{}, false
}

// decodeSGRMouse handles ESC [ < b ; x ; y M (press or motion) and ... m (release)
func decodeSGRMouse(data []byte) (int, Event, bool) {
	end := -1
	for i := 3; i < len(data) && i < maxCSI; i++ {
		if data[i] == 'M' || data[i] == 'm' {
			end = i
			break
		}
	}
	if end < 0 {
		if len(data) >= maxCSI {
			return maxCSI, Event{}, false
		}
		return 0, Event{}, false
	}

	n := end + 1
	params, ok := parseParams(data[3:end])
	if !ok || len(params) != 3 || params[1] < 1 || params[2] < 1 {
		return n, Event{}, false
	}
	code := params[0]
	ev := Event{Type: EventMouse, MouseX: params[1] - 1, MouseY: params[2] - 1}

	low := code & 0x03
	switch {
	case code&128 != 0:
		ev.MouseBtn = [...]MouseButton{MouseBtnBack, MouseBtnForward, MouseBtnNone, MouseBtnNone}[low]
	case code&64 != 0:
		// horizontal wheel (low 2 and 3) has no button of its own
		ev.MouseBtn = [...]MouseButton{MouseBtnWheelUp, MouseBtnWheelDown, MouseBtnNone, MouseBtnNone}[low]
	default:
		ev.MouseBtn = [...]MouseButton{MouseBtnLeft, MouseBtnMiddle, MouseBtnRight, MouseBtnNone}[low]
	}

	isWheel := code&64 != 0 && code&128 == 0
	switch {
	case isWheel:
		ev.MouseAction = MouseActionPress
	case data[end] == 'm':
		ev.MouseAction = MouseActionRelease
	case code&32 != 0 && ev.MouseBtn != MouseBtnNone:
		ev.MouseAction = MouseActionDrag
	case code&32 != 0:
		ev.MouseAction = MouseActionMove
	default:
		ev.MouseAction = MouseActionPress
	}

	if code&4 != 0 {
		ev.Modifiers |= ModShift
	}
	if code&8 != 0 {
		ev.Modifiers |= ModAlt
	}
	if code&16 != 0 {
		ev.Modifiers |= ModCtrl
	}
	return n, ev, true
}

// parseParams splits "n;n;n" into integers; empty fields are 0
// Private or intermediate bytes make the sequence unknown.
func parseParams(b []byte) ([]int, bool) {
	if len(b) == 0 {
		return nil, true
	}
	out := make([]int, 1, 4)
	for _, c := range b {
		switch {
		case c == ';':
			out = append(out, 0)
		case c >= '0' && c <= '9':
			v := &out[len(out)-1]
			*v = *v*10 + int(c-'0')
			if *v > maxParam {
				return nil, false
			}
		default:
			return nil, false
		}
	}
	return out, true
}

// param returns params[i], or def when absent or zero
func param(params []int, i, def int) int {
	if i >= len(params) || params[i] == 0 {
		return def
	}
	return params[i]
}
