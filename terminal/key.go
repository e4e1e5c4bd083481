package terminal

// Key identifies a pressed key; KeyRune means the text is in Event.Rune
type Key uint16

// Ctrl+letter keys are contiguous so byte arithmetic maps 0x01..0x1a onto them
const (
	KeyNone Key = iota
	KeyRune

	KeyEscape
	KeyEnter
	KeyTab
	KeyBacktab // Shift+Tab
	KeyBackspace
	KeyDelete
	KeySpace

	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyInsert

	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12

	KeyCtrlA
	KeyCtrlB
	KeyCtrlC
	KeyCtrlD
	KeyCtrlE
	KeyCtrlF
	KeyCtrlG
	KeyCtrlH // arrives as 0x08, decoded as Backspace
	KeyCtrlI // arrives as Tab
	KeyCtrlJ // arrives as Enter
	KeyCtrlK
	KeyCtrlL
	KeyCtrlM // arrives as Enter
	KeyCtrlN
	KeyCtrlO
	KeyCtrlP
	KeyCtrlQ
	KeyCtrlR
	KeyCtrlS
	KeyCtrlT
	KeyCtrlU
	KeyCtrlV
	KeyCtrlW
	KeyCtrlX
	KeyCtrlY
	KeyCtrlZ

	KeyCtrlSpace
	KeyCtrlBackslash
	KeyCtrlBracketLeft
	KeyCtrlBracketRight
	KeyCtrlCaret
	KeyCtrlUnderscore
)

// Modifier is a set of held modifier keys
type Modifier uint8

const (
	ModNone  Modifier = 0
	ModShift Modifier = 1 << 0
	ModAlt   Modifier = 1 << 1
	ModCtrl  Modifier = 1 << 2
)

// Final bytes of CSI and SS3 key sequences, e.g. ESC [ A or ESC [ 1 ; 5 A
var letterKeys = map[byte]Key{
	'A': KeyUp,
	'B': KeyDown,
	'C': KeyRight,
	'D': KeyLeft,
	'H': KeyHome,
	'F': KeyEnd,
	'P': KeyF1,
	'Q': KeyF2,
	'R': KeyF3,
	'S': KeyF4,
}

// First parameter of ESC [ n ~ sequences
var tildeKeys = map[int]Key{
	1:  KeyHome,
	2:  KeyInsert,
	3:  KeyDelete,
	4:  KeyEnd,
	5:  KeyPageUp,
	6:  KeyPageDown,
	7:  KeyHome,
	8:  KeyEnd,
	11: KeyF1,
	12: KeyF2,
	13: KeyF3,
	14: KeyF4,
	15: KeyF5,
	17: KeyF6,
	18: KeyF7,
	19: KeyF8,
	20: KeyF9,
	21: KeyF10,
	23: KeyF11,
	24: KeyF12,
}

// Linux console function keys, ESC [ [ A through ESC [ [ E
var consoleKeys = map[byte]Key{
	'A': KeyF1,
	'B': KeyF2,
	'C': KeyF3,
	'D': KeyF4,
	'E': KeyF5,
}

// Application keypad (ESC O x) characters
var keypadRunes = map[byte]rune{
	'X': '=', 'j': '*', 'k': '+', 'l': ',', 'm': '-', 'n': '.', 'o': '/',
	'p': '0', 'q': '1', 'r': '2', 's': '3', 't': '4',
	'u': '5', 'v': '6', 'w': '7', 'x': '8', 'y': '9',
}

// xtermMod decodes the modifier parameter: value-1 is a shift/alt/ctrl/meta bitmask
// Meta folds into Alt, which is what terminals send for it in practice.
func xtermMod(p int) Modifier {
	if p < 2 {
		return ModNone
	}
	bits := p - 1
	var m Modifier
	if bits&1 != 0 {
		m |= ModShift
	}
	if bits&(2|8) != 0 {
		m |= ModAlt
	}
	if bits&4 != 0 {
		m |= ModCtrl
	}
	return m
}

// controlKey maps a C0 control byte to its key
func controlKey(b byte) Key {
	switch {
	case b == 0x00:
		return KeyCtrlSpace
	case b == 0x08:
		return KeyBackspace
	case b == 0x09:
		return KeyTab
	case b == 0x0a, b == 0x0d:
		return KeyEnter
	case b == 0x1b:
		return KeyEscape
	case b == 0x1c:
		return KeyCtrlBackslash
	case b == 0x1d:
		return KeyCtrlBracketRight
	case b == 0x1e:
		return KeyCtrlCaret
	case b == 0x1f:
		return KeyCtrlUnderscore
	case b <= 0x1a:
		return KeyCtrlA + Key(b-0x01)
	}
	return KeyNone
}
