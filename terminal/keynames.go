package terminal

import (
	"fmt"
	"slices"
)

// Names used by keymap patterns for non-text keys
var keyNames = map[Key]string{
	KeyEscape:    "escape",
	KeyEnter:     "enter",
	KeyTab:       "tab",
	KeyBacktab:   "backtab",
	KeyBackspace: "backspace",
	KeyDelete:    "delete",
	KeySpace:     "space",
	KeyInsert:    "insert",

	KeyUp:       "up",
	KeyDown:     "down",
	KeyLeft:     "left",
	KeyRight:    "right",
	KeyHome:     "home",
	KeyEnd:      "end",
	KeyPageUp:   "page_up",
	KeyPageDown: "page_down",

	KeyCtrlSpace:        "ctrl_space",
	KeyCtrlBackslash:    "ctrl_backslash",
	KeyCtrlBracketLeft:  "ctrl_bracket_left",
	KeyCtrlBracketRight: "ctrl_bracket_right",
	KeyCtrlCaret:        "ctrl_caret",
	KeyCtrlUnderscore:   "ctrl_underscore",
}

var keysByName = map[string]Key{
	"shift_tab": KeyBacktab,
}

func init() {
	// f1..f12 and ctrl_a..ctrl_z follow the contiguous constant blocks
	for i := range 12 {
		keyNames[KeyF1+Key(i)] = fmt.Sprintf("f%d", i+1)
	}
	for i := range 26 {
		keyNames[KeyCtrlA+Key(i)] = "ctrl_" + string(rune('a'+i))
	}
	for k, name := range keyNames {
		keysByName[name] = k
	}
}

// KeyName is the pattern name of k, empty for KeyNone and KeyRune
func KeyName(k Key) string {
	return keyNames[k]
}

// KeyByName resolves a pattern name, aliases included
func KeyByName(name string) (Key, bool) {
	k, ok := keysByName[name]
	return k, ok
}

// KeyNames lists every accepted name in order
func KeyNames() []string {
	out := make([]string, 0, len(keysByName))
	for name := range keysByName {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}
