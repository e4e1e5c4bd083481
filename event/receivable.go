package event

import (
	"strings"
	"unicode"

	"github.com/lixenwraith/loom/terminal"
)

// KeyPress is one raw key as parsed by the terminal
type KeyPress struct {
	Key  terminal.Key
	Rune rune
	Mod  terminal.Modifier
}

// Rune builds a printable key press
func Rune(r rune) KeyPress {
	return KeyPress{Key: terminal.KeyRune, Rune: r}
}

// Special builds a non-printable key press
func Special(k terminal.Key, mod terminal.Modifier) KeyPress {
	return KeyPress{Key: k, Mod: mod}
}

// FromTerminal converts a terminal key event
func FromTerminal(ev terminal.Event) KeyPress {
	kp := KeyPress{Key: ev.Key, Rune: ev.Rune, Mod: ev.Modifiers}
	// Space arrives as a rune from the parser, normalize to one form
	if kp.Key == terminal.KeySpace {
		kp.Key = terminal.KeyRune
		kp.Rune = ' '
	}
	return kp
}

// String returns the canonical name, e.g. "ctrl_c", "alt+x", "g", "space"
func (k KeyPress) String() string {
	var b strings.Builder
	if k.Mod&terminal.ModCtrl != 0 {
		b.WriteString("ctrl+")
	}
	if k.Mod&terminal.ModAlt != 0 {
		b.WriteString("alt+")
	}
	if k.Mod&terminal.ModShift != 0 {
		b.WriteString("shift+")
	}
	switch {
	case k.Key == terminal.KeyRune && k.Rune == ' ':
		b.WriteString("space")
	case k.Key == terminal.KeyRune:
		b.WriteRune(k.Rune)
	default:
		b.WriteString(terminal.KeyName(k.Key))
	}
	return b.String()
}

// Class is a family of single key presses
type Class uint8

const (
	ClassAnyChar Class = iota + 1 // printable rune without ctrl/alt
	ClassDigit
	ClassLetter
	ClassAnyKey
)

var classNames = map[Class]string{
	ClassAnyChar: "<any_char>",
	ClassDigit:   "<digit>",
	ClassLetter:  "<letter>",
	ClassAnyKey:  "<any_key>",
}

// ClassByName resolves "<any_char>" style names
func ClassByName(name string) (Class, bool) {
	for c, n := range classNames {
		if n == name {
			return c, true
		}
	}
	return 0, false
}

// Matches reports whether the press belongs to the class
func (c Class) Matches(k KeyPress) bool {
	isChar := k.Key == terminal.KeyRune && k.Mod&(terminal.ModCtrl|terminal.ModAlt) == 0
	switch c {
	case ClassAnyChar:
		return isChar
	case ClassDigit:
		return isChar && k.Rune >= '0' && k.Rune <= '9'
	case ClassLetter:
		return isChar && unicode.IsLetter(k.Rune)
	case ClassAnyKey:
		return k.Key != terminal.KeyNone
	}
	return false
}

// Kind tags the Receivable union
type Kind uint8

const (
	KindCombo Kind = iota + 1
	KindClass
	KindCustom
)

// Receivable is something an element wants to receive:
// a key combination, a key class or a named custom event
type Receivable struct {
	kind    Kind
	presses []KeyPress
	class   Class
	name    string
	key     string
}

// Combo is a key sequence, e.g. Combo(Rune('g'), Rune('g'))
func Combo(presses ...KeyPress) Receivable {
	ps := make([]KeyPress, len(presses))
	copy(ps, presses)
	names := make([]string, len(ps))
	for i, p := range ps {
		names[i] = p.String()
	}
	return Receivable{kind: KindCombo, presses: ps, key: "combo:" + strings.Join(names, " ")}
}

// KeyClass wants any single press in the class
func KeyClass(c Class) Receivable {
	return Receivable{kind: KindClass, class: c, key: "class:" + classNames[c]}
}

// CustomEvent wants a named custom event
func CustomEvent(name string) Receivable {
	return Receivable{kind: KindCustom, name: name, key: "custom:" + name}
}

func (r Receivable) Kind() Kind { return r.kind }

// Presses returns a copy of the combo sequence
func (r Receivable) Presses() []KeyPress {
	out := make([]KeyPress, len(r.presses))
	copy(out, r.presses)
	return out
}

func (r Receivable) Class() Class { return r.class }

func (r Receivable) Name() string { return r.name }

// Key is the canonical identity, two receivables are equal iff their keys are
func (r Receivable) Key() string { return r.key }

func (r Receivable) String() string { return r.key }

// IsKey reports whether the receivable is keyboard input
func (r Receivable) IsKey() bool {
	return r.kind == KindCombo || r.kind == KindClass
}

// MatchState is the outcome of testing a pattern against buffered presses
type MatchState uint8

const (
	MatchNone MatchState = iota
	// buffer is a proper prefix of the pattern
	MatchPrefix
	MatchFull
)

// Match compares the pattern against the buffered presses
func (r Receivable) Match(buf []KeyPress) MatchState {
	switch r.kind {
	case KindClass:
		if len(buf) == 1 && r.class.Matches(buf[0]) {
			return MatchFull
		}
		return MatchNone
	case KindCombo:
		if len(buf) > len(r.presses) {
			return MatchNone
		}
		for i := range buf {
			if buf[i] != r.presses[i] {
				return MatchNone
			}
		}
		if len(buf) == len(r.presses) {
			return MatchFull
		}
		return MatchPrefix
	}
	return MatchNone
}
