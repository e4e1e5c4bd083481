package input

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lixenwraith/loom/event"
	"github.com/lixenwraith/loom/terminal"
)

// Rune aliases for keys that can't be written as a bare character in a pattern
var runeAliases = map[string]rune{
	"space":     ' ',
	"backslash": '\\',
	"lt":        '<',
}

// Modifier prefixes accepted in a pattern token, e.g. "alt+x"
var modPrefixes = []struct {
	prefix string
	mod    terminal.Modifier
}{
	{"ctrl+", terminal.ModCtrl},
	{"alt+", terminal.ModAlt},
	{"shift+", terminal.ModShift},
}

// unbind is the keymap value that removes a default binding
const unbind = "none"

// ParsePattern converts a pattern string into a receivable
// Tokens are space separated presses: "ctrl_c", "g g", "alt+x", "<digit>"
// A class token must stand alone
func ParsePattern(s string) (event.Receivable, error) {
	tokens := strings.Fields(s)
	if len(tokens) == 0 {
		return event.Receivable{}, fmt.Errorf("empty pattern")
	}
	if len(tokens) > MaxBuffered {
		return event.Receivable{}, fmt.Errorf("pattern %q: more than %d presses", s, MaxBuffered)
	}

	if strings.HasPrefix(tokens[0], "<") && len(tokens[0]) > 2 {
		c, ok := event.ClassByName(strings.ToLower(tokens[0]))
		if !ok {
			return event.Receivable{}, fmt.Errorf("pattern %q: unknown key class %s", s, tokens[0])
		}
		if len(tokens) > 1 {
			return event.Receivable{}, fmt.Errorf("pattern %q: key class must be the only press", s)
		}
		return event.KeyClass(c), nil
	}

	presses := make([]event.KeyPress, 0, len(tokens))
	for _, tok := range tokens {
		kp, err := parsePress(tok)
		if err != nil {
			return event.Receivable{}, fmt.Errorf("pattern %q: %w", s, err)
		}
		presses = append(presses, kp)
	}
	return event.Combo(presses...), nil
}

// FormatPattern writes rc back in the syntax ParsePattern reads
func FormatPattern(rc event.Receivable) string {
	switch rc.Kind() {
	case event.KindClass:
		return strings.TrimPrefix(rc.String(), "class:")
	case event.KindCustom:
		return rc.Name()
	}
	ps := rc.Presses()
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = p.String()
	}
	return strings.Join(parts, " ")
}

// MustPattern is ParsePattern for patterns known at compile time
func MustPattern(s string) event.Receivable {
	r, err := ParsePattern(s)
	if err != nil {
		panic(err)
	}
	return r
}

// parsePress converts one token into a key press
func parsePress(tok string) (event.KeyPress, error) {
	var mod terminal.Modifier
	rest := tok
	for {
		stripped := false
		for _, mp := range modPrefixes {
			if len(rest) > len(mp.prefix) && strings.HasPrefix(strings.ToLower(rest), mp.prefix) {
				mod |= mp.mod
				rest = rest[len(mp.prefix):]
				stripped = true
			}
		}
		if !stripped {
			break
		}
	}

	// Single character, case preserved
	if runes := []rune(rest); len(runes) == 1 {
		return event.KeyPress{Key: terminal.KeyRune, Rune: runes[0], Mod: mod}, nil
	}

	name := strings.ToLower(rest)
	if r, ok := runeAliases[name]; ok {
		return event.KeyPress{Key: terminal.KeyRune, Rune: r, Mod: mod}, nil
	}
	if k, ok := terminal.KeyByName(name); ok {
		return event.KeyPress{Key: k, Mod: mod}, nil
	}
	return event.KeyPress{}, fmt.Errorf("unknown key %q", tok)
}

// Keymap binds action names to key patterns
type Keymap map[string]event.Receivable

// DefaultKeymap returns the built-in bindings
func DefaultKeymap() Keymap {
	return Keymap{
		"quit":       MustPattern("ctrl_c"),
		"focus_next": MustPattern("tab"),
		"focus_prev": MustPattern("backtab"),
		"close":      MustPattern("escape"),
		"top":        MustPattern("g g"),
		"bottom":     MustPattern("G"),
		"help":       MustPattern("?"),
		"pause":      MustPattern("p"),
	}
}

// LoadKeymap parses action → pattern strings into a sparse override keymap
// The value "none" marks an action to unbind
func LoadKeymap(raw map[string]string) (Keymap, map[string]bool, error) {
	km := make(Keymap, len(raw))
	unbound := make(map[string]bool)
	for action, pattern := range raw {
		action = strings.ToLower(strings.TrimSpace(action))
		if strings.EqualFold(strings.TrimSpace(pattern), unbind) {
			unbound[action] = true
			continue
		}
		r, err := ParsePattern(pattern)
		if err != nil {
			return nil, nil, fmt.Errorf("keymap %s: %w", action, err)
		}
		km[action] = r
	}
	return km, unbound, nil
}

// MergeKeymap returns base overridden by override, with unbound actions removed
func MergeKeymap(base, override Keymap, unbound map[string]bool) Keymap {
	out := make(Keymap, len(base)+len(override))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	for k := range unbound {
		delete(out, k)
	}
	return out
}

// Resolve loads raw overrides onto the defaults
func Resolve(raw map[string]string) (Keymap, error) {
	override, unbound, err := LoadKeymap(raw)
	if err != nil {
		return nil, err
	}
	return MergeKeymap(DefaultKeymap(), override, unbound), nil
}

// Get returns the binding for action, ok false when unbound
func (km Keymap) Get(action string) (event.Receivable, bool) {
	r, ok := km[action]
	return r, ok
}

// Actions returns bound action names sorted
func (km Keymap) Actions() []string {
	names := make([]string, 0, len(km))
	for k := range km {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Action returns the action bound to receivable rc
func (km Keymap) Action(rc event.Receivable) (string, bool) {
	for _, name := range km.Actions() {
		if km[name].Key() == rc.Key() {
			return name, true
		}
	}
	return "", false
}
