// Package terminal is the device layer: raw input parsing and cell output.
//
// Two implementations of Terminal are provided:
//   - ANSI (New): raw mode via x/term, direct escape sequences, SIGWINCH resize detection
//   - tcell (NewTcell): terminfo driven, also used with tcell's simulation screen in tests
//
// Output takes sparse cell updates at absolute positions; diffing happens upstream.
// Styles support true color and the xterm 256-color palette, terminal default colors,
// underline color and wide grapheme clusters.
package terminal
