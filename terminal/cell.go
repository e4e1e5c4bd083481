package terminal

// Attr represents text attributes and color flags (bitmask)
type Attr uint16

const (
	AttrNone          Attr = 0
	AttrBold          Attr = 1 << 0
	AttrDim           Attr = 1 << 1
	AttrItalic        Attr = 1 << 2
	AttrUnderline     Attr = 1 << 3
	AttrBlink         Attr = 1 << 4
	AttrReverse       Attr = 1 << 5
	AttrStrikethrough Attr = 1 << 6

	AttrFg256     Attr = 1 << 8  // Fg.R is 256-color palette index
	AttrBg256     Attr = 1 << 9  // Bg.R is 256-color palette index
	AttrFgDefault Attr = 1 << 10 // terminal default foreground, Fg ignored
	AttrBgDefault Attr = 1 << 11 // terminal default background, Bg ignored
	AttrUlColor   Attr = 1 << 12 // Ul carries an underline color
)

// AttrStyle masks only the style bits (excludes color mode flags)
const AttrStyle Attr = AttrBold | AttrDim | AttrItalic | AttrUnderline | AttrBlink | AttrReverse | AttrStrikethrough

// RuneSkip marks a cell covered by the wide glyph to its left, nothing is written for it
const RuneSkip rune = -1

// Cell represents a single terminal cell
// Text, when set, is a whole grapheme cluster and takes precedence over Rune
type Cell struct {
	Rune  rune
	Text  string
	Fg    RGB
	Bg    RGB
	Ul    RGB
	Attrs Attr
}

// Blank is the empty cell in terminal default colors
var Blank = Cell{Rune: ' ', Attrs: AttrFgDefault | AttrBgDefault}

// Skip reports whether the cell is the tail of a wide glyph
func (c Cell) Skip() bool {
	return c.Rune == RuneSkip && c.Text == ""
}

// CellUpdate is one changed cell at absolute screen coordinates
type CellUpdate struct {
	X, Y int
	Cell Cell
}
