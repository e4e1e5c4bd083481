package terminal

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"
)

// ColorMode is the color encoding output is written in
type ColorMode uint8

const (
	ColorMode256 ColorMode = iota
	ColorModeTrueColor
)

func (m ColorMode) String() string {
	if m == ColorModeTrueColor {
		return "truecolor"
	}
	return "256"
}

// ParseColorMode accepts "auto", "256", "truecolor" and "24bit"; auto probes the environment
func ParseColorMode(s string) (ColorMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return DetectColorMode(), nil
	case "256":
		return ColorMode256, nil
	case "truecolor", "24bit":
		return ColorModeTrueColor, nil
	}
	return ColorMode256, fmt.Errorf("unknown color mode %q", s)
}

// RGB is a 24-bit color
type RGB struct {
	R, G, B uint8
}

var RGBBlack = RGB{}

// xterm palette layout: a 6x6x6 cube at 16-231 and a 24 step gray ramp at 232-255
var cubeLevels = [6]uint8{0, 95, 135, 175, 215, 255}

const (
	cubeBase  = 16
	grayBase  = 232
	grayFirst = 8
	grayStep  = 10
	graySteps = 24
)

// nearestLevel is the cube step closest to v
func nearestLevel(v uint8) int {
	best := 0
	for i, l := range cubeLevels {
		if absDiff(v, l) < absDiff(v, cubeLevels[best]) {
			best = i
		}
	}
	return best
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

func (c RGB) toColorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// RGBTo256 picks the closer of the best cube entry and the best gray ramp entry
// Distance is measured in Lab; the cube wins ties.
func RGBTo256(c RGB) uint8 {
	ri, gi, bi := nearestLevel(c.R), nearestLevel(c.G), nearestLevel(c.B)
	cube := RGB{cubeLevels[ri], cubeLevels[gi], cubeLevels[bi]}
	cubeIdx := uint8(cubeBase + 36*ri + 6*gi + bi)

	avg := (int(c.R) + int(c.G) + int(c.B)) / 3
	step := min(max((avg-grayFirst+grayStep/2)/grayStep, 0), graySteps-1)
	v := uint8(grayFirst + step*grayStep)
	gray := RGB{v, v, v}

	want := c.toColorful()
	if want.DistanceLab(gray.toColorful()) < want.DistanceLab(cube.toColorful()) {
		return uint8(grayBase + step)
	}
	return cubeIdx
}

// Variables set by emulators known to render 24-bit color
var trueColorHints = []string{
	"KITTY_WINDOW_ID",
	"KONSOLE_VERSION",
	"ITERM_SESSION_ID",
	"ALACRITTY_WINDOW_ID",
	"ALACRITTY_LOG",
	"WEZTERM_PANE",
}

// DetectColorMode guesses whether the attached terminal renders 24-bit color
func DetectColorMode() ColorMode {
	switch strings.ToLower(os.Getenv("COLORTERM")) {
	case "truecolor", "24bit":
		return ColorModeTrueColor
	}
	if termenv.EnvColorProfile() == termenv.TrueColor {
		return ColorModeTrueColor
	}
	if slices.ContainsFunc(trueColorHints, func(k string) bool { return os.Getenv(k) != "" }) {
		return ColorModeTrueColor
	}

	term := strings.ToLower(os.Getenv("TERM"))
	for _, marker := range []string{"truecolor", "24bit", "direct"} {
		if strings.Contains(term, marker) {
			return ColorModeTrueColor
		}
	}
	return ColorMode256
}
