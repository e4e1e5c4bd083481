package render

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/lixenwraith/loom/terminal"
)

// Blend lays src over c with opacity alpha, mixing in sRGB
func Blend(c, src terminal.RGB, alpha float64) terminal.RGB {
	switch {
	case alpha >= 1:
		return src
	case alpha <= 0:
		return c
	}
	return fromColorful(toColorful(c).BlendRgb(toColorful(src), alpha))
}

// Scale brightens or darkens every channel by factor; results saturate at 255
func Scale(c terminal.RGB, factor float64) terminal.RGB {
	f := toColorful(c)
	return fromColorful(colorful.Color{R: f.R * factor, G: f.G * factor, B: f.B * factor})
}

// Grayscale keeps Rec. 601 luma
func Grayscale(c terminal.RGB) terminal.RGB {
	y := uint8((299*int(c.R) + 587*int(c.G) + 114*int(c.B)) / 1000)
	return terminal.RGB{R: y, G: y, B: y}
}
