package render

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

var white = colorful.Color{R: 1, G: 1, B: 1}

// Color is an RGB colour with straight alpha in [0,1].
type Color struct {
	colorful.Color
	A float64
}

// HSB builds a colour on the 360/100/100/100 scale the scene drivers use.
func HSB(h, s, b, a float64) Color {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	return Color{
		Color: colorful.Hsv(h, clamp01(s/100), clamp01(b/100)),
		A:     clamp01(a / 100),
	}
}

// Hex parses "#rrggbb". Malformed input yields opaque white.
func Hex(s string) Color {
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{Color: white, A: 1}
	}
	return Color{Color: c, A: 1}
}

// Black returns black at the given alpha on the 0..100 scale.
func Black(a float64) Color {
	return Color{A: clamp01(a / 100)}
}

// Luminance is the perceived brightness used to pick glyphs.
func (c Color) Luminance() float64 {
	return clamp01(0.2126*c.R + 0.7152*c.G + 0.0722*c.B)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clampFloat(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
