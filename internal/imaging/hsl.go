package imaging

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// HSL is a colour in hue/saturation/lightness space.
//
// H is in degrees within [0, 360); S and L are fractions within [0, 1].
// Achromatic colours have H = 0 and S = 0.
type HSL struct {
	H float64 `json:"h"`
	S float64 `json:"s"`
	L float64 `json:"l"`
}

// RGBToHSL converts an 8-bit RGB triple to HSL.
func RGBToHSL(r, g, b uint8) HSL {
	h, s, l := colorful.Color{
		R: float64(r) / 255,
		G: float64(g) / 255,
		B: float64(b) / 255,
	}.Hsl()
	return HSL{H: normalizeHue(h), S: s, L: l}
}

// HSLToRGB converts back to 8-bit RGB, rounding to the nearest sample.
// Achromatic input (S = 0) reproduces the original grey exactly.
func HSLToRGB(c HSL) (r, g, b uint8) {
	return colorful.Hsl(normalizeHue(c.H), clampUnit(c.S), clampUnit(c.L)).Clamped().RGB255()
}

// normalizeHue wraps any angle into [0, 360).
func normalizeHue(h float64) float64 {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	if h >= 360 {
		h = 0
	}
	return h
}

func clampUnit(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
