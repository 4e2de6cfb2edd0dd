package imaging

import (
	"github.com/anthonynsimon/bild/parallel"

	"github.com/ironsheep/image-vault-mcp/internal/pixel"
)

// Adjustments groups the parameters of AdjustAll. Zero fields are skipped.
type Adjustments struct {
	// Brightness is added to every colour sample, typically -255..255.
	Brightness int `json:"brightness,omitempty"`

	// Contrast is a percentage: 0 keeps contrast, -100 flattens to grey,
	// +100 doubles the distance from mid-grey.
	Contrast int `json:"contrast,omitempty"`

	// Saturation is a percentage change of HSL saturation.
	Saturation int `json:"saturation,omitempty"`

	// Hue rotates the hue by this many degrees.
	Hue int `json:"hue,omitempty"`
}

// IsZero reports whether no adjustment would be applied.
func (a Adjustments) IsZero() bool {
	return a == Adjustments{}
}

// AdjustAll applies brightness, contrast, saturation and hue in that order,
// skipping any parameter that is zero.
func AdjustAll(buf *pixel.Buffer, a Adjustments) *pixel.Buffer {
	out := buf
	if a.Brightness != 0 {
		out = Brightness(out, a.Brightness)
	}
	if a.Contrast != 0 {
		out = Contrast(out, a.Contrast)
	}
	if a.Saturation != 0 {
		out = Saturation(out, a.Saturation)
	}
	if a.Hue != 0 {
		out = Hue(out, a.Hue)
	}
	if out == buf {
		return buf.Clone()
	}
	return out
}

// Brightness adds value to every colour sample, saturating at 0 and 255.
func Brightness(buf *pixel.Buffer, value int) *pixel.Buffer {
	return mapColorSamples(buf, func(v uint8) uint8 {
		return clampByte(float64(int(v) + value))
	})
}

// Contrast scales each colour sample's distance from 128 by value/100 + 1.
func Contrast(buf *pixel.Buffer, value int) *pixel.Buffer {
	factor := float64(value)/100 + 1
	return mapColorSamples(buf, func(v uint8) uint8 {
		return clampByte((float64(v)-128)*factor + 128)
	})
}

// Saturation multiplies HSL saturation by value/100 + 1.
//
// Luma buffers carry no chroma and come back as an unchanged copy.
func Saturation(buf *pixel.Buffer, value int) *pixel.Buffer {
	factor := float64(value)/100 + 1
	return mapHSL(buf, func(c HSL) HSL {
		c.S = clampUnit(c.S * factor)
		return c
	})
}

// Hue rotates the hue of every pixel by value degrees, wrapping into [0, 360).
//
// Luma buffers carry no chroma and come back as an unchanged copy.
func Hue(buf *pixel.Buffer, value int) *pixel.Buffer {
	shift := float64(value)
	return mapHSL(buf, func(c HSL) HSL {
		c.H = normalizeHue(c.H + shift)
		return c
	})
}

// mapColorSamples applies fn to each colour sample through a lookup table.
// Alpha is left alone.
func mapColorSamples(buf *pixel.Buffer, fn func(uint8) uint8) *pixel.Buffer {
	var lut [256]uint8
	for i := range lut {
		lut[i] = fn(uint8(i))
	}

	out := buf.Clone()
	bpp := out.Encoding.BytesPerPixel()
	colors := colorChannels(out.Encoding)
	stride := out.Stride()

	parallel.Line(out.Height, func(start, end int) {
		for y := start; y < end; y++ {
			row := out.Pix[y*stride : (y+1)*stride]
			for i := 0; i < len(row); i += bpp {
				for c := 0; c < colors; c++ {
					row[i+c] = lut[row[i+c]]
				}
			}
		}
	})
	return out
}

func mapHSL(buf *pixel.Buffer, fn func(HSL) HSL) *pixel.Buffer {
	out := buf.Clone()
	if out.Encoding == pixel.Luma {
		return out
	}

	bpp := out.Encoding.BytesPerPixel()
	stride := out.Stride()

	parallel.Line(out.Height, func(start, end int) {
		for y := start; y < end; y++ {
			row := out.Pix[y*stride : (y+1)*stride]
			for i := 0; i < len(row); i += bpp {
				c := fn(RGBToHSL(row[i], row[i+1], row[i+2]))
				row[i], row[i+1], row[i+2] = HSLToRGB(c)
			}
		}
	})
	return out
}
