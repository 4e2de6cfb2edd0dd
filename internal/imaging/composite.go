package imaging

import (
	"image"
	"math"

	"golang.org/x/image/draw"

	"github.com/ironsheep/image-vault-mcp/internal/pixel"
)

// Anchor places a watermark relative to the base image.
type Anchor int

const (
	// TopLeft places the watermark at the origin.
	TopLeft Anchor = iota
	// TopCenter centres the watermark horizontally along the top edge.
	TopCenter
	// TopRight aligns it to the top-right corner.
	TopRight
	// CenterLeft centres it vertically along the left edge.
	CenterLeft
	// Center centres it on both axes.
	Center
	// CenterRight centres it vertically along the right edge.
	CenterRight
	// BottomLeft aligns it to the bottom-left corner.
	BottomLeft
	// BottomCenter centres it horizontally along the bottom edge.
	BottomCenter
	// BottomRight aligns it to the bottom-right corner; the default.
	BottomRight
	// Custom places the watermark's top-left corner at Position.X, Position.Y.
	Custom
)

var anchorNames = map[string]Anchor{
	"top_left":      TopLeft,
	"top_center":    TopCenter,
	"top_right":     TopRight,
	"center_left":   CenterLeft,
	"center":        Center,
	"center_right":  CenterRight,
	"bottom_left":   BottomLeft,
	"bottom_center": BottomCenter,
	"bottom_right":  BottomRight,
	"custom":        Custom,
}

// ParseAnchor resolves names like "bottom_right", "top-left" or "center".
// The empty string selects BottomRight.
func ParseAnchor(name string) (Anchor, error) {
	n := normalizeName(name)
	if n == "" {
		return BottomRight, nil
	}
	if a, ok := anchorNames[n]; ok {
		return a, nil
	}
	return BottomRight, invalidParam("unknown watermark position %q", name)
}

// Position is an anchor plus the offset used by Custom.
type Position struct {
	Anchor Anchor
	X, Y   int
}

// WatermarkParams controls AddWatermark.
type WatermarkParams struct {
	Position Position
	// Opacity scales the watermark's own alpha; clamped to [0, 1].
	Opacity float64
	// Scale resizes the watermark before placement; 1 keeps its size.
	Scale float64
}

// DefaultWatermarkParams places the watermark bottom-right at half opacity.
func DefaultWatermarkParams() WatermarkParams {
	return WatermarkParams{
		Position: Position{Anchor: BottomRight},
		Opacity:  0.5,
		Scale:    1.0,
	}
}

// AddWatermark blends wm onto base at the requested position.
//
// When Scale differs from 1 the watermark is pre-scaled with a bilinear
// kernel. Parts of the watermark outside the base are clipped.
func AddWatermark(base, wm *pixel.Buffer, p WatermarkParams) (*pixel.Buffer, error) {
	if p.Scale <= 0 || math.IsNaN(p.Scale) {
		return nil, invalidParam("watermark scale must be positive, got %g", p.Scale)
	}

	fg := wm.NRGBA()
	if math.Abs(p.Scale-1) > 0.001 {
		w := max(int(float64(wm.Width)*p.Scale), 1)
		h := max(int(float64(wm.Height)*p.Scale), 1)
		scaled := image.NewNRGBA(image.Rect(0, 0, w, h))
		draw.BiLinear.Scale(scaled, scaled.Bounds(), fg, fg.Bounds(), draw.Src, nil)
		fg = scaled
	}

	x, y := anchorPoint(p.Position, base.Width, base.Height, fg.Rect.Dx(), fg.Rect.Dy())
	return blend(base, fg, x, y, p.Opacity), nil
}

// Overlay blends src onto base with its top-left corner at (x, y).
// Negative offsets and overhang are clipped.
func Overlay(base, src *pixel.Buffer, x, y int, opacity float64) *pixel.Buffer {
	return blend(base, src.NRGBA(), x, y, opacity)
}

func anchorPoint(p Position, baseW, baseH, wmW, wmH int) (int, int) {
	right := max(baseW-wmW, 0)
	bottom := max(baseH-wmH, 0)

	switch p.Anchor {
	case TopLeft:
		return 0, 0
	case TopCenter:
		return right / 2, 0
	case TopRight:
		return right, 0
	case CenterLeft:
		return 0, bottom / 2
	case Center:
		return right / 2, bottom / 2
	case CenterRight:
		return right, bottom / 2
	case BottomLeft:
		return 0, bottom
	case BottomCenter:
		return right / 2, bottom
	case Custom:
		return p.X, p.Y
	default:
		return right, bottom
	}
}

// blend composites fg over a copy of base with out = fg*a + bg*(1-a), where
// a is the foreground alpha times opacity. The base alpha is not modified.
// Luma bases are promoted to RGBA; RGB and RGBA keep their encoding.
func blend(base *pixel.Buffer, fg *image.NRGBA, x, y int, opacity float64) *pixel.Buffer {
	opacity = clampUnit(opacity)

	var out *pixel.Buffer
	if base.Encoding == pixel.Luma {
		out = base.Convert(pixel.RGBA)
	} else {
		out = base.Clone()
	}

	fw, fh := fg.Rect.Dx(), fg.Rect.Dy()
	if opacity == 0 || x >= out.Width || y >= out.Height || x <= -fw || y <= -fh {
		return out
	}

	area := image.Rect(x, y, x+fw, y+fh).Intersect(out.Bounds())
	if area.Empty() {
		return out
	}

	bpp := out.Encoding.BytesPerPixel()
	stride := out.Stride()
	for py := area.Min.Y; py < area.Max.Y; py++ {
		for px := area.Min.X; px < area.Max.X; px++ {
			fi := fg.PixOffset(fg.Rect.Min.X+px-x, fg.Rect.Min.Y+py-y)
			alpha := float64(fg.Pix[fi+3]) / 255 * opacity
			if alpha == 0 {
				continue
			}
			bi := py*stride + px*bpp
			for c := 0; c < 3; c++ {
				f := float64(fg.Pix[fi+c])
				b := float64(out.Pix[bi+c])
				out.Pix[bi+c] = clampByte(f*alpha + b*(1-alpha))
			}
		}
	}
	return out
}
