package imaging

import (
	"image"
	"math"
	"strings"

	"github.com/ironsheep/image-vault-mcp/internal/pixel"
)

// CropParams describes a crop rectangle by its top-left corner and size.
type CropParams struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Rect returns the rectangle as an image.Rectangle. The caller must ensure
// X+Width and Y+Height do not overflow.
func (p CropParams) Rect() image.Rectangle {
	return image.Rect(p.X, p.Y, p.X+p.Width, p.Y+p.Height)
}

// Crop extracts a region of the buffer, keeping its encoding.
//
// The rectangle is intersected with the buffer bounds, so a region that
// overhangs the right or bottom edge is trimmed. Zero width or height, or a
// rectangle entirely outside the image, is an invalid-input error.
func Crop(buf *pixel.Buffer, p CropParams) (*pixel.Buffer, error) {
	if p.Width <= 0 || p.Height <= 0 {
		return nil, invalidParam("crop size must be positive, got %dx%d", p.Width, p.Height)
	}

	outside := p.X >= buf.Width || p.Y >= buf.Height ||
		p.X > math.MaxInt-p.Width || p.Y > math.MaxInt-p.Height
	var r image.Rectangle
	if !outside {
		r = p.Rect().Intersect(buf.Bounds())
	}
	if r.Empty() {
		return nil, invalidParam("crop region (%d,%d) %dx%d lies outside %dx%d image",
			p.X, p.Y, p.Width, p.Height, buf.Width, buf.Height)
	}

	bpp := buf.Encoding.BytesPerPixel()
	out := pixel.New(buf.Encoding, r.Dx(), r.Dy())
	srcStride := buf.Stride()
	dstStride := out.Stride()
	for y := 0; y < out.Height; y++ {
		off := (r.Min.Y+y)*srcStride + r.Min.X*bpp
		copy(out.Pix[y*dstStride:(y+1)*dstStride], buf.Pix[off:off+dstStride])
	}
	return out, nil
}

// NormalizeRotation maps any multiple-of-90 angle, including negative ones,
// to 0, 90, 180 or 270. Other angles are returned reduced mod 360.
func NormalizeRotation(degrees int) int {
	d := degrees % 360
	if d < 0 {
		d += 360
	}
	return d
}

// Rotate turns the buffer clockwise by 90, 180 or 270 degrees.
//
// Negative equivalents (-90, -180, -270) are accepted. Any other angle
// returns an unchanged copy; the byte footprint never changes.
func Rotate(buf *pixel.Buffer, degrees int) *pixel.Buffer {
	switch NormalizeRotation(degrees) {
	case 90:
		return rotate90(buf)
	case 180:
		return rotate180(buf)
	case 270:
		return rotate270(buf)
	default:
		return buf.Clone()
	}
}

func rotate90(buf *pixel.Buffer) *pixel.Buffer {
	w, h := buf.Width, buf.Height
	bpp := buf.Encoding.BytesPerPixel()
	out := pixel.New(buf.Encoding, h, w)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			src := (y*w + x) * bpp
			dst := (x*h + (h - 1 - y)) * bpp
			copy(out.Pix[dst:dst+bpp], buf.Pix[src:src+bpp])
		}
	}
	return out
}

func rotate180(buf *pixel.Buffer) *pixel.Buffer {
	bpp := buf.Encoding.BytesPerPixel()
	out := pixel.New(buf.Encoding, buf.Width, buf.Height)
	n := buf.Width * buf.Height
	for i := 0; i < n; i++ {
		src := i * bpp
		dst := (n - 1 - i) * bpp
		copy(out.Pix[dst:dst+bpp], buf.Pix[src:src+bpp])
	}
	return out
}

func rotate270(buf *pixel.Buffer) *pixel.Buffer {
	w, h := buf.Width, buf.Height
	bpp := buf.Encoding.BytesPerPixel()
	out := pixel.New(buf.Encoding, h, w)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			src := (y*w + x) * bpp
			dst := ((w-1-x)*h + y) * bpp
			copy(out.Pix[dst:dst+bpp], buf.Pix[src:src+bpp])
		}
	}
	return out
}

// FlipHorizontal mirrors the buffer left to right.
func FlipHorizontal(buf *pixel.Buffer) *pixel.Buffer {
	w := buf.Width
	bpp := buf.Encoding.BytesPerPixel()
	stride := buf.Stride()
	out := pixel.New(buf.Encoding, w, buf.Height)
	for y := 0; y < buf.Height; y++ {
		row := y * stride
		for x := 0; x < w; x++ {
			src := row + x*bpp
			dst := row + (w-1-x)*bpp
			copy(out.Pix[dst:dst+bpp], buf.Pix[src:src+bpp])
		}
	}
	return out
}

// FlipVertical mirrors the buffer top to bottom.
func FlipVertical(buf *pixel.Buffer) *pixel.Buffer {
	stride := buf.Stride()
	out := pixel.New(buf.Encoding, buf.Width, buf.Height)
	for y := 0; y < buf.Height; y++ {
		dst := (buf.Height - 1 - y) * stride
		copy(out.Pix[dst:dst+stride], buf.Pix[y*stride:(y+1)*stride])
	}
	return out
}

// normalizeName lower-cases a parameter name and folds '-' and ' ' to '_'.
func normalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("-", "_", " ", "_").Replace(s)
}
