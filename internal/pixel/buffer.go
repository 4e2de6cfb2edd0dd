package pixel

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Encoding identifies the channel layout a Buffer currently holds.
type Encoding uint8

const (
	// Luma is a single 8-bit luminance channel.
	Luma Encoding = iota + 1
	// RGB is three interleaved 8-bit colour channels, no alpha.
	RGB
	// RGBA is four interleaved 8-bit channels with straight (non-premultiplied) alpha.
	RGBA
)

// BytesPerPixel returns the number of bytes one pixel occupies in this encoding.
func (e Encoding) BytesPerPixel() int {
	switch e {
	case Luma:
		return 1
	case RGB:
		return 3
	default:
		return 4
	}
}

// HasAlpha reports whether the encoding carries an alpha channel.
func (e Encoding) HasAlpha() bool {
	return e == RGBA
}

// String returns "luma8", "rgb8" or "rgba8".
func (e Encoding) String() string {
	switch e {
	case Luma:
		return "luma8"
	case RGB:
		return "rgb8"
	case RGBA:
		return "rgba8"
	default:
		return fmt.Sprintf("encoding(%d)", uint8(e))
	}
}

// Buffer is a contiguous pixel buffer in one of the native encodings.
//
// Pixels are stored row-major with no padding: the byte offset of (x, y) is
// (y*Width + x) * Encoding.BytesPerPixel(). A Buffer is never shared between
// cache entries; algorithms that transform it return a fresh Buffer.
type Buffer struct {
	Encoding Encoding
	Width    int
	Height   int
	Pix      []byte
}

// New allocates a zeroed buffer of the given encoding and size.
func New(enc Encoding, width, height int) *Buffer {
	return &Buffer{
		Encoding: enc,
		Width:    width,
		Height:   height,
		Pix:      make([]byte, width*height*enc.BytesPerPixel()),
	}
}

// Stride returns the number of bytes in one row.
func (b *Buffer) Stride() int {
	return b.Width * b.Encoding.BytesPerPixel()
}

// Footprint is the memory occupied by the pixel data: width × height × bytes per pixel.
func (b *Buffer) Footprint() int64 {
	return int64(b.Width) * int64(b.Height) * int64(b.Encoding.BytesPerPixel())
}

// Bounds returns the buffer rectangle anchored at the origin.
func (b *Buffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.Width, b.Height)
}

// Clone returns a deep copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	pix := make([]byte, len(b.Pix))
	copy(pix, b.Pix)
	return &Buffer{Encoding: b.Encoding, Width: b.Width, Height: b.Height, Pix: pix}
}

// Validate checks that the pixel slice matches the declared geometry.
func (b *Buffer) Validate() error {
	if b.Width <= 0 || b.Height <= 0 {
		return fmt.Errorf("invalid buffer size %dx%d", b.Width, b.Height)
	}
	if b.Encoding < Luma || b.Encoding > RGBA {
		return fmt.Errorf("invalid buffer encoding %s", b.Encoding)
	}
	if want := b.Width * b.Height * b.Encoding.BytesPerPixel(); len(b.Pix) != want {
		return fmt.Errorf("buffer holds %d bytes, %dx%d %s needs %d",
			len(b.Pix), b.Width, b.Height, b.Encoding, want)
	}
	return nil
}

// FromImage converts a decoded image into its natural native encoding.
//
// Grayscale sources become Luma. Everything else is flattened through
// imaging.Clone and kept as RGB when every pixel is opaque, RGBA otherwise.
// No canonical format is forced on the caller.
func FromImage(img image.Image) *Buffer {
	switch src := img.(type) {
	case *image.Gray:
		return fromGray(src)
	case *image.Gray16:
		return fromGray16(src)
	}

	nrgba := imaging.Clone(img)
	if isOpaque(nrgba) {
		return FromNRGBA(nrgba, RGB)
	}
	return FromNRGBA(nrgba, RGBA)
}

func fromGray(src *image.Gray) *Buffer {
	bounds := src.Bounds()
	dst := New(Luma, bounds.Dx(), bounds.Dy())
	for y := 0; y < dst.Height; y++ {
		off := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
		copy(dst.Pix[y*dst.Width:(y+1)*dst.Width], src.Pix[off:off+dst.Width])
	}
	return dst
}

func fromGray16(src *image.Gray16) *Buffer {
	bounds := src.Bounds()
	dst := New(Luma, bounds.Dx(), bounds.Dy())
	for y := 0; y < dst.Height; y++ {
		off := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
		for x := 0; x < dst.Width; x++ {
			// Big-endian 16-bit samples; keep the high byte.
			dst.Pix[y*dst.Width+x] = src.Pix[off+2*x]
		}
	}
	return dst
}

func isOpaque(img *image.NRGBA) bool {
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0xff {
			return false
		}
	}
	return true
}
