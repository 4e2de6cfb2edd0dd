package pixel

import (
	"image"
)

// LumaOf returns the BT.601 luminance of an 8-bit RGB triple, rounded.
func LumaOf(r, g, b uint8) uint8 {
	return uint8((299*uint32(r) + 587*uint32(g) + 114*uint32(b) + 500) / 1000)
}

// Convert returns a copy of b in the requested encoding.
//
// Dropping alpha discards it without premultiplying; adding alpha sets every
// pixel opaque. Converting to Luma uses LumaOf.
func (b *Buffer) Convert(enc Encoding) *Buffer {
	if b.Encoding == enc {
		return b.Clone()
	}

	dst := New(enc, b.Width, b.Height)
	srcBPP := b.Encoding.BytesPerPixel()
	dstBPP := enc.BytesPerPixel()
	n := b.Width * b.Height

	for i := 0; i < n; i++ {
		s := b.Pix[i*srcBPP : i*srcBPP+srcBPP]
		d := dst.Pix[i*dstBPP : i*dstBPP+dstBPP]

		var r, g, bl, a uint8
		switch b.Encoding {
		case Luma:
			r, g, bl, a = s[0], s[0], s[0], 0xff
		case RGB:
			r, g, bl, a = s[0], s[1], s[2], 0xff
		default:
			r, g, bl, a = s[0], s[1], s[2], s[3]
		}

		switch enc {
		case Luma:
			d[0] = LumaOf(r, g, bl)
		case RGB:
			d[0], d[1], d[2] = r, g, bl
		default:
			d[0], d[1], d[2], d[3] = r, g, bl, a
		}
	}
	return dst
}

// NRGBA returns the buffer as a standard library image.
//
// RGBA buffers share their pixel slice with the returned image; other
// encodings are expanded into a new four-channel image.
func (b *Buffer) NRGBA() *image.NRGBA {
	src := b
	if b.Encoding != RGBA {
		src = b.Convert(RGBA)
	}
	return &image.NRGBA{Pix: src.Pix, Stride: src.Stride(), Rect: b.Bounds()}
}

// Image returns a standard library view of the buffer suitable for encoders.
// Luma buffers map to *image.Gray and share storage.
func (b *Buffer) Image() image.Image {
	if b.Encoding == Luma {
		return &image.Gray{Pix: b.Pix, Stride: b.Width, Rect: b.Bounds()}
	}
	return b.NRGBA()
}

// FromNRGBA converts a four-channel image into a buffer of the given encoding.
func FromNRGBA(img *image.NRGBA, enc Encoding) *Buffer {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	packed := &Buffer{Encoding: RGBA, Width: w, Height: h}
	if img.Stride == 4*w && bounds.Min == (image.Point{}) && len(img.Pix) == 4*w*h {
		packed.Pix = img.Pix
	} else {
		packed.Pix = make([]byte, 4*w*h)
		for y := 0; y < h; y++ {
			off := img.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			copy(packed.Pix[y*4*w:(y+1)*4*w], img.Pix[off:off+4*w])
		}
	}
	if enc == RGBA {
		return packed
	}
	return packed.Convert(enc)
}
