package imaging

import (
	"testing"

	"github.com/jmgilman/go/errors"

	"github.com/ironsheep/image-vault-mcp/internal/pixel"
)

// filled returns a buffer with every pixel set to the given samples.
func filled(enc pixel.Encoding, w, h int, samples ...uint8) *pixel.Buffer {
	buf := pixel.New(enc, w, h)
	bpp := enc.BytesPerPixel()
	for i := 0; i < len(buf.Pix); i += bpp {
		copy(buf.Pix[i:i+bpp], samples)
	}
	return buf
}

// gradient returns a buffer whose samples vary with position so that
// geometric transforms are detectable.
func gradient(enc pixel.Encoding, w, h int) *pixel.Buffer {
	buf := pixel.New(enc, w, h)
	for i := range buf.Pix {
		buf.Pix[i] = uint8((i*7 + i/3) % 251)
	}
	return buf
}

func at(buf *pixel.Buffer, x, y int) []uint8 {
	bpp := buf.Encoding.BytesPerPixel()
	off := (y*buf.Width + x) * bpp
	return buf.Pix[off : off+bpp]
}

func assertCode(t *testing.T, err error, want errors.ErrorCode) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", want)
	}
	if got := errors.GetCode(err); got != want {
		t.Errorf("error code: got %s, want %s (%v)", got, want, err)
	}
}

func equalPix(a, b *pixel.Buffer) bool {
	if a.Encoding != b.Encoding || a.Width != b.Width || a.Height != b.Height || len(a.Pix) != len(b.Pix) {
		return false
	}
	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			return false
		}
	}
	return true
}
