package imaging

import (
	"bytes"
	"os"
	"strings"

	"github.com/HugoSmits86/nativewebp" // Also registers the WebP decoder
	"github.com/disintegration/imaging"
	"github.com/jmgilman/go/errors"

	"github.com/ironsheep/image-vault-mcp/internal/pixel"
)

// Format is an output encoding accepted by Encode.
type Format int

const (
	// PNG is lossless and keeps alpha.
	PNG Format = iota
	// JPEG drops alpha; quality comes from EncodeOptions.
	JPEG
	// WebP is written losslessly.
	WebP
	// GIF is quantized to a 256-colour palette.
	GIF
	// BMP is uncompressed.
	BMP
	// TIFF is lossless.
	TIFF
)

// DefaultJPEGQuality is used when EncodeOptions leaves JPEGQuality unset.
const DefaultJPEGQuality = 90

var formatNames = map[Format]string{
	PNG:  "png",
	JPEG: "jpeg",
	WebP: "webp",
	GIF:  "gif",
	BMP:  "bmp",
	TIFF: "tiff",
}

// String returns the lower-case format name, as accepted by ParseFormat.
func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return "unknown"
}

// MimeType returns the IANA media type for the format.
func (f Format) MimeType() string {
	return "image/" + f.String()
}

// ParseFormat resolves a format name or file extension.
//
// Matching is case-insensitive and accepts a leading dot, so "PNG", ".jpg"
// and "jpeg" are all valid. Unknown names return an invalid-input error.
func ParseFormat(name string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(name)), ".") {
	case "png":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	case "webp":
		return WebP, nil
	case "gif":
		return GIF, nil
	case "bmp":
		return BMP, nil
	case "tif", "tiff":
		return TIFF, nil
	default:
		return PNG, invalidParam("unsupported image format %q", name)
	}
}

// Decode turns encoded image bytes into a buffer in its natural encoding.
//
// PNG, JPEG, GIF, BMP, TIFF and WebP are recognized by content, not by name.
// Animated GIFs yield their first frame.
func Decode(data []byte) (*pixel.Buffer, error) {
	if len(data) == 0 {
		return nil, errors.New(CodeDecodeFailed, "image data is empty")
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, CodeDecodeFailed, "failed to decode image")
	}

	buf := pixel.FromImage(img)
	if buf.Width == 0 || buf.Height == 0 {
		return nil, errors.Newf(CodeDecodeFailed, "decoded image has no pixels (%dx%d)", buf.Width, buf.Height)
	}
	return buf, nil
}

// Open reads and decodes an image file.
func Open(path string) (*pixel.Buffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithContext(
			errors.Wrap(err, CodeDecodeFailed, "failed to open image"), "path", path)
	}
	buf, err := Decode(data)
	if err != nil {
		return nil, errors.WithContext(err, "path", path)
	}
	return buf, nil
}

// EncodeOptions tunes Encode. The zero value uses library defaults.
type EncodeOptions struct {
	// JPEGQuality ranges 1-100; zero selects DefaultJPEGQuality.
	JPEGQuality int
}

// Encode serializes the buffer to the requested format.
//
// The working encoding of the buffer does not constrain the output: a Luma
// buffer can be written as WebP and an RGBA buffer as JPEG (alpha dropped by
// the JPEG encoder).
func Encode(buf *pixel.Buffer, format Format, opts EncodeOptions) ([]byte, error) {
	if err := buf.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "cannot encode malformed buffer")
	}

	var out bytes.Buffer
	var err error
	img := buf.Image()

	switch format {
	case WebP:
		err = nativewebp.Encode(&out, img, nil)
	case PNG:
		err = imaging.Encode(&out, img, imaging.PNG)
	case JPEG:
		quality := opts.JPEGQuality
		if quality <= 0 {
			quality = DefaultJPEGQuality
		}
		err = imaging.Encode(&out, img, imaging.JPEG, imaging.JPEGQuality(quality))
	case GIF:
		err = imaging.Encode(&out, img, imaging.GIF)
	case BMP:
		err = imaging.Encode(&out, img, imaging.BMP)
	case TIFF:
		err = imaging.Encode(&out, img, imaging.TIFF)
	default:
		return nil, errors.Newf(CodeEncodeFailed, "unsupported output format %d", int(format))
	}

	if err != nil {
		return nil, errors.WithContext(
			errors.Wrapf(err, CodeEncodeFailed, "failed to encode %s", format), "format", format.String())
	}
	return out.Bytes(), nil
}
