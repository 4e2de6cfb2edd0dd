package imaging

import (
	"math"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/image-vault-mcp/internal/pixel"
)

// ResizeFilter selects the resampling kernel used by Resize.
type ResizeFilter int

const (
	// Lanczos3 is the sharpest kernel and the default.
	Lanczos3 ResizeFilter = iota
	// Nearest copies the closest source pixel.
	Nearest
	// Bilinear interpolates linearly between neighbours.
	Bilinear
	// CatmullRom is a bicubic spline.
	CatmullRom
)

// String returns the kernel's canonical name, as accepted by ParseResizeFilter.
func (f ResizeFilter) String() string {
	switch f {
	case Nearest:
		return "nearest"
	case Bilinear:
		return "bilinear"
	case CatmullRom:
		return "catmull_rom"
	case Lanczos3:
		return "lanczos3"
	default:
		return "unknown"
	}
}

// ParseResizeFilter resolves a filter name. The empty string selects Lanczos3.
func ParseResizeFilter(name string) (ResizeFilter, error) {
	switch normalizeName(name) {
	case "", "lanczos", "lanczos3":
		return Lanczos3, nil
	case "nearest", "nearest_neighbor":
		return Nearest, nil
	case "bilinear", "linear", "triangle":
		return Bilinear, nil
	case "catmull_rom", "catmullrom", "cubic":
		return CatmullRom, nil
	default:
		return Lanczos3, invalidParam("unknown resize filter %q", name)
	}
}

func (f ResizeFilter) resampler() imaging.ResampleFilter {
	switch f {
	case Nearest:
		return imaging.NearestNeighbor
	case Bilinear:
		return imaging.Linear
	case CatmullRom:
		return imaging.CatmullRom
	default:
		return imaging.Lanczos
	}
}

// Resize resamples the buffer to exactly width x height.
//
// The output keeps the input encoding. Zero or negative dimensions are an
// invalid-input error.
func Resize(buf *pixel.Buffer, width, height int, filter ResizeFilter) (*pixel.Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, invalidParam("resize dimensions must be positive, got %dx%d", width, height)
	}
	if width == buf.Width && height == buf.Height {
		return buf.Clone(), nil
	}
	resized := imaging.Resize(buf.Image(), width, height, filter.resampler())
	return pixel.FromNRGBA(resized, buf.Encoding), nil
}

// FitDimensions returns the largest size with the source aspect ratio that
// fits within maxWidth x maxHeight without upscaling. Each axis is at least 1.
func FitDimensions(srcWidth, srcHeight, maxWidth, maxHeight int) (int, int, error) {
	if maxWidth <= 0 || maxHeight <= 0 {
		return 0, 0, invalidParam("fit bounds must be positive, got %dx%d", maxWidth, maxHeight)
	}
	ratio := math.Min(float64(maxWidth)/float64(srcWidth), float64(maxHeight)/float64(srcHeight))
	ratio = math.Min(ratio, 1)
	w := int(float64(srcWidth) * ratio)
	h := int(float64(srcHeight) * ratio)
	return max(w, 1), max(h, 1), nil
}

// FillDimensions returns the scaled size that covers width x height, plus
// the top-left corner of the centred crop to exactly that size.
func FillDimensions(srcWidth, srcHeight, width, height int) (scaledW, scaledH int, origin CropParams, err error) {
	if width <= 0 || height <= 0 {
		return 0, 0, CropParams{}, invalidParam("fill size must be positive, got %dx%d", width, height)
	}
	ratio := math.Max(float64(width)/float64(srcWidth), float64(height)/float64(srcHeight))
	scaledW = max(int(float64(srcWidth)*ratio), width)
	scaledH = max(int(float64(srcHeight)*ratio), height)
	origin = CropParams{
		X:      (scaledW - width) / 2,
		Y:      (scaledH - height) / 2,
		Width:  width,
		Height: height,
	}
	return scaledW, scaledH, origin, nil
}

// ResizeToFit scales the buffer down to fit inside maxWidth x maxHeight.
func ResizeToFit(buf *pixel.Buffer, maxWidth, maxHeight int, filter ResizeFilter) (*pixel.Buffer, error) {
	w, h, err := FitDimensions(buf.Width, buf.Height, maxWidth, maxHeight)
	if err != nil {
		return nil, err
	}
	return Resize(buf, w, h, filter)
}

// ResizeToFill scales the buffer to cover width x height and centre-crops
// the overshoot, producing exactly width x height.
func ResizeToFill(buf *pixel.Buffer, width, height int, filter ResizeFilter) (*pixel.Buffer, error) {
	sw, sh, origin, err := FillDimensions(buf.Width, buf.Height, width, height)
	if err != nil {
		return nil, err
	}
	scaled, err := Resize(buf, sw, sh, filter)
	if err != nil {
		return nil, err
	}
	return Crop(scaled, origin)
}
