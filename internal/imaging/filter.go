package imaging

import (
	"math"

	"github.com/anthonynsimon/bild/parallel"
	"github.com/disintegration/imaging"

	"github.com/ironsheep/image-vault-mcp/internal/pixel"
)

// FilterType names a single-step filter accepted by ApplyFilter.
type FilterType int

const (
	// FilterBlur is a Gaussian blur with DefaultBlurSigma.
	FilterBlur FilterType = iota
	// FilterSharpen is the 3x3 sharpen kernel at DefaultSharpenAmount.
	FilterSharpen
	// FilterEdgeDetect is Sobel gradient magnitude; the result is luma.
	FilterEdgeDetect
	// FilterEmboss is a directional relief; the result is luma.
	FilterEmboss
	// FilterGrayscale converts to luma.
	FilterGrayscale
	// FilterSepia applies the sepia tone matrix.
	FilterSepia
	// FilterInvert negates colour samples and keeps alpha.
	FilterInvert
)

// Defaults used by ApplyFilter for the parameterized filters.
const (
	DefaultBlurSigma     = 2.0
	DefaultSharpenAmount = 1.0
)

var filterNames = map[string]FilterType{
	"blur":        FilterBlur,
	"sharpen":     FilterSharpen,
	"edge_detect": FilterEdgeDetect,
	"edgedetect":  FilterEdgeDetect,
	"sobel":       FilterEdgeDetect,
	"emboss":      FilterEmboss,
	"grayscale":   FilterGrayscale,
	"greyscale":   FilterGrayscale,
	"sepia":       FilterSepia,
	"invert":      FilterInvert,
}

// String returns the filter's canonical name, as accepted by ParseFilter.
func (f FilterType) String() string {
	switch f {
	case FilterBlur:
		return "blur"
	case FilterSharpen:
		return "sharpen"
	case FilterEdgeDetect:
		return "edge_detect"
	case FilterEmboss:
		return "emboss"
	case FilterGrayscale:
		return "grayscale"
	case FilterSepia:
		return "sepia"
	case FilterInvert:
		return "invert"
	default:
		return "unknown"
	}
}

// ParseFilter resolves a filter name such as "blur" or "edge_detect".
func ParseFilter(name string) (FilterType, error) {
	if f, ok := filterNames[normalizeName(name)]; ok {
		return f, nil
	}
	return FilterBlur, invalidParam("unknown filter %q", name)
}

// ApplyFilter runs a named filter with its default parameters.
func ApplyFilter(buf *pixel.Buffer, filter FilterType) (*pixel.Buffer, error) {
	switch filter {
	case FilterBlur:
		return Blur(buf, DefaultBlurSigma), nil
	case FilterSharpen:
		return Sharpen(buf, DefaultSharpenAmount), nil
	case FilterEdgeDetect:
		return EdgeDetect(buf), nil
	case FilterEmboss:
		return Emboss(buf), nil
	case FilterGrayscale:
		return Grayscale(buf), nil
	case FilterSepia:
		return Sepia(buf), nil
	case FilterInvert:
		return Invert(buf), nil
	default:
		return nil, invalidParam("unknown filter %d", int(filter))
	}
}

// Grayscale converts any encoding to single-channel Luma.
func Grayscale(buf *pixel.Buffer) *pixel.Buffer {
	return buf.Convert(pixel.Luma)
}

// Invert replaces every colour sample v with 255-v. Alpha is kept.
func Invert(buf *pixel.Buffer) *pixel.Buffer {
	out := buf.Clone()
	bpp := out.Encoding.BytesPerPixel()
	colors := colorChannels(out.Encoding)
	for i := 0; i < len(out.Pix); i += bpp {
		for c := 0; c < colors; c++ {
			out.Pix[i+c] = 255 - out.Pix[i+c]
		}
	}
	return out
}

// Blur applies a Gaussian blur with the given standard deviation.
//
// The blur itself runs on a four-channel image; the result is converted back
// to the input encoding. A non-positive sigma returns an unchanged copy.
func Blur(buf *pixel.Buffer, sigma float64) *pixel.Buffer {
	if sigma <= 0 {
		return buf.Clone()
	}
	blurred := imaging.Blur(buf.Image(), sigma)
	return pixel.FromNRGBA(blurred, buf.Encoding)
}

// Sharpen applies a 3x3 sharpening kernel (centre 8, neighbours -1).
//
// Each colour sample becomes orig + sum*amount/8, clamped to 0-255. Luma and
// RGB buffers are processed natively; RGBA sharpens colour and keeps alpha.
// The outermost row and column of pixels are copied unchanged.
func Sharpen(buf *pixel.Buffer, amount float64) *pixel.Buffer {
	out := buf.Clone()
	w, h := buf.Width, buf.Height
	if w < 3 || h < 3 {
		return out
	}

	bpp := buf.Encoding.BytesPerPixel()
	colors := colorChannels(buf.Encoding)
	stride := buf.Stride()
	src := buf.Pix
	scale := amount * 0.125

	parallel.Line(h-2, func(start, end int) {
		for y := start + 1; y < end+1; y++ {
			for x := 1; x < w-1; x++ {
				center := y*stride + x*bpp
				for c := 0; c < colors; c++ {
					idx := center + c
					var neighbours int
					for dy := -1; dy <= 1; dy++ {
						row := idx + dy*stride
						for dx := -1; dx <= 1; dx++ {
							if dx == 0 && dy == 0 {
								continue
							}
							neighbours += int(src[row+dx*bpp])
						}
					}
					sum := 8*int(src[idx]) - neighbours
					out.Pix[idx] = clampByte(float64(src[idx]) + float64(sum)*scale)
				}
			}
		}
	})
	return out
}

var (
	sobelX = [3][3]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	sobelY = [3][3]float64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}
	embossKernel = [3][3]float64{
		{-2, -1, 1},
		{-1, 1, 1},
		{1, 1, 2},
	}
)

// EdgeDetect computes the Sobel gradient magnitude of the luminance.
//
// The result is always Luma. Magnitudes above 255 saturate; border pixels
// are black.
func EdgeDetect(buf *pixel.Buffer) *pixel.Buffer {
	gray := toLuma(buf)
	w, h := gray.Width, gray.Height
	out := pixel.New(pixel.Luma, w, h)
	if w < 3 || h < 3 {
		return out
	}

	parallel.Line(h-2, func(start, end int) {
		for y := start + 1; y < end+1; y++ {
			for x := 1; x < w-1; x++ {
				gx := convolve3(gray, x, y, &sobelX)
				gy := convolve3(gray, x, y, &sobelY)
				out.Pix[y*w+x] = clampByte(math.Sqrt(gx*gx + gy*gy))
			}
		}
	})
	return out
}

// Emboss applies a directional relief kernel to the luminance, offset by 128.
// The result is Luma with a black border.
func Emboss(buf *pixel.Buffer) *pixel.Buffer {
	gray := toLuma(buf)
	w, h := gray.Width, gray.Height
	out := pixel.New(pixel.Luma, w, h)
	if w < 3 || h < 3 {
		return out
	}

	parallel.Line(h-2, func(start, end int) {
		for y := start + 1; y < end+1; y++ {
			for x := 1; x < w-1; x++ {
				out.Pix[y*w+x] = clampByte(convolve3(gray, x, y, &embossKernel) + 128)
			}
		}
	})
	return out
}

// Sepia applies the classic sepia tone matrix.
//
// Luma input is promoted to RGB first since the result carries colour.
func Sepia(buf *pixel.Buffer) *pixel.Buffer {
	var out *pixel.Buffer
	if buf.Encoding == pixel.Luma {
		out = buf.Convert(pixel.RGB)
	} else {
		out = buf.Clone()
	}

	bpp := out.Encoding.BytesPerPixel()
	for i := 0; i < len(out.Pix); i += bpp {
		r, g, b := float64(out.Pix[i]), float64(out.Pix[i+1]), float64(out.Pix[i+2])
		out.Pix[i] = clampByte(r*0.393 + g*0.769 + b*0.189)
		out.Pix[i+1] = clampByte(r*0.349 + g*0.686 + b*0.168)
		out.Pix[i+2] = clampByte(r*0.272 + g*0.534 + b*0.131)
	}
	return out
}

// convolve3 evaluates a 3x3 kernel centred on (x, y) of a Luma buffer.
func convolve3(gray *pixel.Buffer, x, y int, kernel *[3][3]float64) float64 {
	w := gray.Width
	var sum float64
	for ky := -1; ky <= 1; ky++ {
		row := (y + ky) * w
		for kx := -1; kx <= 1; kx++ {
			sum += float64(gray.Pix[row+x+kx]) * kernel[ky+1][kx+1]
		}
	}
	return sum
}

func toLuma(buf *pixel.Buffer) *pixel.Buffer {
	if buf.Encoding == pixel.Luma {
		return buf
	}
	return buf.Convert(pixel.Luma)
}

// colorChannels is the number of leading samples per pixel that carry colour.
func colorChannels(enc pixel.Encoding) int {
	if enc.HasAlpha() {
		return enc.BytesPerPixel() - 1
	}
	return enc.BytesPerPixel()
}

// clampByte truncates toward zero after saturating to the byte range.
func clampByte(v float64) uint8 {
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}
