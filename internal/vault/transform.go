package vault

import (
	"context"

	"github.com/jmgilman/go/errors"

	"github.com/ironsheep/image-vault-mcp/internal/imaging"
	"github.com/ironsheep/image-vault-mcp/internal/pixel"
)

// pixelFunc is a pure transform from one buffer to a new one.
type pixelFunc func(*pixel.Buffer) (*pixel.Buffer, error)

// infallible adapts an algorithm that cannot fail to a pixelFunc.
func infallible(fn func(*pixel.Buffer) *pixel.Buffer) pixelFunc {
	return func(b *pixel.Buffer) (*pixel.Buffer, error) {
		return fn(b), nil
	}
}

// mutate runs fn against the entry for h and installs the result.
//
// The exclusive lock is held from lookup to install. On any error the entry,
// its footprint and its place in the access order are left as they were.
func (v *Vault) mutate(ctx context.Context, h Handle, op string, fn pixelFunc) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	src, ok := v.entries[h]
	if !ok {
		return annotate(notFound(h), op, h)
	}
	return v.applyLocked(ctx, h, op, src, fn)
}

func (v *Vault) applyLocked(ctx context.Context, h Handle, op string, src *pixel.Buffer, fn pixelFunc) error {
	var out *pixel.Buffer
	err := v.offload.Do(ctx, func() error {
		var err error
		out, err = fn(src)
		return err
	})
	if err != nil {
		return annotate(err, op, h)
	}
	if out == nil {
		return annotate(errors.New(errors.CodeInternal, "transform produced no buffer"), op, h)
	}
	if err := out.Validate(); err != nil {
		return annotate(errors.Wrap(err, errors.CodeInternal, "transform produced a malformed buffer"), op, h)
	}

	v.install(h, src, out)
	return nil
}

// Resize resamples the entry to exactly width x height.
func (v *Vault) Resize(ctx context.Context, h Handle, width, height int, filter imaging.ResizeFilter) error {
	return v.mutate(ctx, h, "resize", func(b *pixel.Buffer) (*pixel.Buffer, error) {
		return imaging.Resize(b, width, height, filter)
	})
}

// ResizeToFit shrinks the entry to fit within maxWidth x maxHeight, keeping
// its aspect ratio. It never upscales.
func (v *Vault) ResizeToFit(ctx context.Context, h Handle, maxWidth, maxHeight int, filter imaging.ResizeFilter) error {
	return v.mutate(ctx, h, "resize_to_fit", func(b *pixel.Buffer) (*pixel.Buffer, error) {
		return imaging.ResizeToFit(b, maxWidth, maxHeight, filter)
	})
}

// ResizeToFill scales the entry to cover width x height and centre-crops
// the overshoot. The resize and crop are installed as one step.
func (v *Vault) ResizeToFill(ctx context.Context, h Handle, width, height int, filter imaging.ResizeFilter) error {
	return v.mutate(ctx, h, "resize_to_fill", func(b *pixel.Buffer) (*pixel.Buffer, error) {
		return imaging.ResizeToFill(b, width, height, filter)
	})
}

// Crop keeps only the given region of the entry.
func (v *Vault) Crop(ctx context.Context, h Handle, p imaging.CropParams) error {
	return v.mutate(ctx, h, "crop", func(b *pixel.Buffer) (*pixel.Buffer, error) {
		return imaging.Crop(b, p)
	})
}

// Rotate turns the entry clockwise by a multiple of 90 degrees. Other angles
// leave the pixels alone but still count as a use of the handle.
func (v *Vault) Rotate(ctx context.Context, h Handle, degrees int) error {
	switch imaging.NormalizeRotation(degrees) {
	case 90, 180, 270:
		return v.mutate(ctx, h, "rotate", func(b *pixel.Buffer) (*pixel.Buffer, error) {
			return imaging.Rotate(b, degrees), nil
		})
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if _, ok := v.entries[h]; !ok {
		return annotate(notFound(h), "rotate", h)
	}
	v.order.touch(h)
	return nil
}

// FlipHorizontal mirrors the entry left to right.
func (v *Vault) FlipHorizontal(ctx context.Context, h Handle) error {
	return v.mutate(ctx, h, "flip_horizontal", infallible(imaging.FlipHorizontal))
}

// FlipVertical mirrors the entry top to bottom.
func (v *Vault) FlipVertical(ctx context.Context, h Handle) error {
	return v.mutate(ctx, h, "flip_vertical", infallible(imaging.FlipVertical))
}

// ApplyFilter runs a named filter with its default parameters
// (blur sigma 2.0, sharpen amount 1.0).
func (v *Vault) ApplyFilter(ctx context.Context, h Handle, filter imaging.FilterType) error {
	return v.mutate(ctx, h, "apply_filter", func(b *pixel.Buffer) (*pixel.Buffer, error) {
		return imaging.ApplyFilter(b, filter)
	})
}

// Grayscale converts the entry to single-channel luma, shrinking its footprint.
func (v *Vault) Grayscale(ctx context.Context, h Handle) error {
	return v.mutate(ctx, h, "grayscale", infallible(imaging.Grayscale))
}

// Invert replaces every colour sample s with 255-s. Alpha is kept.
func (v *Vault) Invert(ctx context.Context, h Handle) error {
	return v.mutate(ctx, h, "invert", infallible(imaging.Invert))
}

// Sepia tones the entry. A luma entry becomes RGB.
func (v *Vault) Sepia(ctx context.Context, h Handle) error {
	return v.mutate(ctx, h, "sepia", infallible(imaging.Sepia))
}

// EdgeDetect replaces the entry with its Sobel gradient magnitude as luma.
func (v *Vault) EdgeDetect(ctx context.Context, h Handle) error {
	return v.mutate(ctx, h, "edge_detect", infallible(imaging.EdgeDetect))
}

// Emboss replaces the entry with a luma relief image.
func (v *Vault) Emboss(ctx context.Context, h Handle) error {
	return v.mutate(ctx, h, "emboss", infallible(imaging.Emboss))
}

// Blur applies a Gaussian blur with standard deviation sigma.
func (v *Vault) Blur(ctx context.Context, h Handle, sigma float64) error {
	return v.mutate(ctx, h, "blur", func(b *pixel.Buffer) (*pixel.Buffer, error) {
		return imaging.Blur(b, sigma), nil
	})
}

// Sharpen applies the 3x3 sharpening kernel scaled by amount.
func (v *Vault) Sharpen(ctx context.Context, h Handle, amount float64) error {
	return v.mutate(ctx, h, "sharpen", func(b *pixel.Buffer) (*pixel.Buffer, error) {
		return imaging.Sharpen(b, amount), nil
	})
}

// AdjustBrightness adds value to every colour sample, saturating at 0 and 255.
func (v *Vault) AdjustBrightness(ctx context.Context, h Handle, value int) error {
	return v.mutate(ctx, h, "adjust_brightness", func(b *pixel.Buffer) (*pixel.Buffer, error) {
		return imaging.Brightness(b, value), nil
	})
}

// AdjustContrast stretches samples away from mid-grey by value percent;
// negative values flatten the image.
func (v *Vault) AdjustContrast(ctx context.Context, h Handle, value int) error {
	return v.mutate(ctx, h, "adjust_contrast", func(b *pixel.Buffer) (*pixel.Buffer, error) {
		return imaging.Contrast(b, value), nil
	})
}

// AdjustSaturation scales HSL saturation by value percent. Luma entries are
// left as they are but still count as used.
func (v *Vault) AdjustSaturation(ctx context.Context, h Handle, value int) error {
	return v.mutate(ctx, h, "adjust_saturation", func(b *pixel.Buffer) (*pixel.Buffer, error) {
		return imaging.Saturation(b, value), nil
	})
}

// AdjustHue rotates the hue by value degrees. Luma entries are left as they
// are but still count as used.
func (v *Vault) AdjustHue(ctx context.Context, h Handle, value int) error {
	return v.mutate(ctx, h, "adjust_hue", func(b *pixel.Buffer) (*pixel.Buffer, error) {
		return imaging.Hue(b, value), nil
	})
}

// AdjustAll applies brightness, contrast, saturation and hue in that order,
// skipping zero values, as a single installed step.
func (v *Vault) AdjustAll(ctx context.Context, h Handle, a imaging.Adjustments) error {
	return v.mutate(ctx, h, "adjust_all", func(b *pixel.Buffer) (*pixel.Buffer, error) {
		return imaging.AdjustAll(b, a), nil
	})
}
