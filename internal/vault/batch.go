package vault

import (
	"context"

	"github.com/ironsheep/image-vault-mcp/internal/imaging"
	"github.com/ironsheep/image-vault-mcp/internal/pixel"
)

// ResizeAndFilter resizes the entry and then applies a named filter.
//
// Both steps run as one pipeline on the worker pool and the result is
// installed once, so a failure in either step leaves the entry as it was.
func (v *Vault) ResizeAndFilter(ctx context.Context, h Handle, width, height int, rf imaging.ResizeFilter, filter imaging.FilterType) error {
	return v.mutate(ctx, h, "batch_resize_and_filter", func(b *pixel.Buffer) (*pixel.Buffer, error) {
		resized, err := imaging.Resize(b, width, height, rf)
		if err != nil {
			return nil, err
		}
		return imaging.ApplyFilter(resized, filter)
	})
}

// CropResizeAdjust crops, resizes and then applies colour adjustments as a
// single installed step.
func (v *Vault) CropResizeAdjust(ctx context.Context, h Handle, crop imaging.CropParams, width, height int, rf imaging.ResizeFilter, adj imaging.Adjustments) error {
	return v.mutate(ctx, h, "batch_crop_resize_adjust", func(b *pixel.Buffer) (*pixel.Buffer, error) {
		cropped, err := imaging.Crop(b, crop)
		if err != nil {
			return nil, err
		}
		resized, err := imaging.Resize(cropped, width, height, rf)
		if err != nil {
			return nil, err
		}
		return imaging.AdjustAll(resized, adj), nil
	})
}
