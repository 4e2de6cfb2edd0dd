package vault

import (
	"context"

	"github.com/jmgilman/go/errors"

	"github.com/ironsheep/image-vault-mcp/internal/imaging"
	"github.com/ironsheep/image-vault-mcp/internal/pixel"
)

// composite resolves both the target and the source handle under the same
// exclusive lock before any state changes. If either is missing the target
// is left untouched. Only the target is marked as used.
func (v *Vault) composite(ctx context.Context, h, src Handle, op string, fn func(base, fg *pixel.Buffer) (*pixel.Buffer, error)) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	base, ok := v.entries[h]
	if !ok {
		return annotate(notFound(h), op, h)
	}
	fg, ok := v.entries[src]
	if !ok {
		return errors.WithContext(annotate(notFound(src), op, h), "source_handle", uint32(src))
	}

	return v.applyLocked(ctx, h, op, base, func(b *pixel.Buffer) (*pixel.Buffer, error) {
		return fn(b, fg)
	})
}

// AddWatermark blends the image held by wm onto h.
func (v *Vault) AddWatermark(ctx context.Context, h, wm Handle, p imaging.WatermarkParams) error {
	return v.composite(ctx, h, wm, "add_watermark", func(base, fg *pixel.Buffer) (*pixel.Buffer, error) {
		return imaging.AddWatermark(base, fg, p)
	})
}

// Overlay blends the image held by src onto h with its top-left corner at
// (x, y). Parts outside h are clipped.
func (v *Vault) Overlay(ctx context.Context, h, src Handle, x, y int, opacity float64) error {
	return v.composite(ctx, h, src, "overlay", func(base, fg *pixel.Buffer) (*pixel.Buffer, error) {
		return imaging.Overlay(base, fg, x, y, opacity), nil
	})
}
