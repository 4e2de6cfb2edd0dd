package vault

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/jmgilman/go/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/image-vault-mcp/internal/imaging"
)

// opaquePNG encodes a fully opaque w x h image, which decodes as RGB.
func opaquePNG(t *testing.T, w, h int, c color.NRGBA) []byte {
	t.Helper()
	c.A = 255
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func grayPNG(t *testing.T, w, h int, y uint8) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = y
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newTestVault(t *testing.T, opts ...Option) *Vault {
	t.Helper()
	v := New(opts...)
	t.Cleanup(v.Close)
	return v
}

func mustLoad(t *testing.T, v *Vault, data []byte) Handle {
	t.Helper()
	h, err := v.Load(context.Background(), data)
	require.NoError(t, err)
	return h
}

func requireInvariants(t *testing.T, v *Vault) {
	t.Helper()
	require.NoError(t, v.checkInvariants())
	s := v.Stats()
	if s.TotalMemoryBytes > s.BudgetBytes {
		require.Equal(t, 1, s.ImageCount, "over budget with more than one entry")
	}
}

func TestLoad(t *testing.T) {
	v := newTestVault(t)
	h := mustLoad(t, v, opaquePNG(t, 100, 50, color.NRGBA{R: 200}))

	assert.Equal(t, Handle(1), h, "first handle")
	d, err := v.Dimensions(h)
	require.NoError(t, err)
	assert.Equal(t, Dimensions{Width: 100, Height: 50, Encoding: "rgb8"}, d)

	s := v.Stats()
	assert.Equal(t, 1, s.ImageCount)
	assert.Equal(t, int64(15000), s.TotalMemoryBytes)
	assert.Equal(t, int64(15000), s.AverageMemoryPerImage)
	assert.Equal(t, DefaultBudget, s.BudgetBytes)
	requireInvariants(t, v)
}

func TestLoad_DecodeError(t *testing.T) {
	v := newTestVault(t)
	_, err := v.Load(context.Background(), []byte("not an image"))
	require.Error(t, err)
	assert.True(t, IsDecodeError(err))

	_, err = v.Load(context.Background(), nil)
	assert.True(t, IsDecodeError(err))

	assert.Equal(t, 0, v.Stats().ImageCount)
	requireInvariants(t, v)
}

func TestLoadPath(t *testing.T) {
	v := newTestVault(t)
	path := filepath.Join(t.TempDir(), "in.png")
	require.NoError(t, os.WriteFile(path, grayPNG(t, 8, 4, 90), 0o600))

	h, err := v.LoadPath(context.Background(), path)
	require.NoError(t, err)
	d, err := v.Dimensions(h)
	require.NoError(t, err)
	assert.Equal(t, Dimensions{Width: 8, Height: 4, Encoding: "luma8"}, d)

	_, err = v.LoadPath(context.Background(), filepath.Join(t.TempDir(), "missing.png"))
	assert.True(t, IsDecodeError(err))
}

func TestHandles_NeverReused(t *testing.T) {
	v := newTestVault(t)
	data := opaquePNG(t, 4, 4, color.NRGBA{G: 1})

	a := mustLoad(t, v, data)
	b := mustLoad(t, v, data)
	require.NoError(t, v.Dispose(a))
	c := mustLoad(t, v, data)
	v.Clear()
	d := mustLoad(t, v, data)
	require.NoError(t, v.Reconfigure(DefaultBudget))
	e := mustLoad(t, v, data)

	assert.Equal(t, []Handle{1, 2, 3, 4, 5}, []Handle{a, b, c, d, e})
}

func TestHandles_ExhaustedCounterDoesNotWrap(t *testing.T) {
	v := newTestVault(t)
	data := opaquePNG(t, 4, 4, color.NRGBA{G: 1})

	v.nextID.Store(math.MaxUint32 - 1)
	last := mustLoad(t, v, data)
	assert.Equal(t, Handle(math.MaxUint32), last)

	_, err := v.Load(context.Background(), data)
	require.Error(t, err)
	assert.Equal(t, errors.CodeUnavailable, errors.GetCode(err))
	assert.False(t, v.Contains(0), "handle 0 must never be issued")
	assert.Equal(t, 1, v.Stats().ImageCount)
	requireInvariants(t, v)
}

func TestClose_EntriesStayInspectable(t *testing.T) {
	v := New()
	h := mustLoad(t, v, opaquePNG(t, 6, 4, color.NRGBA{R: 9}))
	v.Close()

	d, err := v.Dimensions(h)
	require.NoError(t, err)
	assert.Equal(t, 6, d.Width)
	assert.Equal(t, 1, v.Stats().ImageCount)

	_, err = v.Bytes(context.Background(), h, imaging.PNG)
	assert.Equal(t, errors.CodeUnavailable, errors.GetCode(err))
	err = v.Grayscale(context.Background(), h)
	assert.Equal(t, errors.CodeUnavailable, errors.GetCode(err))

	require.NoError(t, v.Dispose(h))
	requireInvariants(t, v)
}

func TestEviction_OneAndAHalfBudget(t *testing.T) {
	// Budget is 1.5 RGBA footprints; opaque images decode as RGB (15000 each).
	budget := int64(100*50*4) * 3 / 2
	v := newTestVault(t, WithBudget(budget))
	data := opaquePNG(t, 100, 50, color.NRGBA{B: 255})

	first := mustLoad(t, v, data)
	second := mustLoad(t, v, data)
	assert.True(t, v.Contains(first), "first should survive the second load")
	assert.True(t, v.Contains(second))

	third := mustLoad(t, v, data)
	assert.False(t, v.Contains(first), "first should be evicted by the third load")
	assert.True(t, v.Contains(second))
	assert.True(t, v.Contains(third))
	requireInvariants(t, v)
}

func TestEviction_LeastRecentlyUsed(t *testing.T) {
	// 10x10 RGB = 300 bytes; room for exactly three.
	v := newTestVault(t, WithBudget(900))
	data := opaquePNG(t, 10, 10, color.NRGBA{R: 9})
	ctx := context.Background()

	a := mustLoad(t, v, data)
	b := mustLoad(t, v, data)
	c := mustLoad(t, v, data)
	require.NoError(t, v.FlipHorizontal(ctx, a))

	d := mustLoad(t, v, data)
	assert.False(t, v.Contains(b), "B is least recently used")
	for _, h := range []Handle{a, c, d} {
		assert.True(t, v.Contains(h), "handle %d should remain", h)
	}
	requireInvariants(t, v)
}

func TestEviction_ReadsDoNotTouch(t *testing.T) {
	v := newTestVault(t, WithBudget(600))
	data := opaquePNG(t, 10, 10, color.NRGBA{R: 9})
	ctx := context.Background()

	a := mustLoad(t, v, data)
	b := mustLoad(t, v, data)

	_, err := v.Bytes(ctx, b, imaging.PNG)
	require.NoError(t, err)
	_, err = v.Bytes(ctx, a, imaging.PNG)
	require.NoError(t, err)
	_, err = v.Dimensions(a)
	require.NoError(t, err)
	_ = v.Stats()
	_ = v.Contains(a)

	mustLoad(t, v, data)
	assert.False(t, v.Contains(a), "reads must not protect A from eviction")
	assert.True(t, v.Contains(b))
}

func TestEviction_OversizedSingleEntryKept(t *testing.T) {
	v := newTestVault(t, WithBudget(100))
	data := opaquePNG(t, 10, 10, color.NRGBA{})

	a := mustLoad(t, v, data)
	assert.True(t, v.Contains(a), "a lone oversized entry is kept")

	b := mustLoad(t, v, data)
	assert.False(t, v.Contains(a))
	assert.True(t, v.Contains(b), "the newest entry is never evicted against itself")
	requireInvariants(t, v)
}

func TestEviction_AfterFootprintGrowth(t *testing.T) {
	// Two luma 10x10 entries (100 bytes each) fit in 250; sepia promotes one to
	// RGB (300 bytes), which forces the other out.
	v := newTestVault(t, WithBudget(250))
	data := grayPNG(t, 10, 10, 40)
	ctx := context.Background()

	a := mustLoad(t, v, data)
	b := mustLoad(t, v, data)
	require.NoError(t, v.Sepia(ctx, a))

	assert.True(t, v.Contains(a))
	assert.False(t, v.Contains(b))
	assert.Equal(t, int64(300), v.Stats().TotalMemoryBytes)
	requireInvariants(t, v)
}

func TestDispose(t *testing.T) {
	v := newTestVault(t)
	h := mustLoad(t, v, opaquePNG(t, 5, 5, color.NRGBA{}))

	require.NoError(t, v.Dispose(h))
	assert.Equal(t, int64(0), v.Stats().TotalMemoryBytes)

	err := v.Dispose(h)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	err = v.Dispose(12345)
	assert.True(t, IsNotFound(err))
	requireInvariants(t, v)
}

func TestDispose_EvictedHandle(t *testing.T) {
	v := newTestVault(t, WithBudget(300))
	data := opaquePNG(t, 10, 10, color.NRGBA{})

	evicted := mustLoad(t, v, data)
	live := mustLoad(t, v, data)
	require.False(t, v.Contains(evicted))

	assert.True(t, IsNotFound(v.Dispose(evicted)))
	assert.Equal(t, 1, v.DisposeMany([]Handle{evicted, live, 999}))
	assert.Equal(t, 0, v.Stats().ImageCount)
	requireInvariants(t, v)
}

func TestClearAndReconfigure(t *testing.T) {
	v := newTestVault(t)
	data := opaquePNG(t, 10, 10, color.NRGBA{})
	mustLoad(t, v, data)
	mustLoad(t, v, data)

	v.Clear()
	assert.Equal(t, Stats{BudgetBytes: DefaultBudget}, v.Stats())

	mustLoad(t, v, data)
	require.NoError(t, v.Reconfigure(1<<20))
	assert.Equal(t, Stats{BudgetBytes: 1 << 20}, v.Stats())
	assert.Equal(t, int64(1<<20), v.Budget())

	err := v.Reconfigure(0)
	assert.True(t, IsInvalidParameter(err))
	assert.Equal(t, int64(1<<20), v.Budget())
	requireInvariants(t, v)
}

func TestStats_Average(t *testing.T) {
	v := newTestVault(t)
	assert.Equal(t, int64(0), v.Stats().AverageMemoryPerImage)

	mustLoad(t, v, opaquePNG(t, 10, 10, color.NRGBA{}))
	mustLoad(t, v, grayPNG(t, 10, 10, 1))
	s := v.Stats()
	assert.Equal(t, 2, s.ImageCount)
	assert.Equal(t, int64(400), s.TotalMemoryBytes)
	assert.Equal(t, int64(200), s.AverageMemoryPerImage)
}

func TestBytes_RoundTripEveryFormat(t *testing.T) {
	v := newTestVault(t)
	ctx := context.Background()
	h := mustLoad(t, v, opaquePNG(t, 31, 17, color.NRGBA{R: 10, G: 120, B: 240}))

	for _, f := range []imaging.Format{imaging.PNG, imaging.JPEG, imaging.WebP, imaging.GIF, imaging.BMP, imaging.TIFF} {
		t.Run(f.String(), func(t *testing.T) {
			data, err := v.Bytes(ctx, h, f)
			require.NoError(t, err)

			back := mustLoad(t, v, data)
			d, err := v.Dimensions(back)
			require.NoError(t, err)
			assert.Equal(t, 31, d.Width)
			assert.Equal(t, 17, d.Height)
		})
	}

	_, err := v.Bytes(ctx, 999, imaging.PNG)
	assert.True(t, IsNotFound(err))
	_, err = v.Bytes(ctx, h, imaging.Format(77))
	assert.True(t, IsEncodeError(err))
}

func TestTransforms_Dimensions(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name         string
		apply        func(v *Vault, h Handle) error
		wantW, wantH int
		wantEnc      string
	}{
		{"resize", func(v *Vault, h Handle) error {
			return v.Resize(ctx, h, 40, 30, imaging.Lanczos3)
		}, 40, 30, "rgb8"},
		{"resize to fit", func(v *Vault, h Handle) error {
			return v.ResizeToFit(ctx, h, 50, 50, imaging.Bilinear)
		}, 50, 25, "rgb8"},
		{"resize to fill", func(v *Vault, h Handle) error {
			return v.ResizeToFill(ctx, h, 50, 50, imaging.CatmullRom)
		}, 50, 50, "rgb8"},
		{"crop", func(v *Vault, h Handle) error {
			return v.Crop(ctx, h, imaging.CropParams{X: 10, Y: 10, Width: 30, Height: 20})
		}, 30, 20, "rgb8"},
		{"crop clamped", func(v *Vault, h Handle) error {
			return v.Crop(ctx, h, imaging.CropParams{X: 190, Y: 90, Width: 30, Height: 30})
		}, 10, 10, "rgb8"},
		{"rotate", func(v *Vault, h Handle) error { return v.Rotate(ctx, h, -90) }, 100, 200, "rgb8"},
		{"rotate pass-through", func(v *Vault, h Handle) error { return v.Rotate(ctx, h, 45) }, 200, 100, "rgb8"},
		{"flip", func(v *Vault, h Handle) error { return v.FlipVertical(ctx, h) }, 200, 100, "rgb8"},
		{"grayscale", func(v *Vault, h Handle) error { return v.Grayscale(ctx, h) }, 200, 100, "luma8"},
		{"edge detect", func(v *Vault, h Handle) error { return v.EdgeDetect(ctx, h) }, 200, 100, "luma8"},
		{"emboss", func(v *Vault, h Handle) error { return v.Emboss(ctx, h) }, 200, 100, "luma8"},
		{"apply filter", func(v *Vault, h Handle) error {
			return v.ApplyFilter(ctx, h, imaging.FilterSharpen)
		}, 200, 100, "rgb8"},
		{"blur", func(v *Vault, h Handle) error { return v.Blur(ctx, h, 1.2) }, 200, 100, "rgb8"},
		{"adjust all", func(v *Vault, h Handle) error {
			return v.AdjustAll(ctx, h, imaging.Adjustments{Brightness: 10, Hue: 30})
		}, 200, 100, "rgb8"},
		{"resize and filter", func(v *Vault, h Handle) error {
			return v.ResizeAndFilter(ctx, h, 20, 10, imaging.Nearest, imaging.FilterGrayscale)
		}, 20, 10, "luma8"},
		{"crop resize adjust", func(v *Vault, h Handle) error {
			return v.CropResizeAdjust(ctx, h, imaging.CropParams{Width: 100, Height: 100}, 10, 10,
				imaging.Lanczos3, imaging.Adjustments{Contrast: 20})
		}, 10, 10, "rgb8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newTestVault(t)
			h := mustLoad(t, v, opaquePNG(t, 200, 100, color.NRGBA{R: 50, G: 100, B: 150}))

			require.NoError(t, tt.apply(v, h))
			d, err := v.Dimensions(h)
			require.NoError(t, err)
			assert.Equal(t, Dimensions{Width: tt.wantW, Height: tt.wantH, Encoding: tt.wantEnc}, d)
			requireInvariants(t, v)
		})
	}
}

func TestTransforms_MissingHandle(t *testing.T) {
	v := newTestVault(t)
	ctx := context.Background()

	errs := []error{
		v.Resize(ctx, 7, 10, 10, imaging.Lanczos3),
		v.Crop(ctx, 7, imaging.CropParams{Width: 1, Height: 1}),
		v.Rotate(ctx, 7, 90),
		v.Rotate(ctx, 7, 45),
		v.Invert(ctx, 7),
		v.AdjustHue(ctx, 7, 10),
		v.ResizeAndFilter(ctx, 7, 5, 5, imaging.Nearest, imaging.FilterBlur),
	}
	for i, err := range errs {
		assert.True(t, IsNotFound(err), "call %d: %v", i, err)
	}
}

func TestTransforms_FailureLeavesEntryUntouched(t *testing.T) {
	v := newTestVault(t, WithBudget(10_000))
	ctx := context.Background()
	data := opaquePNG(t, 20, 20, color.NRGBA{R: 1})

	a := mustLoad(t, v, data)
	b := mustLoad(t, v, data)
	before := v.entries[a]
	orderBefore := v.order.handles()

	failures := []error{
		v.Resize(ctx, a, 0, 10, imaging.Lanczos3),
		v.ResizeToFit(ctx, a, 0, 0, imaging.Lanczos3),
		v.Crop(ctx, a, imaging.CropParams{X: 50, Y: 50, Width: 5, Height: 5}),
		v.Crop(ctx, a, imaging.CropParams{X: math.MaxInt - 1, Width: 5, Height: 5}),
		v.CropResizeAdjust(ctx, a, imaging.CropParams{Width: 5, Height: 5}, 0, 0,
			imaging.Lanczos3, imaging.Adjustments{}),
		v.AddWatermark(ctx, a, b, imaging.WatermarkParams{Scale: -1}),
	}
	for i, err := range failures {
		assert.True(t, IsInvalidParameter(err), "call %d: %v", i, err)
	}

	assert.Same(t, before, v.entries[a])
	assert.Equal(t, orderBefore, v.order.handles(), "failed transforms must not touch")
	requireInvariants(t, v)
}

func TestRotate_FourTimesRestoresPixels(t *testing.T) {
	v := newTestVault(t)
	ctx := context.Background()

	img := image.NewNRGBA(image.Rect(0, 0, 7, 3))
	for i := range img.Pix {
		img.Pix[i] = uint8(i * 13)
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	h := mustLoad(t, v, buf.Bytes())

	orig := v.entries[h].Clone()
	for i := 0; i < 4; i++ {
		require.NoError(t, v.Rotate(ctx, h, 90))
	}
	got := v.entries[h]
	assert.Equal(t, orig.Encoding, got.Encoding)
	assert.Equal(t, orig.Width, got.Width)
	assert.Equal(t, orig.Height, got.Height)
	assert.Equal(t, orig.Pix, got.Pix)
}

func TestRotate_PassThroughTouches(t *testing.T) {
	v := newTestVault(t, WithBudget(600))
	data := opaquePNG(t, 10, 10, color.NRGBA{})
	ctx := context.Background()

	a := mustLoad(t, v, data)
	b := mustLoad(t, v, data)
	require.NoError(t, v.Rotate(ctx, a, 45))

	mustLoad(t, v, data)
	assert.True(t, v.Contains(a))
	assert.False(t, v.Contains(b))
}

func TestAdjustSaturation_GrayUnchanged(t *testing.T) {
	v := newTestVault(t)
	ctx := context.Background()
	h := mustLoad(t, v, opaquePNG(t, 6, 6, color.NRGBA{R: 128, G: 128, B: 128}))
	before := v.entries[h].Clone()

	for _, value := range []int{-100, -30, 45, 100} {
		require.NoError(t, v.AdjustSaturation(ctx, h, value))
	}
	assert.Equal(t, before.Pix, v.entries[h].Pix)
}

func TestGrayscale_ShrinksFootprint(t *testing.T) {
	v := newTestVault(t)
	h := mustLoad(t, v, opaquePNG(t, 10, 10, color.NRGBA{R: 255}))
	require.NoError(t, v.Grayscale(context.Background(), h))
	assert.Equal(t, int64(100), v.Stats().TotalMemoryBytes)
}

func TestComposite(t *testing.T) {
	ctx := context.Background()

	t.Run("overlay", func(t *testing.T) {
		v := newTestVault(t)
		base := mustLoad(t, v, opaquePNG(t, 20, 20, color.NRGBA{}))
		top := mustLoad(t, v, opaquePNG(t, 5, 5, color.NRGBA{R: 255}))

		require.NoError(t, v.Overlay(ctx, base, top, -2, 18, 1))
		d, err := v.Dimensions(base)
		require.NoError(t, err)
		assert.Equal(t, 20, d.Width)
		assert.Equal(t, uint8(255), v.entries[base].Pix[(19*20+0)*3])
		requireInvariants(t, v)
	})

	t.Run("overlay far outside is clipped", func(t *testing.T) {
		v := newTestVault(t)
		base := mustLoad(t, v, opaquePNG(t, 10, 10, color.NRGBA{}))
		top := mustLoad(t, v, opaquePNG(t, 4, 4, color.NRGBA{R: 255}))
		before := v.entries[base].Clone()

		require.NoError(t, v.Overlay(ctx, base, top, math.MaxInt-1, 0, 1))
		require.NoError(t, v.Overlay(ctx, base, top, 0, math.MinInt, 1))
		assert.Equal(t, before.Pix, v.entries[base].Pix)
		requireInvariants(t, v)
	})

	t.Run("watermark on luma promotes", func(t *testing.T) {
		v := newTestVault(t)
		base := mustLoad(t, v, grayPNG(t, 10, 10, 0))
		wm := mustLoad(t, v, opaquePNG(t, 2, 2, color.NRGBA{G: 255}))

		require.NoError(t, v.AddWatermark(ctx, base, wm, imaging.DefaultWatermarkParams()))
		d, err := v.Dimensions(base)
		require.NoError(t, err)
		assert.Equal(t, "rgba8", d.Encoding)
		assert.Equal(t, int64(400+12), v.Stats().TotalMemoryBytes)
		requireInvariants(t, v)
	})

	t.Run("missing source leaves base", func(t *testing.T) {
		v := newTestVault(t)
		base := mustLoad(t, v, opaquePNG(t, 4, 4, color.NRGBA{}))
		before := v.entries[base]

		err := v.Overlay(ctx, base, 404, 0, 0, 1)
		assert.True(t, IsNotFound(err))
		err = v.AddWatermark(ctx, base, 404, imaging.DefaultWatermarkParams())
		assert.True(t, IsNotFound(err))

		assert.Same(t, before, v.entries[base])
		assert.True(t, v.Contains(base))
		requireInvariants(t, v)
	})

	t.Run("missing base", func(t *testing.T) {
		v := newTestVault(t)
		src := mustLoad(t, v, opaquePNG(t, 4, 4, color.NRGBA{}))
		assert.True(t, IsNotFound(v.Overlay(ctx, 404, src, 0, 0, 1)))
	})
}

type countingOffloader struct {
	mu    sync.Mutex
	calls int
}

func (c *countingOffloader) Do(_ context.Context, fn func() error) error {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	return runTask(fn)
}

func TestOffloaderUsedForPixelWork(t *testing.T) {
	off := &countingOffloader{}
	v := New(WithOffloader(off))
	ctx := context.Background()

	h := mustLoad(t, v, opaquePNG(t, 4, 4, color.NRGBA{}))
	require.NoError(t, v.Invert(ctx, h))
	_, err := v.Bytes(ctx, h, imaging.PNG)
	require.NoError(t, err)

	assert.Equal(t, 3, off.calls)
	assert.Nil(t, v.ownedPool)
}

type panickingOffloader struct{}

func (panickingOffloader) Do(context.Context, func() error) error {
	return runTask(func() error {
		panic("corrupt kernel")
	})
}

func TestTransform_InternalFault(t *testing.T) {
	v := newTestVault(t)
	h := mustLoad(t, v, opaquePNG(t, 4, 4, color.NRGBA{}))
	before := v.entries[h]

	v.offload = panickingOffloader{}
	err := v.Invert(context.Background(), h)
	assert.True(t, IsInternal(err))
	assert.Same(t, before, v.entries[h])
}

func TestConcurrentUse(t *testing.T) {
	v := newTestVault(t, WithBudget(5000), WithWorkers(4))
	ctx := context.Background()
	data := opaquePNG(t, 16, 16, color.NRGBA{R: 80, G: 90, B: 100})

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 10; i++ {
				h, err := v.Load(ctx, data)
				if err != nil {
					t.Errorf("Load: %v", err)
					return
				}
				// The entry may already be evicted by another goroutine.
				if err := v.Grayscale(ctx, h); err != nil && !IsNotFound(err) {
					t.Errorf("Grayscale: %v", err)
				}
				if _, err := v.Bytes(ctx, h, imaging.PNG); err != nil && !IsNotFound(err) {
					t.Errorf("Bytes: %v", err)
				}
				if i%3 == 0 {
					_ = v.Dispose(h)
				}
				_ = v.Stats()
			}
		}()
	}
	wg.Wait()

	requireInvariants(t, v)
	assert.LessOrEqual(t, v.Stats().TotalMemoryBytes, int64(5000))
}

func TestDimensionsUnknown(t *testing.T) {
	v := newTestVault(t)
	_, err := v.Dimensions(1)
	assert.True(t, IsNotFound(err))
}
