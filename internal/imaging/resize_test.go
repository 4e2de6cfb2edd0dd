package imaging

import (
	"testing"

	"github.com/jmgilman/go/errors"

	"github.com/ironsheep/image-vault-mcp/internal/pixel"
)

func TestParseResizeFilter(t *testing.T) {
	tests := []struct {
		in      string
		want    ResizeFilter
		wantErr bool
	}{
		{"", Lanczos3, false},
		{"lanczos3", Lanczos3, false},
		{"Nearest", Nearest, false},
		{"bilinear", Bilinear, false},
		{"catmull-rom", CatmullRom, false},
		{"bicubic-ish", Lanczos3, true},
	}

	for _, tt := range tests {
		got, err := ParseResizeFilter(tt.in)
		if tt.wantErr {
			assertCode(t, err, errors.CodeInvalidInput)
			continue
		}
		if err != nil {
			t.Errorf("ParseResizeFilter(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseResizeFilter(%q): got %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestResize(t *testing.T) {
	filters := []ResizeFilter{Nearest, Bilinear, CatmullRom, Lanczos3}
	encodings := []pixel.Encoding{pixel.Luma, pixel.RGB, pixel.RGBA}

	for _, f := range filters {
		for _, enc := range encodings {
			t.Run(f.String()+"/"+enc.String(), func(t *testing.T) {
				src := gradient(enc, 40, 20)
				got, err := Resize(src, 17, 9, f)
				if err != nil {
					t.Fatalf("Resize: %v", err)
				}
				if got.Width != 17 || got.Height != 9 {
					t.Errorf("size: got %dx%d, want 17x9", got.Width, got.Height)
				}
				if got.Encoding != enc {
					t.Errorf("encoding: got %s, want %s", got.Encoding, enc)
				}
				if err := got.Validate(); err != nil {
					t.Errorf("Validate: %v", err)
				}
			})
		}
	}
}

func TestResize_UniformColorPreserved(t *testing.T) {
	src := filled(pixel.RGB, 30, 30, 120, 60, 200)
	got, err := Resize(src, 10, 10, Nearest)
	if err != nil {
		t.Fatalf("Resize: %v", err)
	}
	p := at(got, 5, 5)
	if p[0] != 120 || p[1] != 60 || p[2] != 200 {
		t.Errorf("pixel: got %v, want [120 60 200]", p)
	}
}

func TestResize_Invalid(t *testing.T) {
	src := gradient(pixel.RGB, 10, 10)
	for _, dims := range [][2]int{{0, 5}, {5, 0}, {-1, 5}} {
		_, err := Resize(src, dims[0], dims[1], Lanczos3)
		assertCode(t, err, errors.CodeInvalidInput)
	}
}

func TestFitDimensions(t *testing.T) {
	tests := []struct {
		name               string
		srcW, srcH         int
		maxW, maxH         int
		wantW, wantH       int
	}{
		{"landscape", 200, 100, 50, 50, 50, 25},
		{"portrait", 100, 200, 50, 50, 25, 50},
		{"no upscale", 10, 10, 100, 100, 10, 10},
		{"exact", 64, 32, 64, 32, 64, 32},
		{"thin axis kept", 1000, 1, 10, 10, 10, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h, err := FitDimensions(tt.srcW, tt.srcH, tt.maxW, tt.maxH)
			if err != nil {
				t.Fatalf("FitDimensions: %v", err)
			}
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("got %dx%d, want %dx%d", w, h, tt.wantW, tt.wantH)
			}
			if w > tt.maxW || h > tt.maxH {
				t.Errorf("%dx%d exceeds bound %dx%d", w, h, tt.maxW, tt.maxH)
			}
		})
	}

	_, _, err := FitDimensions(10, 10, 0, 10)
	assertCode(t, err, errors.CodeInvalidInput)
}

func TestFillDimensions(t *testing.T) {
	sw, sh, origin, err := FillDimensions(200, 100, 50, 50)
	if err != nil {
		t.Fatalf("FillDimensions: %v", err)
	}
	if sw != 100 || sh != 50 {
		t.Errorf("scaled: got %dx%d, want 100x50", sw, sh)
	}
	if origin.X != 25 || origin.Y != 0 || origin.Width != 50 || origin.Height != 50 {
		t.Errorf("crop: got %+v, want {25 0 50 50}", origin)
	}

	_, _, _, err = FillDimensions(10, 10, 5, 0)
	assertCode(t, err, errors.CodeInvalidInput)
}

func TestResizeToFitAndFill(t *testing.T) {
	src := gradient(pixel.RGB, 200, 100)

	fit, err := ResizeToFit(src, 50, 50, Lanczos3)
	if err != nil {
		t.Fatalf("ResizeToFit: %v", err)
	}
	if fit.Width != 50 || fit.Height != 25 {
		t.Errorf("ResizeToFit: got %dx%d, want 50x25", fit.Width, fit.Height)
	}

	fill, err := ResizeToFill(src, 50, 50, Lanczos3)
	if err != nil {
		t.Fatalf("ResizeToFill: %v", err)
	}
	if fill.Width != 50 || fill.Height != 50 {
		t.Errorf("ResizeToFill: got %dx%d, want 50x50", fill.Width, fill.Height)
	}

	// Odd ratios must still produce the exact target.
	odd, err := ResizeToFill(gradient(pixel.RGB, 33, 17), 10, 7, Bilinear)
	if err != nil {
		t.Fatalf("ResizeToFill odd: %v", err)
	}
	if odd.Width != 10 || odd.Height != 7 {
		t.Errorf("ResizeToFill odd: got %dx%d, want 10x7", odd.Width, odd.Height)
	}
}
