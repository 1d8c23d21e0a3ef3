package imaging

import (
	"testing"
)

func TestSwatch(t *testing.T) {
	result, err := Swatch(RGBColor{R: 12, G: 200, B: 99}, DefaultSwatchSize)
	if err != nil {
		t.Fatalf("Swatch failed: %v", err)
	}

	if result.Width != 100 || result.Height != 100 {
		t.Errorf("dimensions: got %dx%d, want 100x100", result.Width, result.Height)
	}
	if result.Hex != "#0CC863" {
		t.Errorf("Hex: got %s, want #0CC863", result.Hex)
	}

	img := decodeResultPNG(t, result.ImageBase64)
	if img.Bounds().Dx() != 100 {
		t.Errorf("decoded width: got %d, want 100", img.Bounds().Dx())
	}
	for _, p := range [][2]int{{0, 0}, {50, 50}, {99, 99}} {
		r, g, b, a := img.At(p[0], p[1]).RGBA()
		if r>>8 != 12 || g>>8 != 200 || b>>8 != 99 || a>>8 != 255 {
			t.Errorf("pixel %v: got (%d,%d,%d,%d)", p, r>>8, g>>8, b>>8, a>>8)
		}
	}
}

func TestSwatch_InvalidSize(t *testing.T) {
	for _, size := range []int{0, -5, MaxSwatchSize + 1, 1000000} {
		if _, err := Swatch(RGBColor{}, size); err == nil {
			t.Errorf("Swatch(%d) should fail", size)
		}
	}
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		in      string
		want    RGBColor
		wantErr bool
	}{
		{"#FF8000", RGBColor{255, 128, 0}, false},
		{"#ff8000", RGBColor{255, 128, 0}, false},
		{"#F80", RGBColor{255, 136, 0}, false},
		{"FF8000", RGBColor{}, true},
		{"#GG0000", RGBColor{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHex(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseHex(%q) should fail", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseHex failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}
