package imaging

import (
	"fmt"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
)

// Swatch edge lengths in pixels.
const (
	DefaultSwatchSize = 100
	MaxSwatchSize     = 4096
)

// SwatchResult is a solid square of one color, ready for display.
type SwatchResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Hex         string `json:"hex"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// Swatch renders a size×size opaque square of c as PNG.
func Swatch(c RGBColor, size int) (*SwatchResult, error) {
	if size <= 0 || size > MaxSwatchSize {
		return nil, fmt.Errorf("invalid swatch size %d (must be 1-%d)", size, MaxSwatchSize)
	}

	img := imaging.New(size, size, color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255})
	encoded, err := encodePNG(img)
	if err != nil {
		return nil, err
	}

	return &SwatchResult{
		Width:       size,
		Height:      size,
		Hex:         fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B),
		ImageBase64: encoded,
		MimeType:    "image/png",
	}, nil
}

// ParseHex parses "#RRGGBB" or "#RGB" into an RGBColor.
func ParseHex(s string) (RGBColor, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return RGBColor{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return RGBColor{R: r, G: g, B: b}, nil
}
