package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/color-picker-mcp/internal/dominant"
	"github.com/ironsheep/color-picker-mcp/internal/palette"
)

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// RGBAColor represents an RGBA color with 8-bit, non-premultiplied components.
type RGBAColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
	A uint8 `json:"a"` // Alpha/opacity component (0-255)
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-359 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// PaletteMatch is the reference color closest to a sampled color.
type PaletteMatch struct {
	Name     string `json:"name"`     // Color name from the reference table
	Label    string `json:"label"`    // Display token from the reference table
	Hex      string `json:"hex"`      // Hex token of the reference entry
	Distance int    `json:"distance"` // L1 distance between sample and entry (0-765)
}

// ColorResult contains a color value in multiple representations.
//
// Match is present only when a palette index was supplied.
type ColorResult struct {
	Hex   string        `json:"hex"`             // Hex format "#RRGGBB" (no alpha)
	RGB   RGBColor      `json:"rgb"`             // RGB components
	RGBA  RGBAColor     `json:"rgba"`            // RGBA components with alpha
	HSL   HSLColor      `json:"hsl"`             // HSL representation
	Match *PaletteMatch `json:"match,omitempty"` // Nearest named color
}

// DescribeColor builds a ColorResult for an 8-bit color.
//
// When idx is non-nil the nearest reference color is attached as Match.
// Channels are widened to int before the palette lookup.
func DescribeColor(c color.NRGBA, idx *palette.Index) ColorResult {
	res := ColorResult{
		Hex:  fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B),
		RGB:  RGBColor{R: c.R, G: c.G, B: c.B},
		RGBA: RGBAColor{R: c.R, G: c.G, B: c.B, A: c.A},
		HSL:  toHSL(c.R, c.G, c.B),
	}
	if idx != nil {
		e, d := idx.NearestEntry(int(c.R), int(c.G), int(c.B))
		res.Match = &PaletteMatch{Name: e.Name, Label: e.Label, Hex: e.Hex, Distance: d}
	}
	return res
}

// SampleColor extracts the color at a pixel coordinate and names it.
//
// Parameters:
//   - img: The source image to sample from.
//   - idx: Palette used to name the color. May be nil to skip naming.
//   - x: X coordinate (0-based, 0 = leftmost pixel).
//   - y: Y coordinate (0-based, 0 = topmost pixel).
//
// Returns:
//   - *ColorResult: The color at (x, y) in multiple formats plus its name.
//   - error: Non-nil if coordinates are outside the image bounds.
//
// # Coordinate System
//
// Coordinates are 0-based with origin at top-left and must already be
// translated from any viewport into full-image space (see ViewToImage).
// The palette is never consulted for an out-of-bounds point.
//
// # Color Conversion
//
// The native color is converted to non-premultiplied 8-bit NRGBA. The Hex,
// RGB, HSL and Match fields ignore alpha; use RGBA.A for transparency.
func SampleColor(img image.Image, idx *palette.Index, x, y int) (*ColorResult, error) {
	bounds := img.Bounds()
	if !(image.Point{X: x, Y: y}).In(bounds) {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds", x, y)
	}

	c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
	res := DescribeColor(c, idx)
	return &res, nil
}

// LabeledPoint represents a pixel coordinate with an optional descriptive label.
type LabeledPoint struct {
	X     int    // X coordinate (0-based)
	Y     int    // Y coordinate (0-based)
	Label string // Optional descriptive label for this point
}

// LabeledColorResult combines a color sample with its location and optional label.
type LabeledColorResult struct {
	Label string      `json:"label,omitempty"` // Optional label (empty if not provided)
	X     int         `json:"x"`               // X coordinate that was sampled
	Y     int         `json:"y"`               // Y coordinate that was sampled
	Color ColorResult `json:"color"`           // The color at this location
}

// MultiColorResult contains color samples from multiple points, in input order.
type MultiColorResult struct {
	Samples []LabeledColorResult `json:"samples"`
}

// SampleColorsMulti samples and names colors at several points.
//
// Any out-of-bounds point fails the whole call; no partial results are
// returned.
func SampleColorsMulti(img image.Image, idx *palette.Index, points []LabeledPoint) (*MultiColorResult, error) {
	results := make([]LabeledColorResult, 0, len(points))

	for _, p := range points {
		c, err := SampleColor(img, idx, p.X, p.Y)
		if err != nil {
			return nil, fmt.Errorf("failed to sample point (%d,%d): %w", p.X, p.Y, err)
		}
		results = append(results, LabeledColorResult{
			Label: p.Label,
			X:     p.X,
			Y:     p.Y,
			Color: *c,
		})
	}

	return &MultiColorResult{Samples: results}, nil
}

// Region represents a rectangular region within an image.
//
//   - (X1, Y1) is the top-left corner (inclusive)
//   - (X2, Y2) is the bottom-right corner (exclusive)
type Region struct {
	X1 int `json:"x1"` // Left edge X coordinate (inclusive)
	Y1 int `json:"y1"` // Top edge Y coordinate (inclusive)
	X2 int `json:"x2"` // Right edge X coordinate (exclusive)
	Y2 int `json:"y2"` // Bottom edge Y coordinate (exclusive)
}

// Rect converts the region to an image.Rectangle.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X1, r.Y1, r.X2, r.Y2)
}

// within returns the region as a rectangle, failing when it is empty,
// inverted, or not fully inside bounds.
func (r Region) within(bounds image.Rectangle) (image.Rectangle, error) {
	rect := r.Rect()
	if r.X1 >= r.X2 || r.Y1 >= r.Y2 || !rect.In(bounds) {
		return image.Rectangle{}, fmt.Errorf("region (%d,%d)-(%d,%d) is empty or outside image bounds %v",
			r.X1, r.Y1, r.X2, r.Y2, bounds)
	}
	return rect, nil
}

// ColorFrequency is one dominant color and how much of the image it represents.
type ColorFrequency struct {
	ColorResult
	Pixels     int     `json:"pixels"`     // Sampled pixels assigned to this color
	Percentage float64 `json:"percentage"` // Share of sampled pixels (0-100)
}

// DominantColorsResult contains the dominant colors of an image.
//
// Colors are sorted by prominence in descending order (most common first).
type DominantColorsResult struct {
	Colors        []ColorFrequency `json:"colors"`
	SampledPixels int              `json:"sampled_pixels"` // Pixels fed to clustering after downsampling
	Width         int              `json:"width"`          // Width of the analyzed area after downsampling
	Height        int              `json:"height"`         // Height of the analyzed area after downsampling
}

// DominantOptions controls DominantColors.
type DominantOptions struct {
	// Count is the number of clusters requested.
	Count int

	// Region restricts analysis to part of the image. nil means the whole image.
	Region *Region

	// MaxDimension downsamples the analyzed area so neither side exceeds it.
	// Zero or negative disables downsampling.
	MaxDimension int
}

// DominantColors extracts the most prominent colors of an image by k-means
// clustering.
//
// The image (or region) is downsampled to opts.MaxDimension, flattened to RGB
// pixels with alpha discarded, and clustered by ex. Clusters come back from
// the extractor least-prominent first; the result reverses them so the most
// prominent color leads. Each color is named with idx when idx is non-nil.
//
// # Errors
//
//   - The region is empty or not inside the image bounds
//   - opts.Count <= 0 (reported by the extractor as *dominant.InvalidArgumentError)
func DominantColors(img image.Image, ex *dominant.Extractor, idx *palette.Index, opts DominantOptions) (*DominantColorsResult, error) {
	src := img
	if opts.Region != nil {
		rect, err := opts.Region.within(img.Bounds())
		if err != nil {
			return nil, err
		}
		src = cropRect(img, rect)
	}

	src = Downsample(src, opts.MaxDimension)
	pixels := Pixels(src)

	clusters, err := ex.Extract(pixels, opts.Count)
	if err != nil {
		return nil, err
	}

	colors := make([]ColorFrequency, 0, len(clusters))
	for _, cl := range dominant.Reverse(clusters) {
		c := color.NRGBA{R: cl.Color.R, G: cl.Color.G, B: cl.Color.B, A: 255}
		colors = append(colors, ColorFrequency{
			ColorResult: DescribeColor(c, idx),
			Pixels:      cl.Count,
			Percentage:  math.Round(float64(cl.Count)/float64(len(pixels))*10000) / 100,
		})
	}

	return &DominantColorsResult{
		Colors:        colors,
		SampledPixels: len(pixels),
		Width:         src.Bounds().Dx(),
		Height:        src.Bounds().Dy(),
	}, nil
}

// toHSL converts 8-bit RGB to rounded HSL.
func toHSL(r, g, b uint8) HSLColor {
	c := colorful.Color{R: float64(r) / 255.0, G: float64(g) / 255.0, B: float64(b) / 255.0}
	h, s, l := c.Hsl()

	hue := int(math.Round(h)) % 360
	return HSLColor{
		H: hue,
		S: int(math.Round(s * 100)),
		L: int(math.Round(l * 100)),
	}
}
