package imaging

import (
	"image"
	"image/color"
	"math"

	"github.com/ironsheep/color-picker-mcp/internal/palette"
)

// Size is a width/height pair.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// AverageColorResult is the mean color of a region and its nearest name.
type AverageColorResult struct {
	ColorResult
	Region Region `json:"region"`
	Pixels int    `json:"pixels"` // Pixels averaged
}

// AverageColor returns the per-channel mean of the pixels inside region,
// alpha discarded, rounded to 8 bits and named with idx when idx is non-nil.
func AverageColor(img image.Image, idx *palette.Index, region Region) (*AverageColorResult, error) {
	rect, err := region.within(img.Bounds())
	if err != nil {
		return nil, err
	}

	pixels := Pixels(cropRect(img, rect))
	var sr, sg, sb int
	for _, p := range pixels {
		sr += int(p.R)
		sg += int(p.G)
		sb += int(p.B)
	}
	n := float64(len(pixels))
	mean := color.NRGBA{
		R: uint8(math.Round(float64(sr) / n)),
		G: uint8(math.Round(float64(sg) / n)),
		B: uint8(math.Round(float64(sb) / n)),
		A: 255,
	}

	return &AverageColorResult{
		ColorResult: DescribeColor(mean, idx),
		Region:      region,
		Pixels:      len(pixels),
	}, nil
}

// CompareRegionsResult compares two regions pixel by pixel and by their
// average colors.
type CompareRegionsResult struct {
	SimilarityScore  float64            `json:"similarity_score"`   // Share of compared pixels within the threshold (0-1)
	PixelsDifferent  int                `json:"pixels_different"`   // Pixels whose mean channel difference exceeds 10
	TotalPixels      int                `json:"total_pixels"`       // Pixels compared (overlap of both sizes)
	SameSize         bool               `json:"same_size"`          // Whether both regions have identical dimensions
	Region1Size      Size               `json:"region1_size"`       // Dimensions of the first region
	Region2Size      Size               `json:"region2_size"`       // Dimensions of the second region
	AverageColorDiff float64            `json:"average_color_diff"` // Mean per-channel difference over compared pixels
	Average1         AverageColorResult `json:"average1"`           // Average color of the first region
	Average2         AverageColorResult `json:"average2"`           // Average color of the second region
	AverageDistance  int                `json:"average_distance"`   // L1 distance between the two averages (0-765)
	SameName         bool               `json:"same_name"`          // Both averages map to the same reference color
}

// CompareRegions compares two regions of an image.
//
// Pixels are compared over the top-left overlap of the two sizes. A pixel
// counts as different when its mean channel difference exceeds 10. The
// regions' average colors are named with idx; SameName is only meaningful
// when idx is non-nil.
func CompareRegions(img image.Image, idx *palette.Index, r1, r2 Region) (*CompareRegionsResult, error) {
	avg1, err := AverageColor(img, idx, r1)
	if err != nil {
		return nil, err
	}
	avg2, err := AverageColor(img, idx, r2)
	if err != nil {
		return nil, err
	}

	w1, h1 := r1.X2-r1.X1, r1.Y2-r1.Y1
	w2, h2 := r2.X2-r2.X1, r2.Y2-r2.Y1
	minW, minH := min(w1, w2), min(h1, h2)

	a := cropRect(img, r1.Rect())
	b := cropRect(img, r2.Rect())

	totalPixels := minW * minH
	pixelsDifferent := 0
	var totalColorDiff float64

	for dy := 0; dy < minH; dy++ {
		for dx := 0; dx < minW; dx++ {
			c1 := a.NRGBAAt(dx, dy)
			c2 := b.NRGBAAt(dx, dy)

			diff := float64(absDiff(c1.R, c2.R)+absDiff(c1.G, c2.G)+absDiff(c1.B, c2.B)) / 3.0
			totalColorDiff += diff

			// Count as different if difference exceeds threshold
			if diff > 10 {
				pixelsDifferent++
			}
		}
	}

	similarity := 1.0 - float64(pixelsDifferent)/float64(totalPixels)
	avgColorDiff := totalColorDiff / float64(totalPixels)

	res := &CompareRegionsResult{
		SimilarityScore:  math.Round(similarity*1000) / 1000,
		PixelsDifferent:  pixelsDifferent,
		TotalPixels:      totalPixels,
		SameSize:         w1 == w2 && h1 == h2,
		Region1Size:      Size{Width: w1, Height: h1},
		Region2Size:      Size{Width: w2, Height: h2},
		AverageColorDiff: math.Round(avgColorDiff*100) / 100,
		Average1:         *avg1,
		Average2:         *avg2,
		AverageDistance: absDiff(avg1.RGB.R, avg2.RGB.R) +
			absDiff(avg1.RGB.G, avg2.RGB.G) +
			absDiff(avg1.RGB.B, avg2.RGB.B),
	}
	if avg1.Match != nil && avg2.Match != nil {
		res.SameName = avg1.Match.Name == avg2.Match.Name
	}
	return res, nil
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
