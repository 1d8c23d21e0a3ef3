package imaging

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/transform"
	"github.com/disintegration/imaging"

	"github.com/ironsheep/color-picker-mcp/internal/dominant"
)

// Pixels flattens an image into RGB pixels in row-major order.
//
// Colors are taken non-premultiplied and the alpha channel is dropped, so a
// half-transparent red pixel counts as red.
func Pixels(img image.Image) []dominant.Pixel {
	nrgba := imaging.Clone(img)
	w, h := nrgba.Rect.Dx(), nrgba.Rect.Dy()

	out := make([]dominant.Pixel, 0, w*h)
	for y := 0; y < h; y++ {
		row := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+w*4]
		for x := 0; x < w*4; x += 4 {
			out = append(out, dominant.Pixel{R: row[x], G: row[x+1], B: row[x+2]})
		}
	}
	return out
}

// Downsample shrinks img so that neither side exceeds maxDim, keeping the
// aspect ratio.
//
// Images already within bounds, and any call with maxDim <= 0, return img
// unchanged. Resampling is nearest-neighbor: every output pixel is a color
// present in img.
func Downsample(img image.Image, maxDim int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxDim <= 0 || (w <= maxDim && h <= maxDim) {
		return img
	}

	scale := float64(maxDim) / float64(max(w, h))
	nw := max(int(math.Round(float64(w)*scale)), 1)
	nh := max(int(math.Round(float64(h)*scale)), 1)
	return transform.Resize(img, nw, nh, transform.NearestNeighbor)
}

// cropRect returns the part of img inside rect, re-based at (0,0).
func cropRect(img image.Image, rect image.Rectangle) *image.NRGBA {
	return imaging.Crop(img, rect)
}
