package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Default viewport size, in image pixels.
const (
	DefaultViewportWidth  = 600
	DefaultViewportHeight = 400

	// MaxViewportPixels bounds the area of a scaled viewport picture.
	MaxViewportPixels = 4096 * 4096
)

// ViewportResult is a panned (and optionally zoomed) window onto an image.
//
// StartX/StartY are the offsets actually used after clamping; a point
// clicked inside the returned picture maps back to the full image with
// ViewToImage(x, y, StartX, StartY, Scale).
type ViewportResult struct {
	StartX      int     `json:"start_x"`      // Left edge of the window in the full image
	StartY      int     `json:"start_y"`      // Top edge of the window in the full image
	Width       int     `json:"width"`        // Output width in pixels (after scaling)
	Height      int     `json:"height"`       // Output height in pixels (after scaling)
	Scale       float64 `json:"scale"`        // Zoom factor applied to the window
	MaxStartX   int     `json:"max_start_x"`  // Largest useful StartX for this image
	MaxStartY   int     `json:"max_start_y"`  // Largest useful StartY for this image
	ImageBase64 string  `json:"image_base64"` // PNG of the window
	MimeType    string  `json:"mime_type"`
}

// Viewport crops a width×height window starting at (startX, startY).
//
// The window shrinks to the image if the image is smaller, and the start
// offsets are clamped to [0, imageSize-windowSize], so panning past the
// edge shows the last full window rather than failing. A scale other than
// 1.0 resizes the window with Lanczos resampling.
//
// # Errors
//
//   - width or height <= 0
//   - scale < 0
//   - scaled window larger than MaxViewportPixels
//   - PNG encoding failure
func Viewport(img image.Image, startX, startY, width, height int, scale float64) (*ViewportResult, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid viewport size %dx%d", width, height)
	}
	if scale < 0 {
		return nil, fmt.Errorf("invalid viewport scale %g", scale)
	}
	if scale == 0 {
		scale = 1.0
	}

	bounds := img.Bounds()
	width = min(width, bounds.Dx())
	height = min(height, bounds.Dy())
	maxX := bounds.Dx() - width
	maxY := bounds.Dy() - height
	startX = min(max(startX, 0), maxX)
	startY = min(max(startY, 0), maxY)

	rect := image.Rect(startX, startY, startX+width, startY+height).Add(bounds.Min)
	window := cropRect(img, rect)

	if scale != 1.0 {
		if area := float64(width) * scale * float64(height) * scale; area > MaxViewportPixels {
			return nil, fmt.Errorf("scaled viewport %gx%g exceeds %d pixels", float64(width)*scale, float64(height)*scale, MaxViewportPixels)
		}
		nw := max(int(float64(width)*scale), 1)
		nh := max(int(float64(height)*scale), 1)
		window = imaging.Resize(window, nw, nh, imaging.Lanczos)
	}

	encoded, err := encodePNG(window)
	if err != nil {
		return nil, err
	}

	return &ViewportResult{
		StartX:      startX,
		StartY:      startY,
		Width:       window.Bounds().Dx(),
		Height:      window.Bounds().Dy(),
		Scale:       scale,
		MaxStartX:   maxX,
		MaxStartY:   maxY,
		ImageBase64: encoded,
		MimeType:    "image/png",
	}, nil
}

// ViewToImage maps a point in a viewport picture back to full-image
// coordinates. A scale <= 0 is treated as 1.
func ViewToImage(x, y, startX, startY int, scale float64) (int, int) {
	if scale <= 0 {
		scale = 1.0
	}
	return startX + int(float64(x)/scale), startY + int(float64(y)/scale)
}

func encodePNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
