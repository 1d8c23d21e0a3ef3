// Package imaging is the image-facing side of the color picker.
//
// It turns decoded images into the inputs the palette and dominant packages
// expect, and turns their answers back into something a client can show:
// hex/RGB/HSL descriptions, PNG viewports and color swatches.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with (0,0) at the top-left corner:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, (x1,y1) is inclusive (top-left), (x2,y2) is exclusive
//
// A client that shows a panned or zoomed Viewport reports clicks in
// viewport space; ViewToImage translates them before sampling. Sampling
// functions reject points outside the image, so the palette only ever sees
// colors that exist.
//
// # Color Representation
//
// Colors are returned as:
//   - Hex: "#RRGGBB" (alpha excluded)
//   - RGB: 8-bit components (0-255)
//   - RGBA: 8-bit non-premultiplied components with alpha
//   - HSL: Hue (0-359), Saturation (0-100), Lightness (0-100)
//   - Match: nearest named reference color and its L1 distance
//
// # Dominant Colors
//
// DominantColors downsamples before clustering because k-means cost grows
// with pixels × clusters × iterations. Use DominantOptions.MaxDimension to
// trade accuracy for speed.
//
// # Regions
//
// AverageColor names the mean color of a rectangle. CompareRegions lines two
// rectangles up at their top-left corners, counts the pixels that differ and
// reports how far apart their average colors are.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. The other functions are stateless
// and may be called concurrently on images nobody is mutating.
package imaging
