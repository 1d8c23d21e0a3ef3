package server

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/ironsheep/color-picker-mcp/internal/imaging"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "color_name").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		log.Warn().Err(err).Str("tool", params.Name).Msg("tool failed")
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters, taken from the config
//  3. Loads images from cache as needed
//  4. Calls the appropriate imaging or palette function
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	log.Debug().Str("tool", name).Msg("executing tool")

	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Viewport
	case "image_viewport":
		return s.handleImageViewport(args)

	// Color Operations
	case "image_sample_color":
		return s.handleImageSampleColor(args)
	case "image_sample_colors_multi":
		return s.handleImageSampleColorsMulti(args)
	case "image_dominant_colors":
		return s.handleImageDominantColors(args)
	case "image_average_color":
		return s.handleImageAverageColor(args)
	case "image_compare_regions":
		return s.handleImageCompareRegions(args)

	// Palette
	case "color_name":
		return s.handleColorName(args)
	case "color_swatch":
		return s.handleColorSwatch(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === Viewport Handler ===

type imageViewportArgs struct {
	Path   string  `json:"path"`
	StartX int     `json:"start_x"`
	StartY int     `json:"start_y"`
	Width  int     `json:"width"`
	Height int     `json:"height"`
	Scale  float64 `json:"scale"`
}

func (s *Server) handleImageViewport(args json.RawMessage) (interface{}, error) {
	var a imageViewportArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Width == 0 {
		a.Width = s.cfg.ViewportWidth
	}
	if a.Height == 0 {
		a.Height = s.cfg.ViewportHeight
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.Viewport(img, a.StartX, a.StartY, a.Width, a.Height, a.Scale)
}

// === Color Operation Handlers ===

type imageSampleColorArgs struct {
	Path    string  `json:"path"`
	X       int     `json:"x"`
	Y       int     `json:"y"`
	OffsetX int     `json:"offset_x"`
	OffsetY int     `json:"offset_y"`
	Scale   float64 `json:"scale"`
}

// sampledColor reports the image coordinates a view click resolved to.
type sampledColor struct {
	X int `json:"x"`
	Y int `json:"y"`
	*imaging.ColorResult
}

func (s *Server) handleImageSampleColor(args json.RawMessage) (interface{}, error) {
	var a imageSampleColorArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	x, y := imaging.ViewToImage(a.X, a.Y, a.OffsetX, a.OffsetY, a.Scale)
	result, err := imaging.SampleColor(img, s.palette, x, y)
	if err != nil {
		return nil, err
	}
	return &sampledColor{X: x, Y: y, ColorResult: result}, nil
}

type imageSampleColorsMultiArgs struct {
	Path   string `json:"path"`
	Points []struct {
		X     int    `json:"x"`
		Y     int    `json:"y"`
		Label string `json:"label,omitempty"`
	} `json:"points"`
}

func (s *Server) handleImageSampleColorsMulti(args json.RawMessage) (interface{}, error) {
	var a imageSampleColorsMultiArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	points := make([]imaging.LabeledPoint, len(a.Points))
	for i, p := range a.Points {
		points[i] = imaging.LabeledPoint{X: p.X, Y: p.Y, Label: p.Label}
	}
	return imaging.SampleColorsMulti(img, s.palette, points)
}

type imageDominantColorsArgs struct {
	Path         string      `json:"path"`
	Count        int         `json:"count"`
	MaxDimension *int        `json:"max_dimension,omitempty"`
	Region       *regionArgs `json:"region,omitempty"`
}

func (s *Server) handleImageDominantColors(args json.RawMessage) (interface{}, error) {
	var a imageDominantColorsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Count == 0 {
		a.Count = s.cfg.Clusters
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	opts := imaging.DominantOptions{Count: a.Count, MaxDimension: s.cfg.MaxDimension}
	if a.MaxDimension != nil {
		opts.MaxDimension = *a.MaxDimension
	}
	if a.Region != nil {
		r := a.Region.region()
		opts.Region = &r
	}
	return imaging.DominantColors(img, s.extractor, s.palette, opts)
}

type regionArgs struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

func (r regionArgs) region() imaging.Region {
	return imaging.Region{X1: r.X1, Y1: r.Y1, X2: r.X2, Y2: r.Y2}
}

type imageAverageColorArgs struct {
	Path string `json:"path"`
	regionArgs
}

func (s *Server) handleImageAverageColor(args json.RawMessage) (interface{}, error) {
	var a imageAverageColorArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.AverageColor(img, s.palette, a.region())
}

type imageCompareRegionsArgs struct {
	Path    string     `json:"path"`
	Region1 regionArgs `json:"region1"`
	Region2 regionArgs `json:"region2"`
}

func (s *Server) handleImageCompareRegions(args json.RawMessage) (interface{}, error) {
	var a imageCompareRegionsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.CompareRegions(img, s.palette, a.Region1.region(), a.Region2.region())
}

// === Palette Handlers ===

type colorNameArgs struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// colorNameResult echoes the query next to the nearest entry.
type colorNameResult struct {
	Query imaging.RGBColor     `json:"query"`
	Match imaging.PaletteMatch `json:"match"`
}

func (s *Server) handleColorName(args json.RawMessage) (interface{}, error) {
	var a colorNameArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	for _, ch := range []struct {
		name string
		v    int
	}{{"r", a.R}, {"g", a.G}, {"b", a.B}} {
		if ch.v < 0 || ch.v > 255 {
			return nil, fmt.Errorf("%s must be in [0,255], got %d", ch.name, ch.v)
		}
	}

	entry, dist := s.palette.NearestEntry(a.R, a.G, a.B)
	return &colorNameResult{
		Query: imaging.RGBColor{R: uint8(a.R), G: uint8(a.G), B: uint8(a.B)},
		Match: imaging.PaletteMatch{Name: entry.Name, Label: entry.Label, Hex: entry.Hex, Distance: dist},
	}, nil
}

type colorSwatchArgs struct {
	R    *int   `json:"r,omitempty"`
	G    *int   `json:"g,omitempty"`
	B    *int   `json:"b,omitempty"`
	Hex  string `json:"hex,omitempty"`
	Size int    `json:"size"`
}

func (s *Server) handleColorSwatch(args json.RawMessage) (interface{}, error) {
	var a colorSwatchArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Size == 0 {
		a.Size = imaging.DefaultSwatchSize
	}

	var c imaging.RGBColor
	switch {
	case a.Hex != "":
		parsed, err := imaging.ParseHex(a.Hex)
		if err != nil {
			return nil, err
		}
		c = parsed
	case a.R != nil && a.G != nil && a.B != nil:
		for _, v := range []int{*a.R, *a.G, *a.B} {
			if v < 0 || v > 255 {
				return nil, fmt.Errorf("channel value %d outside [0,255]", v)
			}
		}
		c = imaging.RGBColor{R: uint8(*a.R), G: uint8(*a.G), B: uint8(*a.B)}
	default:
		return nil, fmt.Errorf("either hex or all of r, g, b are required")
	}
	return imaging.Swatch(c, a.Size)
}
