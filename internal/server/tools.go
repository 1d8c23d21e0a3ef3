package server

import (
	"github.com/ironsheep/color-picker-mcp/internal/config"
	"github.com/ironsheep/color-picker-mcp/internal/imaging"
)

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

var pathProperty = map[string]interface{}{
	"type":        "string",
	"description": "Absolute path to the image file",
}

func regionProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"x1": map[string]interface{}{"type": "integer"},
			"y1": map[string]interface{}{"type": "integer"},
			"x2": map[string]interface{}{"type": "integer"},
			"y2": map[string]interface{}{"type": "integer"},
		},
		"required":    []string{"x1", "y1", "x2", "y2"},
		"description": description,
	}
}

func channelProperty(name string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"minimum":     0,
		"maximum":     255,
		"description": name + " channel (0-255)",
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	d := config.Default()

	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions and format. The decoded image is cached for subsequent operations.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},

		// Viewport
		{
			Name:        "image_viewport",
			Description: "Return a fixed-size window of the image as base64 PNG. Pan with start_x/start_y; offsets are clamped so the window stays inside the image. Pass the returned start_x, start_y and scale to image_sample_color to pick a color at a point in the view.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"start_x": map[string]interface{}{
						"type":        "integer",
						"description": "Left edge of the window in image pixels (default 0)",
						"default":     0,
					},
					"start_y": map[string]interface{}{
						"type":        "integer",
						"description": "Top edge of the window in image pixels (default 0)",
						"default":     0,
					},
					"width": map[string]interface{}{
						"type":        "integer",
						"description": "Window width in image pixels",
						"default":     d.ViewportWidth,
					},
					"height": map[string]interface{}{
						"type":        "integer",
						"description": "Window height in image pixels",
						"default":     d.ViewportHeight,
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional zoom factor for the returned window. Default 1.0",
						"default":     1.0,
					},
				},
				"required": []string{"path"},
			},
		},

		// Color Operations
		{
			Name:        "image_sample_color",
			Description: "Get the color at a pixel and the name of the nearest reference color. Coordinates may be given inside a viewport by passing its offsets and scale.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "X coordinate (0-based, from left)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Y coordinate (0-based, from top)",
					},
					"offset_x": map[string]interface{}{
						"type":        "integer",
						"description": "Viewport start_x the coordinates are relative to (default 0)",
						"default":     0,
					},
					"offset_y": map[string]interface{}{
						"type":        "integer",
						"description": "Viewport start_y the coordinates are relative to (default 0)",
						"default":     0,
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Viewport scale the coordinates are relative to. Default 1.0",
						"default":     1.0,
					},
				},
				"required": []string{"path", "x", "y"},
			},
		},
		{
			Name:        "image_sample_colors_multi",
			Description: "Get named color values at multiple pixel coordinates in a single call.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"points": map[string]interface{}{
						"type": "array",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"x":     map[string]interface{}{"type": "integer"},
								"y":     map[string]interface{}{"type": "integer"},
								"label": map[string]interface{}{"type": "string", "description": "Optional label for this point"},
							},
							"required": []string{"x", "y"},
						},
						"description": "Array of points to sample",
					},
				},
				"required": []string{"path", "points"},
			},
		},
		{
			Name:        "image_dominant_colors",
			Description: "Cluster the image pixels with k-means and return the dominant colors, most prominent first, with their share of the image and nearest reference name.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"count": map[string]interface{}{
						"type":        "integer",
						"description": "Number of clusters. Fewer are returned when the image has fewer distinct colors.",
						"default":     d.Clusters,
					},
					"max_dimension": map[string]interface{}{
						"type":        "integer",
						"description": "Downsample so neither side exceeds this before clustering. 0 analyzes every pixel.",
						"default":     d.MaxDimension,
					},
					"region": regionProperty("Optional region to analyze. If omitted, analyzes entire image."),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_average_color",
			Description: "Average the pixels of a rectangle and name the mean color. Steadier than a single pixel on noisy or dithered images.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"x1":   map[string]interface{}{"type": "integer", "description": "Left edge X coordinate (inclusive)"},
					"y1":   map[string]interface{}{"type": "integer", "description": "Top edge Y coordinate (inclusive)"},
					"x2":   map[string]interface{}{"type": "integer", "description": "Right edge X coordinate (exclusive)"},
					"y2":   map[string]interface{}{"type": "integer", "description": "Bottom edge Y coordinate (exclusive)"},
				},
				"required": []string{"path", "x1", "y1", "x2", "y2"},
			},
		},
		{
			Name:        "image_compare_regions",
			Description: "Compare two regions pixel by pixel and by their average colors, reporting similarity, the distance between the averages and whether they share a color name.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":    pathProperty,
					"region1": regionProperty("First region"),
					"region2": regionProperty("Second region"),
				},
				"required": []string{"path", "region1", "region2"},
			},
		},

		// Palette
		{
			Name:        "color_name",
			Description: "Name an RGB color: returns the nearest reference color by Manhattan distance.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"r": channelProperty("Red"),
					"g": channelProperty("Green"),
					"b": channelProperty("Blue"),
				},
				"required": []string{"r", "g", "b"},
			},
		},
		{
			Name:        "color_swatch",
			Description: "Render a solid square of a color as base64 PNG. Give either hex or r, g and b.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"r": channelProperty("Red"),
					"g": channelProperty("Green"),
					"b": channelProperty("Blue"),
					"hex": map[string]interface{}{
						"type":        "string",
						"description": "Color as #RRGGBB or #RGB",
					},
					"size": map[string]interface{}{
						"type":        "integer",
						"description": "Side length in pixels",
						"default":     imaging.DefaultSwatchSize,
						"minimum":     1,
						"maximum":     imaging.MaxSwatchSize,
					},
				},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
