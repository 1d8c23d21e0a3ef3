// Package server implements the MCP (Model Context Protocol) server for the
// color picker tools.
//
// This package provides a JSON-RPC 2.0 server that lets an MCP client load an
// image, pan a viewport over it, pick a point and get the nearest named color,
// and extract the dominant colors of the whole image or a region.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Basic Image Information:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//
// Viewport:
//   - image_viewport: Fixed-size pan window, optionally zoomed
//
// Color Operations:
//   - image_sample_color: Named color at a pixel, in image or viewport coordinates
//   - image_sample_colors_multi: Sample multiple points
//   - image_dominant_colors: k-means dominant colors, most prominent first
//   - image_average_color: Named mean color of a rectangle
//   - image_compare_regions: Pixel and average-color comparison of two rectangles
//
// Palette:
//   - color_name: Nearest reference color for an RGB triple
//   - color_swatch: Solid PNG square of a color
//
// # Image Caching
//
// The server maintains an in-memory cache of loaded images. Images are cached
// by path and reused across multiple tool calls, avoiding redundant disk I/O.
// The cache persists for the lifetime of the server process.
//
// # Error Handling
//
// Malformed request lines are logged and dropped. Other failures are returned
// as JSON-RPC error responses with:
//   - code: -32601 (unknown method), -32602 (bad tools/call params) or
//     -32000 (tool execution failure)
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
//	idx, _ := palette.Default()
//	srv := server.New(config.Default(), idx, version)
//	if err := srv.Run(ctx, os.Stdin, os.Stdout); err != nil {
//	    log.Fatal().Err(err).Msg("server stopped")
//	}
package server
