// Package server exposes the image vault as an MCP (Model Context Protocol)
// server.
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
// Images are loaded once and then addressed by integer handle. Every tool
// that changes an image replies with its handle, width, height and pixel
// encoding. Image bytes travel as base64.
//
// Cache Management:
//   - image_init_cache: Reset the cache with a new memory budget
//   - image_load, image_load_path: Decode an image and get a handle
//   - image_get_bytes: Encode an image as PNG, JPEG, WebP, GIF, BMP or TIFF
//   - image_dimensions: Get width, height and encoding
//   - image_dispose, image_dispose_many, image_clear_all: Free images
//   - image_stats: Memory usage
//
// Geometry:
//   - image_resize, image_resize_to_fit, image_resize_to_fill
//   - image_crop, image_rotate, image_flip_horizontal, image_flip_vertical
//
// Filters and Adjustments:
//   - image_apply_filter, image_grayscale, image_invert, image_blur, image_sharpen
//   - image_adjust_brightness, image_adjust_contrast, image_adjust_saturation,
//     image_adjust_hue, image_adjust_all
//
// Compositing:
//   - image_add_watermark, image_overlay
//
// Batch Pipelines:
//   - image_batch_resize_and_filter, image_batch_crop_resize_adjust
//
// # Error Handling
//
// Errors are returned as JSON-RPC error responses:
//   - -32700: the request line is not JSON
//   - -32601: unknown method
//   - -32602: unknown tool or undecodable arguments
//   - -32000: the tool ran and failed; data holds the structured error
//     (code, message, classification, context) so clients can tell a
//     missing handle (NOT_FOUND) from bad input (INVALID_INPUT) or an
//     unreadable image (DECODE_FAILED)
//
// # Usage
//
//	v := vault.New(vault.WithBudget(256 << 20))
//	defer v.Close()
//	srv := server.New(v, server.WithLogger(logger))
//	if err := srv.Run(ctx); err != nil {
//	    logger.Error("server stopped", "error", err)
//	}
package server
