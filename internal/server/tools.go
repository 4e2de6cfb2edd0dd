package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

var (
	resizeFilterNames = []string{"lanczos3", "nearest", "bilinear", "catmull_rom"}
	filterNames       = []string{"blur", "sharpen", "edge_detect", "emboss", "grayscale", "sepia", "invert"}
	formatNames       = []string{"png", "jpeg", "webp", "gif", "bmp", "tiff"}
	anchorNames       = []string{
		"top_left", "top_center", "top_right",
		"center_left", "center", "center_right",
		"bottom_left", "bottom_center", "bottom_right",
		"custom",
	}
)

func object(props map[string]interface{}, required ...string) map[string]interface{} {
	schema := map[string]interface{}{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func handleProp(desc string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"minimum":     1,
		"description": desc,
	}
}

func intProp(desc string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": desc,
	}
}

func rangeProp(desc string, lo, hi int) map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"minimum":     lo,
		"maximum":     hi,
		"description": desc,
	}
}

func numberProp(desc string, def float64) map[string]interface{} {
	return map[string]interface{}{
		"type":        "number",
		"description": desc,
		"default":     def,
	}
}

func enumProp(desc string, values []string, def string) map[string]interface{} {
	p := map[string]interface{}{
		"type":        "string",
		"enum":        values,
		"description": desc,
	}
	if def != "" {
		p["default"] = def
	}
	return p
}

func handleOnly(desc string) map[string]interface{} {
	return object(map[string]interface{}{
		"handle": handleProp(desc),
	}, "handle")
}

func adjustProp(desc string) map[string]interface{} {
	return rangeProp(desc, -100, 100)
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Cache Management
		{
			Name:        "image_init_cache",
			Description: "Discard every cached image and restart the cache with a new memory budget. Handles issued earlier become invalid; new handles keep counting upward.",
			InputSchema: object(map[string]interface{}{
				"max_memory_mb": map[string]interface{}{
					"type":        "integer",
					"minimum":     1,
					"description": "Memory budget in MiB",
				},
			}, "max_memory_mb"),
		},
		{
			Name:        "image_load",
			Description: "Decode an image (PNG, JPEG, WebP, GIF, BMP or TIFF) from base64 bytes and return a handle for later operations.",
			InputSchema: object(map[string]interface{}{
				"data": map[string]interface{}{
					"type":        "string",
					"description": "Base64-encoded image file contents",
				},
			}, "data"),
		},
		{
			Name:        "image_load_path",
			Description: "Read and decode an image file and return a handle for later operations.",
			InputSchema: object(map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to the image file",
				},
			}, "path"),
		},
		{
			Name:        "image_get_bytes",
			Description: "Encode a cached image and return it as base64. Does not mark the image as recently used.",
			InputSchema: object(map[string]interface{}{
				"handle": handleProp("Image handle"),
				"format": enumProp("Output format. Default png", formatNames, "png"),
			}, "handle"),
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width, height and pixel encoding of a cached image.",
			InputSchema: handleOnly("Image handle"),
		},
		{
			Name:        "image_dispose",
			Description: "Remove one image from the cache. Fails if the handle is unknown or was evicted.",
			InputSchema: handleOnly("Image handle"),
		},
		{
			Name:        "image_dispose_many",
			Description: "Remove several images from the cache, ignoring unknown handles. Returns how many were removed.",
			InputSchema: object(map[string]interface{}{
				"handles": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "integer"},
					"description": "Image handles to remove",
				},
			}, "handles"),
		},
		{
			Name:        "image_clear_all",
			Description: "Remove every image from the cache. The memory budget is unchanged.",
			InputSchema: object(map[string]interface{}{}),
		},
		{
			Name:        "image_stats",
			Description: "Report image count, total and average memory use, and the memory budget.",
			InputSchema: object(map[string]interface{}{}),
		},

		// Geometry
		{
			Name:        "image_resize",
			Description: "Resample an image to exactly the given size.",
			InputSchema: object(map[string]interface{}{
				"handle": handleProp("Image handle"),
				"width":  intProp("Target width in pixels"),
				"height": intProp("Target height in pixels"),
				"filter": enumProp("Resampling filter. Default lanczos3", resizeFilterNames, "lanczos3"),
			}, "handle", "width", "height"),
		},
		{
			Name:        "image_resize_to_fit",
			Description: "Shrink an image to fit within a box, keeping its aspect ratio. Never enlarges.",
			InputSchema: object(map[string]interface{}{
				"handle":     handleProp("Image handle"),
				"max_width":  intProp("Maximum width in pixels"),
				"max_height": intProp("Maximum height in pixels"),
				"filter":     enumProp("Resampling filter. Default lanczos3", resizeFilterNames, "lanczos3"),
			}, "handle", "max_width", "max_height"),
		},
		{
			Name:        "image_resize_to_fill",
			Description: "Scale an image to cover the given size and centre-crop the overflow, giving exactly that size.",
			InputSchema: object(map[string]interface{}{
				"handle": handleProp("Image handle"),
				"width":  intProp("Target width in pixels"),
				"height": intProp("Target height in pixels"),
				"filter": enumProp("Resampling filter. Default lanczos3", resizeFilterNames, "lanczos3"),
			}, "handle", "width", "height"),
		},
		{
			Name:        "image_crop",
			Description: "Keep only a rectangular region of an image. The region is clamped to the image bounds.",
			InputSchema: object(map[string]interface{}{
				"handle": handleProp("Image handle"),
				"x":      intProp("Left edge X coordinate (0-based)"),
				"y":      intProp("Top edge Y coordinate (0-based)"),
				"width":  intProp("Region width in pixels"),
				"height": intProp("Region height in pixels"),
			}, "handle", "x", "y", "width", "height"),
		},
		{
			Name:        "image_rotate",
			Description: "Rotate an image clockwise. Only multiples of 90 change the pixels; other angles leave the image as is.",
			InputSchema: object(map[string]interface{}{
				"handle":  handleProp("Image handle"),
				"degrees": intProp("Clockwise rotation in degrees, e.g. 90, 180, 270 or -90"),
			}, "handle", "degrees"),
		},
		{
			Name:        "image_flip_horizontal",
			Description: "Mirror an image left to right.",
			InputSchema: handleOnly("Image handle"),
		},
		{
			Name:        "image_flip_vertical",
			Description: "Mirror an image top to bottom.",
			InputSchema: handleOnly("Image handle"),
		},

		// Filters
		{
			Name:        "image_apply_filter",
			Description: "Apply a named filter with default parameters (blur sigma 2.0, sharpen amount 1.0).",
			InputSchema: object(map[string]interface{}{
				"handle": handleProp("Image handle"),
				"filter": enumProp("Filter to apply", filterNames, ""),
			}, "handle", "filter"),
		},
		{
			Name:        "image_grayscale",
			Description: "Convert an image to single-channel grayscale. Reduces its memory footprint.",
			InputSchema: handleOnly("Image handle"),
		},
		{
			Name:        "image_invert",
			Description: "Invert the colour channels of an image. Alpha is kept.",
			InputSchema: handleOnly("Image handle"),
		},
		{
			Name:        "image_blur",
			Description: "Apply a Gaussian blur.",
			InputSchema: object(map[string]interface{}{
				"handle": handleProp("Image handle"),
				"sigma":  numberProp("Standard deviation of the blur. Default 2.0", 2.0),
			}, "handle"),
		},
		{
			Name:        "image_sharpen",
			Description: "Sharpen an image with a 3x3 kernel.",
			InputSchema: object(map[string]interface{}{
				"handle": handleProp("Image handle"),
				"amount": numberProp("Sharpening strength. Default 1.0", 1.0),
			}, "handle"),
		},

		// Colour Adjustments
		{
			Name:        "image_adjust_brightness",
			Description: "Shift brightness by -100 to 100.",
			InputSchema: object(map[string]interface{}{
				"handle": handleProp("Image handle"),
				"value":  adjustProp("Brightness change"),
			}, "handle", "value"),
		},
		{
			Name:        "image_adjust_contrast",
			Description: "Scale contrast around mid-gray by -100 to 100.",
			InputSchema: object(map[string]interface{}{
				"handle": handleProp("Image handle"),
				"value":  adjustProp("Contrast change"),
			}, "handle", "value"),
		},
		{
			Name:        "image_adjust_saturation",
			Description: "Scale saturation by -100 to 100. Grayscale images are unchanged.",
			InputSchema: object(map[string]interface{}{
				"handle": handleProp("Image handle"),
				"value":  adjustProp("Saturation change"),
			}, "handle", "value"),
		},
		{
			Name:        "image_adjust_hue",
			Description: "Rotate hue by the given number of degrees.",
			InputSchema: object(map[string]interface{}{
				"handle": handleProp("Image handle"),
				"value":  intProp("Hue rotation in degrees"),
			}, "handle", "value"),
		},
		{
			Name:        "image_adjust_all",
			Description: "Apply brightness, contrast, saturation and hue in that order as one step. Zero values are skipped.",
			InputSchema: object(map[string]interface{}{
				"handle":     handleProp("Image handle"),
				"brightness": adjustProp("Brightness change. Default 0"),
				"contrast":   adjustProp("Contrast change. Default 0"),
				"saturation": adjustProp("Saturation change. Default 0"),
				"hue":        intProp("Hue rotation in degrees. Default 0"),
			}, "handle"),
		},

		// Compositing
		{
			Name:        "image_add_watermark",
			Description: "Blend one cached image onto another. Only the target image changes.",
			InputSchema: object(map[string]interface{}{
				"handle":           handleProp("Target image handle"),
				"watermark_handle": handleProp("Watermark image handle"),
				"position":         enumProp("Placement. Default bottom_right", anchorNames, "bottom_right"),
				"x":                intProp("Left edge when position is custom"),
				"y":                intProp("Top edge when position is custom"),
				"opacity":          numberProp("Watermark opacity from 0 to 1. Default 0.5", 0.5),
				"scale":            numberProp("Watermark scale factor. Default 1.0", 1.0),
			}, "handle", "watermark_handle"),
		},
		{
			Name:        "image_overlay",
			Description: "Blend one cached image onto another at a pixel offset. Parts outside the target are clipped.",
			InputSchema: object(map[string]interface{}{
				"handle":        handleProp("Target image handle"),
				"source_handle": handleProp("Image to draw on top"),
				"x":             intProp("Left edge of the source on the target"),
				"y":             intProp("Top edge of the source on the target"),
				"opacity":       numberProp("Opacity from 0 to 1. Default 1.0", 1.0),
			}, "handle", "source_handle", "x", "y"),
		},

		// Batch Pipelines
		{
			Name:        "image_batch_resize_and_filter",
			Description: "Resize an image and apply a named filter as one step. On failure the image is unchanged.",
			InputSchema: object(map[string]interface{}{
				"handle":        handleProp("Image handle"),
				"width":         intProp("Target width in pixels"),
				"height":        intProp("Target height in pixels"),
				"resize_filter": enumProp("Resampling filter. Default lanczos3", resizeFilterNames, "lanczos3"),
				"filter":        enumProp("Filter to apply after resizing", filterNames, ""),
			}, "handle", "width", "height", "filter"),
		},
		{
			Name:        "image_batch_crop_resize_adjust",
			Description: "Crop, resize and apply colour adjustments as one step. On failure the image is unchanged.",
			InputSchema: object(map[string]interface{}{
				"handle":        handleProp("Image handle"),
				"crop_x":        intProp("Crop left edge"),
				"crop_y":        intProp("Crop top edge"),
				"crop_width":    intProp("Crop width"),
				"crop_height":   intProp("Crop height"),
				"width":         intProp("Target width in pixels"),
				"height":        intProp("Target height in pixels"),
				"resize_filter": enumProp("Resampling filter. Default lanczos3", resizeFilterNames, "lanczos3"),
				"brightness":    adjustProp("Brightness change. Default 0"),
				"contrast":      adjustProp("Contrast change. Default 0"),
				"saturation":    adjustProp("Saturation change. Default 0"),
				"hue":           intProp("Hue rotation in degrees. Default 0"),
			}, "handle", "crop_x", "crop_y", "crop_width", "crop_height", "width", "height"),
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
