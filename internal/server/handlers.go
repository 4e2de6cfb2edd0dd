package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/jmgilman/go/errors"

	"github.com/ironsheep/image-vault-mcp/internal/imaging"
	"github.com/ironsheep/image-vault-mcp/internal/vault"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "image_resize").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// paramsError reports a request the server could not even attempt: an
// unknown tool or arguments that do not decode. It maps to JSON-RPC -32602.
type paramsError struct {
	tool string
	err  error
}

func (e *paramsError) Error() string {
	return fmt.Sprintf("%s: %v", e.tool, e.err)
}

func (e *paramsError) Unwrap() error { return e.err }

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Bad arguments return -32602. Tool failures return -32000 with the
// structured error (code, message, classification, context) as data.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		var pe *paramsError
		if errors.As(err, &pe) {
			return errorResponse(req.ID, codeInvalidParams, "Invalid params", pe.Error())
		}
		s.logger.Debug("tool failed", "tool", params.Name, "error", err)
		return errorResponse(req.ID, codeToolFailed, "Tool execution failed", errors.ToJSON(err))
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
//  1. Decodes its arguments, applying defaults for optional ones
//  2. Resolves names (formats, filters, positions) to imaging values
//  3. Calls the vault
//  4. Returns a JSON-friendly result
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Cache Management
	case "image_init_cache":
		return s.handleInitCache(args)
	case "image_load":
		return s.handleLoad(ctx, args)
	case "image_load_path":
		return s.handleLoadPath(ctx, args)
	case "image_get_bytes":
		return s.handleGetBytes(ctx, args)
	case "image_dimensions":
		return s.handleDimensions(args)
	case "image_dispose":
		return s.handleDispose(args)
	case "image_dispose_many":
		return s.handleDisposeMany(args)
	case "image_clear_all":
		s.vault.Clear()
		return map[string]interface{}{"cleared": true}, nil
	case "image_stats":
		return s.vault.Stats(), nil

	// Geometry
	case "image_resize":
		return s.handleResize(ctx, name, args, s.vault.Resize)
	case "image_resize_to_fit":
		return s.handleResizeToFit(ctx, args)
	case "image_resize_to_fill":
		return s.handleResize(ctx, name, args, s.vault.ResizeToFill)
	case "image_crop":
		return s.handleCrop(ctx, args)
	case "image_rotate":
		return s.handleRotate(ctx, args)
	case "image_flip_horizontal":
		return s.handleSimple(ctx, name, args, s.vault.FlipHorizontal)
	case "image_flip_vertical":
		return s.handleSimple(ctx, name, args, s.vault.FlipVertical)

	// Filters
	case "image_apply_filter":
		return s.handleApplyFilter(ctx, args)
	case "image_grayscale":
		return s.handleSimple(ctx, name, args, s.vault.Grayscale)
	case "image_invert":
		return s.handleSimple(ctx, name, args, s.vault.Invert)
	case "image_blur":
		return s.handleBlur(ctx, args)
	case "image_sharpen":
		return s.handleSharpen(ctx, args)

	// Colour Adjustments
	case "image_adjust_brightness":
		return s.handleAdjust(ctx, name, args, s.vault.AdjustBrightness)
	case "image_adjust_contrast":
		return s.handleAdjust(ctx, name, args, s.vault.AdjustContrast)
	case "image_adjust_saturation":
		return s.handleAdjust(ctx, name, args, s.vault.AdjustSaturation)
	case "image_adjust_hue":
		return s.handleAdjust(ctx, name, args, s.vault.AdjustHue)
	case "image_adjust_all":
		return s.handleAdjustAll(ctx, args)

	// Compositing
	case "image_add_watermark":
		return s.handleAddWatermark(ctx, args)
	case "image_overlay":
		return s.handleOverlay(ctx, args)

	// Batch Pipelines
	case "image_batch_resize_and_filter":
		return s.handleBatchResizeAndFilter(ctx, args)
	case "image_batch_crop_resize_adjust":
		return s.handleBatchCropResizeAdjust(ctx, args)

	default:
		return nil, &paramsError{tool: name, err: fmt.Errorf("unknown tool")}
	}
}

// decodeArgs unmarshals tool arguments. Missing arguments decode as an
// empty object so tools with no required fields accept them.
func decodeArgs(tool string, raw json.RawMessage, v interface{}) error {
	if len(raw) == 0 || string(raw) == "null" {
		raw = json.RawMessage("{}")
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return &paramsError{tool: tool, err: err}
	}
	return nil
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// imageInfo is returned by every tool that creates or changes an image.
type imageInfo struct {
	Handle   uint32 `json:"handle"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Encoding string `json:"encoding"`
}

func (s *Server) describe(h vault.Handle) (interface{}, error) {
	d, err := s.vault.Dimensions(h)
	if err != nil {
		return nil, err
	}
	return imageInfo{Handle: uint32(h), Width: d.Width, Height: d.Height, Encoding: d.Encoding}, nil
}

// === Cache Management Handlers ===

type initCacheArgs struct {
	MaxMemoryMB int `json:"max_memory_mb"`
}

func (s *Server) handleInitCache(args json.RawMessage) (interface{}, error) {
	var a initCacheArgs
	if err := decodeArgs("image_init_cache", args, &a); err != nil {
		return nil, err
	}
	if err := s.vault.Reconfigure(int64(a.MaxMemoryMB) << 20); err != nil {
		return nil, err
	}
	return map[string]interface{}{"budget_bytes": s.vault.Budget()}, nil
}

type loadArgs struct {
	Data string `json:"data"`
}

func (s *Server) handleLoad(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a loadArgs
	if err := decodeArgs("image_load", args, &a); err != nil {
		return nil, err
	}
	data, err := base64.StdEncoding.DecodeString(a.Data)
	if err != nil {
		return nil, &paramsError{tool: "image_load", err: fmt.Errorf("data is not valid base64: %w", err)}
	}
	h, err := s.vault.Load(ctx, data)
	if err != nil {
		return nil, err
	}
	return s.describe(h)
}

type loadPathArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleLoadPath(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a loadPathArgs
	if err := decodeArgs("image_load_path", args, &a); err != nil {
		return nil, err
	}
	h, err := s.vault.LoadPath(ctx, a.Path)
	if err != nil {
		return nil, err
	}
	return s.describe(h)
}

type getBytesArgs struct {
	Handle uint32 `json:"handle"`
	Format string `json:"format"`
}

func (s *Server) handleGetBytes(ctx context.Context, args json.RawMessage) (interface{}, error) {
	a := getBytesArgs{Format: "png"}
	if err := decodeArgs("image_get_bytes", args, &a); err != nil {
		return nil, err
	}
	format, err := imaging.ParseFormat(a.Format)
	if err != nil {
		return nil, err
	}
	data, err := s.vault.Bytes(ctx, vault.Handle(a.Handle), format)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"handle":    a.Handle,
		"format":    format.String(),
		"mime_type": format.MimeType(),
		"size":      len(data),
		"data":      base64.StdEncoding.EncodeToString(data),
	}, nil
}

type handleArgs struct {
	Handle uint32 `json:"handle"`
}

func (s *Server) handleDimensions(args json.RawMessage) (interface{}, error) {
	var a handleArgs
	if err := decodeArgs("image_dimensions", args, &a); err != nil {
		return nil, err
	}
	return s.describe(vault.Handle(a.Handle))
}

func (s *Server) handleDispose(args json.RawMessage) (interface{}, error) {
	var a handleArgs
	if err := decodeArgs("image_dispose", args, &a); err != nil {
		return nil, err
	}
	if err := s.vault.Dispose(vault.Handle(a.Handle)); err != nil {
		return nil, err
	}
	return map[string]interface{}{"handle": a.Handle, "disposed": true}, nil
}

type disposeManyArgs struct {
	Handles []uint32 `json:"handles"`
}

func (s *Server) handleDisposeMany(args json.RawMessage) (interface{}, error) {
	var a disposeManyArgs
	if err := decodeArgs("image_dispose_many", args, &a); err != nil {
		return nil, err
	}
	handles := make([]vault.Handle, len(a.Handles))
	for i, h := range a.Handles {
		handles[i] = vault.Handle(h)
	}
	return map[string]interface{}{
		"requested": len(handles),
		"removed":   s.vault.DisposeMany(handles),
	}, nil
}

// === Geometry Handlers ===

type resizeArgs struct {
	Handle uint32 `json:"handle"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Filter string `json:"filter"`
}

type resizeFunc func(ctx context.Context, h vault.Handle, w, hh int, f imaging.ResizeFilter) error

func (s *Server) handleResize(ctx context.Context, tool string, args json.RawMessage, fn resizeFunc) (interface{}, error) {
	var a resizeArgs
	if err := decodeArgs(tool, args, &a); err != nil {
		return nil, err
	}
	filter, err := imaging.ParseResizeFilter(a.Filter)
	if err != nil {
		return nil, err
	}
	h := vault.Handle(a.Handle)
	if err := fn(ctx, h, a.Width, a.Height, filter); err != nil {
		return nil, err
	}
	return s.describe(h)
}

type resizeToFitArgs struct {
	Handle    uint32 `json:"handle"`
	MaxWidth  int    `json:"max_width"`
	MaxHeight int    `json:"max_height"`
	Filter    string `json:"filter"`
}

func (s *Server) handleResizeToFit(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a resizeToFitArgs
	if err := decodeArgs("image_resize_to_fit", args, &a); err != nil {
		return nil, err
	}
	filter, err := imaging.ParseResizeFilter(a.Filter)
	if err != nil {
		return nil, err
	}
	h := vault.Handle(a.Handle)
	if err := s.vault.ResizeToFit(ctx, h, a.MaxWidth, a.MaxHeight, filter); err != nil {
		return nil, err
	}
	return s.describe(h)
}

type cropArgs struct {
	Handle uint32 `json:"handle"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

func (s *Server) handleCrop(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a cropArgs
	if err := decodeArgs("image_crop", args, &a); err != nil {
		return nil, err
	}
	h := vault.Handle(a.Handle)
	p := imaging.CropParams{X: a.X, Y: a.Y, Width: a.Width, Height: a.Height}
	if err := s.vault.Crop(ctx, h, p); err != nil {
		return nil, err
	}
	return s.describe(h)
}

type rotateArgs struct {
	Handle  uint32 `json:"handle"`
	Degrees int    `json:"degrees"`
}

func (s *Server) handleRotate(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a rotateArgs
	if err := decodeArgs("image_rotate", args, &a); err != nil {
		return nil, err
	}
	h := vault.Handle(a.Handle)
	if err := s.vault.Rotate(ctx, h, a.Degrees); err != nil {
		return nil, err
	}
	return s.describe(h)
}

// handleSimple runs a transform that takes no arguments beyond the handle.
func (s *Server) handleSimple(ctx context.Context, tool string, args json.RawMessage, fn func(context.Context, vault.Handle) error) (interface{}, error) {
	var a handleArgs
	if err := decodeArgs(tool, args, &a); err != nil {
		return nil, err
	}
	h := vault.Handle(a.Handle)
	if err := fn(ctx, h); err != nil {
		return nil, err
	}
	return s.describe(h)
}

// === Filter Handlers ===

type applyFilterArgs struct {
	Handle uint32 `json:"handle"`
	Filter string `json:"filter"`
}

func (s *Server) handleApplyFilter(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a applyFilterArgs
	if err := decodeArgs("image_apply_filter", args, &a); err != nil {
		return nil, err
	}
	filter, err := imaging.ParseFilter(a.Filter)
	if err != nil {
		return nil, err
	}
	h := vault.Handle(a.Handle)
	if err := s.vault.ApplyFilter(ctx, h, filter); err != nil {
		return nil, err
	}
	return s.describe(h)
}

type blurArgs struct {
	Handle uint32  `json:"handle"`
	Sigma  float64 `json:"sigma"`
}

func (s *Server) handleBlur(ctx context.Context, args json.RawMessage) (interface{}, error) {
	a := blurArgs{Sigma: imaging.DefaultBlurSigma}
	if err := decodeArgs("image_blur", args, &a); err != nil {
		return nil, err
	}
	h := vault.Handle(a.Handle)
	if err := s.vault.Blur(ctx, h, a.Sigma); err != nil {
		return nil, err
	}
	return s.describe(h)
}

type sharpenArgs struct {
	Handle uint32  `json:"handle"`
	Amount float64 `json:"amount"`
}

func (s *Server) handleSharpen(ctx context.Context, args json.RawMessage) (interface{}, error) {
	a := sharpenArgs{Amount: imaging.DefaultSharpenAmount}
	if err := decodeArgs("image_sharpen", args, &a); err != nil {
		return nil, err
	}
	h := vault.Handle(a.Handle)
	if err := s.vault.Sharpen(ctx, h, a.Amount); err != nil {
		return nil, err
	}
	return s.describe(h)
}

// === Colour Adjustment Handlers ===

type adjustArgs struct {
	Handle uint32 `json:"handle"`
	Value  int    `json:"value"`
}

func (s *Server) handleAdjust(ctx context.Context, tool string, args json.RawMessage, fn func(context.Context, vault.Handle, int) error) (interface{}, error) {
	var a adjustArgs
	if err := decodeArgs(tool, args, &a); err != nil {
		return nil, err
	}
	h := vault.Handle(a.Handle)
	if err := fn(ctx, h, a.Value); err != nil {
		return nil, err
	}
	return s.describe(h)
}

type adjustAllArgs struct {
	Handle     uint32 `json:"handle"`
	Brightness int    `json:"brightness"`
	Contrast   int    `json:"contrast"`
	Saturation int    `json:"saturation"`
	Hue        int    `json:"hue"`
}

func (a adjustAllArgs) adjustments() imaging.Adjustments {
	return imaging.Adjustments{
		Brightness: a.Brightness,
		Contrast:   a.Contrast,
		Saturation: a.Saturation,
		Hue:        a.Hue,
	}
}

func (s *Server) handleAdjustAll(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a adjustAllArgs
	if err := decodeArgs("image_adjust_all", args, &a); err != nil {
		return nil, err
	}
	h := vault.Handle(a.Handle)
	if err := s.vault.AdjustAll(ctx, h, a.adjustments()); err != nil {
		return nil, err
	}
	return s.describe(h)
}

// === Compositing Handlers ===

type watermarkArgs struct {
	Handle          uint32  `json:"handle"`
	WatermarkHandle uint32  `json:"watermark_handle"`
	Position        string  `json:"position"`
	X               int     `json:"x"`
	Y               int     `json:"y"`
	Opacity         float64 `json:"opacity"`
	Scale           float64 `json:"scale"`
}

func (s *Server) handleAddWatermark(ctx context.Context, args json.RawMessage) (interface{}, error) {
	def := imaging.DefaultWatermarkParams()
	a := watermarkArgs{Opacity: def.Opacity, Scale: def.Scale}
	if err := decodeArgs("image_add_watermark", args, &a); err != nil {
		return nil, err
	}
	anchor, err := imaging.ParseAnchor(a.Position)
	if err != nil {
		return nil, err
	}
	p := imaging.WatermarkParams{
		Position: imaging.Position{Anchor: anchor, X: a.X, Y: a.Y},
		Opacity:  a.Opacity,
		Scale:    a.Scale,
	}
	h := vault.Handle(a.Handle)
	if err := s.vault.AddWatermark(ctx, h, vault.Handle(a.WatermarkHandle), p); err != nil {
		return nil, err
	}
	return s.describe(h)
}

type overlayArgs struct {
	Handle       uint32  `json:"handle"`
	SourceHandle uint32  `json:"source_handle"`
	X            int     `json:"x"`
	Y            int     `json:"y"`
	Opacity      float64 `json:"opacity"`
}

func (s *Server) handleOverlay(ctx context.Context, args json.RawMessage) (interface{}, error) {
	a := overlayArgs{Opacity: 1.0}
	if err := decodeArgs("image_overlay", args, &a); err != nil {
		return nil, err
	}
	h := vault.Handle(a.Handle)
	if err := s.vault.Overlay(ctx, h, vault.Handle(a.SourceHandle), a.X, a.Y, a.Opacity); err != nil {
		return nil, err
	}
	return s.describe(h)
}

// === Batch Pipeline Handlers ===

type batchResizeFilterArgs struct {
	Handle       uint32 `json:"handle"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	ResizeFilter string `json:"resize_filter"`
	Filter       string `json:"filter"`
}

func (s *Server) handleBatchResizeAndFilter(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a batchResizeFilterArgs
	if err := decodeArgs("image_batch_resize_and_filter", args, &a); err != nil {
		return nil, err
	}
	rf, err := imaging.ParseResizeFilter(a.ResizeFilter)
	if err != nil {
		return nil, err
	}
	filter, err := imaging.ParseFilter(a.Filter)
	if err != nil {
		return nil, err
	}
	h := vault.Handle(a.Handle)
	if err := s.vault.ResizeAndFilter(ctx, h, a.Width, a.Height, rf, filter); err != nil {
		return nil, err
	}
	return s.describe(h)
}

type batchCropResizeAdjustArgs struct {
	adjustAllArgs
	CropX        int    `json:"crop_x"`
	CropY        int    `json:"crop_y"`
	CropWidth    int    `json:"crop_width"`
	CropHeight   int    `json:"crop_height"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	ResizeFilter string `json:"resize_filter"`
}

func (s *Server) handleBatchCropResizeAdjust(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a batchCropResizeAdjustArgs
	if err := decodeArgs("image_batch_crop_resize_adjust", args, &a); err != nil {
		return nil, err
	}
	rf, err := imaging.ParseResizeFilter(a.ResizeFilter)
	if err != nil {
		return nil, err
	}
	crop := imaging.CropParams{X: a.CropX, Y: a.CropY, Width: a.CropWidth, Height: a.CropHeight}
	h := vault.Handle(a.Handle)
	if err := s.vault.CropResizeAdjust(ctx, h, crop, a.Width, a.Height, rf, a.adjustments()); err != nil {
		return nil, err
	}
	return s.describe(h)
}
