package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"log"

	"github.com/ironsheep/diagram-tools-mcp/internal/arrow"
	"github.com/ironsheep/diagram-tools-mcp/internal/diagram"
	"github.com/ironsheep/diagram-tools-mcp/internal/imaging"
	"github.com/ironsheep/diagram-tools-mcp/internal/ocr"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "diagram_render").
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
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		if s.cfg.Debug() {
			log.Printf("tool %s failed: %v", params.Name, err)
		}
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
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Diagram Operations
	case "diagram_arrow_endpoints":
		return s.handleArrowEndpoints(args)
	case "diagram_render":
		return s.handleRender(ctx, args)
	case "diagram_save":
		return s.handleSave(ctx, args)
	case "diagram_read_text":
		return s.handleReadText(ctx, args)

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
// On marshal failure it returns an empty string.
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

// === Diagram Handlers ===

type arrowEndpointsArgs struct {
	Path string `json:"path"`
	X1   int    `json:"x1"`
	Y1   int    `json:"y1"`
	X2   int    `json:"x2"`
	Y2   int    `json:"y2"`
}

func (s *Server) handleArrowEndpoints(args json.RawMessage) (interface{}, error) {
	var a arrowEndpointsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	gray, err := s.cache.LoadGray(a.Path)
	if err != nil {
		return nil, err
	}
	return arrow.Resolve(gray, diagram.BBox{X0: a.X1, Y0: a.Y1, X1: a.X2, Y1: a.Y2})
}

// diagramArgs are the inputs shared by the tools that consume detections.
type diagramArgs struct {
	Path           string          `json:"path"`
	Detections     json.RawMessage `json:"detections"`
	DetectionsPath string          `json:"detections_path"`
	Threshold      *float64        `json:"threshold"`
}

// load returns the image and the detections that pass the confidence threshold.
func (s *Server) load(a *diagramArgs) (image.Image, []diagram.Detection, error) {
	threshold := s.cfg.ConfidenceThreshold
	if a.Threshold != nil {
		threshold = *a.Threshold
	}
	if threshold < 0 || threshold > 1 {
		return nil, nil, fmt.Errorf("threshold must be in [0,1], got %v", threshold)
	}

	var dets []diagram.Detection
	var err error
	switch {
	case len(a.Detections) > 0 && string(a.Detections) != "null":
		// JSON is valid YAML, so inline lists share the document parser.
		dets, err = diagram.ParseDetections(a.Detections)
	case a.DetectionsPath != "":
		dets, err = diagram.LoadDetections(a.DetectionsPath)
	default:
		err = errors.New("either detections or detections_path is required")
	}
	if err != nil {
		return nil, nil, err
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, nil, err
	}
	return img, diagram.FilterByConfidence(dets, threshold), nil
}

// elementFailure describes one detection that was left off the canvas.
type elementFailure struct {
	Index int           `json:"index"`
	Class diagram.Class `json:"class"`
	Error string        `json:"error"`
}

// RenderResult is the result of diagram_render.
type RenderResult struct {
	*imaging.EncodedImage
	Elements int              `json:"elements"`
	Failures []elementFailure `json:"failures,omitempty"`
}

// SaveResult is the result of diagram_save.
type SaveResult struct {
	Output   string           `json:"output"`
	Width    int              `json:"width"`
	Height   int              `json:"height"`
	Elements int              `json:"elements"`
	Failures []elementFailure `json:"failures,omitempty"`
}

// elementFailures flattens the joined per-element errors returned by Render.
func elementFailures(err error) []elementFailure {
	if err == nil {
		return nil
	}
	errs := []error{err}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		errs = joined.Unwrap()
	}

	out := make([]elementFailure, 0, len(errs))
	for _, e := range errs {
		var ee *diagram.ElementError
		if errors.As(e, &ee) {
			out = append(out, elementFailure{Index: ee.Index, Class: ee.Class, Error: ee.Err.Error()})
		}
	}
	return out
}

// renderCanvas draws the filtered detections. Element failures are returned as
// data; any other error aborts the call.
func (s *Server) renderCanvas(ctx context.Context, a *diagramArgs) (*image.NRGBA, int, []elementFailure, error) {
	img, dets, err := s.load(a)
	if err != nil {
		return nil, 0, nil, err
	}

	canvas, err := s.renderer.Render(ctx, dets, img)
	if canvas == nil {
		return nil, 0, nil, err
	}
	return canvas, len(dets), elementFailures(err), nil
}

func (s *Server) handleRender(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a diagramArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	canvas, n, failures, err := s.renderCanvas(ctx, &a)
	if err != nil {
		return nil, err
	}
	enc, err := imaging.EncodePNG(canvas)
	if err != nil {
		return nil, err
	}
	return &RenderResult{EncodedImage: enc, Elements: n, Failures: failures}, nil
}

type saveArgs struct {
	diagramArgs
	Output string `json:"output"`
}

func (s *Server) handleSave(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a saveArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Output == "" {
		return nil, errors.New("output is required")
	}

	canvas, n, failures, err := s.renderCanvas(ctx, &a.diagramArgs)
	if err != nil {
		return nil, err
	}
	if err := imaging.SaveImage(a.Output, canvas); err != nil {
		return nil, err
	}

	b := canvas.Bounds()
	return &SaveResult{
		Output:   a.Output,
		Width:    b.Dx(),
		Height:   b.Dy(),
		Elements: n,
		Failures: failures,
	}, nil
}

type readTextArgs struct {
	diagramArgs
	Language string `json:"language"`
	Output   string `json:"output"`
}

// ReadTextResult is the result of diagram_read_text.
type ReadTextResult struct {
	Detections []diagram.Detection `json:"detections"`
	TextCount  int                 `json:"text_count"`
	Output     string              `json:"output,omitempty"`
}

func (s *Server) handleReadText(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a readTextArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	language := a.Language
	if language == "" {
		language = s.cfg.OCRLanguage
	}

	img, dets, err := s.load(&a.diagramArgs)
	if err != nil {
		return nil, err
	}

	out, err := ocr.ReadText(ctx, img, dets, s.newRecognizer(language))
	if err != nil {
		return nil, err
	}
	if a.Output != "" {
		if err := diagram.WriteDetections(a.Output, out); err != nil {
			return nil, err
		}
	}
	return &ReadTextResult{
		Detections: out,
		TextCount:  len(diagram.TextTargets(out)),
		Output:     a.Output,
	}, nil
}
