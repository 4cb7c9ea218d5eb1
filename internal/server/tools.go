package server

import "github.com/ironsheep/diagram-tools-mcp/internal/diagram"

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the diagram image file",
	}
}

// classNames lists the class names in label order.
func classNames() []string {
	classes := diagram.Classes()
	names := make([]string, len(classes))
	for i, c := range classes {
		names[i] = c.String()
	}
	return names
}

// detectionProperties are the inputs shared by every tool that consumes a
// detection list.
func detectionProperties() map[string]interface{} {
	return map[string]interface{}{
		"path": pathProperty(),
		"detections": map[string]interface{}{
			"type":        "array",
			"description": "Detections in detector order. Each has a class name (circle, rectangle, parallelogram, diamond, arrow, text) or class_index 0-5, bbox [x0, y0, x1, y1] and confidence. Text detections may carry text.",
			"items": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"class": map[string]interface{}{
						"type": "string",
						"enum": classNames(),
					},
					"class_index": map[string]interface{}{
						"type":    "integer",
						"minimum": 0,
						"maximum": len(diagram.Classes()) - 1,
					},
					"bbox": map[string]interface{}{
						"type":     "array",
						"items":    map[string]interface{}{"type": "number"},
						"minItems": 4,
						"maxItems": 4,
					},
					"confidence": map[string]interface{}{"type": "number"},
					"text":       map[string]interface{}{"type": "string"},
				},
				"required": []string{"bbox", "confidence"},
			},
		},
		"detections_path": map[string]interface{}{
			"type":        "string",
			"description": "Path to a YAML or JSON detection document, used when detections is not given",
		},
		"threshold": map[string]interface{}{
			"type":        "number",
			"description": "Drop detections with confidence below this value. Defaults to the server's configured threshold",
			"minimum":     0,
			"maximum":     1,
		},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	save := detectionProperties()
	save["output"] = map[string]interface{}{
		"type":        "string",
		"description": "Output file path. .jpg/.jpeg writes JPEG, .bmp writes BMP, anything else PNG",
	}

	readText := detectionProperties()
	readText["language"] = map[string]interface{}{
		"type":        "string",
		"description": "Tesseract language code, e.g. eng or deu. Defaults to the server's configured language",
	}
	readText["output"] = map[string]interface{}{
		"type":        "string",
		"description": "Optional path; when set, the detections with their text are also written there as a YAML detection document",
	}

	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load a diagram image and return its upright dimensions, format and file size. The image stays cached for later calls.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{"path": pathProperty()},
				"required":   []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of a diagram image. Detection boxes are in this frame.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{"path": pathProperty()},
				"required":   []string{"path"},
			},
		},

		// Diagram Operations
		{
			Name:        "diagram_arrow_endpoints",
			Description: "Work out which end of an arrow is the head. Returns start (tail) and end (head) points on the short edges of the arrow's bounding box.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"x1": map[string]interface{}{
						"type":        "integer",
						"description": "Left edge of the arrow box",
					},
					"y1": map[string]interface{}{
						"type":        "integer",
						"description": "Top edge of the arrow box",
					},
					"x2": map[string]interface{}{
						"type":        "integer",
						"description": "Right edge of the arrow box",
					},
					"y2": map[string]interface{}{
						"type":        "integer",
						"description": "Bottom edge of the arrow box",
					},
				},
				"required": []string{"path", "x1", "y1", "x2", "y2"},
			},
		},
		{
			Name:        "diagram_render",
			Description: "Redraw detections as a clean flowchart on a white canvas the size of the image. Returns a base64 PNG and the elements that could not be drawn.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": detectionProperties(),
				"required":   []string{"path"},
			},
		},
		{
			Name:        "diagram_save",
			Description: "Redraw detections as a clean flowchart and write it to a file.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": save,
				"required":   []string{"path", "output"},
			},
		},
		{
			Name:        "diagram_read_text",
			Description: "Read the text inside every text detection with Tesseract OCR and return the detections with text and text_confidence filled in.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": readText,
				"required":   []string{"path"},
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
