// Package server implements the MCP (Model Context Protocol) server for the
// flowchart tools.
//
// The server speaks JSON-RPC 2.0 over stdio, one request per line. Supported
// MCP methods are initialize, tools/list, tools/call and ping.
//
// # Available Tools
//
// Basic Image Information:
//   - image_load: Load an image and get its metadata
//   - image_dimensions: Get width and height
//
// Diagram Operations:
//   - diagram_arrow_endpoints: Tail and head of one arrow box
//   - diagram_render: Redraw detections as a clean flowchart, returned as base64 PNG
//   - diagram_save: Same as diagram_render, written to a file
//   - diagram_read_text: Fill in the text of text detections with Tesseract
//
// The detection tools take the detections inline or from a YAML/JSON document
// (see diagram.ParseDetections) and drop those below the confidence threshold
// before doing anything else.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC errors with code -32000 and the
// Go error string as data. Elements that could not be drawn are not errors: the
// render tools report them in a failures list next to the image.
//
// # Usage
//
//	srv := server.New(cfg)
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server
