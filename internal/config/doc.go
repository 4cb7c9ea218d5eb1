// Package config resolves the settings shared by the diagram binaries.
//
// Settings come from three layers, later ones winning:
//
//  1. built-in defaults (see Default)
//  2. an optional YAML file named by DIAGRAM_MCP_CONFIG
//  3. environment variables
//
// Example file:
//
//	log_level: debug
//	confidence_threshold: 0.6
//	workers: 4
//	ocr_language: eng
//	tessdata_prefix: /usr/share/tesseract-ocr/5/tessdata
//	stroke: 2
//
// Environment variables:
//
//	DIAGRAM_MCP_LOG_LEVEL   debug | info
//	DIAGRAM_MCP_CONFIDENCE  detection confidence threshold in [0,1]
//	DIAGRAM_MCP_WORKERS     goroutines used to plan a render
//	DIAGRAM_MCP_OCR_LANG    Tesseract language code
//	TESSDATA_PREFIX         Tesseract traineddata directory
package config
