// Package imaging loads diagram images from disk and writes rendered ones back.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with (0,0) at the top-left corner, X
// increasing rightward and Y increasing downward. Images are decoded upright:
// EXIF orientation is applied on load, so a phone photo and its detections
// share one frame.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Cached images must be treated
// as read-only.
//
// # Output
//
// EncodePNG produces the base64 payload returned by the MCP tools. SaveImage
// writes a file whose format follows its extension.
//
// # Performance Considerations
//
// Large images may consume significant memory when cached. Use Evict() or
// Clear() to manage memory for long-running processes.
package imaging
