// Package render redraws a list of typed diagram detections as a clean schematic.
//
// The Renderer starts from a white canvas the size of the source image and draws
// each detection in its class colour with a 2px stroke:
//
//   - rectangle: outline on the box
//   - circle: ellipse inscribed in the box
//   - parallelogram: top-left and bottom-right corners inset by width/6
//   - diamond: polygon through the four edge midpoints
//   - arrow: line from tail to head with an arrowhead, endpoints from arrow.Resolve
//   - text: the recognised string at the largest scale that fits the box
//
// # Failures
//
// Rendering is best effort per element. A detection with an unknown class, a
// degenerate box or an unmeasurable string is left off the canvas, logged, and
// reported as a *diagram.ElementError in the joined error returned by Render.
//
// # Concurrency
//
// Planning an element (resolving arrow endpoints, fitting text) may run on
// several goroutines; painting is always a single pass in detection order. The
// output is therefore identical for any worker count.
package render
