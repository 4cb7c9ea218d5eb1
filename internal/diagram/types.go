package diagram

import (
	"fmt"
	"image"
)

// Point is an integer pixel coordinate.
type Point struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// ImagePoint converts p to an image.Point.
func (p Point) ImagePoint() image.Point {
	return image.Pt(p.X, p.Y)
}

// BBox is an axis-aligned bounding box in pixel coordinates.
type BBox struct {
	X0 int `json:"x0" yaml:"x0"` // Left edge
	Y0 int `json:"y0" yaml:"y0"` // Top edge
	X1 int `json:"x1" yaml:"x1"` // Right edge
	Y1 int `json:"y1" yaml:"y1"` // Bottom edge
}

// BBoxFromFloats builds a box from detector output, truncating each coordinate
// toward zero.
func BBoxFromFloats(x0, y0, x1, y1 float64) BBox {
	return BBox{X0: int(x0), Y0: int(y0), X1: int(x1), Y1: int(y1)}
}

// Width returns X1 - X0.
func (b BBox) Width() int { return b.X1 - b.X0 }

// Height returns Y1 - Y0.
func (b BBox) Height() int { return b.Y1 - b.Y0 }

// Empty reports whether the box has no area.
func (b BBox) Empty() bool { return b.X1 <= b.X0 || b.Y1 <= b.Y0 }

// Rect converts the box to an image.Rectangle with the same corners.
func (b BBox) Rect() image.Rectangle {
	return image.Rect(b.X0, b.Y0, b.X1, b.Y1)
}

// Clip returns the intersection of b and r. An empty or inverted box clips to
// the zero box.
func (b BBox) Clip(r image.Rectangle) BBox {
	if b.Empty() {
		return BBox{}
	}
	c := b.Rect().Intersect(r)
	return BBox{X0: c.Min.X, Y0: c.Min.Y, X1: c.Max.X, Y1: c.Max.Y}
}

func (b BBox) String() string {
	return fmt.Sprintf("(%d,%d)-(%d,%d)", b.X0, b.Y0, b.X1, b.Y1)
}

// Detection is one typed element found in a diagram image.
//
// Detections are immutable value records: functions that add information (such as
// recognised text) return modified copies.
type Detection struct {
	// Class is the element kind.
	Class Class `json:"class"`

	// ClassIndex is the raw label index reported by the detector.
	ClassIndex int `json:"class_index"`

	// Box is the element's bounding box.
	Box BBox `json:"bbox"`

	// Confidence is the detector score in [0,1].
	Confidence float64 `json:"confidence"`

	// Label is the class name as it appeared upstream. It is kept so that records
	// with an unknown class can still be reported by name.
	Label string `json:"label,omitempty"`

	// Text and TextConfidence are set only for Text detections after recognition.
	Text           string  `json:"text,omitempty"`
	TextConfidence float64 `json:"text_confidence,omitempty"`
}

// ArrowEndpoints is the direction of an arrow: Start is the tail, End the head.
type ArrowEndpoints struct {
	Start Point `json:"start"`
	End   Point `json:"end"`
}

// FilterByConfidence keeps the detections whose confidence is at least threshold,
// preserving order.
func FilterByConfidence(dets []Detection, threshold float64) []Detection {
	out := make([]Detection, 0, len(dets))
	for _, d := range dets {
		if d.Confidence >= threshold {
			out = append(out, d)
		}
	}
	return out
}

// TextTargets returns the indices of the Text detections in dets.
func TextTargets(dets []Detection) []int {
	var idx []int
	for i, d := range dets {
		if d.Class == Text {
			idx = append(idx, i)
		}
	}
	return idx
}
