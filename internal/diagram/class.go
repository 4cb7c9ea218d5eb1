package diagram

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Class identifies the kind of a detected diagram element.
type Class int

// Detector label order. The numeric value of each class equals its class index.
const (
	Circle Class = iota
	Rectangle
	Parallelogram
	Diamond
	Arrow
	Text

	numClasses
)

// Invalid is the class assigned to records whose label is not part of the class set.
const Invalid Class = -1

var classNames = [numClasses]string{
	Circle:        "circle",
	Rectangle:     "rectangle",
	Parallelogram: "parallelogram",
	Diamond:       "diamond",
	Arrow:         "arrow",
	Text:          "text",
}

// palette holds the drawing colour of each class, given as 0-255 channel values.
var palette = [numClasses]colorful.Color{
	Circle:        rgb(81.92117536, 232.97617038, 143.66136337),
	Rectangle:     rgb(190, 50, 50),
	Parallelogram: rgb(100, 150, 250),
	Diamond:       rgb(20, 100, 100),
	Arrow:         rgb(200, 200, 200),
	Text:          rgb(50, 50, 190),
}

func rgb(r, g, b float64) colorful.Color {
	return colorful.Color{R: r / 255, G: g / 255, B: b / 255}
}

// Classes returns all valid classes in label order.
func Classes() []Class {
	out := make([]Class, 0, numClasses)
	for c := Circle; c < numClasses; c++ {
		out = append(out, c)
	}
	return out
}

// Valid reports whether c is one of the six known classes.
func (c Class) Valid() bool {
	return c >= Circle && c < numClasses
}

func (c Class) String() string {
	if !c.Valid() {
		return fmt.Sprintf("class(%d)", int(c))
	}
	return classNames[c]
}

// MarshalText encodes the class by name, so JSON results read "arrow" rather
// than 4.
func (c Class) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Color returns the drawing colour for the class as 8-bit RGBA.
// Invalid classes get opaque black.
func (c Class) Color() color.NRGBA {
	if !c.Valid() {
		return color.NRGBA{A: 255}
	}
	r, g, b := palette[c].RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

// ParseClass maps a detector label name to its class. Matching ignores case and
// surrounding whitespace.
func ParseClass(name string) (Class, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for c, n := range classNames {
		if n == key {
			return Class(c), nil
		}
	}
	return Invalid, fmt.Errorf("%w: %q", ErrUnknownShapeClass, name)
}

// ClassFromIndex maps a detector class index to its class.
func ClassFromIndex(i int) (Class, error) {
	c := Class(i)
	if !c.Valid() {
		return Invalid, fmt.Errorf("%w: index %d", ErrUnknownShapeClass, i)
	}
	return c, nil
}
