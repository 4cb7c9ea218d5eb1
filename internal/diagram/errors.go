package diagram

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidGeometry reports a bounding box that is too small, empty or outside
	// the image, so that it cannot be bisected and trisected.
	ErrInvalidGeometry = errors.New("invalid geometry")

	// ErrUnknownShapeClass reports a detection whose class is outside the class set.
	ErrUnknownShapeClass = errors.New("unknown shape class")

	// ErrDetection wraps failures reported by the object detector, including
	// detection documents that cannot be decoded.
	ErrDetection = errors.New("detection failed")

	// ErrRecognition wraps failures reported by the text recogniser.
	ErrRecognition = errors.New("text recognition failed")
)

// ElementError is a failure confined to a single detection of a batch.
// The rest of the batch is unaffected.
type ElementError struct {
	Index int   // position of the detection in the input slice
	Class Class // class of the failing detection
	Err   error
}

func (e *ElementError) Error() string {
	return fmt.Sprintf("element %d (%s): %v", e.Index, e.Class, e.Err)
}

func (e *ElementError) Unwrap() error {
	return e.Err
}
