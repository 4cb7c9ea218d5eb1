// Package diagram defines the data model shared by the flowchart reconstruction
// packages: shape classes, bounding boxes, detections and the error taxonomy.
//
// Detections are produced upstream by an object detector and, for text elements,
// a text recogniser. This package never runs either model; it only describes the
// records they hand over and the bookkeeping around them.
//
// # Coordinate System
//
// All coordinates are integer pixels with (0,0) at the top-left corner, X growing
// rightward and Y growing downward. A BBox is given by its corners (X0,Y0) and
// (X1,Y1) with X0 < X1 and Y0 < Y1.
//
// # Classes
//
// The class set is closed and ordered the way the detector labels it:
//
//	0 circle, 1 rectangle, 2 parallelogram, 3 diamond, 4 arrow, 5 text
//
// Any other value is invalid and is rejected by consumers with ErrUnknownShapeClass.
//
// # Detection Documents
//
// LoadDetections and WriteDetections read and write detection lists as YAML.
// Since JSON is valid YAML, JSON documents are accepted too.
package diagram
