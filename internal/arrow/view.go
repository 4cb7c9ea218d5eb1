package arrow

import (
	"image"

	"github.com/ironsheep/diagram-tools-mcp/internal/diagram"
)

// view is a read-only window onto the pixels of a box, oriented so that it is at
// least as wide as it is tall. For a tall box the view is the transpose of the
// crop: view column c, row r reads image pixel (X0+r, Y0+c). Square boxes are
// never transposed.
type view struct {
	gray       *image.Gray
	origin     image.Point  // top-left pixel of the crop in the image
	box        diagram.BBox // box in normalised coordinates
	transposed bool
}

func newView(gray *image.Gray, box diagram.BBox) *view {
	v := &view{
		gray:   gray,
		origin: image.Pt(box.X0, box.Y0),
		box:    box,
	}
	if box.Height() > box.Width() {
		v.transposed = true
		v.box = diagram.BBox{X0: box.Y0, Y0: box.X0, X1: box.Y1, Y1: box.X1}
	}
	return v
}

func (v *view) width() int  { return v.box.Width() }
func (v *view) height() int { return v.box.Height() }

// at returns the intensity at view column c, row r.
func (v *view) at(c, r int) uint8 {
	x, y := v.origin.X+c, v.origin.Y+r
	if v.transposed {
		x, y = v.origin.X+r, v.origin.Y+c
	}
	return v.gray.Pix[v.gray.PixOffset(x, y)]
}

// sum adds the intensities of view columns [c0,c1) and rows [r0,r1).
func (v *view) sum(c0, c1, r0, r1 int) uint64 {
	var total uint64
	for r := r0; r < r1; r++ {
		for c := c0; c < c1; c++ {
			total += uint64(v.at(c, r))
		}
	}
	return total
}

// unmap converts a point from normalised to image coordinates.
func (v *view) unmap(p diagram.Point) diagram.Point {
	if v.transposed {
		return diagram.Point{X: p.Y, Y: p.X}
	}
	return p
}
