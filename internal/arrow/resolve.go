package arrow

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/effect"

	"github.com/ironsheep/diagram-tools-mcp/internal/diagram"
)

// MinSide is the smallest box width and height Resolve accepts. Smaller boxes
// cannot be split into halves and thirds that all contain pixels.
const MinSide = 6

// band is the row third of a half that an endpoint touches.
type band int

const (
	bandTop band = iota
	bandMid
	bandBot
)

// side is a half of the normalised box.
type side int

const (
	sideLeft side = iota
	sideRight
)

// ITU-R BT.601 luma weights.
const (
	lumaR = 0.299
	lumaG = 0.587
	lumaB = 0.114
)

// Grayscale converts img to 8-bit BT.601 luma. A *image.Gray anchored at the
// origin is returned as is.
func Grayscale(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok && g.Rect.Min == (image.Point{}) {
		return g
	}

	rgba := effect.GrayscaleWithWeights(img, lumaR, lumaG, lumaB)
	b := rgba.Bounds()
	gray := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		src := rgba.Pix[rgba.PixOffset(b.Min.X, y):]
		dst := gray.Pix[gray.PixOffset(b.Min.X, y):]
		for x := 0; x < b.Dx(); x++ {
			dst[x] = src[4*x]
		}
	}
	return gray
}

// Resolve finds the tail and head of the arrow inside box.
//
// The box is first clipped to the image bounds. Both points lie on the clipped
// box's two short edges, at the top corner, the bottom corner or halfway between.
//
// # Errors
//
// Returns an error wrapping diagram.ErrInvalidGeometry if box is empty or
// inverted, or if the clipped box is narrower or shorter than MinSide pixels.
func Resolve(gray *image.Gray, box diagram.BBox) (diagram.ArrowEndpoints, error) {
	if box.Empty() {
		return diagram.ArrowEndpoints{}, fmt.Errorf("%w: arrow box %s has no area", diagram.ErrInvalidGeometry, box)
	}
	clipped := box.Clip(gray.Bounds())
	if clipped.Width() < MinSide || clipped.Height() < MinSide {
		return diagram.ArrowEndpoints{}, fmt.Errorf("%w: arrow box %s (clipped %s) is smaller than %dx%d",
			diagram.ErrInvalidGeometry, box, clipped, MinSide, MinSide)
	}

	v := newView(gray, clipped)
	w, h := v.width(), v.height()

	head := sideRight
	if v.sum(0, w/2, 0, h) < v.sum(w/2, w, 0, h) {
		head = sideLeft
	}
	tail := sideLeft
	if head == sideLeft {
		tail = sideRight
	}

	end := v.place(head, v.choose(head, head))
	start := v.place(tail, v.choose(tail, head))

	return diagram.ArrowEndpoints{
		Start: v.unmap(start),
		End:   v.unmap(end),
	}, nil
}

// choose picks the band of half s using the comparison rule of the branch in
// which the head lies on headSide.
func (v *view) choose(s, headSide side) band {
	w, h := v.width(), v.height()
	x0, x1 := 0, w/2
	if s == sideRight {
		x0, x1 = w/2, w
	}

	third := h / 3
	top := v.sum(x0, x1, 0, third)
	mid := v.sum(x0, x1, third, 2*third)
	bot := v.sum(x0, x1, 2*third, h)

	midWins := mid < top && mid < bot
	if headSide == sideRight {
		midWins = mid < top && mid > bot
	}

	switch {
	case midWins:
		return bandMid
	case top < bot:
		return bandTop
	default:
		return bandBot
	}
}

// place returns the point on the outer edge of half s at band b, in normalised
// coordinates.
func (v *view) place(s side, b band) diagram.Point {
	p := diagram.Point{X: v.box.X0}
	if s == sideRight {
		p.X = v.box.X1
	}
	switch b {
	case bandTop:
		p.Y = v.box.Y0
	case bandMid:
		p.Y = v.box.Y0 + v.height()/2
	default:
		p.Y = v.box.Y1
	}
	return p
}
