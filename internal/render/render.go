package render

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"log"
	"runtime"

	"github.com/disintegration/imaging"
	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/diagram-tools-mcp/internal/arrow"
	"github.com/ironsheep/diagram-tools-mcp/internal/diagram"
)

// Options configures a Renderer. Zero fields take the values of DefaultOptions.
type Options struct {
	// Workers bounds how many elements are planned concurrently.
	Workers int

	// Thickness is the stroke width in pixels.
	Thickness int

	// Typeface measures and draws text elements.
	Typeface Typeface

	// Logger receives one line per failed element.
	Logger *log.Logger
}

// DefaultOptions returns a 2px stroke, Go Regular text, one worker per CPU and
// the standard logger.
func DefaultOptions() Options {
	return Options{
		Workers:   runtime.GOMAXPROCS(0),
		Thickness: 2,
		Typeface:  GoRegular(),
		Logger:    log.Default(),
	}
}

// Renderer redraws typed detections as a clean diagram.
// A Renderer holds no per-render state and is safe for concurrent use.
type Renderer struct {
	opts Options
}

// New creates a Renderer, filling unset options from DefaultOptions.
func New(opts Options) *Renderer {
	if opts.Workers < 1 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	if opts.Thickness < 1 {
		opts.Thickness = 2
	}
	if opts.Typeface == nil {
		opts.Typeface = GoRegular()
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Renderer{opts: opts}
}

// paintFunc draws one planned element onto the canvas.
type paintFunc func(dst *image.NRGBA) error

// Render draws dets onto a new white canvas the size of src.
//
// Each element is planned independently (arrow endpoints resolved, text fitted),
// possibly in parallel, and then painted in detection order so that overlapping
// elements stack the same way on every run.
//
// Rendering is best effort per element: an element that fails is logged, left
// off the canvas and reported in the returned error as a *diagram.ElementError,
// while every other element is still drawn. The returned error joins all element
// failures and is nil when every element was drawn. The canvas is nil only when
// ctx ends before rendering completes, in which case the context error is
// returned.
func (r *Renderer) Render(ctx context.Context, dets []diagram.Detection, src image.Image) (*image.NRGBA, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bounds := src.Bounds()
	if bounds.Min != (image.Point{}) {
		src = imaging.Clone(src)
	}
	canvas := imaging.New(bounds.Dx(), bounds.Dy(), color.White)

	var gray *image.Gray
	for _, d := range dets {
		if d.Class == diagram.Arrow {
			gray = arrow.Grayscale(src)
			break
		}
	}

	plans := make([]paintFunc, len(dets))
	errs := make([]error, len(dets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Workers)
	for i, d := range dets {
		i, d := i, d
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			d.Box = shift(d.Box, bounds.Min)
			plans[i], errs[i] = r.plan(d, gray)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var failed []error
	for i, paint := range plans {
		if errs[i] == nil {
			errs[i] = paint(canvas)
		}
		if errs[i] != nil {
			ee := &diagram.ElementError{Index: i, Class: dets[i].Class, Err: errs[i]}
			r.opts.Logger.Printf("render: %v", ee)
			failed = append(failed, ee)
		}
	}

	return canvas, errors.Join(failed...)
}

// plan validates one detection and prepares its drawing.
func (r *Renderer) plan(d diagram.Detection, gray *image.Gray) (paintFunc, error) {
	if !d.Class.Valid() {
		name := d.Label
		if name == "" {
			name = d.Class.String()
		}
		return nil, fmt.Errorf("%w: %q", diagram.ErrUnknownShapeClass, name)
	}
	if d.Box.Empty() {
		return nil, fmt.Errorf("%w: %s box %s has no area", diagram.ErrInvalidGeometry, d.Class, d.Box)
	}

	t := r.opts.Thickness
	c := d.Class.Color()
	b := d.Box

	switch d.Class {
	case diagram.Rectangle:
		return func(dst *image.NRGBA) error {
			strokeRect(dst, b.Rect(), t, c)
			return nil
		}, nil

	case diagram.Circle:
		rx, ry := b.Width()/2, b.Height()/2
		center := image.Pt(b.X0+rx, b.Y0+ry)
		return func(dst *image.NRGBA) error {
			strokeEllipse(dst, center, rx, ry, t, c)
			return nil
		}, nil

	case diagram.Parallelogram:
		return func(dst *image.NRGBA) error {
			strokePolygon(dst, parallelogram(b), t, c)
			return nil
		}, nil

	case diagram.Diamond:
		return func(dst *image.NRGBA) error {
			strokePolygon(dst, diamond(b), t, c)
			return nil
		}, nil

	case diagram.Arrow:
		ends, err := arrow.Resolve(gray, b)
		if err != nil {
			return nil, err
		}
		return func(dst *image.NRGBA) error {
			strokeArrow(dst, ends.Start.ImagePoint(), ends.End.ImagePoint(), t, c)
			return nil
		}, nil

	case diagram.Text:
		fit, err := fitText(r.opts.Typeface, d.Text, b)
		if err != nil {
			return nil, err
		}
		return func(dst *image.NRGBA) error {
			return r.opts.Typeface.Draw(dst, d.Text, fit.Scale, fit.Dot, c)
		}, nil
	}

	return nil, fmt.Errorf("%w: %s", diagram.ErrUnknownShapeClass, d.Class)
}

// parallelogram returns the corners of a parallelogram slanting right, with the
// top-left and bottom-right corners inset by a sixth of the width.
func parallelogram(b diagram.BBox) []image.Point {
	off := b.Width() / 6
	return []image.Point{
		{X: b.X0 + off, Y: b.Y0},
		{X: b.X1, Y: b.Y0},
		{X: b.X1 - off, Y: b.Y1},
		{X: b.X0, Y: b.Y1},
	}
}

// diamond returns the midpoints of the top, right, bottom and left edges of b.
func diamond(b diagram.BBox) []image.Point {
	cx := b.X0 + b.Width()/2
	cy := b.Y0 + b.Height()/2
	return []image.Point{
		{X: cx, Y: b.Y0},
		{X: b.X1, Y: cy},
		{X: cx, Y: b.Y1},
		{X: b.X0, Y: cy},
	}
}

// shift moves b into canvas coordinates, whose origin is the source's Min corner.
func shift(b diagram.BBox, origin image.Point) diagram.BBox {
	return diagram.BBox{
		X0: b.X0 - origin.X,
		Y0: b.Y0 - origin.Y,
		X1: b.X1 - origin.X,
		Y1: b.Y1 - origin.Y,
	}
}
