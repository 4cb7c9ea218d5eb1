package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/ironsheep/diagram-tools-mcp/internal/diagram"
)

// ErrEmptyText reports a text element whose string has no measurable extent.
var ErrEmptyText = errors.New("text has no measurable extent")

// Typeface measures and draws text at a uniform scale factor. Scale 1 is the
// reference size; sizes grow linearly with scale.
type Typeface interface {
	// Measure returns the width of text and its height above the baseline.
	Measure(text string, scale float64) (image.Point, error)

	// Draw renders text with its baseline starting at dot.
	Draw(dst draw.Image, text string, scale float64, dot image.Point, c color.Color) error
}

// ReferenceSize is the pixel size of GoRegular text at scale 1.
const ReferenceSize = 22.0

// goRegular draws with the Go Regular font. Faces are built per call because
// font.Face values are not safe for concurrent use.
type goRegular struct {
	font *opentype.Font
}

// GoRegular returns the default Typeface, backed by the Go Regular TrueType font.
func GoRegular() Typeface {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		panic(err) // embedded font
	}
	return &goRegular{font: f}
}

func (g *goRegular) face(scale float64) (font.Face, error) {
	if scale <= 0 {
		return nil, fmt.Errorf("invalid text scale %g", scale)
	}
	return opentype.NewFace(g.font, &opentype.FaceOptions{
		Size:    ReferenceSize * scale,
		DPI:     72,
		Hinting: font.HintingNone,
	})
}

func (g *goRegular) Measure(text string, scale float64) (image.Point, error) {
	face, err := g.face(scale)
	if err != nil {
		return image.Point{}, err
	}
	defer face.Close()

	return image.Pt(
		font.MeasureString(face, text).Ceil(),
		face.Metrics().Ascent.Ceil(),
	), nil
}

func (g *goRegular) Draw(dst draw.Image, text string, scale float64, dot image.Point, c color.Color) error {
	face, err := g.face(scale)
	if err != nil {
		return err
	}
	defer face.Close()

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(dot.X, dot.Y),
	}
	d.DrawString(text)
	return nil
}

// maxShrinkSteps bounds the correction loop in fitText.
const maxShrinkSteps = 32

// textFit is where and how large a string is drawn inside its box.
type textFit struct {
	Scale float64
	Size  image.Point // measured size at Scale
	Dot   image.Point // baseline origin
}

// fitText computes the largest uniform scale at which text fits box, measuring at
// scale 1 and taking the smaller of the width and height ratios. The string is
// centred horizontally and its baseline is raised from the box bottom by half the
// unused height.
func fitText(tf Typeface, text string, box diagram.BBox) (textFit, error) {
	w, h := box.Width(), box.Height()
	if w <= 0 || h <= 0 {
		return textFit{}, fmt.Errorf("%w: text box %s", diagram.ErrInvalidGeometry, box)
	}

	ref, err := tf.Measure(text, 1)
	if err != nil {
		return textFit{}, err
	}
	if ref.X <= 0 || ref.Y <= 0 {
		return textFit{}, fmt.Errorf("%w: %q", ErrEmptyText, text)
	}

	scale := min(float64(w)/float64(ref.X), float64(h)/float64(ref.Y))
	size, err := tf.Measure(text, scale)
	if err != nil {
		return textFit{}, err
	}

	// Glyph metrics round up, so a face may overshoot the linear estimate by a pixel.
	for i := 0; i < maxShrinkSteps && (size.X > w || size.Y > h); i++ {
		scale *= 0.97
		if size, err = tf.Measure(text, scale); err != nil {
			return textFit{}, err
		}
	}

	return textFit{
		Scale: scale,
		Size:  size,
		Dot: image.Pt(
			box.X0+(w-size.X)/2,
			box.Y1-(h-size.Y)/2,
		),
	}, nil
}
