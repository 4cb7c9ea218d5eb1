package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"

	"github.com/ironsheep/diagram-tools-mcp/internal/diagram"
)

// DefaultLanguage is the Tesseract language used when none is configured.
const DefaultLanguage = "eng"

// CropPadding is the margin, in pixels, added around a text box before
// recognition. Detector boxes tend to hug the glyphs and Tesseract reads
// clipped strokes poorly.
const CropPadding = 4

// Tesseract recognises text with a local Tesseract install.
//
// Each call opens its own gosseract client, so a Tesseract value may be shared
// between goroutines.
type Tesseract struct {
	// Language is a Tesseract language code such as "eng" or "deu+eng".
	Language string

	// TessdataPrefix overrides the directory holding the traineddata files.
	TessdataPrefix string
}

// NewTesseract returns a recogniser for language. An empty language means
// DefaultLanguage.
func NewTesseract(language, tessdataPrefix string) *Tesseract {
	if language == "" {
		language = DefaultLanguage
	}
	return &Tesseract{Language: language, TessdataPrefix: tessdataPrefix}
}

// Recognize crops box (plus CropPadding) out of img and returns the recognised
// text with surrounding whitespace trimmed, and the mean word confidence.
func (t *Tesseract) Recognize(ctx context.Context, img image.Image, box diagram.BBox) (string, float64, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}

	region := image.Rect(
		box.X0-CropPadding, box.Y0-CropPadding,
		box.X1+CropPadding, box.Y1+CropPadding,
	).Intersect(img.Bounds())
	if region.Empty() {
		return "", 0, fmt.Errorf("%w: box %v is outside the image", diagram.ErrInvalidGeometry, box)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, imaging.Crop(img, region)); err != nil {
		return "", 0, fmt.Errorf("failed to encode crop: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if t.TessdataPrefix != "" {
		if err := client.SetTessdataPrefix(t.TessdataPrefix); err != nil {
			return "", 0, fmt.Errorf("failed to set tessdata path: %w", err)
		}
	}
	if err := client.SetLanguage(t.Language); err != nil {
		return "", 0, fmt.Errorf("failed to set language: %w", err)
	}
	// A text box holds one label, usually a single line.
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK); err != nil {
		return "", 0, fmt.Errorf("failed to set page segmentation mode: %w", err)
	}
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return "", 0, fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", 0, fmt.Errorf("OCR failed: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		// Text without confidences is still usable.
		return strings.TrimSpace(text), 0, nil
	}
	return strings.TrimSpace(text), meanConfidence(boxes), nil
}

// meanConfidence averages the confidence of the non-empty words, scaled to [0,1].
func meanConfidence(boxes []gosseract.BoundingBox) float64 {
	var sum float64
	var n int
	for _, b := range boxes {
		if strings.TrimSpace(b.Word) == "" {
			continue
		}
		sum += float64(b.Confidence)
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n) / 100.0
}
