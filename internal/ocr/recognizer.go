package ocr

import (
	"context"
	"fmt"
	"image"

	"github.com/ironsheep/diagram-tools-mcp/internal/diagram"
)

// Recognizer reads the text inside box of img.
type Recognizer interface {
	Recognize(ctx context.Context, img image.Image, box diagram.BBox) (text string, confidence float64, err error)
}

// ReadText runs rec on every text detection in dets and returns a copy of dets
// with Text and TextConfidence filled in. Other detections are copied unchanged.
func ReadText(ctx context.Context, img image.Image, dets []diagram.Detection, rec Recognizer) ([]diagram.Detection, error) {
	out := make([]diagram.Detection, len(dets))
	copy(out, dets)

	for _, i := range diagram.TextTargets(out) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text, conf, err := rec.Recognize(ctx, img, out[i].Box)
		if err != nil {
			return nil, fmt.Errorf("%w: detection %d %v: %v", diagram.ErrRecognition, i, out[i].Box, err)
		}
		out[i].Text = text
		out[i].TextConfidence = conf
	}
	return out, nil
}
