package diagram

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// record is the on-disk form of a Detection.
type record struct {
	Class          string    `yaml:"class,omitempty"`
	ClassIndex     *int      `yaml:"class_index,omitempty"`
	BBox           []float64 `yaml:"bbox,flow"`
	Confidence     float64   `yaml:"confidence"`
	Text           string    `yaml:"text,omitempty"`
	TextConfidence float64   `yaml:"text_confidence,omitempty"`
}

type document struct {
	Detections []record `yaml:"detections"`
}

// LoadDetections reads a detection document from a YAML or JSON file.
func LoadDetections(path string) ([]Detection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read detections: %w", err)
	}
	return ParseDetections(data)
}

// ParseDetections decodes a detection document. The document is either a list of
// records or a mapping with a "detections" list:
//
//	detections:
//	  - class: rectangle
//	    bbox: [10, 10, 50, 40]
//	    confidence: 0.91
//	  - class_index: 5
//	    bbox: [12, 14, 48, 36]
//	    confidence: 0.88
//	    text: Start
//	    text_confidence: 0.97
//
// A record names its class either by "class" or by "class_index". Records with an
// unknown class are kept with Class set to Invalid so that the renderer reports
// them; a record without any class or without a four-number bbox is an error.
// Decoding errors wrap ErrDetection.
func ParseDetections(data []byte) ([]Detection, error) {
	var records []record

	var doc document
	if err := yaml.Unmarshal(data, &doc); err == nil && doc.Detections != nil {
		records = doc.Detections
	} else if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: failed to parse detections: %w", ErrDetection, err)
	}

	dets := make([]Detection, 0, len(records))
	for i, r := range records {
		d, err := r.detection()
		if err != nil {
			return nil, fmt.Errorf("%w: detection %d: %w", ErrDetection, i, err)
		}
		dets = append(dets, d)
	}
	return dets, nil
}

func (r record) detection() (Detection, error) {
	if len(r.BBox) != 4 {
		return Detection{}, fmt.Errorf("bbox needs 4 coordinates, got %d", len(r.BBox))
	}

	d := Detection{
		Box:            BBoxFromFloats(r.BBox[0], r.BBox[1], r.BBox[2], r.BBox[3]),
		Confidence:     r.Confidence,
		Label:          r.Class,
		Text:           r.Text,
		TextConfidence: r.TextConfidence,
	}

	switch {
	case r.Class != "":
		// Unknown names become Invalid and are reported at render time.
		d.Class, _ = ParseClass(r.Class)
	case r.ClassIndex != nil:
		c, _ := ClassFromIndex(*r.ClassIndex)
		d.Class = c
		d.Label = c.String()
	default:
		return Detection{}, errors.New("missing class and class_index")
	}

	if r.ClassIndex != nil {
		d.ClassIndex = *r.ClassIndex
	} else {
		d.ClassIndex = int(d.Class)
	}
	return d, nil
}

// WriteDetections writes dets to path as a YAML detection document.
func WriteDetections(path string, dets []Detection) error {
	doc := document{Detections: make([]record, 0, len(dets))}
	for _, d := range dets {
		idx := d.ClassIndex
		name := d.Label
		if d.Class.Valid() {
			name = d.Class.String()
		}
		doc.Detections = append(doc.Detections, record{
			Class:      name,
			ClassIndex: &idx,
			BBox: []float64{
				float64(d.Box.X0), float64(d.Box.Y0),
				float64(d.Box.X1), float64(d.Box.Y1),
			},
			Confidence:     d.Confidence,
			Text:           d.Text,
			TextConfidence: d.TextConfidence,
		})
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode detections: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
