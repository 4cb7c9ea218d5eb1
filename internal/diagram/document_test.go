package diagram

import (
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestParseDetections_Mapping(t *testing.T) {
	data := []byte(`
detections:
  - class: rectangle
    bbox: [10, 10, 50, 40]
    confidence: 0.91
  - class_index: 5
    bbox: [12.7, 14.2, 48.9, 36.5]
    confidence: 0.88
    text: Start
    text_confidence: 0.97
`)

	dets, err := ParseDetections(data)
	if err != nil {
		t.Fatalf("ParseDetections failed: %v", err)
	}
	if len(dets) != 2 {
		t.Fatalf("got %d detections, want 2", len(dets))
	}

	want0 := Detection{
		Class:      Rectangle,
		ClassIndex: 1,
		Box:        BBox{10, 10, 50, 40},
		Confidence: 0.91,
		Label:      "rectangle",
	}
	if dets[0] != want0 {
		t.Errorf("detection 0 = %+v, want %+v", dets[0], want0)
	}

	want1 := Detection{
		Class:          Text,
		ClassIndex:     5,
		Box:            BBox{12, 14, 48, 36},
		Confidence:     0.88,
		Label:          "text",
		Text:           "Start",
		TextConfidence: 0.97,
	}
	if dets[1] != want1 {
		t.Errorf("detection 1 = %+v, want %+v", dets[1], want1)
	}
}

func TestParseDetections_ListAndJSON(t *testing.T) {
	inputs := map[string]string{
		"yaml list": "- {class: arrow, bbox: [0, 0, 60, 20], confidence: 0.7}\n",
		"json list": `[{"class": "arrow", "bbox": [0, 0, 60, 20], "confidence": 0.7}]`,
		"json doc":  `{"detections": [{"class": "arrow", "bbox": [0, 0, 60, 20], "confidence": 0.7}]}`,
	}

	for name, in := range inputs {
		t.Run(name, func(t *testing.T) {
			dets, err := ParseDetections([]byte(in))
			if err != nil {
				t.Fatalf("ParseDetections failed: %v", err)
			}
			if len(dets) != 1 || dets[0].Class != Arrow || dets[0].Box != (BBox{0, 0, 60, 20}) {
				t.Errorf("got %+v", dets)
			}
		})
	}
}

func TestParseDetections_UnknownClassKept(t *testing.T) {
	dets, err := ParseDetections([]byte(`
- class: hexagon
  bbox: [1, 2, 3, 4]
  confidence: 0.8
- class_index: 9
  bbox: [1, 2, 3, 4]
  confidence: 0.8
`))
	if err != nil {
		t.Fatalf("ParseDetections failed: %v", err)
	}
	if dets[0].Class != Invalid || dets[0].Label != "hexagon" {
		t.Errorf("named unknown: got class %v label %q", dets[0].Class, dets[0].Label)
	}
	if dets[1].Class != Invalid || dets[1].ClassIndex != 9 {
		t.Errorf("indexed unknown: got class %v index %d", dets[1].Class, dets[1].ClassIndex)
	}
}

func TestParseDetections_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{"short bbox", "- {class: arrow, bbox: [0, 0, 60], confidence: 0.7}", "bbox needs 4"},
		{"no bbox", "- {class: arrow, confidence: 0.7}", "bbox needs 4"},
		{"no class", "- {bbox: [0, 0, 1, 1], confidence: 0.7}", "missing class"},
		{"not yaml", "detections: [", "failed to parse"},
		{"scalar", "42", "failed to parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDetections([]byte(tt.input))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not mention %q", err, tt.wantMsg)
			}
			if !errors.Is(err, ErrDetection) {
				t.Errorf("error %v should wrap ErrDetection", err)
			}
		})
	}
}

func TestWriteLoadDetections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "detections.yaml")
	dets := []Detection{
		{Class: Diamond, ClassIndex: 3, Box: BBox{5, 6, 70, 80}, Confidence: 0.75, Label: "diamond"},
		{Class: Text, ClassIndex: 5, Box: BBox{1, 1, 30, 12}, Confidence: 0.6, Label: "text", Text: "Yes", TextConfidence: 0.9},
		{Class: Invalid, ClassIndex: 7, Box: BBox{0, 0, 2, 2}, Confidence: 0.55, Label: "star"},
	}

	if err := WriteDetections(path, dets); err != nil {
		t.Fatalf("WriteDetections failed: %v", err)
	}
	got, err := LoadDetections(path)
	if err != nil {
		t.Fatalf("LoadDetections failed: %v", err)
	}
	if !reflect.DeepEqual(got, dets) {
		t.Errorf("reloaded detections differ:\n got %+v\nwant %+v", got, dets)
	}
}

func TestLoadDetections_MissingFile(t *testing.T) {
	_, err := LoadDetections(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("LoadDetections should fail for a missing file")
	}
	if errors.Is(err, ErrDetection) {
		t.Error("a missing file is not a malformed document")
	}
}
