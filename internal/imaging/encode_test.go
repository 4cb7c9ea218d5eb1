package imaging

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"
)

func newCanvas(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	img.SetNRGBA(3, 4, color.NRGBA{190, 50, 50, 255})
	return img
}

func TestEncodePNG(t *testing.T) {
	canvas := newCanvas(32, 24)

	enc, err := EncodePNG(canvas)
	if err != nil {
		t.Fatalf("EncodePNG failed: %v", err)
	}
	if enc.Width != 32 || enc.Height != 24 {
		t.Errorf("dimensions: got %dx%d, want 32x24", enc.Width, enc.Height)
	}
	if enc.MimeType != "image/png" {
		t.Errorf("MimeType: got %s, want image/png", enc.MimeType)
	}

	raw, err := base64.StdEncoding.DecodeString(enc.ImageBase64)
	if err != nil {
		t.Fatalf("failed to decode base64: %v", err)
	}
	decoded, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("failed to decode PNG: %v", err)
	}
	r, g, b, _ := decoded.At(3, 4).RGBA()
	if r>>8 != 190 || g>>8 != 50 || b>>8 != 50 {
		t.Errorf("pixel (3,4): got (%d,%d,%d), want (190,50,50)", r>>8, g>>8, b>>8)
	}
}

func TestSaveImage(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"out.png", "out.jpg", "out.bmp", "out.data"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := SaveImage(path, newCanvas(16, 16)); err != nil {
				t.Fatalf("SaveImage failed: %v", err)
			}

			img, err := NewImageCache().Load(path)
			if err != nil {
				t.Fatalf("reloading %s failed: %v", name, err)
			}
			if b := img.Bounds(); b.Dx() != 16 || b.Dy() != 16 {
				t.Errorf("dimensions: got %dx%d, want 16x16", b.Dx(), b.Dy())
			}
		})
	}
}

func TestSaveImage_BadDirectory(t *testing.T) {
	err := SaveImage(filepath.Join(t.TempDir(), "missing", "out.png"), newCanvas(4, 4))
	if err == nil {
		t.Error("SaveImage should fail when the directory does not exist")
	}
}
