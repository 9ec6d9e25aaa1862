package pdf

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func TestOpaqueCrop(t *testing.T) {
	page := image.NewRGBA(image.Rect(0, 0, 10, 10))
	page.SetRGBA(4, 5, color.RGBA{R: 200, G: 100, B: 50, A: 128})
	page.SetRGBA(3, 4, color.RGBA{R: 10, G: 20, B: 30, A: 0})

	crop := image.Rect(3, 4, 7, 8)
	out := opaqueCrop(page, crop)

	if out.Bounds() != image.Rect(0, 0, 4, 4) {
		t.Fatalf("bounds = %v, want origin-based 4x4", out.Bounds())
	}

	// Colors carry over, alpha is forced opaque.
	if got := out.RGBAAt(1, 1); got.R != 200 || got.G != 100 || got.B != 50 || got.A != 0xff {
		t.Errorf("pixel (1,1) = %+v, want RGB(200,100,50) opaque", got)
	}
	for i := 3; i < len(out.Pix); i += 4 {
		if out.Pix[i] != 0xff {
			t.Fatalf("pixel %d has alpha %d, want 255", i/4, out.Pix[i])
		}
	}
}

func TestOpaqueCrop_EncodesWithoutAlphaChannel(t *testing.T) {
	page := image.NewRGBA(image.Rect(0, 0, 8, 8))
	out := opaqueCrop(page, image.Rect(0, 0, 8, 8))

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	// PNG IHDR: byte 25 is the color type; 2 is truecolor without alpha.
	data := buf.Bytes()
	if len(data) < 26 {
		t.Fatalf("PNG too short: %d bytes", len(data))
	}
	if data[25] != 2 {
		t.Errorf("PNG color type = %d, want 2 (opaque truecolor)", data[25])
	}
}
