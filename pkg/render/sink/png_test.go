package sink

import (
	"bytes"
	"image"
	"image/png"
	"testing"
)

func decodePNG(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	return img
}

func rgb8(img image.Image, x, y int) (r, g, b, a uint8) {
	cr, cg, cb, ca := img.At(x, y).RGBA()
	return uint8(cr >> 8), uint8(cg >> 8), uint8(cb >> 8), uint8(ca >> 8)
}

func within(a, b uint8, tol int) bool {
	d := int(a) - int(b)
	return d >= -tol && d <= tol
}

func TestRenderPNGSize(t *testing.T) {
	kb, vp := normalized(t, `[["A","B"]]`)
	data, err := RenderPNG(kb, vp, WithPixelWidth(440))
	if err != nil {
		t.Fatal(err)
	}
	b := decodePNG(t, data).Bounds()
	if b.Dx() != 440 || b.Dy() != 240 {
		t.Errorf("image = %dx%d, want 440x240", b.Dx(), b.Dy())
	}
}

func TestRenderPNGPaintsCap(t *testing.T) {
	// 1.2 U at 120 px puts 100 px on one U; the key spans pixels 10..110.
	kb, vp := normalized(t, `[[{"c":"#cc0000"},""]]`)
	data, err := RenderPNG(kb, vp, WithPixelWidth(120), WithBackground("#ffffff"))
	if err != nil {
		t.Fatal(err)
	}
	img := decodePNG(t, data)

	// Below the shine, inside the cap.
	r, g, b, _ := rgb8(img, 60, 100)
	if !within(r, 0xcc, 4) || !within(g, 0, 4) || !within(b, 0, 4) {
		t.Errorf("cap pixel = #%02x%02x%02x, want ~#cc0000", r, g, b)
	}

	// Padding area keeps the background.
	r, g, b, _ = rgb8(img, 3, 3)
	if r != 0xff || g != 0xff || b != 0xff {
		t.Errorf("padding pixel = #%02x%02x%02x, want #ffffff", r, g, b)
	}
}

func TestRenderPNGStrokeWidthInKeyUnits(t *testing.T) {
	// At 1200 px one U is 1000 px; a stroke scaled twice would cover the
	// whole canvas.
	kb, vp := normalized(t, `[[{"c":"#cc0000"},""]]`)
	tests := []struct {
		name  string
		width int
		x, y  int
	}{
		{"small", 120, 3, 3},
		{"default", 1200, 40, 40},
		{"right padding", 1200, 1160, 600},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := RenderPNG(kb, vp, WithPixelWidth(tt.width), WithBackground("#ffffff"))
			if err != nil {
				t.Fatal(err)
			}
			r, g, b, _ := rgb8(decodePNG(t, data), tt.x, tt.y)
			if r != 0xff || g != 0xff || b != 0xff {
				t.Errorf("pixel (%d,%d) = #%02x%02x%02x, want background", tt.x, tt.y, r, g, b)
			}
		})
	}
}

func TestRenderPNGTransparentByDefault(t *testing.T) {
	kb, vp := normalized(t, `[["A"]]`)
	data, err := RenderPNG(kb, vp, WithPixelWidth(120))
	if err != nil {
		t.Fatal(err)
	}
	if _, _, _, a := rgb8(decodePNG(t, data), 2, 2); a != 0 {
		t.Errorf("corner alpha = %d, want 0", a)
	}
}

func TestRenderPNGRotatedAndGhost(t *testing.T) {
	kb, vp := normalized(t, `[[{"r":30,"rx":0.5,"ry":0.5},"A"],[{"g":true},"G"]]`)
	data, err := RenderPNG(kb, vp, WithPivots())
	if err != nil {
		t.Fatal(err)
	}
	b := decodePNG(t, data).Bounds()
	if b.Dx() != DefaultPixelWidth || b.Dy() != vp.PixelHeight(DefaultPixelWidth) {
		t.Errorf("image = %dx%d", b.Dx(), b.Dy())
	}
}

func TestRenderPNGInvalidBackground(t *testing.T) {
	kb, vp := normalized(t, `[["A"]]`)
	if _, err := RenderPNG(kb, vp, WithBackground("not-a-color")); err == nil {
		t.Error("expected error for invalid background")
	}
}
