package mapcore

import (
	"bytes"
	"image"
	"image/png"
	"testing"
)

// Verify at compile time that Pixmap implements image.Image.
var _ image.Image = (*Pixmap)(nil)

func TestSetGetPixel(t *testing.T) {
	pm := NewPixmap(4, 4)
	c := RGB8(10, 20, 30)
	pm.SetPixel(1, 2, c)
	if got := pm.GetPixel(1, 2); got != c {
		t.Errorf("GetPixel = %+v, want %+v", got, c)
	}
	if got := pm.GetPixel(0, 0); got != Transparent {
		t.Errorf("unset pixel = %+v", got)
	}
}

func TestPixelOutOfBounds(t *testing.T) {
	pm := NewPixmap(2, 2)
	pm.SetPixel(-1, 0, White)
	pm.SetPixel(2, 0, White)
	pm.SetPixel(0, 2, White)
	if got := pm.GetPixel(-1, 0); got != Transparent {
		t.Errorf("out-of-bounds GetPixel = %+v", got)
	}
	for i, v := range pm.Data() {
		if v != 0 {
			t.Fatalf("out-of-bounds SetPixel wrote data[%d] = %d", i, v)
		}
	}
}

func TestClearAndClone(t *testing.T) {
	pm := NewPixmap(3, 3)
	pm.Clear(RGB(1, 0, 0))
	if got := pm.GetPixel(2, 2); got != RGB(1, 0, 0) {
		t.Errorf("Clear pixel = %+v", got)
	}

	cl := pm.Clone()
	cl.SetPixel(0, 0, White)
	if pm.GetPixel(0, 0) == White {
		t.Error("Clone shares storage with original")
	}
}

func TestImageRoundTrip(t *testing.T) {
	pm := NewPixmap(5, 3)
	pm.SetPixel(4, 2, RGBA{R: 1, G: 0.5, B: 0, A: 0.5})
	pm.SetPixel(0, 0, RGB8(1, 2, 3))

	got := FromImage(pm.ToImage())
	if got.Width() != 5 || got.Height() != 3 {
		t.Fatalf("size = %dx%d", got.Width(), got.Height())
	}
	if !bytes.Equal(got.Data(), pm.Data()) {
		t.Error("ToImage/FromImage roundtrip altered pixels")
	}
}

func TestEncodePNGRoundTrip(t *testing.T) {
	pm := NewPixmap(4, 4)
	pm.Clear(RGB8(12, 34, 56))
	pm.SetPixel(1, 1, RGBA{R: 0.5, G: 0.25, B: 1, A: 0.5})

	var buf bytes.Buffer
	if err := pm.EncodePNG(&buf); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	got := FromImage(img)
	if !bytes.Equal(got.Data(), pm.Data()) {
		t.Error("PNG roundtrip altered pixels")
	}
}
