package compose

import (
	"image"
	"math"

	xdraw "golang.org/x/image/draw"

	"github.com/cbmap/mapcore"
	"github.com/cbmap/mapcore/layer"
)

// renderPaint samples a paint layer's buffer through the viewport transform
// into a premultiplied contribution buffer. Non-1:1 zoom goes through a
// bilinear scaler; the exact-fit case is a plain copy.
func (c *Compositor) renderPaint(l *layer.Layer, vp Viewport) []float32 {
	buf := make([]float32, vp.Width*vp.Height*4)
	p := l.Paint()
	if p == nil || p.Pixmap == nil || p.Pixmap.Width() == 0 || p.Pixmap.Height() == 0 {
		return buf
	}

	src := p.Pixmap.ToImage()
	m := vp.WorldToScreen()
	tl := m.Apply(p.Origin)
	br := m.Apply(p.Origin.Add(mapcore.Pt(
		float64(p.Pixmap.Width())*p.Scale,
		float64(p.Pixmap.Height())*p.Scale,
	)))
	dr := image.Rect(
		int(math.Round(tl.X)), int(math.Round(tl.Y)),
		int(math.Round(br.X)), int(math.Round(br.Y)),
	)
	if dr.Empty() || !dr.Overlaps(image.Rect(0, 0, vp.Width, vp.Height)) {
		return buf
	}

	dst := image.NewNRGBA(image.Rect(0, 0, vp.Width, vp.Height))
	if dr.Dx() == src.Bounds().Dx() && dr.Dy() == src.Bounds().Dy() {
		xdraw.Draw(dst, dr, src, src.Bounds().Min, xdraw.Src)
	} else {
		xdraw.BiLinear.Scale(dst, dr, src, src.Bounds(), xdraw.Src, nil)
	}

	for y := 0; y < vp.Height; y++ {
		for x := 0; x < vp.Width; x++ {
			o := dst.PixOffset(x, y)
			a := float32(dst.Pix[o+3]) / 255
			if a == 0 {
				continue
			}
			i := (y*vp.Width + x) * 4
			buf[i] = float32(dst.Pix[o]) / 255 * a
			buf[i+1] = float32(dst.Pix[o+1]) / 255 * a
			buf[i+2] = float32(dst.Pix[o+2]) / 255 * a
			buf[i+3] = a
		}
	}
	return buf
}
