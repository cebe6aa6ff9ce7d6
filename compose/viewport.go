package compose

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/cbmap/mapcore"
)

// Viewport maps between world coordinates and the output framebuffer.
// Target is the world point shown at the center of the output; Zoom is
// screen pixels per world unit.
type Viewport struct {
	Target mapcore.Point
	Zoom   float64
	Width  int
	Height int
}

// WorldToScreen returns the transform from world space to pixel space.
func (v Viewport) WorldToScreen() mapcore.Matrix {
	return mapcore.Translate(float64(v.Width)/2, float64(v.Height)/2).
		Multiply(mapcore.Scale(v.Zoom, v.Zoom)).
		Multiply(mapcore.Translate(-v.Target.X, -v.Target.Y))
}

// ScreenToWorld returns the inverse transform. The viewport is validated
// before rendering, so the transform is always invertible here.
func (v Viewport) ScreenToWorld() mapcore.Matrix {
	m, _ := v.WorldToScreen().Invert()
	return m
}

// key fingerprints the viewport for contribution and tile reuse.
func (v Viewport) key() uint64 {
	var buf [40]byte
	binary.LittleEndian.PutUint64(buf[0:], math.Float64bits(v.Target.X))
	binary.LittleEndian.PutUint64(buf[8:], math.Float64bits(v.Target.Y))
	binary.LittleEndian.PutUint64(buf[16:], math.Float64bits(v.Zoom))
	binary.LittleEndian.PutUint64(buf[24:], uint64(v.Width))
	binary.LittleEndian.PutUint64(buf[32:], uint64(v.Height))
	return xxhash.Sum64(buf[:])
}
