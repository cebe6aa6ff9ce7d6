package sdf

import (
	"math"

	"github.com/cbmap/mapcore"
)

// Circle is a filled disc.
type Circle struct {
	Center mapcore.Point
	Radius float64
}

// Distance implements Primitive.
func (c Circle) Distance(p mapcore.Point) float64 {
	if c.Radius <= 0 {
		return math.Inf(1)
	}
	return p.Distance(c.Center) - c.Radius
}

// Gradient implements Primitive.
func (c Circle) Gradient(p mapcore.Point) mapcore.Point {
	if c.Radius <= 0 {
		return mapcore.Point{}
	}
	return p.Sub(c.Center).Normalize()
}

// Bounds implements Primitive.
func (c Circle) Bounds() mapcore.Rect {
	return mapcore.RectFromPoints(c.Center, c.Center).Inflate(c.Radius)
}

// Box is a filled axis-aligned square or rectangle given by half-extents.
type Box struct {
	Center mapcore.Point
	Half   mapcore.Point
}

// Distance implements Primitive.
func (b Box) Distance(p mapcore.Point) float64 {
	if b.Half.X <= 0 || b.Half.Y <= 0 {
		return math.Inf(1)
	}
	dx := math.Abs(p.X-b.Center.X) - b.Half.X
	dy := math.Abs(p.Y-b.Center.Y) - b.Half.Y
	outside := math.Hypot(math.Max(dx, 0), math.Max(dy, 0))
	inside := math.Min(math.Max(dx, dy), 0)
	return outside + inside
}

// Gradient implements Primitive.
func (b Box) Gradient(p mapcore.Point) mapcore.Point {
	return numericGradient(b.Distance, p)
}

// Bounds implements Primitive.
func (b Box) Bounds() mapcore.Rect {
	return mapcore.RectFromPoints(b.Center.Sub(b.Half), b.Center.Add(b.Half))
}

// Octagon is a filled regular octagon with flat top, given by its incircle
// radius. This is the default node shape in graph layers.
type Octagon struct {
	Center mapcore.Point
	Radius float64
}

// Distance implements Primitive.
func (o Octagon) Distance(p mapcore.Point) float64 {
	if o.Radius <= 0 {
		return math.Inf(1)
	}
	// Fold the query point into the first octant, then measure against the
	// single remaining edge.
	const kx, ky, kz = -0.9238795325, 0.3826834323, 0.4142135623
	x := math.Abs(p.X - o.Center.X)
	y := math.Abs(p.Y - o.Center.Y)
	t := 2 * math.Min(kx*x+ky*y, 0)
	x -= t * kx
	y -= t * ky
	t = 2 * math.Min(-kx*x+ky*y, 0)
	x += t * kx
	y -= t * ky
	dx := x - clamp(x, -kz*o.Radius, kz*o.Radius)
	dy := y - o.Radius
	d := math.Hypot(dx, dy)
	if dy < 0 {
		return -d
	}
	return d
}

// Gradient implements Primitive.
func (o Octagon) Gradient(p mapcore.Point) mapcore.Point {
	return numericGradient(o.Distance, p)
}

// Bounds implements Primitive.
func (o Octagon) Bounds() mapcore.Rect {
	// Circumradius of the octagon is Radius / cos(pi/8).
	r := o.Radius * 1.0823922
	return mapcore.RectFromPoints(o.Center, o.Center).Inflate(r)
}

// Segment is a thick line segment with independent end half-widths: a
// flat-capped trapezoid, uniform when RA == RB. The segment may be
// axis-aligned or rotated, the distance is exact either way.
type Segment struct {
	A, B   mapcore.Point
	RA, RB float64
}

// Distance implements Primitive.
func (s Segment) Distance(p mapcore.Point) float64 {
	ba := s.B.Sub(s.A)
	baba := ba.Dot(ba)
	if baba == 0 || s.RA < 0 || s.RB < 0 {
		return math.Inf(1)
	}

	pa := p.Sub(s.A)
	x := math.Abs(pa.Cross(ba)) / math.Sqrt(baba)
	paba := pa.Dot(ba) / baba
	rba := s.RB - s.RA

	var endR float64
	if paba < 0.5 {
		endR = s.RA
	} else {
		endR = s.RB
	}
	cax := math.Max(x-endR, 0)
	cay := math.Abs(paba-0.5) - 0.5

	f := clamp((rba*(x-s.RA)+paba*baba)/(rba*rba+baba), 0, 1)
	cbx := x - s.RA - f*rba
	cby := paba - f

	sign := 1.0
	if math.Max(cbx, cay) < 0 {
		sign = -1.0
	}
	return sign * math.Sqrt(math.Min(cax*cax+cay*cay*baba, cbx*cbx+cby*cby*baba))
}

// Gradient implements Primitive.
func (s Segment) Gradient(p mapcore.Point) mapcore.Point {
	return numericGradient(s.Distance, p)
}

// Bounds implements Primitive.
func (s Segment) Bounds() mapcore.Rect {
	r := math.Max(s.RA, s.RB)
	return mapcore.RectFromPoints(s.A, s.B).Inflate(r)
}

// HalfPlane is the region behind a boundary line: negative on the side the
// normal points away from.
type HalfPlane struct {
	Origin mapcore.Point
	Normal mapcore.Point // points toward the outside
}

// Distance implements Primitive.
func (h HalfPlane) Distance(p mapcore.Point) float64 {
	n := h.Normal.Normalize()
	if n.LengthSquared() == 0 {
		return math.Inf(1)
	}
	return p.Sub(h.Origin).Dot(n)
}

// Gradient implements Primitive.
func (h HalfPlane) Gradient(p mapcore.Point) mapcore.Point {
	return h.Normal.Normalize()
}

// Bounds implements Primitive.
func (h HalfPlane) Bounds() mapcore.Rect {
	// Unbounded; callers clip against the viewport.
	return mapcore.Rect{
		MinX: math.Inf(-1), MinY: math.Inf(-1),
		MaxX: math.Inf(1), MaxY: math.Inf(1),
	}
}

// Corner is the union of two half-planes meeting at an apex, joined with a
// smooth minimum so the distance gradient stays continuous across the joint.
// DirA and DirB are the edge directions leaving the apex; inside is to the
// left of DirA or to the right of DirB.
type Corner struct {
	Apex   mapcore.Point
	DirA   mapcore.Point
	DirB   mapcore.Point
	Smooth float64 // smooth-min radius, world units
}

// Distance implements Primitive.
func (c Corner) Distance(p mapcore.Point) float64 {
	a := c.DirA.Normalize()
	b := c.DirB.Normalize()
	if a.LengthSquared() == 0 || b.LengthSquared() == 0 {
		return math.Inf(1)
	}
	da := p.Sub(c.Apex).Cross(a)
	db := b.Cross(p.Sub(c.Apex))
	return SmoothMin(da, db, c.Smooth)
}

// Gradient implements Primitive.
func (c Corner) Gradient(p mapcore.Point) mapcore.Point {
	return numericGradient(c.Distance, p)
}

// Bounds implements Primitive.
func (c Corner) Bounds() mapcore.Rect {
	return mapcore.Rect{
		MinX: math.Inf(-1), MinY: math.Inf(-1),
		MaxX: math.Inf(1), MaxY: math.Inf(1),
	}
}

// GridLines is a periodic family of parallel thick lines. Angle rotates the
// family: 0 gives horizontal lines, pi/2 vertical ones, anything in between
// diagonals. The periodic reduction happens in rotated grid space, so the
// distance is exact for diagonal grids, not just axis-aligned ones.
type GridLines struct {
	Origin    mapcore.Point
	Angle     float64 // radians
	Spacing   float64 // distance between line centers
	HalfWidth float64
}

// Distance implements Primitive.
func (g GridLines) Distance(p mapcore.Point) float64 {
	if g.Spacing <= 0 || g.HalfWidth < 0 {
		return math.Inf(1)
	}
	// Rotate into grid space where lines are horizontal, then reduce the
	// perpendicular coordinate into one cell.
	q := p.Sub(g.Origin).Rotate(-g.Angle)
	y := math.Mod(q.Y, g.Spacing)
	if y < 0 {
		y += g.Spacing
	}
	// Distance to the nearest line center at y=0 or y=Spacing.
	d := math.Min(y, g.Spacing-y)
	return d - g.HalfWidth
}

// Gradient implements Primitive.
func (g GridLines) Gradient(p mapcore.Point) mapcore.Point {
	return numericGradient(g.Distance, p)
}

// Bounds implements Primitive.
func (g GridLines) Bounds() mapcore.Rect {
	return mapcore.Rect{
		MinX: math.Inf(-1), MinY: math.Inf(-1),
		MaxX: math.Inf(1), MaxY: math.Inf(1),
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
