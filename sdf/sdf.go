// Package sdf evaluates signed distance functions for the geometric
// primitives the editor composes maps from.
//
// All distances are in world units: negative inside the shape, positive
// outside, zero on the boundary. Every function is pure and re-evaluated on
// demand; caching of results belongs to the compositor, not here.
//
// Malformed primitives (zero-length segments, zero grid spacing) degrade to
// a distance of +Inf and a zero gradient so a single bad primitive can never
// abort a frame.
package sdf

import (
	"math"

	"github.com/cbmap/mapcore"
)

// Primitive is a shape that can be queried for signed distance.
type Primitive interface {
	// Distance returns the signed distance from p to the shape boundary.
	Distance(p mapcore.Point) float64

	// Gradient returns the direction of increasing distance at p.
	// The result is normalized except for degenerate primitives,
	// which return the zero vector.
	Gradient(p mapcore.Point) mapcore.Point

	// Bounds returns a conservative bounding rectangle of the region where
	// Distance may be negative. Used for tile binning, not for correctness.
	Bounds() mapcore.Rect
}

// gradientStep is the central-difference step for numeric gradients.
const gradientStep = 0.05

// numericGradient approximates the distance gradient by central differences.
// Used by primitives without a cheap closed form.
func numericGradient(f func(mapcore.Point) float64, p mapcore.Point) mapcore.Point {
	dx := f(mapcore.Pt(p.X+gradientStep, p.Y)) - f(mapcore.Pt(p.X-gradientStep, p.Y))
	dy := f(mapcore.Pt(p.X, p.Y+gradientStep)) - f(mapcore.Pt(p.X, p.Y-gradientStep))
	if math.IsInf(dx, 0) || math.IsInf(dy, 0) || math.IsNaN(dx) || math.IsNaN(dy) {
		return mapcore.Point{}
	}
	return mapcore.Pt(dx, dy).Normalize()
}

// SmoothMin combines two distances with a polynomial smooth minimum.
// k controls the blend radius: larger k rounds the joint more. k <= 0
// degenerates to a plain min.
//
// The smooth joint keeps the gradient continuous where two primitives meet,
// which is what prevents visibly sharp corners on zero-outline materials.
func SmoothMin(a, b, k float64) float64 {
	if k <= 0 {
		return math.Min(a, b)
	}
	h := math.Max(k-math.Abs(a-b), 0) / k
	return math.Min(a, b) - h*h*k*0.25
}

// Outline converts a fill distance into the distance to an outline band of
// the given half-thickness centered on the boundary.
func Outline(d, halfThickness float64) float64 {
	if math.IsInf(d, 0) {
		return d
	}
	return math.Abs(d) - halfThickness
}

// Coverage converts a signed distance and local gradient magnitude into an
// anti-aliased pixel coverage value in [0, 1].
//
// gradMag is the screen-space gradient magnitude of the distance field;
// for an undistorted field it is 1 and coverage transitions over one pixel.
func Coverage(d, gradMag float64) float64 {
	if gradMag <= 0 {
		if d <= 0 {
			return 1
		}
		return 0
	}
	c := 0.5 - d/gradMag
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}
