package graph

import (
	"math"
	"sort"

	"github.com/cbmap/mapcore"
	"github.com/cbmap/mapcore/sdf"
)

// Resolved is one entry of a resolution result: a material in effect at the
// queried point with its proximity weight.
type Resolved struct {
	Material MaterialID
	Distance float64
	// Weight is a normalized proximity in [0, 1]: 1 at influence depth
	// inside the material, 0.5 on the boundary, 0 at the influence limit.
	Weight float64
}

// Sample is the carved distance field of one material at a point.
type Sample struct {
	Material MaterialID
	// Fill is the signed distance to the material region, carved by
	// no-outline primitives.
	Fill float64
	// Line is the signed distance to the outline band around the region,
	// likewise carved.
	Line float64
	// Gradient is the local fill gradient magnitude in world units,
	// used by the compositor for anti-aliasing.
	Gradient mapcore.Point
}

// nodePrimitive returns the distance primitive for a node's shape.
func nodePrimitive(n Node) sdf.Primitive {
	switch n.Shape {
	case ShapeCircle:
		return sdf.Circle{Center: n.Pos, Radius: n.Radius}
	case ShapeSquare:
		return sdf.Box{Center: n.Pos, Half: mapcore.Pt(n.Radius, n.Radius)}
	default:
		return sdf.Octagon{Center: n.Pos, Radius: n.Radius}
	}
}

// edgePrimitive returns the trapezoid corridor for an edge, or nil if either
// endpoint is missing.
func (g *Graph) edgePrimitive(id EdgeID, e Edge) sdf.Primitive {
	start, okS := g.nodes[e.Start]
	end, okE := g.nodes[e.End]
	if !okS || !okE {
		// A dangling reference is a programming error: RemoveNode cascades
		// and AddEdge validates, so this state should be unreachable.
		if g.Strict {
			panic("graph: dangling edge " + ErrDanglingEdge.Error())
		}
		mapcore.Logger().Warn("skipping dangling edge",
			"edge", uint64(id), "start", uint64(e.Start), "end", uint64(e.End))
		return nil
	}
	return sdf.Segment{A: start.Pos, B: end.Pos, RA: start.Radius, RB: end.Radius}
}

// edgeMaterial picks the material of an edge from its endpoints and reports
// whether the edge suppresses outlines.
func (g *Graph) edgeMaterial(e Edge) (MaterialID, bool) {
	start, okS := g.nodes[e.Start]
	end, okE := g.nodes[e.End]
	noOutline := (okS && start.NoOutline) || (okE && end.NoOutline)
	if okS {
		return start.Material, noOutline
	}
	if okE {
		return end.Material, noOutline
	}
	return None, noOutline
}

// Distances computes the carved per-material distance samples at a world
// point. outlineHalf is half the outline band thickness. The result is
// ordered by ascending fill distance, ties broken by first node insertion.
//
// Primitives flagged NoOutline (and those assigned the reserved slot 0)
// still contribute fill, but their region suppresses the outline band of
// every material it overlaps. Suppression goes through a smooth minimum of
// the carve distances, so the band fades out continuously instead of ending
// in a sharp corner where an outlined and an outline-free region meet.
func (g *Graph) Distances(p mapcore.Point, outlineHalf float64) []Sample {
	type acc struct {
		fill     float64
		firstSeq NodeID
		grad     mapcore.Point
	}
	perMat := map[MaterialID]*acc{}
	carve := math.Inf(1)

	consider := func(mat MaterialID, noOutline bool, seq NodeID, prim sdf.Primitive) {
		d := prim.Distance(p)
		if math.IsInf(d, 1) {
			return
		}
		if noOutline || mat == None {
			carve = sdf.SmoothMin(carve, d, carveSmooth)
		}
		if mat == None {
			return
		}
		a := perMat[mat]
		if a == nil {
			a = &acc{fill: math.Inf(1), firstSeq: seq}
			perMat[mat] = a
		}
		if seq < a.firstSeq {
			a.firstSeq = seq
		}
		if d < a.fill {
			a.fill = d
			a.grad = prim.Gradient(p)
		}
	}

	for _, id := range g.NodeIDs() {
		n := g.nodes[id]
		consider(n.Material, n.NoOutline, id, nodePrimitive(n))
	}
	for _, id := range g.EdgeIDs() {
		e := g.edges[id]
		prim := g.edgePrimitive(id, e)
		if prim == nil {
			continue
		}
		mat, noOutline := g.edgeMaterial(e)
		// Edges inherit the insertion rank of their start node for the
		// tie-break, keeping resolution independent of edge ids.
		consider(mat, noOutline, e.Start, prim)
	}

	samples := make([]Sample, 0, len(perMat))
	for mat, a := range perMat {
		line := sdf.Outline(a.fill, outlineHalf)
		if !math.IsInf(carve, 1) {
			line = math.Max(line, -carve)
		}
		samples = append(samples, Sample{Material: mat, Fill: a.fill, Line: line, Gradient: a.grad})
	}
	sort.Slice(samples, func(i, j int) bool {
		if samples[i].Fill != samples[j].Fill {
			return samples[i].Fill < samples[j].Fill
		}
		return perMat[samples[i].Material].firstSeq < perMat[samples[j].Material].firstSeq
	})
	return samples
}

// carveSmooth is the smooth-min radius for combining carve regions,
// in world units.
const carveSmooth = 4.0

// Resolve returns the materials in effect at a world point, nearest first.
// Only materials whose carved fill distance is within the influence
// threshold appear. Ties in distance resolve by node insertion order, which
// makes resolution deterministic when regions overlap exactly.
func (g *Graph) Resolve(p mapcore.Point, influence float64) []Resolved {
	if influence <= 0 {
		return nil
	}
	samples := g.Distances(p, 0)
	out := make([]Resolved, 0, len(samples))
	for _, s := range samples {
		if s.Fill > influence {
			continue
		}
		w := (influence - s.Fill) / (2 * influence)
		if w > 1 {
			w = 1
		}
		out = append(out, Resolved{Material: s.Material, Distance: s.Fill, Weight: w})
	}
	return out
}
