// Package layer implements the ordered layer stack: paint layers carrying a
// raster buffer and graph layers carrying a material graph. The stack owns
// its layers exclusively; collaborators hold ids or snapshots, never mutable
// aliases.
package layer

import (
	"github.com/google/uuid"

	"github.com/cbmap/mapcore"
	"github.com/cbmap/mapcore/graph"
)

// Kind selects what a layer contains.
type Kind uint8

const (
	KindPaint Kind = iota
	KindGraph
)

// String returns the serialized name of the kind.
func (k Kind) String() string {
	switch k {
	case KindPaint:
		return "paint"
	case KindGraph:
		return "graph"
	default:
		return "unknown"
	}
}

// Paint is the content of a paint layer: a raster buffer with its world
// placement. Scale is world units per buffer pixel.
type Paint struct {
	Pixmap *mapcore.Pixmap
	Origin mapcore.Point
	Scale  float64
}

// Layer is one entry of the stack. Identity is a UUID so references stay
// valid across reordering. The generation counter increments on every content
// change and drives the compositor's dirty tracking.
type Layer struct {
	id      uuid.UUID
	kind    Kind
	name    string
	visible bool
	gen     uint64

	paint *Paint
	graph *graph.Graph
}

// NewPaintLayer creates a visible paint layer owning the given content.
func NewPaintLayer(name string, p *Paint) *Layer {
	if p.Scale <= 0 {
		p.Scale = 1
	}
	return &Layer{id: uuid.New(), kind: KindPaint, name: name, visible: true, paint: p, gen: 1}
}

// NewGraphLayer creates a visible graph layer owning the given graph.
func NewGraphLayer(name string, g *graph.Graph) *Layer {
	if g == nil {
		g = graph.New()
	}
	return &Layer{id: uuid.New(), kind: KindGraph, name: name, visible: true, graph: g, gen: 1}
}

// Restore rebuilds a layer from persisted state, keeping its identity.
// Exactly one of p and g must be non-nil; it determines the kind.
func Restore(id uuid.UUID, name string, visible bool, p *Paint, g *graph.Graph) *Layer {
	l := &Layer{id: id, name: name, visible: visible, gen: 1}
	switch {
	case p != nil:
		l.kind = KindPaint
		l.paint = p
	default:
		if g == nil {
			g = graph.New()
		}
		l.kind = KindGraph
		l.graph = g
	}
	return l
}

// ID returns the layer's identity.
func (l *Layer) ID() uuid.UUID { return l.id }

// Kind returns the layer's content kind.
func (l *Layer) Kind() Kind { return l.kind }

// Name returns the layer's display name.
func (l *Layer) Name() string { return l.name }

// SetName renames the layer. Renaming does not touch content, so the
// generation counter is left alone.
func (l *Layer) SetName(name string) { l.name = name }

// Visible reports whether the layer participates in composition.
func (l *Layer) Visible() bool { return l.visible }

// Generation returns the content generation counter.
func (l *Layer) Generation() uint64 { return l.gen }

// Touch records a content change by bumping the generation counter. Callers
// that mutate the layer's graph or paint buffer must call Touch afterwards so
// the compositor re-renders the layer's contribution.
func (l *Layer) Touch() { l.gen++ }

// Graph returns the material graph of a graph layer, nil otherwise.
func (l *Layer) Graph() *graph.Graph { return l.graph }

// Paint returns the paint content of a paint layer, nil otherwise.
func (l *Layer) Paint() *Paint { return l.paint }

// Clone returns a deep copy with the same id and generation, safe to hand to
// a background worker.
func (l *Layer) Clone() *Layer {
	c := &Layer{id: l.id, kind: l.kind, name: l.name, visible: l.visible, gen: l.gen}
	if l.graph != nil {
		c.graph = l.graph.Clone()
	}
	if l.paint != nil {
		p := *l.paint
		if p.Pixmap != nil {
			p.Pixmap = p.Pixmap.Clone()
		}
		c.paint = &p
	}
	return c
}
