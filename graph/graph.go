// Package graph implements the material graph: nodes place shaped material
// regions, edges connect nodes with trapezoid corridors, and resolution
// answers which materials are in effect at a world point.
//
// Nodes and edges are related by id, never by pointer, so snapshots and
// serialization are trivial and a stale reference can always be detected.
// The graph is mutated only from the editing goroutine; it does no internal
// locking.
package graph

import (
	"errors"
	"fmt"
	"sort"

	"github.com/cbmap/mapcore"
)

// Errors returned by graph mutators.
var (
	ErrNodeNotFound = errors.New("graph: node not found")
	ErrEdgeNotFound = errors.New("graph: edge not found")
	ErrDanglingEdge = errors.New("graph: edge references missing node")
)

// NodeID identifies a node. IDs are assigned monotonically, so ascending id
// order is insertion order, the deterministic tie-break for overlapping
// materials and for serialization.
type NodeID uint64

// EdgeID identifies an edge.
type EdgeID uint64

// Shape selects the distance function used for a node's region.
type Shape uint8

// Node shapes.
const (
	ShapeOctagon Shape = iota
	ShapeCircle
	ShapeSquare
)

// String returns the serialized name of the shape.
func (s Shape) String() string {
	switch s {
	case ShapeOctagon:
		return "octagon"
	case ShapeCircle:
		return "circle"
	case ShapeSquare:
		return "square"
	default:
		return "unknown"
	}
}

// ParseShape parses a serialized shape name.
func ParseShape(s string) (Shape, error) {
	switch s {
	case "octagon":
		return ShapeOctagon, nil
	case "circle":
		return ShapeCircle, nil
	case "square":
		return ShapeSquare, nil
	default:
		return 0, fmt.Errorf("graph: unknown shape %q", s)
	}
}

// Node is a material region anchored at a position. Position doubles as the
// editor layout coordinate. Nodes are value types; edits replace the node
// wholesale via UpdateNode.
type Node struct {
	Pos       mapcore.Point
	Radius    float64
	Shape     Shape
	Material  MaterialID
	NoOutline bool    // carve an outline-free region instead of painting
	Thickness float64 // outline thickness override, 0 = layer default
}

// Edge connects two nodes with a trapezoid corridor interpolating their
// radii. Stored as an id pair.
type Edge struct {
	Start, End NodeID
}

// Graph owns a set of nodes and edges. The zero value is not usable; call New.
type Graph struct {
	nodes map[NodeID]Node
	edges map[EdgeID]Edge

	nextNode NodeID
	nextEdge EdgeID

	// Strict makes integrity violations (dangling edge references) panic
	// instead of being skipped. Meant for tests and debug builds.
	Strict bool
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes:    make(map[NodeID]Node),
		edges:    make(map[EdgeID]Edge),
		nextNode: 1,
		nextEdge: 1,
	}
}

// AddNode inserts a node and returns its id and the inverse operation.
func (g *Graph) AddNode(n Node) (NodeID, Op) {
	id := g.nextNode
	g.nextNode++
	g.nodes[id] = n
	return id, Op{kind: opRemoveNode, nodeID: id}
}

// UpdateNode replaces a node's value, returning the inverse operation.
func (g *Graph) UpdateNode(id NodeID, n Node) (Op, error) {
	old, ok := g.nodes[id]
	if !ok {
		return Op{}, ErrNodeNotFound
	}
	g.nodes[id] = n
	return Op{kind: opUpdateNode, nodeID: id, node: old}, nil
}

// RemoveNode deletes a node and cascades deletion of every edge touching it,
// so no dangling edge reference can remain. The returned operation restores
// the node and the cascaded edges under their original ids.
func (g *Graph) RemoveNode(id NodeID) (Op, error) {
	n, ok := g.nodes[id]
	if !ok {
		return Op{}, ErrNodeNotFound
	}
	var cascaded []edgeRecord
	for eid, e := range g.edges {
		if e.Start == id || e.End == id {
			cascaded = append(cascaded, edgeRecord{id: eid, edge: e})
			delete(g.edges, eid)
		}
	}
	sort.Slice(cascaded, func(i, j int) bool { return cascaded[i].id < cascaded[j].id })
	delete(g.nodes, id)
	return Op{kind: opRestoreNode, nodeID: id, node: n, edges: cascaded}, nil
}

// AddEdge inserts an edge between two existing nodes. Both endpoints are
// validated at insertion time: the dangling-edge invariant is enforced here
// and by RemoveNode's cascade, never by scanning.
func (g *Graph) AddEdge(start, end NodeID) (EdgeID, Op, error) {
	if _, ok := g.nodes[start]; !ok {
		return 0, Op{}, fmt.Errorf("%w: start %d", ErrDanglingEdge, start)
	}
	if _, ok := g.nodes[end]; !ok {
		return 0, Op{}, fmt.Errorf("%w: end %d", ErrDanglingEdge, end)
	}
	id := g.nextEdge
	g.nextEdge++
	g.edges[id] = Edge{Start: start, End: end}
	return id, Op{kind: opRemoveEdge, edgeID: id}, nil
}

// RemoveEdge deletes an edge, returning the inverse operation.
func (g *Graph) RemoveEdge(id EdgeID) (Op, error) {
	e, ok := g.edges[id]
	if !ok {
		return Op{}, ErrEdgeNotFound
	}
	delete(g.edges, id)
	return Op{kind: opRestoreEdge, edgeID: id, edge: e}, nil
}

// Node returns a node by id.
func (g *Graph) Node(id NodeID) (Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Edge returns an edge by id.
func (g *Graph) Edge(id EdgeID) (Edge, bool) {
	e, ok := g.edges[id]
	return e, ok
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// NodeIDs returns all node ids in insertion order.
func (g *Graph) NodeIDs() []NodeID {
	ids := make([]NodeID, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// EdgeIDs returns all edge ids in insertion order.
func (g *Graph) EdgeIDs() []EdgeID {
	ids := make([]EdgeID, 0, len(g.edges))
	for id := range g.edges {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Reset discards all nodes and edges. Unlike undo steps this is a full-state
// reset: id counters restart, so a fresh document is byte-identical to one
// built from scratch.
func (g *Graph) Reset() {
	g.nodes = make(map[NodeID]Node)
	g.edges = make(map[EdgeID]Edge)
	g.nextNode = 1
	g.nextEdge = 1
}

// Clone returns a deep copy safe to hand to a background worker.
func (g *Graph) Clone() *Graph {
	c := &Graph{
		nodes:    make(map[NodeID]Node, len(g.nodes)),
		edges:    make(map[EdgeID]Edge, len(g.edges)),
		nextNode: g.nextNode,
		nextEdge: g.nextEdge,
		Strict:   g.Strict,
	}
	for id, n := range g.nodes {
		c.nodes[id] = n
	}
	for id, e := range g.edges {
		c.edges[id] = e
	}
	return c
}

// Bounds returns the union of all node and edge bounds, empty for an empty
// graph.
func (g *Graph) Bounds() mapcore.Rect {
	r := mapcore.EmptyRect()
	for _, n := range g.nodes {
		r = r.Union(nodePrimitive(n).Bounds())
	}
	return r
}
