package graph

import (
	"encoding/json"
	"fmt"

	"github.com/cbmap/mapcore"
)

// The wire form keeps nodes and edges as id-ordered arrays, so encoding the
// same logical graph always yields the same bytes. That stability is what
// the asset cache's content hashing depends on.

type nodeJSON struct {
	ID        uint64  `json:"id"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Radius    float64 `json:"radius"`
	Shape     string  `json:"shape"`
	Material  uint8   `json:"material"`
	NoOutline bool    `json:"no_outline,omitempty"`
	Thickness float64 `json:"thickness,omitempty"`
}

type edgeJSON struct {
	ID    uint64 `json:"id"`
	Start uint64 `json:"start"`
	End   uint64 `json:"end"`
}

type graphJSON struct {
	NextNode uint64     `json:"next_node"`
	NextEdge uint64     `json:"next_edge"`
	Nodes    []nodeJSON `json:"nodes"`
	Edges    []edgeJSON `json:"edges"`
}

// MarshalJSON implements json.Marshaler with deterministic output.
func (g *Graph) MarshalJSON() ([]byte, error) {
	doc := graphJSON{
		NextNode: uint64(g.nextNode),
		NextEdge: uint64(g.nextEdge),
		Nodes:    make([]nodeJSON, 0, len(g.nodes)),
		Edges:    make([]edgeJSON, 0, len(g.edges)),
	}
	for _, id := range g.NodeIDs() {
		n := g.nodes[id]
		doc.Nodes = append(doc.Nodes, nodeJSON{
			ID:        uint64(id),
			X:         n.Pos.X,
			Y:         n.Pos.Y,
			Radius:    n.Radius,
			Shape:     n.Shape.String(),
			Material:  uint8(n.Material),
			NoOutline: n.NoOutline,
			Thickness: n.Thickness,
		})
	}
	for _, id := range g.EdgeIDs() {
		e := g.edges[id]
		doc.Edges = append(doc.Edges, edgeJSON{ID: uint64(id), Start: uint64(e.Start), End: uint64(e.End)})
	}
	return json.Marshal(doc)
}

// UnmarshalJSON implements json.Unmarshaler. Edges referencing missing nodes
// are rejected: the dangling-edge invariant holds from construction on.
func (g *Graph) UnmarshalJSON(data []byte) error {
	var doc graphJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	nodes := make(map[NodeID]Node, len(doc.Nodes))
	for _, nj := range doc.Nodes {
		shape, err := ParseShape(nj.Shape)
		if err != nil {
			return err
		}
		if _, dup := nodes[NodeID(nj.ID)]; dup {
			return fmt.Errorf("graph: duplicate node id %d", nj.ID)
		}
		nodes[NodeID(nj.ID)] = Node{
			Pos:       mapcore.Pt(nj.X, nj.Y),
			Radius:    nj.Radius,
			Shape:     shape,
			Material:  MaterialID(nj.Material),
			NoOutline: nj.NoOutline,
			Thickness: nj.Thickness,
		}
	}
	edges := make(map[EdgeID]Edge, len(doc.Edges))
	for _, ej := range doc.Edges {
		if _, ok := nodes[NodeID(ej.Start)]; !ok {
			return fmt.Errorf("%w: edge %d start %d", ErrDanglingEdge, ej.ID, ej.Start)
		}
		if _, ok := nodes[NodeID(ej.End)]; !ok {
			return fmt.Errorf("%w: edge %d end %d", ErrDanglingEdge, ej.ID, ej.End)
		}
		if _, dup := edges[EdgeID(ej.ID)]; dup {
			return fmt.Errorf("graph: duplicate edge id %d", ej.ID)
		}
		edges[EdgeID(ej.ID)] = Edge{Start: NodeID(ej.Start), End: NodeID(ej.End)}
	}

	g.nodes = nodes
	g.edges = edges
	g.nextNode = NodeID(doc.NextNode)
	g.nextEdge = EdgeID(doc.NextEdge)
	for id := range nodes {
		if g.nextNode <= id {
			g.nextNode = id + 1
		}
	}
	for id := range edges {
		if g.nextEdge <= id {
			g.nextEdge = id + 1
		}
	}
	return nil
}
