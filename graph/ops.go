package graph

import "fmt"

// The undo collaborator lives outside the core; what the core guarantees is
// that every mutation is a discrete operation whose inverse can be replayed.
// Mutators return the inverse Op directly, so the caller's undo stack is just
// a slice of Ops.

type opKind uint8

const (
	opNone opKind = iota
	opRemoveNode
	opRestoreNode
	opUpdateNode
	opRemoveEdge
	opRestoreEdge
)

type edgeRecord struct {
	id   EdgeID
	edge Edge
}

// Op is a single invertible graph mutation. Applying an Op returns its own
// inverse, so redo falls out of undo for free.
type Op struct {
	kind   opKind
	nodeID NodeID
	node   Node
	edgeID EdgeID
	edge   Edge
	edges  []edgeRecord // cascaded edges for node restore
}

// IsZero reports whether the op does nothing.
func (op Op) IsZero() bool { return op.kind == opNone }

// Apply performs the operation and returns its inverse.
func (g *Graph) Apply(op Op) (Op, error) {
	switch op.kind {
	case opNone:
		return Op{}, nil

	case opRemoveNode:
		return g.RemoveNode(op.nodeID)

	case opRestoreNode:
		g.nodes[op.nodeID] = op.node
		if g.nextNode <= op.nodeID {
			g.nextNode = op.nodeID + 1
		}
		for _, rec := range op.edges {
			g.edges[rec.id] = rec.edge
			if g.nextEdge <= rec.id {
				g.nextEdge = rec.id + 1
			}
		}
		return Op{kind: opRemoveNode, nodeID: op.nodeID}, nil

	case opUpdateNode:
		return g.UpdateNode(op.nodeID, op.node)

	case opRemoveEdge:
		return g.RemoveEdge(op.edgeID)

	case opRestoreEdge:
		if _, ok := g.nodes[op.edge.Start]; !ok {
			return Op{}, ErrDanglingEdge
		}
		if _, ok := g.nodes[op.edge.End]; !ok {
			return Op{}, ErrDanglingEdge
		}
		g.edges[op.edgeID] = op.edge
		if g.nextEdge <= op.edgeID {
			g.nextEdge = op.edgeID + 1
		}
		return Op{kind: opRemoveEdge, edgeID: op.edgeID}, nil

	default:
		return Op{}, fmt.Errorf("graph: unknown op kind %d", op.kind)
	}
}
