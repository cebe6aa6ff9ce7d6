package layer

import (
	"fmt"

	"github.com/google/uuid"
)

type opKind uint8

const (
	opNone opKind = iota
	opInsert
	opRemove
	opReorder
	opToggle
)

// Op is a single invertible stack mutation, mirroring the graph package's
// contract: applying an Op returns its inverse.
type Op struct {
	kind  opKind
	id    uuid.UUID
	layer *Layer
	index int
}

// IsZero reports whether the op does nothing.
func (op Op) IsZero() bool { return op.kind == opNone }

// Apply performs the operation and returns its inverse.
func (s *Stack) Apply(op Op) (Op, error) {
	switch op.kind {
	case opNone:
		return Op{}, nil
	case opInsert:
		return s.Insert(op.layer, float64(op.index)), nil
	case opRemove:
		return s.Remove(op.id)
	case opReorder:
		return s.Reorder(op.id, float64(op.index))
	case opToggle:
		return s.ToggleVisible(op.id)
	default:
		return Op{}, fmt.Errorf("layer: unknown op kind %d", op.kind)
	}
}
