package layer

import (
	"errors"
	"math"

	"github.com/google/uuid"
)

// ErrLayerNotFound is returned by stack mutators given an unknown layer id.
var ErrLayerNotFound = errors.New("layer: not found")

// Stack is the ordered layer sequence. Index 0 is the bottom layer; the
// compositor blends ascending. Order indices are implicit in the slice, so
// they are dense and gapless by construction. Mutation happens only on the
// editing goroutine; background workers get Snapshot copies.
type Stack struct {
	layers []*Layer
}

// NewStack creates an empty stack.
func NewStack() *Stack {
	return &Stack{}
}

// Len returns the number of layers.
func (s *Stack) Len() int { return len(s.layers) }

// At returns the layer at an order index.
func (s *Stack) At(i int) *Layer { return s.layers[i] }

// Index returns the order index of a layer, or -1.
func (s *Stack) Index(id uuid.UUID) int {
	for i, l := range s.layers {
		if l.id == id {
			return i
		}
	}
	return -1
}

// Layer returns a layer by id.
func (s *Stack) Layer(id uuid.UUID) (*Layer, bool) {
	if i := s.Index(id); i >= 0 {
		return s.layers[i], true
	}
	return nil, false
}

// Visible returns the visible layers bottom to top. The returned slice is
// freshly allocated; the layers are not copied.
func (s *Stack) Visible() []*Layer {
	out := make([]*Layer, 0, len(s.layers))
	for _, l := range s.layers {
		if l.visible {
			out = append(out, l)
		}
	}
	return out
}

// clampIndex rounds a requested slot to the nearest valid insertion index.
// Reorder gestures arrive as fractional positions from drag handles, so the
// stack owns the rounding.
func (s *Stack) clampIndex(slot float64, max int) int {
	i := int(math.Round(slot))
	if i < 0 {
		i = 0
	}
	if i > max {
		i = max
	}
	return i
}

// Insert places a layer at the given slot (rounded and clamped) and returns
// the inverse operation. The stack takes ownership of the layer.
func (s *Stack) Insert(l *Layer, slot float64) Op {
	at := s.clampIndex(slot, len(s.layers))
	s.layers = append(s.layers, nil)
	copy(s.layers[at+1:], s.layers[at:])
	s.layers[at] = l
	return Op{kind: opRemove, id: l.id}
}

// Remove deletes a layer. The inverse operation restores it at its old index
// with its content intact.
func (s *Stack) Remove(id uuid.UUID) (Op, error) {
	i := s.Index(id)
	if i < 0 {
		return Op{}, ErrLayerNotFound
	}
	l := s.layers[i]
	s.layers = append(s.layers[:i], s.layers[i+1:]...)
	return Op{kind: opInsert, id: id, layer: l, index: i}, nil
}

// Reorder moves a layer to the given slot, rounded to the nearest valid
// position and clamped to the stack bounds.
func (s *Stack) Reorder(id uuid.UUID, slot float64) (Op, error) {
	from := s.Index(id)
	if from < 0 {
		return Op{}, ErrLayerNotFound
	}
	to := s.clampIndex(slot, len(s.layers)-1)
	if to == from {
		return Op{}, nil
	}
	l := s.layers[from]
	s.layers = append(s.layers[:from], s.layers[from+1:]...)
	s.layers = append(s.layers, nil)
	copy(s.layers[to+1:], s.layers[to:])
	s.layers[to] = l
	return Op{kind: opReorder, id: id, index: from}, nil
}

// ToggleVisible flips a layer's visibility. Content is untouched; the inverse
// operation is another toggle.
func (s *Stack) ToggleVisible(id uuid.UUID) (Op, error) {
	l, ok := s.Layer(id)
	if !ok {
		return Op{}, ErrLayerNotFound
	}
	l.visible = !l.visible
	return Op{kind: opToggle, id: id}, nil
}

// Reset discards every layer. This is the full-state reset used when opening
// another document, distinct from replaying undo steps.
func (s *Stack) Reset() {
	s.layers = nil
}

// Snapshot returns a deep read-only copy for background work (packaging,
// async upload). Layer ids and generations are preserved.
func (s *Stack) Snapshot() *Stack {
	c := &Stack{layers: make([]*Layer, len(s.layers))}
	for i, l := range s.layers {
		c.layers[i] = l.Clone()
	}
	return c
}
