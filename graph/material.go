package graph

import "github.com/cbmap/mapcore"

// MaterialID indexes a material slot. Slot 0 is reserved: primitives assigned
// to it carve outline-free regions out of other materials instead of painting.
type MaterialID uint8

// None is the reserved carving slot.
const None MaterialID = 0

// Material describes how a resolved region is shaded.
type Material struct {
	Name    string
	Fill    mapcore.RGBA
	Outline mapcore.RGBA
}

// Slots is the material palette of a map, indexed by MaterialID.
type Slots []Material

// BuiltinSlots returns the default palette. Slot 0 is the reserved carve
// slot; the rest are the stock surface materials.
func BuiltinSlots() Slots {
	return Slots{
		{Name: "none"},
		{Name: "steel", Fill: mapcore.RGB8(30, 34, 41), Outline: mapcore.RGB8(78, 92, 106)},
		{Name: "ice", Fill: mapcore.RGB8(27, 73, 107), Outline: mapcore.RGB8(136, 182, 242)},
		{Name: "grass", Fill: mapcore.RGB8(16, 104, 51), Outline: mapcore.RGB8(60, 173, 11)},
		{Name: "mat", Fill: mapcore.RGB8(114, 24, 45), Outline: mapcore.RGB8(164, 33, 9)},
		{Name: "bumper", Fill: mapcore.RGB8(58, 28, 12), Outline: mapcore.RGB8(223, 117, 11)},
	}
}

// Get returns the material for id, falling back to an error-red material for
// out-of-range ids so a stale reference renders loudly instead of crashing.
func (s Slots) Get(id MaterialID) Material {
	if int(id) < len(s) {
		return s[id]
	}
	return Material{Name: "missing", Fill: mapcore.RGB(1, 0, 0), Outline: mapcore.RGB(1, 0, 0)}
}
