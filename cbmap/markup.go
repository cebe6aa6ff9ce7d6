package cbmap

import "github.com/cbmap/mapcore"

// Segment is a directed markup segment in world coordinates.
type Segment struct {
	A mapcore.Point `json:"a"`
	B mapcore.Point `json:"b"`
}

// Markup holds the gameplay annotations of a map: spawn points, race finish
// areas and boost/bouncer segments. Markup lives outside the layer stack and
// rides along in its own archive entry.
type Markup struct {
	Spawns   []mapcore.Point `json:"spawns,omitempty"`
	Finishes []mapcore.Rect  `json:"finishes,omitempty"`
	Boosts   []Segment       `json:"boosts,omitempty"`
	Bouncers []Segment       `json:"bouncers,omitempty"`
}

// IsEmpty reports whether the markup holds no annotations.
func (m Markup) IsEmpty() bool {
	return len(m.Spawns) == 0 && len(m.Finishes) == 0 &&
		len(m.Boosts) == 0 && len(m.Bouncers) == 0
}

// Translate returns the markup shifted by d. Used when a map's content is
// moved so annotations stay anchored to the geometry.
func (m Markup) Translate(d mapcore.Point) Markup {
	out := Markup{
		Spawns:   make([]mapcore.Point, len(m.Spawns)),
		Finishes: make([]mapcore.Rect, len(m.Finishes)),
		Boosts:   make([]Segment, len(m.Boosts)),
		Bouncers: make([]Segment, len(m.Bouncers)),
	}
	for i, p := range m.Spawns {
		out.Spawns[i] = p.Add(d)
	}
	for i, r := range m.Finishes {
		out.Finishes[i] = mapcore.Rect{
			MinX: r.MinX + d.X, MinY: r.MinY + d.Y,
			MaxX: r.MaxX + d.X, MaxY: r.MaxY + d.Y,
		}
	}
	for i, s := range m.Boosts {
		out.Boosts[i] = Segment{A: s.A.Add(d), B: s.B.Add(d)}
	}
	for i, s := range m.Bouncers {
		out.Bouncers[i] = Segment{A: s.A.Add(d), B: s.B.Add(d)}
	}
	return out
}
