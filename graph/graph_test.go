package graph

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/cbmap/mapcore"
)

func TestAddRemoveNode(t *testing.T) {
	g := New()
	id, _ := g.AddNode(Node{Pos: mapcore.Pt(10, 20), Radius: 16, Material: 1})

	n, ok := g.Node(id)
	if !ok {
		t.Fatal("node not found after AddNode")
	}
	if n.Pos != mapcore.Pt(10, 20) {
		t.Errorf("node pos = %v", n.Pos)
	}

	if _, err := g.RemoveNode(id); err != nil {
		t.Fatalf("RemoveNode: %v", err)
	}
	if _, ok := g.Node(id); ok {
		t.Error("node still present after RemoveNode")
	}
	if _, err := g.RemoveNode(id); !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("second RemoveNode error = %v, want ErrNodeNotFound", err)
	}
}

func TestAddEdgeValidatesEndpoints(t *testing.T) {
	g := New()
	a, _ := g.AddNode(Node{Radius: 8, Material: 1})

	if _, _, err := g.AddEdge(a, 999); !errors.Is(err, ErrDanglingEdge) {
		t.Errorf("AddEdge to missing node: err = %v, want ErrDanglingEdge", err)
	}
	if g.EdgeCount() != 0 {
		t.Errorf("edge count = %d after failed AddEdge", g.EdgeCount())
	}
}

func TestRemoveNodeCascadesEdges(t *testing.T) {
	g := New()
	a, _ := g.AddNode(Node{Radius: 8, Material: 1})
	b, _ := g.AddNode(Node{Pos: mapcore.Pt(100, 0), Radius: 8, Material: 1})
	c, _ := g.AddNode(Node{Pos: mapcore.Pt(0, 100), Radius: 8, Material: 1})
	if _, _, err := g.AddEdge(a, b); err != nil {
		t.Fatal(err)
	}
	if _, _, err := g.AddEdge(a, c); err != nil {
		t.Fatal(err)
	}
	keep, _, err := g.AddEdge(b, c)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := g.RemoveNode(a); err != nil {
		t.Fatal(err)
	}
	if g.EdgeCount() != 1 {
		t.Fatalf("edge count = %d, want 1 (cascade)", g.EdgeCount())
	}
	if _, ok := g.Edge(keep); !ok {
		t.Error("unrelated edge removed by cascade")
	}
}

func TestOpsInvertible(t *testing.T) {
	g := New()
	a, _ := g.AddNode(Node{Radius: 8, Material: 1})
	b, _ := g.AddNode(Node{Pos: mapcore.Pt(50, 0), Radius: 12, Material: 2})
	if _, _, err := g.AddEdge(a, b); err != nil {
		t.Fatal(err)
	}

	before, err := json.Marshal(g)
	if err != nil {
		t.Fatal(err)
	}

	undo, err := g.RemoveNode(a)
	if err != nil {
		t.Fatal(err)
	}
	if g.NodeCount() != 1 || g.EdgeCount() != 0 {
		t.Fatalf("after remove: %d nodes, %d edges", g.NodeCount(), g.EdgeCount())
	}

	redo, err := g.Apply(undo)
	if err != nil {
		t.Fatalf("apply undo: %v", err)
	}
	after, err := json.Marshal(g)
	if err != nil {
		t.Fatal(err)
	}
	if string(before) != string(after) {
		t.Errorf("undo did not restore state:\n%s\n%s", before, after)
	}

	if _, err := g.Apply(redo); err != nil {
		t.Fatalf("apply redo: %v", err)
	}
	if g.NodeCount() != 1 || g.EdgeCount() != 0 {
		t.Errorf("redo mismatch: %d nodes, %d edges", g.NodeCount(), g.EdgeCount())
	}
}

func TestUpdateNodeInvertible(t *testing.T) {
	g := New()
	id, _ := g.AddNode(Node{Radius: 8, Material: 1})

	undo, err := g.UpdateNode(id, Node{Radius: 20, Material: 3})
	if err != nil {
		t.Fatal(err)
	}
	if n, _ := g.Node(id); n.Radius != 20 {
		t.Errorf("radius = %f after update", n.Radius)
	}
	if _, err := g.Apply(undo); err != nil {
		t.Fatal(err)
	}
	if n, _ := g.Node(id); n.Radius != 8 {
		t.Errorf("radius = %f after undo", n.Radius)
	}
}

func TestResetClearsEverything(t *testing.T) {
	g := New()
	a, _ := g.AddNode(Node{Radius: 8, Material: 1})
	b, _ := g.AddNode(Node{Pos: mapcore.Pt(50, 0), Radius: 8, Material: 1})
	if _, _, err := g.AddEdge(a, b); err != nil {
		t.Fatal(err)
	}

	g.Reset()
	if g.NodeCount() != 0 || g.EdgeCount() != 0 {
		t.Fatalf("after reset: %d nodes, %d edges", g.NodeCount(), g.EdgeCount())
	}

	// A fresh document built after reset serializes identically to one
	// built from scratch.
	id, _ := g.AddNode(Node{Radius: 8, Material: 1})
	fresh := New()
	idFresh, _ := fresh.AddNode(Node{Radius: 8, Material: 1})
	if id != idFresh {
		t.Errorf("post-reset id %d != fresh id %d", id, idFresh)
	}
}

func TestResolveNearestWins(t *testing.T) {
	g := New()
	g.AddNode(Node{Pos: mapcore.Pt(0, 0), Radius: 10, Shape: ShapeCircle, Material: 1})
	g.AddNode(Node{Pos: mapcore.Pt(40, 0), Radius: 10, Shape: ShapeCircle, Material: 2})

	res := g.Resolve(mapcore.Pt(8, 0), 40)
	if len(res) != 2 {
		t.Fatalf("resolved %d materials, want 2", len(res))
	}
	if res[0].Material != 1 {
		t.Errorf("nearest material = %d, want 1", res[0].Material)
	}
	if res[0].Distance >= res[1].Distance {
		t.Errorf("distances not ascending: %f, %f", res[0].Distance, res[1].Distance)
	}
	if res[0].Weight <= res[1].Weight {
		t.Errorf("weights not descending: %f, %f", res[0].Weight, res[1].Weight)
	}
}

func TestResolveTieBreakByInsertion(t *testing.T) {
	g := New()
	// Two coincident circles of different materials: insertion order decides.
	g.AddNode(Node{Pos: mapcore.Pt(0, 0), Radius: 10, Shape: ShapeCircle, Material: 3})
	g.AddNode(Node{Pos: mapcore.Pt(0, 0), Radius: 10, Shape: ShapeCircle, Material: 1})

	res := g.Resolve(mapcore.Pt(0, 0), 5)
	if len(res) != 2 {
		t.Fatalf("resolved %d materials, want 2", len(res))
	}
	if res[0].Material != 3 {
		t.Errorf("first material = %d, want 3 (inserted first)", res[0].Material)
	}
}

func TestResolveInfluenceThreshold(t *testing.T) {
	g := New()
	g.AddNode(Node{Pos: mapcore.Pt(0, 0), Radius: 10, Shape: ShapeCircle, Material: 1})

	if res := g.Resolve(mapcore.Pt(13, 0), 2); len(res) != 0 {
		t.Errorf("material resolved outside influence: %v", res)
	}
	if res := g.Resolve(mapcore.Pt(11, 0), 2); len(res) != 1 {
		t.Errorf("material not resolved within influence: %v", res)
	}
}

func TestEdgeCorridorResolves(t *testing.T) {
	g := New()
	a, _ := g.AddNode(Node{Pos: mapcore.Pt(0, 0), Radius: 10, Shape: ShapeCircle, Material: 1})
	b, _ := g.AddNode(Node{Pos: mapcore.Pt(200, 0), Radius: 10, Shape: ShapeCircle, Material: 1})
	if _, _, err := g.AddEdge(a, b); err != nil {
		t.Fatal(err)
	}

	// Midway between the nodes only the edge corridor covers the point.
	res := g.Resolve(mapcore.Pt(100, 0), 2)
	if len(res) != 1 || res[0].Material != 1 {
		t.Fatalf("corridor did not resolve: %v", res)
	}
	if res[0].Distance >= 0 {
		t.Errorf("corridor interior distance = %f, want < 0", res[0].Distance)
	}
}

func TestNoOutlineSuppressesLineBand(t *testing.T) {
	g := New()
	g.AddNode(Node{Pos: mapcore.Pt(0, 0), Radius: 20, Shape: ShapeCircle, Material: 1})
	g.AddNode(Node{Pos: mapcore.Pt(20, 0), Radius: 10, Shape: ShapeCircle, Material: 1, NoOutline: true})

	// On the boundary of the first circle, inside the carve circle: the
	// outline band must be suppressed there.
	samples := g.Distances(mapcore.Pt(20, 0), 4)
	if len(samples) != 1 {
		t.Fatalf("samples = %v", samples)
	}
	if samples[0].Line <= 0 {
		t.Errorf("outline band not carved: line = %f", samples[0].Line)
	}
	if samples[0].Fill > 0 {
		t.Errorf("fill should remain: fill = %f", samples[0].Fill)
	}

	// Away from the carve region the outline band is intact.
	samples = g.Distances(mapcore.Pt(-20, 0), 4)
	if samples[0].Line > 0 {
		t.Errorf("outline band missing outside carve: line = %f", samples[0].Line)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	g := New()
	a, _ := g.AddNode(Node{Pos: mapcore.Pt(1, 2), Radius: 16, Shape: ShapeSquare, Material: 2, Thickness: 4})
	b, _ := g.AddNode(Node{Pos: mapcore.Pt(64, 2), Radius: 8, Shape: ShapeCircle, Material: 1, NoOutline: true})
	if _, _, err := g.AddEdge(a, b); err != nil {
		t.Fatal(err)
	}

	data, err := json.Marshal(g)
	if err != nil {
		t.Fatal(err)
	}

	restored := New()
	if err := json.Unmarshal(data, restored); err != nil {
		t.Fatal(err)
	}
	data2, err := json.Marshal(restored)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != string(data2) {
		t.Errorf("round trip not stable:\n%s\n%s", data, data2)
	}
}

func TestUnmarshalRejectsDanglingEdge(t *testing.T) {
	bad := `{"next_node":2,"next_edge":2,"nodes":[{"id":1,"x":0,"y":0,"radius":8,"shape":"circle","material":1}],"edges":[{"id":1,"start":1,"end":7}]}`
	g := New()
	err := json.Unmarshal([]byte(bad), g)
	if !errors.Is(err, ErrDanglingEdge) {
		t.Errorf("err = %v, want ErrDanglingEdge", err)
	}
}

func TestStrictPanicsOnDanglingEdge(t *testing.T) {
	g := New()
	a, _ := g.AddNode(Node{Radius: 8, Material: 1})
	b, _ := g.AddNode(Node{Pos: mapcore.Pt(50, 0), Radius: 8, Material: 1})
	if _, _, err := g.AddEdge(a, b); err != nil {
		t.Fatal(err)
	}
	// Corrupt the invariant directly; only possible from inside the package.
	delete(g.nodes, b)
	g.Strict = true

	defer func() {
		if recover() == nil {
			t.Error("expected panic on dangling edge in strict mode")
		}
	}()
	g.Distances(mapcore.Pt(0, 0), 4)
}
