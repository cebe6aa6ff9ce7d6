package layer

import (
	"bytes"
	"errors"
	"image/png"
	"testing"

	"github.com/google/uuid"

	"github.com/cbmap/mapcore"
	"github.com/cbmap/mapcore/graph"
)

func paintLayer(name string) *Layer {
	return NewPaintLayer(name, &Paint{Pixmap: mapcore.NewPixmap(4, 4), Scale: 1})
}

func order(s *Stack) []string {
	names := make([]string, s.Len())
	for i := range names {
		names[i] = s.At(i).Name()
	}
	return names
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestInsertOrder(t *testing.T) {
	s := NewStack()
	s.Insert(paintLayer("a"), 0)
	s.Insert(paintLayer("b"), 1)
	s.Insert(paintLayer("c"), 1)

	if got := order(s); !equal(got, []string{"a", "c", "b"}) {
		t.Errorf("order = %v", got)
	}
}

func TestInsertClampsSlot(t *testing.T) {
	s := NewStack()
	s.Insert(paintLayer("a"), -5)
	s.Insert(paintLayer("b"), 99)

	if got := order(s); !equal(got, []string{"a", "b"}) {
		t.Errorf("order = %v", got)
	}
}

func TestReorderRoundsToNearestSlot(t *testing.T) {
	s := NewStack()
	s.Insert(paintLayer("a"), 0)
	s.Insert(paintLayer("b"), 1)
	s.Insert(paintLayer("c"), 2)

	// A drag handle reports a fractional position; 1.6 rounds to slot 2.
	if _, err := s.Reorder(s.At(0).ID(), 1.6); err != nil {
		t.Fatal(err)
	}
	if got := order(s); !equal(got, []string{"b", "c", "a"}) {
		t.Errorf("order = %v", got)
	}
}

func TestRemoveUnknown(t *testing.T) {
	s := NewStack()
	if _, err := s.Remove(uuid.New()); !errors.Is(err, ErrLayerNotFound) {
		t.Errorf("err = %v, want ErrLayerNotFound", err)
	}
}

func TestRemoveInsertInvertible(t *testing.T) {
	s := NewStack()
	s.Insert(paintLayer("a"), 0)
	mid := paintLayer("b")
	s.Insert(mid, 1)
	s.Insert(paintLayer("c"), 2)

	undo, err := s.Remove(mid.ID())
	if err != nil {
		t.Fatal(err)
	}
	if got := order(s); !equal(got, []string{"a", "c"}) {
		t.Fatalf("order after remove = %v", got)
	}

	redo, err := s.Apply(undo)
	if err != nil {
		t.Fatal(err)
	}
	if got := order(s); !equal(got, []string{"a", "b", "c"}) {
		t.Errorf("order after undo = %v", got)
	}
	if got, _ := s.Layer(mid.ID()); got != mid {
		t.Error("restored layer is not the original")
	}

	if _, err := s.Apply(redo); err != nil {
		t.Fatal(err)
	}
	if got := order(s); !equal(got, []string{"a", "c"}) {
		t.Errorf("order after redo = %v", got)
	}
}

func TestReorderInvertible(t *testing.T) {
	s := NewStack()
	s.Insert(paintLayer("a"), 0)
	s.Insert(paintLayer("b"), 1)
	s.Insert(paintLayer("c"), 2)

	undo, err := s.Reorder(s.At(2).ID(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if got := order(s); !equal(got, []string{"c", "a", "b"}) {
		t.Fatalf("order = %v", got)
	}
	if _, err := s.Apply(undo); err != nil {
		t.Fatal(err)
	}
	if got := order(s); !equal(got, []string{"a", "b", "c"}) {
		t.Errorf("order after undo = %v", got)
	}
}

func TestToggleVisible(t *testing.T) {
	s := NewStack()
	l := paintLayer("a")
	s.Insert(l, 0)
	s.Insert(paintLayer("b"), 1)

	undo, err := s.ToggleVisible(l.ID())
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Visible()) != 1 {
		t.Errorf("visible = %d, want 1", len(s.Visible()))
	}
	if l.Paint() == nil {
		t.Error("toggling visibility destroyed content")
	}
	if _, err := s.Apply(undo); err != nil {
		t.Fatal(err)
	}
	if len(s.Visible()) != 2 {
		t.Errorf("visible after undo = %d, want 2", len(s.Visible()))
	}
}

func TestResetClearsStack(t *testing.T) {
	s := NewStack()
	s.Insert(paintLayer("a"), 0)
	s.Insert(NewGraphLayer("g", nil), 1)

	s.Reset()
	if s.Len() != 0 {
		t.Errorf("len after reset = %d", s.Len())
	}
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	s := NewStack()
	g := graph.New()
	g.AddNode(graph.Node{Radius: 8, Material: 1})
	gl := NewGraphLayer("g", g)
	s.Insert(gl, 0)

	snap := s.Snapshot()

	g.AddNode(graph.Node{Pos: mapcore.Pt(10, 0), Radius: 8, Material: 1})
	gl.Touch()

	sl, ok := snap.Layer(gl.ID())
	if !ok {
		t.Fatal("snapshot lost layer id")
	}
	if sl.Graph().NodeCount() != 1 {
		t.Errorf("snapshot graph nodes = %d, want 1", sl.Graph().NodeCount())
	}
	if sl.Generation() == gl.Generation() {
		t.Error("snapshot generation tracked the live layer")
	}
}

func TestTouchBumpsGeneration(t *testing.T) {
	l := NewGraphLayer("g", nil)
	g0 := l.Generation()
	l.Touch()
	if l.Generation() != g0+1 {
		t.Errorf("generation = %d, want %d", l.Generation(), g0+1)
	}
}

func TestBufferCacheDecode(t *testing.T) {
	pm := mapcore.NewPixmap(2, 2)
	pm.SetPixel(0, 0, mapcore.RGB8(255, 0, 0))
	var buf bytes.Buffer
	if err := png.Encode(&buf, pm.ToImage()); err != nil {
		t.Fatal(err)
	}
	data := buf.Bytes()

	c, err := NewBufferCache(4)
	if err != nil {
		t.Fatal(err)
	}
	first, err := c.Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	second, err := c.Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("identical bytes decoded twice")
	}
	hits, misses := c.Stats()
	if hits != 1 || misses != 1 {
		t.Errorf("stats = %d hits, %d misses", hits, misses)
	}

	if _, err := c.Decode([]byte("not a png")); err == nil {
		t.Error("expected decode error")
	}
}
