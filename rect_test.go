package mapcore

import "testing"

func TestEmptyRect(t *testing.T) {
	e := EmptyRect()
	if !e.IsEmpty() {
		t.Error("EmptyRect should be empty")
	}
	r := Rect{MinX: 1, MinY: 2, MaxX: 5, MaxY: 6}
	if got := e.Union(r); got != r {
		t.Errorf("EmptyRect.Union = %v", got)
	}
}

func TestRectFromPoints(t *testing.T) {
	r := RectFromPoints(Pt(5, -1), Pt(-2, 3))
	want := Rect{MinX: -2, MinY: -1, MaxX: 5, MaxY: 3}
	if r != want {
		t.Errorf("RectFromPoints = %v, want %v", r, want)
	}
}

func TestRectOps(t *testing.T) {
	r := Rect{MinX: 0, MinY: 0, MaxX: 4, MaxY: 2}
	if r.Width() != 4 || r.Height() != 2 {
		t.Errorf("size = %v x %v", r.Width(), r.Height())
	}
	if got := r.Center(); got != Pt(2, 1) {
		t.Errorf("Center = %v", got)
	}
	if got := r.Inflate(1); got != (Rect{MinX: -1, MinY: -1, MaxX: 5, MaxY: 3}) {
		t.Errorf("Inflate = %v", got)
	}

	s := Rect{MinX: 3, MinY: 1, MaxX: 8, MaxY: 5}
	if got := r.Union(s); got != (Rect{MinX: 0, MinY: 0, MaxX: 8, MaxY: 5}) {
		t.Errorf("Union = %v", got)
	}
	if got := r.Intersect(s); got != (Rect{MinX: 3, MinY: 1, MaxX: 4, MaxY: 2}) {
		t.Errorf("Intersect = %v", got)
	}
	far := Rect{MinX: 10, MinY: 10, MaxX: 11, MaxY: 11}
	if !r.Intersect(far).IsEmpty() {
		t.Error("disjoint Intersect should be empty")
	}

	if !r.Contains(Pt(2, 1)) || r.Contains(Pt(5, 1)) {
		t.Error("Contains misclassifies")
	}
	if got := r.UnionPoint(Pt(-3, 7)); got != (Rect{MinX: -3, MinY: 0, MaxX: 4, MaxY: 7}) {
		t.Errorf("UnionPoint = %v", got)
	}
}
