package cbmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cbmap/mapcore"
	"github.com/cbmap/mapcore/graph"
	"github.com/cbmap/mapcore/layer"
)

func testDocument(t *testing.T) *Document {
	t.Helper()

	pm := mapcore.NewPixmap(8, 8)
	pm.Clear(mapcore.RGB(0.2, 0.4, 0.6))
	pm.SetPixel(3, 3, mapcore.RGB(1, 1, 1))
	paint := layer.NewPaintLayer("backdrop", &layer.Paint{
		Pixmap: pm,
		Origin: mapcore.Pt(-16, -16),
		Scale:  4,
	})

	g := graph.New()
	a, _ := g.AddNode(graph.Node{Pos: mapcore.Pt(0, 0), Radius: 10, Shape: graph.ShapeCircle, Material: 1})
	b, _ := g.AddNode(graph.Node{Pos: mapcore.Pt(40, 0), Radius: 6, Shape: graph.ShapeOctagon, Material: 2})
	_, _, err := g.AddEdge(a, b)
	require.NoError(t, err)
	gl := layer.NewGraphLayer("terrain", g)

	st := layer.NewStack()
	st.Insert(paint, 0)
	st.Insert(gl, 1)
	_, err = st.ToggleVisible(paint.ID())
	require.NoError(t, err)

	return &Document{
		Stack: st,
		Markup: Markup{
			Spawns:   []mapcore.Point{mapcore.Pt(1, 2)},
			Finishes: []mapcore.Rect{{MinX: 0, MinY: 0, MaxX: 8, MaxY: 8}},
			Boosts:   []Segment{{A: mapcore.Pt(0, 0), B: mapcore.Pt(4, 0)}},
		},
	}
}

func TestPackDeterministic(t *testing.T) {
	doc := testDocument(t)
	first, err := Pack(doc)
	require.NoError(t, err)
	second, err := Pack(doc)
	require.NoError(t, err)
	assert.Equal(t, first, second, "identical content must produce identical bytes")
}

func TestRoundTrip(t *testing.T) {
	doc := testDocument(t)
	data, err := Pack(doc)
	require.NoError(t, err)

	got, err := Unpack(data)
	require.NoError(t, err)

	require.Equal(t, doc.Stack.Len(), got.Stack.Len())
	for i := 0; i < doc.Stack.Len(); i++ {
		want, have := doc.Stack.At(i), got.Stack.At(i)
		assert.Equal(t, want.ID(), have.ID())
		assert.Equal(t, want.Kind(), have.Kind())
		assert.Equal(t, want.Name(), have.Name())
		assert.Equal(t, want.Visible(), have.Visible())
	}

	paint := got.Stack.At(0).Paint()
	require.NotNil(t, paint)
	assert.Equal(t, mapcore.Pt(-16, -16), paint.Origin)
	assert.Equal(t, 4.0, paint.Scale)
	assert.Equal(t, doc.Stack.At(0).Paint().Pixmap.GetPixel(3, 3), paint.Pixmap.GetPixel(3, 3))

	g := got.Stack.At(1).Graph()
	require.NotNil(t, g)
	assert.Equal(t, 2, g.NodeCount())
	assert.Equal(t, 1, g.EdgeCount())

	assert.Equal(t, doc.Markup, got.Markup)
	assert.Len(t, got.Materials, len(graph.BuiltinSlots()))
	assert.Equal(t, "steel", got.Materials[1].Name)
	assert.False(t, got.Rect.IsEmpty())

	// Pack of the unpacked document reproduces the original bytes, which is
	// what keeps the asset cache's dedup hashing honest.
	again, err := Pack(got)
	require.NoError(t, err)
	assert.Equal(t, data, again)
}

func TestUnpackRejectsGarbage(t *testing.T) {
	_, err := Unpack([]byte("not a zip"))
	assert.Error(t, err)
}

func TestEmptyDocument(t *testing.T) {
	data, err := Pack(&Document{})
	require.NoError(t, err)
	doc, err := Unpack(data)
	require.NoError(t, err)
	assert.Equal(t, 0, doc.Stack.Len())
}

func TestPackEmptyMaterialSlots(t *testing.T) {
	// An empty non-nil palette gets the builtin fallback, same as nil.
	data, err := Pack(&Document{Stack: layer.NewStack(), Materials: graph.Slots{}})
	require.NoError(t, err)
	doc, err := Unpack(data)
	require.NoError(t, err)
	assert.Len(t, doc.Materials, len(graph.BuiltinSlots()))
}

func TestMarkupTranslate(t *testing.T) {
	m := Markup{
		Spawns:   []mapcore.Point{mapcore.Pt(1, 1)},
		Finishes: []mapcore.Rect{{MinX: 0, MinY: 0, MaxX: 2, MaxY: 2}},
		Bouncers: []Segment{{A: mapcore.Pt(0, 0), B: mapcore.Pt(1, 0)}},
	}
	got := m.Translate(mapcore.Pt(10, -5))
	assert.Equal(t, mapcore.Pt(11, -4), got.Spawns[0])
	assert.Equal(t, 10.0, got.Finishes[0].MinX)
	assert.Equal(t, -3.0, got.Finishes[0].MaxY)
	assert.Equal(t, mapcore.Pt(11, -5), got.Bouncers[0].B)
	assert.False(t, got.IsEmpty())
	assert.True(t, Markup{}.IsEmpty())
}

func TestMaterialGrid(t *testing.T) {
	g := graph.New()
	g.AddNode(graph.Node{Pos: mapcore.Pt(8, 8), Radius: 6, Shape: graph.ShapeCircle, Material: 2})
	st := layer.NewStack()
	st.Insert(layer.NewGraphLayer("g", g), 0)

	img := RenderMaterialGrid(st, graph.BuiltinSlots(), mapcore.Rect{MinX: 0, MinY: 0, MaxX: 16, MaxY: 16})
	require.Equal(t, 4, img.Bounds().Dx())
	require.Equal(t, 4, img.Bounds().Dy())

	// Cell (1,1) has its center at world (6,6), inside the circle.
	assert.Equal(t, uint8(2), img.ColorIndexAt(1, 1))
	// Cell (0,0) centers at (2,2), outside.
	assert.Equal(t, uint8(0), img.ColorIndexAt(0, 0))
}
