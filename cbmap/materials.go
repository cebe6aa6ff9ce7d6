package cbmap

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/cbmap/mapcore"
	"github.com/cbmap/mapcore/graph"
	"github.com/cbmap/mapcore/layer"
)

// materialCell is the world size of one cell in the exported material grid.
const materialCell = 4.0

func colorToHex(c mapcore.RGBA) string {
	r, g, b, _ := c.Color().RGBA()
	return fmt.Sprintf("#%02x%02x%02x", uint8(r>>8), uint8(g>>8), uint8(b>>8))
}

func hexToColor(s string) (mapcore.RGBA, error) {
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return mapcore.RGBA{}, fmt.Errorf("cbmap: bad color %q", s)
	}
	return mapcore.RGB8(r, g, b), nil
}

// RenderMaterialGrid rasterizes the map's material occupancy over rect into
// an indexed-palette image: one pixel per cell, pixel value = material slot,
// palette = the slots' fill colors with slot 0 transparent. Graph layers are
// sampled bottom to top; the topmost covering material wins.
func RenderMaterialGrid(st *layer.Stack, slots graph.Slots, rect mapcore.Rect) *image.Paletted {
	if len(slots) == 0 {
		slots = graph.BuiltinSlots()
	}
	w := max(1, int(math.Ceil(rect.Width()/materialCell)))
	h := max(1, int(math.Ceil(rect.Height()/materialCell)))

	pal := make(color.Palette, len(slots))
	pal[0] = color.NRGBA{}
	for i := 1; i < len(slots); i++ {
		pal[i] = slots[i].Fill.Color()
	}
	img := image.NewPaletted(image.Rect(0, 0, w, h), pal)

	var graphs []*graph.Graph
	for _, l := range st.Visible() {
		if l.Kind() == layer.KindGraph && l.Graph() != nil {
			graphs = append(graphs, l.Graph())
		}
	}
	if len(graphs) == 0 {
		return img
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p := mapcore.Pt(
				rect.MinX+(float64(x)+0.5)*materialCell,
				rect.MinY+(float64(y)+0.5)*materialCell,
			)
			for i := len(graphs) - 1; i >= 0; i-- {
				if id, ok := coveringMaterial(graphs[i], p); ok {
					img.SetColorIndex(x, y, uint8(id))
					break
				}
			}
		}
	}
	return img
}

// coveringMaterial returns the material whose region contains p, if any.
func coveringMaterial(g *graph.Graph, p mapcore.Point) (graph.MaterialID, bool) {
	for _, s := range g.Distances(p, 0) {
		if s.Fill <= 0 {
			return s.Material, true
		}
	}
	return 0, false
}
