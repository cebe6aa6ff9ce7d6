// Package cbmap packages a document (layer stack, material palette, markup)
// into the .cbmap archive format and back.
//
// Packing is deterministic: entries are written in a fixed order with zeroed
// timestamps and all JSON uses stable field order, so byte-identical content
// always produces byte-identical archives. The asset cache hashes archive
// bytes to deduplicate uploads; that only works if packing never introduces
// incidental variation.
package cbmap

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"image/png"
	"io"

	"github.com/klauspost/compress/flate"
	"go.trai.ch/zerr"

	"github.com/cbmap/mapcore"
	"github.com/cbmap/mapcore/graph"
	"github.com/cbmap/mapcore/layer"
)

// formatVersion is bumped on incompatible archive layout changes.
const formatVersion = 1

// Archive entry names.
const (
	entryMap       = "map.json"
	entryMaterials = "materials.json"
	entryGrid      = "materials.png"
	entryMarkup    = "markup.json"
)

// Document is everything a .cbmap archive holds.
type Document struct {
	Stack     *layer.Stack
	Materials graph.Slots
	Markup    Markup

	// Rect is the content bounds in world units. Recomputed on Pack,
	// populated on Unpack.
	Rect mapcore.Rect
}

type layerJSON struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Kind    string  `json:"kind"`
	Visible bool    `json:"visible"`
	Payload string  `json:"payload"`
	OriginX float64 `json:"origin_x,omitempty"`
	OriginY float64 `json:"origin_y,omitempty"`
	Scale   float64 `json:"scale,omitempty"`
}

type mapJSON struct {
	Version int         `json:"version"`
	Layers  []layerJSON `json:"layers"`
}

type materialJSON struct {
	Name    string `json:"name"`
	Fill    string `json:"fill"`
	Outline string `json:"outline"`
}

type materialsJSON struct {
	MapRect   [4]float64     `json:"map_rect"`
	Materials []materialJSON `json:"materials"`
}

// Pack serializes the document into archive bytes.
func Pack(doc *Document) ([]byte, error) {
	st := doc.Stack
	if st == nil {
		st = layer.NewStack()
	}
	slots := doc.Materials
	if len(slots) == 0 {
		slots = graph.BuiltinSlots()
	}
	rect := contentBounds(st)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.BestSpeed)
	})

	m := mapJSON{Version: formatVersion}
	type payload struct {
		name string
		data []byte
	}
	var payloads []payload
	for i := 0; i < st.Len(); i++ {
		l := st.At(i)
		lj := layerJSON{
			ID:      l.ID().String(),
			Name:    l.Name(),
			Kind:    l.Kind().String(),
			Visible: l.Visible(),
		}
		switch l.Kind() {
		case layer.KindPaint:
			p := l.Paint()
			var pngBuf bytes.Buffer
			if p.Pixmap != nil {
				if err := p.Pixmap.EncodePNG(&pngBuf); err != nil {
					return nil, zerr.With(zerr.Wrap(err, "cbmap: encode paint layer"), "layer", lj.ID)
				}
			}
			lj.Payload = layerEntryName(i, "png")
			lj.OriginX, lj.OriginY = p.Origin.X, p.Origin.Y
			lj.Scale = p.Scale
			payloads = append(payloads, payload{lj.Payload, pngBuf.Bytes()})
		case layer.KindGraph:
			data, err := json.Marshal(l.Graph())
			if err != nil {
				return nil, zerr.With(zerr.Wrap(err, "cbmap: encode graph layer"), "layer", lj.ID)
			}
			lj.Payload = layerEntryName(i, "json")
			payloads = append(payloads, payload{lj.Payload, data})
		}
		m.Layers = append(m.Layers, lj)
	}

	mapData, err := json.Marshal(m)
	if err != nil {
		return nil, zerr.Wrap(err, "cbmap: encode map.json")
	}
	if err := addEntry(zw, entryMap, mapData); err != nil {
		return nil, err
	}

	mats := materialsJSON{MapRect: [4]float64{rect.MinX, rect.MinY, rect.MaxX, rect.MaxY}}
	for _, s := range slots {
		mats.Materials = append(mats.Materials, materialJSON{
			Name:    s.Name,
			Fill:    colorToHex(s.Fill),
			Outline: colorToHex(s.Outline),
		})
	}
	matData, err := json.Marshal(mats)
	if err != nil {
		return nil, zerr.Wrap(err, "cbmap: encode materials.json")
	}
	if err := addEntry(zw, entryMaterials, matData); err != nil {
		return nil, err
	}

	var gridBuf bytes.Buffer
	if err := png.Encode(&gridBuf, RenderMaterialGrid(st, slots, rect)); err != nil {
		return nil, zerr.Wrap(err, "cbmap: encode materials.png")
	}
	if err := addEntry(zw, entryGrid, gridBuf.Bytes()); err != nil {
		return nil, err
	}

	markupData, err := json.Marshal(doc.Markup)
	if err != nil {
		return nil, zerr.Wrap(err, "cbmap: encode markup.json")
	}
	if err := addEntry(zw, entryMarkup, markupData); err != nil {
		return nil, err
	}

	for _, p := range payloads {
		if err := addEntry(zw, p.name, p.data); err != nil {
			return nil, err
		}
	}

	if err := zw.Close(); err != nil {
		return nil, zerr.Wrap(err, "cbmap: finalize archive")
	}
	return buf.Bytes(), nil
}

func layerEntryName(index int, ext string) string {
	return fmt.Sprintf("layers/%04d.%s", index, ext)
}

// addEntry writes one archive entry with a zeroed timestamp.
func addEntry(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate})
	if err != nil {
		return zerr.With(zerr.Wrap(err, "cbmap: create entry"), "entry", name)
	}
	if _, err := w.Write(data); err != nil {
		return zerr.With(zerr.Wrap(err, "cbmap: write entry"), "entry", name)
	}
	return nil
}

// contentBounds unions graph bounds with paint layer placements over the
// whole stack, hidden layers included.
func contentBounds(st *layer.Stack) mapcore.Rect {
	r := mapcore.EmptyRect()
	for i := 0; i < st.Len(); i++ {
		l := st.At(i)
		switch l.Kind() {
		case layer.KindGraph:
			if g := l.Graph(); g != nil {
				r = r.Union(g.Bounds())
			}
		case layer.KindPaint:
			p := l.Paint()
			if p.Pixmap == nil {
				continue
			}
			r = r.Union(mapcore.Rect{
				MinX: p.Origin.X,
				MinY: p.Origin.Y,
				MaxX: p.Origin.X + float64(p.Pixmap.Width())*p.Scale,
				MaxY: p.Origin.Y + float64(p.Pixmap.Height())*p.Scale,
			})
		}
	}
	if r.IsEmpty() {
		return mapcore.Rect{}
	}
	return r
}
