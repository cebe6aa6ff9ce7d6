package cbmap

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image/png"
	"io"

	"github.com/google/uuid"
	"go.trai.ch/zerr"

	"github.com/cbmap/mapcore"
	"github.com/cbmap/mapcore/graph"
	"github.com/cbmap/mapcore/layer"
)

// ErrBadArchive wraps structural problems in an archive being opened.
var ErrBadArchive = errors.New("cbmap: bad archive")

// Unpack reads archive bytes back into a document. The rebuilt stack keeps
// layer identities, order and visibility; material slots and markup are
// restored as stored.
func Unpack(data []byte) (*Document, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, zerr.Wrap(err, "cbmap: open archive")
	}
	files := make(map[string][]byte, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "cbmap: open entry"), "entry", f.Name)
		}
		b, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "cbmap: read entry"), "entry", f.Name)
		}
		files[f.Name] = b
	}

	mapData, ok := files[entryMap]
	if !ok {
		return nil, fmt.Errorf("%w: missing %s", ErrBadArchive, entryMap)
	}
	var m mapJSON
	if err := json.Unmarshal(mapData, &m); err != nil {
		return nil, zerr.Wrap(err, "cbmap: parse map.json")
	}
	if m.Version != formatVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrBadArchive, m.Version)
	}

	doc := &Document{Stack: layer.NewStack()}
	for i, lj := range m.Layers {
		id, err := uuid.Parse(lj.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: layer id %q", ErrBadArchive, lj.ID)
		}
		payload, ok := files[lj.Payload]
		if !ok {
			return nil, fmt.Errorf("%w: missing payload %s", ErrBadArchive, lj.Payload)
		}
		var l *layer.Layer
		switch lj.Kind {
		case layer.KindPaint.String():
			p := &layer.Paint{Origin: mapcore.Pt(lj.OriginX, lj.OriginY), Scale: lj.Scale}
			if len(payload) > 0 {
				img, err := png.Decode(bytes.NewReader(payload))
				if err != nil {
					return nil, zerr.With(zerr.Wrap(err, "cbmap: decode paint layer"), "entry", lj.Payload)
				}
				p.Pixmap = mapcore.FromImage(img)
			}
			l = layer.Restore(id, lj.Name, lj.Visible, p, nil)
		case layer.KindGraph.String():
			g := graph.New()
			if err := json.Unmarshal(payload, g); err != nil {
				return nil, zerr.With(zerr.Wrap(err, "cbmap: decode graph layer"), "entry", lj.Payload)
			}
			l = layer.Restore(id, lj.Name, lj.Visible, nil, g)
		default:
			return nil, fmt.Errorf("%w: unknown layer kind %q", ErrBadArchive, lj.Kind)
		}
		doc.Stack.Insert(l, float64(i))
	}

	if matData, ok := files[entryMaterials]; ok {
		var mats materialsJSON
		if err := json.Unmarshal(matData, &mats); err != nil {
			return nil, zerr.Wrap(err, "cbmap: parse materials.json")
		}
		doc.Rect = mapcore.Rect{
			MinX: mats.MapRect[0], MinY: mats.MapRect[1],
			MaxX: mats.MapRect[2], MaxY: mats.MapRect[3],
		}
		for _, mj := range mats.Materials {
			fill, err := hexToColor(mj.Fill)
			if err != nil {
				return nil, err
			}
			outline, err := hexToColor(mj.Outline)
			if err != nil {
				return nil, err
			}
			doc.Materials = append(doc.Materials, graph.Material{
				Name: mj.Name, Fill: fill, Outline: outline,
			})
		}
	}

	if markupData, ok := files[entryMarkup]; ok {
		if err := json.Unmarshal(markupData, &doc.Markup); err != nil {
			return nil, zerr.Wrap(err, "cbmap: parse markup.json")
		}
	}
	return doc, nil
}
