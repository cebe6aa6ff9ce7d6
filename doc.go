// Package mapcore provides the shared geometry and pixel vocabulary for the
// cbmap editor core.
//
// # Overview
//
// mapcore is the foundation the higher-level packages build on:
//
//   - Point, Rect, Matrix: 2D geometry and affine viewport transforms
//   - RGBA, Pixmap: straight-alpha colors and the framebuffer they land in
//
// The interesting machinery lives in the sub-packages:
//
//   - sdf: signed-distance-field primitives (segments, corners, grids, ...)
//   - graph: the material graph deciding which material a region resolves to
//   - layer: the ordered stack of paint and graph layers
//   - compose: the compositor that turns visible layers into pixels
//   - cbmap: deterministic packaging of a map into a .cbmap archive
//   - assetcache: the content-addressed upload cache behind the Play workflow
//
// # Quick Start
//
//	g := graph.New()
//	g.AddNode(graph.Node{Pos: mapcore.Pt(64, 0), Radius: 16, Material: 1})
//
//	st := layer.NewStack()
//	st.Insert(layer.NewGraphLayer("walls", g), 0)
//
//	c := compose.New(config.Default())
//	fb, err := c.Composite(ctx, st, compose.Viewport{Width: 256, Height: 256, Zoom: 1})
//	if err != nil {
//		...
//	}
//	fb.SavePNG("preview.png")
package mapcore
