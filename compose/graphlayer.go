package compose

import (
	"context"
	"runtime"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"

	"github.com/cbmap/mapcore"
	"github.com/cbmap/mapcore/graph"
	"github.com/cbmap/mapcore/internal/tilecache"
	"github.com/cbmap/mapcore/layer"
	"github.com/cbmap/mapcore/sdf"
)

// tileSize is the square tile edge for parallel graph evaluation, in pixels.
const tileSize = 64

// renderGraph evaluates a graph layer into a premultiplied contribution
// buffer. Tiles are evaluated in parallel and memoized in the tile cache, so
// a toggle-off/toggle-on or an undone removal re-renders from cache instead
// of re-resolving the graph.
func (c *Compositor) renderGraph(ctx context.Context, l *layer.Layer, vp Viewport) ([]float32, error) {
	buf := make([]float32, vp.Width*vp.Height*4)
	g := l.Graph()
	if g == nil || g.NodeCount() == 0 {
		return buf, nil
	}

	inv := vp.ScreenToWorld()
	// Tile identity mixes the layer id and generation with the viewport key:
	// any change invalidates, matching the contribution cache. The id keeps
	// two layers at the same generation from sharing tiles.
	id := l.ID()
	genKey := xxhash.Sum64(id[:]) ^ l.Generation() ^ c.vpKey*0x9e3779b97f4a7c15

	tilesX := (vp.Width + tileSize - 1) / tileSize
	tilesY := (vp.Height + tileSize - 1) / tileSize

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for ty := 0; ty < tilesY; ty++ {
		for tx := 0; tx < tilesX; tx++ {
			eg.Go(func() error {
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}
				x0, y0 := tx*tileSize, ty*tileSize
				w := min(tileSize, vp.Width-x0)
				h := min(tileSize, vp.Height-y0)
				key := tilecache.Key{Generation: genKey, TileX: int32(tx), TileY: int32(ty)}
				tile := c.tiles.GetOrCreate(key, func() []float32 {
					return c.renderGraphTile(g, inv, vp.Zoom, x0, y0, w, h)
				})
				for row := 0; row < h; row++ {
					src := tile[row*w*4 : (row+1)*w*4]
					dstOff := ((y0+row)*vp.Width + x0) * 4
					copy(buf[dstOff:dstOff+w*4], src)
				}
				return nil
			})
		}
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return buf, nil
}

// renderGraphTile evaluates one tile: for each pixel the nearest material's
// fill is shaded, with its outline band drawn over the boundary. Output is
// premultiplied.
func (c *Compositor) renderGraphTile(g *graph.Graph, inv mapcore.Matrix, zoom float64, x0, y0, w, h int) []float32 {
	tile := make([]float32, w*h*4)
	outlineHalf := c.cfg.OutlineWidth / 2
	for py := 0; py < h; py++ {
		for px := 0; px < w; px++ {
			world := inv.Apply(mapcore.Pt(float64(x0+px)+0.5, float64(y0+py)+0.5))
			samples := g.Distances(world, outlineHalf)
			if len(samples) == 0 {
				continue
			}
			s := samples[0]
			mat := c.Materials.Get(s.Material)

			// Screen-space anti-aliasing: the gradient is unit length in
			// world space, so one screen pixel spans gradMag/zoom world
			// units of distance.
			gradMag := s.Gradient.Length()
			if gradMag <= 0 {
				gradMag = 1
			}
			cf := sdf.Coverage(s.Fill, gradMag/zoom)
			cl := sdf.Coverage(s.Line, gradMag/zoom)
			if cf <= 0 && cl <= 0 {
				continue
			}

			// Outline over fill, both premultiplied by coverage.
			r := mat.Outline.R*cl + mat.Fill.R*cf*(1-cl)
			gg := mat.Outline.G*cl + mat.Fill.G*cf*(1-cl)
			b := mat.Outline.B*cl + mat.Fill.B*cf*(1-cl)
			a := cl + cf*(1-cl)

			i := (py*w + px) * 4
			tile[i] = float32(r)
			tile[i+1] = float32(gg)
			tile[i+2] = float32(b)
			tile[i+3] = float32(a)
		}
	}
	return tile
}
