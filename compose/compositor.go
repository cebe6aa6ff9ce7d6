// Package compose renders a layer stack into a pixmap.
//
// Each visible layer keeps a cached contribution buffer in premultiplied
// alpha; a layer is re-rendered only when its generation counter moved or the
// viewport changed, so editing one layer never re-resolves the others. The
// blend pass over cached contributions is a cheap per-pixel loop, and the
// single unmultiply step runs once at the very end.
package compose

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/cbmap/mapcore"
	"github.com/cbmap/mapcore/config"
	"github.com/cbmap/mapcore/graph"
	"github.com/cbmap/mapcore/internal/tilecache"
	"github.com/cbmap/mapcore/layer"
)

// Errors returned by Composite.
var (
	ErrBadViewport = errors.New("compose: viewport must have positive size and zoom")
)

// Compositor renders layer stacks. It is stateful: contribution buffers and
// evaluated tiles persist between frames to make recomposition incremental.
// A Compositor is used from the rendering goroutine only.
type Compositor struct {
	cfg config.Config

	// Materials is the palette used for graph layers. Defaults to the
	// builtin slots; replaced wholesale when a document defines its own.
	Materials graph.Slots

	tiles    *tilecache.Cache[[]float32]
	contribs map[uuid.UUID]*contribution
	vpKey    uint64
}

// contribution is one layer's cached premultiplied output, viewport-sized.
type contribution struct {
	gen uint64
	buf []float32 // RGBA, premultiplied
}

// New creates a compositor with the given tunables.
func New(cfg config.Config) *Compositor {
	return &Compositor{
		cfg:       cfg,
		Materials: graph.BuiltinSlots(),
		tiles:     tilecache.New[[]float32](cfg.TileCapacity),
		contribs:  make(map[uuid.UUID]*contribution),
	}
}

// Invalidate drops all cached state. The next Composite re-renders every
// layer. Used when the material palette changes, which contribution
// generations do not track.
func (c *Compositor) Invalidate() {
	c.contribs = make(map[uuid.UUID]*contribution)
	c.tiles.Clear()
}

// Composite renders the stack's visible layers bottom to top into a new
// pixmap. Blending uses premultiplied alpha throughout; the accumulated
// result is unmultiplied exactly once before returning.
func (c *Compositor) Composite(ctx context.Context, st *layer.Stack, vp Viewport) (*mapcore.Pixmap, error) {
	if vp.Width <= 0 || vp.Height <= 0 || vp.Zoom <= 0 {
		return nil, ErrBadViewport
	}
	if k := vp.key(); k != c.vpKey {
		c.contribs = make(map[uuid.UUID]*contribution)
		c.vpKey = k
	}
	c.prune(st)

	visible := st.Visible()
	for _, l := range visible {
		if ct, ok := c.contribs[l.ID()]; ok && ct.gen == l.Generation() {
			continue
		}
		buf, err := c.renderLayer(ctx, l, vp)
		if err != nil {
			return nil, err
		}
		c.contribs[l.ID()] = &contribution{gen: l.Generation(), buf: buf}
	}

	n := vp.Width * vp.Height
	acc := make([]float32, n*4)
	c.fillChecker(acc, vp)
	for _, l := range visible {
		blendOver(acc, c.contribs[l.ID()].buf)
	}

	out := mapcore.NewPixmap(vp.Width, vp.Height)
	for i := 0; i < n; i++ {
		r, g, b, a := unmultiply(acc[i*4], acc[i*4+1], acc[i*4+2], acc[i*4+3])
		out.SetPixel(i%vp.Width, i/vp.Width, mapcore.RGBA{R: r, G: g, B: b, A: a})
	}
	return out, nil
}

func (c *Compositor) renderLayer(ctx context.Context, l *layer.Layer, vp Viewport) ([]float32, error) {
	switch l.Kind() {
	case layer.KindGraph:
		return c.renderGraph(ctx, l, vp)
	case layer.KindPaint:
		return c.renderPaint(l, vp), nil
	default:
		return make([]float32, vp.Width*vp.Height*4), nil
	}
}

// prune drops contributions of layers no longer in the stack.
func (c *Compositor) prune(st *layer.Stack) {
	for id := range c.contribs {
		if _, ok := st.Layer(id); !ok {
			delete(c.contribs, id)
		}
	}
}

// Checkerboard colors, drawn where nothing else covers.
var (
	checkerLight = mapcore.RGB(0.75, 0.75, 0.75)
	checkerDark  = mapcore.RGB(0.66, 0.66, 0.66)
)

// fillChecker writes the analytic background checkerboard. Cells live in
// screen space with a fixed pixel size, so the pattern is stable under zoom
// and never aliases.
func (c *Compositor) fillChecker(acc []float32, vp Viewport) {
	size := c.cfg.CheckerSize
	if size <= 0 {
		size = 16
	}
	for y := 0; y < vp.Height; y++ {
		cy := int(float64(y) / size)
		for x := 0; x < vp.Width; x++ {
			col := checkerLight
			if (int(float64(x)/size)+cy)%2 == 1 {
				col = checkerDark
			}
			i := (y*vp.Width + x) * 4
			acc[i] = float32(col.R)
			acc[i+1] = float32(col.G)
			acc[i+2] = float32(col.B)
			acc[i+3] = 1
		}
	}
}

// blendOver accumulates src over dst, both premultiplied.
func blendOver(dst, src []float32) {
	for i := 0; i < len(dst); i += 4 {
		ia := 1 - src[i+3]
		dst[i] = src[i] + dst[i]*ia
		dst[i+1] = src[i+1] + dst[i+1]*ia
		dst[i+2] = src[i+2] + dst[i+2]*ia
		dst[i+3] = src[i+3] + dst[i+3]*ia
	}
}

// unmultiply converts one premultiplied pixel back to straight alpha.
func unmultiply(r, g, b, a float32) (float64, float64, float64, float64) {
	if a <= 0 {
		return 0, 0, 0, 0
	}
	if a > 1 {
		a = 1
	}
	inv := 1 / float64(a)
	return clamp01(float64(r) * inv), clamp01(float64(g) * inv), clamp01(float64(b) * inv), float64(a)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
