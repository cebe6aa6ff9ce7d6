package layer

import (
	"bytes"
	"image/png"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/cbmap/mapcore"
	"go.trai.ch/zerr"
)

// BufferCache memoizes decoded paint buffers keyed by the content hash of the
// encoded bytes. Opening a document decodes every paint layer; re-opening or
// undoing back to a previous buffer hits the cache instead of re-decoding.
type BufferCache struct {
	lru *lru.Cache[uint64, *mapcore.Pixmap]

	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewBufferCache creates a cache holding up to size decoded buffers.
func NewBufferCache(size int) (*BufferCache, error) {
	c, err := lru.New[uint64, *mapcore.Pixmap](size)
	if err != nil {
		return nil, zerr.Wrap(err, "layer: buffer cache")
	}
	return &BufferCache{lru: c}, nil
}

// Decode returns the pixmap for PNG-encoded bytes, decoding on a miss. The
// returned pixmap is shared with the cache; callers that will mutate it must
// Clone first.
func (c *BufferCache) Decode(data []byte) (*mapcore.Pixmap, error) {
	key := xxhash.Sum64(data)
	if pm, ok := c.lru.Get(key); ok {
		c.hits.Add(1)
		return pm, nil
	}
	c.misses.Add(1)

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, zerr.Wrap(err, "layer: decode paint buffer")
	}
	pm := mapcore.FromImage(img)
	c.lru.Add(key, pm)
	return pm, nil
}

// Stats returns cumulative hit and miss counts.
func (c *BufferCache) Stats() (hits, misses uint64) {
	return c.hits.Load(), c.misses.Load()
}

// Purge drops every cached buffer.
func (c *BufferCache) Purge() {
	c.lru.Purge()
}
