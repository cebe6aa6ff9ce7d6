// Package tilecache provides a sharded LRU cache for per-tile evaluation
// results. The compositor bins graph-layer distance queries into fixed-size
// tiles; tiles are rendered concurrently, so the cache is safe for parallel
// use and sharded to keep lock contention off the render path.
package tilecache

import (
	"sync"
	"sync/atomic"
)

const (
	// shardCount must be a power of two so shard selection is a mask.
	shardCount = 16
	shardMask  = shardCount - 1

	// DefaultCapacity is the per-shard entry limit when none is given.
	DefaultCapacity = 256
)

// Key addresses one evaluated tile: a layer's content generation plus the
// tile's position in the tile grid. Bumping the generation implicitly
// invalidates every tile of the previous one; stale generations age out
// through LRU eviction.
type Key struct {
	Generation uint64
	TileX      int32
	TileY      int32
}

func (k Key) hash() uint64 {
	// splitmix-style mix; the fields alone are too regular to shard well.
	h := k.Generation ^ uint64(uint32(k.TileX))<<32 ^ uint64(uint32(k.TileY))
	h ^= h >> 30
	h *= 0xbf58476d1ce4e5b9
	h ^= h >> 27
	return h
}

// Cache is a sharded LRU keyed by tile. Values are stored as-is and shared
// between readers; callers must not mutate a tile after inserting it.
type Cache[V any] struct {
	shards   [shardCount]shard[V]
	capacity int

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

type shard[V any] struct {
	mu      sync.Mutex
	entries map[Key]*entry[V]
	head    *entry[V] // most recent
	tail    *entry[V] // eviction candidate
}

type entry[V any] struct {
	key        Key
	value      V
	prev, next *entry[V]
}

// New creates a cache holding up to capacity tiles per shard.
func New[V any](capacity int) *Cache[V] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	c := &Cache[V]{capacity: capacity}
	for i := range c.shards {
		c.shards[i].entries = make(map[Key]*entry[V])
	}
	return c
}

func (c *Cache[V]) shardFor(k Key) *shard[V] {
	return &c.shards[k.hash()&shardMask]
}

func (s *shard[V]) unlink(e *entry[V]) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		s.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		s.tail = e.prev
	}
	e.prev, e.next = nil, nil
}

func (s *shard[V]) pushFront(e *entry[V]) {
	e.next = s.head
	if s.head != nil {
		s.head.prev = e
	}
	s.head = e
	if s.tail == nil {
		s.tail = e
	}
}

// Get returns a cached tile, refreshing its recency.
func (c *Cache[V]) Get(k Key) (V, bool) {
	s := c.shardFor(k)
	s.mu.Lock()
	e, ok := s.entries[k]
	if !ok {
		s.mu.Unlock()
		c.misses.Add(1)
		var zero V
		return zero, false
	}
	if s.head != e {
		s.unlink(e)
		s.pushFront(e)
	}
	v := e.value
	s.mu.Unlock()
	c.hits.Add(1)
	return v, true
}

// GetOrCreate returns the cached tile or evaluates it with create. The
// create function runs with the shard lock held so a tile is never evaluated
// twice concurrently; tile evaluation is bounded work, so holding the lock
// is acceptable.
func (c *Cache[V]) GetOrCreate(k Key, create func() V) V {
	s := c.shardFor(k)
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[k]; ok {
		if s.head != e {
			s.unlink(e)
			s.pushFront(e)
		}
		c.hits.Add(1)
		return e.value
	}
	c.misses.Add(1)

	v := create()
	for len(s.entries) >= c.capacity && s.tail != nil {
		old := s.tail
		s.unlink(old)
		delete(s.entries, old.key)
		c.evictions.Add(1)
	}
	e := &entry[V]{key: k, value: v}
	s.pushFront(e)
	s.entries[k] = e
	return v
}

// Set stores a tile, replacing any previous value for the key.
func (c *Cache[V]) Set(k Key, v V) {
	s := c.shardFor(k)
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[k]; ok {
		e.value = v
		if s.head != e {
			s.unlink(e)
			s.pushFront(e)
		}
		return
	}
	for len(s.entries) >= c.capacity && s.tail != nil {
		old := s.tail
		s.unlink(old)
		delete(s.entries, old.key)
		c.evictions.Add(1)
	}
	e := &entry[V]{key: k, value: v}
	s.pushFront(e)
	s.entries[k] = e
}

// Clear drops every cached tile.
func (c *Cache[V]) Clear() {
	for i := range c.shards {
		s := &c.shards[i]
		s.mu.Lock()
		s.entries = make(map[Key]*entry[V])
		s.head, s.tail = nil, nil
		s.mu.Unlock()
	}
}

// Len returns the total number of cached tiles.
func (c *Cache[V]) Len() int {
	n := 0
	for i := range c.shards {
		s := &c.shards[i]
		s.mu.Lock()
		n += len(s.entries)
		s.mu.Unlock()
	}
	return n
}

// Stats is a point-in-time counter snapshot.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// Stats returns cumulative counters.
func (c *Cache[V]) Stats() Stats {
	return Stats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
	}
}
