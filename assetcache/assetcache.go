// Package assetcache is the content-addressed store backing map uploads.
// Packaged map bytes are hashed; byte-identical content is uploaded at most
// once. Capacity is bounded by entry count and total bytes with LRU eviction;
// entries referenced by an active play session are pinned and never evicted.
package assetcache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/zerr"

	"github.com/cbmap/mapcore"
)

// Errors returned by cache operations.
var (
	ErrNotFound = errors.New("assetcache: entry not found")
	ErrPinned   = errors.New("assetcache: entry is pinned")
)

// Uploader is the external transport. Implementations must honor the context
// and return the stored artifact's URL.
type Uploader interface {
	Upload(ctx context.Context, hash uint64, data []byte) (url string, err error)
}

// Admission decides whether an upload may proceed. A false result is
// reported to the caller as OutcomeThrottled, not as an error, so the caller
// can retry later without special-casing.
type Admission interface {
	Admit(ctx context.Context, size int64) bool
}

// State of a cache entry. Failed uploads leave no entry behind, so an entry
// is only ever pending or present.
type State uint8

const (
	StatePending State = iota
	StatePresent
)

// Entry is the public view of a cached upload.
type Entry struct {
	Hash  uint64
	URL   string
	Size  int64
	State State
}

type entry struct {
	hash       uint64
	url        string
	size       int64
	state      State
	lastAccess time.Time
	pins       int
	task       *Task
}

func (e *entry) view() Entry {
	return Entry{Hash: e.hash, URL: e.url, Size: e.size, State: e.state}
}

// Cache is the map asset cache. All methods are safe for concurrent use;
// Upload never blocks on the network, it hands back a Task.
type Cache struct {
	uploader   Uploader
	maxBytes   int64
	maxEntries int

	// Admission gates uploads before any entry is created. Nil admits all.
	Admission Admission

	mu         sync.Mutex
	entries    map[uint64]*entry
	totalBytes int64
	now        func() time.Time

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// New creates a cache in front of the given uploader. Zero capacities mean
// unbounded on that axis.
func New(up Uploader, maxBytes int64, maxEntries int) *Cache {
	return &Cache{
		uploader:   up,
		maxBytes:   maxBytes,
		maxEntries: maxEntries,
		entries:    make(map[uint64]*entry),
		now:        time.Now,
	}
}

// Upload hashes the packaged bytes and returns a task resolving to the cache
// outcome. Byte-identical content already present is returned immediately
// with its access time refreshed and no transfer; content already uploading
// shares the in-flight task. Otherwise the admission check runs, a pending
// entry is inserted and the transfer starts in the background.
func (c *Cache) Upload(ctx context.Context, data []byte) *Task {
	hash := xxhash.Sum64(data)
	size := int64(len(data))

	c.mu.Lock()
	if e, ok := c.entries[hash]; ok {
		if e.state == StatePending {
			t := e.task
			c.mu.Unlock()
			c.hits.Add(1)
			return t
		}
		e.lastAccess = c.now()
		v := e.view()
		c.mu.Unlock()
		c.hits.Add(1)
		return resolvedTask(Result{Outcome: OutcomeDeduplicated, Entry: v})
	}
	c.mu.Unlock()
	c.misses.Add(1)

	if c.Admission != nil && !c.Admission.Admit(ctx, size) {
		return resolvedTask(Result{Outcome: OutcomeThrottled})
	}

	t := newTask()
	e := &entry{hash: hash, size: size, state: StatePending, lastAccess: c.now(), task: t}

	c.mu.Lock()
	if prior, ok := c.entries[hash]; ok {
		// Lost a race with an identical upload; share its task.
		t := prior.task
		if t == nil {
			t = resolvedTask(Result{Outcome: OutcomeDeduplicated, Entry: prior.view()})
		}
		c.mu.Unlock()
		return t
	}
	c.entries[hash] = e
	c.totalBytes += size
	c.mu.Unlock()

	go c.transfer(ctx, e, data)
	return t
}

// transfer runs the upload and settles the entry and its task.
func (c *Cache) transfer(ctx context.Context, e *entry, data []byte) {
	url, err := c.uploader.Upload(ctx, e.hash, data)

	c.mu.Lock()
	t := e.task
	if err != nil {
		delete(c.entries, e.hash)
		c.totalBytes -= e.size
		c.mu.Unlock()
		t.resolve(Result{
			Outcome: OutcomeFailed,
			Err:     zerr.With(zerr.Wrap(err, "assetcache: upload"), "hash", e.hash),
		})
		return
	}
	e.state = StatePresent
	e.url = url
	e.lastAccess = c.now()
	e.task = nil
	v := e.view()
	c.evictLocked()
	c.mu.Unlock()

	t.resolve(Result{Outcome: OutcomeStored, Entry: v})
}

// Get returns a present entry, refreshing its access time.
func (c *Cache) Get(hash uint64) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[hash]
	if !ok || e.state != StatePresent {
		c.misses.Add(1)
		return Entry{}, false
	}
	e.lastAccess = c.now()
	c.hits.Add(1)
	return e.view(), true
}

// Pin marks an entry as in use by a play session. Pinned entries survive
// eviction until their pin count drops to zero.
func (c *Cache) Pin(hash uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[hash]
	if !ok {
		return ErrNotFound
	}
	e.pins++
	return nil
}

// Unpin releases one pin.
func (c *Cache) Unpin(hash uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[hash]
	if !ok {
		return ErrNotFound
	}
	if e.pins > 0 {
		e.pins--
	}
	return nil
}

// Invalidate removes an entry. Pinned entries are refused.
func (c *Cache) Invalidate(hash uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[hash]
	if !ok {
		return ErrNotFound
	}
	if e.pins > 0 {
		return ErrPinned
	}
	delete(c.entries, hash)
	c.totalBytes -= e.size
	return nil
}

// evictLocked removes least-recently-used present unpinned entries until both
// capacity bounds hold. If only pinned entries remain the cache stays over
// budget and a warning is logged; pinned entries are never evicted.
func (c *Cache) evictLocked() {
	over := func() bool {
		if c.maxEntries > 0 && len(c.entries) > c.maxEntries {
			return true
		}
		if c.maxBytes > 0 && c.totalBytes > c.maxBytes {
			return true
		}
		return false
	}
	for over() {
		var victim *entry
		for _, e := range c.entries {
			if e.state != StatePresent || e.pins > 0 {
				continue
			}
			if victim == nil || e.lastAccess.Before(victim.lastAccess) {
				victim = e
			}
		}
		if victim == nil {
			mapcore.Logger().Warn("asset cache over budget, remaining entries pinned or in flight",
				"entries", len(c.entries), "bytes", c.totalBytes)
			return
		}
		delete(c.entries, victim.hash)
		c.totalBytes -= victim.size
		c.evictions.Add(1)
	}
}

// Stats is a point-in-time counter snapshot.
type Stats struct {
	Entries   int
	Bytes     int64
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// Stats returns cumulative counters and current occupancy.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	entries := len(c.entries)
	bytes := c.totalBytes
	c.mu.Unlock()
	return Stats{
		Entries:   entries,
		Bytes:     bytes,
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
	}
}
