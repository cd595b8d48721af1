package inference

import (
	"sync"
	"sync/atomic"
	"time"
)

// Key identifies one memoized inference query: the kind of closure
// (transitive, hierarchical, specialization), the node the walk started
// from, the edge type being followed, and any extra parameters (maxDepth,
// for example) folded into a string so the whole key stays comparable.
type Key struct {
	QueryKind string
	StartNode int64
	EdgeType  string
	Params    string
}

// entry holds a cached result alongside the store generation it was computed
// against and the wall-clock time it was stored.
type entry struct {
	edges         []CachedEdge
	cycleDetected bool
	generation    int64
	storedAt      time.Time
	hitCount      atomic.Int32
}

// CachedEdge is the minimal shape an inference query result needs: enough to
// reconstruct a domain.Edge without importing graphstore here.
type CachedEdge struct {
	FromNodeID int64
	ToNodeID   int64
	Type       string
	Rule       string
	Path       []int64
}

// Cache memoizes inference query results, keyed by Key and invalidated
// either by wall-clock age or by the edge type's generation counter
// advancing past the value the entry was computed under. A plain TTL cache
// can't tell "still fresh" apart from "computed before someone wrote a new
// edge"; tracking the generation the entry was computed at closes that gap
// without needing to enumerate what changed.
type Cache struct {
	entries     sync.Map // Key -> *entry
	hits        atomic.Int64
	misses      atomic.Int64
	evictions   atomic.Int64
	maxAge      time.Duration
	maxEntries  int
	size        atomic.Int64
	cleanupOnce sync.Once
}

// NewCache returns a cache whose entries expire after maxAge. maxAge zero
// disables time-based expiry (generation checks still apply). maxEntries is
// not a hard bound: exceeding it only triggers a prune of expired entries,
// and there is no least-recently-used eviction.
func NewCache(maxAge time.Duration, maxEntries int) *Cache {
	return &Cache{maxAge: maxAge, maxEntries: maxEntries}
}

// GenerationSource reports the current generation counter for an edge type,
// so Get can tell a stale entry from a fresh one without graphstore
// depending on this package.
type GenerationSource interface {
	Generation(edgeType string) int64
}

// Get returns the cached result for key if present, still within maxAge,
// and computed at the edge type's current generation.
func (c *Cache) Get(key Key, gen GenerationSource) ([]CachedEdge, bool) {
	v, ok := c.entries.Load(key)
	if !ok {
		c.misses.Add(1)
		return nil, false
	}
	e := v.(*entry)

	if c.maxAge > 0 && time.Since(e.storedAt) > c.maxAge {
		c.evict(key, e)
		c.misses.Add(1)
		return nil, false
	}
	if gen != nil && gen.Generation(key.EdgeType) != e.generation {
		c.evict(key, e)
		c.misses.Add(1)
		return nil, false
	}

	e.hitCount.Add(1)
	c.hits.Add(1)
	return e.edges, true
}

// cycleFlag reports whether the cached entry for key (if any) was stored
// with cycleDetected set. Only meaningful right after a Get hit on the same
// key; used by QueryTransitive to recover the cycle signal a cache hit
// otherwise wouldn't carry.
func (c *Cache) cycleFlag(key Key) bool {
	v, ok := c.entries.Load(key)
	if !ok {
		return false
	}
	return v.(*entry).cycleDetected
}

// Put stores a result computed at the given generation. A store that would
// push the cache over maxEntries prunes expired entries; the new entry is
// stored either way, so the cache can stay above maxEntries. When maxAge is
// set, a background goroutine also prunes expired entries once per maxAge.
func (c *Cache) Put(key Key, edges []CachedEdge, generation int64) {
	c.putEntry(key, edges, false, generation)
}

// PutTransitive is Put plus the cycle flag QueryTransitive computes
// alongside its edges, so a later cache hit can still report it.
func (c *Cache) PutTransitive(key Key, edges []CachedEdge, cycleDetected bool, generation int64) {
	c.putEntry(key, edges, cycleDetected, generation)
}

func (c *Cache) putEntry(key Key, edges []CachedEdge, cycleDetected bool, generation int64) {
	e := &entry{edges: edges, cycleDetected: cycleDetected, generation: generation, storedAt: time.Now()}
	_, loaded := c.entries.LoadOrStore(key, e)
	if !loaded {
		c.size.Add(1)
	} else {
		c.entries.Store(key, e)
	}

	if c.maxEntries > 0 && int(c.size.Load()) > c.maxEntries {
		c.pruneExpired()
	}

	c.cleanupOnce.Do(func() {
		if c.maxAge > 0 {
			go c.cleanupLoop()
		}
	})
}

// Invalidate drops every cached entry for an edge type, used when a change
// is too broad to rely on generation comparison alone (a bulk replaceFile,
// for instance).
func (c *Cache) Invalidate(edgeType string) {
	c.entries.Range(func(k, v any) bool {
		key := k.(Key)
		if key.EdgeType == edgeType {
			c.entries.Delete(k)
			c.size.Add(-1)
			c.evictions.Add(1)
		}
		return true
	})
}

func (c *Cache) evict(key Key, e *entry) {
	if _, ok := c.entries.LoadAndDelete(key); ok {
		c.size.Add(-1)
		c.evictions.Add(1)
	}
}

func (c *Cache) cleanupLoop() {
	ticker := time.NewTicker(c.maxAge)
	defer ticker.Stop()
	for range ticker.C {
		c.pruneExpired()
	}
}

func (c *Cache) pruneExpired() {
	now := time.Now()
	c.entries.Range(func(k, v any) bool {
		e := v.(*entry)
		if c.maxAge > 0 && now.Sub(e.storedAt) > c.maxAge {
			c.entries.Delete(k)
			c.size.Add(-1)
			c.evictions.Add(1)
		}
		return true
	})
}

// Stats reports cache hit/miss/eviction counters for diagnostics.
func (c *Cache) Stats() map[string]int64 {
	hits, misses := c.hits.Load(), c.misses.Load()
	return map[string]int64{
		"hits":      hits,
		"misses":    misses,
		"evictions": c.evictions.Load(),
		"size":      c.size.Load(),
		"hit_rate":  hits * 100 / (hits + misses + 1),
	}
}
