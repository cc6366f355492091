// Package cache provides a bounded, write-through page cache mapping block
// ids to resident nodes, adapted from the teacher's node cache
// (container/list-ordered, mutex-guarded) but with FIFO-oldest-first
// eviction rather than least-recently-used: a Get is never a promotion.
package cache

import (
	"container/list"
	"sync"

	"github.com/rickcollette/blockidx/internal/block"
)

// DefaultCapacity matches the working set of a root-to-leaf descent plus one
// sibling during a split.
const DefaultCapacity = 3

// Cache is a bounded map from block.ID to *block.Node.
type Cache struct {
	mu       sync.Mutex
	capacity int
	order    *list.List                    // oldest at Back, newest at Front
	elems    map[block.ID]*list.Element    // id -> its element in order (Value is block.ID)
	nodes    map[block.ID]*block.Node
}

// New creates a Cache with the given capacity. A capacity <= 0 falls back to
// DefaultCapacity.
func New(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache{
		capacity: capacity,
		order:    list.New(),
		elems:    make(map[block.ID]*list.Element, capacity),
		nodes:    make(map[block.ID]*block.Node, capacity),
	}
}

// Get returns the cached node for id, if resident. Unlike an LRU cache, a
// hit does not change eviction order.
func (c *Cache) Get(id block.ID) (*block.Node, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, ok := c.nodes[id]
	return n, ok
}

// Put inserts or refreshes the cached entry for n.ID. If the cache is at
// capacity and n.ID is not already resident, the oldest entry is evicted
// first.
func (c *Cache) Put(n *block.Node) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.nodes[n.ID]; ok {
		// Write-through refresh: keep the existing FIFO position.
		c.nodes[n.ID] = n
		return
	}

	if c.capacity > 0 && len(c.nodes) >= c.capacity {
		c.evictOldestLocked()
	}

	elem := c.order.PushFront(n.ID)
	c.elems[n.ID] = elem
	c.nodes[n.ID] = n
}

func (c *Cache) evictOldestLocked() {
	oldest := c.order.Back()
	if oldest == nil {
		return
	}
	id := oldest.Value.(block.ID)
	c.order.Remove(oldest)
	delete(c.elems, id)
	delete(c.nodes, id)
}

// Invalidate clears every resident entry. The cache is not shared across
// index files: each Tree returned by btree.Create or btree.Open builds its
// own Cache rather than calling Invalidate on an existing one.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order.Init()
	c.elems = make(map[block.ID]*list.Element, c.capacity)
	c.nodes = make(map[block.ID]*block.Node, c.capacity)
}

// Len returns the number of resident entries, chiefly for tests.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.nodes)
}
