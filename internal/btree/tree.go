// Package btree implements the on-disk B-tree engine: search, insert with
// node-splitting, and root management, layered over package store (the
// file) and package cache (the bounded page cache).
package btree

import (
	"errors"
	"fmt"

	"github.com/rickcollette/blockidx/internal/block"
	"github.com/rickcollette/blockidx/internal/cache"
	"github.com/rickcollette/blockidx/internal/errs"
	"github.com/rickcollette/blockidx/internal/events"
	"github.com/rickcollette/blockidx/internal/store"
)

// Tree is a single open index file plus its page cache. It is the sole
// mutator of that file; nothing else should write to the same path while a
// Tree has it open.
type Tree struct {
	s      *store.Store
	cache  *cache.Cache
	events *events.Bus
}

// Option configures a Tree at construction time.
type Option func(*Tree)

// WithCacheCapacity overrides the page cache's default capacity.
func WithCacheCapacity(n int) Option {
	return func(t *Tree) { t.cache = cache.New(n) }
}

// WithEventBus attaches a bus that Create/Open/Insert publish lifecycle events to.
// A Tree with no bus attached behaves identically; publishing is a no-op on
// a nil bus.
func WithEventBus(b *events.Bus) Option {
	return func(t *Tree) { t.events = b }
}

func newTree(s *store.Store, opts []Option) *Tree {
	t := &Tree{s: s, cache: cache.New(cache.DefaultCapacity)}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Create makes a fresh, empty index file at path and returns a Tree open on
// it. If path exists and overwrite is false, it fails with store.ErrExists.
func Create(path string, overwrite bool, opts ...Option) (*Tree, error) {
	s, err := store.Create(path, overwrite)
	if err != nil {
		return nil, err
	}
	t := newTree(s, opts)
	t.events.Publish(events.Event{Kind: events.Created, Path: path})
	return t, nil
}

// Open opens an existing index file and returns a Tree over it.
func Open(path string, opts ...Option) (*Tree, error) {
	s, err := store.Open(path)
	if err != nil {
		return nil, err
	}
	t := newTree(s, opts)
	t.events.Publish(events.Event{Kind: events.Opened, Path: path})
	return t, nil
}

// Path returns the path of the open index file.
func (t *Tree) Path() string {
	return t.s.Path()
}

// readNode fetches a node by id, consulting the page cache before falling
// back to the file store.
func (t *Tree) readNode(id block.ID) (*block.Node, error) {
	if id == 0 {
		return nil, fmt.Errorf("readNode: block id 0 is the header, not a node")
	}
	if n, ok := t.cache.Get(id); ok {
		return n, nil
	}
	n, err := t.s.ReadBlock(id)
	if err != nil {
		return nil, err
	}
	t.cache.Put(n)
	return n, nil
}

// writeNode is the write-through path: persist to the store, then refresh
// the cache entry.
func (t *Tree) writeNode(n *block.Node) error {
	if err := t.s.WriteBlock(n); err != nil {
		return err
	}
	t.cache.Put(n)
	return nil
}

// allocate hands out the next block id and persists the new high-water mark
// immediately, before the caller writes the node that will occupy it.
func (t *Tree) allocate() (block.ID, error) {
	h, err := t.s.ReadHeader()
	if err != nil {
		return 0, err
	}
	id := h.NextFree
	if err := t.s.WriteHeaderNextFree(id + 1); err != nil {
		return 0, err
	}
	return id, nil
}

// Search looks up key and returns its value, or errs.ErrNotFound if the tree
// is empty or the key is absent.
func (t *Tree) Search(key uint64) (uint64, error) {
	h, err := t.s.ReadHeader()
	if err != nil {
		return 0, err
	}
	if h.Root == 0 {
		return 0, errs.ErrNotFound
	}

	current, err := t.readNode(h.Root)
	if err != nil {
		return 0, err
	}

	for {
		i := 0
		for i < current.NumKeys && key > current.Keys[i] {
			i++
		}
		if i < current.NumKeys && key == current.Keys[i] {
			return current.Values[i], nil
		}

		var childID block.ID
		if i < current.NumKeys {
			childID = current.Children[i]
		} else {
			childID = current.Children[current.NumKeys]
		}
		if childID == 0 {
			return 0, errs.ErrNotFound
		}
		current, err = t.readNode(childID)
		if err != nil {
			return 0, err
		}
	}
}

// has reports whether key is already present, for Insert's duplicate check.
func (t *Tree) has(key uint64) (bool, error) {
	_, err := t.Search(key)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, errs.ErrNotFound) {
		return false, nil
	}
	return false, err
}
