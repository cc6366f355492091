package btree

import (
	"github.com/rickcollette/blockidx/internal/block"
	"github.com/rickcollette/blockidx/internal/errs"
	"github.com/rickcollette/blockidx/internal/events"
)

// Insert adds (key, value) to the tree. It fails with errs.ErrDuplicateKey
// if key is already present.
func (t *Tree) Insert(key, value uint64) error {
	h, err := t.s.ReadHeader()
	if err != nil {
		return err
	}

	if h.Root == 0 {
		return t.insertIntoEmptyTree(key, value)
	}

	dup, err := t.has(key)
	if err != nil {
		return err
	}
	if dup {
		return errs.ErrDuplicateKey
	}

	root, err := t.readNode(h.Root)
	if err != nil {
		return err
	}

	if root.NumKeys == block.MaxKeys {
		if err := t.splitRoot(root); err != nil {
			return err
		}
		// Re-read the (new) root after the split and continue from there.
		h, err = t.s.ReadHeader()
		if err != nil {
			return err
		}
		root, err = t.readNode(h.Root)
		if err != nil {
			return err
		}
	}

	if err := t.insertNonFull(root, key, value); err != nil {
		return err
	}
	t.events.Publish(events.Event{Kind: events.Inserted, Path: t.Path(), Key: key})
	return nil
}

func (t *Tree) insertIntoEmptyTree(key, value uint64) error {
	id, err := t.allocate()
	if err != nil {
		return err
	}
	n := &block.Node{ID: id, ParentID: 0, NumKeys: 1}
	n.Keys[0] = key
	n.Values[0] = value
	if err := t.writeNode(n); err != nil {
		return err
	}
	if err := t.s.WriteHeaderRoot(id); err != nil {
		return err
	}
	t.events.Publish(events.Event{Kind: events.Inserted, Path: t.Path(), Key: key})
	return nil
}

// splitRoot handles the special case of a full root: allocate a new empty
// parent, attach the old root as its sole child, split the old root off of
// it, and point the header at the new parent.
func (t *Tree) splitRoot(oldRoot *block.Node) error {
	newRootID, err := t.allocate()
	if err != nil {
		return err
	}
	newRoot := &block.Node{ID: newRootID, ParentID: 0, NumKeys: 0}
	newRoot.Children[0] = oldRoot.ID
	oldRoot.ParentID = newRootID

	if err := t.splitChild(newRoot, 0, oldRoot); err != nil {
		return err
	}

	if err := t.s.WriteHeaderRoot(newRootID); err != nil {
		return err
	}
	t.events.Publish(events.Event{Kind: events.RootReplaced, Path: t.Path(), NodeID: uint64(newRootID)})
	return nil
}

// insertNonFull implements §4.5's insert-non-full: place directly into a
// leaf, or descend into the appropriate child, splitting it first if full.
func (t *Tree) insertNonFull(node *block.Node, key, value uint64) error {
	if node.IsLeaf() {
		i := node.NumKeys - 1
		for i >= 0 && key < node.Keys[i] {
			node.Keys[i+1] = node.Keys[i]
			node.Values[i+1] = node.Values[i]
			i--
		}
		node.Keys[i+1] = key
		node.Values[i+1] = value
		node.NumKeys++
		return t.writeNode(node)
	}

	i := 0
	for i < node.NumKeys && key > node.Keys[i] {
		i++
	}

	child, err := t.readNode(node.Children[i])
	if err != nil {
		return err
	}

	if child.NumKeys == block.MaxKeys {
		if err := t.splitChild(node, i, child); err != nil {
			return err
		}
		if key > node.Keys[i] {
			i++
		}
		child, err = t.readNode(node.Children[i])
		if err != nil {
			return err
		}
	}

	return t.insertNonFull(child, key, value)
}

// splitChild splits the full node `child`, the i-th child of `parent`, in
// two, promoting the median key into parent at index i.
func (t *Tree) splitChild(parent *block.Node, i int, child *block.Node) error {
	const mid = block.MinKeysAfterSplit // 9

	siblingID, err := t.allocate()
	if err != nil {
		return err
	}
	sibling := &block.Node{ID: siblingID, ParentID: parent.ID}

	for j := mid + 1; j < block.MaxKeys; j++ {
		sibling.Keys[j-(mid+1)] = child.Keys[j]
		sibling.Values[j-(mid+1)] = child.Values[j]
		child.Keys[j] = 0
		child.Values[j] = 0
	}

	wasInternal := !child.IsLeaf()
	if wasInternal {
		for j := mid + 1; j < block.MaxChildren; j++ {
			sibling.Children[j-(mid+1)] = child.Children[j]
			child.Children[j] = 0
		}
	}

	sibling.NumKeys = mid
	promotedKey := child.Keys[mid]
	promotedValue := child.Values[mid]
	child.Keys[mid] = 0
	child.Values[mid] = 0
	child.NumKeys = mid

	for j := parent.NumKeys; j > i; j-- {
		parent.Keys[j] = parent.Keys[j-1]
		parent.Values[j] = parent.Values[j-1]
		parent.Children[j+1] = parent.Children[j]
	}
	parent.Keys[i] = promotedKey
	parent.Values[i] = promotedValue
	parent.Children[i+1] = sibling.ID
	parent.NumKeys++

	// Resolved ordering (§9): the parent here may be a brand-new root (for a
	// root split) or an existing interior node; either way the parent is
	// written first, then child, then sibling, and any header update happens
	// in the caller after this returns.
	if err := t.writeNode(parent); err != nil {
		return err
	}
	if err := t.writeNode(child); err != nil {
		return err
	}
	if err := t.writeNode(sibling); err != nil {
		return err
	}

	// Children that moved to the sibling now name it as their parent.
	if wasInternal {
		for _, cid := range sibling.Children[:mid+1] {
			moved, err := t.readNode(cid)
			if err != nil {
				return err
			}
			moved.ParentID = sibling.ID
			if err := t.writeNode(moved); err != nil {
				return err
			}
		}
	}

	t.events.Publish(events.Event{
		Kind:     events.Split,
		Path:     t.Path(),
		NodeID:   uint64(child.ID),
		ParentID: uint64(parent.ID),
	})
	return nil
}
