package btree

import "github.com/rickcollette/blockidx/internal/block"

// KV is one key/value pair yielded by a traversal, in ascending key order.
type KV struct {
	Key   uint64
	Value uint64
}

// All walks the whole tree in order and returns every pair. For the fan-out
// and key range this engine is designed for, materializing the slice is
// simpler than threading a cancellable iterator through every caller (PRINT
// and EXTRACT both want the whole thing anyway).
func (t *Tree) All() ([]KV, error) {
	h, err := t.s.ReadHeader()
	if err != nil {
		return nil, err
	}
	var out []KV
	if err := t.inorder(h.Root, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (t *Tree) inorder(id block.ID, out *[]KV) error {
	if id == 0 {
		return nil
	}
	n, err := t.readNode(id)
	if err != nil {
		return err
	}
	i := 0
	for i < n.NumKeys {
		if err := t.inorder(n.Children[i], out); err != nil {
			return err
		}
		*out = append(*out, KV{Key: n.Keys[i], Value: n.Values[i]})
		i++
	}
	return t.inorder(n.Children[i], out)
}
