package btree

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rickcollette/blockidx/internal/block"
	"github.com/rickcollette/blockidx/internal/errs"
)

func overwriteMagic(t *testing.T, path string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_WRONLY, 0644)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer f.Close()
	if _, err := f.WriteAt([]byte("XXXXXXXX"), 0); err != nil {
		t.Fatalf("WriteAt: %v", err)
	}
}

func newTestTree(t *testing.T) *Tree {
	t.Helper()
	path := filepath.Join(t.TempDir(), "idx")
	tr, err := Create(path, false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return tr
}

func TestSearchEmptyTree(t *testing.T) {
	tr := newTestTree(t)
	if _, err := tr.Search(10); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSingleInsertAndSearch(t *testing.T) {
	tr := newTestTree(t)
	if err := tr.Insert(10, 100); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	h, err := tr.s.ReadHeader()
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if h.Root != 1 || h.NextFree != 2 {
		t.Fatalf("unexpected header after single insert: %+v", h)
	}

	root, err := tr.readNode(1)
	if err != nil {
		t.Fatalf("readNode: %v", err)
	}
	if root.ParentID != 0 || root.NumKeys != 1 || root.Keys[0] != 10 || root.Values[0] != 100 {
		t.Fatalf("unexpected root node: %+v", root)
	}
	for _, c := range root.Children {
		if c != 0 {
			t.Fatalf("fresh single-key root should be a leaf: %+v", root)
		}
	}

	got, err := tr.Search(10)
	if err != nil || got != 100 {
		t.Fatalf("Search(10) = %d, %v; want 100, nil", got, err)
	}
}

func TestDuplicateKeyRejected(t *testing.T) {
	tr := newTestTree(t)
	if err := tr.Insert(10, 100); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := tr.Insert(10, 200); !errors.Is(err, errs.ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}
	got, err := tr.Search(10)
	if err != nil || got != 100 {
		t.Fatalf("Search(10) after rejected duplicate = %d, %v; want 100, nil", got, err)
	}
}

func TestLeafFillThenRootSplit(t *testing.T) {
	tr := newTestTree(t)
	for k := uint64(1); k <= 19; k++ {
		if err := tr.Insert(k, k*10); err != nil {
			t.Fatalf("Insert(%d): %v", k, err)
		}
	}

	root, err := tr.readNode(1)
	if err != nil {
		t.Fatalf("readNode(1): %v", err)
	}
	if root.NumKeys != block.MaxKeys {
		t.Fatalf("root NumKeys = %d, want %d before the triggering insert", root.NumKeys, block.MaxKeys)
	}

	if err := tr.Insert(20, 200); err != nil {
		t.Fatalf("Insert(20): %v", err)
	}

	h, err := tr.s.ReadHeader()
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if h.Root != 2 || h.NextFree != 4 {
		t.Fatalf("unexpected header after root split: %+v", h)
	}

	newRoot, err := tr.readNode(2)
	if err != nil {
		t.Fatalf("readNode(2): %v", err)
	}
	if newRoot.NumKeys != 1 || newRoot.Keys[0] != 10 {
		t.Fatalf("unexpected new root: %+v", newRoot)
	}
	if newRoot.Children[0] != 1 || newRoot.Children[1] != 3 {
		t.Fatalf("unexpected new root children: %+v", newRoot)
	}

	oldRoot, err := tr.readNode(1)
	if err != nil {
		t.Fatalf("readNode(1): %v", err)
	}
	if oldRoot.ParentID != 2 || oldRoot.NumKeys != 9 {
		t.Fatalf("unexpected old root after split: %+v", oldRoot)
	}
	for i := 0; i < 9; i++ {
		if oldRoot.Keys[i] != uint64(i+1) {
			t.Fatalf("old root key[%d] = %d, want %d", i, oldRoot.Keys[i], i+1)
		}
	}

	sibling, err := tr.readNode(3)
	if err != nil {
		t.Fatalf("readNode(3): %v", err)
	}
	if sibling.ParentID != 2 || sibling.NumKeys != 10 {
		t.Fatalf("unexpected sibling after the 20th key lands in it: %+v", sibling)
	}
	for i := 0; i < 10; i++ {
		want := uint64(11 + i)
		if sibling.Keys[i] != want {
			t.Fatalf("sibling key[%d] = %d, want %d", i, sibling.Keys[i], want)
		}
	}

	for k := uint64(1); k <= 20; k++ {
		got, err := tr.Search(k)
		if err != nil || got != k*10 {
			t.Fatalf("Search(%d) = %d, %v; want %d, nil", k, got, err, k*10)
		}
	}
	if _, err := tr.Search(21); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("Search(21) = %v, want ErrNotFound", err)
	}
}

func TestManyInsertsDeepSplitsPreserveSearch(t *testing.T) {
	tr := newTestTree(t)
	const n = 500
	for k := uint64(0); k < n; k++ {
		key := (k * 7919) % 10007 // scatter insertion order
		if err := tr.Insert(key, key+1); err != nil && !errors.Is(err, errs.ErrDuplicateKey) {
			t.Fatalf("Insert(%d): %v", key, err)
		}
	}

	pairs, err := tr.All()
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	for i := 1; i < len(pairs); i++ {
		if pairs[i-1].Key >= pairs[i].Key {
			t.Fatalf("traversal out of order at %d: %v then %v", i, pairs[i-1], pairs[i])
		}
	}
	for _, p := range pairs {
		if p.Value != p.Key+1 {
			t.Fatalf("value mismatch for key %d: got %d", p.Key, p.Value)
		}
		got, err := tr.Search(p.Key)
		if err != nil || got != p.Value {
			t.Fatalf("Search(%d) = %d, %v; want %d, nil", p.Key, got, err, p.Value)
		}
	}
}

func TestOpenBadMagicLeavesNoTree(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "idx")
	if _, err := Create(path, false); err != nil {
		t.Fatalf("Create: %v", err)
	}
	// Corrupt the magic directly on disk to exercise Open's validation path.
	badPath := filepath.Join(dir, "bad")
	if _, err := Create(badPath, false); err != nil {
		t.Fatalf("Create: %v", err)
	}
	overwriteMagic(t, badPath)

	tr, err := Open(badPath)
	if !errors.Is(err, errs.ErrBadMagic) {
		t.Fatalf("expected ErrBadMagic, got %v", err)
	}
	if tr != nil {
		t.Fatalf("expected no Tree on bad magic, got %+v", tr)
	}
}
