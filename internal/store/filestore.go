// Package store owns the index file on disk: creating it, opening it,
// reading and writing individual blocks, and maintaining the header. It
// knows nothing about B-tree semantics.
package store

import (
	"io"
	"os"

	"github.com/rickcollette/blockidx/internal/block"
	"github.com/rickcollette/blockidx/internal/errs"
)

// Store is a handle to one open index file. It keeps no long-lived file
// descriptor: every operation reopens the path briefly, matching the
// single-process, non-durable-after-crash resource model.
type Store struct {
	path string
}

// ErrExists is returned by Create when path already exists and overwrite is false.
var ErrExists = errs.IoErrorf("index file already exists")

// Create opens path for writing a fresh index file: a header with root=0,
// next-free=1, and the remainder zero-padded. If path already exists and
// overwrite is false, Create returns ErrExists without touching the file,
// so the caller (the CLI) can prompt the user as described in §1.
func Create(path string, overwrite bool) (*Store, error) {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return nil, ErrExists
		} else if !os.IsNotExist(err) {
			return nil, errs.IoErrorf("stat %s: %w", path, err)
		}
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, errs.IoErrorf("create %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.Write(block.EncodeHeader(0, 1)); err != nil {
		return nil, errs.IoErrorf("write header to %s: %w", path, err)
	}

	return &Store{path: path}, nil
}

// Open opens an existing index file read/write and verifies its magic tag.
func Open(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.IoErrorf("open %s: file not found", path)
		}
		return nil, errs.IoErrorf("open %s: %w", path, err)
	}
	defer f.Close()

	buf := make([]byte, 8)
	if _, err := io.ReadFull(f, buf); err != nil {
		return nil, errs.IoErrorf("read header of %s: %w", path, err)
	}
	if string(buf) != block.Magic {
		return nil, errs.ErrBadMagic
	}

	return &Store{path: path}, nil
}

// Path returns the path of the open index file.
func (s *Store) Path() string {
	return s.path
}

// ReadHeader reads and decodes block 0.
func (s *Store) ReadHeader() (*block.Header, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, errs.IoErrorf("open %s: %w", s.path, err)
	}
	defer f.Close()

	buf := make([]byte, block.Size)
	if _, err := io.ReadFull(f, buf); err != nil {
		return nil, errs.CorruptBlockf("read header of %s: %w", s.path, err)
	}
	return block.DecodeHeader(buf)
}

// WriteHeaderRoot overwrites only the root field of the header (offset 8).
func (s *Store) WriteHeaderRoot(root block.ID) error {
	return s.writeHeaderField(block.HeaderRootOffset, root)
}

// WriteHeaderNextFree overwrites only the next-free field of the header (offset 16).
func (s *Store) WriteHeaderNextFree(next block.ID) error {
	return s.writeHeaderField(block.HeaderNextFreeOffset, next)
}

func (s *Store) writeHeaderField(offset int64, v block.ID) error {
	f, err := os.OpenFile(s.path, os.O_WRONLY, 0644)
	if err != nil {
		return errs.IoErrorf("open %s: %w", s.path, err)
	}
	defer f.Close()

	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return errs.IoErrorf("seek in %s: %w", s.path, err)
	}
	buf := make([]byte, 8)
	putBE64(buf, uint64(v))
	if _, err := f.Write(buf); err != nil {
		return errs.IoErrorf("write header field in %s: %w", s.path, err)
	}
	return nil
}

// ReadBlock reads and decodes the node at id. id must be >= 1; block 0 is the
// header and is read via ReadHeader instead.
func (s *Store) ReadBlock(id block.ID) (*block.Node, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, errs.IoErrorf("open %s: %w", s.path, err)
	}
	defer f.Close()

	if _, err := f.Seek(int64(id)*block.Size, io.SeekStart); err != nil {
		return nil, errs.IoErrorf("seek to block %d in %s: %w", id, s.path, err)
	}

	buf := make([]byte, block.Size)
	if _, err := io.ReadFull(f, buf); err != nil {
		return nil, errs.CorruptBlockf("read block %d of %s: %w", id, s.path, err)
	}
	return block.Decode(buf, id)
}

// WriteBlock encodes n and writes it at n.ID's offset.
func (s *Store) WriteBlock(n *block.Node) error {
	f, err := os.OpenFile(s.path, os.O_WRONLY, 0644)
	if err != nil {
		return errs.IoErrorf("open %s: %w", s.path, err)
	}
	defer f.Close()

	if _, err := f.Seek(int64(n.ID)*block.Size, io.SeekStart); err != nil {
		return errs.IoErrorf("seek to block %d in %s: %w", n.ID, s.path, err)
	}
	if _, err := f.Write(block.Encode(n)); err != nil {
		return errs.IoErrorf("write block %d of %s: %w", n.ID, s.path, err)
	}
	return nil
}

func putBE64(buf []byte, v uint64) {
	for i := 7; i >= 0; i-- {
		buf[i] = byte(v)
		v >>= 8
	}
}
