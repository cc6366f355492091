package block

import (
	"bytes"
	"errors"
	"testing"

	"github.com/rickcollette/blockidx/internal/errs"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	n := &Node{
		ID:       7,
		ParentID: 3,
		NumKeys:  2,
	}
	n.Keys[0], n.Values[0] = 10, 100
	n.Keys[1], n.Values[1] = 20, 200
	n.Children[0] = 1
	n.Children[1] = 2
	n.Children[2] = 9

	buf := Encode(n)
	if len(buf) != Size {
		t.Fatalf("encoded block is %d bytes, want %d", len(buf), Size)
	}
	if len(buf) >= occupiedBytes {
		for _, b := range buf[occupiedBytes:] {
			if b != 0 {
				t.Fatalf("trailing padding is not zero")
			}
		}
	}

	got, err := Decode(buf, 7)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if *got != *n {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, n)
	}
}

func TestDecodeWrongSize(t *testing.T) {
	_, err := Decode(make([]byte, 10), 1)
	if !errors.Is(err, errs.ErrCorruptBlock) {
		t.Fatalf("expected ErrCorruptBlock, got %v", err)
	}
}

func TestDecodeBlockIDMismatch(t *testing.T) {
	n := &Node{ID: 5, NumKeys: 0}
	buf := Encode(n)
	if _, err := Decode(buf, 6); !errors.Is(err, errs.ErrCorruptBlock) {
		t.Fatalf("expected ErrCorruptBlock on id mismatch, got %v", err)
	}
}

func TestLeafDetection(t *testing.T) {
	n := &Node{NumKeys: 1}
	n.Keys[0], n.Values[0] = 1, 1
	if !n.IsLeaf() {
		t.Fatalf("node with all-zero children should be a leaf")
	}
	n.Children[0] = 42
	if n.IsLeaf() {
		t.Fatalf("node with a nonzero child should not be a leaf")
	}
}

func TestHeaderRoundTrip(t *testing.T) {
	buf := EncodeHeader(0, 1)
	if len(buf) != Size {
		t.Fatalf("header block is %d bytes, want %d", len(buf), Size)
	}
	if !bytes.Equal(buf[0:8], []byte(Magic)) {
		t.Fatalf("magic mismatch")
	}
	h, err := DecodeHeader(buf)
	if err != nil {
		t.Fatalf("DecodeHeader: %v", err)
	}
	if h.Root != 0 || h.NextFree != 1 {
		t.Fatalf("unexpected header: %+v", h)
	}
}

func TestHeaderBadMagic(t *testing.T) {
	buf := EncodeHeader(0, 1)
	copy(buf[0:8], "XXXXXXXX")
	_, err := DecodeHeader(buf)
	if !errors.Is(err, errs.ErrBadMagic) {
		t.Fatalf("expected ErrBadMagic, got %v", err)
	}
}
