package loader

import (
	"bufio"
	"fmt"
	"io"

	"github.com/rickcollette/blockidx/internal/btree"
)

// Extract writes every (key, value) pair in pairs to w as newline-terminated
// "key,value" lines, in the order given — callers pass the already
// ascending-order output of (*btree.Tree).All.
func Extract(w io.Writer, pairs []btree.KV) (int, error) {
	bw := bufio.NewWriter(w)
	for _, p := range pairs {
		if _, err := fmt.Fprintf(bw, "%d,%d\n", p.Key, p.Value); err != nil {
			return 0, err
		}
	}
	if err := bw.Flush(); err != nil {
		return 0, err
	}
	return len(pairs), nil
}
