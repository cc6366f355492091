// Package loader implements the bulk text loader (§4.7): reading
// `key,value` lines from a text source and driving inserts against a tree,
// tolerating malformed lines rather than aborting the whole load.
package loader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rickcollette/blockidx/internal/errs"
)

// Both per-line failure modes wrap errs.ErrInvalidArgument (per §7); Load
// does not return them but uses these two sentinels to tell them apart and
// keep separate success/duplicate/malformed/negative tallies, per §4.7.
var (
	errMalformed = fmt.Errorf("malformed line: %w", errs.ErrInvalidArgument)
	errNegative  = fmt.Errorf("negative number: %w", errs.ErrInvalidArgument)
)

// Inserter is the subset of *btree.Tree the loader needs; Load accepts any
// value with this method.
type Inserter interface {
	Insert(key, value uint64) error
}

// Summary tallies per-line outcomes across a Load call.
type Summary struct {
	Success   int
	Duplicate int
	Malformed int
	Negative  int
}

// Total returns the number of lines processed.
func (s Summary) Total() int {
	return s.Success + s.Duplicate + s.Malformed + s.Negative
}

// Load reads key,value lines from r and inserts each into t, counting
// outcomes instead of stopping at the first bad line.
func Load(r io.Reader, t Inserter) (Summary, error) {
	var sum Summary
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		key, value, err := parseLine(line)
		if err != nil {
			switch {
			case errors.Is(err, errNegative):
				sum.Negative++
			default:
				sum.Malformed++
			}
			continue
		}

		if err := t.Insert(key, value); err != nil {
			if errors.Is(err, errs.ErrDuplicateKey) {
				sum.Duplicate++
				continue
			}
			return sum, err
		}
		sum.Success++
	}
	if err := scanner.Err(); err != nil {
		return sum, errs.IoErrorf("reading load source: %w", err)
	}
	return sum, nil
}

// parseLine splits line on the first comma into two fields and parses each
// as a non-negative decimal uint64. A leading sign on either field is
// rejected, matching the "leading signs rejected" rule in §6.
func parseLine(line string) (key, value uint64, err error) {
	idx := strings.IndexByte(line, ',')
	if idx < 0 {
		return 0, 0, errMalformed
	}
	keyField := strings.TrimSpace(line[:idx])
	valueField := strings.TrimSpace(line[idx+1:])

	key, err = parseUnsigned(keyField)
	if err != nil {
		return 0, 0, err
	}
	value, err = parseUnsigned(valueField)
	if err != nil {
		return 0, 0, err
	}
	return key, value, nil
}

func parseUnsigned(field string) (uint64, error) {
	if field == "" {
		return 0, errMalformed
	}
	if field[0] == '-' {
		return 0, errNegative
	}
	if field[0] == '+' {
		return 0, errMalformed
	}
	v, err := strconv.ParseUint(field, 10, 64)
	if err != nil {
		return 0, errMalformed
	}
	return v, nil
}
