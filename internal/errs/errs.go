// Package errs defines the sentinel error kinds shared by every core
// component, so callers anywhere in the module can test outcomes with
// errors.Is instead of string matching.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrIoError wraps an underlying filesystem failure.
	ErrIoError = errors.New("io error")
	// ErrBadMagic is returned when a file's header does not carry the expected magic tag.
	ErrBadMagic = errors.New("bad magic")
	// ErrCorruptBlock is returned for a short read, a malformed block, or a
	// block_id self-check mismatch.
	ErrCorruptBlock = errors.New("corrupt block")
	// ErrDuplicateKey is returned when an insert targets a key already present in the tree.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrNotFound is returned by a search that does not locate the requested key.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument is returned for negative or unparsable numeric input
	// at the bulk-loader boundary.
	ErrInvalidArgument = errors.New("invalid argument")
)

// IoErrorf wraps err with ErrIoError and the supplied context.
func IoErrorf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrIoError)...)
}

// CorruptBlockf wraps ErrCorruptBlock with the supplied context.
func CorruptBlockf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrCorruptBlock)...)
}
