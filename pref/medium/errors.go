package medium

import (
	"errors"
	"fmt"

	"github.com/joshuapare/prefkit/internal/buf"
	"github.com/joshuapare/prefkit/internal/format"
)

var (
	// ErrOutOfRange indicates an access beyond the medium's capacity.
	ErrOutOfRange = errors.New("medium: access out of range")

	// ErrUnaligned indicates an offset or length that is not whole words.
	ErrUnaligned = errors.New("medium: access not word aligned")

	// ErrClosed indicates I/O on a handle that has been closed.
	ErrClosed = errors.New("medium: closed")

	// ErrCorrupt indicates a persisted medium image failed validation.
	ErrCorrupt = errors.New("medium: corrupt image")

	// ErrInjected is returned by Faulty for injected failures.
	ErrInjected = errors.New("medium: injected failure")

	// ErrUnknownClass indicates a class name that is not recognised.
	ErrUnknownClass = errors.New("medium: unknown class")
)

// checkAccess validates a word-aligned access of n bytes at off against size.
func checkAccess(size, off, n int) error {
	if format.CheckWordAligned(off, n) != nil {
		return fmt.Errorf("%w: off=%d len=%d", ErrUnaligned, off, n)
	}
	if _, err := buf.CheckRange(size, off, n); err != nil {
		return fmt.Errorf("%w: %w", ErrOutOfRange, err)
	}
	return nil
}
