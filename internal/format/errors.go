package format

import "errors"

var (
	// ErrTruncated indicates the buffer lacked the bytes required for a structure.
	ErrTruncated = errors.New("format: truncated buffer")
	// ErrUnaligned indicates an offset or length that is not a whole number of words.
	ErrUnaligned = errors.New("format: not word aligned")
)

// CheckWordAligned returns ErrUnaligned unless both off and n are multiples of WordSize.
func CheckWordAligned(off, n int) error {
	if off%WordSize != 0 || n%WordSize != 0 {
		return ErrUnaligned
	}
	return nil
}
