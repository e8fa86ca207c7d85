package pref

import (
	"encoding/binary"
	"fmt"

	"github.com/joshuapare/prefkit/internal/format"
	"github.com/joshuapare/prefkit/pref/medium"
)

// Values are encoded little-endian and packed, with no padding between
// fields. T must be fixed-size: numbers, bools, arrays and structs of them.

// sizeOf returns the encoded size of T, or ErrValueType.
func sizeOf[T any]() (int, error) {
	var zero T
	n := binary.Size(&zero)
	if n < 0 {
		return 0, fmt.Errorf("%w: %T", ErrValueType, zero)
	}
	return n, nil
}

// MakePreferenceFor allocates a region sized for T. If T is not fixed-size
// the region is unbound.
func MakePreferenceFor[T any](s *Store, typeTag uint32, class ...medium.Class) *Region {
	n, err := sizeOf[T]()
	if err != nil {
		c := s.opts.DefaultClass
		if len(class) > 0 {
			c = class[0]
		}
		s.log.Warn("cannot allocate preference", "type", fmt.Sprintf("0x%08x", typeTag), "error", err)
		return &Region{store: s, class: c, offset: -1, typeTag: typeTag}
	}
	return s.MakePreference(format.WordsFor(n), typeTag, class...)
}

// Save encodes v and saves it to r.
func Save[T any](r *Region, v *T, immediate bool) error {
	if _, err := sizeOf[T](); err != nil {
		return err
	}
	b, err := binary.Append(nil, binary.LittleEndian, v)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrValueType, err)
	}
	return r.Save(b, immediate)
}

// Load loads r and decodes it into v. On any error v is left untouched.
func Load[T any](r *Region, v *T) error {
	n, err := sizeOf[T]()
	if err != nil {
		return err
	}
	b := make([]byte, n)
	if err := r.Load(b); err != nil {
		return err
	}
	var out T
	if _, err := binary.Decode(b, binary.LittleEndian, &out); err != nil {
		return fmt.Errorf("%w: %w", ErrValueType, err)
	}
	*v = out
	return nil
}
