package medium

import "fmt"

// Medium is durable storage the store can open.
type Medium interface {
	// Name identifies the medium in diagnostics.
	Name() string

	// Open prepares the medium for I/O. It is called once per store.
	Open() (Handle, error)
}

// Handle is an opened medium.
type Handle interface {
	// Size returns the capacity in bytes.
	Size() int

	// Read returns n bytes starting at off.
	Read(off, n int) ([]byte, error)

	// Write stores p starting at off.
	Write(off int, p []byte) error
}

// Syncer is implemented by handles whose writes are not durable until synced.
type Syncer interface {
	Sync() error
}

// Protector is implemented by handles with a sub-range that must not be
// written during a firmware update. An empty Range means no protection.
type Protector interface {
	ProtectedRange() Range
}

// Class selects a storage class when a store has more than one medium.
type Class uint8

const (
	// ClassRTC is battery-backed memory adjacent to the bootloader's data.
	ClassRTC Class = iota
	// ClassFlash is general-purpose flash (or flash-like) storage.
	ClassFlash
	// ClassNVS is a key-value blob store.
	ClassNVS
)

func (c Class) String() string {
	switch c {
	case ClassRTC:
		return "rtc"
	case ClassFlash:
		return "flash"
	case ClassNVS:
		return "nvs"
	default:
		return fmt.Sprintf("class(%d)", uint8(c))
	}
}

// ParseClass parses the names produced by Class.String.
func ParseClass(s string) (Class, error) {
	switch s {
	case "rtc":
		return ClassRTC, nil
	case "flash":
		return ClassFlash, nil
	case "nvs":
		return ClassNVS, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownClass, s)
	}
}

// Range is a byte range [Off, Off+Len) of a medium.
type Range struct {
	Off int // Absolute offset in bytes
	Len int // Length in bytes
}

// End returns the exclusive end offset.
func (r Range) End() int { return r.Off + r.Len }

// Empty reports whether the range covers no bytes.
func (r Range) Empty() bool { return r.Len <= 0 }

// Intersects reports whether r and o share at least one byte.
func (r Range) Intersects(o Range) bool {
	if r.Empty() || o.Empty() {
		return false
	}
	return r.Off < o.End() && o.Off < r.End()
}

// Contains reports whether o lies entirely within r.
func (r Range) Contains(o Range) bool {
	return o.Off >= r.Off && o.End() <= r.End()
}

func (r Range) String() string {
	return fmt.Sprintf("[0x%04x, 0x%04x)", r.Off, r.End())
}

// ProtectedRangeOf returns h's protected range, or an empty range when h
// has no protection.
func ProtectedRangeOf(h Handle) Range {
	if p, ok := h.(Protector); ok {
		return p.ProtectedRange()
	}
	return Range{}
}

// WriteThrough is implemented by handles whose writes are durable on return
// and cost no wear (battery-backed RAM). Saves to such media are written
// immediately instead of waiting for the periodic commit.
type WriteThrough interface {
	WriteThrough() bool
}

// IsWriteThrough reports whether h prefers immediate writes.
func IsWriteThrough(h Handle) bool {
	if w, ok := h.(WriteThrough); ok {
		return w.WriteThrough()
	}
	return false
}
