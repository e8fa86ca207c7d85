package pref

import (
	"fmt"

	"github.com/joshuapare/prefkit/internal/format"
	"github.com/joshuapare/prefkit/pref/medium"
)

// Region is a fixed slice of a store's mirror holding one value.
//
// Layout (little-endian words):
//
//	[payload word 0] ... [payload word lengthWords-1] [checksum]
//
// A Region is only usable through the store that created it.
type Region struct {
	store       *Store
	class       medium.Class
	offset      int // word index in the partition; -1 when unbound
	lengthWords int
	typeTag     uint32
	data        []byte // payload + checksum words; nil when unbound
}

// IsInitialized reports whether the region was allocated.
func (r *Region) IsInitialized() bool { return r.data != nil }

// Offset returns the word index of the region in its medium, or -1.
func (r *Region) Offset() int { return r.offset }

// LengthWords returns the payload length in words.
func (r *Region) LengthWords() int { return r.lengthWords }

// Type returns the type tag.
func (r *Region) Type() uint32 { return r.typeTag }

// Class returns the medium class the region was requested from.
func (r *Region) Class() medium.Class { return r.class }

func (r *Region) payloadLen() int { return format.WordsToBytes(r.lengthWords) }

func (r *Region) byteRange() medium.Range {
	return medium.Range{Off: format.WordsToBytes(r.offset), Len: len(r.data)}
}

func (r *Region) checksum(payload []byte) uint32 {
	return format.Checksum(r.typeTag, r.offset, r.lengthWords, payload)
}

// Save stores p, zero-padded to the region's length, and marks it for the
// next commit. With immediate set every dirty byte in the store is committed
// before Save returns and a medium failure is returned wrapped in ErrMedium.
// While write prevention is on, an immediate save persists only the bytes
// outside the medium's protected range. Held bytes stay dirty and Save
// still returns nil.
func (r *Region) Save(p []byte, immediate bool) error {
	if !r.IsInitialized() {
		return ErrNotInitialized
	}
	if len(p) > r.payloadLen() {
		return fmt.Errorf("%w: %d bytes, region holds %d", ErrValueSize, len(p), r.payloadLen())
	}

	s := r.store
	n := r.payloadLen()
	clear(r.data)
	copy(r.data, p)
	format.PutU32(r.data, n, r.checksum(r.data[:n]))

	s.stats.Saves++
	s.markSaved(r)

	now := s.clock.Now()
	s.sched.Rearm(now)

	if immediate {
		return s.commit(now)
	}
	return nil
}

// Load verifies the region and copies the first len(p) payload bytes into p.
// Unless the region has uncommitted changes it is first re-read from the
// medium. On any error p is left untouched.
func (r *Region) Load(p []byte) error {
	if !r.IsInitialized() {
		return ErrNotInitialized
	}
	if len(p) > r.payloadLen() {
		return fmt.Errorf("%w: %d bytes, region holds %d", ErrValueSize, len(p), r.payloadLen())
	}

	s := r.store
	s.stats.Loads++

	rng := r.byteRange()
	if !s.parts[r.class].dirty.Overlaps(rng) {
		if err := s.loadInternal(r); err != nil {
			return fmt.Errorf("%w: load %s %s: %w", ErrMedium, r.class, rng, err)
		}
	}

	staged := make([]byte, len(r.data))
	copy(staged, r.data)

	n := r.payloadLen()
	if format.ReadU32(staged, n) != r.checksum(staged[:n]) {
		s.stats.IntegrityFailures++
		return ErrIntegrity
	}

	copy(p, staged[:len(p)])
	return nil
}

func (r *Region) String() string {
	if !r.IsInitialized() {
		return fmt.Sprintf("%s type=0x%08x words=%d unbound", r.class, r.typeTag, r.lengthWords)
	}
	return fmt.Sprintf("%s type=0x%08x words=%d offset=%d", r.class, r.typeTag, r.lengthWords, r.offset)
}
