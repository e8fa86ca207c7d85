package medium

import (
	"fmt"
	"io"
)

// Faulty wraps a Medium, counts the physical operations that reach it and
// injects failures on demand. Fault counts are deterministic: FailWrites(2)
// fails exactly the next two writes. A negative count fails every call until
// Heal is called.
//
// The zero configuration injects nothing and only counts.
type Faulty struct {
	inner Medium

	failOpen   bool
	failReads  int
	failWrites int
	failSyncs  int

	// Counters for operations that reached the inner medium.
	Reads  int
	Writes int
	Syncs  int

	// WriteLog records every successful write in order.
	WriteLog []Range
}

// NewFaulty wraps inner.
func NewFaulty(inner Medium) *Faulty {
	return &Faulty{inner: inner}
}

// FailOpen makes the next Open calls fail while set.
func (f *Faulty) FailOpen(fail bool) { f.failOpen = fail }

// FailReads fails the next n reads (n < 0: all reads).
func (f *Faulty) FailReads(n int) { f.failReads = n }

// FailWrites fails the next n writes (n < 0: all writes).
func (f *Faulty) FailWrites(n int) { f.failWrites = n }

// FailSyncs fails the next n syncs (n < 0: all syncs).
func (f *Faulty) FailSyncs(n int) { f.failSyncs = n }

// Heal clears every pending fault.
func (f *Faulty) Heal() {
	f.failOpen = false
	f.failReads, f.failWrites, f.failSyncs = 0, 0, 0
}

// ResetCounters zeroes the operation counters and the write log.
func (f *Faulty) ResetCounters() {
	f.Reads, f.Writes, f.Syncs = 0, 0, 0
	f.WriteLog = nil
}

func (f *Faulty) Name() string { return "faulty(" + f.inner.Name() + ")" }

func (f *Faulty) Open() (Handle, error) {
	if f.failOpen {
		return nil, fmt.Errorf("%s open: %w", f.inner.Name(), ErrInjected)
	}
	h, err := f.inner.Open()
	if err != nil {
		return nil, err
	}
	return &faultyHandle{f: f, h: h}, nil
}

// take consumes one fault from *n and reports whether the call must fail.
func take(n *int) bool {
	switch {
	case *n < 0:
		return true
	case *n > 0:
		*n--
		return true
	default:
		return false
	}
}

type faultyHandle struct {
	f *Faulty
	h Handle
}

func (fh *faultyHandle) Size() int { return fh.h.Size() }

func (fh *faultyHandle) Read(off, n int) ([]byte, error) {
	if take(&fh.f.failReads) {
		return nil, fmt.Errorf("read at %d: %w", off, ErrInjected)
	}
	fh.f.Reads++
	return fh.h.Read(off, n)
}

func (fh *faultyHandle) Write(off int, p []byte) error {
	if take(&fh.f.failWrites) {
		return fmt.Errorf("write at %d: %w", off, ErrInjected)
	}
	if err := fh.h.Write(off, p); err != nil {
		return err
	}
	fh.f.Writes++
	fh.f.WriteLog = append(fh.f.WriteLog, Range{Off: off, Len: len(p)})
	return nil
}

func (fh *faultyHandle) Sync() error {
	if take(&fh.f.failSyncs) {
		return fmt.Errorf("sync: %w", ErrInjected)
	}
	fh.f.Syncs++
	if s, ok := fh.h.(Syncer); ok {
		return s.Sync()
	}
	return nil
}

func (fh *faultyHandle) ProtectedRange() Range {
	return ProtectedRangeOf(fh.h)
}

func (fh *faultyHandle) WriteThrough() bool {
	return IsWriteThrough(fh.h)
}

func (fh *faultyHandle) Close() error {
	if c, ok := fh.h.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

var (
	_ Medium    = (*Faulty)(nil)
	_ Syncer    = (*faultyHandle)(nil)
	_ Protector = (*faultyHandle)(nil)
	_ io.Closer = (*faultyHandle)(nil)
)
