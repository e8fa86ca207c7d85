package medium

import (
	"fmt"

	"github.com/joshuapare/prefkit/internal/format"
	"github.com/joshuapare/prefkit/internal/mmfile"
)

// RTC is battery-backed RAM. Contents are zero after a cold power-on and
// survive resets for as long as the RTC value lives. Writes are durable as
// soon as Write returns, so RTC does not implement Syncer.
//
// When created with NewRTCFile the words are kept in a file instead, which
// lets tools observe the same memory across process runs.
type RTC struct {
	words int
	path  string
	mem   []byte
	m     *mmfile.Mapping
}

// NewRTC creates an in-memory RTC with the given number of user words.
func NewRTC(words int) *RTC {
	return &RTC{words: words}
}

// NewRTCFile creates an RTC whose words are stored in the file at path.
func NewRTCFile(path string, words int) *RTC {
	return &RTC{words: words, path: path}
}

func (r *RTC) Name() string { return "rtc" }

// Open returns the RTC itself as the handle. Reopening after Close sees the
// same contents.
func (r *RTC) Open() (Handle, error) {
	if r.words <= 0 {
		return nil, fmt.Errorf("rtc: invalid word count %d", r.words)
	}
	if r.mem != nil {
		return r, nil
	}
	size := format.WordsToBytes(r.words)
	if r.path == "" {
		r.mem = make([]byte, size)
		return r, nil
	}
	m, err := mmfile.OpenRW(r.path, size, 0x00)
	if err != nil {
		return nil, fmt.Errorf("rtc: %w", err)
	}
	r.m = m
	r.mem = m.Bytes()
	return r, nil
}

func (r *RTC) Size() int { return len(r.mem) }

func (r *RTC) Read(off, n int) ([]byte, error) {
	if r.mem == nil {
		return nil, ErrClosed
	}
	if err := checkAccess(len(r.mem), off, n); err != nil {
		return nil, fmt.Errorf("rtc read: %w", err)
	}
	out := make([]byte, n)
	copy(out, r.mem[off:off+n])
	return out, nil
}

func (r *RTC) Write(off int, p []byte) error {
	if r.mem == nil {
		return ErrClosed
	}
	if err := checkAccess(len(r.mem), off, len(p)); err != nil {
		return fmt.Errorf("rtc write: %w", err)
	}
	copy(r.mem[off:], p)
	if r.m != nil {
		return r.m.Flush(off, len(p))
	}
	return nil
}

// ProtectedRange returns the eboot words the update bootloader reads.
func (r *RTC) ProtectedRange() Range {
	n := min(format.RTCProtectedWords, r.words)
	return Range{Off: 0, Len: format.WordsToBytes(n)}
}

// WriteThrough reports true: RTC writes are durable immediately and do not wear.
func (r *RTC) WriteThrough() bool { return true }

// Bytes exposes the raw memory. Intended for diagnostics and tests.
func (r *RTC) Bytes() []byte { return r.mem }

// Close releases the backing file, if any. An in-memory RTC keeps its
// contents, as battery-backed RAM does across a reset.
func (r *RTC) Close() error {
	if r.m == nil {
		return nil
	}
	err := r.m.Close()
	r.m = nil
	r.mem = nil
	return err
}

var (
	_ Medium       = (*RTC)(nil)
	_ Handle       = (*RTC)(nil)
	_ Protector    = (*RTC)(nil)
	_ WriteThrough = (*RTC)(nil)
)
