package medium

import (
	"fmt"

	"github.com/joshuapare/prefkit/internal/format"
	"github.com/joshuapare/prefkit/internal/mmfile"
)

// Flash emulates a flash partition stored in a file. Capacity is rounded up
// to whole sectors. A new image is erased (every byte 0xFF).
//
// Writes modify the mapped image; Sync flushes the written span and the file
// descriptor. A write that needs any bit to go from 0 to 1 counts one erase
// cycle for each sector it touches, which is how wear is reported.
//
// NOT thread-safe.
type Flash struct {
	path   string
	size   int
	m      *mmfile.Mapping
	erases []uint32

	// span of bytes written since the last Sync
	syncLo, syncHi int
}

// NewFlash creates a flash medium of at least size bytes backed by path.
func NewFlash(path string, size int) *Flash {
	sectors := (size + format.FlashSectorSize - 1) / format.FlashSectorSize
	return &Flash{
		path:   path,
		size:   sectors * format.FlashSectorSize,
		erases: make([]uint32, sectors),
		syncLo: -1,
	}
}

func (f *Flash) Name() string { return "flash" }

func (f *Flash) Open() (Handle, error) {
	if f.size <= 0 {
		return nil, fmt.Errorf("flash: invalid size %d", f.size)
	}
	if f.m != nil {
		return f, nil
	}
	m, err := mmfile.OpenRW(f.path, f.size, format.ErasedByte)
	if err != nil {
		return nil, fmt.Errorf("flash: %w", err)
	}
	f.m = m
	return f, nil
}

func (f *Flash) Size() int { return f.size }

func (f *Flash) Read(off, n int) ([]byte, error) {
	if f.m == nil {
		return nil, ErrClosed
	}
	if err := checkAccess(f.size, off, n); err != nil {
		return nil, fmt.Errorf("flash read: %w", err)
	}
	out := make([]byte, n)
	copy(out, f.m.Bytes()[off:off+n])
	return out, nil
}

func (f *Flash) Write(off int, p []byte) error {
	if f.m == nil {
		return ErrClosed
	}
	if err := checkAccess(f.size, off, len(p)); err != nil {
		return fmt.Errorf("flash write: %w", err)
	}
	if len(p) == 0 {
		return nil
	}

	data := f.m.Bytes()
	f.countErases(data[off:off+len(p)], p, off)
	copy(data[off:], p)

	if f.syncLo < 0 || off < f.syncLo {
		f.syncLo = off
	}
	if end := off + len(p); end > f.syncHi {
		f.syncHi = end
	}
	return nil
}

// countErases charges one erase to every sector where next needs a 0->1 bit.
func (f *Flash) countErases(old, next []byte, base int) {
	lastSector := -1
	for i := range next {
		if old[i]&next[i] == next[i] {
			continue
		}
		sector := (base + i) / format.FlashSectorSize
		if sector != lastSector {
			f.erases[sector]++
			lastSector = sector
		}
	}
}

// Sync flushes the span written since the previous Sync.
func (f *Flash) Sync() error {
	if f.m == nil {
		return ErrClosed
	}
	if f.syncLo < 0 {
		return nil
	}
	if err := f.m.Flush(f.syncLo, f.syncHi-f.syncLo); err != nil {
		return fmt.Errorf("flash sync: %w", err)
	}
	if err := f.m.Sync(); err != nil {
		return fmt.Errorf("flash sync: %w", err)
	}
	f.syncLo, f.syncHi = -1, 0
	return nil
}

// Erases returns the erase count of each sector since the medium was created.
func (f *Flash) Erases() []uint32 {
	out := make([]uint32, len(f.erases))
	copy(out, f.erases)
	return out
}

// Bytes exposes the mapped image. Intended for diagnostics and tests.
func (f *Flash) Bytes() []byte {
	if f.m == nil {
		return nil
	}
	return f.m.Bytes()
}

func (f *Flash) Close() error {
	if f.m == nil {
		return nil
	}
	err := f.m.Close()
	f.m = nil
	f.syncLo, f.syncHi = -1, 0
	return err
}

var (
	_ Medium = (*Flash)(nil)
	_ Handle = (*Flash)(nil)
	_ Syncer = (*Flash)(nil)
)
