// Package mmfile provides platform-specific helpers for mapping medium image
// files read-write.
//
// On unix the file is mmap'd MAP_SHARED so writes land in the page cache
// immediately and Flush/Sync push them to stable storage. Elsewhere the file
// is read into memory and Flush writes the requested range back.
package mmfile

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/joshuapare/prefkit/internal/buf"
)

// ErrClosed is returned by operations on a closed mapping.
var ErrClosed = errors.New("mmfile: mapping closed")

// Mapping is a writable view of a fixed-size file.
//
// NOT thread-safe. Only one goroutine should use it at a time.
type Mapping struct {
	f      *os.File
	data   []byte
	mapped bool
}

// OpenRW opens (creating if needed) the file at path and maps exactly size
// bytes of it. Bytes the file did not previously contain are set to fill,
// so a new flash image starts out erased.
func OpenRW(path string, size int, fill byte) (*Mapping, error) {
	if size <= 0 {
		return nil, fmt.Errorf("mmfile: invalid size %d", size)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, err
	}

	if err := extend(f, int64(size), fill); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("mmfile: extend %s: %w", path, err)
	}

	data, mapped, err := mapFile(f, size)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("mmfile: map %s: %w", path, err)
	}

	return &Mapping{f: f, data: data, mapped: mapped}, nil
}

// Bytes returns the mapped contents. Writes to the slice modify the file
// once flushed.
func (m *Mapping) Bytes() []byte { return m.data }

// Mapped reports whether the view is a real memory mapping rather than an
// in-memory copy.
func (m *Mapping) Mapped() bool { return m.mapped }

// Size returns the mapped length in bytes.
func (m *Mapping) Size() int { return len(m.data) }

// Flush pushes the byte range [off, off+n) of the mapping to the file.
func (m *Mapping) Flush(off, n int) error {
	if m.data == nil {
		return ErrClosed
	}
	if _, err := buf.CheckRange(len(m.data), off, n); err != nil {
		return fmt.Errorf("mmfile: flush: %w", err)
	}
	if n == 0 {
		return nil
	}
	return m.flushRange(off, n)
}

// Sync flushes the file descriptor so flushed ranges survive power loss.
func (m *Mapping) Sync() error {
	if m.f == nil {
		return ErrClosed
	}
	return datasync(m.f)
}

// Close unmaps the data and closes the file. Closing twice is a no-op.
func (m *Mapping) Close() error {
	if m.f == nil {
		return nil
	}
	var errs []error
	if m.data != nil {
		errs = append(errs, m.unmap())
		m.data = nil
	}
	errs = append(errs, m.f.Close())
	m.f = nil
	return errors.Join(errs...)
}

// extend grows f to size bytes, writing fill into the new tail.
func extend(f *os.File, size int64, fill byte) error {
	st, err := f.Stat()
	if err != nil {
		return err
	}
	cur := st.Size()
	if cur >= size {
		return nil
	}

	tail := make([]byte, size-cur)
	for i := range tail {
		tail[i] = fill
	}
	if _, err := f.Seek(cur, io.SeekStart); err != nil {
		return err
	}
	if _, err := f.Write(tail); err != nil {
		return err
	}
	return f.Sync()
}
