//go:build !unix

package mmfile

import (
	"io"
	"os"
)

// mapFile reads the file when mmap is not available. Flush writes ranges
// back with WriteAt.
func mapFile(f *os.File, size int) ([]byte, bool, error) {
	data := make([]byte, size)
	if _, err := f.ReadAt(data, 0); err != nil && err != io.EOF {
		return nil, false, err
	}
	return data, false, nil
}

func (m *Mapping) unmap() error { return nil }

func (m *Mapping) flushRange(off, n int) error {
	_, err := m.f.WriteAt(m.data[off:off+n], int64(off))
	return err
}

func datasync(f *os.File) error {
	return f.Sync()
}
