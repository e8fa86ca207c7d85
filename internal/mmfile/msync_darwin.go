//go:build darwin

package mmfile

import "golang.org/x/sys/unix"

// flushRange flushes dirty pages to disk.
//
// On macOS, msync() requires the address to match the original mmap() address,
// so the entire mapping is synced. The kernel only writes pages that are dirty.
func (m *Mapping) flushRange(_, _ int) error {
	return unix.Msync(m.data, unix.MS_SYNC)
}
