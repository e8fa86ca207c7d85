//go:build unix && !darwin

package mmfile

import "golang.org/x/sys/unix"

// flushRange msyncs the pages covering [off, off+n).
//
// On Linux and other Unix systems, msync() can handle sub-slices correctly
// as long as the start is page aligned.
func (m *Mapping) flushRange(off, n int) error {
	page := unix.Getpagesize()
	start := (off / page) * page
	end := off + n
	if end%page != 0 {
		end = ((end / page) + 1) * page
	}
	if end > len(m.data) {
		end = len(m.data)
	}
	return unix.Msync(m.data[start:end], unix.MS_SYNC)
}
