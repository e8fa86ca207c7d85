//go:build linux

package mmfile

import (
	"os"

	"golang.org/x/sys/unix"
)

// datasync performs file descriptor sync.
//
// On Linux, fdatasync() provides sufficient guarantees.
func datasync(f *os.File) error {
	return unix.Fdatasync(int(f.Fd()))
}
