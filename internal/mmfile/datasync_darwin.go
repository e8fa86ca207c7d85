//go:build darwin

package mmfile

import (
	"os"

	"golang.org/x/sys/unix"
)

// datasync uses F_FULLFSYNC so data reaches the physical disk, not just the
// drive cache.
func datasync(f *os.File) error {
	_, err := unix.FcntlInt(f.Fd(), unix.F_FULLFSYNC, 0)
	return err
}
