//go:build linux

package rowstat

import (
	"os"

	"golang.org/x/sys/unix"
)

// fadvise tells the kernel the file will be streamed in order.
// Best-effort; failures are ignored.
func fadvise(f *os.File) {
	_ = unix.Fadvise(int(f.Fd()), 0, 0, unix.FADV_SEQUENTIAL)
	_ = unix.Fadvise(int(f.Fd()), 0, 0, unix.FADV_WILLNEED)
}
