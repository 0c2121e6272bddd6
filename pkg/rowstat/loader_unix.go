//go:build unix

package rowstat

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// mmapLoader maps the whole file once and serves ranges as subslices
// of the mapping. Nothing is copied; the kernel pages bytes in as the
// scanners walk them.
type mmapLoader struct {
	data []byte
}

// NewMmapLoader memory-maps f read-only. The mapping, and with it
// every buffer returned by Load, is released by Close.
func NewMmapLoader(f *os.File, size int64) (Loader, error) {
	if size == 0 {
		return &mmapLoader{}, nil
	}
	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmap %s: %w", f.Name(), err)
	}
	// Best-effort readahead hint.
	_ = unix.Madvise(data, unix.MADV_SEQUENTIAL)
	return &mmapLoader{data: data}, nil
}

func (l *mmapLoader) Load(r ByteRange) ([]byte, error) {
	if r.End > int64(len(l.data)) {
		return nil, fmt.Errorf("chunk [%d,%d) outside mapped file of %d bytes", r.Start, r.End, len(l.data))
	}
	return l.data[r.Start:r.End], nil
}

func (l *mmapLoader) Close() error {
	if l.data == nil {
		return nil
	}
	data := l.data
	l.data = nil
	return unix.Munmap(data)
}
