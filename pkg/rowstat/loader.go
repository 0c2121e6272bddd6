package rowstat

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// Loader hands out the bytes of planned ranges. Load may be called
// concurrently by workers; returned buffers are read-only by
// convention and stay valid until Close. The Loader does not own the
// file handle it was opened with.
type Loader interface {
	Load(r ByteRange) ([]byte, error)
	Close() error
}

// OpenLoaderFunc builds the Loader an engine run reads chunks with.
// The file stays open for the Loader's lifetime.
type OpenLoaderFunc func(f *os.File, size int64) (Loader, error)

// readLoader serves each range from its own heap buffer filled with
// ReadAt. Memory use is one buffer per in-flight worker, so it stays
// safe for files too large to map.
type readLoader struct {
	f *os.File
}

// NewReadLoader returns a Loader that copies each range into a fresh
// buffer.
func NewReadLoader(f *os.File, size int64) (Loader, error) {
	fadvise(f)
	return &readLoader{f: f}, nil
}

func (l *readLoader) Load(r ByteRange) ([]byte, error) {
	buf := make([]byte, r.Len())
	n, err := l.f.ReadAt(buf, r.Start)
	if n < len(buf) {
		if err == nil || errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("read chunk [%d,%d): %w", r.Start, r.End, err)
	}
	return buf, nil
}

func (l *readLoader) Close() error { return nil }
