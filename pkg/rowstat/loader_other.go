//go:build !unix

package rowstat

import "os"

// NewMmapLoader is unavailable without unix mmap support. Callers fall
// back to NewReadLoader.
func NewMmapLoader(f *os.File, size int64) (Loader, error) {
	return nil, ErrMmapUnsupported
}
