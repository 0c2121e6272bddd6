package rowstat

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

// ByteRange is a half-open [Start, End) slice of the input file.
// Ranges produced by Plan never split a record: every internal
// boundary sits immediately after a '\n'.
type ByteRange struct {
	Start int64
	End   int64
}

// Len returns the number of bytes in the range.
func (r ByteRange) Len() int64 { return r.End - r.Start }

// probeWindow is the read size used while searching forward for the
// next line terminator. The search itself is unbounded; a line longer
// than the window just costs extra reads.
const probeWindow = 64 << 10

// Plan splits size bytes into up to n contiguous ranges of roughly
// equal length. Each internal boundary starts at an even split point
// and is snapped forward to the byte after the next '\n', so no range
// ever starts or ends mid-line. The first range starts at 0 and the
// last ends at size.
//
// An empty file yields zero ranges. n <= 1, or a file with fewer bytes
// than n, yields one range covering everything.
func Plan(r io.ReaderAt, size int64, n int) ([]ByteRange, error) {
	if size == 0 {
		return nil, nil
	}
	if n <= 1 || size < int64(n) {
		return []ByteRange{{Start: 0, End: size}}, nil
	}

	target := size / int64(n)
	buf := make([]byte, probeWindow)
	ranges := make([]ByteRange, 0, n)

	start := int64(0)
	for i := 1; i < n; i++ {
		if start >= size {
			break
		}
		bound, err := nextLineStart(r, int64(i)*target, size, buf)
		if err != nil {
			return nil, err
		}
		// A long line can push a boundary past later split points;
		// those produce empty ranges and are dropped.
		if bound <= start {
			continue
		}
		ranges = append(ranges, ByteRange{Start: start, End: bound})
		start = bound
	}
	if start < size {
		ranges = append(ranges, ByteRange{Start: start, End: size})
	}
	return ranges, nil
}

// nextLineStart scans forward from off and returns the offset just
// past the next '\n'. Hitting EOF without a terminator returns size.
func nextLineStart(r io.ReaderAt, off, size int64, buf []byte) (int64, error) {
	for off < size {
		want := int64(len(buf))
		if rem := size - off; rem < want {
			want = rem
		}
		n, err := r.ReadAt(buf[:want], off)
		if n > 0 {
			if i := bytes.IndexByte(buf[:n], '\n'); i >= 0 {
				return off + int64(i) + 1, nil
			}
			off += int64(n)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return 0, fmt.Errorf("probe line boundary at byte %d: %w", off, err)
		}
		if n == 0 {
			break
		}
	}
	return size, nil
}
