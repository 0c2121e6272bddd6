package rowstat

import (
	"bytes"
	"math"
)

// MaxLineLen bounds a single record. Real keys are a few dozen bytes
// and values at most seven; anything past this is treated as corrupt
// input rather than scanned without limit.
const MaxLineLen = 1024

// Scanner steps through key;value records in a chunk buffer. The API
// is shaped like bufio.Scanner: Scan advances to the next record, Key
// and Value return the current one, Err reports the failure that
// stopped an early exit. A Scanner makes a single forward pass; build
// a fresh one over the same buffer to rescan.
//
// Key returns a subslice of the scanned buffer, valid until the buffer
// itself is released. Nothing is allocated per record.
type Scanner struct {
	buf  []byte
	base int64 // absolute file offset of buf[0]
	pos  int
	key  []byte
	val  int16
	err  error
}

// NewScanner scans buf, which holds the file bytes starting at
// absolute offset base. The final line may omit its trailing '\n'.
func NewScanner(buf []byte, base int64) *Scanner {
	return &Scanner{buf: buf, base: base}
}

// Scan advances to the next record. It returns false at the end of the
// buffer or on the first malformed line; Err distinguishes the two.
func (s *Scanner) Scan() bool {
	if s.err != nil || s.pos >= len(s.buf) {
		return false
	}

	lineStart := s.pos
	line := s.buf[s.pos:]
	if end := bytes.IndexByte(line, '\n'); end >= 0 {
		line = line[:end]
		s.pos += end + 1
	} else {
		s.pos = len(s.buf)
	}

	if len(line) > MaxLineLen {
		return s.fail(lineStart, line, ErrLineTooLong)
	}
	sep := bytes.IndexByte(line, ';')
	if sep < 0 {
		return s.fail(lineStart, line, ErrMissingSeparator)
	}
	val, reason := parseTenths(line[sep+1:])
	if reason != nil {
		return s.fail(lineStart, line, reason)
	}

	s.key = line[:sep]
	s.val = val
	return true
}

// Key returns the current record's key as a borrowed slice into the
// buffer. Copy it to retain it past the buffer's lifetime.
func (s *Scanner) Key() []byte { return s.key }

// Value returns the current record's value in scaled tenths.
func (s *Scanner) Value() int16 { return s.val }

// Err returns the *ParseError that stopped the scan, or nil if the
// buffer was consumed cleanly.
func (s *Scanner) Err() error { return s.err }

func (s *Scanner) fail(lineStart int, line []byte, reason error) bool {
	s.err = &ParseError{
		Offset: s.base + int64(lineStart),
		Line:   append([]byte(nil), line...),
		Reason: reason,
	}
	return false
}

// parseTenths parses a value matching -?[0-9]+.[0-9] into scaled
// tenths, byte by byte: no float conversion, no intermediate string.
// Anything else is rejected, including plus signs, missing fraction
// digits and second decimal places.
func parseTenths(b []byte) (int16, error) {
	// Shortest valid value is "0.0".
	if len(b) < 3 || b[len(b)-2] != '.' {
		return 0, ErrBadValue
	}
	frac := b[len(b)-1]
	if frac < '0' || frac > '9' {
		return 0, ErrBadValue
	}

	digits := b[:len(b)-2]
	neg := false
	if digits[0] == '-' {
		neg = true
		digits = digits[1:]
		if len(digits) == 0 {
			return 0, ErrBadValue
		}
	}

	var n int32
	for _, c := range digits {
		if c < '0' || c > '9' {
			return 0, ErrBadValue
		}
		n = n*10 + int32(c-'0')
		if n > math.MaxInt16 {
			return 0, ErrValueRange
		}
	}

	n = n*10 + int32(frac-'0')
	if neg {
		n = -n
	}
	if n < math.MinInt16 || n > math.MaxInt16 {
		return 0, ErrValueRange
	}
	return int16(n), nil
}
