package rowstat

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions
var (
	// Input grammar errors, carried inside *ParseError
	ErrMissingSeparator = errors.New("missing field separator")
	ErrBadValue         = errors.New("malformed value")
	ErrValueRange       = errors.New("value out of range")
	ErrLineTooLong      = errors.New("line exceeds maximum length")

	// Loader errors
	ErrMmapUnsupported = errors.New("mmap not supported on this platform")
)

// ParseError reports a line that does not match the key;value grammar.
// Offset is the absolute byte position of the start of the line within
// the input file, so the offending record can be located with dd or a
// hex editor. Line holds a copy of the malformed bytes.
type ParseError struct {
	Offset int64
	Line   []byte
	Reason error
}

func (e *ParseError) Error() string {
	line := e.Line
	const quoteLimit = 64
	if len(line) > quoteLimit {
		line = line[:quoteLimit]
	}
	return fmt.Sprintf("line at byte %d: %q: %v", e.Offset, line, e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Reason }
