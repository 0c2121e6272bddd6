package generator

import (
	"fmt"
	"io"
	"math/rand/v2"
)

// Generator produces key;value row data for aggregation inputs
type Generator interface {
	// Init initializes the generator with a per-instance random source
	// This eliminates lock contention on the global rand source
	Init(r *rand.Rand)

	// WriteLine writes a single row to the writer
	WriteLine(w io.Writer) error

	// Description returns a human-readable description of the data format
	Description() string

	// DefaultCount returns the suggested default number of lines to generate
	DefaultCount() int64
}

// formatTenths renders a scaled-tenths value with exactly one decimal,
// keeping the sign right for small negatives like -0.5.
func formatTenths(v int16) string {
	n := int(v)
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	return fmt.Sprintf("%s%d.%d", sign, n/10, n%10)
}
