// Package rowstat computes per-key minimum, maximum and mean over
// large key;value delimited files. The input is split into
// line-aligned byte ranges, scanned in parallel with one accumulator
// table per worker and no shared state, then the worker tables are
// merged once every worker has finished. Values carry exactly one
// fractional digit and are handled as scaled integers throughout, so
// the aggregation is exact.
package rowstat

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Options configure an engine run. The zero value selects one worker
// per CPU, XXH3 hashing and ReadAt chunk loading.
type Options struct {
	// Workers is the number of chunks to plan and scan in parallel.
	// Values below 1 mean runtime.NumCPU().
	Workers int

	// Hasher keys the accumulator tables.
	Hasher Hasher

	// OpenLoader builds the chunk loader for the opened input file.
	OpenLoader OpenLoaderFunc
}

func (o *Options) setDefaults() {
	if o.Workers < 1 {
		o.Workers = runtime.NumCPU()
	}
	if o.Hasher == nil {
		o.Hasher = XXH3{}
	}
	if o.OpenLoader == nil {
		o.OpenLoader = NewReadLoader
	}
}

// Aggregate computes per-key statistics over the file at path using
// the default strategies. workers <= 0 selects one worker per CPU.
func Aggregate(path string, workers int) (*Table, error) {
	return AggregateFile(context.Background(), path, Options{Workers: workers})
}

// AggregateFile runs the full pipeline with explicit strategy choices.
// Any worker failure, I/O or parse, fails the whole call: a partial
// table is never returned, because an aggregate missing some rows is
// silently wrong rather than degraded. An empty file yields an empty
// table and no error.
func AggregateFile(ctx context.Context, path string, opts Options) (*Table, error) {
	opts.setDefaults()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat input: %w", err)
	}

	final := NewTable(opts.Hasher)
	if st.Size() == 0 {
		return final, nil
	}

	ranges, err := Plan(f, st.Size(), opts.Workers)
	if err != nil {
		return nil, fmt.Errorf("plan chunks: %w", err)
	}

	loader, err := opts.OpenLoader(f, st.Size())
	if err != nil {
		return nil, fmt.Errorf("open loader: %w", err)
	}
	defer loader.Close()

	// One goroutine and one private table per range. The errgroup
	// wait is the barrier: worker tables are only read after every
	// worker has succeeded.
	tables := make([]*Table, len(ranges))
	eg, ctx := errgroup.WithContext(ctx)
	for i, r := range ranges {
		table := NewTable(opts.Hasher)
		tables[i] = table
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			buf, err := loader.Load(r)
			if err != nil {
				return err
			}
			sc := NewScanner(buf, r.Start)
			for sc.Scan() {
				table.Observe(sc.Key(), sc.Value())
			}
			return sc.Err()
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	for _, t := range tables {
		final.Merge(t)
	}
	return final, nil
}
