// Package runners names preconfigured aggregation setups so the CLI
// and the run log can refer to one by a stable string.
package runners

import (
	"errors"
	"fmt"
	"sort"

	"golang.org/x/exp/maps"

	"pkg.jsn.cam/rowstat/pkg/rowstat"
)

// Default is the runner used when none is named.
const Default = "mmap"

var ErrUnknownRunner = errors.New("unknown runner")

// Runner is a named rowstat.Options preset. Options is a factory so
// every run starts from a fresh value; adjusting the result never
// leaks back into the registry.
type Runner struct {
	Name        string
	Description string
	Options     func() rowstat.Options
}

// Registry maps runner names to presets.
var Registry = map[string]Runner{
	"mmap": {
		Name:        "mmap",
		Description: "map the input into memory and scan chunks in place",
		Options: func() rowstat.Options {
			return rowstat.Options{OpenLoader: rowstat.NewMmapLoader}
		},
	},
	"scan": {
		Name:        "scan",
		Description: "read each chunk with positioned reads into private buffers",
		Options: func() rowstat.Options {
			return rowstat.Options{OpenLoader: rowstat.NewReadLoader}
		},
	},
	"fnv": {
		Name:        "fnv",
		Description: "mmap scan keyed by FNV-1a instead of XXH3",
		Options: func() rowstat.Options {
			return rowstat.Options{
				Hasher:     rowstat.FNV1a{},
				OpenLoader: rowstat.NewMmapLoader,
			}
		},
	},
	"seeded": {
		Name:        "seeded",
		Description: "mmap scan keyed by a randomly seeded hash",
		Options: func() rowstat.Options {
			return rowstat.Options{
				Hasher:     rowstat.NewSeeded(),
				OpenLoader: rowstat.NewMmapLoader,
			}
		},
	},
}

// Get returns the runner registered under name.
func Get(name string) (Runner, error) {
	r, exists := Registry[name]
	if !exists {
		return Runner{}, fmt.Errorf("%w: %s", ErrUnknownRunner, name)
	}
	return r, nil
}

// List returns all runners sorted by name.
func List() []Runner {
	names := maps.Keys(Registry)
	sort.Strings(names)
	out := make([]Runner, 0, len(names))
	for _, name := range names {
		out = append(out, Registry[name])
	}
	return out
}
