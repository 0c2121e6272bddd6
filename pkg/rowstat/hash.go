package rowstat

import (
	"hash/maphash"

	"github.com/zeebo/xxh3"
)

// FNV-1 64-bit parameters, from hash/fnv.
const (
	offset64 = 14695981039346656037
	prime64  = 1099511628211
)

// Hasher maps a key to its 64-bit bucket hash. Implementations must be
// deterministic for the lifetime of a Table and cheap on short keys;
// cryptographic strength buys nothing here because keys are not
// adversarial.
type Hasher interface {
	Sum64(key []byte) uint64
}

// XXH3 hashes with github.com/zeebo/xxh3, the fastest of the bundled
// hashers on short text keys. The engine default.
type XXH3 struct{}

func (XXH3) Sum64(key []byte) uint64 { return xxh3.Hash(key) }

// FNV1a is the classic FNV-1a fold, inlined so the hot path avoids the
// hash.Hash64 interface and its Write indirection.
type FNV1a struct{}

func (FNV1a) Sum64(key []byte) uint64 {
	h := uint64(offset64)
	for _, b := range key {
		h ^= uint64(b)
		h *= prime64
	}
	return h
}

// Seeded hashes with hash/maphash under a per-process random seed, for
// callers that want hash placement to vary between runs. Construct
// with NewSeeded; the zero value has no seed and panics on use.
type Seeded struct {
	seed maphash.Seed
}

// NewSeeded returns a Seeded hasher with a fresh random seed.
func NewSeeded() Seeded {
	return Seeded{seed: maphash.MakeSeed()}
}

func (s Seeded) Sum64(key []byte) uint64 { return maphash.Bytes(s.seed, key) }
