package rowstat

import "bytes"

// Initial bucket count for a Table; always a power of two so the hash
// can be masked instead of divided.
const initialTableLen = 1024

type entry struct {
	key   []byte // nil marks an empty bucket
	stats Stats
}

// Table accumulates per-key statistics. It is an open-addressed hash
// table with linear probing, grown whenever it reaches half occupancy.
// Not safe for concurrent use; the engine gives every worker its own
// Table and merges after the workers are done.
type Table struct {
	hasher  Hasher
	entries []entry
	size    int
}

// NewTable returns an empty Table keyed by h. A nil h selects XXH3.
func NewTable(h Hasher) *Table {
	if h == nil {
		h = XXH3{}
	}
	return &Table{hasher: h}
}

// Len returns the number of distinct keys observed.
func (t *Table) Len() int { return t.size }

// Observe records one value for key. The key bytes are borrowed: the
// Table copies them on first insert and never retains the argument, so
// callers may hand in slices of a scan buffer directly.
func (t *Table) Observe(key []byte, v int16) {
	if t.size >= len(t.entries)/2 {
		t.grow()
	}
	mask := uint64(len(t.entries) - 1)
	i := int(t.hasher.Sum64(key) & mask)
	for {
		e := &t.entries[i]
		if e.key == nil {
			owned := make([]byte, len(key))
			copy(owned, key)
			e.key = owned
			e.stats = Stats{Count: 1, Sum: int64(v), Min: v, Max: v}
			t.size++
			return
		}
		if bytes.Equal(e.key, key) {
			e.stats.add(v)
			return
		}
		i++
		if i == len(t.entries) {
			i = 0
		}
	}
}

// Merge folds every entry of other into t: counts and sums add, mins
// and maxes extremize. Keys held by other are adopted, not re-copied;
// other must not be used afterwards.
func (t *Table) Merge(other *Table) {
	for i := range other.entries {
		if other.entries[i].key != nil {
			t.mergeEntry(other.entries[i])
		}
	}
}

func (t *Table) mergeEntry(e entry) {
	if t.size >= len(t.entries)/2 {
		t.grow()
	}
	mask := uint64(len(t.entries) - 1)
	i := int(t.hasher.Sum64(e.key) & mask)
	for {
		cur := &t.entries[i]
		if cur.key == nil {
			*cur = e
			t.size++
			return
		}
		if bytes.Equal(cur.key, e.key) {
			cur.stats.merge(e.stats)
			return
		}
		i++
		if i == len(t.entries) {
			i = 0
		}
	}
}

func (t *Table) grow() {
	newLen := len(t.entries) * 2
	if newLen == 0 {
		newLen = initialTableLen
	}
	old := t.entries
	t.entries = make([]entry, newLen)
	t.size = 0
	for i := range old {
		if old[i].key != nil {
			t.reinsert(old[i])
		}
	}
}

func (t *Table) reinsert(e entry) {
	i := int(t.hasher.Sum64(e.key) & uint64(len(t.entries)-1))
	for t.entries[i].key != nil {
		i++
		if i == len(t.entries) {
			i = 0
		}
	}
	t.entries[i] = e
	t.size++
}

// Items returns every key with its statistics, in unspecified order.
func (t *Table) Items() []Item {
	items := make([]Item, 0, t.size)
	for i := range t.entries {
		if t.entries[i].key != nil {
			items = append(items, Item{
				Key:   string(t.entries[i].key),
				Stats: t.entries[i].stats,
			})
		}
	}
	return items
}

// Snapshot returns the table contents as a plain map. Convenient for
// tests and small result sets; Items avoids the map for hot callers.
func (t *Table) Snapshot() map[string]Stats {
	m := make(map[string]Stats, t.size)
	for i := range t.entries {
		if t.entries[i].key != nil {
			m[string(t.entries[i].key)] = t.entries[i].stats
		}
	}
	return m
}

// Rows returns the total number of observations across all keys.
func (t *Table) Rows() uint64 {
	var rows uint64
	for i := range t.entries {
		if t.entries[i].key != nil {
			rows += t.entries[i].stats.Count
		}
	}
	return rows
}
