package rowstat

// Stats is the running aggregate for one key. Sum, Min and Max are
// scaled tenths: an input value of 12.3 contributes 123. Integer
// arithmetic keeps accumulation exact; callers convert to decimal only
// for display.
type Stats struct {
	Count uint64
	Sum   int64
	Min   int16
	Max   int16
}

// add folds one observation into s.
func (s *Stats) add(v int16) {
	s.Count++
	s.Sum += int64(v)
	if v < s.Min {
		s.Min = v
	}
	if v > s.Max {
		s.Max = v
	}
}

// merge folds another aggregate for the same key into s. Associative
// and commutative, so worker tables combine in any order.
func (s *Stats) merge(o Stats) {
	s.Count += o.Count
	s.Sum += o.Sum
	if o.Min < s.Min {
		s.Min = o.Min
	}
	if o.Max > s.Max {
		s.Max = o.Max
	}
}

// Mean returns the arithmetic mean in original units, not tenths.
// Rounding for display is the caller's concern.
func (s Stats) Mean() float64 {
	return float64(s.Sum) / float64(s.Count) / 10
}

// Item is one key with its aggregated statistics, as returned by
// Table.Items.
type Item struct {
	Key   string
	Stats Stats
}
