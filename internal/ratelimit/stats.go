package ratelimit

import "sync/atomic"

// Stats counts gate outcomes between two drains.
type Stats struct {
	admitted atomic.Uint64
	rejected atomic.Uint64
}

// Record counts one decision.
func (s *Stats) Record(d Decision) {
	if d.Admitted {
		s.admitted.Add(1)
		return
	}
	s.rejected.Add(1)
}

// Drain returns the counts recorded since the previous drain and resets them.
func (s *Stats) Drain() (admitted, rejected uint64) {
	return s.admitted.Swap(0), s.rejected.Swap(0)
}
