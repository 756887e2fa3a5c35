package engine

import "sync/atomic"

// Slot hands a parameter snapshot from a control goroutine to the
// audio goroutine without locks. Writers overwrite freely; only the
// newest snapshot is ever observed. Intermediate values may be lost,
// which is the point: stale parameter sets are worthless.
type Slot[P any] struct {
	ptr atomic.Pointer[P]
}

// Store publishes a snapshot, replacing any pending one.
func (s *Slot[P]) Store(p P) {
	s.ptr.Store(&p)
}

// Take removes and returns the pending snapshot. The second return
// is false when nothing new was stored since the last Take.
func (s *Slot[P]) Take() (P, bool) {
	p := s.ptr.Swap(nil)
	if p == nil {
		var zero P
		return zero, false
	}
	return *p, true
}
