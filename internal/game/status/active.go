package status

import "sort"

// ActiveSet tracks the status effects currently on one unit as a mapping from
// effect name to remaining duration in ticks. It is not safe for concurrent
// use; the owning battle session serialises access.
//
// Invariant: every name present in the set has remaining duration > 0.
type ActiveSet struct {
	remaining map[string]int
}

// NewActiveSet creates an empty ActiveSet.
func NewActiveSet() *ActiveSet {
	return &ActiveSet{remaining: make(map[string]int)}
}

// Apply sets the remaining duration for name. Re-applying an already-active
// effect overwrites the duration rather than stacking it; intensity stacking
// is deliberately not tracked here.
//
// Precondition: duration must be > 0; non-positive durations are ignored.
// Postcondition: Has(name) is true with Remaining(name) == duration.
func (s *ActiveSet) Apply(name string, duration int) {
	if name == "" || duration <= 0 {
		return
	}
	s.remaining[name] = duration
}

// Remove deletes the effect with the given name. Not-present is a no-op.
//
// Postcondition: Has(name) is false.
func (s *ActiveSet) Remove(name string) {
	delete(s.remaining, name)
}

// Has reports whether the effect is currently active.
func (s *ActiveSet) Has(name string) bool {
	_, ok := s.remaining[name]
	return ok
}

// Remaining returns the remaining duration for name, or 0 if not active.
func (s *ActiveSet) Remaining(name string) int {
	return s.remaining[name]
}

// Len returns the number of active effects.
func (s *ActiveSet) Len() int {
	return len(s.remaining)
}

// Active returns the active effect names sorted alphabetically so callers
// iterate in a deterministic order.
func (s *ActiveSet) Active() []string {
	out := make([]string, 0, len(s.remaining))
	for name := range s.remaining {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Tick decrements every active effect's remaining duration by 1 and removes
// effects that reach zero in the same pass; no entry is ever left at zero.
//
// Postcondition: For every name in the returned slice, Has(name) is false.
// The returned slice is sorted alphabetically.
func (s *ActiveSet) Tick() []string {
	var expired []string
	for name := range s.remaining {
		s.remaining[name]--
		if s.remaining[name] <= 0 {
			expired = append(expired, name)
			delete(s.remaining, name)
		}
	}
	sort.Strings(expired)
	return expired
}
