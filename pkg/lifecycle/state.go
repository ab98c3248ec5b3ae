package lifecycle

import "sync/atomic"

// State is an embeddable running flag giving components the idempotence the
// Lifecycle contract demands: the first TryStart after a stop wins, repeats
// report false and the caller skips its work without error.
type State struct {
	running atomic.Bool
}

// TryStart flips to running and reports whether this call did the flip.
func (s *State) TryStart() bool {
	return s.running.CompareAndSwap(false, true)
}

// TryStop flips to stopped and reports whether this call did the flip.
func (s *State) TryStop() bool {
	return s.running.CompareAndSwap(true, false)
}

func (s *State) IsRunning() bool {
	return s.running.Load()
}
