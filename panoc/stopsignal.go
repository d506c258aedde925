package panoc

import "github.com/tevino/abool"

// AtomicStopSignal is the one piece of cross-goroutine state a running
// solve exposes (spec.md §5): a relaxed-order flag, checked once per
// iteration, that lets another goroutine cooperatively cancel a solve.
//
// Grounded on liblinear/tron.go's use of *abool.AtomicBool
// (reachBoundary) for a similarly simple cross-call flag — the same
// library, reused here for the cross-goroutine case the teacher doesn't
// need but the spec does.
type AtomicStopSignal struct {
	flag *abool.AtomicBool
}

// NewAtomicStopSignal returns a signal in the not-requested state.
func NewAtomicStopSignal() AtomicStopSignal {
	return AtomicStopSignal{flag: abool.New()}
}

// Stop requests cancellation. Safe to call from any goroutine, at any
// time, including concurrently with the solve it targets.
func (s AtomicStopSignal) Stop() { s.flag.Set() }

// StopRequested reports whether Stop has been called. The solver polls
// this once per iteration.
func (s AtomicStopSignal) StopRequested() bool { return s.flag.IsSet() }
