package simulation

import "sync/atomic"

// StatusBoard keeps the latest StepReport for readers outside the actor,
// such as the HTTP status endpoint. It is safe for concurrent use.
type StatusBoard struct {
	last atomic.Pointer[StepReport]
}

var _ StepObserver = (*StatusBoard)(nil)

// ObserveStep stores a copy of r.
func (b *StatusBoard) ObserveStep(r StepReport) {
	b.last.Store(&r)
}

// Latest returns the most recent report; ok is false before the first step.
func (b *StatusBoard) Latest() (r StepReport, ok bool) {
	p := b.last.Load()
	if p == nil {
		return StepReport{}, false
	}
	return *p, true
}
