package pipeline

import "sync/atomic"

// State is one of the pipeline's four lifecycle states, spec.md §4.4.
type State int32

const (
	Initializing State = iota
	Ready
	Draining
	Closed
)

func (s State) String() string {
	switch s {
	case Initializing:
		return "initializing"
	case Ready:
		return "ready"
	case Draining:
		return "draining"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

type stateBox struct {
	v int32
}

func (b *stateBox) load() State {
	return State(atomic.LoadInt32(&b.v))
}

func (b *stateBox) store(s State) {
	atomic.StoreInt32(&b.v, int32(s))
}
