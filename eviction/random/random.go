// Package random implements the RANDOM eviction policy: an index of
// fingerprints permitting uniform sampling. No library in the surrounding
// pack specializes in seeded deterministic sampling beyond the standard
// library, so this is one of the few places the core reaches for
// math/rand directly — see DESIGN.md.
package random

import (
	"math/rand"
	"time"

	"github.com/trackcache/core/entry"
	"github.com/trackcache/core/eviction"
)

// Policy is the RANDOM eviction strategy: PickVictim draws uniformly from
// the currently tracked fingerprints. Tests that supply a fixed seed get
// deterministic victims.
type Policy struct {
	fps   []entry.Fingerprint
	index map[entry.Fingerprint]int
	rng   *rand.Rand
}

// New builds an empty RANDOM policy seeded with seed. Callers wanting
// nondeterministic behavior should seed from time.Now().UnixNano().
func New(seed int64) *Policy {
	return &Policy{
		index: make(map[entry.Fingerprint]int),
		rng:   rand.New(rand.NewSource(seed)),
	}
}

// NewWithTimeSeed builds a RANDOM policy seeded from the current time.
func NewWithTimeSeed() *Policy {
	return New(time.Now().UnixNano())
}

var _ eviction.Policy = (*Policy)(nil)

func (p *Policy) OnInsert(fp entry.Fingerprint, _ time.Time) {
	if _, ok := p.index[fp]; ok {
		return
	}
	p.index[fp] = len(p.fps)
	p.fps = append(p.fps, fp)
}

func (p *Policy) OnHit(entry.Fingerprint, time.Time) {
	// RANDOM eviction does not track recency or frequency.
}

func (p *Policy) OnRemove(fp entry.Fingerprint) {
	i, ok := p.index[fp]
	if !ok {
		return
	}
	last := len(p.fps) - 1
	p.fps[i] = p.fps[last]
	p.index[p.fps[i]] = i
	p.fps = p.fps[:last]
	delete(p.index, fp)
}

func (p *Policy) PickVictim() (entry.Fingerprint, bool) {
	if len(p.fps) == 0 {
		return "", false
	}
	i := p.rng.Intn(len(p.fps))
	return p.fps[i], true
}

func (p *Policy) Clear() {
	p.fps = nil
	p.index = make(map[entry.Fingerprint]int)
}

func (p *Policy) Len() int {
	return len(p.fps)
}
