package lfu_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/trackcache/core/entry"
	"github.com/trackcache/core/eviction/lfu"
)

func TestLFUEvictsLowestFrequency(t *testing.T) {
	p := lfu.New()
	now := time.Now()

	foo := entry.NewFingerprint("GET", []byte("foo"))
	foo2 := entry.NewFingerprint("GET", []byte("foo2"))
	foo3 := entry.NewFingerprint("GET", []byte("foo3"))

	p.OnInsert(foo, now)
	p.OnInsert(foo2, now)
	p.OnInsert(foo3, now)

	p.OnHit(foo, now)
	p.OnHit(foo, now)
	p.OnHit(foo3, now)

	// foo2 was never hit again after insert: frequency 1, the lowest.
	victim, ok := p.PickVictim()
	assert.True(t, ok)
	assert.Equal(t, foo2, victim)
}

func TestLFUTieBreaksByRecencyWithinBucket(t *testing.T) {
	p := lfu.New()
	now := time.Now()

	foo := entry.NewFingerprint("GET", []byte("foo"))
	foo2 := entry.NewFingerprint("GET", []byte("foo2"))

	p.OnInsert(foo, now)
	p.OnInsert(foo2, now)
	// Both at frequency 1; foo was inserted first, so it is the victim.

	victim, ok := p.PickVictim()
	assert.True(t, ok)
	assert.Equal(t, foo, victim)
}

func TestLFURemoveRecomputesMinFrequency(t *testing.T) {
	p := lfu.New()
	now := time.Now()

	foo := entry.NewFingerprint("GET", []byte("foo"))
	foo2 := entry.NewFingerprint("GET", []byte("foo2"))

	p.OnInsert(foo, now)
	p.OnInsert(foo2, now)
	p.OnHit(foo2, now) // foo2 now at frequency 2

	p.OnRemove(foo) // only foo2 (freq 2) remains

	victim, ok := p.PickVictim()
	assert.True(t, ok)
	assert.Equal(t, foo2, victim)
}

func TestLFUClear(t *testing.T) {
	p := lfu.New()
	p.OnInsert(entry.NewFingerprint("GET", []byte("foo")), time.Now())
	p.Clear()
	assert.Equal(t, 0, p.Len())
	_, ok := p.PickVictim()
	assert.False(t, ok)
}
