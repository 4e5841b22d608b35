// Package lfu implements the LFU eviction policy as a frequency-bucketed
// structure: a map from frequency to an ordered list of fingerprints at that
// frequency, plus a map from fingerprint to its current frequency and list
// node. This replaces the teacher's container/heap-based lfu.LFU, whose heap
// does not preserve FIFO order within a frequency tier — spec.md §4.2
// requires that "on_hit" migrate a fingerprint to the next bucket,
// "appending at the tail to preserve recency tie-break", which only a
// bucketed (not heap) structure gives for free.
package lfu

import (
	"container/list"
	"time"

	"github.com/trackcache/core/entry"
	"github.com/trackcache/core/eviction"
)

// Policy is the LFU eviction strategy. The victim is always the oldest
// fingerprint in the lowest non-empty frequency bucket.
type Policy struct {
	buckets  map[int]*list.List
	freqOf   map[entry.Fingerprint]int
	nodeOf   map[entry.Fingerprint]*list.Element
	minFreq  int
}

// New builds an empty LFU policy.
func New() *Policy {
	return &Policy{
		buckets: make(map[int]*list.List),
		freqOf:  make(map[entry.Fingerprint]int),
		nodeOf:  make(map[entry.Fingerprint]*list.Element),
	}
}

var _ eviction.Policy = (*Policy)(nil)

func (p *Policy) bucket(freq int) *list.List {
	b, ok := p.buckets[freq]
	if !ok {
		b = list.New()
		p.buckets[freq] = b
	}
	return b
}

func (p *Policy) detach(fp entry.Fingerprint) {
	freq, ok := p.freqOf[fp]
	if !ok {
		return
	}
	if node, ok := p.nodeOf[fp]; ok {
		if b, ok := p.buckets[freq]; ok {
			b.Remove(node)
			if b.Len() == 0 {
				delete(p.buckets, freq)
			}
		}
	}
	delete(p.nodeOf, fp)
	delete(p.freqOf, fp)
}

func (p *Policy) OnInsert(fp entry.Fingerprint, _ time.Time) {
	p.detach(fp)
	p.freqOf[fp] = 1
	p.nodeOf[fp] = p.bucket(1).PushBack(fp)
	p.minFreq = 1
}

func (p *Policy) OnHit(fp entry.Fingerprint, _ time.Time) {
	freq, ok := p.freqOf[fp]
	if !ok {
		return
	}
	p.detach(fp)
	newFreq := freq + 1
	p.freqOf[fp] = newFreq
	p.nodeOf[fp] = p.bucket(newFreq).PushBack(fp)
}

func (p *Policy) OnRemove(fp entry.Fingerprint) {
	p.detach(fp)
}

// PickVictim scans upward from the last known minimum frequency until it
// finds a non-empty bucket, since removals can empty the current minimum
// without an O(1) way to know the next one.
func (p *Policy) PickVictim() (entry.Fingerprint, bool) {
	if len(p.freqOf) == 0 {
		return "", false
	}
	for freq := p.minFreq; ; freq++ {
		b, ok := p.buckets[freq]
		if !ok || b.Len() == 0 {
			continue
		}
		p.minFreq = freq
		front := b.Front()
		return front.Value.(entry.Fingerprint), true
	}
}

func (p *Policy) Clear() {
	p.buckets = make(map[int]*list.List)
	p.freqOf = make(map[entry.Fingerprint]int)
	p.nodeOf = make(map[entry.Fingerprint]*list.Element)
	p.minFreq = 0
}

func (p *Policy) Len() int {
	return len(p.freqOf)
}
