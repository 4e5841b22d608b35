// Package lru implements the LRU eviction policy: a doubly linked list plus
// a map from fingerprint to node, generalized from the teacher's lru.LRU
// (which coupled the list directly to storage) to the narrower
// eviction.Policy contract — this type owns only ordering, not values.
package lru

import (
	"container/list"
	"time"

	"github.com/trackcache/core/entry"
	"github.com/trackcache/core/eviction"
)

// Policy is the LRU eviction strategy: insert and hit move the fingerprint's
// node to the MRU end; the victim is always the LRU end. Ties among entries
// touched in the same instant are broken by call order, since each
// OnInsert/OnHit moves its node to the front immediately.
type Policy struct {
	nodes map[entry.Fingerprint]*list.Element
	order *list.List
}

// New builds an empty LRU policy.
func New() *Policy {
	return &Policy{
		nodes: make(map[entry.Fingerprint]*list.Element),
		order: list.New(),
	}
}

var _ eviction.Policy = (*Policy)(nil)

func (p *Policy) OnInsert(fp entry.Fingerprint, _ time.Time) {
	if elem, ok := p.nodes[fp]; ok {
		p.order.MoveToFront(elem)
		return
	}
	p.nodes[fp] = p.order.PushFront(fp)
}

func (p *Policy) OnHit(fp entry.Fingerprint, _ time.Time) {
	elem, ok := p.nodes[fp]
	if !ok {
		return
	}
	p.order.MoveToFront(elem)
}

func (p *Policy) OnRemove(fp entry.Fingerprint) {
	elem, ok := p.nodes[fp]
	if !ok {
		return
	}
	p.order.Remove(elem)
	delete(p.nodes, fp)
}

func (p *Policy) PickVictim() (entry.Fingerprint, bool) {
	back := p.order.Back()
	if back == nil {
		return "", false
	}
	return back.Value.(entry.Fingerprint), true
}

func (p *Policy) Clear() {
	p.nodes = make(map[entry.Fingerprint]*list.Element)
	p.order = list.New()
}

func (p *Policy) Len() int {
	return len(p.nodes)
}
