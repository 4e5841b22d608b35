package lru_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/trackcache/core/entry"
	"github.com/trackcache/core/eviction/lru"
)

func TestLRUEvictsLeastRecentlyUsed(t *testing.T) {
	p := lru.New()
	now := time.Now()

	foo := entry.NewFingerprint("GET", []byte("foo"))
	foo2 := entry.NewFingerprint("GET", []byte("foo2"))
	foo3 := entry.NewFingerprint("GET", []byte("foo3"))

	p.OnInsert(foo, now)
	p.OnInsert(foo2, now)
	p.OnInsert(foo3, now)

	p.OnHit(foo, now) // foo is now MRU, foo2 becomes LRU

	victim, ok := p.PickVictim()
	assert.True(t, ok)
	assert.Equal(t, foo2, victim)
}

func TestLRUPickVictimOnEmpty(t *testing.T) {
	p := lru.New()
	_, ok := p.PickVictim()
	assert.False(t, ok)
}

func TestLRUOnRemove(t *testing.T) {
	p := lru.New()
	now := time.Now()
	foo := entry.NewFingerprint("GET", []byte("foo"))
	p.OnInsert(foo, now)
	p.OnRemove(foo)
	assert.Equal(t, 0, p.Len())
	_, ok := p.PickVictim()
	assert.False(t, ok)
}

func TestLRUClear(t *testing.T) {
	p := lru.New()
	now := time.Now()
	p.OnInsert(entry.NewFingerprint("GET", []byte("foo")), now)
	p.Clear()
	assert.Equal(t, 0, p.Len())
}
