// Package eviction defines the shared contract every eviction strategy
// implements, the direct analogue of the teacher's engine.Engine interface
// narrowed to the ordering concern: the CacheStore owns storage, a Policy
// only owns the structure used to pick a victim.
package eviction

import (
	"time"

	"github.com/trackcache/core/entry"
)

// Policy is implemented by each eviction strategy (LRU, LFU, TTL, RANDOM).
// Every method is called while the CacheStore holds its lock.
type Policy interface {
	// OnInsert records a newly inserted fingerprint at instant now.
	OnInsert(fp entry.Fingerprint, now time.Time)

	// OnHit records an access against an already-tracked fingerprint at
	// instant now.
	OnHit(fp entry.Fingerprint, now time.Time)

	// OnRemove records a removal, whether from invalidation, disconnect, or
	// eviction itself.
	OnRemove(fp entry.Fingerprint)

	// PickVictim chooses the next fingerprint to evict. It must not return
	// a fingerprint that is not currently tracked; callers must check ok.
	PickVictim() (fp entry.Fingerprint, ok bool)

	// Clear drops all tracked fingerprints.
	Clear()

	// Len reports how many fingerprints the policy is currently tracking.
	Len() int
}

// Expirer is implemented by policies that additionally enforce a deadline
// independent of capacity (the TTL policy). The store consults it on every
// read so an expired entry is never returned, per spec.md §4.2.
type Expirer interface {
	// ExpireBefore returns every fingerprint whose deadline is at or before
	// now, removing them from the policy's own bookkeeping as it does so.
	ExpireBefore(now time.Time) []entry.Fingerprint
}

// Kind names the four Policy implementations. The store does not use it: it
// selects its policy from config.EvictionPolicyKind.
type Kind int

const (
	LRU Kind = iota
	LFU
	TTL
	RANDOM
)

func (k Kind) String() string {
	switch k {
	case LRU:
		return "LRU"
	case LFU:
		return "LFU"
	case TTL:
		return "TTL"
	case RANDOM:
		return "RANDOM"
	default:
		return "UNKNOWN"
	}
}
