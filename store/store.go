// Package store implements CacheStore: the thread-safe container combining
// a primary map (fingerprint → entry), a secondary index (database-key →
// set of fingerprints), and one eviction engine. All mutating operations go
// through it under a single mutex, generalized from the teacher's
// cache.Cache (which wrapped one engine.Engine directly) to add the
// key_index secondary map spec.md §3 requires.
package store

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/trackcache/core/config"
	"github.com/trackcache/core/entry"
	"github.com/trackcache/core/eviction"
	"github.com/trackcache/core/eviction/lfu"
	"github.com/trackcache/core/eviction/lru"
	"github.com/trackcache/core/eviction/random"
	"github.com/trackcache/core/eviction/ttl"
)

// Store is the thread-safe cache container described by spec.md §4.3.
type Store struct {
	mu        sync.Mutex
	primary   map[entry.Fingerprint]*entry.CacheEntry
	keyIndex  map[entry.DatabaseKey]map[entry.Fingerprint]struct{}
	policy    eviction.Policy
	policyKind config.EvictionPolicyKind
	maxSize   int
	metrics   *Metrics
	now       func() time.Time
}

// Option configures a Store at construction.
type Option func(*Store)

// WithRegisterer wires the store's Prometheus metrics into reg. A nil
// registerer (the default) counts without registering.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(s *Store) { s.metrics = NewMetrics(reg) }
}

// WithRandomSeed pins the RANDOM policy's sampling seed, for deterministic
// tests. No-op for any other eviction policy.
func WithRandomSeed(seed int64) Option {
	return func(s *Store) {
		if s.policyKind == config.RANDOM {
			s.policy = random.New(seed)
		}
	}
}

// withClock overrides the store's notion of "now", for tests.
func withClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New builds a Store from a Configuration, constructing the eviction engine
// the configuration selects.
func New(cfg *config.Configuration, opts ...Option) *Store {
	s := &Store{
		primary:    make(map[entry.Fingerprint]*entry.CacheEntry),
		keyIndex:   make(map[entry.DatabaseKey]map[entry.Fingerprint]struct{}),
		policyKind: cfg.EvictionPolicy(),
		maxSize:    cfg.MaxSize(),
		now:        time.Now,
	}

	switch cfg.EvictionPolicy() {
	case config.LFU:
		s.policy = lfu.New()
	case config.TTL:
		s.policy = ttl.New(cfg.TTL())
	case config.RANDOM:
		s.policy = random.NewWithTimeSeed()
	default:
		s.policy = lru.New()
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.metrics == nil {
		s.metrics = NewMetrics(nil)
	}

	return s
}

// EvictionPolicy returns the configured eviction strategy.
func (s *Store) EvictionPolicy() config.EvictionPolicyKind {
	return s.policyKind
}

// Metrics returns the store's Prometheus-backed counters.
func (s *Store) Metrics() *Metrics {
	return s.metrics
}

// evictExpiredLocked drops every entry the policy considers expired, if the
// policy is TTL-aware. Must be called with mu held.
func (s *Store) evictExpiredLocked(now time.Time) {
	expirer, ok := s.policy.(eviction.Expirer)
	if !ok {
		return
	}
	for _, fp := range expirer.ExpireBefore(now) {
		s.removeLocked(fp)
	}
}

// Get looks up fp. On a TTL-policy store, expired entries are swept first so
// an expired entry is never returned. On hit, it records the access and
// returns a defensive copy of the response.
func (s *Store) Get(fp entry.Fingerprint) (entry.Response, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.evictExpiredLocked(now)

	e, ok := s.primary[fp]
	if !ok {
		s.metrics.Misses().Inc()
		return nil, false
	}

	e.Touch(now)
	s.policy.OnHit(fp, now)
	s.metrics.Hits().Inc()
	return e.CloneResponse(), true
}

// Set inserts or updates fp's entry. If fp is new and the store is at
// capacity, a victim is selected via the policy and removed first.
func (s *Store) Set(fp entry.Fingerprint, resp entry.Response, touchedKeys []entry.DatabaseKey) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.evictExpiredLocked(now)

	if e, exists := s.primary[fp]; exists {
		e.Response = resp
		e.Touch(now)
		s.reindexLocked(fp, e, touchedKeys)
		s.policy.OnHit(fp, now)
		return
	}

	if len(s.primary) >= s.maxSize {
		if victim, ok := s.policy.PickVictim(); ok {
			s.removeLocked(victim)
			s.metrics.Evictions().Inc()
		}
	}

	e := entry.NewCacheEntry(resp, touchedKeys, now)
	s.primary[fp] = e
	for k := range e.TouchedKeys {
		s.addToIndexLocked(k, fp)
	}
	s.policy.OnInsert(fp, now)
}

// reindexLocked updates the key_index when an in-place update changes the
// set of keys an existing fingerprint depends on.
func (s *Store) reindexLocked(fp entry.Fingerprint, e *entry.CacheEntry, touchedKeys []entry.DatabaseKey) {
	for k := range e.TouchedKeys {
		s.removeFromIndexLocked(k, fp)
	}
	keys := make(map[entry.DatabaseKey]struct{}, len(touchedKeys))
	for _, k := range touchedKeys {
		keys[k] = struct{}{}
		s.addToIndexLocked(k, fp)
	}
	e.TouchedKeys = keys
}

func (s *Store) addToIndexLocked(k entry.DatabaseKey, fp entry.Fingerprint) {
	set, ok := s.keyIndex[k]
	if !ok {
		set = make(map[entry.Fingerprint]struct{})
		s.keyIndex[k] = set
	}
	set[fp] = struct{}{}
}

func (s *Store) removeFromIndexLocked(k entry.DatabaseKey, fp entry.Fingerprint) {
	set, ok := s.keyIndex[k]
	if !ok {
		return
	}
	delete(set, fp)
	if len(set) == 0 {
		delete(s.keyIndex, k)
	}
}

// removeLocked drops fp from primary and key_index and notifies the policy.
// Must be called with mu held.
func (s *Store) removeLocked(fp entry.Fingerprint) {
	e, ok := s.primary[fp]
	if !ok {
		return
	}
	for k := range e.TouchedKeys {
		s.removeFromIndexLocked(k, fp)
	}
	delete(s.primary, fp)
	s.policy.OnRemove(fp)
}

// InvalidateKey removes every fingerprint depending on k. Idempotent on
// unknown keys.
func (s *Store) InvalidateKey(k entry.DatabaseKey) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.keyIndex[k]
	if !ok {
		return
	}
	fps := make([]entry.Fingerprint, 0, len(set))
	for fp := range set {
		fps = append(fps, fp)
	}
	for _, fp := range fps {
		s.removeLocked(fp)
	}
	s.metrics.Invalidated().Inc()
}

// InvalidateFingerprint removes a single fingerprint, symmetric to
// InvalidateKey scoped to one entry.
func (s *Store) InvalidateFingerprint(fp entry.Fingerprint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(fp)
}

// Clear drops all entries and indexes and resets the eviction policy.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.primary = make(map[entry.Fingerprint]*entry.CacheEntry)
	s.keyIndex = make(map[entry.DatabaseKey]map[entry.Fingerprint]struct{})
	s.policy.Clear()
}

// Currsize returns the number of entries currently held.
func (s *Store) Currsize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.primary)
}
