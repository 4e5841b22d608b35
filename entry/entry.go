package entry

import "time"

// CacheEntry is the stored value of a cached request.
type CacheEntry struct {
	// Response is the decoded reply; never mutated in place once stored.
	Response Response

	// CreatedAt is the monotonic insertion time, used by TTL eviction.
	CreatedAt time.Time

	// TouchedAt is the monotonic time of the last access, used by LRU.
	TouchedAt time.Time

	// AccessCount is incremented on every hit, used by LFU.
	AccessCount int64

	// TouchedKeys is the set of DatabaseKeys this entry depends on.
	TouchedKeys map[DatabaseKey]struct{}
}

// NewCacheEntry builds an entry for a fresh insert, created and touched now,
// with an access count of zero.
func NewCacheEntry(resp Response, touchedKeys []DatabaseKey, now time.Time) *CacheEntry {
	keys := make(map[DatabaseKey]struct{}, len(touchedKeys))
	for _, k := range touchedKeys {
		keys[k] = struct{}{}
	}
	return &CacheEntry{
		Response:    resp,
		CreatedAt:   now,
		TouchedAt:   now,
		AccessCount: 0,
		TouchedKeys: keys,
	}
}

// Touch records a hit against the entry: bumps TouchedAt and AccessCount.
func (e *CacheEntry) Touch(now time.Time) {
	e.TouchedAt = now
	e.AccessCount++
}

// ExpiresAt returns the instant the entry becomes stale under a TTL policy.
// A non-positive ttl means the entry never expires.
func (e *CacheEntry) ExpiresAt(ttl time.Duration) (time.Time, bool) {
	if ttl <= 0 {
		return time.Time{}, false
	}
	return e.CreatedAt.Add(ttl), true
}

// CloneResponse returns a defensive copy of the entry's response, safe for
// the caller to mutate without affecting the entry held by the store.
func (e *CacheEntry) CloneResponse() Response {
	if e.Response == nil {
		return nil
	}
	return e.Response.Clone()
}
