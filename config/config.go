// Package config defines the immutable policy object the cache core is
// built from: maximum size, TTL, eviction policy selector, and the
// "is this command cacheable" predicate.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/trackcache/core/catalogue"
)

// ErrInvalid is the sentinel wrapped by every configuration-construction
// failure — spec.md's ConfigurationError.
var ErrInvalid = errors.New("cache: invalid configuration")

// MinimumProtocol is the lowest wire-protocol version that tags push
// messages distinctly from replies. Caching cannot be safely enabled below
// it — see spec.md §9 on push-message parser coupling.
const MinimumProtocol = 3

const defaultCacheSize = 128

// Configuration is immutable after construction.
type Configuration struct {
	maxSize        int
	ttl            time.Duration
	evictionPolicy EvictionPolicyKind
	protocol       int
}

// Option mutates a Configuration under construction. Functional options
// keep New's signature stable as the policy surface grows.
type Option func(*Configuration)

// WithMaxSize overrides the default cache size (128 entries).
func WithMaxSize(n int) Option {
	return func(c *Configuration) { c.maxSize = n }
}

// WithTTL sets the cache's TTL. Zero or negative means "no TTL".
func WithTTL(d time.Duration) Option {
	return func(c *Configuration) { c.ttl = d }
}

// WithEvictionPolicy selects the eviction strategy.
func WithEvictionPolicy(p EvictionPolicyKind) Option {
	return func(c *Configuration) { c.evictionPolicy = p }
}

// WithProtocol overrides the negotiated wire-protocol version. Only
// meaningful for rejecting caching on connections that speak an older
// protocol than MinimumProtocol.
func WithProtocol(version int) Option {
	return func(c *Configuration) { c.protocol = version }
}

// New builds a Configuration, applying opts over these defaults: MaxSize
// 128, no TTL, LRU eviction, protocol 3. It returns ErrInvalid for
// contradictory settings: a non-positive MaxSize, a TTL policy with no TTL
// set, or a protocol below MinimumProtocol.
func New(opts ...Option) (*Configuration, error) {
	c := &Configuration{
		maxSize:        defaultCacheSize,
		ttl:            0,
		evictionPolicy: LRU,
		protocol:       MinimumProtocol,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.maxSize <= 0 {
		return nil, fmt.Errorf("%w: max_size must be > 0, got %d", ErrInvalid, c.maxSize)
	}
	if c.evictionPolicy == TTL && c.ttl <= 0 {
		return nil, fmt.Errorf("%w: TTL eviction policy requires a positive ttl", ErrInvalid)
	}
	if c.protocol < MinimumProtocol {
		return nil, fmt.Errorf("%w: protocol %d cannot distinguish push frames from replies, need >= %d", ErrInvalid, c.protocol, MinimumProtocol)
	}

	return c, nil
}

// MaxSize returns the configured maximum number of entries.
func (c *Configuration) MaxSize() int { return c.maxSize }

// TTL returns the configured time-to-live. Zero or negative means disabled.
func (c *Configuration) TTL() time.Duration { return c.ttl }

// EvictionPolicy returns the selected eviction strategy.
func (c *Configuration) EvictionPolicy() EvictionPolicyKind { return c.evictionPolicy }

// Protocol returns the negotiated wire-protocol version.
func (c *Configuration) Protocol() int { return c.protocol }

// ExceedsMaxSize reports whether n exceeds the configured maximum size.
func (c *Configuration) ExceedsMaxSize(n int) bool {
	return n > c.maxSize
}

// IsAllowedToCache reports whether the named command's replies may be
// cached, per the command catalogue's static allow-list.
func (c *Configuration) IsAllowedToCache(command string) bool {
	return catalogue.IsCacheable(command)
}
