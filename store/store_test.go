package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/trackcache/core/config"
	"github.com/trackcache/core/entry"
)

type StoreTestSuite struct {
	suite.Suite
}

func TestStoreTestSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}

func (s *StoreTestSuite) newStore(opts ...config.Option) *Store {
	cfg, err := config.New(opts...)
	require.NoError(s.T(), err)
	return New(cfg)
}

func (s *StoreTestSuite) TestRoundTrip() {
	st := s.newStore(config.WithMaxSize(3))
	fp := entry.NewFingerprint("GET", []byte("foo"))

	st.Set(fp, entry.Scalar("bar"), []entry.DatabaseKey{"foo"})

	resp, ok := st.Get(fp)
	s.Require().True(ok)
	s.Equal(entry.Scalar("bar"), resp)
}

func (s *StoreTestSuite) TestMissReturnsFalse() {
	st := s.newStore()
	_, ok := st.Get(entry.NewFingerprint("GET", []byte("missing")))
	s.False(ok)
}

func (s *StoreTestSuite) TestDefensiveCopyOnGet() {
	st := s.newStore()
	fp := entry.NewFingerprint("MGET", []byte("foo"), []byte("bar"))
	st.Set(fp, entry.List{[]byte("bar"), []byte("foo")}, []entry.DatabaseKey{"foo", "bar"})

	first, ok := st.Get(fp)
	s.Require().True(ok)
	firstList := first.(entry.List)
	firstList[0] = []byte("mutated")

	second, ok := st.Get(fp)
	s.Require().True(ok)
	s.Equal([]byte("bar"), second.(entry.List)[0])
}

func (s *StoreTestSuite) TestLRUEviction() {
	st := s.newStore(config.WithMaxSize(3), config.WithEvictionPolicy(config.LRU))

	foo := entry.NewFingerprint("GET", []byte("foo"))
	foo2 := entry.NewFingerprint("GET", []byte("foo2"))
	foo3 := entry.NewFingerprint("GET", []byte("foo3"))
	foo4 := entry.NewFingerprint("GET", []byte("foo4"))

	st.Set(foo, entry.Scalar("bar"), []entry.DatabaseKey{"foo"})
	st.Set(foo2, entry.Scalar("bar2"), []entry.DatabaseKey{"foo2"})
	st.Set(foo3, entry.Scalar("bar3"), []entry.DatabaseKey{"foo3"})

	st.Set(foo4, entry.Scalar("bar4"), []entry.DatabaseKey{"foo4"})

	_, ok := st.Get(foo)
	s.False(ok, "foo must have been evicted")
	for _, fp := range []entry.Fingerprint{foo2, foo3, foo4} {
		_, ok := st.Get(fp)
		s.True(ok)
	}
	s.Equal(3, st.Currsize())
}

func (s *StoreTestSuite) TestLFUEviction() {
	st := s.newStore(config.WithMaxSize(3), config.WithEvictionPolicy(config.LFU))

	foo := entry.NewFingerprint("GET", []byte("foo"))
	foo2 := entry.NewFingerprint("GET", []byte("foo2"))
	foo3 := entry.NewFingerprint("GET", []byte("foo3"))
	foo4 := entry.NewFingerprint("GET", []byte("foo4"))

	st.Set(foo, entry.Scalar("bar"), []entry.DatabaseKey{"foo"})
	st.Set(foo2, entry.Scalar("bar2"), []entry.DatabaseKey{"foo2"})
	st.Set(foo3, entry.Scalar("bar3"), []entry.DatabaseKey{"foo3"})

	st.Get(foo)
	st.Get(foo)
	st.Get(foo3)

	st.Set(foo4, entry.Scalar("bar4"), []entry.DatabaseKey{"foo4"})

	_, ok := st.Get(foo2)
	s.False(ok, "foo2 had the lowest access frequency")
	_, ok = st.Get(foo)
	s.True(ok)
	s.Equal(3, st.Currsize())
}

func (s *StoreTestSuite) TestTTLExpiry() {
	cfg, err := config.New(config.WithMaxSize(128), config.WithEvictionPolicy(config.TTL), config.WithTTL(time.Second))
	s.Require().NoError(err)

	now := time.Now()
	cursor := now
	st := New(cfg, withClock(func() time.Time { return cursor }))

	fp := entry.NewFingerprint("GET", []byte("foo"))
	st.Set(fp, entry.Scalar("bar"), []entry.DatabaseKey{"foo"})

	cursor = now.Add(1010 * time.Millisecond)
	_, ok := st.Get(fp)
	s.False(ok, "entry must not be returned once its ttl has elapsed")
}

func (s *StoreTestSuite) TestMultiKeyInvalidation() {
	st := s.newStore(config.WithMaxSize(128))

	mget := entry.NewFingerprint("MGET", []byte("foo"), []byte("bar"))
	get := entry.NewFingerprint("GET", []byte("foo"))

	st.Set(mget, entry.List{[]byte("bar"), []byte("foo")}, []entry.DatabaseKey{"foo", "bar"})
	st.Set(get, entry.Scalar("bar"), []entry.DatabaseKey{"foo"})

	st.InvalidateKey("foo")

	_, ok := st.Get(mget)
	s.False(ok, "invalidating foo must remove the MGET entry that depends on it")
	_, ok = st.Get(get)
	s.False(ok)
}

func (s *StoreTestSuite) TestInvalidateKeyIdempotent() {
	st := s.newStore()
	st.InvalidateKey("never-set")
	st.InvalidateKey("never-set")
	s.Equal(0, st.Currsize())
}

func (s *StoreTestSuite) TestClearRemovesEverything() {
	st := s.newStore()
	st.Set(entry.NewFingerprint("GET", []byte("foo")), entry.Scalar("bar"), []entry.DatabaseKey{"foo"})
	st.Set(entry.NewFingerprint("GET", []byte("bar")), entry.Scalar("foo"), []entry.DatabaseKey{"bar"})

	st.Clear()

	s.Equal(0, st.Currsize())
	s.Empty(st.keyIndex)
	_, ok := st.Get(entry.NewFingerprint("GET", []byte("foo")))
	s.False(ok)
}

func (s *StoreTestSuite) TestIndexInvariants() {
	st := s.newStore(config.WithMaxSize(128))
	fp := entry.NewFingerprint("MGET", []byte("foo"), []byte("bar"))
	st.Set(fp, entry.List{[]byte("bar"), []byte("foo")}, []entry.DatabaseKey{"foo", "bar"})

	st.mu.Lock()
	e, ok := st.primary[fp]
	s.Require().True(ok)
	for k := range e.TouchedKeys {
		set, ok := st.keyIndex[k]
		s.Require().True(ok)
		_, present := set[fp]
		s.True(present, "index completeness: fp must be present in key_index[k] for every k it touches")
	}
	for k, set := range st.keyIndex {
		for fp := range set {
			e, ok := st.primary[fp]
			s.Require().True(ok)
			_, present := e.TouchedKeys[k]
			s.True(present, "index soundness: every indexed fp must actually touch k")
		}
	}
	st.mu.Unlock()
}

func (s *StoreTestSuite) TestSetUpdatesInPlaceWithoutDoubleCounting() {
	st := s.newStore(config.WithMaxSize(2))
	fp := entry.NewFingerprint("GET", []byte("foo"))

	st.Set(fp, entry.Scalar("bar"), []entry.DatabaseKey{"foo"})
	st.Set(fp, entry.Scalar("baz"), []entry.DatabaseKey{"foo"})

	s.Equal(1, st.Currsize())
	resp, ok := st.Get(fp)
	s.Require().True(ok)
	s.Equal(entry.Scalar("baz"), resp)
}

func (s *StoreTestSuite) TestEvictionPolicyAccessor() {
	st := s.newStore(config.WithEvictionPolicy(config.LFU))
	assert.Equal(s.T(), config.LFU, st.EvictionPolicy())
}
