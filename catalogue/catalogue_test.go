package catalogue_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trackcache/core/catalogue"
)

func TestIsCacheable(t *testing.T) {
	assert.True(t, catalogue.IsCacheable("get"))
	assert.True(t, catalogue.IsCacheable("MGET"))
	assert.False(t, catalogue.IsCacheable("HRANDFIELD"), "nondeterministic readers are never cacheable")
	assert.False(t, catalogue.IsCacheable("SRANDMEMBER"))
	assert.False(t, catalogue.IsCacheable("RANDOMKEY"))
	assert.False(t, catalogue.IsCacheable("SET"), "writes are not cacheable")
	assert.False(t, catalogue.IsCacheable("UNKNOWNCOMMAND"), "commands absent from the table default to non-cacheable")
}

func TestIsFlush(t *testing.T) {
	assert.True(t, catalogue.IsFlush("FLUSHALL"))
	assert.True(t, catalogue.IsFlush("FLUSHDB"))
	assert.False(t, catalogue.IsFlush("GET"))
}

func TestTouchedKeysFixedPositions(t *testing.T) {
	keys := catalogue.TouchedKeys("GET", [][]byte{[]byte("foo")})
	assert.Equal(t, [][]byte{[]byte("foo")}, keys)
}

func TestTouchedKeysVariadic(t *testing.T) {
	keys := catalogue.TouchedKeys("MGET", [][]byte{[]byte("foo"), []byte("bar")})
	assert.Equal(t, [][]byte{[]byte("foo"), []byte("bar")}, keys)
}

func TestTouchedKeysUnknownCommand(t *testing.T) {
	assert.Nil(t, catalogue.TouchedKeys("UNKNOWNCOMMAND", [][]byte{[]byte("foo")}))
}
