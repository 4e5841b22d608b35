package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trackcache/core/config"
)

func TestNewDefaults(t *testing.T) {
	cfg, err := config.New()
	require.NoError(t, err)
	assert.Equal(t, 128, cfg.MaxSize())
	assert.Equal(t, config.LRU, cfg.EvictionPolicy())
	assert.Equal(t, time.Duration(0), cfg.TTL())
	assert.Equal(t, config.MinimumProtocol, cfg.Protocol())
}

func TestNewRejectsNonPositiveMaxSize(t *testing.T) {
	_, err := config.New(config.WithMaxSize(0))
	assert.ErrorIs(t, err, config.ErrInvalid)

	_, err = config.New(config.WithMaxSize(-1))
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestNewRejectsTTLPolicyWithoutTTL(t *testing.T) {
	_, err := config.New(config.WithEvictionPolicy(config.TTL))
	assert.ErrorIs(t, err, config.ErrInvalid)

	cfg, err := config.New(config.WithEvictionPolicy(config.TTL), config.WithTTL(time.Second))
	require.NoError(t, err)
	assert.Equal(t, time.Second, cfg.TTL())
}

func TestNewRejectsOldProtocol(t *testing.T) {
	_, err := config.New(config.WithProtocol(2))
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestExceedsMaxSize(t *testing.T) {
	cfg, err := config.New(config.WithMaxSize(3))
	require.NoError(t, err)
	assert.False(t, cfg.ExceedsMaxSize(3))
	assert.True(t, cfg.ExceedsMaxSize(4))
}

func TestIsAllowedToCache(t *testing.T) {
	cfg, err := config.New()
	require.NoError(t, err)
	assert.True(t, cfg.IsAllowedToCache("get"))
	assert.False(t, cfg.IsAllowedToCache("hrandfield"))
}
