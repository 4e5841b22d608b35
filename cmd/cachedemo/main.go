// Command cachedemo wires an InvalidationPipeline to an in-memory simulated
// connection and exercises the basic round-trip scenario spec.md §8
// describes, to demonstrate the ambient config/logging stack the cache
// core itself stays silent about. It is a runnable example, not a general
// CLI — CLI tooling proper is out of this module's scope.
package main

import (
	"context"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"

	"github.com/trackcache/core/config"
	"github.com/trackcache/core/entry"
	"github.com/trackcache/core/internal/fakeconn"
	"github.com/trackcache/core/pipeline"
	"github.com/trackcache/core/store"
)

// demoConfig mirrors spec.md §6's cache configuration surface
// (cache_eviction/cache_size/cache_ttl; there is no use_cache switch, the
// demo always caches), loaded from the
// environment the way internal/config/config.go loads application config.
type demoConfig struct {
	LogLevel      string        `envconfig:"LOG_LEVEL" default:"info"`
	CacheEviction string        `envconfig:"CACHE_EVICTION" default:"LRU"`
	CacheSize     int           `envconfig:"CACHE_SIZE" default:"128"`
	CacheTTL      time.Duration `envconfig:"CACHE_TTL" default:"0"`
}

func main() {
	var dc demoConfig
	if err := envconfig.Process("CACHEDEMO", &dc); err != nil {
		panic(err)
	}

	level, err := zerolog.ParseLevel(dc.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
		Level(level).
		With().Timestamp().Logger()

	var kind config.EvictionPolicyKind
	switch dc.CacheEviction {
	case "LFU":
		kind = config.LFU
	case "TTL":
		kind = config.TTL
	case "RANDOM":
		kind = config.RANDOM
	default:
		kind = config.LRU
	}

	opts := []config.Option{
		config.WithMaxSize(dc.CacheSize),
		config.WithEvictionPolicy(kind),
	}
	if kind == config.TTL {
		opts = append(opts, config.WithTTL(dc.CacheTTL))
	}

	cfg, err := config.New(opts...)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid cache configuration")
	}

	st := store.New(cfg)

	server := fakeconn.NewServer()
	conn := server.Connect()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	p, err := pipeline.New(ctx, conn, cfg, st, pipeline.WithLogger(logger))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize pipeline")
	}
	defer p.Close()

	if _, err := p.ExecuteCommand(ctx, "SET", [][]byte{[]byte("foo"), []byte("bar")}); err != nil {
		logger.Fatal().Err(err).Msg("set failed")
	}

	resp, err := p.ExecuteCommand(ctx, "GET", [][]byte{[]byte("foo")})
	if err != nil {
		logger.Fatal().Err(err).Msg("get failed")
	}

	if scalar, ok := resp.(entry.Scalar); ok {
		logger.Info().Str("response", scalar.String()).Msg("read served")
	}
	logger.Info().Int("cache_size", st.Currsize()).Msg("cache populated from first read")

	// A second GET is now served from the local store without touching conn.
	if _, err := p.ExecuteCommand(ctx, "GET", [][]byte{[]byte("foo")}); err != nil {
		logger.Fatal().Err(err).Msg("cached get failed")
	}
	logger.Info().Msg("second read served from cache, no connection round trip")
}
