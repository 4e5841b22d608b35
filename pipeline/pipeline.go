// Package pipeline implements InvalidationPipeline: the component that
// integrates a CacheStore with a live Connection — registering tracking,
// draining asynchronous invalidation messages, clearing the cache on
// disconnect or server-side flush, and exposing the read-through entry
// point command dispatch uses. Grounded on the teacher's
// cache.Cache.startCheckMemoryUsage ticker-goroutine (generalized here from
// a memory check into the health-check ping) and on
// platform-agent/internal/supervisor.Supervisor's logger-as-struct-field
// and uuid.NewString() idioms.
package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/trackcache/core/catalogue"
	"github.com/trackcache/core/config"
	"github.com/trackcache/core/entry"
	"github.com/trackcache/core/store"
)

// DefaultHealthCheckInterval is the default interval at which HealthCheck
// pings the connection to flush pending server pushes — spec.md §4.4.
const DefaultHealthCheckInterval = time.Second

// Pipeline binds one CacheStore to one Connection.
type Pipeline struct {
	id     string
	conn   Connection
	cfg    *config.Configuration
	store  *store.Store
	logger zerolog.Logger

	state stateBox

	healthInterval time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Option configures a Pipeline at construction.
type Option func(*Pipeline)

// WithHealthCheckInterval overrides the default 1-second health-check
// cadence.
func WithHealthCheckInterval(d time.Duration) Option {
	return func(p *Pipeline) { p.healthInterval = d }
}

// WithLogger overrides the pipeline's zerolog.Logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(p *Pipeline) { p.logger = logger }
}

// New builds a Pipeline bound to conn and st, requests tracking on conn, and
// — once acknowledged — starts the background invalidation reader and
// health-check loop. ctx bounds the pipeline's background goroutines; the
// caller cancels it (or calls Close) to stop them.
func New(ctx context.Context, conn Connection, cfg *config.Configuration, st *store.Store, opts ...Option) (*Pipeline, error) {
	pctx, cancel := context.WithCancel(ctx)
	p := &Pipeline{
		id:             uuid.NewString(),
		conn:           conn,
		cfg:            cfg,
		store:          st,
		logger:         zerolog.Nop(),
		healthInterval: DefaultHealthCheckInterval,
		ctx:            pctx,
		cancel:         cancel,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.With().Str("connection_id", p.id).Logger()

	if err := conn.BeginTracking(pctx); err != nil {
		cancel()
		p.state.store(Closed)
		return nil, err
	}
	p.state.store(Ready)
	p.logger.Info().Msg("tracking acknowledged, pipeline ready")

	p.wg.Add(2)
	go p.readInvalidations()
	go p.runHealthCheck()

	return p, nil
}

// ID returns the pipeline's connection identifier, attached to every log
// line so pooled deployments can be told apart.
func (p *Pipeline) ID() string { return p.id }

// State returns the pipeline's current lifecycle state.
func (p *Pipeline) State() State { return p.state.load() }

// Store returns the CacheStore this pipeline owns — the per-connection
// handle spec.md §9's open question resolves to.
func (p *Pipeline) Store() *store.Store { return p.store }

func (p *Pipeline) readInvalidations() {
	defer p.wg.Done()
	for {
		select {
		case <-p.ctx.Done():
			return
		case <-p.conn.Disconnected():
			p.onDisconnect()
			return
		case inv := <-p.conn.Invalidations():
			p.OnInvalidationMessage(inv.Keys)
		}
	}
}

func (p *Pipeline) runHealthCheck() {
	defer p.wg.Done()
	ticker := time.NewTicker(p.healthInterval)
	defer ticker.Stop()
	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			p.HealthCheck()
		}
	}
}

// HealthCheck issues a no-op round trip so any pending server pushes queued
// on the connection are flushed onto it, where the background reader
// delivers them to OnInvalidationMessage even if no application command is
// currently running.
func (p *Pipeline) HealthCheck() {
	if p.State() == Closed {
		return
	}
	if _, err := p.conn.Send(p.ctx, "PING", nil); err != nil {
		p.logger.Warn().Err(err).Msg("health check round trip failed")
	}
}

// ExecuteCommand is the read-through entry point command dispatch uses.
func (p *Pipeline) ExecuteCommand(ctx context.Context, command string, args [][]byte) (entry.Response, error) {
	name := strings.ToUpper(command)

	if p.State() == Closed || !p.cfg.IsAllowedToCache(name) {
		reply, err := p.conn.Send(ctx, name, args)
		return p.passThrough(name, reply, err)
	}

	fp := entry.NewFingerprint(name, args...)
	if resp, ok := p.store.Get(fp); ok {
		return resp, nil
	}

	reply, err := p.conn.Send(ctx, name, args)
	if err != nil {
		p.handleSendErr(err)
		return nil, err
	}
	if reply.Err != nil {
		// Spec.md §7: cache insert is skipped whenever the reply is an
		// error; non-cacheable behavior, not a pipeline failure.
		return reply.Value, reply.Err
	}

	deps := keysFor(name, args)
	p.store.Set(fp, reply.Value, deps)

	return reply.Value, nil
}

func (p *Pipeline) passThrough(name string, reply Reply, err error) (entry.Response, error) {
	if err != nil {
		p.handleSendErr(err)
		return nil, err
	}
	if reply.Err == nil && catalogue.IsFlush(name) {
		p.OnServerFlush()
	}
	return reply.Value, reply.Err
}

func (p *Pipeline) handleSendErr(err error) {
	p.logger.Warn().Err(err).Msg("connection error during command dispatch")
	if errors.Is(err, ErrDisconnected) {
		p.OnDisconnect()
	}
}

func keysFor(name string, args [][]byte) []entry.DatabaseKey {
	raw := catalogue.TouchedKeys(name, args)
	keys := make([]entry.DatabaseKey, 0, len(raw))
	for _, k := range raw {
		keys = append(keys, entry.NewDatabaseKey(k))
	}
	return keys
}

// OnInvalidationMessage is invoked by the background reader for every push
// the server sends. A nil keys slice means "invalidate everything".
func (p *Pipeline) OnInvalidationMessage(keys [][]byte) {
	if keys == nil {
		p.logger.Debug().Msg("invalidating entire store: null-keyed push")
		p.store.Clear()
		return
	}
	for _, k := range keys {
		p.store.InvalidateKey(entry.NewDatabaseKey(k))
	}
	p.logger.Debug().Int("keys", len(keys)).Msg("invalidated keys")
}

// OnServerFlush clears the store, triggered either by a null-keyed
// invalidation after a server-side flush or by ExecuteCommand recognising a
// successful FLUSHDB/FLUSHALL.
func (p *Pipeline) OnServerFlush() {
	p.logger.Info().Msg("server flush observed, clearing store")
	p.store.Clear()
}

// onDisconnect runs the Ready→Draining→Closed transition: store.Clear()
// returning is what makes Currsize() observably 0 before Closed is set.
func (p *Pipeline) onDisconnect() {
	p.state.store(Draining)
	p.logger.Warn().Msg("connection lost, draining store")
	p.store.Clear()
	p.state.store(Closed)
	p.cancel()
}

// OnDisconnect is the externally callable form of the disconnect
// transition, for callers that detect loss outside the background reader
// (e.g. a synchronous send failing with ErrDisconnected).
func (p *Pipeline) OnDisconnect() {
	if p.State() == Closed {
		return
	}
	p.onDisconnect()
}

// Close stops the pipeline's background goroutines and waits for them to
// exit. It does not itself clear the store — callers that want that should
// also call OnDisconnect.
func (p *Pipeline) Close() {
	p.cancel()
	p.wg.Wait()
}
