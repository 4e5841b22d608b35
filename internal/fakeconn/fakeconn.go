// Package fakeconn is an in-memory stand-in for the out-of-scope connection
// collaborator pipeline.Connection describes: a tiny simulated key-value
// server with GET/SET/MGET/HSET/HRANDFIELD/FLUSHALL/PING support and
// server-assisted invalidation push delivery, used by the pipeline's
// scenario tests and by cmd/cachedemo. It is not part of the cache core
// proper — the wire protocol, connection pool, and command catalogue
// backing it are all out of scope per spec.md §1.
package fakeconn

import (
	"context"
	"math/rand"
	"sync"

	"github.com/trackcache/core/entry"
	"github.com/trackcache/core/pipeline"
)

// Server holds the simulated dataset shared across every Conn it issues,
// exactly as a real key-value server's state is shared across every client
// connection to it.
type Server struct {
	mu      sync.Mutex
	strings map[string][]byte
	hashes  map[string]map[string][]byte
	conns   map[*Conn]struct{}
}

// NewServer builds an empty simulated server.
func NewServer() *Server {
	return &Server{
		strings: make(map[string][]byte),
		hashes:  make(map[string]map[string][]byte),
		conns:   make(map[*Conn]struct{}),
	}
}

// Connect issues a new connection to the server, as a connection pool would
// for a new pooled client.
func (s *Server) Connect() *Conn {
	c := &Conn{
		server: s,
		inv:    make(chan pipeline.Invalidation, 16),
		disc:   make(chan struct{}),
	}
	s.mu.Lock()
	s.conns[c] = struct{}{}
	s.mu.Unlock()
	return c
}

func (s *Server) broadcast(except *Conn, inv pipeline.Invalidation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.conns {
		if c == except || !c.tracking {
			continue
		}
		select {
		case c.inv <- inv:
		default:
			// Slow reader: drop the push rather than block the writer, and
			// disconnect the client, as a real server does with a client
			// whose invalidation buffer overflows.
			c.Disconnect()
		}
	}
}

// Conn is one simulated connection to Server, implementing
// pipeline.Connection.
type Conn struct {
	server    *Server
	inv       chan pipeline.Invalidation
	disc      chan struct{}
	closeOnce sync.Once
	tracking  bool
}

var _ pipeline.Connection = (*Conn)(nil)

// BeginTracking marks this connection as subscribed to invalidation pushes.
func (c *Conn) BeginTracking(ctx context.Context) error {
	c.tracking = true
	return nil
}

// Invalidations exposes the connection's push channel.
func (c *Conn) Invalidations() <-chan pipeline.Invalidation {
	return c.inv
}

// Disconnected exposes the connection's disconnect signal.
func (c *Conn) Disconnected() <-chan struct{} {
	return c.disc
}

// Disconnect simulates the connection dropping, closing Disconnected()
// exactly once.
func (c *Conn) Disconnect() {
	c.closeOnce.Do(func() { close(c.disc) })
}

// Send executes command against the simulated server.
func (c *Conn) Send(ctx context.Context, command string, args [][]byte) (pipeline.Reply, error) {
	switch command {
	case "PING":
		return pipeline.Reply{Value: entry.Scalar("PONG")}, nil
	case "GET":
		return c.get(args)
	case "SET":
		return c.set(args)
	case "MGET":
		return c.mget(args)
	case "HSET":
		return c.hset(args)
	case "HRANDFIELD":
		return c.hrandfield(args)
	case "FLUSHALL", "FLUSHDB":
		return c.flush()
	default:
		return pipeline.Reply{}, nil
	}
}

func (c *Conn) get(args [][]byte) (pipeline.Reply, error) {
	c.server.mu.Lock()
	v, ok := c.server.strings[string(args[0])]
	c.server.mu.Unlock()
	if !ok {
		return pipeline.Reply{Value: nil}, nil
	}
	return pipeline.Reply{Value: entry.Scalar(append([]byte(nil), v...))}, nil
}

func (c *Conn) set(args [][]byte) (pipeline.Reply, error) {
	key, val := string(args[0]), append([]byte(nil), args[1]...)
	c.server.mu.Lock()
	c.server.strings[key] = val
	c.server.mu.Unlock()
	c.server.broadcast(c, pipeline.Invalidation{Keys: [][]byte{args[0]}})
	return pipeline.Reply{Value: entry.Scalar("OK")}, nil
}

func (c *Conn) mget(args [][]byte) (pipeline.Reply, error) {
	c.server.mu.Lock()
	out := make(entry.List, len(args))
	for i, a := range args {
		if v, ok := c.server.strings[string(a)]; ok {
			out[i] = append([]byte(nil), v...)
		}
	}
	c.server.mu.Unlock()
	return pipeline.Reply{Value: out}, nil
}

func (c *Conn) hset(args [][]byte) (pipeline.Reply, error) {
	key, field, val := string(args[0]), string(args[1]), append([]byte(nil), args[2]...)
	c.server.mu.Lock()
	h, ok := c.server.hashes[key]
	if !ok {
		h = make(map[string][]byte)
		c.server.hashes[key] = h
	}
	h[field] = val
	c.server.mu.Unlock()
	c.server.broadcast(c, pipeline.Invalidation{Keys: [][]byte{args[0]}})
	return pipeline.Reply{Value: entry.Scalar("1")}, nil
}

func (c *Conn) hrandfield(args [][]byte) (pipeline.Reply, error) {
	c.server.mu.Lock()
	defer c.server.mu.Unlock()
	h, ok := c.server.hashes[string(args[0])]
	if !ok || len(h) == 0 {
		return pipeline.Reply{Value: nil}, nil
	}
	fields := make([]string, 0, len(h))
	for f := range h {
		fields = append(fields, f)
	}
	return pipeline.Reply{Value: entry.Scalar(fields[rand.Intn(len(fields))])}, nil
}

func (c *Conn) flush() (pipeline.Reply, error) {
	c.server.mu.Lock()
	c.server.strings = make(map[string][]byte)
	c.server.hashes = make(map[string]map[string][]byte)
	c.server.mu.Unlock()
	c.server.broadcast(nil, pipeline.Invalidation{Keys: nil})
	return pipeline.Reply{Value: entry.Scalar("OK")}, nil
}
