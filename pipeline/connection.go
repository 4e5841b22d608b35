package pipeline

import (
	"context"

	"github.com/trackcache/core/entry"
)

// Reply is a decoded, already-parsed server reply: either a usable value or
// an error the wire protocol reported. Err distinguishes a server-side
// command error from a successful reply of nil/empty value.
type Reply struct {
	Value entry.Response
	Err   error
}

// Invalidation is a push message the server sent on a tracked connection.
// A nil Keys slice means "invalidate everything" (spec.md §4.4); a non-nil,
// possibly empty, slice names the specific keys to invalidate.
type Invalidation struct {
	Keys [][]byte
}

// Connection is the out-of-scope collaborator spec.md §2 and §6 describe:
// an abstraction over one connection to the key-value server offering
// request/reply, asynchronous push delivery, and a disconnect signal. The
// wire protocol, the connection pool, and TLS transport all live behind
// this boundary, outside this module.
type Connection interface {
	// BeginTracking asks the server to start pushing invalidation messages
	// for keys read on this connection — spec.md §6's tracking protocol.
	BeginTracking(ctx context.Context) error

	// Send issues a request and returns its decoded reply.
	Send(ctx context.Context, command string, args [][]byte) (Reply, error)

	// Invalidations delivers asynchronous server pushes, in the order the
	// server sent them on this connection.
	Invalidations() <-chan Invalidation

	// Disconnected is closed exactly once, when the connection is lost.
	Disconnected() <-chan struct{}
}
