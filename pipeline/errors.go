package pipeline

import "errors"

// ErrProtocol is the sentinel for a connection-reported protocol error. The
// pipeline does not wrap errors with it: ExecuteCommand returns a Send error
// as the Connection reported it, and skips the cache insert.
var ErrProtocol = errors.New("cache: protocol error")

// ErrDisconnected is surfaced to the caller in flight when the connection is
// lost; it also triggers OnDisconnect.
var ErrDisconnected = errors.New("cache: disconnected")
