package pgdock

import "context"

// Handle is an exclusive claim on one pooled connection, produced by
// Pool.Acquire. The zero Handle is invalid and inert. A Handle is not safe
// for concurrent use and must not outlive its pool.
type Handle struct {
	pool  *Pool
	conn  *Connection
	index int
}

// IsValid reports whether h currently holds a connection. It is false for
// the zero Handle, for handles from an exhausted or disconnected pool, and
// for handles already released.
func (h *Handle) IsValid() bool { return h != nil && h.conn != nil }

// Conn returns the held connection. It panics when h is invalid: an
// acquisition that can fail must be checked with IsValid first.
func (h *Handle) Conn() *Connection {
	if !h.IsValid() {
		panic("pgdock: Conn called on invalid Handle")
	}
	return h.conn
}

// Pool returns the pool the connection came from, or nil once the handle is
// invalid.
func (h *Handle) Pool() *Pool {
	if h == nil {
		return nil
	}
	return h.pool
}

// Index returns the slot index of the held connection, or -1 once the
// handle is invalid.
func (h *Handle) Index() int {
	if !h.IsValid() {
		return -1
	}
	return h.index
}

// Release returns the connection to the pool, running the pool's release
// handler. It is safe to call Release multiple times; subsequent calls are
// no-ops, which allows both defer h.Release(ctx) and explicit release
// patterns.
func (h *Handle) Release(ctx context.Context) {
	if !h.IsValid() {
		return
	}
	h.pool.Release(ctx, h)
}

// Close releases the handle with a background context. It is provided for
// convenience with defer statements.
func (h *Handle) Close() {
	h.Release(context.Background())
}

// invalidate clears the claim. Callers hold the pool lock or own the handle
// exclusively.
func (h *Handle) invalidate() {
	h.pool = nil
	h.conn = nil
	h.index = -1
}
