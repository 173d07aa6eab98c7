package pgdock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Handler is a hook the pool runs against a single connection: once per
// connection while the pool connects, and on every release of a checked-out
// connection. Handlers run with the pool lock held and therefore must not
// call back into the pool.
type Handler func(ctx context.Context, conn *Connection) error

// DefaultReleaseHandler resets server-side session state by executing
// DISCARD ALL on the connection being returned. Pools install it unless the
// configuration names another release handler.
func DefaultReleaseHandler(ctx context.Context, conn *Connection) error {
	_, err := conn.Execute(ctx, nil, "DISCARD ALL")
	return err
}

// disconnectTimeout bounds the close handshake of connections the pool shuts
// down on paths that take no caller context.
const disconnectTimeout = 5 * time.Second

// slot pairs a pooled connection with its checkout state. The connection
// moves out while checked out and returns on release; a free slot always
// holds one.
type slot struct {
	conn *Connection
	busy bool
}

// PoolConfig configures NewPool.
type PoolConfig struct {
	// Size is the fixed number of pooled connections.
	Size int
	// Options configure every pooled connection.
	Options Options
	// Logger receives pool and connection events. nil means no logging.
	Logger *zap.Logger
	// ConnectHandler, when set, runs once per connection during Connect.
	ConnectHandler Handler
	// ReleaseHandler runs on each release while the pool is connected.
	// nil installs DefaultReleaseHandler; clear the hook after construction
	// with SetReleaseHandler(nil) if no release work is wanted.
	ReleaseHandler Handler
}

func (c PoolConfig) Validate() error {
	if c.Size <= 0 {
		return fmt.Errorf("pool size must be positive: given %d", c.Size)
	}
	if err := c.Options.Validate(); err != nil {
		return fmt.Errorf("invalid connection options: %w", err)
	}
	return nil
}

// Pool is a fixed-size set of connections handed out exclusively through
// Handles. Acquisition never waits: when nothing is free the caller gets an
// invalid Handle back immediately. All methods are safe for concurrent use.
type Pool struct {
	mu        sync.Mutex
	slots     []slot
	connected bool

	connectHandler Handler
	releaseHandler Handler

	opts   Options
	logger *zap.Logger
	stat   poolCounters
}

type poolCounters struct {
	acquires      uint64
	emptyAcquires uint64
	releases      uint64
	discards      uint64
}

// NewPool builds a disconnected pool of conf.Size connections.
func NewPool(conf PoolConfig) (*Pool, error) {
	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("invalid pool configuration: %w", err)
	}
	logger := conf.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Pool{
		slots:          make([]slot, conf.Size),
		connectHandler: conf.ConnectHandler,
		releaseHandler: conf.ReleaseHandler,
		opts:           conf.Options,
		logger:         logger,
	}
	if p.releaseHandler == nil {
		p.releaseHandler = DefaultReleaseHandler
	}
	for i := range p.slots {
		conn, err := NewConnection(conf.Options)
		if err != nil {
			return nil, fmt.Errorf("failed to build pooled connection: %w", err)
		}
		conn.SetLogger(logger)
		p.slots[i].conn = conn
	}
	return p, nil
}

// IsValid reports whether the pool has slots at all. The zero Pool is
// invalid and inert.
func (p *Pool) IsValid() bool { return len(p.slots) > 0 }

// Size returns the number of slots, fixed at construction.
func (p *Pool) Size() int { return len(p.slots) }

// IsConnected reports whether Connect has completed since the last
// Disconnect.
func (p *Pool) IsConnected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.connected
}

// SetConnectHandler replaces the hook run once per connection during
// Connect. nil clears it.
func (p *Pool) SetConnectHandler(h Handler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.connectHandler = h
}

// ConnectHandler returns the current connect hook.
func (p *Pool) ConnectHandler() Handler {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.connectHandler
}

// SetReleaseHandler replaces the hook run on each release while the pool is
// connected. nil clears it so releases skip session reset entirely.
func (p *Pool) SetReleaseHandler(h Handler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.releaseHandler = h
}

// ReleaseHandler returns the current release hook.
func (p *Pool) ReleaseHandler() Handler {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.releaseHandler
}

// Connect opens every pooled connection and runs the connect handler once on
// each. Connecting a connected pool is a no-op, and checked-out slots are
// left alone. On failure the pool stays disconnected but keeps the
// connections opened so far; a later Connect picks up from there, running
// the handler only on connections it opens itself. A connect handler failure
// closes the connection it ran on, so the retry reaches it again.
func (p *Pool) Connect(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.connected || len(p.slots) == 0 {
		return nil
	}
	for i := range p.slots {
		s := &p.slots[i]
		if s.busy || s.conn.IsConnected() {
			continue
		}
		if err := s.conn.Connect(ctx); err != nil {
			return fmt.Errorf("failed to connect pooled connection %d: %w", i, err)
		}
		if p.connectHandler != nil {
			if err := p.connectHandler(ctx, s.conn); err != nil {
				s.conn.Disconnect(ctx)
				return fmt.Errorf("connect handler failed on connection %d: %w", i, err)
			}
		}
	}
	p.connected = true
	p.logger.Info("pool connected", zap.Int("size", len(p.slots)))
	return nil
}

// Disconnect closes every connection sitting free in the pool and marks the
// pool disconnected. Checked-out connections stay open and usable through
// their handles; they are closed when released. Disconnect never fails.
func (p *Pool) Disconnect() {
	p.mu.Lock()
	defer p.mu.Unlock()
	ctx, cancel := context.WithTimeout(context.Background(), disconnectTimeout)
	defer cancel()
	for i := range p.slots {
		s := &p.slots[i]
		if !s.busy && s.conn.IsConnected() {
			s.conn.Disconnect(ctx)
		}
	}
	if p.connected {
		p.logger.Info("pool disconnected")
	}
	p.connected = false
}

// Acquire claims the first free open connection, never waiting. The Handle
// is invalid when the pool is disconnected or has nothing free; an
// exhausted pool is expected traffic, not an error.
func (p *Pool) Acquire() *Handle {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.connected {
		for i := range p.slots {
			s := &p.slots[i]
			if s.busy || !s.conn.IsConnected() {
				continue
			}
			conn := s.conn
			s.conn = nil
			s.busy = true
			p.stat.acquires++
			return &Handle{pool: p, conn: conn, index: i}
		}
	}
	p.stat.emptyAcquires++
	return &Handle{}
}

// Release returns a checked-out connection to its slot. While the pool is
// connected the release handler runs first; a handler failure is logged and
// the connection is closed instead of going back open, leaving its slot out
// of rotation until the pool is disconnected and connected again. Releasing
// into a disconnected pool closes the connection. Invalid and foreign
// handles are no-ops, a foreign release leaves the handle untouched, and
// the zero Pool ignores every handle. Release never fails; a handle the
// pool owns is invalid afterwards.
func (p *Pool) Release(ctx context.Context, h *Handle) {
	if h == nil || !h.IsValid() || !p.IsValid() {
		return
	}
	if h.pool != p {
		p.logger.Warn("handle released into a pool it does not belong to")
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	conn := h.conn
	index := h.index
	h.invalidate()
	if index < 0 || index >= len(p.slots) || !p.slots[index].busy {
		p.logger.Warn("release of an unknown handle", zap.Int("index", index))
		return
	}
	if p.connected {
		if p.releaseHandler != nil {
			if err := p.releaseHandler(ctx, conn); err != nil {
				p.logger.Warn("release handler failed, closing connection",
					zap.Int("index", index),
					zap.Error(err),
				)
				conn.Disconnect(ctx)
				p.stat.discards++
			}
		}
	} else {
		conn.Disconnect(ctx)
		p.stat.discards++
	}
	p.slots[index].conn = conn
	p.slots[index].busy = false
	p.stat.releases++
}

// PoolStat is a snapshot of pool occupancy and lifetime counters.
type PoolStat struct {
	// Size is the slot count; Busy and Free split it by checkout state.
	Size int
	Busy int
	Free int
	// Acquires counts successful checkouts and EmptyAcquires the attempts
	// that found no free open connection.
	Acquires      uint64
	EmptyAcquires uint64
	// Releases counts handles returned; Discards counts connections closed
	// during release.
	Releases uint64
	Discards uint64
}

// Stat returns a snapshot of the pool's counters and occupancy.
func (p *Pool) Stat() PoolStat {
	p.mu.Lock()
	defer p.mu.Unlock()
	st := PoolStat{
		Size:          len(p.slots),
		Acquires:      p.stat.acquires,
		EmptyAcquires: p.stat.emptyAcquires,
		Releases:      p.stat.releases,
		Discards:      p.stat.discards,
	}
	for i := range p.slots {
		if p.slots[i].busy {
			st.Busy++
		}
	}
	st.Free = st.Size - st.Busy
	return st
}
