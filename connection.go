package pgdock

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// Connection is a single session with a PostgreSQL server, working at the
// protocol level of the pgconn driver. It is not safe for concurrent use;
// the pool exists to hand each goroutine its own.
type Connection struct {
	id     uuid.UUID
	opts   Options
	logger *zap.Logger

	pg           *pgconn.PgConn
	resultFormat Format
	stmtSeq      int
}

// NewConnection returns an unconnected session configured with opts.
func NewConnection(opts Options) (*Connection, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid connection options: %w", err)
	}
	return &Connection{
		id:           uuid.New(),
		opts:         opts,
		logger:       zap.NewNop(),
		resultFormat: FormatText,
	}, nil
}

// SetLogger directs the session's log output. A nil logger silences it.
func (c *Connection) SetLogger(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	c.logger = logger
}

// ID returns the client-side identity of the session, fixed at construction.
func (c *Connection) ID() uuid.UUID { return c.id }

// Options returns the connection parameters the session was built with.
func (c *Connection) Options() Options { return c.opts }

// PgConn exposes the underlying driver connection for operations this
// package does not wrap, such as COPY. It is nil until Connect succeeds.
func (c *Connection) PgConn() *pgconn.PgConn { return c.pg }

// IsConnected reports whether the session is open.
func (c *Connection) IsConnected() bool {
	return c.pg != nil && !c.pg.IsClosed()
}

// Connect opens the session. Connecting an open session is a no-op.
// Server notices arriving on the session are logged at Debug level.
func (c *Connection) Connect(ctx context.Context) error {
	if c.IsConnected() {
		return nil
	}
	conf, err := c.opts.connConfig()
	if err != nil {
		return err
	}
	conf.OnNotice = func(_ *pgconn.PgConn, n *pgconn.Notice) {
		p := &Problem{err: (*pgconn.PgError)(n)}
		c.logger.Debug("server notice",
			zap.String("connection_id", c.id.String()),
			zap.String("severity", p.SeverityString()),
			zap.String("sqlstate", p.SQLState()),
			zap.String("brief", p.Brief()),
		)
	}
	pg, err := pgconn.ConnectConfig(ctx, conf)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", wrapServerError(err))
	}
	c.pg = pg
	c.logger.Debug("connection established",
		zap.String("connection_id", c.id.String()),
		zap.String("host", conf.Host),
		zap.String("database", conf.Database),
	)
	return nil
}

// Disconnect closes the session. It is safe to call on a session that never
// connected or is already closed.
func (c *Connection) Disconnect(ctx context.Context) {
	if c.pg == nil {
		return
	}
	if err := c.pg.Close(ctx); err != nil {
		c.logger.Debug("connection close reported an error",
			zap.String("connection_id", c.id.String()),
			zap.Error(err),
		)
	}
	c.pg = nil
	c.logger.Debug("connection closed", zap.String("connection_id", c.id.String()))
}

// Close disconnects with a background context, for use with defer.
func (c *Connection) Close() error {
	c.Disconnect(context.Background())
	return nil
}

// ResultFormat returns the representation requested for result fields.
func (c *Connection) ResultFormat() Format { return c.resultFormat }

// SetResultFormat selects the representation servers use for the result
// fields of subsequent statements. The default is FormatText; anything but
// FormatBinary behaves as text.
func (c *Connection) SetResultFormat(f Format) {
	if f != FormatBinary {
		f = FormatText
	}
	c.resultFormat = f
}

// Ping verifies the session round-trips to the server.
func (c *Connection) Ping(ctx context.Context) error {
	_, err := c.Execute(ctx, nil, "select 1")
	return err
}

// Execute runs sql with positional parameters bound from args, streaming
// result rows through fn. A nil fn discards rows. Pass a nil Data for SQL
// NULL; every other parameter travels with its own format. Rows and the
// views taken from them are valid only until fn returns: a non-nil fn error
// aborts iteration and comes back from Execute.
func (c *Connection) Execute(ctx context.Context, fn func(Row) error, sql string, args ...Data) (pgconn.CommandTag, error) {
	if !c.IsConnected() {
		return pgconn.CommandTag{}, ErrNotConnected
	}
	values, formats, err := encodeParams(args)
	if err != nil {
		return pgconn.CommandTag{}, err
	}
	rr := c.pg.ExecParams(ctx, sql, values, nil, formats, c.resultFormats())
	return drainResult(rr, fn)
}

// Prepare creates a server-side prepared statement. An empty name derives
// one from the session identity so ad hoc statements do not collide.
func (c *Connection) Prepare(ctx context.Context, name, sql string) (*Statement, error) {
	if !c.IsConnected() {
		return nil, ErrNotConnected
	}
	if name == "" {
		c.stmtSeq++
		name = fmt.Sprintf("pgdock_%s_%d", c.id.String()[:8], c.stmtSeq)
	}
	desc, err := c.pg.Prepare(ctx, name, sql, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare statement %q: %w", name, wrapServerError(err))
	}
	return &Statement{conn: c, name: name, desc: desc}, nil
}

// resultFormats renders the session's result format the way the wire wants
// it: nil requests text for everything, a single binary code broadcasts to
// every column.
func (c *Connection) resultFormats() []int16 {
	if c.resultFormat == FormatBinary {
		return []int16{FormatBinary.Code()}
	}
	return nil
}

// encodeParams flattens args into the value and format slices the driver
// takes. A nil Data becomes NULL and its format slot falls back to text.
func encodeParams(args []Data) ([][]byte, []int16, error) {
	if len(args) == 0 {
		return nil, nil, nil
	}
	if len(args) > math.MaxUint16 {
		return nil, nil, ErrTooManyParams
	}
	values := make([][]byte, len(args))
	formats := make([]int16, len(args))
	for i, a := range args {
		if a == nil {
			formats[i] = FormatText.Code()
			continue
		}
		f := a.Format()
		if !f.IsValid() {
			return nil, nil, fmt.Errorf("parameter %d has %v format", i+1, f)
		}
		values[i] = a.Bytes()
		formats[i] = f.Code()
	}
	return values, formats, nil
}
