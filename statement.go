package pgdock

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Statement is a statement prepared on a specific Connection. It is bound to
// that session and stops working once the session closes.
type Statement struct {
	conn *Connection
	name string
	desc *pgconn.StatementDescription
}

// Name returns the server-side statement name.
func (s *Statement) Name() string { return s.name }

// SQL returns the statement text as prepared.
func (s *Statement) SQL() string { return s.desc.SQL }

// ParamCount returns the number of parameters the statement expects.
func (s *Statement) ParamCount() int { return len(s.desc.ParamOIDs) }

// Fields describes the result columns the statement produces.
func (s *Statement) Fields() []pgconn.FieldDescription { return s.desc.Fields }

// Execute runs the prepared statement with positional parameters bound from
// args, streaming rows through fn under the same rules as
// Connection.Execute.
func (s *Statement) Execute(ctx context.Context, fn func(Row) error, args ...Data) (pgconn.CommandTag, error) {
	c := s.conn
	if !c.IsConnected() {
		return pgconn.CommandTag{}, ErrNotConnected
	}
	if len(args) != s.ParamCount() {
		return pgconn.CommandTag{}, fmt.Errorf("statement %q expects %d parameters: given %d",
			s.name, s.ParamCount(), len(args),
		)
	}
	values, formats, err := encodeParams(args)
	if err != nil {
		return pgconn.CommandTag{}, err
	}
	rr := c.pg.ExecPrepared(ctx, s.name, values, formats, c.resultFormats())
	return drainResult(rr, fn)
}

// Deallocate drops the statement from the server. The statement must not be
// used afterwards. Deallocating on a closed session is a no-op.
func (s *Statement) Deallocate(ctx context.Context) error {
	if !s.conn.IsConnected() {
		return nil
	}
	if err := s.conn.pg.Deallocate(ctx, s.name); err != nil {
		return fmt.Errorf("failed to deallocate statement %q: %w", s.name, wrapServerError(err))
	}
	return nil
}
