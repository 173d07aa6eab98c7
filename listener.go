package pgdock

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgxlisten"
)

// NewListener returns a LISTEN/NOTIFY listener that dials a dedicated
// session from the pool's connection options, separate from the pooled
// connections. Register channel handlers with Handle and then run Listen,
// which blocks until its context is canceled:
//
//	listener := pool.NewListener()
//	listener.Handle("jobs", handler)
//	go func() { _ = listener.Listen(ctx) }()
func (p *Pool) NewListener() *pgxlisten.Listener {
	return &pgxlisten.Listener{
		Connect: func(ctx context.Context) (*pgx.Conn, error) {
			return pgx.Connect(ctx, p.opts.ConnString())
		},
	}
}
