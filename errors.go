package pgdock

import "errors"

var (
	// ErrNotConnected is returned by operations that need an open session
	// when the connection has not been established or has been closed.
	ErrNotConnected = errors.New("connection is not open")

	// ErrTooManyParams is returned when a statement is given more than
	// 65535 parameters, the most the PostgreSQL protocol can carry.
	ErrTooManyParams = errors.New("too many statement parameters")
)
