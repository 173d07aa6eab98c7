// Package pgdock provides client-side connection pooling and payload
// management for PostgreSQL, working at the protocol level of the pgconn
// driver.
//
// A Pool owns a fixed number of connections and hands them out exclusively
// through revocable Handles. Acquisition never waits: an exhausted or
// disconnected pool yields an invalid Handle, which is expected traffic
// rather than an error. Releasing a handle runs a configurable hook that by
// default resets server-side session state with DISCARD ALL.
//
// Basic usage:
//
//	pool, err := pgdock.NewPool(pgdock.PoolConfig{
//		Size:    4,
//		Options: pgdock.OptionsFromEnv(),
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := pool.Connect(ctx); err != nil {
//		log.Fatal(err)
//	}
//	defer pool.Disconnect()
//
//	handle := pool.Acquire()
//	if !handle.IsValid() {
//		return errBusy // every connection is checked out; try again later
//	}
//	defer handle.Close() // or defer handle.Release(ctx)
//
//	_, err = handle.Conn().Execute(ctx, func(row pgdock.Row) error {
//		fmt.Println(row.Field(0).Bytes())
//		return nil
//	}, "SELECT now()")
//
// Statement parameters and result fields travel as Data payloads, which
// carry their wire format (text or binary) alongside the bytes and make the
// ownership of the storage explicit: owned buffers, adopted foreign
// allocations released exactly once, borrowed views, and the empty payload.
// See NewData, NewDataCopy, NewDataView, AdoptData, EncodeData, and
// UnescapeBytea.
package pgdock
