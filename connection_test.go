package pgdock_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgdock/pgdock"
)

func TestNewConnection(t *testing.T) {
	conn, err := pgdock.NewConnection(pgdock.Options{})
	require.NoError(t, err)
	assert.False(t, conn.IsConnected())
	assert.NotEqual(t, uuid.Nil, conn.ID())
	assert.Nil(t, conn.PgConn())
	assert.Equal(t, pgdock.FormatText, conn.ResultFormat())

	_, err = pgdock.NewConnection(pgdock.Options{ConnectTimeout: -time.Second})
	assert.Error(t, err)
}

func TestConnectionNotConnected(t *testing.T) {
	conn, err := pgdock.NewConnection(pgdock.Options{})
	require.NoError(t, err)
	ctx := context.Background()

	_, execErr := conn.Execute(ctx, nil, "SELECT 1")
	assert.ErrorIs(t, execErr, pgdock.ErrNotConnected)

	_, prepErr := conn.Prepare(ctx, "s", "SELECT 1")
	assert.ErrorIs(t, prepErr, pgdock.ErrNotConnected)

	assert.ErrorIs(t, conn.Ping(ctx), pgdock.ErrNotConnected)

	// Closing a session that never opened is fine.
	conn.Disconnect(ctx)
	require.NoError(t, conn.Close())
}

func TestConnectionConnectFailure(t *testing.T) {
	conn, err := pgdock.NewConnection(pgdock.Options{
		Host:           "localhost",
		Port:           1,
		ConnectTimeout: 2 * time.Second,
	})
	require.NoError(t, err)

	err = conn.Connect(context.Background())
	require.Error(t, err)
	assert.False(t, conn.IsConnected())
}

func TestConnectionResultFormat(t *testing.T) {
	conn, err := pgdock.NewConnection(pgdock.Options{})
	require.NoError(t, err)

	conn.SetResultFormat(pgdock.FormatBinary)
	assert.Equal(t, pgdock.FormatBinary, conn.ResultFormat())

	// Anything but binary behaves as text.
	conn.SetResultFormat(pgdock.FormatInvalid)
	assert.Equal(t, pgdock.FormatText, conn.ResultFormat())

	conn.SetResultFormat(pgdock.FormatText)
	assert.Equal(t, pgdock.FormatText, conn.ResultFormat())
}
