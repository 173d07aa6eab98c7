package pgdock_test

import (
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgdock/pgdock"
)

func TestUnescapeBytea(t *testing.T) {
	t.Run("decodes the hex form", func(t *testing.T) {
		d, err := pgdock.UnescapeBytea([]byte(`\x68656c6c6f`))
		require.NoError(t, err)
		defer d.Close()
		assert.Equal(t, pgdock.FormatBinary, d.Format())
		assert.Equal(t, []byte("hello"), d.Bytes())
	})

	t.Run("the empty literal yields the empty payload", func(t *testing.T) {
		d, err := pgdock.UnescapeBytea([]byte(`\x`))
		require.NoError(t, err)
		defer d.Close()
		assert.True(t, d.IsEmpty())
		assert.Equal(t, pgdock.FormatBinary, d.Format())
		assert.NotNil(t, d.Bytes())
	})

	t.Run("zero-length input yields the empty payload", func(t *testing.T) {
		d, err := pgdock.UnescapeBytea(nil)
		require.NoError(t, err)
		assert.True(t, d.IsEmpty())
	})

	t.Run("rejects malformed literals", func(t *testing.T) {
		_, err := pgdock.UnescapeBytea([]byte(`\xZZ`))
		assert.Error(t, err)
	})

	t.Run("the result survives closing twice", func(t *testing.T) {
		d, err := pgdock.UnescapeBytea([]byte(`\x00ff`))
		require.NoError(t, err)
		assert.Equal(t, []byte{0x00, 0xff}, d.Bytes())
		require.NoError(t, d.Close())
		require.NoError(t, d.Close())
		assert.True(t, d.IsEmpty(), "the payload reads as empty once its storage is recycled")
	})
}

func TestEncodeData(t *testing.T) {
	t.Run("renders the text form", func(t *testing.T) {
		d, err := pgdock.EncodeData(pgtype.Int8OID, pgdock.FormatText, int64(42))
		require.NoError(t, err)
		defer d.Close()
		assert.Equal(t, pgdock.FormatText, d.Format())
		assert.Equal(t, []byte("42"), d.Bytes())
	})

	t.Run("renders the binary form", func(t *testing.T) {
		d, err := pgdock.EncodeData(pgtype.Int8OID, pgdock.FormatBinary, int64(258))
		require.NoError(t, err)
		defer d.Close()
		assert.Equal(t, pgdock.FormatBinary, d.Format())
		assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 1, 2}, d.Bytes(), "int8 binary form is big-endian")
	})

	t.Run("nil stands for NULL", func(t *testing.T) {
		d, err := pgdock.EncodeData(pgtype.TextOID, pgdock.FormatText, nil)
		require.NoError(t, err)
		assert.Nil(t, d)
	})

	t.Run("invalid driver values encode as NULL", func(t *testing.T) {
		d, err := pgdock.EncodeData(pgtype.Int8OID, pgdock.FormatBinary, pgtype.Int8{Valid: false})
		require.NoError(t, err)
		assert.Nil(t, d)
	})

	t.Run("the empty string becomes the empty payload", func(t *testing.T) {
		d, err := pgdock.EncodeData(pgtype.TextOID, pgdock.FormatText, "")
		require.NoError(t, err)
		assert.True(t, d.IsEmpty())
		assert.NotNil(t, d.Bytes())
	})

	t.Run("rejects the invalid format", func(t *testing.T) {
		_, err := pgdock.EncodeData(pgtype.TextOID, pgdock.FormatInvalid, "x")
		assert.Error(t, err)
	})

	t.Run("rejects unencodable values", func(t *testing.T) {
		_, err := pgdock.EncodeData(pgtype.Int8OID, pgdock.FormatBinary, struct{ X int }{1})
		assert.Error(t, err)
	})
}

func TestScanData(t *testing.T) {
	t.Run("reads text payloads into Go values", func(t *testing.T) {
		var n int64
		err := pgdock.ScanData(pgtype.Int8OID, pgdock.NewDataView([]byte("123"), pgdock.FormatText), &n)
		require.NoError(t, err)
		assert.Equal(t, int64(123), n)
	})

	t.Run("round-trips binary payloads", func(t *testing.T) {
		d, err := pgdock.EncodeData(pgtype.Int8OID, pgdock.FormatBinary, int64(-7))
		require.NoError(t, err)
		defer d.Close()

		var n int64
		require.NoError(t, pgdock.ScanData(pgtype.Int8OID, d, &n))
		assert.Equal(t, int64(-7), n)
	})

	t.Run("nil scans as NULL", func(t *testing.T) {
		var v pgtype.Int8
		require.NoError(t, pgdock.ScanData(pgtype.Int8OID, nil, &v))
		assert.False(t, v.Valid)
	})

	t.Run("rejects the invalid format", func(t *testing.T) {
		var n int64
		err := pgdock.ScanData(pgtype.Int8OID, pgdock.DataView{}, &n)
		assert.Error(t, err)
	})
}
