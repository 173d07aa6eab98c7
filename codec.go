package pgdock

import (
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pgdock/pgdock/internal/bufpool"
)

// typeMap backs the package-level codec helpers. pgtype.Map memoizes plans
// on use, so access is serialized.
var (
	typeMapMu sync.Mutex
	typeMap   = pgtype.NewMap()
)

// UnescapeBytea decodes a bytea literal in the textual representation, as
// returned for text-format bytea fields (hex form, the server default), into
// a binary Data. The decoded storage comes back to an internal recycling
// pool when the result is closed.
func UnescapeBytea(src []byte) (Data, error) {
	if len(src) == 0 {
		return Empty(FormatBinary), nil
	}
	var out []byte
	typeMapMu.Lock()
	err := typeMap.Scan(pgtype.ByteaOID, pgtype.TextFormatCode, src, &out)
	typeMapMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("failed to decode bytea literal: %w", err)
	}
	if len(out) == 0 {
		return Empty(FormatBinary), nil
	}
	return AdoptData(out, func() { bufpool.Put(out) }, FormatBinary), nil
}

// EncodeData renders value in the given format for the type identified by
// oid, using the driver's type registry. A nil value, or a value that encodes
// as SQL NULL (an invalid pgtype value, a nil pointer), yields a nil Data.
// The returned payload may hold recycled storage; close it when done to hand
// the buffer back.
func EncodeData(oid uint32, format Format, value any) (Data, error) {
	if !format.IsValid() {
		return nil, fmt.Errorf("cannot encode with %v format", format)
	}
	if value == nil {
		return nil, nil
	}
	buf := bufpool.Get(0)
	typeMapMu.Lock()
	out, err := typeMap.Encode(oid, format.Code(), value, buf)
	typeMapMu.Unlock()
	if err != nil {
		bufpool.Put(buf)
		return nil, fmt.Errorf("failed to encode value: %w", err)
	}
	if out == nil {
		// The driver reports NULL as a nil buffer.
		bufpool.Put(buf)
		return nil, nil
	}
	if len(out) == 0 {
		bufpool.Put(buf)
		return Empty(format), nil
	}
	return AdoptData(out, func() { bufpool.Put(out) }, format), nil
}

// ScanData reads d into dst for the type identified by oid, honoring the
// payload's format. dst follows the driver's scanning rules, for example
// *string, *int64, or *pgtype.Int8. A nil Data scans as SQL NULL.
func ScanData(oid uint32, d Data, dst any) error {
	format := FormatText
	var src []byte
	if d != nil {
		format = d.Format()
		if !format.IsValid() {
			return fmt.Errorf("cannot scan data with %v format", format)
		}
		src = d.Bytes()
	}
	typeMapMu.Lock()
	err := typeMap.Scan(oid, format.Code(), src, dst)
	typeMapMu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to scan value: %w", err)
	}
	return nil
}
