package pgdock

// DataView is a Data that borrows storage owned elsewhere, typically a field
// of the result row the driver is currently holding. Views are plain values;
// copying one copies the reference, not the bytes.
//
// The zero DataView is the invalid view: it has no bytes, reports
// FormatInvalid, and IsValid returns false. Row.Field returns it for SQL
// NULL fields.
type DataView struct {
	b      []byte
	format Format
}

// IsValid reports whether v refers to actual payload storage.
func (v DataView) IsValid() bool { return v.b != nil }

// Format returns the wire representation, or FormatInvalid for the invalid
// view.
func (v DataView) Format() Format {
	if v.b == nil {
		return FormatInvalid
	}
	return v.format
}

func (v DataView) Size() int     { return len(v.b) }
func (v DataView) IsEmpty() bool { return len(v.b) == 0 }

func (v DataView) Bytes() []byte {
	if v.b == nil {
		return emptyBytes()
	}
	return v.b
}

// Copy returns an owning Data with the same bytes; the result never borrows
// from v. Copying the invalid view yields an empty payload that keeps the
// invalid format.
func (v DataView) Copy() Data { return NewDataCopy(v.b, v.Format()) }

// Close is a no-op: borrowed storage is not the view's to release.
func (v DataView) Close() error { return nil }
